// Package gerrors defines the error taxonomy shared by every chronograph
// package: a typed GraphError with a fluent builder, in the spirit of the
// storage.StorageError builder this project is adapted from.
package gerrors

import (
	"errors"
	"fmt"
)

// Sentinel causes. Wrap one of these in a GraphError via the builder below.
var (
	ErrPropTypeMismatch = errors.New("property type mismatch")
	ErrUnknownProperty  = errors.New("unknown property")
	ErrUnknownVertex    = errors.New("unknown vertex")
	ErrStateSize        = errors.New("state vector size mismatch")
	ErrShardMismatch    = errors.New("shard routing mismatch")
)

// GraphError provides structured error information for graph operations.
type GraphError struct {
	Op      string // Operation that failed (e.g. "AddEdge", "PropertyHistory")
	Entity  string // Entity kind (e.g. "vertex", "edge", "property")
	ID      uint64 // Entity id, if applicable
	Field   string // Property/field name, if applicable
	Cause   error
	Context string
}

// Error implements the error interface.
func (e *GraphError) Error() string {
	if e.ID != 0 {
		if e.Field != "" {
			return fmt.Sprintf("%s %s %d (field %s): %v", e.Op, e.Entity, e.ID, e.Field, e.Cause)
		}
		return fmt.Sprintf("%s %s %d: %v", e.Op, e.Entity, e.ID, e.Cause)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s %s (field %s): %v", e.Op, e.Entity, e.Field, e.Cause)
	}
	if e.Context != "" {
		return fmt.Sprintf("%s %s (%s): %v", e.Op, e.Entity, e.Context, e.Cause)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *GraphError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error's cause.
func (e *GraphError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

// Builder provides a fluent interface for constructing GraphErrors.
type Builder struct {
	err GraphError
}

// New starts a builder for the given operation name.
func New(op string) *Builder {
	return &Builder{err: GraphError{Op: op}}
}

// Vertex sets the entity to "vertex" with the given pid/gid.
func (b *Builder) Vertex(id uint64) *Builder {
	b.err.Entity = "vertex"
	b.err.ID = id
	return b
}

// Edge sets the entity to "edge" with the given id.
func (b *Builder) Edge(id uint64) *Builder {
	b.err.Entity = "edge"
	b.err.ID = id
	return b
}

// Property sets the entity to "property" with the given field name.
func (b *Builder) Property(name string) *Builder {
	b.err.Entity = "property"
	b.err.Field = name
	return b
}

// State sets the entity to "state".
func (b *Builder) State() *Builder {
	b.err.Entity = "state"
	return b
}

// Shard sets the entity to "shard".
func (b *Builder) Shard() *Builder {
	b.err.Entity = "shard"
	return b
}

// Context attaches free-form context to the error.
func (b *Builder) Context(ctx string) *Builder {
	b.err.Context = ctx
	return b
}

// Cause sets the underlying error cause.
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Build returns the constructed *GraphError.
func (b *Builder) Build() *GraphError {
	return &b.err
}

// Err returns the constructed error as the error interface.
func (b *Builder) Err() error {
	return &b.err
}

// Convenience constructors for the most common cases.

// PropTypeMismatch reports a write of a different variant than a property's
// first-seen type.
func PropTypeMismatch(field string) error {
	return New("write").Property(field).Cause(ErrPropTypeMismatch).Err()
}

// UnknownProperty reports a read of a property name never written on the
// entity.
func UnknownProperty(field string) error {
	return New("read").Property(field).Cause(ErrUnknownProperty).Err()
}

// StateSize reports a state column whose length does not match n_nodes.
func StateSize(context string) error {
	return New("attach").State().Context(context).Cause(ErrStateSize).Err()
}

// IsNotFound reports whether err is an unknown-vertex/unknown-property error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUnknownVertex) || errors.Is(err, ErrUnknownProperty)
}
