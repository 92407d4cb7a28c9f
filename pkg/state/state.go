// Package state implements the dense, vertex-indexed columns a view can be
// decorated with (StateVec) plus a thin name-to-column adapter (Table).
// Per the relationship between the two being left open by the reference
// this was distilled from, StateVec is treated as canonical and Table is
// purely a lookup convenience over a set of published StateVec columns.
package state

import "github.com/dd0wney/chronograph/pkg/gerrors"

// StateVec is a dense, immutable-once-built vector of length n, indexed by
// position in a view's vertex ordering (not by gid directly — the view
// that published a column is responsible for matching position to gid).
type StateVec[T any] struct {
	values []T
	set    []bool
}

// NewEmptyState returns a column of length n with every entry unset.
func NewEmptyState[T any](n int) *StateVec[T] {
	return &StateVec[T]{values: make([]T, n), set: make([]bool, n)}
}

// NewFullState returns a column of length n with every entry set to v.
func NewFullState[T any](n int, v T) *StateVec[T] {
	values := make([]T, n)
	set := make([]bool, n)
	for i := range values {
		values[i] = v
		set[i] = true
	}
	return &StateVec[T]{values: values, set: set}
}

// NewStateFromSlice builds a column from vs directly; every entry is set.
func NewStateFromSlice[T any](vs []T) *StateVec[T] {
	values := make([]T, len(vs))
	copy(values, vs)
	set := make([]bool, len(vs))
	for i := range set {
		set[i] = true
	}
	return &StateVec[T]{values: values, set: set}
}

// NewStateFromIter collects an iterator-shaped slice into a column,
// failing with gerrors.ErrStateSize if its length does not equal n.
func NewStateFromIter[T any](items []T, n int) (*StateVec[T], error) {
	if len(items) != n {
		return nil, gerrors.StateSize("state vector length does not match n_nodes")
	}
	return NewStateFromSlice(items), nil
}

// Len returns the column's length.
func (s *StateVec[T]) Len() int {
	return len(s.values)
}

// Get returns the value at position i and whether it is set.
func (s *StateVec[T]) Get(i int) (T, bool) {
	if i < 0 || i >= len(s.values) {
		var zero T
		return zero, false
	}
	return s.values[i], s.set[i]
}

// AsSlice returns a defensive copy of the underlying values. Unset
// positions hold their type's zero value.
func (s *StateVec[T]) AsSlice() []T {
	out := make([]T, len(s.values))
	copy(out, s.values)
	return out
}

// Table is a name-to-column adapter over a set of published StateVec
// columns of possibly different element types, keyed by name. It never
// owns storage of its own: it is the "state()" a view hands back after a
// chain of with_state calls.
type Table struct {
	columns map[string]any
	n       int
}

// NewTable creates an empty table for a view with n vertices.
func NewTable(n int) *Table {
	return &Table{columns: make(map[string]any), n: n}
}

// With returns a new Table with column published under name, sharing every
// other column with t (state is immutable once attached: this never
// mutates t). Returns gerrors.ErrStateSize if column's length does not
// equal the table's vertex count.
func WithColumn[T any](t *Table, name string, column *StateVec[T]) (*Table, error) {
	if column.Len() != t.n {
		return nil, gerrors.StateSize("column length does not match view vertex count")
	}
	next := &Table{columns: make(map[string]any, len(t.columns)+1), n: t.n}
	for k, v := range t.columns {
		next.columns[k] = v
	}
	next.columns[name] = column
	return next, nil
}

// Column retrieves a previously published column by name, type-asserted
// to T. ok is false if the name is unknown or was published at a
// different type.
func Column[T any](t *Table, name string) (*StateVec[T], bool) {
	raw, ok := t.columns[name]
	if !ok {
		return nil, false
	}
	col, ok := raw.(*StateVec[T])
	return col, ok
}

// Names returns every published column name.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.columns))
	for name := range t.columns {
		names = append(names, name)
	}
	return names
}

// N returns the vertex count this table's columns are indexed over.
func (t *Table) N() int {
	return t.n
}
