// Package tprop implements the temporal value containers of the graph
// store: the tagged Prop scalar, the TCell append-only (time, value)
// history, and the variant-locked TProp typed property.
package tprop

import "fmt"

// Kind tags the variant carried by a Prop. The eight variants mirror the
// original docbrown core's Prop enum exactly.
type Kind uint8

const (
	Str Kind = iota
	I32
	I64
	U32
	U64
	F32
	F64
	Bool
)

// String returns the kind's name, for error messages and logging fields.
func (k Kind) String() string {
	switch k {
	case Str:
		return "Str"
	case I32:
		return "I32"
	case I64:
		return "I64"
	case U32:
		return "U32"
	case U64:
		return "U64"
	case F32:
		return "F32"
	case F64:
		return "F64"
	case Bool:
		return "Bool"
	default:
		return "Unknown"
	}
}

// Prop is a tagged scalar property value. Exactly one of the fields is
// meaningful, selected by Kind.
type Prop struct {
	Kind Kind
	str  string
	i32  int32
	i64  int64
	u32  uint32
	u64  uint64
	f32  float32
	f64  float64
	b    bool
}

func StrProp(v string) Prop  { return Prop{Kind: Str, str: v} }
func I32Prop(v int32) Prop   { return Prop{Kind: I32, i32: v} }
func I64Prop(v int64) Prop   { return Prop{Kind: I64, i64: v} }
func U32Prop(v uint32) Prop  { return Prop{Kind: U32, u32: v} }
func U64Prop(v uint64) Prop  { return Prop{Kind: U64, u64: v} }
func F32Prop(v float32) Prop { return Prop{Kind: F32, f32: v} }
func F64Prop(v float64) Prop { return Prop{Kind: F64, f64: v} }
func BoolProp(v bool) Prop   { return Prop{Kind: Bool, b: v} }

// AsStr returns the string payload; ok is false if Kind != Str.
func (p Prop) AsStr() (string, bool) { return p.str, p.Kind == Str }

// AsI32 returns the int32 payload; ok is false if Kind != I32.
func (p Prop) AsI32() (int32, bool) { return p.i32, p.Kind == I32 }

// AsI64 returns the int64 payload; ok is false if Kind != I64.
func (p Prop) AsI64() (int64, bool) { return p.i64, p.Kind == I64 }

// AsU32 returns the uint32 payload; ok is false if Kind != U32.
func (p Prop) AsU32() (uint32, bool) { return p.u32, p.Kind == U32 }

// AsU64 returns the uint64 payload; ok is false if Kind != U64.
func (p Prop) AsU64() (uint64, bool) { return p.u64, p.Kind == U64 }

// AsF32 returns the float32 payload; ok is false if Kind != F32.
func (p Prop) AsF32() (float32, bool) { return p.f32, p.Kind == F32 }

// AsF64 returns the float64 payload; ok is false if Kind != F64.
func (p Prop) AsF64() (float64, bool) { return p.f64, p.Kind == F64 }

// AsBool returns the bool payload; ok is false if Kind != Bool.
func (p Prop) AsBool() (bool, bool) { return p.b, p.Kind == Bool }

// Equal reports whether two Props carry the same kind and value.
func (p Prop) Equal(o Prop) bool {
	if p.Kind != o.Kind {
		return false
	}
	switch p.Kind {
	case Str:
		return p.str == o.str
	case I32:
		return p.i32 == o.i32
	case I64:
		return p.i64 == o.i64
	case U32:
		return p.u32 == o.u32
	case U64:
		return p.u64 == o.u64
	case F32:
		return p.f32 == o.f32
	case F64:
		return p.f64 == o.f64
	case Bool:
		return p.b == o.b
	default:
		return false
	}
}

// String renders the value for logging/debugging.
func (p Prop) String() string {
	switch p.Kind {
	case Str:
		return p.str
	case I32:
		return fmt.Sprintf("%d", p.i32)
	case I64:
		return fmt.Sprintf("%d", p.i64)
	case U32:
		return fmt.Sprintf("%d", p.u32)
	case U64:
		return fmt.Sprintf("%d", p.u64)
	case F32:
		return fmt.Sprintf("%g", p.f32)
	case F64:
		return fmt.Sprintf("%g", p.f64)
	case Bool:
		return fmt.Sprintf("%t", p.b)
	default:
		return "<invalid prop>"
	}
}
