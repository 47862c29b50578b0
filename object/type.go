package object

import "github.com/flowql/compiler/ir"

// Primitive enumerates the data-type markers spec.md §3 names: Bool,
// Int, Float, String, Time, Duration, UInt128.
type Primitive int

const (
	PrimBool Primitive = iota
	PrimInt
	PrimFloat
	PrimString
	PrimTime
	PrimDuration
	PrimUInt128
)

func (p Primitive) String() string {
	switch p {
	case PrimBool:
		return "bool"
	case PrimInt:
		return "int"
	case PrimFloat:
		return "float"
	case PrimString:
		return "string"
	case PrimTime:
		return "time"
	case PrimDuration:
		return "duration"
	case PrimUInt128:
		return "uint128"
	default:
		return "unknown"
	}
}

// Type is a primitive data-type marker, bound as a root-scope name
// (bool, int, float, string) and usable as a parameter annotation.
type Type struct {
	Base
	Name string
	Prim Primitive
}

func NewType(name string, prim Primitive) *Type {
	return &Type{Name: name, Prim: prim}
}

func (t *Type) Kind() Kind { return KindType }

// NodeMatches reports whether obj's backing IR node is consistent with
// this type. Time and Duration both match a Time-kind node: the IR
// carries a bare nanosecond count and relies on the annotating Type to
// say which one it is (ir.TimeNode's own doc comment notes this).
// UInt128 never matches: no IR literal kind represents it (spec.md
// §4.4, "UInt128 unsupported").
func (t *Type) NodeMatches(obj Object) bool {
	k, ok := obj.NodeKind()
	if !ok {
		return false
	}
	switch t.Prim {
	case PrimBool:
		return k == ir.KindBool
	case PrimInt:
		return k == ir.KindInt
	case PrimFloat:
		return k == ir.KindFloat
	case PrimString:
		return k == ir.KindString
	case PrimTime, PrimDuration:
		return k == ir.KindTime
	case PrimUInt128:
		return false
	default:
		return false
	}
}
