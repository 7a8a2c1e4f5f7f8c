// Package types is the type-representation domain (C1): a tagged type
// value, an interned TypeID, and a forward-declare/resolve/lookup
// contract the resolver drives across its three passes.
package types

import "fmt"

// TypeID uniquely identifies a type inside an Interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind tags which of the six shapes a Type takes.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindPrimitive
	KindStruct
	KindEnum
	KindFunction
	KindReference
	KindForward
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindFunction:
		return "function"
	case KindReference:
		return "reference"
	case KindForward:
		return "forward"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Primitive names the built-in scalar types.
type Primitive uint8

const (
	PrimInvalid Primitive = iota
	PrimUnit
	PrimBool
	PrimInt
	PrimFloat
	PrimString
)

func (p Primitive) String() string {
	switch p {
	case PrimUnit:
		return "unit"
	case PrimBool:
		return "bool"
	case PrimInt:
		return "int"
	case PrimFloat:
		return "float"
	case PrimString:
		return "string"
	default:
		return "invalid"
	}
}

// Type is a compact descriptor for any of the six kinds C1 recognizes.
// Struct/Enum/Function/Forward carry their bodies in the Interner's side
// tables, addressed by Payload; Reference carries its referent inline in
// Elem.
type Type struct {
	Kind      Kind
	Primitive Primitive // set when Kind == KindPrimitive
	Elem      TypeID    // set when Kind == KindReference
	Payload   uint32    // struct/enum/function/forward info slot
}

// ForwardInfo names the declaration a Forward placeholder stands in for.
// Two forwards are structurally equal (invariant F2) iff they name the
// same qualified path — declare_forward is idempotent on that pair, so
// equal ForwardInfo always means equal Payload.
type ForwardInfo struct {
	ModulePath []string
	Name       string
}
