package ast

import "somc/internal/source"

// TypeExprKind tags the syntactic shape of a type reference as written by
// the programmer. Resolving a TypeExpr into a types.Type is the resolver's
// job (internal/types, internal/resolve); this package only records what
// was parsed.
type TypeExprKind uint8

const (
	// TypeExprPath is a bare name reference, e.g. "int" or "Config".
	TypeExprPath TypeExprKind = iota
	// TypeExprReference is "*T" — an indirection that breaks structural
	// recursion for InfiniteSize purposes.
	TypeExprReference
	// TypeExprStruct is an inline "{ field: T, ... }" body.
	TypeExprStruct
	// TypeExprEnum is an inline "enum { Variant, Variant(T), ... }" body.
	TypeExprEnum
	// TypeExprFunction is "(T1, ..., Tn) -> R".
	TypeExprFunction
)

type TypeExpr struct {
	Kind TypeExprKind
	Span source.Span
	// PathName is set when Kind == TypeExprPath; may be qualified with a
	// leading module alias segment (e.g. "io.Writer").
	PathName []string
	// Inner is set when Kind == TypeExprReference (the referent type).
	Inner TypeID
	// Fields is set when Kind == TypeExprStruct.
	Fields []StructFieldSyn
	// Variants is set when Kind == TypeExprEnum.
	Variants []EnumVariantSyn
	// Params/Result are set when Kind == TypeExprFunction.
	Params []TypeID
	Result TypeID
}

type StructFieldSyn struct {
	Name string
	Type TypeID
	Span source.Span
}

type EnumVariantSyn struct {
	Name string
	// Payload is NoTypeID for a tag-only variant.
	Payload TypeID
	Span    source.Span
}

type TypeExprs struct {
	arena *Arena[TypeExpr]
}

func NewTypeExprs(capHint uint) *TypeExprs {
	return &TypeExprs{arena: NewArena[TypeExpr](capHint)}
}

func (t *TypeExprs) New(te TypeExpr) TypeID {
	return TypeID(t.arena.Allocate(te))
}

func (t *TypeExprs) Get(id TypeID) *TypeExpr {
	return t.arena.Get(uint32(id))
}
