// Package scope implements the lexical scope hierarchy (C2): a
// linked-chain of scopes with two independent namespaces, types and
// values, and visibility enforcement applied at the edges between scope
// kinds rather than inside lookup itself.
package scope

import (
	"somc/internal/ast"
	"somc/internal/source"
	"somc/internal/types"
)

// Kind enumerates the scope categories the resolver builds. Kinds do not
// shadow one another (invariant S1) — they are only bookkeeping for
// where visibility gets enforced when a scope is constructed.
type Kind uint8

const (
	KindGlobal Kind = iota
	KindModule
	KindFile
	KindFunction
	KindBlock
)

func (k Kind) String() string {
	switch k {
	case KindGlobal:
		return "global"
	case KindModule:
		return "module"
	case KindFile:
		return "file"
	case KindFunction:
		return "function"
	case KindBlock:
		return "block"
	default:
		return "invalid"
	}
}

// ID identifies a Scope inside a Table's arena.
type ID uint32

// NoID marks the absence of a scope (used as the global scope's parent).
const NoID ID = 0

// TypeBinding is a name bound in a scope's type namespace.
type TypeBinding struct {
	Type types.TypeID
	Vis  ast.Visibility
	Span source.Span
}

// ValueBinding is a name bound in a scope's value namespace.
type ValueBinding struct {
	Type types.TypeID
	Vis  ast.Visibility
	Span source.Span
}

// Scope is one link in the chain. Global is the unique root (invariant
// S2 — chains are acyclic because every non-global scope's parent is
// fixed at construction and no cycle can be formed through NewChild).
type Scope struct {
	Kind   Kind
	Parent ID
	types  map[string]TypeBinding
	values map[string]ValueBinding
}
