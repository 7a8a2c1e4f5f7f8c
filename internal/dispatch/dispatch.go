// Package dispatch implements the multimethod dispatch table (C5):
// per-name overload sets keyed by exact parameter-type match, with
// deterministic, injective mangled names for backend emission.
package dispatch

import (
	"fmt"
	"slices"
	"strings"

	"somc/internal/source"
	"somc/internal/types"
)

// Impl is one registered implementation of a multimethod.
type Impl struct {
	Name    string
	Params  []types.TypeID
	Result  types.TypeID
	Span    source.Span
	Mangled string
}

// Table maps a multimethod name to its registered implementations.
type Table struct {
	interner *types.Interner
	methods  map[string][]*Impl
	order    []string
}

// New creates an empty dispatch table over interner's type descriptors,
// which Mangle uses to render parameter types into the mangled name.
func New(interner *types.Interner) *Table {
	return &Table{interner: interner, methods: make(map[string][]*Impl)}
}

// ErrDuplicateImpl is invariant M1's violation: two implementations of
// the same name with structurally-equal parameter-type lists.
type ErrDuplicateImpl struct {
	Name   string
	Params []types.TypeID
}

func (e *ErrDuplicateImpl) Error() string {
	return fmt.Sprintf("dispatch: duplicate implementation of %s for params %v", e.Name, e.Params)
}

// Register adds impl's parameter/result signature under name, returning
// its mangled emission name. Fails with ErrDuplicateImpl if an existing
// implementation already has a structurally-equal parameter list.
func (t *Table) Register(name string, params []types.TypeID, result types.TypeID, span source.Span) (string, error) {
	for _, existing := range t.methods[name] {
		if slices.Equal(existing.Params, params) {
			return "", &ErrDuplicateImpl{Name: name, Params: params}
		}
	}
	impl := &Impl{
		Name:    name,
		Params:  slices.Clone(params),
		Result:  result,
		Span:    span,
		Mangled: t.Mangle(name, params),
	}
	if _, seen := t.methods[name]; !seen {
		t.order = append(t.order, name)
	}
	t.methods[name] = append(t.methods[name], impl)
	return impl.Mangled, nil
}

// Mangle renders a deterministic, injective mangled name for name over
// params: distinct parameter-type lists always render as distinct
// strings, since types.Interner.Name is injective per type shape.
func (t *Table) Mangle(name string, params []types.TypeID) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = t.interner.Name(p)
	}
	return name + "$" + strings.Join(parts, "$")
}

// Implementations returns the registered overload set for name, in
// registration order.
func (t *Table) Implementations(name string) []*Impl {
	return t.methods[name]
}

// Names returns every registered multimethod name in first-registration
// order.
func (t *Table) Names() []string {
	return slices.Clone(t.order)
}
