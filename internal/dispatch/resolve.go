package dispatch

import (
	"fmt"
	"slices"

	"somc/internal/types"
)

// ErrNoMatchingImpl is returned when a call's argument types match no
// registered implementation's parameter-type list.
type ErrNoMatchingImpl struct {
	Name       string
	Args       []types.TypeID
	Candidates []*Impl
}

func (e *ErrNoMatchingImpl) Error() string {
	return fmt.Sprintf("dispatch: no implementation of %s matches %v", e.Name, e.Args)
}

// ErrAmbiguousCall is returned when more than one implementation
// exact-matches a call's argument types. With exact-match-only
// specificity this can only happen if invariant M1 was already
// violated at registration time.
type ErrAmbiguousCall struct {
	Name       string
	Args       []types.TypeID
	Candidates []*Impl
}

func (e *ErrAmbiguousCall) Error() string {
	return fmt.Sprintf("dispatch: call to %s with %v is ambiguous among %d candidates", e.Name, e.Args, len(e.Candidates))
}

// Resolve picks the single implementation of name whose parameter types
// exactly match args, per §4.5's call-site resolution algorithm.
func (t *Table) Resolve(name string, args []types.TypeID) (*Impl, error) {
	all := t.methods[name]
	var matches []*Impl
	for _, impl := range all {
		if len(impl.Params) != len(args) {
			continue
		}
		if slices.Equal(impl.Params, args) {
			matches = append(matches, impl)
		}
	}
	switch len(matches) {
	case 0:
		return nil, &ErrNoMatchingImpl{Name: name, Args: args, Candidates: all}
	case 1:
		return matches[0], nil
	default:
		return nil, &ErrAmbiguousCall{Name: name, Args: args, Candidates: matches}
	}
}
