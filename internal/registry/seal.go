package registry

import (
	"fmt"
	"strings"

	"somc/internal/types"
)

// ErrInfiniteSize... no — a top-level Forward surviving to Seal time is
// a resolver bug, not a user-facing diagnostic: Pass 2 must have already
// resolved (or reported and skipped) every declared type before Seal is
// called. ErrUnresolvedForward reports which entries were missed.
type ErrUnresolvedForward struct {
	Module []string
	Name   string
}

func (e *ErrUnresolvedForward) Error() string {
	return fmt.Sprintf("registry: %s.%s is still a forward declaration at seal time", strings.Join(e.Module, "::"), e.Name)
}

// Seal transitions the registry from open to read-only, enforcing
// invariant F1 globally: no ModuleTypes entry may still point at an
// unresolved forward. On success the registry becomes Sealed and every
// subsequent DeclareType/DeclareValue call fails.
func (r *Registry) Seal(interner *types.Interner) error {
	for _, key := range r.order {
		e := r.entries[key]
		for name, te := range e.ModuleTypes {
			if interner.IsForward(te.Handle) {
				return &ErrUnresolvedForward{Module: e.Path, Name: name}
			}
		}
	}
	r.sealed = true
	return nil
}
