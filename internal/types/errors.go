package types

import "fmt"

// ErrAlreadyResolved is returned by Interner.Resolve when the target
// TypeID no longer points at an unresolved forward declaration.
type ErrAlreadyResolved struct {
	ID TypeID
}

func (e *ErrAlreadyResolved) Error() string {
	return fmt.Sprintf("types: TypeID %d is already resolved", e.ID)
}

// ErrUnknownType is returned by lookups against a TypeID the Interner
// never issued.
type ErrUnknownType struct {
	ID TypeID
}

func (e *ErrUnknownType) Error() string {
	return fmt.Sprintf("types: unknown TypeID %d", e.ID)
}
