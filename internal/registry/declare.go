package registry

import (
	"errors"
	"strings"

	"somc/internal/ast"
	"somc/internal/source"
	"somc/internal/types"
)

// ErrDuplicateTopLevelName is the collision the registry reports when a
// non-private declaration's name is already taken in the same namespace
// of the same module (invariant R3). The caller (the resolver) reports
// this as a diagnostic and continues rather than aborting the pass.
type ErrDuplicateTopLevelName struct {
	Module []string
	Name   string
}

func (e *ErrDuplicateTopLevelName) Error() string {
	return "registry: " + strings.Join(e.Module, "::") + "." + e.Name + " is already declared"
}

// errSealed is returned by DeclareType/DeclareValue once the registry
// has been sealed.
var errSealed = errors.New("registry: registry is sealed")

// DeclareType inserts a type binding per R1: Public visibility writes to
// both PublicTypes and ModuleTypes; Module visibility writes to
// ModuleTypes only. Private declarations never reach the registry — they
// live purely in the declaring file's scope.
func (r *Registry) DeclareType(modulePath []string, name string, vis ast.Visibility, handle types.TypeID, span source.Span) error {
	if r.sealed {
		return errSealed
	}
	e, err := r.Get(modulePath)
	if err != nil {
		return err
	}
	if vis == ast.VisPrivate {
		return nil
	}
	if _, dup := e.ModuleTypes[name]; dup {
		return &ErrDuplicateTopLevelName{Module: modulePath, Name: name}
	}
	entry := TypeEntry{Handle: handle, Vis: vis, Span: span}
	e.ModuleTypes[name] = entry
	if vis == ast.VisPublic {
		e.PublicTypes[name] = entry
	}
	return nil
}

// DeclareValue inserts a value binding under the same R1/R3 rules as
// DeclareType, in the separate value namespace.
func (r *Registry) DeclareValue(modulePath []string, name string, vis ast.Visibility, typ types.TypeID, span source.Span) error {
	if r.sealed {
		return errSealed
	}
	e, err := r.Get(modulePath)
	if err != nil {
		return err
	}
	if vis == ast.VisPrivate {
		return nil
	}
	if _, dup := e.ModuleValues[name]; dup {
		return &ErrDuplicateTopLevelName{Module: modulePath, Name: name}
	}
	entry := ValueEntry{Type: typ, Vis: vis, Span: span}
	e.ModuleValues[name] = entry
	if vis == ast.VisPublic {
		e.PublicValues[name] = entry
	}
	return nil
}
