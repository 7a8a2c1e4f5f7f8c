// Package registry implements the module registry (C3): process-wide,
// path-keyed symbol tables with a two-phase open/sealed lifecycle.
package registry

import (
	"strings"

	"somc/internal/ast"
	"somc/internal/source"
	"somc/internal/types"
)

// TypeEntry is one binding in a module's type namespace.
type TypeEntry struct {
	Handle types.TypeID
	Vis    ast.Visibility
	Span   source.Span
}

// ValueEntry is one binding in a module's value namespace.
type ValueEntry struct {
	Type types.TypeID
	Vis  ast.Visibility
	Span source.Span
}

// Entry is one module's four symbol tables (R1: PublicTypes/PublicValues
// are always subsets of ModuleTypes/ModuleValues with equal bindings).
type Entry struct {
	Path         []string
	PublicTypes  map[string]TypeEntry
	PublicValues map[string]ValueEntry
	ModuleTypes  map[string]TypeEntry
	ModuleValues map[string]ValueEntry
}

func newEntry(path []string) *Entry {
	return &Entry{
		Path:         append([]string(nil), path...),
		PublicTypes:  make(map[string]TypeEntry),
		PublicValues: make(map[string]ValueEntry),
		ModuleTypes:  make(map[string]TypeEntry),
		ModuleValues: make(map[string]ValueEntry),
	}
}

// Registry is process-wide state, open during Passes 1-2 and read-only
// (Sealed) from Pass 3 onward.
type Registry struct {
	entries map[string]*Entry
	order   []string
	sealed  bool
}

// New creates an empty, open Registry.
func New() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// Sealed reports whether Seal has succeeded.
func (r *Registry) Sealed() bool { return r.sealed }

// Register creates an open entry for modulePath if one does not already
// exist, returning the entry either way. Called by the module grouper
// before any pass runs, so Get never needs to create entries implicitly.
func (r *Registry) Register(modulePath []string) *Entry {
	key := pathKey(modulePath)
	if e, ok := r.entries[key]; ok {
		return e
	}
	e := newEntry(modulePath)
	r.entries[key] = e
	r.order = append(r.order, key)
	return e
}

// ErrUnknownModule is returned by Get when modulePath was never
// registered.
type ErrUnknownModule struct {
	Path []string
}

func (e *ErrUnknownModule) Error() string {
	return "registry: unknown module " + strings.Join(e.Path, "::")
}

// Get returns the entry for modulePath, failing with ErrUnknownModule if
// it was never registered.
func (r *Registry) Get(modulePath []string) (*Entry, error) {
	e, ok := r.entries[pathKey(modulePath)]
	if !ok {
		return nil, &ErrUnknownModule{Path: modulePath}
	}
	return e, nil
}

// Modules returns every registered module path in registration order —
// deterministic regardless of how passes visited them.
func (r *Registry) Modules() [][]string {
	paths := make([][]string, 0, len(r.order))
	for _, key := range r.order {
		paths = append(paths, r.entries[key].Path)
	}
	return paths
}

func pathKey(path []string) string {
	return strings.Join(path, "\x00")
}
