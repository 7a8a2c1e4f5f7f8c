// Package resolve implements the three-pass resolver (C4): the
// orchestration layer that drives name registration, type-body
// resolution, and full type-checking across every module in a build,
// using the type domain (C1), scope hierarchy (C2), module registry
// (C3), and multimethod dispatch table (C5).
package resolve

import (
	"sort"
	"strings"

	"somc/internal/ast"
)

// Module is an untyped module: an ordered sequence of files sharing a
// folder-derived path. GroupFiles is the module grouper spec.md's data
// flow places between parsing and the resolver.
type Module struct {
	Path  []string
	Files []*ast.File
}

// GroupFiles partitions files by ModulePath into modules, in
// deterministic path order so pass scheduling never depends on
// filesystem walk order.
func GroupFiles(files []*ast.File) []*Module {
	byPath := make(map[string]*Module)
	var order []string
	for _, f := range files {
		key := strings.Join(f.ModulePath, "\x00")
		m, ok := byPath[key]
		if !ok {
			m = &Module{Path: append([]string(nil), f.ModulePath...)}
			byPath[key] = m
			order = append(order, key)
		}
		m.Files = append(m.Files, f)
	}
	sort.Strings(order)
	modules := make([]*Module, len(order))
	for i, key := range order {
		modules[i] = byPath[key]
	}
	return modules
}
