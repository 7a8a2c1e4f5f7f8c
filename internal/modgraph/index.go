// Package modgraph builds the module import graph from project.ModuleMeta
// values and exposes a topological batching over it, for cmd/somc's
// "graph" subcommand and for any caller that wants to parse/feed
// independent modules into the resolver concurrently (errgroup) before
// the single-threaded three-pass run. The resolver itself never consults
// this package — module import cycles are tolerated by design (spec.md
// §5, §9) and are reported here only as informational diagnostics.
package modgraph

import (
	"sort"

	"somc/internal/project"
)

type ModuleID uint32

// ModuleIndex assigns a dense, deterministic ID to every module path
// that appears either as a declared module or as someone's import
// target, so the graph below can use plain slices instead of maps.
type ModuleIndex struct {
	NameToID map[string]ModuleID
	IDToName []string
}

// BuildIndex collects every unique module path across metas (both
// declared modules and their import targets), sorts them
// lexicographically, and hands out IDs in that order — so two runs over
// the same metadata always produce the same ID assignment regardless of
// slice order.
func BuildIndex(metas []project.ModuleMeta) ModuleIndex {
	uniq := make(map[string]struct{}, len(metas))
	for _, meta := range metas {
		if meta.Path != "" {
			uniq[meta.Path] = struct{}{}
		}
		for _, dep := range meta.Imports {
			if dep.Path == "" {
				continue
			}
			uniq[dep.Path] = struct{}{}
		}
	}

	paths := make([]string, 0, len(uniq))
	for path := range uniq {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	nameToID := make(map[string]ModuleID, len(paths))
	for i, path := range paths {
		nameToID[path] = ModuleID(i)
	}

	return ModuleIndex{NameToID: nameToID, IDToName: paths}
}
