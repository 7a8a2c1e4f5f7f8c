package modgraph

import (
	"fmt"
	"slices"
	"strings"

	"somc/internal/diag"
	"somc/internal/project"
	"somc/internal/source"
)

// Graph is an adjacency-list view over ModuleIndex's dense IDs. Edges and
// Indeg only ever reflect modules Present marks as real — an import
// naming a module nobody declared contributes no edge, just a
// diagnostic.
type Graph struct {
	Edges   [][]ModuleID // Edges[from] = sorted []to
	Indeg   []int
	Present []bool
}

// ModuleNode is one declared module, as the directory walk found it,
// paired with the reporter its diagnostics should go to.
type ModuleNode struct {
	Meta     project.ModuleMeta
	Reporter diag.Reporter
}

// ModuleSlot is the per-ID bookkeeping BuildGraph produces: which
// declared module (if any) owns this ID, and whether it was ever seen.
type ModuleSlot struct {
	Meta     project.ModuleMeta
	Reporter diag.Reporter
	Present  bool
}

// BuildGraph assigns each node to its slot by path, reporting
// ModDuplicateModule for a path claimed twice, then wires import edges,
// reporting ModUnknownModule for an import naming a path no slot claims.
// Self-imports and cycles are left as ordinary edges — the caller
// (ReportCycles) surfaces cycles informationally, never as errors.
func BuildGraph(idx ModuleIndex, nodes []ModuleNode) (Graph, []ModuleSlot) {
	nodeCount := len(idx.IDToName)
	g := Graph{
		Edges:   make([][]ModuleID, nodeCount),
		Indeg:   make([]int, nodeCount),
		Present: make([]bool, nodeCount),
	}
	slots := make([]ModuleSlot, nodeCount)
	for i, name := range idx.IDToName {
		slots[i].Meta.Path = name
	}

	for _, node := range nodes {
		meta := node.Meta
		if meta.Path == "" {
			continue
		}
		id, ok := idx.NameToID[meta.Path]
		if !ok {
			continue
		}
		slot := &slots[int(id)]
		if slot.Present {
			if node.Reporter != nil {
				b := diag.ReportError(node.Reporter, diag.ModDuplicateModule, meta.Span,
					fmt.Sprintf("duplicate module %q", meta.Path))
				if slot.Meta.Span != (source.Span{}) {
					b = b.WithNote(slot.Meta.Span, fmt.Sprintf("previous declaration of %q", slot.Meta.Path))
				}
				b.Emit()
			}
			continue
		}
		slot.Meta = meta
		slot.Reporter = node.Reporter
		slot.Present = true
		g.Present[int(id)] = true
	}

	for from := range slots {
		slot := &slots[from]
		if !slot.Present || len(slot.Meta.Imports) == 0 {
			continue
		}
		seen := make(map[ModuleID]struct{}, len(slot.Meta.Imports))
		for _, dep := range slot.Meta.Imports {
			if dep.Path == "" {
				continue
			}
			toID, ok := idx.NameToID[dep.Path]
			if !ok {
				continue
			}
			if !g.Present[int(toID)] {
				if slot.Reporter != nil {
					diag.ReportError(slot.Reporter, diag.ModUnknownModule, dep.Span,
						fmt.Sprintf("module %q imports unknown module %q", slot.Meta.Path, dep.Path)).Emit()
				}
				continue
			}
			if _, dup := seen[toID]; dup {
				continue
			}
			seen[toID] = struct{}{}
			g.Edges[from] = append(g.Edges[from], toID)
			g.Indeg[int(toID)]++
		}
		if len(g.Edges[from]) > 1 {
			slices.Sort(g.Edges[from])
		}
	}

	return g, slots
}

// ReportCycles emits one ModImportCycle info diagnostic per module
// participating in a cycle Topo found, naming the whole cycle — informing
// without blocking, since arbitrary module cycles are tolerated by
// design.
func ReportCycles(idx ModuleIndex, slots []ModuleSlot, topo Topo) {
	if !topo.Cyclic || len(topo.Cycles) == 0 {
		return
	}
	names := make([]string, 0, len(topo.Cycles))
	for _, id := range topo.Cycles {
		names = append(names, idx.IDToName[int(id)])
	}
	summary := strings.Join(names, " -> ")

	for _, id := range topo.Cycles {
		slot := slots[int(id)]
		if !slot.Present || slot.Reporter == nil {
			continue
		}
		msg := fmt.Sprintf("module %q participates in an import cycle: %s", slot.Meta.Path, summary)
		diag.ReportInfo(slot.Reporter, diag.ModImportCycle, slot.Meta.Span, msg).Emit()
	}
}
