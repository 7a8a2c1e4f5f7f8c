package modgraph

import (
	"testing"

	"somc/internal/diag"
	"somc/internal/project"
	"somc/internal/source"
)

func idsToNames(idx ModuleIndex, ids []ModuleID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = idx.IDToName[int(id)]
	}
	return out
}

func batchesToNames(idx ModuleIndex, batches [][]ModuleID) [][]string {
	out := make([][]string, len(batches))
	for i, batch := range batches {
		out[i] = idsToNames(idx, batch)
	}
	return out
}

func TestBuildIndexIncludesImports(t *testing.T) {
	metas := []project.ModuleMeta{
		{
			Path: "core/main",
			Imports: []project.ImportMeta{
				{Path: "lib/math"},
				{Path: "lib/util"},
			},
		},
		{Path: "lib/util"},
	}

	idx := BuildIndex(metas)

	if len(idx.IDToName) != 3 {
		t.Fatalf("unexpected module count: %d", len(idx.IDToName))
	}

	wantNames := []string{"core/main", "lib/math", "lib/util"}
	for i, want := range wantNames {
		if got := idx.IDToName[i]; got != want {
			t.Fatalf("idx.IDToName[%d] = %q, want %q", i, got, want)
		}
		if id, ok := idx.NameToID[want]; !ok || int(id) != i {
			t.Fatalf("idx.NameToID[%q] = %v, want %d", want, id, i)
		}
	}
}

func TestBuildGraphReportsUnknownModules(t *testing.T) {
	appSpan := source.Span{File: 1, Start: 0, End: 10}
	coreSpan := source.Span{File: 2, Start: 0, End: 8}

	appMeta := project.ModuleMeta{
		Path: "app",
		Span: appSpan,
		Imports: []project.ImportMeta{
			{Path: "core", Span: source.Span{File: 1, Start: 1, End: 4}},
			{Path: "util", Span: source.Span{File: 1, Start: 5, End: 8}},
		},
	}
	coreMeta := project.ModuleMeta{
		Path: "core",
		Span: coreSpan,
		Imports: []project.ImportMeta{
			{Path: "util", Span: source.Span{File: 2, Start: 2, End: 5}},
		},
	}

	bagApp := diag.NewBag(10)
	bagCore := diag.NewBag(10)

	nodes := []ModuleNode{
		{Meta: appMeta, Reporter: diag.BagReporter{Bag: bagApp}},
		{Meta: coreMeta, Reporter: diag.BagReporter{Bag: bagCore}},
	}
	idx := BuildIndex([]project.ModuleMeta{appMeta, coreMeta})
	graph, _ := BuildGraph(idx, nodes)

	appID := idx.NameToID["app"]
	coreID := idx.NameToID["core"]
	utilID := idx.NameToID["util"]

	if len(graph.Edges[int(appID)]) != 1 || graph.Edges[int(appID)][0] != coreID {
		t.Fatalf("app deps = %v, want [%v] (util is never declared)", graph.Edges[int(appID)], coreID)
	}
	if len(graph.Edges[int(coreID)]) != 0 {
		t.Fatalf("core deps = %v, want none", graph.Edges[int(coreID)])
	}

	if !graph.Present[int(appID)] || !graph.Present[int(coreID)] || graph.Present[int(utilID)] {
		t.Fatalf("unexpected Present flags: %v", graph.Present)
	}

	if bagApp.Len() != 1 || bagApp.Items()[0].Code != diag.ModUnknownModule {
		t.Fatalf("app diagnostics = %v, want one ModUnknownModule", bagApp.Items())
	}
	if bagCore.Len() != 1 || bagCore.Items()[0].Code != diag.ModUnknownModule {
		t.Fatalf("core diagnostics = %v, want one ModUnknownModule", bagCore.Items())
	}
}

func TestBuildGraphDuplicateModules(t *testing.T) {
	spanA := source.Span{File: 1, Start: 0, End: 5}
	spanB := source.Span{File: 2, Start: 0, End: 5}

	metaA := project.ModuleMeta{Path: "dup/mod", Span: spanA}
	metaB := project.ModuleMeta{Path: "dup/mod", Span: spanB}

	bagA := diag.NewBag(10)
	bagB := diag.NewBag(10)

	nodes := []ModuleNode{
		{Meta: metaA, Reporter: diag.BagReporter{Bag: bagA}},
		{Meta: metaB, Reporter: diag.BagReporter{Bag: bagB}},
	}

	idx := BuildIndex([]project.ModuleMeta{metaA, metaB})
	graph, slots := BuildGraph(idx, nodes)

	if !graph.Present[idx.NameToID["dup/mod"]] {
		t.Fatalf("expected module to be present")
	}

	if bagA.Len() != 0 {
		t.Fatalf("unexpected diagnostics for first module: %v", bagA.Items())
	}
	if bagB.Len() != 1 || bagB.Items()[0].Code != diag.ModDuplicateModule {
		t.Fatalf("duplicate diagnostics = %v, want one ModDuplicateModule", bagB.Items())
	}

	slot := slots[int(idx.NameToID["dup/mod"])]
	if !slot.Present || slot.Meta.Span != spanA {
		t.Fatalf("expected slot to keep the first module's metadata")
	}
}

func TestToposortKahnBatches(t *testing.T) {
	metas := []project.ModuleMeta{
		{Path: "b", Imports: []project.ImportMeta{{Path: "c"}}},
		{Path: "a"},
		{Path: "c"},
	}

	nodes := []ModuleNode{{Meta: metas[0]}, {Meta: metas[1]}, {Meta: metas[2]}}

	idx := BuildIndex(metas)
	graph, _ := BuildGraph(idx, nodes)

	topo := ToposortKahn(graph)
	if topo.Cyclic {
		t.Fatalf("expected acyclic graph")
	}

	orderNames := idsToNames(idx, topo.Order)
	wantOrder := []string{"a", "b", "c"}
	if len(orderNames) != len(wantOrder) {
		t.Fatalf("order len = %d, want %d", len(orderNames), len(wantOrder))
	}
	for i, want := range wantOrder {
		if orderNames[i] != want {
			t.Fatalf("order[%d] = %q, want %q", i, orderNames[i], want)
		}
	}

	batches := batchesToNames(idx, topo.Batches)
	wantBatches := [][]string{{"a", "b"}, {"c"}}
	if len(batches) != len(wantBatches) {
		t.Fatalf("batches len = %d, want %d", len(batches), len(wantBatches))
	}
	for i := range wantBatches {
		if len(batches[i]) != len(wantBatches[i]) {
			t.Fatalf("batch[%d] len = %d, want %d", i, len(batches[i]), len(wantBatches[i]))
		}
		for j, want := range wantBatches[i] {
			if batches[i][j] != want {
				t.Fatalf("batch[%d][%d] = %q, want %q", i, j, batches[i][j], want)
			}
		}
	}
}

// TestReportCyclesIsInformationalNotBlocking checks that a module import
// cycle (tolerated by design) is reported as ModImportCycle, a
// non-error severity, rather than failing the graph build.
func TestReportCyclesIsInformationalNotBlocking(t *testing.T) {
	spanA := source.Span{File: 1, Start: 0, End: 4}
	spanB := source.Span{File: 2, Start: 0, End: 4}

	metaA := project.ModuleMeta{
		Path:    "a",
		Span:    spanA,
		Imports: []project.ImportMeta{{Path: "b", Span: spanA}},
	}
	metaB := project.ModuleMeta{
		Path:    "b",
		Span:    spanB,
		Imports: []project.ImportMeta{{Path: "a", Span: spanB}},
	}

	bagA := diag.NewBag(10)
	bagB := diag.NewBag(10)

	nodes := []ModuleNode{
		{Meta: metaA, Reporter: diag.BagReporter{Bag: bagA}},
		{Meta: metaB, Reporter: diag.BagReporter{Bag: bagB}},
	}

	idx := BuildIndex([]project.ModuleMeta{metaA, metaB})
	graph, slots := BuildGraph(idx, nodes)

	topo := ToposortKahn(graph)
	if !topo.Cyclic || len(topo.Cycles) != 2 {
		t.Fatalf("expected a two-module cycle, got %+v", topo)
	}

	ReportCycles(idx, slots, *topo)

	if bagA.Len() != 1 || bagA.Items()[0].Code != diag.ModImportCycle {
		t.Fatalf("module a diagnostics = %v", bagA.Items())
	}
	if bagA.Items()[0].Severity >= diag.SevError {
		t.Fatalf("ModImportCycle must not be error severity, got %v", bagA.Items()[0].Severity)
	}
	if bagB.Len() != 1 || bagB.Items()[0].Code != diag.ModImportCycle {
		t.Fatalf("module b diagnostics = %v", bagB.Items())
	}
}
