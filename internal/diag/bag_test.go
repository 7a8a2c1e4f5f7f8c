package diag

import (
	"testing"

	"somc/internal/source"
)

func TestBagSortOrdersByOriginThenSpan(t *testing.T) {
	b := NewBag(8)
	b.Add(Diagnostic{
		Code: ResUndefinedName, Severity: SevError,
		Origin:  Origin{ModulePath: "std/io", FileName: "writer.som", Seq: 2},
		Primary: source.Span{File: 1, Start: 40},
	})
	b.Add(Diagnostic{
		Code: ResUnknownType, Severity: SevError,
		Origin:  Origin{ModulePath: "app", FileName: "main.som", Seq: 0},
		Primary: source.Span{File: 0, Start: 5},
	})
	b.Add(Diagnostic{
		Code: ResDuplicateTopLevelName, Severity: SevError,
		Origin:  Origin{ModulePath: "std/io", FileName: "reader.som", Seq: 1},
		Primary: source.Span{File: 2, Start: 10},
	})

	b.Sort()

	got := b.Items()
	if got[0].Origin.ModulePath != "app" {
		t.Fatalf("expected 'app' module first, got %q", got[0].Origin.ModulePath)
	}
	if got[1].Origin.FileName != "reader.som" || got[2].Origin.FileName != "writer.som" {
		t.Fatalf("expected std/io files sorted by filename, got %q then %q", got[1].Origin.FileName, got[2].Origin.FileName)
	}
}

func TestBagSortIsStableAcrossPermutations(t *testing.T) {
	entries := []Diagnostic{
		{Code: ResUnknownType, Origin: Origin{ModulePath: "a", FileName: "x.som", Seq: 0}},
		{Code: ResUndefinedName, Origin: Origin{ModulePath: "a", FileName: "x.som", Seq: 1}},
		{Code: ResTypeMismatch, Origin: Origin{ModulePath: "b", FileName: "y.som", Seq: 0}},
	}

	first := NewBag(8)
	for _, e := range entries {
		first.Add(e)
	}
	first.Sort()

	second := NewBag(8)
	for i := len(entries) - 1; i >= 0; i-- {
		second.Add(entries[i])
	}
	second.Sort()

	for i := range first.Items() {
		if first.Items()[i].Code != second.Items()[i].Code {
			t.Fatalf("sort order depends on insertion order at index %d", i)
		}
	}
}

func TestBagDedupRemovesIdenticalDiagnostics(t *testing.T) {
	b := NewBag(8)
	d := Diagnostic{Code: ResUnknownType, Message: "unknown type Foo", Primary: source.Span{File: 0, Start: 1, End: 4}}
	b.Add(d)
	b.Add(d)
	b.Dedup()
	if b.Len() != 1 {
		t.Fatalf("expected 1 diagnostic after dedup, got %d", b.Len())
	}
}

func TestBagAddRespectsCap(t *testing.T) {
	b := NewBag(1)
	if !b.Add(Diagnostic{Code: ResUnknownType}) {
		t.Fatal("expected first Add within cap to succeed")
	}
	if b.Add(Diagnostic{Code: ResUndefinedName}) {
		t.Fatal("expected second Add beyond cap to fail")
	}
}
