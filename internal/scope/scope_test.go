package scope

import (
	"errors"
	"testing"

	"somc/internal/ast"
	"somc/internal/types"
)

func TestLookupWalksParentChain(t *testing.T) {
	tab := NewTable()
	mod := tab.NewChild(tab.Global(), KindModule)
	file := tab.NewChild(mod, KindFile)

	if err := tab.DeclareType(mod, "Point", TypeBinding{Type: types.TypeID(1), Vis: ast.VisModule}); err != nil {
		t.Fatalf("DeclareType: %v", err)
	}

	got, err := tab.LookupType(file, "Point")
	if err != nil {
		t.Fatalf("LookupType from child scope: %v", err)
	}
	if got.Type != types.TypeID(1) {
		t.Fatalf("expected TypeID 1, got %v", got.Type)
	}
}

func TestLocalBindingOverridesAncestor(t *testing.T) {
	tab := NewTable()
	mod := tab.NewChild(tab.Global(), KindModule)
	file := tab.NewChild(mod, KindFile)

	_ = tab.DeclareValue(mod, "x", ValueBinding{Type: types.TypeID(1)})
	_ = tab.DeclareValue(file, "x", ValueBinding{Type: types.TypeID(2)})

	got, err := tab.LookupValue(file, "x")
	if err != nil {
		t.Fatalf("LookupValue: %v", err)
	}
	if got.Type != types.TypeID(2) {
		t.Fatalf("expected the file-scope binding (TypeID 2) to win, got %v", got.Type)
	}
}

func TestDeclareDuplicateInSameScopeFails(t *testing.T) {
	tab := NewTable()
	mod := tab.NewChild(tab.Global(), KindModule)

	if err := tab.DeclareValue(mod, "x", ValueBinding{Type: types.TypeID(1)}); err != nil {
		t.Fatalf("first DeclareValue: %v", err)
	}
	err := tab.DeclareValue(mod, "x", ValueBinding{Type: types.TypeID(2)})
	var dup *ErrDuplicate
	if !errors.As(err, &dup) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestDuplicateAcrossDifferentScopesIsAllowed(t *testing.T) {
	tab := NewTable()
	mod := tab.NewChild(tab.Global(), KindModule)
	fileA := tab.NewChild(mod, KindFile)
	fileB := tab.NewChild(mod, KindFile)

	if err := tab.DeclareValue(fileA, "helper", ValueBinding{Type: types.TypeID(1)}); err != nil {
		t.Fatalf("declare in fileA: %v", err)
	}
	if err := tab.DeclareValue(fileB, "helper", ValueBinding{Type: types.TypeID(2)}); err != nil {
		t.Fatalf("declare in fileB should not collide with fileA's private binding: %v", err)
	}
}

func TestLookupMissingNameFails(t *testing.T) {
	tab := NewTable()
	_, err := tab.LookupValue(tab.Global(), "nowhere")
	var nf *ErrNotFound
	if !errors.As(err, &nf) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
