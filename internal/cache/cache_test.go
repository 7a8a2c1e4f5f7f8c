package cache

import (
	"context"
	"path/filepath"
	"testing"

	"somc/internal/ast"
	"somc/internal/diag"
	"somc/internal/project"
	"somc/internal/registry"
	"somc/internal/resolve"
	"somc/internal/source"
)

func sp() source.Span { return source.Span{} }

func typePath(b *ast.Builder, name string) ast.TypeID {
	return b.TypeExprs.New(ast.TypeExpr{Kind: ast.TypeExprPath, PathName: []string{name}})
}

// buildSample resolves a tiny module (one multimethod impl, one call
// site) the same way resolver_test.go does, giving this package a real
// sealed resolve.Result to round-trip instead of a hand-built one.
func buildSample(t *testing.T) resolve.Result {
	t.Helper()

	b := ast.NewBuilder(0)
	body := b.Exprs.NewIntLit(sp(), 7)
	implItem := b.Items.NewMultimethodImpl(sp(), "seven", nil, typePath(b, "int"), body)
	callExpr := b.Exprs.NewCall(sp(), "seven", nil)
	letItem := b.Items.NewLet(sp(), "result", ast.VisModule, ast.NoTypeID, callExpr)

	file := &ast.File{Path: "main.som", ModulePath: []string{"app"}, Items: []ast.ItemID{implItem, letItem}}

	bag := diag.NewBag(16)
	r := resolve.New(b, diag.BagReporter{Bag: bag})
	modules := resolve.GroupFiles([]*ast.File{file})
	res, err := r.Run(context.Background(), modules)
	if err != nil {
		t.Fatalf("unexpected error: %v (diagnostics: %v)", err, bag.Items())
	}
	return res
}

func TestToPayloadRejectsUnsealedRegistry(t *testing.T) {
	res := buildSample(t)
	// Run always seals its registry before returning; swap in a fresh,
	// never-sealed one to exercise ToPayload's guard directly.
	res.Registry = registry.New()
	if _, err := ToPayload(res); err == nil {
		t.Fatalf("expected ToPayload to reject an unsealed registry")
	}
}

func TestPayloadRoundTripPreservesDispatchAndTypes(t *testing.T) {
	res := buildSample(t)

	payload, err := ToPayload(res)
	if err != nil {
		t.Fatalf("ToPayload: %v", err)
	}

	restored, err := FromPayload(payload)
	if err != nil {
		t.Fatalf("FromPayload: %v", err)
	}

	wantImpls := res.Dispatch.Implementations("seven")
	gotImpls := restored.Dispatch.Implementations("seven")
	if len(wantImpls) != 1 || len(gotImpls) != 1 {
		t.Fatalf("expected exactly 1 implementation of seven on both sides, got %d/%d", len(wantImpls), len(gotImpls))
	}
	if wantImpls[0].Mangled != gotImpls[0].Mangled {
		t.Fatalf("mangled name mismatch: %q vs %q", wantImpls[0].Mangled, gotImpls[0].Mangled)
	}

	wantName := res.Types.Name(wantImpls[0].Result)
	gotName := restored.Types.Name(gotImpls[0].Result)
	if wantName != gotName {
		t.Fatalf("result type name mismatch: %q vs %q", wantName, gotName)
	}

	entry, err := restored.Registry.Get([]string{"app"})
	if err != nil {
		t.Fatalf("restored registry missing module app: %v", err)
	}
	if _, ok := entry.ModuleValues["result"]; !ok {
		t.Fatalf("restored registry lost module value %q", "result")
	}
	if !restored.Registry.Sealed() {
		t.Fatalf("restored registry should report itself sealed")
	}
}

func TestDiskPutGetRoundTrip(t *testing.T) {
	res := buildSample(t)
	payload, err := ToPayload(res)
	if err != nil {
		t.Fatalf("ToPayload: %v", err)
	}

	dir := t.TempDir()
	disk, err := Open(filepath.Join(dir, "somc"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	key := Key([]project.Digest{{1, 2, 3}})
	if err := disk.Put(key, payload); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := disk.Get(key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected cache hit after Put")
	}
	if got.Schema != payload.Schema {
		t.Fatalf("schema mismatch: %d vs %d", got.Schema, payload.Schema)
	}

	other := Key([]project.Digest{{9, 9, 9}})
	if _, ok, err := disk.Get(other); err != nil || ok {
		t.Fatalf("expected a clean miss for an unrelated key, got ok=%v err=%v", ok, err)
	}
}

func TestKeyIsOrderSensitive(t *testing.T) {
	a := Key([]project.Digest{{1}, {2}})
	b := Key([]project.Digest{{2}, {1}})
	if a == b {
		t.Fatalf("expected Key to depend on input order, since callers must pass a deterministic order")
	}
}
