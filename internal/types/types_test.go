package types

import "testing"

func TestInternDeduplicatesStructurallyEqualTypes(t *testing.T) {
	in := NewInterner()
	a := in.Intern(Type{Kind: KindReference, Elem: in.Builtins().Int})
	b := in.Intern(Type{Kind: KindReference, Elem: in.Builtins().Int})
	if a != b {
		t.Fatalf("expected structurally equal references to share a TypeID, got %d and %d", a, b)
	}
}

func TestForwardDeclareIsIdempotentPerQualifiedName(t *testing.T) {
	in := NewInterner()
	f1 := in.DeclareForward([]string{"std", "io"}, "Reader")
	f2 := in.DeclareForward([]string{"std", "io"}, "Reader")
	if f1 != f2 {
		t.Fatalf("declare_forward must be idempotent for the same qualified name")
	}
	f3 := in.DeclareForward([]string{"std", "io"}, "Writer")
	if f1 == f3 {
		t.Fatalf("forwards for distinct names must not share a TypeID")
	}
	if !in.IsForward(f1) || !in.IsForward(f3) {
		t.Fatalf("both declarations should read back as forward")
	}
}

func TestResolveReplacesForwardInPlace(t *testing.T) {
	in := NewInterner()
	id := in.DeclareForward(nil, "Point")
	structID := in.RegisterStruct("Point")
	if err := in.Resolve(id, Type{Kind: KindStruct, Payload: mustPayload(t, in, structID)}); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if in.IsForward(id) {
		t.Fatalf("id should no longer be a forward after Resolve")
	}
	resolved, ok := in.Lookup(id)
	if !ok || resolved.Kind != KindStruct {
		t.Fatalf("expected id to resolve to a struct, got %+v ok=%v", resolved, ok)
	}
}

func TestResolveTwiceFails(t *testing.T) {
	in := NewInterner()
	id := in.DeclareForward(nil, "Bit")
	if err := in.Resolve(id, Type{Kind: KindPrimitive, Primitive: PrimBool}); err != nil {
		t.Fatalf("first Resolve: %v", err)
	}
	if err := in.Resolve(id, Type{Kind: KindPrimitive, Primitive: PrimInt}); err == nil {
		t.Fatalf("expected second Resolve to fail with ErrAlreadyResolved")
	}
}

func TestRegisterFnDeduplicatesIdenticalSignatures(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	f1 := in.RegisterFn([]TypeID{b.Int, b.Bool}, b.Unit)
	f2 := in.RegisterFn([]TypeID{b.Int, b.Bool}, b.Unit)
	if f1 != f2 {
		t.Fatalf("identical function signatures should share a TypeID")
	}
}

func mustPayload(t *testing.T, in *Interner, id TypeID) uint32 {
	t.Helper()
	tt, ok := in.Lookup(id)
	if !ok {
		t.Fatalf("lookup failed for %d", id)
	}
	return tt.Payload
}
