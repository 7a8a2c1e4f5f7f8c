package dispatch

import (
	"errors"
	"testing"

	"somc/internal/source"
	"somc/internal/types"
)

func TestRegisterAndResolveExactMatch(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	tab := New(in)

	if _, err := tab.Register("area", []types.TypeID{b.Int}, b.Int, source.Span{}); err != nil {
		t.Fatalf("Register(int): %v", err)
	}
	if _, err := tab.Register("area", []types.TypeID{b.Float}, b.Float, source.Span{}); err != nil {
		t.Fatalf("Register(float): %v", err)
	}

	impl, err := tab.Resolve("area", []types.TypeID{b.Int})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if impl.Result != b.Int {
		t.Fatalf("expected the int overload, got result %v", impl.Result)
	}
}

func TestRegisterDuplicateParamListFails(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	tab := New(in)

	if _, err := tab.Register("area", []types.TypeID{b.Int}, b.Int, source.Span{}); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, err := tab.Register("area", []types.TypeID{b.Int}, b.Float, source.Span{})
	var dup *ErrDuplicateImpl
	if !errors.As(err, &dup) {
		t.Fatalf("expected ErrDuplicateImpl, got %v", err)
	}
}

func TestResolveNoMatchFails(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	tab := New(in)
	_, _ = tab.Register("area", []types.TypeID{b.Int}, b.Int, source.Span{})

	_, err := tab.Resolve("area", []types.TypeID{b.String})
	var nm *ErrNoMatchingImpl
	if !errors.As(err, &nm) {
		t.Fatalf("expected ErrNoMatchingImpl, got %v", err)
	}
}

func TestMangleIsInjectivePerParameterList(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	tab := New(in)

	m1 := tab.Mangle("area", []types.TypeID{b.Int})
	m2 := tab.Mangle("area", []types.TypeID{b.Float})
	if m1 == m2 {
		t.Fatalf("distinct parameter types must mangle to distinct names, got %q for both", m1)
	}
}
