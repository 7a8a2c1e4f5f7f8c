package types

import "strings"

// DeclareForward records a placeholder for a type that has been declared
// but not yet resolved. It is idempotent: calling it twice with the same
// (modulePath, name) returns the same TypeID, which is what makes
// invariant F2 hold — Forward(n) equals only Forward(n).
func (in *Interner) DeclareForward(modulePath []string, name string) TypeID {
	key := forwardKey(modulePath, name)
	if id, ok := in.forwardIndex[key]; ok {
		return id
	}
	slot := uint32(len(in.forwards))
	in.forwards = append(in.forwards, ForwardInfo{ModulePath: append([]string(nil), modulePath...), Name: name})
	id := in.internRaw(Type{Kind: KindForward, Payload: slot})
	if in.forwardIndex == nil {
		in.forwardIndex = make(map[string]TypeID)
	}
	in.forwardIndex[key] = id
	return id
}

// IsForward reports whether id still refers to an unresolved forward
// declaration.
func (in *Interner) IsForward(id TypeID) bool {
	t, ok := in.Lookup(id)
	return ok && t.Kind == KindForward
}

// ForwardInfo returns the qualified name a forward placeholder stands
// for, if id is still unresolved.
func (in *Interner) ForwardInfo(id TypeID) (ForwardInfo, bool) {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindForward || int(t.Payload) >= len(in.forwards) {
		return ForwardInfo{}, false
	}
	return in.forwards[t.Payload], true
}

// Resolve replaces the forward placeholder at id with actual, keeping id
// stable so every reference recorded during Pass 1 now sees the real
// type. Calling Resolve on an id that is not currently an unresolved
// forward is a programmer error (ErrAlreadyResolved), never a recoverable
// diagnostic condition — the resolver must not call it twice for the
// same declaration.
func (in *Interner) Resolve(id TypeID, actual Type) error {
	if !in.IsForward(id) {
		return &ErrAlreadyResolved{ID: id}
	}
	in.types[id-1] = actual
	in.index[typeKey(actual)] = id
	return nil
}

func forwardKey(modulePath []string, name string) string {
	return strings.Join(modulePath, "\x00") + "\x01" + name
}
