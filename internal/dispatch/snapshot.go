package dispatch

import "somc/internal/types"

// Snapshot is an exported, msgpack-friendly copy of a Table's state: the
// registered implementation sets, in first-registration order.
type Snapshot struct {
	Order   []string
	Methods map[string][]Impl
}

// Snapshot copies t's state out. Impl pointers become values, since a
// Table reconstructed by Restore owns a fresh set of Impls.
func (t *Table) Snapshot() Snapshot {
	methods := make(map[string][]Impl, len(t.methods))
	for name, impls := range t.methods {
		out := make([]Impl, len(impls))
		for i, impl := range impls {
			out[i] = *impl
		}
		methods[name] = out
	}
	return Snapshot{Order: append([]string(nil), t.order...), Methods: methods}
}

// Restore rebuilds a Table from a Snapshot, resuming Mangle calls
// against interner — the same one the build that produced the snapshot
// used, so mangled names and Impl.Result remain meaningful TypeIDs.
func Restore(s Snapshot, interner *types.Interner) *Table {
	t := &Table{
		interner: interner,
		methods:  make(map[string][]*Impl, len(s.Methods)),
		order:    append([]string(nil), s.Order...),
	}
	for name, impls := range s.Methods {
		out := make([]*Impl, len(impls))
		for i := range impls {
			impl := impls[i]
			out[i] = &impl
		}
		t.methods[name] = out
	}
	return t
}
