package registry

// Snapshot is an exported, msgpack-friendly copy of a Registry's state:
// every module's four symbol tables plus the registration order and
// seal bit. Used by internal/cache to persist a sealed build.
type Snapshot struct {
	Order   []string
	Entries map[string]Entry
	Sealed  bool
}

// Snapshot copies r's state out. Safe to call only after Seal, since a
// snapshot taken mid-build would be stale the moment a later pass
// mutates an entry the caller already copied.
func (r *Registry) Snapshot() Snapshot {
	entries := make(map[string]Entry, len(r.entries))
	for k, e := range r.entries {
		entries[k] = cloneEntry(*e)
	}
	return Snapshot{
		Order:   append([]string(nil), r.order...),
		Entries: entries,
		Sealed:  r.sealed,
	}
}

// Restore rebuilds a Registry from a Snapshot taken earlier in the same
// build.
func Restore(s Snapshot) *Registry {
	r := &Registry{
		entries: make(map[string]*Entry, len(s.Entries)),
		order:   append([]string(nil), s.Order...),
		sealed:  s.Sealed,
	}
	for k, e := range s.Entries {
		cloned := cloneEntry(e)
		r.entries[k] = &cloned
	}
	return r
}

func cloneEntry(e Entry) Entry {
	out := Entry{
		Path:         append([]string(nil), e.Path...),
		PublicTypes:  make(map[string]TypeEntry, len(e.PublicTypes)),
		PublicValues: make(map[string]ValueEntry, len(e.PublicValues)),
		ModuleTypes:  make(map[string]TypeEntry, len(e.ModuleTypes)),
		ModuleValues: make(map[string]ValueEntry, len(e.ModuleValues)),
	}
	for k, v := range e.PublicTypes {
		out.PublicTypes[k] = v
	}
	for k, v := range e.PublicValues {
		out.PublicValues[k] = v
	}
	for k, v := range e.ModuleTypes {
		out.ModuleTypes[k] = v
	}
	for k, v := range e.ModuleValues {
		out.ModuleValues[k] = v
	}
	return out
}
