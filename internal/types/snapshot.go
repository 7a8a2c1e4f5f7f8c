package types

import "slices"

// Snapshot is an exported, msgpack-friendly copy of an Interner's full
// state: every side table backing a TypeID, in slot order. It exists so
// internal/cache can persist a sealed build's type table across runs
// without reaching into Interner's private fields.
type Snapshot struct {
	Types    []Type
	Structs  []StructInfo
	Enums    []EnumInfo
	Fns      []FnInfo
	Forwards []ForwardInfo
}

// Snapshot copies in's state out. The copy is independent of in — later
// mutation of either does not affect the other.
func (in *Interner) Snapshot() Snapshot {
	return Snapshot{
		Types:    slices.Clone(in.types),
		Structs:  slices.Clone(in.structs),
		Enums:    slices.Clone(in.enums),
		Fns:      slices.Clone(in.fns),
		Forwards: slices.Clone(in.forwards),
	}
}

// Restore rebuilds an Interner from a Snapshot taken earlier in the same
// build, by the same means NewInterner builds one from scratch: side
// tables are restored verbatim, the dedup index and forward-lookup index
// are rebuilt from them, and Builtins are re-derived by scanning for the
// five primitive kinds rather than assumed to occupy fixed slots.
func Restore(s Snapshot) *Interner {
	in := &Interner{
		types:        slices.Clone(s.Types),
		structs:      slices.Clone(s.Structs),
		enums:        slices.Clone(s.Enums),
		fns:          slices.Clone(s.Fns),
		forwards:     slices.Clone(s.Forwards),
		index:        make(map[typeKey]TypeID, len(s.Types)),
		forwardIndex: make(map[string]TypeID, len(s.Forwards)),
	}
	for i, t := range in.types {
		id := TypeID(i + 1)
		in.index[typeKey(t)] = id
		if t.Kind == KindForward && int(t.Payload) < len(in.forwards) {
			fi := in.forwards[t.Payload]
			in.forwardIndex[forwardKey(fi.ModulePath, fi.Name)] = id
		}
		if t.Kind == KindPrimitive {
			switch t.Primitive {
			case PrimUnit:
				in.builtins.Unit = id
			case PrimBool:
				in.builtins.Bool = id
			case PrimInt:
				in.builtins.Int = id
			case PrimFloat:
				in.builtins.Float = id
			case PrimString:
				in.builtins.String = id
			}
		}
	}
	return in
}
