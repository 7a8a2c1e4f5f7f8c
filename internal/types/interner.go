package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Builtins holds TypeIDs for the primitives every module can reference
// without declaring them.
type Builtins struct {
	Unit   TypeID
	Bool   TypeID
	Int    TypeID
	Float  TypeID
	String TypeID
}

// Interner is the single owner of every Type a build produces. It gives
// structurally-equal descriptors a shared TypeID (deduplication) except
// for KindForward, where every declaration is deliberately distinct.
type Interner struct {
	types    []Type
	index    map[typeKey]TypeID
	builtins Builtins
	structs  []StructInfo
	enums    []EnumInfo
	fns      []FnInfo

	forwards     []ForwardInfo
	forwardIndex map[string]TypeID
}

// NewInterner constructs an Interner seeded with the built-in primitives.
func NewInterner() *Interner {
	in := &Interner{index: make(map[typeKey]TypeID, 64)}
	in.structs = append(in.structs, StructInfo{}) // reserve slot 0
	in.enums = append(in.enums, EnumInfo{})
	in.builtins.Unit = in.Intern(Type{Kind: KindPrimitive, Primitive: PrimUnit})
	in.builtins.Bool = in.Intern(Type{Kind: KindPrimitive, Primitive: PrimBool})
	in.builtins.Int = in.Intern(Type{Kind: KindPrimitive, Primitive: PrimInt})
	in.builtins.Float = in.Intern(Type{Kind: KindPrimitive, Primitive: PrimFloat})
	in.builtins.String = in.Intern(Type{Kind: KindPrimitive, Primitive: PrimString})
	return in
}

func (in *Interner) Builtins() Builtins { return in.builtins }

// Intern returns the stable TypeID for t, reusing an existing slot for
// any structurally-equal descriptor already seen.
func (in *Interner) Intern(t Type) TypeID {
	key := typeKey(t)
	if id, ok := in.index[key]; ok {
		return id
	}
	return in.internRaw(t)
}

func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("types: type table overflow: %w", err))
	}
	id := TypeID(lenTypes + 1)
	in.types = append(in.types, t)
	in.index[typeKey(t)] = id
	return id
}

// Lookup returns the descriptor for id.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) > len(in.types) {
		return Type{}, false
	}
	return in.types[id-1], true
}

type typeKey struct {
	Kind      Kind
	Primitive Primitive
	Elem      TypeID
	Payload   uint32
}
