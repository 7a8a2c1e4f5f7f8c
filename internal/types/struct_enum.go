package types

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// StructField describes one field of a nominal struct type.
type StructField struct {
	Name string
	Type TypeID
}

// StructInfo stores the metadata for a struct type's Payload slot.
type StructInfo struct {
	Name   string
	Fields []StructField
}

// EnumVariant describes one tag of a nominal enum type. Payload is
// NoTypeID for a bare tag with no associated data.
type EnumVariant struct {
	Name    string
	Payload TypeID
}

// EnumInfo stores the metadata for an enum type's Payload slot.
type EnumInfo struct {
	Name     string
	Variants []EnumVariant
}

// RegisterStruct allocates a fresh struct type slot with no fields yet;
// SetStructFields fills the body once Pass 2 resolves it.
func (in *Interner) RegisterStruct(name string) TypeID {
	slot := in.appendStructInfo(StructInfo{Name: name})
	return in.internRaw(Type{Kind: KindStruct, Payload: slot})
}

// ResolveStruct fills a forward placeholder in with a struct body,
// keeping id stable. Used by Pass 2 to turn a top-level type
// declaration's forward handle directly into its resolved struct type,
// without minting a second TypeID for the same declaration.
func (in *Interner) ResolveStruct(id TypeID, name string, fields []StructField) error {
	slot := in.appendStructInfo(StructInfo{Name: name, Fields: fields})
	return in.Resolve(id, Type{Kind: KindStruct, Payload: slot})
}

// ResolveEnum is ResolveStruct's counterpart for enum bodies.
func (in *Interner) ResolveEnum(id TypeID, name string, variants []EnumVariant) error {
	slot := in.appendEnumInfo(EnumInfo{Name: name, Variants: variants})
	return in.Resolve(id, Type{Kind: KindEnum, Payload: slot})
}

func (in *Interner) SetStructFields(id TypeID, fields []StructField) {
	info := in.structInfo(id)
	if info == nil {
		return
	}
	info.Fields = slices.Clone(fields)
}

func (in *Interner) StructInfo(id TypeID) (*StructInfo, bool) {
	info := in.structInfo(id)
	if info == nil {
		return nil, false
	}
	return info, true
}

func (in *Interner) structInfo(id TypeID) *StructInfo {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindStruct || t.Payload == 0 || int(t.Payload) >= len(in.structs) {
		return nil
	}
	return &in.structs[t.Payload]
}

func (in *Interner) appendStructInfo(info StructInfo) uint32 {
	in.structs = append(in.structs, StructInfo{Name: info.Name, Fields: slices.Clone(info.Fields)})
	slot, err := safecast.Conv[uint32](len(in.structs) - 1)
	if err != nil {
		panic(fmt.Errorf("types: struct table overflow: %w", err))
	}
	return slot
}

// RegisterEnum allocates a fresh enum type slot with no variants yet.
func (in *Interner) RegisterEnum(name string) TypeID {
	slot := in.appendEnumInfo(EnumInfo{Name: name})
	return in.internRaw(Type{Kind: KindEnum, Payload: slot})
}

func (in *Interner) SetEnumVariants(id TypeID, variants []EnumVariant) {
	info := in.enumInfo(id)
	if info == nil {
		return
	}
	info.Variants = slices.Clone(variants)
}

func (in *Interner) EnumInfo(id TypeID) (*EnumInfo, bool) {
	info := in.enumInfo(id)
	if info == nil {
		return nil, false
	}
	return info, true
}

func (in *Interner) enumInfo(id TypeID) *EnumInfo {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindEnum || t.Payload == 0 || int(t.Payload) >= len(in.enums) {
		return nil
	}
	return &in.enums[t.Payload]
}

func (in *Interner) appendEnumInfo(info EnumInfo) uint32 {
	in.enums = append(in.enums, EnumInfo{Name: info.Name, Variants: slices.Clone(info.Variants)})
	slot, err := safecast.Conv[uint32](len(in.enums) - 1)
	if err != nil {
		panic(fmt.Errorf("types: enum table overflow: %w", err))
	}
	return slot
}
