package ast

import "somc/internal/source"

// ItemKind tags the six top-level declaration shapes the language allows.
type ItemKind uint8

const (
	ItemImport ItemKind = iota
	ItemType
	ItemLet
	ItemMultimethodDecl
	ItemMultimethodImpl
	ItemIntrinsic
)

// Item is a single arena slot; Payload indexes into the per-kind arena
// named below.
type Item struct {
	Kind    ItemKind
	Span    source.Span
	Payload uint32
}

// ImportItem is a "use a::b::c" declaration. Path holds the segments in
// order; Alias is empty unless the import binds a local name.
type ImportItem struct {
	Path  []string
	Alias string
}

// TypeDeclItem is a "[pub|pub(mod)] type Name = <body>" declaration.
// Body indexes into the file's TypeExprs arena and may be a struct, enum,
// reference, function, or path type.
type TypeDeclItem struct {
	Name string
	Vis  Visibility
	Body TypeID
}

// LetItem is a "[pub|pub(mod)] let name [: Type] = <expr>" module-level
// binding.
type LetItem struct {
	Name  string
	Vis   Visibility
	Type  TypeID // NoTypeID if the annotation is omitted
	Value ExprID
}

// MultimethodDeclItem forward-declares the generic name and arity of a
// multimethod without committing to any one implementation's parameter
// types. Individual type-specific bodies come from MultimethodImplItem.
type MultimethodDeclItem struct {
	Name   string
	Vis    Visibility
	Arity  int
	Result TypeID
}

type MultimethodImplParam struct {
	Name string
	Type TypeID
}

// MultimethodImplItem is one "impl fn name(typed params) -> T { body }"
// case registered against the multimethod of the same name.
type MultimethodImplItem struct {
	Name   string
	Params []MultimethodImplParam
	Result TypeID // NoTypeID if inferred from the body
	Body   ExprID
}

// IntrinsicItem declares a name whose implementation is supplied by the
// host rather than written in source; it carries a signature but no body.
type IntrinsicItem struct {
	Name   string
	Vis    Visibility
	Params []TypeID
	Result TypeID
}

type Items struct {
	arena       *Arena[Item]
	imports     *Arena[ImportItem]
	types       *Arena[TypeDeclItem]
	lets        *Arena[LetItem]
	mmDecls     *Arena[MultimethodDeclItem]
	mmImpls     *Arena[MultimethodImplItem]
	intrinsics  *Arena[IntrinsicItem]
}

func NewItems(capHint uint) *Items {
	return &Items{
		arena:      NewArena[Item](capHint),
		imports:    NewArena[ImportItem](capHint),
		types:      NewArena[TypeDeclItem](capHint),
		lets:       NewArena[LetItem](capHint),
		mmDecls:    NewArena[MultimethodDeclItem](capHint),
		mmImpls:    NewArena[MultimethodImplItem](capHint),
		intrinsics: NewArena[IntrinsicItem](capHint),
	}
}

func (it *Items) Get(id ItemID) *Item { return it.arena.Get(uint32(id)) }

func (it *Items) NewImport(span source.Span, path []string, alias string) ItemID {
	p := it.imports.Allocate(ImportItem{Path: append([]string(nil), path...), Alias: alias})
	return ItemID(it.arena.Allocate(Item{Kind: ItemImport, Span: span, Payload: p}))
}

func (it *Items) Import(id ItemID) *ImportItem { return itemPayload(it, id, ItemImport, it.imports) }

func (it *Items) NewType(span source.Span, name string, vis Visibility, body TypeID) ItemID {
	p := it.types.Allocate(TypeDeclItem{Name: name, Vis: vis, Body: body})
	return ItemID(it.arena.Allocate(Item{Kind: ItemType, Span: span, Payload: p}))
}

func (it *Items) Type(id ItemID) *TypeDeclItem { return itemPayload(it, id, ItemType, it.types) }

func (it *Items) NewLet(span source.Span, name string, vis Visibility, typ TypeID, value ExprID) ItemID {
	p := it.lets.Allocate(LetItem{Name: name, Vis: vis, Type: typ, Value: value})
	return ItemID(it.arena.Allocate(Item{Kind: ItemLet, Span: span, Payload: p}))
}

func (it *Items) Let(id ItemID) *LetItem { return itemPayload(it, id, ItemLet, it.lets) }

func (it *Items) NewMultimethodDecl(span source.Span, name string, vis Visibility, arity int, result TypeID) ItemID {
	p := it.mmDecls.Allocate(MultimethodDeclItem{Name: name, Vis: vis, Arity: arity, Result: result})
	return ItemID(it.arena.Allocate(Item{Kind: ItemMultimethodDecl, Span: span, Payload: p}))
}

func (it *Items) MultimethodDecl(id ItemID) *MultimethodDeclItem {
	return itemPayload(it, id, ItemMultimethodDecl, it.mmDecls)
}

func (it *Items) NewMultimethodImpl(span source.Span, name string, params []MultimethodImplParam, result TypeID, body ExprID) ItemID {
	p := it.mmImpls.Allocate(MultimethodImplItem{
		Name:   name,
		Params: append([]MultimethodImplParam(nil), params...),
		Result: result,
		Body:   body,
	})
	return ItemID(it.arena.Allocate(Item{Kind: ItemMultimethodImpl, Span: span, Payload: p}))
}

func (it *Items) MultimethodImpl(id ItemID) *MultimethodImplItem {
	return itemPayload(it, id, ItemMultimethodImpl, it.mmImpls)
}

func (it *Items) NewIntrinsic(span source.Span, name string, vis Visibility, params []TypeID, result TypeID) ItemID {
	p := it.intrinsics.Allocate(IntrinsicItem{Name: name, Vis: vis, Params: append([]TypeID(nil), params...), Result: result})
	return ItemID(it.arena.Allocate(Item{Kind: ItemIntrinsic, Span: span, Payload: p}))
}

func (it *Items) Intrinsic(id ItemID) *IntrinsicItem {
	return itemPayload(it, id, ItemIntrinsic, it.intrinsics)
}

func itemPayload[T any](it *Items, id ItemID, want ItemKind, arena *Arena[T]) *T {
	node := it.arena.Get(uint32(id))
	if node == nil || node.Kind != want {
		return nil
	}
	return arena.Get(node.Payload)
}
