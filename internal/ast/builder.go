package ast

// Builder owns every arena a parsed module tree allocates into. One
// Builder is shared across every file in a build so that IDs from
// different files never collide.
type Builder struct {
	Files     *Arena[File]
	Items     *Items
	Stmts     *Stmts
	Exprs     *Exprs
	TypeExprs *TypeExprs
}

// NewBuilder allocates a Builder with arenas sized for capHint items;
// pass 0 to let each arena start small and grow.
func NewBuilder(capHint uint) *Builder {
	return &Builder{
		Files:     NewArena[File](capHint),
		Items:     NewItems(capHint),
		Stmts:     NewStmts(capHint),
		Exprs:     NewExprs(capHint),
		TypeExprs: NewTypeExprs(capHint),
	}
}

// NewFile registers a fully-parsed file and returns its ID.
func (b *Builder) NewFile(f File) FileID {
	return FileID(b.Files.Allocate(f))
}

func (b *Builder) File(id FileID) *File {
	return b.Files.Get(uint32(id))
}
