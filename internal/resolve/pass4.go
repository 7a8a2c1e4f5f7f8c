package resolve

import (
	"context"

	"somc/internal/ast"
	"somc/internal/diag"
	"somc/internal/types"
)

// pass4Module is the advisory unused-private-binding lint: a Private
// type or "let" that Pass 2/3 never looked up through any scope is
// almost certainly dead code, since nothing outside its own file could
// possibly reach it. It reports diag.ResUnusedPrivate as a warning and
// never fails the build — Run ignores its hadErrors return.
func (r *Resolver) pass4Module(_ context.Context, m *Module) error {
	for _, f := range m.Files {
		privatePath := append(append([]string(nil), m.Path...), "#"+f.Path)
		for seq, itemID := range f.Items {
			item := r.Builder.Items.Get(itemID)
			if item == nil {
				continue
			}
			switch item.Kind {
			case ast.ItemType:
				r.lintUnusedPrivateType(m, f, privatePath, seq, itemID, item)
			case ast.ItemLet:
				r.lintUnusedPrivateValue(m, f, privatePath, seq, itemID, item)
			case ast.ItemIntrinsic:
				r.lintUnusedPrivateIntrinsic(m, f, privatePath, seq, itemID, item)
			}
		}
	}
	return nil
}

func (r *Resolver) lintUnusedPrivateType(m *Module, f *ast.File, privatePath []string, seq int, itemID ast.ItemID, item *ast.Item) {
	decl := r.Builder.Items.Type(itemID)
	if decl == nil || decl.Vis != ast.VisPrivate {
		return
	}
	handle := r.handles[handleKey(privatePath, decl.Name)]
	if handle == types.NoTypeID || r.usedTypes[handle] {
		return
	}
	diag.ReportWarning(r.Reporter, diag.ResUnusedPrivate, item.Span, "'"+decl.Name+"' is declared but never used").
		WithOrigin(r.origin(m, f, seq)).
		Emit()
}

func (r *Resolver) lintUnusedPrivateValue(m *Module, f *ast.File, privatePath []string, seq int, itemID ast.ItemID, item *ast.Item) {
	decl := r.Builder.Items.Let(itemID)
	if decl == nil || decl.Vis != ast.VisPrivate {
		return
	}
	handle := r.valueHandles[handleKey(privatePath, decl.Name)]
	if handle == types.NoTypeID || r.usedValues[handle] {
		return
	}
	diag.ReportWarning(r.Reporter, diag.ResUnusedPrivate, item.Span, "'"+decl.Name+"' is declared but never used").
		WithOrigin(r.origin(m, f, seq)).
		Emit()
}

func (r *Resolver) lintUnusedPrivateIntrinsic(m *Module, f *ast.File, privatePath []string, seq int, itemID ast.ItemID, item *ast.Item) {
	decl := r.Builder.Items.Intrinsic(itemID)
	if decl == nil || decl.Vis != ast.VisPrivate {
		return
	}
	handle := r.valueHandles[handleKey(privatePath, decl.Name)]
	if handle == types.NoTypeID || r.usedValues[handle] {
		return
	}
	diag.ReportWarning(r.Reporter, diag.ResUnusedPrivate, item.Span, "'"+decl.Name+"' is declared but never used").
		WithOrigin(r.origin(m, f, seq)).
		Emit()
}
