package resolve

import (
	"context"
	"strings"

	"somc/internal/ast"
	"somc/internal/diag"
	"somc/internal/registry"
)

// pass1Module forward-declares every non-private top-level type in m,
// per §4.4 Pass 1: obtain a stable handle from the type domain, then
// insert it into the registry according to its declared visibility. A
// name collision is reported and skipped rather than aborting the walk,
// so a single module can surface every duplicate in one run.
//
// Private type declarations are deliberately NOT forward-declared here:
// §4.4 Pass 2 seeds each file's own scope with its private declarations
// as forwards, since a private name may repeat across sibling files in
// the same module (invariant R3) and the registry never sees it.
func (r *Resolver) pass1Module(_ context.Context, m *Module) error {
	for _, f := range m.Files {
		for seq, itemID := range f.Items {
			item := r.Builder.Items.Get(itemID)
			if item == nil {
				continue
			}
			switch item.Kind {
			case ast.ItemType:
				if err := r.forwardDeclareType(m, f, seq, itemID, item); err != nil {
					return err
				}
			case ast.ItemLet:
				if err := r.forwardDeclareValue(m, f, seq, itemID, item); err != nil {
					return err
				}
			case ast.ItemIntrinsic:
				if err := r.forwardDeclareIntrinsic(m, f, seq, itemID, item); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (r *Resolver) forwardDeclareType(m *Module, f *ast.File, seq int, itemID ast.ItemID, item *ast.Item) error {
	decl := r.Builder.Items.Type(itemID)
	if decl == nil || decl.Vis == ast.VisPrivate {
		return nil
	}
	handle := r.Types.DeclareForward(m.Path, decl.Name)
	r.handles[handleKey(m.Path, decl.Name)] = handle
	r.origins[handle] = declOrigin{
		ModulePath: m.Path,
		Name:       decl.Name,
		FileName:   f.Path,
		Seq:        seq,
		Span:       item.Span,
	}

	err := r.Registry.DeclareType(m.Path, decl.Name, decl.Vis, handle, item.Span)
	if err == nil {
		return nil
	}
	if dup, ok := err.(*registry.ErrDuplicateTopLevelName); ok {
		r.reportDuplicateTopLevelName(dup, f, seq, item)
		return nil
	}
	return err
}

// forwardDeclareValue reserves a type slot for a non-private top-level
// "let" before the registry seals, exactly like forwardDeclareType: a
// forward placeholder Pass 3 resolves once it has type-checked (or
// checked against the annotation) the initializer expression. Doing
// this in Pass 1 rather than Pass 3 is what lets a sibling file in the
// same module see the binding's slot in the Module scope Pass 2 and
// Pass 3 build from the registry.
func (r *Resolver) forwardDeclareValue(m *Module, f *ast.File, seq int, itemID ast.ItemID, item *ast.Item) error {
	decl := r.Builder.Items.Let(itemID)
	if decl == nil || decl.Vis == ast.VisPrivate {
		return nil
	}
	typ := r.Types.DeclareForward(m.Path, "let:"+decl.Name)
	r.valueHandles[handleKey(m.Path, decl.Name)] = typ

	err := r.Registry.DeclareValue(m.Path, decl.Name, decl.Vis, typ, item.Span)
	if err == nil {
		return nil
	}
	if dup, ok := err.(*registry.ErrDuplicateTopLevelName); ok {
		r.reportDuplicateTopLevelName(dup, f, seq, item)
		return nil
	}
	return err
}

// forwardDeclareIntrinsic reserves a value slot for a non-private
// intrinsic exactly like forwardDeclareValue does for a "let": Pass 2
// resolves the declared parameter/result types into a concrete function
// type and resolves this forward onto it, once every sibling file's
// module-level names are visible in the registry. A private intrinsic is
// skipped here and resolved entirely within Pass 2, inline with the file
// it appears in — nothing outside that file can ever reach it.
func (r *Resolver) forwardDeclareIntrinsic(m *Module, f *ast.File, seq int, itemID ast.ItemID, item *ast.Item) error {
	decl := r.Builder.Items.Intrinsic(itemID)
	if decl == nil || decl.Vis == ast.VisPrivate {
		return nil
	}
	typ := r.Types.DeclareForward(m.Path, "intrinsic:"+decl.Name)
	r.valueHandles[handleKey(m.Path, decl.Name)] = typ

	err := r.Registry.DeclareValue(m.Path, decl.Name, decl.Vis, typ, item.Span)
	if err == nil {
		return nil
	}
	if dup, ok := err.(*registry.ErrDuplicateTopLevelName); ok {
		r.reportDuplicateTopLevelName(dup, f, seq, item)
		return nil
	}
	return err
}

func (r *Resolver) reportDuplicateTopLevelName(dup *registry.ErrDuplicateTopLevelName, f *ast.File, seq int, item *ast.Item) {
	msg := "'" + dup.Name + "' is already declared in module " + strings.Join(dup.Module, "::")
	diag.ReportError(r.Reporter, diag.ResDuplicateTopLevelName, item.Span, msg).
		WithOrigin(diag.Origin{ModulePath: strings.Join(dup.Module, "/"), FileName: f.Path, Seq: seq}).
		Emit()
}
