package resolve

import (
	"context"
	"fmt"
	"strings"

	"somc/internal/ast"
	"somc/internal/diag"
	"somc/internal/scope"
	"somc/internal/types"
)

// pass2Module resolves the structural body of every top-level type
// declaration in m, per §4.4 Pass 2: build an ephemeral Module scope
// seeded from the forward handles Pass 1 registered, then for each file
// a child File scope seeded with that file's own private declarations
// (forward-declared here, lazily, since private names are file-local).
// Imports are not consulted — a type name Pass 2 cannot find in the
// File→Module chain is an UnknownType error.
func (r *Resolver) pass2Module(_ context.Context, m *Module) error {
	moduleScopeID := r.buildModuleScope(m)

	fileScopes := make([]scope.ID, len(m.Files))
	for i, f := range m.Files {
		fileScopeID := r.Scopes.NewChild(moduleScopeID, scope.KindFile)
		fileScopes[i] = fileScopeID
		r.seedPrivateTypes(m, f, fileScopeID)
	}

	// Multimethod declarations are collected across every file of the
	// module before any implementation is checked against one: a
	// declaration's file need not precede its implementations' files.
	for i, f := range m.Files {
		fileScopeID := fileScopes[i]
		for seq, itemID := range f.Items {
			item := r.Builder.Items.Get(itemID)
			if item == nil || item.Kind != ast.ItemMultimethodDecl {
				continue
			}
			r.registerMultimethodDecl(m, f, fileScopeID, seq, itemID, item)
		}
	}

	for i, f := range m.Files {
		fileScopeID := fileScopes[i]
		for seq, itemID := range f.Items {
			item := r.Builder.Items.Get(itemID)
			if item == nil {
				continue
			}
			switch item.Kind {
			case ast.ItemType:
				r.resolveTypeDecl(m, f, fileScopeID, seq, itemID, item)
			case ast.ItemMultimethodImpl:
				r.registerMultimethodImpl(m, f, fileScopeID, seq, itemID, item)
			case ast.ItemIntrinsic:
				r.registerIntrinsic(m, f, fileScopeID, seq, itemID, item)
			}
		}
	}
	return nil
}

// buildModuleScope returns m's ephemeral Module scope, creating it (and
// seeding it with every name Pass 1 registered — both types and values,
// since forwardDeclareValue runs in Pass 1 too) on first use. Reused
// across Pass 2 and Pass 3: every binding it holds is a stable TypeID,
// so a later Resolve of the underlying forward is automatically visible
// through it without rebuilding.
func (r *Resolver) buildModuleScope(m *Module) scope.ID {
	key := strings.Join(m.Path, "\x00")
	if id, ok := r.moduleScope[key]; ok {
		return id
	}
	id := r.Scopes.NewChild(r.Scopes.Global(), scope.KindModule)
	entry, err := r.Registry.Get(m.Path)
	if err == nil {
		for name, te := range entry.ModuleTypes {
			_ = r.Scopes.DeclareType(id, name, scope.TypeBinding{Type: te.Handle, Vis: te.Vis, Span: te.Span})
		}
		for name, ve := range entry.ModuleValues {
			_ = r.Scopes.DeclareValue(id, name, scope.ValueBinding{Type: ve.Type, Vis: ve.Vis, Span: ve.Span})
		}
	}
	r.moduleScope[key] = id
	return id
}

func (r *Resolver) seedPrivateTypes(m *Module, f *ast.File, fileScopeID scope.ID) {
	for _, itemID := range f.Items {
		item := r.Builder.Items.Get(itemID)
		if item == nil || item.Kind != ast.ItemType {
			continue
		}
		decl := r.Builder.Items.Type(itemID)
		if decl == nil || decl.Vis != ast.VisPrivate {
			continue
		}
		privatePath := append(append([]string(nil), m.Path...), "#"+f.Path)
		handle := r.Types.DeclareForward(privatePath, decl.Name)
		r.handles[handleKey(privatePath, decl.Name)] = handle
		r.origins[handle] = declOrigin{ModulePath: m.Path, Name: decl.Name, FileName: f.Path, Span: item.Span}
		if err := r.Scopes.DeclareType(fileScopeID, decl.Name, scope.TypeBinding{Type: handle, Vis: ast.VisPrivate, Span: item.Span}); err != nil {
			r.reportScopeDuplicate(m, f, item, decl.Name)
		}
	}
}

func (r *Resolver) resolveTypeDecl(m *Module, f *ast.File, fileScopeID scope.ID, seq int, itemID ast.ItemID, item *ast.Item) {
	decl := r.Builder.Items.Type(itemID)
	if decl == nil {
		return
	}
	var handle types.TypeID
	if decl.Vis == ast.VisPrivate {
		binding, err := r.Scopes.LookupType(fileScopeID, decl.Name)
		if err != nil {
			return // seedPrivateTypes already reported the duplicate.
		}
		handle = binding.Type
	} else {
		handle = r.handles[handleKey(m.Path, decl.Name)]
	}
	if handle == types.NoTypeID {
		return
	}

	if _, err := r.resolveTypeExpr(fileScopeID, decl.Body, handle, decl.Name); err != nil {
		r.reportTypeExprError(m, f, item, seq, err)
	}
}

// registerMultimethodDecl resolves one "multimethod fn name(...) -> T;"
// forward declaration's result type and records it alongside its arity,
// so every implementation registered afterward can be checked against
// the name's declared shape rather than only against its own body.
func (r *Resolver) registerMultimethodDecl(m *Module, f *ast.File, fileScopeID scope.ID, seq int, itemID ast.ItemID, item *ast.Item) {
	decl := r.Builder.Items.MultimethodDecl(itemID)
	if decl == nil {
		return
	}
	result := r.Types.Builtins().Unit
	if decl.Result.IsValid() {
		rt, err := r.resolveTypeExpr(fileScopeID, decl.Result, types.NoTypeID, decl.Name)
		if err != nil {
			r.reportTypeExprError(m, f, item, seq, err)
			return
		}
		result = rt
	}
	r.mmDecls[decl.Name] = &mmDeclSignature{Arity: decl.Arity, Result: result, Span: item.Span}
}

func (r *Resolver) registerMultimethodImpl(m *Module, f *ast.File, fileScopeID scope.ID, seq int, itemID ast.ItemID, item *ast.Item) {
	impl := r.Builder.Items.MultimethodImpl(itemID)
	if impl == nil {
		return
	}
	params := make([]types.TypeID, 0, len(impl.Params))
	for _, p := range impl.Params {
		pt, err := r.resolveTypeExpr(fileScopeID, p.Type, types.NoTypeID, impl.Name)
		if err != nil {
			r.reportTypeExprError(m, f, item, seq, err)
			return
		}
		params = append(params, pt)
	}
	result := r.Types.Builtins().Unit
	if impl.Result.IsValid() {
		rt, err := r.resolveTypeExpr(fileScopeID, impl.Result, types.NoTypeID, impl.Name)
		if err != nil {
			r.reportTypeExprError(m, f, item, seq, err)
			return
		}
		result = rt
	}

	if decl, ok := r.mmDecls[impl.Name]; ok {
		if len(params) != decl.Arity {
			msg := fmt.Sprintf("'%s' takes %d argument(s), its declaration takes %d", impl.Name, len(params), decl.Arity)
			diag.ReportError(r.Reporter, diag.DisArityMismatch, item.Span, msg).
				WithOrigin(r.origin(m, f, seq)).
				Emit()
			return
		}
		if result != decl.Result {
			msg := "'" + impl.Name + "' returns " + r.Types.Name(result) + ", its declaration returns " + r.Types.Name(decl.Result)
			diag.ReportError(r.Reporter, diag.ResReturnTypeMismatch, item.Span, msg).
				WithOrigin(r.origin(m, f, seq)).
				Emit()
			return
		}
	}

	if _, err := r.Dispatch.Register(impl.Name, params, result, item.Span); err != nil {
		msg := "duplicate implementation of '" + impl.Name + "' for this exact parameter list"
		diag.ReportError(r.Reporter, diag.DisDuplicateImpl, item.Span, msg).
			WithOrigin(r.origin(m, f, seq)).
			Emit()
		return
	}
	registered := r.Dispatch.Implementations(impl.Name)
	r.implByItem[itemID] = registered[len(registered)-1]
}

// registerIntrinsic resolves a host-provided function's declared
// signature into a concrete function type and binds it as a value, the
// same shape a "let fn" would produce, so a call site finds it through
// an ordinary scope lookup rather than the dispatch table. A non-private
// intrinsic's forward handle was reserved in Pass 1 (forwardDeclareIntrinsic)
// so sibling files in the same module already see its slot; a private one
// is declared directly into this file's scope, since nothing outside the
// file could reach it regardless.
func (r *Resolver) registerIntrinsic(m *Module, f *ast.File, fileScopeID scope.ID, seq int, itemID ast.ItemID, item *ast.Item) {
	decl := r.Builder.Items.Intrinsic(itemID)
	if decl == nil {
		return
	}
	params := make([]types.TypeID, 0, len(decl.Params))
	for _, p := range decl.Params {
		pt, err := r.resolveTypeExpr(fileScopeID, p, types.NoTypeID, decl.Name)
		if err != nil {
			r.reportTypeExprError(m, f, item, seq, err)
			return
		}
		params = append(params, pt)
	}
	result := r.Types.Builtins().Unit
	if decl.Result.IsValid() {
		rt, err := r.resolveTypeExpr(fileScopeID, decl.Result, types.NoTypeID, decl.Name)
		if err != nil {
			r.reportTypeExprError(m, f, item, seq, err)
			return
		}
		result = rt
	}
	fnType := r.Types.RegisterFn(params, result)

	if decl.Vis == ast.VisPrivate {
		privatePath := append(append([]string(nil), m.Path...), "#"+f.Path)
		r.valueHandles[handleKey(privatePath, decl.Name)] = fnType
		if err := r.Scopes.DeclareValue(fileScopeID, decl.Name, scope.ValueBinding{Type: fnType, Vis: ast.VisPrivate, Span: item.Span}); err != nil {
			r.reportScopeDuplicateValue(m, f, item, decl.Name)
		}
		return
	}

	handle := r.valueHandles[handleKey(m.Path, decl.Name)]
	if handle == types.NoTypeID {
		return
	}
	actual, ok := r.Types.Lookup(fnType)
	if !ok {
		return
	}
	_ = r.Types.Resolve(handle, actual)
}

func (r *Resolver) reportTypeExprError(m *Module, f *ast.File, item *ast.Item, seq int, err error) {
	switch e := err.(type) {
	case *ErrUnknownType:
		diag.ReportError(r.Reporter, diag.ResUnknownType, e.Span, "unknown type '"+e.Name+"'").
			WithOrigin(r.origin(m, f, seq)).
			Emit()
	case *ErrInfiniteSize:
		diag.ReportError(r.Reporter, diag.ResInfiniteSize, e.Span, "'"+e.Name+"' has infinite size; box a field with a reference to break the cycle").
			WithOrigin(r.origin(m, f, seq)).
			Emit()
	default:
		diag.ReportError(r.Reporter, diag.ResInfo, item.Span, err.Error()).
			WithOrigin(r.origin(m, f, seq)).
			Emit()
	}
}

func (r *Resolver) reportScopeDuplicate(m *Module, f *ast.File, item *ast.Item, name string) {
	diag.ReportError(r.Reporter, diag.ResDuplicateTopLevelName, item.Span, "'"+name+"' is already declared in this file").
		WithOrigin(diag.Origin{ModulePath: modulePathString(m.Path), FileName: f.Path}).
		Emit()
}

func (r *Resolver) origin(m *Module, f *ast.File, seq int) diag.Origin {
	return diag.Origin{ModulePath: modulePathString(m.Path), FileName: f.Path, Seq: seq}
}

func modulePathString(path []string) string {
	return strings.Join(path, "/")
}
