package resolve

import (
	"context"
	"fmt"
	"strings"

	"somc/internal/ast"
	"somc/internal/diag"
	"somc/internal/dispatch"
	"somc/internal/scope"
	"somc/internal/types"
)

// pass3Module is §4.4's final pass: reuse the Module scope Pass 2 built
// (buildModuleScope returns the cached one), hang fresh File scopes off it,
// bring imported modules' public_* entries into File scope, pre-resolve
// every function-literal "let"'s signature from its annotation, then
// type-check every "let" initializer, function literal, and multimethod
// implementation body, resolving call sites through the dispatch table
// along the way.
func (r *Resolver) pass3Module(_ context.Context, m *Module) error {
	moduleScopeID := r.buildModuleScope(m)

	fileScopes := make([]scope.ID, len(m.Files))
	for i, f := range m.Files {
		fileScopeID := r.Scopes.NewChild(moduleScopeID, scope.KindFile)
		fileScopes[i] = fileScopeID
		r.processImports(m, f, fileScopeID)
		r.reseedPrivateTypes(m, f, fileScopeID)
		r.seedPrivateValues(m, f, fileScopeID)
		r.reseedPrivateIntrinsics(m, f, fileScopeID)
	}

	// A function literal's signature is fully known from its own
	// annotation, without evaluating its body: resolving every "let"
	// shaped that way up front, across the whole module, lets a call to
	// a sibling declared later in the same file — or in another file of
	// the same module — resolve through typeOfFunctionValueCall's
	// FnInfo lookup instead of falling through to the dispatch table
	// with a still-unresolved forward placeholder (P4). A "let" left
	// without an explicit result annotation is skipped here and picked
	// up normally once checkLetItem evaluates its body.
	for i, f := range m.Files {
		r.resolveFnLitSignatures(m, f, fileScopes[i])
	}

	for i, f := range m.Files {
		fileScopeID := fileScopes[i]
		for seq, itemID := range f.Items {
			item := r.Builder.Items.Get(itemID)
			if item == nil {
				continue
			}
			switch item.Kind {
			case ast.ItemLet:
				r.checkLetItem(m, f, fileScopeID, seq, itemID, item)
			case ast.ItemMultimethodImpl:
				r.checkMultimethodImplBody(m, f, fileScopeID, seq, itemID, item)
			}
		}
	}
	return nil
}

// resolveFnLitSignatures resolves the forward placeholder of every "let"
// in f whose value is a function literal with an explicit result type,
// to the types.KindFunction signature its param and result annotations
// describe. checkLetItem checks the same placeholder's IsForward state
// before it would otherwise call Resolve a second time, so a literal
// settled here is simply left alone once its body is later checked.
func (r *Resolver) resolveFnLitSignatures(m *Module, f *ast.File, fileScopeID scope.ID) {
	privatePath := append(append([]string(nil), m.Path...), "#"+f.Path)
	for _, itemID := range f.Items {
		item := r.Builder.Items.Get(itemID)
		if item == nil || item.Kind != ast.ItemLet {
			continue
		}
		decl := r.Builder.Items.Let(itemID)
		if decl == nil {
			continue
		}
		fnLit := r.Builder.Exprs.FnLit(decl.Value)
		if fnLit == nil || !fnLit.Result.IsValid() {
			continue
		}

		var handle types.TypeID
		if decl.Vis == ast.VisPrivate {
			handle = r.valueHandles[handleKey(privatePath, decl.Name)]
		} else {
			handle = r.valueHandles[handleKey(m.Path, decl.Name)]
		}
		if handle == types.NoTypeID || !r.Types.IsForward(handle) {
			continue
		}

		params := make([]types.TypeID, 0, len(fnLit.Params))
		incomplete := false
		for _, p := range fnLit.Params {
			if !p.Type.IsValid() {
				incomplete = true
				break
			}
			pt, err := r.resolveTypeExpr(fileScopeID, p.Type, types.NoTypeID, decl.Name)
			if err != nil {
				incomplete = true
				break
			}
			params = append(params, pt)
		}
		if incomplete {
			continue
		}
		result, err := r.resolveTypeExpr(fileScopeID, fnLit.Result, types.NoTypeID, decl.Name)
		if err != nil {
			continue
		}

		fnType := r.Types.RegisterFn(params, result)
		actualType, ok := r.Types.Lookup(fnType)
		if !ok {
			continue
		}
		_ = r.Types.Resolve(handle, actualType)
	}
}

// processImports copies a target module's public_* tables into File scope
// unconditionally, under their bare names (invariant R2: imports read
// from public_* only). This is a straight copy, not a qualified member
// reference: "use a::b" makes "Widget" resolvable directly, the same way
// a same-named local declaration would be. A name already bound in this
// file (by a local declaration or an earlier import) is reported as a
// duplicate through the same scope-collision path a local redeclaration
// would hit.
func (r *Resolver) processImports(m *Module, f *ast.File, fileScopeID scope.ID) {
	for _, itemID := range f.Items {
		item := r.Builder.Items.Get(itemID)
		if item == nil || item.Kind != ast.ItemImport {
			continue
		}
		imp := r.Builder.Items.Import(itemID)
		if imp == nil {
			continue
		}
		target, err := r.Registry.Get(imp.Path)
		if err != nil {
			msg := "unknown module '" + strings.Join(imp.Path, "::") + "'"
			diag.ReportError(r.Reporter, diag.ModUnknownModule, item.Span, msg).
				WithOrigin(diag.Origin{ModulePath: modulePathString(m.Path), FileName: f.Path}).
				Emit()
			continue
		}
		for name, te := range target.PublicTypes {
			if err := r.Scopes.DeclareType(fileScopeID, name, scope.TypeBinding{Type: te.Handle, Vis: te.Vis, Span: te.Span}); err != nil {
				r.reportScopeDuplicate(m, f, item, name)
			}
		}
		for name, ve := range target.PublicValues {
			if err := r.Scopes.DeclareValue(fileScopeID, name, scope.ValueBinding{Type: ve.Type, Vis: ve.Vis, Span: ve.Span}); err != nil {
				r.reportScopeDuplicateValue(m, f, item, name)
			}
		}
	}
}

// reseedPrivateTypes rebinds this file's private type declarations into
// the fresh File scope Pass 3 just built. The handles themselves (and
// their resolved bodies) were produced once, in Pass 2 — this only makes
// them visible again under the new scope ID.
func (r *Resolver) reseedPrivateTypes(m *Module, f *ast.File, fileScopeID scope.ID) {
	privatePath := append(append([]string(nil), m.Path...), "#"+f.Path)
	for _, itemID := range f.Items {
		item := r.Builder.Items.Get(itemID)
		if item == nil || item.Kind != ast.ItemType {
			continue
		}
		decl := r.Builder.Items.Type(itemID)
		if decl == nil || decl.Vis != ast.VisPrivate {
			continue
		}
		handle := r.handles[handleKey(privatePath, decl.Name)]
		if handle == types.NoTypeID {
			continue
		}
		if err := r.Scopes.DeclareType(fileScopeID, decl.Name, scope.TypeBinding{Type: handle, Vis: ast.VisPrivate, Span: item.Span}); err != nil {
			r.reportScopeDuplicate(m, f, item, decl.Name)
		}
	}
}

// seedPrivateValues forward-declares every private top-level "let" in f,
// mirroring forwardDeclareValue's module-wide treatment but scoped to
// this file and never touching the registry (invariant R3 — a private
// name may repeat across sibling files). Declaring every private let's
// placeholder before checking any of their initializers lets one private
// let in a file reference a sibling declared later in the same file.
func (r *Resolver) seedPrivateValues(m *Module, f *ast.File, fileScopeID scope.ID) {
	privatePath := append(append([]string(nil), m.Path...), "#"+f.Path)
	for _, itemID := range f.Items {
		item := r.Builder.Items.Get(itemID)
		if item == nil || item.Kind != ast.ItemLet {
			continue
		}
		decl := r.Builder.Items.Let(itemID)
		if decl == nil || decl.Vis != ast.VisPrivate {
			continue
		}
		typ := r.Types.DeclareForward(privatePath, "let:"+decl.Name)
		r.valueHandles[handleKey(privatePath, decl.Name)] = typ
		if err := r.Scopes.DeclareValue(fileScopeID, decl.Name, scope.ValueBinding{Type: typ, Vis: ast.VisPrivate, Span: item.Span}); err != nil {
			r.reportScopeDuplicateValue(m, f, item, decl.Name)
		}
	}
}

// reseedPrivateIntrinsics rebinds this file's private intrinsics into the
// fresh File scope Pass 3 just built. Their function types were resolved
// once, in Pass 2 (registerIntrinsic) — this only makes the binding
// visible again under the new scope ID, mirroring reseedPrivateTypes.
func (r *Resolver) reseedPrivateIntrinsics(m *Module, f *ast.File, fileScopeID scope.ID) {
	privatePath := append(append([]string(nil), m.Path...), "#"+f.Path)
	for _, itemID := range f.Items {
		item := r.Builder.Items.Get(itemID)
		if item == nil || item.Kind != ast.ItemIntrinsic {
			continue
		}
		decl := r.Builder.Items.Intrinsic(itemID)
		if decl == nil || decl.Vis != ast.VisPrivate {
			continue
		}
		handle := r.valueHandles[handleKey(privatePath, decl.Name)]
		if handle == types.NoTypeID {
			continue
		}
		if err := r.Scopes.DeclareValue(fileScopeID, decl.Name, scope.ValueBinding{Type: handle, Vis: ast.VisPrivate, Span: item.Span}); err != nil {
			r.reportScopeDuplicateValue(m, f, item, decl.Name)
		}
	}
}

// checkLetItem resolves the forward placeholder Pass 1 (non-private) or
// seedPrivateValues (private) created for a top-level binding: it
// type-checks the initializer, checks it against the annotation when one
// was written, and resolves the placeholder to the result — every prior
// reference to the placeholder's TypeID becomes visible as the real type
// without needing to be revisited (types.Interner.Resolve mutates in
// place). A placeholder resolveFnLitSignatures already settled is left
// alone; its initializer is still checked here for its own errors.
func (r *Resolver) checkLetItem(m *Module, f *ast.File, fileScopeID scope.ID, seq int, itemID ast.ItemID, item *ast.Item) {
	let := r.Builder.Items.Let(itemID)
	if let == nil {
		return
	}

	var handle types.TypeID
	if let.Vis == ast.VisPrivate {
		privatePath := append(append([]string(nil), m.Path...), "#"+f.Path)
		handle = r.valueHandles[handleKey(privatePath, let.Name)]
	} else {
		handle = r.valueHandles[handleKey(m.Path, let.Name)]
	}
	if handle == types.NoTypeID {
		return
	}

	valType, err := r.typeOfExpr(fileScopeID, let.Value)
	if err != nil {
		r.reportCheckError(m, f, item, seq, err)
		return
	}

	actual := valType
	if let.Type.IsValid() {
		declared, err := r.resolveTypeExpr(fileScopeID, let.Type, types.NoTypeID, let.Name)
		if err != nil {
			r.reportTypeExprError(m, f, item, seq, err)
			return
		}
		if declared != valType {
			r.reportCheckError(m, f, item, seq, &ErrTypeMismatch{Expected: declared, Actual: valType, Span: item.Span})
			return
		}
		actual = declared
	}

	if !r.Types.IsForward(handle) {
		// resolveFnLitSignatures already resolved this one from its own
		// annotation, ahead of this check, so a sibling declared earlier
		// in the file could call it. The body was still type-checked
		// above for its own errors.
		return
	}
	actualType, ok := r.Types.Lookup(actual)
	if !ok {
		return
	}
	_ = r.Types.Resolve(handle, actualType)
}

// checkMultimethodImplBody type-checks one impl's body against the exact
// params/result Pass 2 already committed to the dispatch table
// (invariant M2): a disagreement is reported, never silently coerced.
func (r *Resolver) checkMultimethodImplBody(m *Module, f *ast.File, fileScopeID scope.ID, seq int, itemID ast.ItemID, item *ast.Item) {
	impl := r.Builder.Items.MultimethodImpl(itemID)
	if impl == nil {
		return
	}
	registered := r.implByItem[itemID]
	if registered == nil {
		return // Pass 2 already reported a duplicate-impl diagnostic for this one.
	}

	fnScope := r.Scopes.NewChild(fileScopeID, scope.KindFunction)
	for i, p := range impl.Params {
		if i >= len(registered.Params) {
			break
		}
		if err := r.Scopes.DeclareValue(fnScope, p.Name, scope.ValueBinding{Type: registered.Params[i], Span: item.Span}); err != nil {
			r.reportScopeDuplicateValue(m, f, item, p.Name)
		}
	}

	bodyType, err := r.typeOfExpr(fnScope, impl.Body)
	if err != nil {
		r.reportCheckError(m, f, item, seq, err)
		return
	}
	if bodyType != registered.Result {
		msg := "'" + impl.Name + "' returns " + r.Types.Name(bodyType) + ", expected " + r.Types.Name(registered.Result)
		diag.ReportError(r.Reporter, diag.ResReturnTypeMismatch, item.Span, msg).
			WithOrigin(r.origin(m, f, seq)).
			Emit()
	}
}

// reportCheckError renders any error typeOfExpr or checkStmt can surface
// — name resolution, type mismatch, unknown field, or a dispatch
// failure — as the matching diagnostic code.
func (r *Resolver) reportCheckError(m *Module, f *ast.File, item *ast.Item, seq int, err error) {
	origin := r.origin(m, f, seq)
	switch e := err.(type) {
	case *ErrUndefinedName:
		diag.ReportError(r.Reporter, diag.ResUndefinedName, e.Span, "undefined name '"+e.Name+"'").
			WithOrigin(origin).Emit()
	case *ErrTypeMismatch:
		msg := "expected " + r.Types.Name(e.Expected) + ", found " + r.Types.Name(e.Actual)
		diag.ReportError(r.Reporter, diag.ResTypeMismatch, e.Span, msg).
			WithOrigin(origin).Emit()
	case *ErrUnknownField:
		diag.ReportError(r.Reporter, diag.ResUndefinedName, e.Span, "unknown field '"+e.Field+"'").
			WithOrigin(origin).Emit()
	case *ErrArgCountMismatch:
		msg := fmt.Sprintf("'%s' takes %d argument(s), got %d", e.Name, e.Want, e.Got)
		diag.ReportError(r.Reporter, diag.DisArityMismatch, e.Span, msg).
			WithOrigin(origin).Emit()
	case *ErrUnknownType:
		diag.ReportError(r.Reporter, diag.ResUnknownType, e.Span, "unknown type '"+e.Name+"'").
			WithOrigin(origin).Emit()
	case *ErrInfiniteSize:
		diag.ReportError(r.Reporter, diag.ResInfiniteSize, e.Span,
			"'"+e.Name+"' has infinite size; box a field with a reference to break the cycle").
			WithOrigin(origin).Emit()
	case *dispatch.ErrNoMatchingImpl:
		diag.ReportError(r.Reporter, diag.DisNoMatchingImpl, item.Span,
			"no implementation of '"+e.Name+"' matches these argument types").
			WithOrigin(origin).Emit()
	case *dispatch.ErrAmbiguousCall:
		diag.ReportError(r.Reporter, diag.DisAmbiguousCall, item.Span,
			"call to '"+e.Name+"' is ambiguous among its registered implementations").
			WithOrigin(origin).Emit()
	default:
		diag.ReportError(r.Reporter, diag.ResInfo, item.Span, err.Error()).
			WithOrigin(origin).Emit()
	}
}

func (r *Resolver) reportScopeDuplicateValue(m *Module, f *ast.File, item *ast.Item, name string) {
	diag.ReportError(r.Reporter, diag.ResDuplicateTopLevelName, item.Span, "'"+name+"' is already declared in this file").
		WithOrigin(diag.Origin{ModulePath: modulePathString(m.Path), FileName: f.Path}).
		Emit()
}
