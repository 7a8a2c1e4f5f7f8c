package resolve

import (
	"somc/internal/ast"
	"somc/internal/scope"
	"somc/internal/source"
	"somc/internal/types"
)

// ErrUndefinedName is raised when an identifier resolves in neither the
// local scope chain nor an active import (invariant checked by
// scope.Table.LookupValue walking up to and including Global).
type ErrUndefinedName struct {
	Name string
	Span source.Span
}

func (e *ErrUndefinedName) Error() string { return "resolve: undefined name " + e.Name }

// ErrTypeMismatch is raised when an expression's inferred type disagrees
// with the type the surrounding construct expected of it.
type ErrTypeMismatch struct {
	Expected types.TypeID
	Actual   types.TypeID
	Span     source.Span
}

func (e *ErrTypeMismatch) Error() string { return "resolve: type mismatch" }

// ErrUnknownField is raised by a field access or struct literal that
// names a field absent from the struct's declared field list.
type ErrUnknownField struct {
	Field string
	Span  source.Span
}

func (e *ErrUnknownField) Error() string { return "resolve: unknown field " + e.Field }

// ErrArgCountMismatch is raised when a call to a plain function-valued
// binding (a "let", intrinsic, or function literal) supplies a
// different number of arguments than its signature declares.
type ErrArgCountMismatch struct {
	Name string
	Want int
	Got  int
	Span source.Span
}

func (e *ErrArgCountMismatch) Error() string { return "resolve: argument count mismatch" }

// typeOfExpr infers exprID's type under scopeID, recursively checking
// every subexpression along the way. A multimethod call that resolves
// successfully has its CallExpr.Callee rewritten in place to the
// dispatch table's mangled name — the only place the AST is mutated
// after parsing.
func (r *Resolver) typeOfExpr(scopeID scope.ID, exprID ast.ExprID) (types.TypeID, error) {
	expr := r.Builder.Exprs.Get(exprID)
	if expr == nil {
		return r.Types.Builtins().Unit, nil
	}
	switch expr.Kind {
	case ast.ExprIdent:
		ie := r.Builder.Exprs.Ident(exprID)
		binding, err := r.Scopes.LookupValue(scopeID, ie.Name)
		if err != nil {
			return types.NoTypeID, &ErrUndefinedName{Name: ie.Name, Span: expr.Span}
		}
		r.usedValues[binding.Type] = true
		return binding.Type, nil

	case ast.ExprIntLit:
		return r.Types.Builtins().Int, nil
	case ast.ExprBoolLit:
		return r.Types.Builtins().Bool, nil
	case ast.ExprStringLit:
		return r.Types.Builtins().String, nil

	case ast.ExprBinary:
		return r.typeOfBinary(scopeID, exprID, expr)
	case ast.ExprUnary:
		return r.typeOfUnary(scopeID, exprID, expr)
	case ast.ExprCall:
		return r.typeOfCall(scopeID, exprID)
	case ast.ExprFieldAccess:
		return r.typeOfFieldAccess(scopeID, exprID, expr)
	case ast.ExprStructLit:
		return r.typeOfStructLit(scopeID, exprID, expr)
	case ast.ExprBlock:
		return r.typeOfBlock(scopeID, exprID)
	case ast.ExprIf:
		return r.typeOfIf(scopeID, exprID, expr)
	case ast.ExprFnLit:
		return r.typeOfFnLit(scopeID, exprID, expr)
	default:
		return types.NoTypeID, &ErrUndefinedName{Name: "?", Span: expr.Span}
	}
}

func (r *Resolver) typeOfBinary(scopeID scope.ID, exprID ast.ExprID, expr *ast.Expr) (types.TypeID, error) {
	be := r.Builder.Exprs.Binary(exprID)
	lt, err := r.typeOfExpr(scopeID, be.Left)
	if err != nil {
		return types.NoTypeID, err
	}
	rt, err := r.typeOfExpr(scopeID, be.Right)
	if err != nil {
		return types.NoTypeID, err
	}
	b := r.Types.Builtins()
	switch be.Op {
	case ast.BinAnd, ast.BinOr:
		if lt != b.Bool {
			return types.NoTypeID, &ErrTypeMismatch{Expected: b.Bool, Actual: lt, Span: expr.Span}
		}
		if rt != b.Bool {
			return types.NoTypeID, &ErrTypeMismatch{Expected: b.Bool, Actual: rt, Span: expr.Span}
		}
		return b.Bool, nil
	case ast.BinEq, ast.BinNotEq, ast.BinLt, ast.BinLe, ast.BinGt, ast.BinGe:
		if lt != rt {
			return types.NoTypeID, &ErrTypeMismatch{Expected: lt, Actual: rt, Span: expr.Span}
		}
		return b.Bool, nil
	default: // BinAdd, BinSub, BinMul, BinDiv
		if lt != rt {
			return types.NoTypeID, &ErrTypeMismatch{Expected: lt, Actual: rt, Span: expr.Span}
		}
		return lt, nil
	}
}

func (r *Resolver) typeOfUnary(scopeID scope.ID, exprID ast.ExprID, expr *ast.Expr) (types.TypeID, error) {
	ue := r.Builder.Exprs.Unary(exprID)
	t, err := r.typeOfExpr(scopeID, ue.Operand)
	if err != nil {
		return types.NoTypeID, err
	}
	if ue.Op == ast.UnNot {
		b := r.Types.Builtins().Bool
		if t != b {
			return types.NoTypeID, &ErrTypeMismatch{Expected: b, Actual: t, Span: expr.Span}
		}
		return b, nil
	}
	return t, nil
}

// typeOfCall resolves a call expression's callee, per §4.5's exact-match
// algorithm for multimethods, with one exception: when the callee names
// a plain function-typed value in scope — a "let", an intrinsic, or a
// function literal's binding — it is checked directly against that
// value's own signature instead of going through the dispatch table,
// since such a name was never registered as a multimethod implementation
// in the first place. A multimethod call's Callee is rewritten in place
// to the chosen implementation's mangled emission name; a function-value
// call's Callee is left as the plain name, since there is only ever one
// binding for it to mean.
func (r *Resolver) typeOfCall(scopeID scope.ID, exprID ast.ExprID) (types.TypeID, error) {
	ce := r.Builder.Exprs.Call(exprID)
	args := make([]types.TypeID, 0, len(ce.Args))
	for _, a := range ce.Args {
		at, err := r.typeOfExpr(scopeID, a)
		if err != nil {
			return types.NoTypeID, err
		}
		args = append(args, at)
	}

	if binding, err := r.Scopes.LookupValue(scopeID, ce.Callee); err == nil {
		if info, ok := r.Types.FnInfo(binding.Type); ok {
			r.usedValues[binding.Type] = true
			var span source.Span
			if expr := r.Builder.Exprs.Get(exprID); expr != nil {
				span = expr.Span
			}
			return r.typeOfFunctionValueCall(ce, info, args, span)
		}
	}

	impl, err := r.Dispatch.Resolve(ce.Callee, args)
	if err != nil {
		return types.NoTypeID, err
	}
	ce.Callee = impl.Mangled
	return impl.Result, nil
}

// typeOfFunctionValueCall checks a call's argument types against a plain
// function value's own signature (no overload set to pick from — there
// is exactly one).
func (r *Resolver) typeOfFunctionValueCall(ce *ast.CallExpr, info *types.FnInfo, args []types.TypeID, span source.Span) (types.TypeID, error) {
	if len(args) != len(info.Params) {
		return types.NoTypeID, &ErrArgCountMismatch{Name: ce.Callee, Want: len(info.Params), Got: len(args), Span: span}
	}
	for i, at := range args {
		if at != info.Params[i] {
			var argSpan source.Span
			if arg := r.Builder.Exprs.Get(ce.Args[i]); arg != nil {
				argSpan = arg.Span
			}
			return types.NoTypeID, &ErrTypeMismatch{Expected: info.Params[i], Actual: at, Span: argSpan}
		}
	}
	return info.Result, nil
}

func (r *Resolver) typeOfFieldAccess(scopeID scope.ID, exprID ast.ExprID, expr *ast.Expr) (types.TypeID, error) {
	fe := r.Builder.Exprs.FieldAccess(exprID)
	baseType, err := r.typeOfExpr(scopeID, fe.Base)
	if err != nil {
		return types.NoTypeID, err
	}
	for {
		t, ok := r.Types.Lookup(baseType)
		if !ok || t.Kind != types.KindReference {
			break
		}
		baseType = t.Elem
	}
	info, ok := r.Types.StructInfo(baseType)
	if !ok {
		return types.NoTypeID, &ErrUnknownField{Field: fe.Field, Span: expr.Span}
	}
	for _, field := range info.Fields {
		if field.Name == fe.Field {
			return field.Type, nil
		}
	}
	return types.NoTypeID, &ErrUnknownField{Field: fe.Field, Span: expr.Span}
}

func (r *Resolver) typeOfStructLit(scopeID scope.ID, exprID ast.ExprID, expr *ast.Expr) (types.TypeID, error) {
	sl := r.Builder.Exprs.StructLit(exprID)
	binding, err := r.Scopes.LookupType(scopeID, sl.TypeName)
	if err != nil {
		return types.NoTypeID, &ErrUnknownType{Name: sl.TypeName, Span: expr.Span}
	}
	r.usedTypes[binding.Type] = true
	info, ok := r.Types.StructInfo(binding.Type)
	if !ok {
		return types.NoTypeID, &ErrUnknownType{Name: sl.TypeName, Span: expr.Span}
	}
	declared := make(map[string]types.TypeID, len(info.Fields))
	for _, f := range info.Fields {
		declared[f.Name] = f.Type
	}
	for _, lf := range sl.Fields {
		want, ok := declared[lf.Name]
		if !ok {
			return types.NoTypeID, &ErrUnknownField{Field: lf.Name, Span: expr.Span}
		}
		got, err := r.typeOfExpr(scopeID, lf.Value)
		if err != nil {
			return types.NoTypeID, err
		}
		if got != want {
			return types.NoTypeID, &ErrTypeMismatch{Expected: want, Actual: got, Span: expr.Span}
		}
	}
	return binding.Type, nil
}

func (r *Resolver) typeOfBlock(scopeID scope.ID, exprID ast.ExprID) (types.TypeID, error) {
	be := r.Builder.Exprs.Block(exprID)
	blockScope := r.Scopes.NewChild(scopeID, scope.KindBlock)
	for _, stmtID := range be.Stmts {
		if err := r.checkStmt(blockScope, stmtID); err != nil {
			return types.NoTypeID, err
		}
	}
	if !be.Tail.IsValid() {
		return r.Types.Builtins().Unit, nil
	}
	return r.typeOfExpr(blockScope, be.Tail)
}

func (r *Resolver) checkStmt(scopeID scope.ID, stmtID ast.StmtID) error {
	stmt := r.Builder.Stmts.Get(stmtID)
	if stmt == nil {
		return nil
	}
	switch stmt.Kind {
	case ast.StmtLet:
		ls := r.Builder.Stmts.Let(stmtID)
		valType, err := r.typeOfExpr(scopeID, ls.Value)
		if err != nil {
			return err
		}
		declared := valType
		if ls.Type.IsValid() {
			t, err := r.resolveTypeExpr(scopeID, ls.Type, types.NoTypeID, ls.Name)
			if err != nil {
				return err
			}
			if t != valType {
				return &ErrTypeMismatch{Expected: t, Actual: valType, Span: stmt.Span}
			}
			declared = t
		}
		_ = r.Scopes.DeclareValue(scopeID, ls.Name, scope.ValueBinding{Type: declared, Span: stmt.Span})
		return nil

	case ast.StmtReturn:
		rs := r.Builder.Stmts.Return(stmtID)
		if rs.Value.IsValid() {
			if _, err := r.typeOfExpr(scopeID, rs.Value); err != nil {
				return err
			}
		}
		return nil

	case ast.StmtExpr:
		es := r.Builder.Stmts.ExprStmt(stmtID)
		_, err := r.typeOfExpr(scopeID, es.Expr)
		return err

	default:
		return nil
	}
}

func (r *Resolver) typeOfIf(scopeID scope.ID, exprID ast.ExprID, expr *ast.Expr) (types.TypeID, error) {
	ie := r.Builder.Exprs.If(exprID)
	condType, err := r.typeOfExpr(scopeID, ie.Cond)
	if err != nil {
		return types.NoTypeID, err
	}
	b := r.Types.Builtins().Bool
	if condType != b {
		return types.NoTypeID, &ErrTypeMismatch{Expected: b, Actual: condType, Span: expr.Span}
	}
	thenType, err := r.typeOfExpr(scopeID, ie.Then)
	if err != nil {
		return types.NoTypeID, err
	}
	if !ie.Else.IsValid() {
		return r.Types.Builtins().Unit, nil
	}
	elseType, err := r.typeOfExpr(scopeID, ie.Else)
	if err != nil {
		return types.NoTypeID, err
	}
	if thenType != elseType {
		return types.NoTypeID, &ErrTypeMismatch{Expected: thenType, Actual: elseType, Span: expr.Span}
	}
	return thenType, nil
}

func (r *Resolver) typeOfFnLit(scopeID scope.ID, exprID ast.ExprID, expr *ast.Expr) (types.TypeID, error) {
	fe := r.Builder.Exprs.FnLit(exprID)
	fnScope := r.Scopes.NewChild(scopeID, scope.KindFunction)
	params := make([]types.TypeID, 0, len(fe.Params))
	for _, p := range fe.Params {
		pt, err := r.resolveTypeExpr(scopeID, p.Type, types.NoTypeID, p.Name)
		if err != nil {
			return types.NoTypeID, err
		}
		params = append(params, pt)
		_ = r.Scopes.DeclareValue(fnScope, p.Name, scope.ValueBinding{Type: pt, Span: expr.Span})
	}
	bodyType, err := r.typeOfExpr(fnScope, fe.Body)
	if err != nil {
		return types.NoTypeID, err
	}
	result := bodyType
	if fe.Result.IsValid() {
		rt, err := r.resolveTypeExpr(scopeID, fe.Result, types.NoTypeID, "")
		if err != nil {
			return types.NoTypeID, err
		}
		if rt != bodyType {
			return types.NoTypeID, &ErrTypeMismatch{Expected: rt, Actual: bodyType, Span: expr.Span}
		}
		result = rt
	}
	return r.Types.RegisterFn(params, result), nil
}
