package resolve

import (
	"strings"

	"somc/internal/ast"
	"somc/internal/scope"
	"somc/internal/source"
	"somc/internal/types"
)

// ErrUnknownType is raised when a type-expression path names no forward
// declaration, builtin, or (in Pass 3) active import.
type ErrUnknownType struct {
	Name string
	Span source.Span
}

func (e *ErrUnknownType) Error() string { return "resolve: unknown type " + e.Name }

// ErrInfiniteSize is raised the moment a struct or enum's own body
// refers back to the declaration currently being resolved without an
// intervening Reference (invariant "InfiniteSize", direct case). The
// indirect/mutual case is caught later by checkInfiniteSize.
type ErrInfiniteSize struct {
	Name string
	Span source.Span
}

func (e *ErrInfiniteSize) Error() string { return "resolve: " + e.Name + " has infinite size" }

// resolveTypeExpr turns a syntactic TypeExpr into an interned types.Type,
// looking up path names through scopeID's chain. selfHandle, when set,
// is the forward handle of the top-level declaration currently being
// resolved: a field or variant that resolves directly back to it (with
// no Reference in between) is an immediate InfiniteSize violation.
func (r *Resolver) resolveTypeExpr(scopeID scope.ID, teID ast.TypeID, selfHandle types.TypeID, declName string) (types.TypeID, error) {
	te := r.Builder.TypeExprs.Get(teID)
	if te == nil {
		return r.Types.Builtins().Unit, nil
	}
	switch te.Kind {
	case ast.TypeExprPath:
		name := strings.Join(te.PathName, ".")
		binding, err := r.Scopes.LookupType(scopeID, name)
		if err != nil {
			return types.NoTypeID, &ErrUnknownType{Name: name, Span: te.Span}
		}
		r.usedTypes[binding.Type] = true
		if selfHandle != types.NoTypeID && binding.Type == selfHandle {
			return types.NoTypeID, &ErrInfiniteSize{Name: declName, Span: te.Span}
		}
		return binding.Type, nil

	case ast.TypeExprReference:
		inner, err := r.resolveTypeExpr(scopeID, te.Inner, types.NoTypeID, declName)
		if err != nil {
			return types.NoTypeID, err
		}
		return r.Types.Intern(types.Type{Kind: types.KindReference, Elem: inner}), nil

	case ast.TypeExprStruct:
		fields := make([]types.StructField, 0, len(te.Fields))
		for _, fs := range te.Fields {
			ft, err := r.resolveTypeExpr(scopeID, fs.Type, selfHandle, declName)
			if err != nil {
				return types.NoTypeID, err
			}
			fields = append(fields, types.StructField{Name: fs.Name, Type: ft})
		}
		if selfHandle != types.NoTypeID {
			if err := r.Types.ResolveStruct(selfHandle, declName, fields); err != nil {
				return types.NoTypeID, err
			}
			return selfHandle, nil
		}
		id := r.Types.RegisterStruct(declName)
		r.Types.SetStructFields(id, fields)
		return id, nil

	case ast.TypeExprEnum:
		variants := make([]types.EnumVariant, 0, len(te.Variants))
		for _, vs := range te.Variants {
			payload := types.NoTypeID
			if vs.Payload.IsValid() {
				pt, err := r.resolveTypeExpr(scopeID, vs.Payload, selfHandle, declName)
				if err != nil {
					return types.NoTypeID, err
				}
				payload = pt
			}
			variants = append(variants, types.EnumVariant{Name: vs.Name, Payload: payload})
		}
		if selfHandle != types.NoTypeID {
			if err := r.Types.ResolveEnum(selfHandle, declName, variants); err != nil {
				return types.NoTypeID, err
			}
			return selfHandle, nil
		}
		id := r.Types.RegisterEnum(declName)
		r.Types.SetEnumVariants(id, variants)
		return id, nil

	case ast.TypeExprFunction:
		params := make([]types.TypeID, 0, len(te.Params))
		for _, p := range te.Params {
			pt, err := r.resolveTypeExpr(scopeID, p, types.NoTypeID, declName)
			if err != nil {
				return types.NoTypeID, err
			}
			params = append(params, pt)
		}
		result := r.Types.Builtins().Unit
		if te.Result.IsValid() {
			rt, err := r.resolveTypeExpr(scopeID, te.Result, types.NoTypeID, declName)
			if err != nil {
				return types.NoTypeID, err
			}
			result = rt
		}
		fn := r.Types.RegisterFn(params, result)
		if selfHandle == types.NoTypeID {
			return fn, nil
		}
		fnType, _ := r.Types.Lookup(fn)
		if err := r.Types.Resolve(selfHandle, fnType); err != nil {
			return types.NoTypeID, err
		}
		return selfHandle, nil

	default:
		return types.NoTypeID, &ErrUnknownType{Name: "?", Span: te.Span}
	}
}
