package resolve

import (
	"sort"

	"somc/internal/diag"
	"somc/internal/types"
)

// checkInfiniteSize sweeps every declared struct/enum for a cycle formed
// purely of direct nesting (invariant "InfiniteSize", indirect case): A
// contains B contains A, with no Reference anywhere on the path. The
// per-field check in resolveTypeExpr already catches the direct
// self-reference case as soon as it's parsed; this catches the mutual
// case, which only becomes visible once every declaration in the build
// has a resolved body. Reports at most one diagnostic per cycle and
// returns whether it reported anything.
func (r *Resolver) checkInfiniteSize(_ []*Module) bool {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	color := make(map[types.TypeID]int, len(r.origins))
	reported := false

	roots := make([]types.TypeID, 0, len(r.origins))
	for id := range r.origins {
		roots = append(roots, id)
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i] < roots[j] })

	var visit func(id types.TypeID) bool
	visit = func(id types.TypeID) bool {
		switch color[id] {
		case visiting:
			return true
		case done:
			return false
		}
		color[id] = visiting
		cyclic := false
		for _, child := range r.directChildren(id) {
			if visit(child) {
				cyclic = true
			}
		}
		color[id] = done
		return cyclic
	}

	for _, id := range roots {
		if color[id] != unvisited {
			continue
		}
		if visit(id) {
			o := r.origins[id]
			diag.ReportError(r.Reporter, diag.ResInfiniteSize,
				o.Span, "'"+o.Name+"' has infinite size through a cycle of directly nested types; box one leg with a reference").
				WithOrigin(diag.Origin{ModulePath: modulePathString(o.ModulePath), FileName: o.FileName, Seq: o.Seq}).
				Emit()
			reported = true
		}
	}
	return reported
}

// directChildren returns the struct fields / enum variant payloads that
// id contains by value. A Reference field is excluded on purpose — it's
// the indirection boundary invariant F1/InfiniteSize is built around.
func (r *Resolver) directChildren(id types.TypeID) []types.TypeID {
	t, ok := r.Types.Lookup(id)
	if !ok {
		return nil
	}
	switch t.Kind {
	case types.KindStruct:
		info, ok := r.Types.StructInfo(id)
		if !ok {
			return nil
		}
		var out []types.TypeID
		for _, f := range info.Fields {
			if r.isNested(f.Type) {
				out = append(out, f.Type)
			}
		}
		return out
	case types.KindEnum:
		info, ok := r.Types.EnumInfo(id)
		if !ok {
			return nil
		}
		var out []types.TypeID
		for _, v := range info.Variants {
			if v.Payload != types.NoTypeID && r.isNested(v.Payload) {
				out = append(out, v.Payload)
			}
		}
		return out
	default:
		return nil
	}
}

func (r *Resolver) isNested(id types.TypeID) bool {
	t, ok := r.Types.Lookup(id)
	return ok && (t.Kind == types.KindStruct || t.Kind == types.KindEnum)
}
