package types

import "strings"

// Name renders a canonical, injective-per-shape string for id. It is
// used both in diagnostics and as the building block for multimethod
// name mangling, where distinct parameter-type lists must always render
// as distinct strings.
func (in *Interner) Name(id TypeID) string {
	t, ok := in.Lookup(id)
	if !ok {
		return "?"
	}
	switch t.Kind {
	case KindPrimitive:
		return t.Primitive.String()
	case KindStruct:
		if info, ok := in.StructInfo(id); ok {
			return info.Name
		}
		return "struct?"
	case KindEnum:
		if info, ok := in.EnumInfo(id); ok {
			return info.Name
		}
		return "enum?"
	case KindFunction:
		info, ok := in.FnInfo(id)
		if !ok {
			return "fn?"
		}
		parts := make([]string, len(info.Params))
		for i, p := range info.Params {
			parts[i] = in.Name(p)
		}
		return "(" + strings.Join(parts, ",") + ")->" + in.Name(info.Result)
	case KindReference:
		return "&" + in.Name(t.Elem)
	case KindForward:
		if fi, ok := in.ForwardInfo(id); ok {
			return "forward:" + strings.Join(fi.ModulePath, "::") + "." + fi.Name
		}
		return "forward?"
	default:
		return "invalid"
	}
}
