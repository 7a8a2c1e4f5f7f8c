package types

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// FnInfo stores the parameter/result signature for a function type.
type FnInfo struct {
	Params []TypeID
	Result TypeID
}

// RegisterFn returns the TypeID for the function signature (params) -> result,
// reusing an existing slot for an identical signature.
func (in *Interner) RegisterFn(params []TypeID, result TypeID) TypeID {
	for id := TypeID(1); int(id) <= len(in.types); id++ {
		t := in.types[id-1]
		if t.Kind != KindFunction || int(t.Payload) >= len(in.fns) {
			continue
		}
		info := in.fns[t.Payload]
		if info.Result == result && slices.Equal(info.Params, params) {
			return id
		}
	}
	slot := in.appendFnInfo(FnInfo{Params: params, Result: result})
	return in.internRaw(Type{Kind: KindFunction, Payload: slot})
}

func (in *Interner) FnInfo(id TypeID) (*FnInfo, bool) {
	t, ok := in.Lookup(id)
	if !ok || t.Kind != KindFunction || int(t.Payload) >= len(in.fns) {
		return nil, false
	}
	return &in.fns[t.Payload], true
}

func (in *Interner) appendFnInfo(info FnInfo) uint32 {
	in.fns = append(in.fns, FnInfo{Params: slices.Clone(info.Params), Result: info.Result})
	slot, err := safecast.Conv[uint32](len(in.fns) - 1)
	if err != nil {
		panic(fmt.Errorf("types: fn table overflow: %w", err))
	}
	return slot
}
