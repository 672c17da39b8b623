package pybridge

import (
	"fmt"
	"runtime"
	"sort"

	"github.com/pybridge/pybridge-go/internal/bindings"
)

// ToObject converts a Go value into a new interpreter object.
//
//	nil                         None
//	bool                        bool
//	int, int8..int64            int
//	uint, uint8..uint64         int
//	float32, float64            float
//	string                      str
//	[]byte                      bytes
//	[]any, []string, []int64,
//	[]float64                   list
//	map[string]any              dict
//	*Object, Borrowed           a new reference to the same object
//
// Other types are rejected with ErrArgumentShape.
func (rt *Runtime) ToObject(v any) (*Object, error) {
	var (
		o    *Object
		perr error
	)
	err := rt.do(func() {
		h, err := rt.toHandle(v)
		if err != nil {
			perr = err
			return
		}
		o = rt.own(h)
	})
	runtime.KeepAlive(v)
	if err != nil {
		return nil, err
	}
	return o, perr
}

// toHandle returns a new reference. The GIL must be held.
func (rt *Runtime) toHandle(v any) (bindings.Handle, error) {
	var h bindings.Handle
	switch x := v.(type) {
	case nil:
		h = bindings.None()
	case bool:
		h = bindings.NewBool(x)
	case int:
		h = bindings.NewInt(int64(x))
	case int8:
		h = bindings.NewInt(int64(x))
	case int16:
		h = bindings.NewInt(int64(x))
	case int32:
		h = bindings.NewInt(int64(x))
	case int64:
		h = bindings.NewInt(x)
	case uint:
		h = bindings.NewUint(uint64(x))
	case uint8:
		h = bindings.NewUint(uint64(x))
	case uint16:
		h = bindings.NewUint(uint64(x))
	case uint32:
		h = bindings.NewUint(uint64(x))
	case uint64:
		h = bindings.NewUint(x)
	case float32:
		h = bindings.NewFloat(float64(x))
	case float64:
		h = bindings.NewFloat(x)
	case string:
		h = bindings.NewString(x)
	case []byte:
		h = bindings.NewBytes(x)
	case []int64:
		h = bindings.IntList(x)
	case []float64:
		h = bindings.FloatList(x)
	case []string:
		items := make([]any, len(x))
		for i, s := range x {
			items[i] = s
		}
		return rt.sliceToHandle(items)
	case []any:
		return rt.sliceToHandle(x)
	case map[string]any:
		return rt.mapToHandle(x)
	case Value:
		r := x.pyRef()
		if r.h == nil {
			if r.rt == nil {
				return bindings.None(), nil
			}
			return nil, ErrClosed
		}
		bindings.IncRef(r.h)
		return r.h, nil
	default:
		return nil, fmt.Errorf("%w: cannot convert %T", ErrArgumentShape, v)
	}
	if h == nil {
		return nil, rt.fetch("convert", StageNone)
	}
	return h, nil
}

func (rt *Runtime) sliceToHandle(items []any) (bindings.Handle, error) {
	hs := make([]bindings.Handle, 0, len(items))
	for _, item := range items {
		h, err := rt.toHandle(item)
		if err != nil {
			for _, done := range hs {
				bindings.DecRef(done)
			}
			return nil, err
		}
		hs = append(hs, h)
	}
	list := bindings.ListFromHandlesSteal(hs)
	if list == nil {
		return nil, rt.fetch("list", StageNone)
	}
	return list, nil
}

func (rt *Runtime) mapToHandle(m map[string]any) (bindings.Handle, error) {
	d := bindings.NewDict()
	if d == nil {
		return nil, rt.fetch("dict", StageNone)
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		kh := bindings.NewString(k)
		if kh == nil {
			bindings.DecRef(d)
			return nil, rt.fetch("dict key", StageNone)
		}
		vh, err := rt.toHandle(m[k])
		if err != nil {
			bindings.DecRef(kh)
			bindings.DecRef(d)
			return nil, err
		}
		ok := bindings.DictSet(d, kh, vh)
		bindings.DecRef(kh)
		bindings.DecRef(vh)
		if !ok {
			bindings.DecRef(d)
			return nil, rt.fetch("dict set", StageNone)
		}
	}
	return d, nil
}

// FromObject converts an object into a Go value: None to nil, bool, int to
// int64, float to float64, str to string, bytes to []byte, lists and tuples
// to []any and dicts with str keys to map[string]any. Anything else is
// returned as a new *Object.
func (rt *Runtime) FromObject(v Value) (any, error) {
	h, err := optional(v)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, nil
	}
	var (
		out  any
		perr error
	)
	err = rt.do(func() { out, perr = rt.fromHandle(h, 0) })
	runtime.KeepAlive(v)
	if err != nil {
		return nil, err
	}
	return out, perr
}

// maxDepth bounds FromObject on self-referencing containers.
const maxDepth = 512

// fromHandle reads h, which is borrowed. The GIL must be held.
func (rt *Runtime) fromHandle(h bindings.Handle, depth int) (any, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("%w: nesting deeper than %d", ErrArgumentShape, maxDepth)
	}
	flags := bindings.TypeFlags(h)
	switch {
	case flags[FlagNone]:
		return nil, nil
	case flags[FlagBool]:
		return bindings.AsBool(h), nil
	case flags[FlagInt]:
		return bindings.AsInt(h), nil
	case flags[FlagFloat]:
		return bindings.AsFloat(h), nil
	case flags[FlagStr]:
		return bindings.AsString(h), nil
	case flags[FlagBytes]:
		return bindings.AsBytes(h), nil
	case flags[FlagList], flags[FlagTuple]:
		n := bindings.Len(h)
		items := make([]bindings.Handle, n)
		n = bindings.SequenceToHandles(h, items)
		out := make([]any, 0, n)
		for _, item := range items[:n] {
			v, err := rt.fromHandle(item, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case flags[FlagDict]:
		items := bindings.DictItems(h)
		if items == nil {
			return nil, rt.fetch("dict items", StageNone)
		}
		defer bindings.DecRef(items)
		n := bindings.Len(items)
		out := make(map[string]any, n)
		for i := 0; i < n; i++ {
			pair := bindings.Item(items, i)
			k, val := bindings.Item(pair, 0), bindings.Item(pair, 1)
			if !bindings.IsString(k) {
				bindings.IncRef(h)
				return rt.own(h), nil
			}
			v, err := rt.fromHandle(val, depth+1)
			if err != nil {
				return nil, err
			}
			out[bindings.AsString(k)] = v
		}
		return out, nil
	}
	bindings.IncRef(h)
	return rt.own(h), nil
}
