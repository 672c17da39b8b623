package pybridge

import (
	"fmt"
	"runtime"

	"github.com/pybridge/pybridge-go/internal/bindings"
)

// ListOf builds a list holding new references to items. The caller keeps
// its own references.
func (rt *Runtime) ListOf(items ...Value) (*Object, error) {
	hs, err := handles(items)
	if err != nil {
		return nil, err
	}
	o, err := rt.newObject("list", func() bindings.Handle { return bindings.ListFromHandles(hs) })
	runtime.KeepAlive(items)
	return o, err
}

// TupleOf builds a tuple holding new references to items.
func (rt *Runtime) TupleOf(items ...Value) (*Object, error) {
	hs, err := handles(items)
	if err != nil {
		return nil, err
	}
	o, err := rt.newObject("tuple", func() bindings.Handle { return bindings.TupleFromHandles(hs) })
	runtime.KeepAlive(items)
	return o, err
}

// ListSteal builds a list and moves each item's reference into it. The
// items are emptied whether or not the build succeeds; closing them
// afterwards is a no-op.
func (rt *Runtime) ListSteal(items ...*Object) (*Object, error) {
	hs, err := stealAll(items)
	if err != nil {
		return nil, err
	}
	return rt.newObject("list", func() bindings.Handle { return bindings.ListFromHandlesSteal(hs) })
}

// TupleSteal is ListSteal for tuples.
func (rt *Runtime) TupleSteal(items ...*Object) (*Object, error) {
	hs, err := stealAll(items)
	if err != nil {
		return nil, err
	}
	return rt.newObject("tuple", func() bindings.Handle { return bindings.TupleFromHandlesSteal(hs) })
}

// stealAll checks every item before detaching any, so a rejected call
// leaves ownership untouched.
func stealAll(items []*Object) ([]bindings.Handle, error) {
	for i, o := range items {
		if o == nil {
			return nil, fmt.Errorf("%w: item %d is nil", ErrArgumentShape, i)
		}
		if o.h == nil {
			return nil, fmt.Errorf("%w: item %d", ErrClosed, i)
		}
	}
	hs := make([]bindings.Handle, len(items))
	for i, o := range items {
		hs[i] = o.detach()
	}
	return hs, nil
}

// IntList builds a list of ints in one pass.
func (rt *Runtime) IntList(values []int64) (*Object, error) {
	return rt.newObject("list", func() bindings.Handle { return bindings.IntList(values) })
}

// FloatList builds a list of floats in one pass.
func (rt *Runtime) FloatList(values []float64) (*Object, error) {
	return rt.newObject("list", func() bindings.Handle { return bindings.FloatList(values) })
}

// Len returns len(obj), or 0 when the object has no length.
func (r ref) Len() int {
	var n int
	_ = r.with(func() {
		n = bindings.Len(r.h)
		if n < 0 {
			bindings.ClearError()
			n = 0
		}
	})
	return n
}

// Item returns a borrowed reference to element i of a list or tuple.
func (r ref) Item(i int) (Borrowed, error) {
	var (
		b    Borrowed
		perr *Error
	)
	err := r.with(func() {
		h := bindings.Item(r.h, i)
		if h == nil {
			perr = r.rt.fetch("item", StageNone)
			return
		}
		b = r.borrow(h)
	})
	if err != nil {
		return Borrowed{}, err
	}
	if perr != nil {
		return Borrowed{}, perr
	}
	return b, nil
}

// Items fills out with borrowed references to the elements of a list or
// tuple and returns how many were written: at most len(out). It returns -1
// when the object is not a list or tuple.
func (r ref) Items(out []Borrowed) int {
	n := -1
	_ = r.with(func() {
		hs := make([]bindings.Handle, len(out))
		n = bindings.SequenceToHandles(r.h, hs)
		if n < 0 {
			bindings.ClearError()
			return
		}
		for i := 0; i < n; i++ {
			out[i] = r.borrow(hs[i])
		}
	})
	return n
}

// IsHomogeneousInt reports whether every element of a list or tuple is an
// int. Empty sequences are homogeneous.
func (r ref) IsHomogeneousInt() bool { return r.is(bindings.IsHomogeneousInt) }

// IsHomogeneousFloat accepts ints as well as floats.
func (r ref) IsHomogeneousFloat() bool { return r.is(bindings.IsHomogeneousFloat) }

func (r ref) IsHomogeneousStr() bool { return r.is(bindings.IsHomogeneousString) }

// Append adds v to the end of a list without stealing it.
func (r ref) Append(v Value) error {
	vh, err := required(v)
	if err != nil {
		return err
	}
	return r.check("append", func() bool { return bindings.ListAppend(r.h, vh) }, v)
}

// SetIndex replaces element i of a list without stealing v.
func (r ref) SetIndex(i int, v Value) error {
	vh, err := required(v)
	if err != nil {
		return err
	}
	return r.check("set index", func() bool { return bindings.ListSet(r.h, i, vh) }, v)
}

// check runs a bindings operation that reports success as a bool. The
// values whose handles fn uses are kept alive until it returns.
func (r ref) check(op string, fn func() bool, keep ...Value) error {
	var perr *Error
	err := r.with(func() {
		if !fn() {
			perr = r.rt.fetch(op, StageNone)
		}
	})
	runtime.KeepAlive(keep)
	if err != nil {
		return err
	}
	if perr != nil {
		return perr
	}
	return nil
}

// required resolves a value that must be present.
func required(v Value) (bindings.Handle, error) {
	hs, err := handles([]Value{v})
	if err != nil {
		return nil, err
	}
	return hs[0], nil
}
