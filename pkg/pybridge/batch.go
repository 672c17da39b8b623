package pybridge

import (
	"fmt"
	"runtime"

	"github.com/pybridge/pybridge-go/internal/bindings"
)

func checkOut(in, out int) error {
	if out < in {
		return fmt.Errorf("%w: %d results for %d inputs", ErrArgumentShape, out, in)
	}
	return nil
}

// BatchInts converts values into ints, one result per slot of out. Slots
// are independent: a slot whose conversion failed is nil and its exception
// is discarded.
func (rt *Runtime) BatchInts(values []int64, out []*Object) error {
	if err := checkOut(len(values), len(out)); err != nil {
		return err
	}
	return rt.batchTo(out[:len(values)], func(hs []bindings.Handle) {
		bindings.BatchIntToPy(values, hs, len(values))
	})
}

// BatchFloats is BatchInts for floats.
func (rt *Runtime) BatchFloats(values []float64, out []*Object) error {
	if err := checkOut(len(values), len(out)); err != nil {
		return err
	}
	return rt.batchTo(out[:len(values)], func(hs []bindings.Handle) {
		bindings.BatchFloatToPy(values, hs, len(values))
	})
}

// BatchStrs is BatchInts for str. The text is staged in the runtime's
// scratch pool, which is reset afterwards.
func (rt *Runtime) BatchStrs(values []string, out []*Object) error {
	if err := checkOut(len(values), len(out)); err != nil {
		return err
	}
	return rt.batchTo(out[:len(values)], func(hs []bindings.Handle) {
		bindings.BatchStringToPy(values, hs, len(values))
	})
}

func (rt *Runtime) batchTo(out []*Object, fill func([]bindings.Handle)) error {
	return rt.do(func() {
		hs := make([]bindings.Handle, len(out))
		fill(hs)
		if bindings.ErrorOccurred() {
			bindings.ClearError()
		}
		for i, h := range hs {
			out[i] = rt.own(h)
		}
	})
}

// ReadInts reads each item leniently into out: a non-int or an int that
// does not fit reads as 0.
func (rt *Runtime) ReadInts(items []Value, out []int64) error {
	hs, err := readHandles(items, len(out))
	if err != nil {
		return err
	}
	err = rt.do(func() { bindings.BatchPyToInt(hs, out, len(hs)) })
	runtime.KeepAlive(items)
	return err
}

// ReadFloats reads each item leniently into out; ints are converted.
func (rt *Runtime) ReadFloats(items []Value, out []float64) error {
	hs, err := readHandles(items, len(out))
	if err != nil {
		return err
	}
	err = rt.do(func() { bindings.BatchPyToFloat(hs, out, len(hs)) })
	runtime.KeepAlive(items)
	return err
}

// ReadStrs reads each item leniently into out; a non-str reads as "".
func (rt *Runtime) ReadStrs(items []Value, out []string) error {
	hs, err := readHandles(items, len(out))
	if err != nil {
		return err
	}
	err = rt.do(func() { bindings.BatchPyToString(hs, out, len(hs)) })
	runtime.KeepAlive(items)
	return err
}

// readHandles resolves batch inputs. Absent items read as the default.
func readHandles(items []Value, out int) ([]bindings.Handle, error) {
	if err := checkOut(len(items), out); err != nil {
		return nil, err
	}
	hs := make([]bindings.Handle, len(items))
	for i, v := range items {
		h, err := optional(v)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		hs[i] = h
	}
	return hs, nil
}
