package pybridge

import (
	"runtime"

	"github.com/pybridge/pybridge-go/internal/bindings"
)

// NewDict returns a new empty dict.
func (rt *Runtime) NewDict() (*Object, error) {
	return rt.newObject("dict", bindings.NewDict)
}

// SetItem stores value under key. Neither reference is stolen.
func (r ref) SetItem(key, value Value) error {
	hs, err := handles([]Value{key, value})
	if err != nil {
		return err
	}
	return r.check("set item", func() bool { return bindings.DictSet(r.h, hs[0], hs[1]) }, key, value)
}

// GetItem returns a borrowed reference to the value stored under key and
// whether it was present. A missing key is not an error.
func (r ref) GetItem(key Value) (Borrowed, bool, error) {
	kh, err := required(key)
	if err != nil {
		return Borrowed{}, false, err
	}
	var (
		b     Borrowed
		found bool
		perr  *Error
	)
	err = r.with(func() {
		h, ok := bindings.DictGet(r.h, kh)
		switch {
		case ok:
			b, found = r.borrow(h), true
		case bindings.ErrorOccurred():
			perr = r.rt.fetch("get item", StageNone)
		}
	})
	runtime.KeepAlive(key)
	if err != nil {
		return Borrowed{}, false, err
	}
	if perr != nil {
		return Borrowed{}, false, perr
	}
	return b, found, nil
}

// DelItem removes key. A missing key raises KeyError.
func (r ref) DelItem(key Value) error {
	kh, err := required(key)
	if err != nil {
		return err
	}
	return r.check("del item", func() bool { return bindings.DictDel(r.h, kh) }, key)
}

// Contains reports whether key is present.
func (r ref) Contains(key Value) (bool, error) {
	kh, err := required(key)
	if err != nil {
		return false, err
	}
	var (
		found bool
		perr  *Error
	)
	err = r.with(func() {
		switch bindings.DictContains(r.h, kh) {
		case 1:
			found = true
		case -1:
			perr = r.rt.fetch("contains", StageNone)
		}
	})
	runtime.KeepAlive(key)
	if err != nil {
		return false, err
	}
	if perr != nil {
		return false, perr
	}
	return found, nil
}

// Keys returns a new list of the dict's keys.
func (r ref) Keys() (*Object, error) { return r.derive("keys", bindings.DictKeys) }

// Values returns a new list of the dict's values.
func (r ref) Values() (*Object, error) { return r.derive("values", bindings.DictValues) }

// Pairs returns a new list of (key, value) tuples.
func (r ref) Pairs() (*Object, error) { return r.derive("items", bindings.DictItems) }

// derive applies a bindings function returning a new reference.
func (r ref) derive(op string, fn func(bindings.Handle) bindings.Handle) (*Object, error) {
	if r.h == nil {
		return nil, ErrClosed
	}
	o, err := r.rt.newObject(op, func() bindings.Handle { return fn(r.h) })
	runtime.KeepAlive(r.anchor)
	return o, err
}
