package pybridge

import (
	"github.com/pybridge/pybridge-go/internal/bindings"
)

// newObject runs build under the GIL and owns its result. A nil result is
// turned into an *Error.
func (rt *Runtime) newObject(op string, build func() bindings.Handle) (*Object, error) {
	var (
		o    *Object
		perr *Error
	)
	err := rt.do(func() {
		h := build()
		if h == nil {
			perr = rt.fetch(op, StageNone)
			return
		}
		o = rt.own(h)
	})
	if err != nil {
		return nil, err
	}
	if perr != nil {
		return nil, perr
	}
	return o, nil
}

// None returns a new reference to None.
func (rt *Runtime) None() (*Object, error) {
	return rt.newObject("none", bindings.None)
}

func (rt *Runtime) Bool(v bool) (*Object, error) {
	return rt.newObject("bool", func() bindings.Handle { return bindings.NewBool(v) })
}

func (rt *Runtime) Int(v int64) (*Object, error) {
	return rt.newObject("int", func() bindings.Handle { return bindings.NewInt(v) })
}

func (rt *Runtime) Uint(v uint64) (*Object, error) {
	return rt.newObject("int", func() bindings.Handle { return bindings.NewUint(v) })
}

func (rt *Runtime) Float(v float64) (*Object, error) {
	return rt.newObject("float", func() bindings.Handle { return bindings.NewFloat(v) })
}

// Str builds a str from UTF-8 text. Embedded NUL bytes are kept; invalid
// UTF-8 is an error.
func (rt *Runtime) Str(s string) (*Object, error) {
	return rt.newObject("str", func() bindings.Handle { return bindings.NewString(s) })
}

func (rt *Runtime) Bytes(b []byte) (*Object, error) {
	return rt.newObject("bytes", func() bindings.Handle { return bindings.NewBytes(b) })
}

// The readers below are lenient: a value of the wrong type reads as the zero
// value, an int that does not fit in 64 bits reads as 0, and a released
// object reads as the zero value. They never leave an exception pending.

// Bool reports whether the object is True. Only the bool singleton counts;
// truthiness is not evaluated.
func (r ref) Bool() bool {
	var v bool
	_ = r.with(func() { v = bindings.AsBool(r.h) })
	return v
}

func (r ref) Int() int64 {
	var v int64
	_ = r.with(func() { v = bindings.AsInt(r.h) })
	return v
}

// Float reads a float. Ints are accepted and converted.
func (r ref) Float() float64 {
	var v float64
	_ = r.with(func() { v = bindings.AsFloat(r.h) })
	return v
}

// Str copies the text of a str object.
func (r ref) Str() string {
	var v string
	_ = r.with(func() { v = bindings.AsString(r.h) })
	return v
}

// Bytes copies the contents of a bytes object.
func (r ref) Bytes() []byte {
	var v []byte
	_ = r.with(func() { v = bindings.AsBytes(r.h) })
	return v
}

// WithStrView calls fn with a string that aliases the object's own text
// buffer. The string must not be retained after fn returns. fn runs while
// the interpreter is held, so it should be short.
func (r ref) WithStrView(fn func(s string)) error {
	return r.with(func() { fn(bindings.StringView(r.h)) })
}
