package pybridge

import (
	"runtime"

	"github.com/pybridge/pybridge-go/internal/bindings"
)

// Value is an interpreter object reference: an owned *Object or a Borrowed
// view. A nil Value (or nil *Object) means "absent" where an operation
// accepts one.
type Value interface {
	pyRef() ref
}

// ref carries the read operations shared by Object and Borrowed. anchor is
// the owned reference h depends on; it is nil when something outside Go owns
// it (a callback frame, a module dict).
type ref struct {
	rt     *Runtime
	h      bindings.Handle
	anchor *anchor
}

// anchor holds the release finalizer of an owned reference. Every ref copied
// from an Object or borrowed from it points here, so the reference is not
// released while any of them is in use.
type anchor struct {
	rt *Runtime
	h  bindings.Handle
}

func (a *anchor) release() { a.rt.queueRelease(a.h) }

func (r ref) pyRef() ref { return r }

// with runs fn under the GIL when r still refers to a live object.
func (r ref) with(fn func()) error {
	if r.h == nil {
		return ErrClosed
	}
	err := r.rt.do(fn)
	runtime.KeepAlive(r.anchor)
	return err
}

// borrow returns a view of h, an object kept alive by r.
func (r ref) borrow(h bindings.Handle) Borrowed {
	return Borrowed{ref{rt: r.rt, h: h, anchor: r.anchor}}
}

// Runtime returns the runtime the object belongs to.
func (r ref) Runtime() *Runtime { return r.rt }

// Valid reports whether the reference still points at an object.
func (r ref) Valid() bool { return r.h != nil && !r.rt.Closed() }

// Object owns exactly one reference to an interpreter object. Close releases
// it; an Object that becomes unreachable without Close has its reference
// released on the runtime's thread later, once no method value or Borrowed
// taken from it is still reachable. An Object is not safe for
// concurrent Close.
type Object struct {
	ref
}

func (o *Object) pyRef() ref {
	if o == nil {
		return ref{}
	}
	return o.ref
}

// own wraps a new reference. nil stays nil.
func (rt *Runtime) own(h bindings.Handle) *Object {
	if h == nil {
		return nil
	}
	a := &anchor{rt: rt, h: h}
	runtime.SetFinalizer(a, (*anchor).release)
	return &Object{ref{rt: rt, h: h, anchor: a}}
}

// Close releases the reference. It is safe to call more than once and on a
// nil Object.
func (o *Object) Close() error {
	if o == nil || o.h == nil {
		return nil
	}
	o.disarm()
	h := o.h
	o.h = nil
	if err := o.rt.do(func() { bindings.DecRef(h) }); err != nil && err != ErrClosed {
		return err
	}
	return nil
}

// detach gives up ownership without releasing and returns the reference.
func (o *Object) detach() bindings.Handle {
	if o == nil || o.h == nil {
		return nil
	}
	o.disarm()
	h := o.h
	o.h = nil
	return h
}

func (o *Object) disarm() {
	if o.anchor != nil {
		runtime.SetFinalizer(o.anchor, nil)
		o.anchor = nil
	}
}

// Borrow returns a view of the object. The view is valid while o is open.
func (o *Object) Borrow() Borrowed {
	return Borrowed{o.pyRef()}
}

// Borrowed is a reference the caller does not own: an element of a
// container, a dict value, the arguments of a host callback. It is valid only
// as long as its owner keeps the object alive; use Own to keep it longer.
// Borrowed values must not be stored in long-lived structures.
type Borrowed struct {
	ref
}

// Own takes a new reference to the borrowed object.
func (b Borrowed) Own() (*Object, error) {
	var o *Object
	err := b.with(func() {
		bindings.IncRef(b.h)
		o = b.rt.own(b.h)
	})
	return o, err
}

// handles resolves values to raw handles. Absent values map to nil; values
// whose object was released report ErrClosed.
func handles(vs []Value) ([]bindings.Handle, error) {
	out := make([]bindings.Handle, len(vs))
	for i, v := range vs {
		if v == nil {
			return nil, ErrArgumentShape
		}
		r := v.pyRef()
		if r.h == nil {
			if r.rt == nil {
				return nil, ErrArgumentShape
			}
			return nil, ErrClosed
		}
		out[i] = r.h
	}
	return out, nil
}

// optional resolves a value that may be absent.
func optional(v Value) (bindings.Handle, error) {
	if v == nil {
		return nil, nil
	}
	r := v.pyRef()
	if r.h == nil && r.rt != nil {
		return nil, ErrClosed
	}
	return r.h, nil
}
