package pybridge

import (
	"errors"
	"fmt"

	"github.com/pybridge/pybridge-go/internal/bindings"
	"github.com/pybridge/pybridge-go/pkg/pybridge/logging"
)

// AttributeGet is the method name a Host receives when the interpreter reads
// an attribute of a HostObject. The only argument is the attribute name.
// HostRegistry handles it; hosts implementing Host directly must too.
const AttributeGet = bindings.AttributeGet

// Host receives every call the interpreter makes on a pybridge.HostObject.
// index is the integer the HostObject was created with. args is a tuple
// valid for the duration of the call. A nil result with a nil error
// returns None to the interpreter.
//
// A returned error is raised inside the interpreter as RuntimeError (or
// AttributeError for attribute reads) carrying the error text. An *Error
// anywhere in the chain is raised with its original exception value instead,
// so exceptions survive a round trip through Go.
//
// Host methods run on the thread that holds the interpreter; every Runtime
// method called from them runs inline.
type Host interface {
	CallObject(index int, args Borrowed) (*Object, error)
	CallMethod(index int, name string, args Borrowed) (*Object, error)
}

// hostAdapter bridges the public Host interface with the handle-typed
// bindings.Host.
type hostAdapter struct {
	rt *Runtime
}

func (a hostAdapter) CallObject(index int, args bindings.Handle) (bindings.Handle, error) {
	res, err := a.rt.host.CallObject(index, Borrowed{ref{rt: a.rt, h: args}})
	return a.finish(index, "", res, err)
}

func (a hostAdapter) CallMethod(index int, name string, args bindings.Handle) (bindings.Handle, error) {
	res, err := a.rt.host.CallMethod(index, name, Borrowed{ref{rt: a.rt, h: args}})
	return a.finish(index, name, res, err)
}

// finish hands the result reference to the interpreter.
func (a hostAdapter) finish(index int, name string, res *Object, err error) (bindings.Handle, error) {
	if err == nil {
		return res.detach(), nil
	}
	if h := res.detach(); h != nil {
		bindings.DecRef(h)
	}
	if !errors.Is(err, ErrAttributeNotFound) {
		a.rt.log.Warn(a.rt.ctx, "host callback failed",
			"index", index, "method", name, logging.Truncated("error", err.Error(), 512))
	}
	var pe *Error
	if errors.As(err, &pe) {
		if h := pe.payload(); h != nil {
			return nil, payloadError{error: err, h: h}
		}
	}
	return nil, err
}

// WrapHost returns a pybridge.HostObject bound to index. Calls and
// attribute reads on it reach the Runtime's Host.
func (rt *Runtime) WrapHost(index int) (*Object, error) {
	if index < 0 {
		return nil, fmt.Errorf("%w: host index %d is negative", ErrArgumentShape, index)
	}
	return rt.newObject("wrap host", func() bindings.Handle { return bindings.NewHostObject(index) })
}

// HostIndex returns the index of a HostObject and whether the object is
// one. Unbound HostObjects report -1.
func (r ref) HostIndex() (int, bool) {
	var (
		idx int
		ok  bool
	)
	_ = r.with(func() { idx, ok = bindings.HostObjectIndex(r.h) })
	return idx, ok
}
