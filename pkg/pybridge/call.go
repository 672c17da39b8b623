package pybridge

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/pybridge/pybridge-go/internal/bindings"
)

// callShape resolves positional and keyword arguments. args must be a
// tuple and kwargs a dict when present. The GIL must be held.
func callShape(args, kwargs bindings.Handle) error {
	if args != nil && !bindings.IsTuple(args) {
		return fmt.Errorf("%w: positional arguments must be a tuple, got %s", ErrArgumentShape, bindings.TypeName(args))
	}
	if kwargs != nil && !bindings.IsDict(kwargs) {
		return fmt.Errorf("%w: keyword arguments must be a dict, got %s", ErrArgumentShape, bindings.TypeName(kwargs))
	}
	return nil
}

// cText rejects text the C API would cut short at a NUL byte.
func cText(what, s string) error {
	if strings.IndexByte(s, 0) >= 0 {
		return fmt.Errorf("%w: %s contains a NUL byte", ErrArgumentShape, what)
	}
	return nil
}

// Call invokes the object. A nil args calls with no positional arguments;
// a nil kwargs passes no keyword arguments at all, which is not the same as
// an empty dict to every callable.
func (r ref) Call(args, kwargs Value) (*Object, error) {
	ah, err := optional(args)
	if err != nil {
		return nil, err
	}
	kh, err := optional(kwargs)
	if err != nil {
		return nil, err
	}
	var (
		o    *Object
		perr error
	)
	err = r.with(func() {
		if perr = callShape(ah, kh); perr != nil {
			return
		}
		h := bindings.Call(r.h, ah, kh)
		if h == nil {
			perr = r.rt.fetch("call", StageCall)
			return
		}
		o = r.rt.own(h)
	})
	runtime.KeepAlive(args)
	runtime.KeepAlive(kwargs)
	if err != nil {
		return nil, err
	}
	return o, perr
}

// CallArgs converts natives with ToObject and calls the object with them as
// positional arguments.
func (r ref) CallArgs(natives ...any) (*Object, error) {
	var (
		o    *Object
		perr error
	)
	err := r.with(func() {
		hs := make([]bindings.Handle, 0, len(natives))
		for _, v := range natives {
			h, err := r.rt.toHandle(v)
			if err != nil {
				for _, done := range hs {
					bindings.DecRef(done)
				}
				perr = err
				return
			}
			hs = append(hs, h)
		}
		args := bindings.TupleFromHandlesSteal(hs)
		if args == nil {
			perr = r.rt.fetch("call", StageNone)
			return
		}
		h := bindings.Call(r.h, args, nil)
		bindings.DecRef(args)
		if h == nil {
			perr = r.rt.fetch("call", StageCall)
			return
		}
		o = r.rt.own(h)
	})
	if err != nil {
		return nil, err
	}
	return o, perr
}

// CallMethod looks up name on the object and calls it. A failure is an
// *Error whose Stage tells whether the lookup or the call raised; match it
// with errors.Is(err, ErrLookupFailed) or ErrCallFailed.
func (r ref) CallMethod(name string, args, kwargs Value) (*Object, error) {
	if err := cText("method name", name); err != nil {
		return nil, err
	}
	ah, err := optional(args)
	if err != nil {
		return nil, err
	}
	kh, err := optional(kwargs)
	if err != nil {
		return nil, err
	}
	var (
		o    *Object
		perr error
	)
	err = r.with(func() {
		if perr = callShape(ah, kh); perr != nil {
			return
		}
		h, stage := bindings.CallMethod(r.h, name, ah, kh)
		if h == nil {
			perr = r.rt.fetch("call method "+name, Stage(stage))
			return
		}
		o = r.rt.own(h)
	})
	runtime.KeepAlive(args)
	runtime.KeepAlive(kwargs)
	if err != nil {
		return nil, err
	}
	return o, perr
}

// Attr returns obj.name.
func (r ref) Attr(name string) (*Object, error) {
	if err := cText("attribute name", name); err != nil {
		return nil, err
	}
	return r.derive("getattr "+name, func(h bindings.Handle) bindings.Handle { return bindings.GetAttr(h, name) })
}

// SetAttr sets obj.name = v.
func (r ref) SetAttr(name string, v Value) error {
	if err := cText("attribute name", name); err != nil {
		return err
	}
	vh, err := required(v)
	if err != nil {
		return err
	}
	return r.check("setattr "+name, func() bool { return bindings.SetAttr(r.h, name, vh) }, v)
}

// HasAttr reports whether obj.name resolves. Errors raised by the lookup,
// and names the interpreter cannot hold, read as false.
func (r ref) HasAttr(name string) bool {
	if cText("attribute name", name) != nil {
		return false
	}
	return r.is(func(h bindings.Handle) bool { return bindings.HasAttr(h, name) })
}

// Dir returns dir(obj) as a new list.
func (r ref) Dir() (*Object, error) { return r.derive("dir", bindings.Dir) }

// Type returns type(obj).
func (r ref) Type() (*Object, error) { return r.derive("type", bindings.TypeOf) }

// String returns str(obj). It returns "" when str() raises or the object was
// released.
func (r ref) String() string { return r.text(bindings.Str) }

// Repr returns repr(obj), or "" when repr() raises.
func (r ref) Repr() string { return r.text(bindings.Repr) }

func (r ref) text(fn func(bindings.Handle) bindings.Handle) string {
	var s string
	_ = r.with(func() {
		h := fn(r.h)
		if h == nil {
			bindings.ClearError()
			return
		}
		s = bindings.AsString(h)
		bindings.DecRef(h)
	})
	return s
}

// Import imports a module by its dotted name.
func (rt *Runtime) Import(name string) (*Object, error) {
	if err := cText("module name", name); err != nil {
		return nil, err
	}
	return rt.newObject("import "+name, func() bindings.Handle { return bindings.Import(name) })
}

// ImportFrom is "from module import name".
func (rt *Runtime) ImportFrom(module, name string) (*Object, error) {
	if err := cText("module name", module); err != nil {
		return nil, err
	}
	if err := cText("name", name); err != nil {
		return nil, err
	}
	return rt.newObject("import "+module+"."+name, func() bindings.Handle { return bindings.ImportFrom(module, name) })
}

// Eval evaluates an expression. globals must be a dict when present; a nil
// globals evaluates in a fresh namespace.
func (rt *Runtime) Eval(code string, globals Value) (*Object, error) {
	if err := cText("source", code); err != nil {
		return nil, err
	}
	gh, err := rt.globals(globals)
	if err != nil {
		return nil, err
	}
	o, err := rt.newObject("eval", func() bindings.Handle { return bindings.Eval(code, gh, nil) })
	runtime.KeepAlive(globals)
	return o, err
}

// Exec runs a block of statements. globals must be a dict when present; a
// nil globals runs in a fresh namespace.
func (rt *Runtime) Exec(code string, globals Value) error {
	if err := cText("source", code); err != nil {
		return err
	}
	gh, err := rt.globals(globals)
	if err != nil {
		return err
	}
	o, err := rt.newObject("exec", func() bindings.Handle { return bindings.Exec(code, gh, nil) })
	runtime.KeepAlive(globals)
	if err != nil {
		return err
	}
	return o.Close()
}

func (rt *Runtime) globals(v Value) (bindings.Handle, error) {
	h, err := optional(v)
	if err != nil || h == nil {
		return h, err
	}
	var isDict bool
	err = rt.do(func() { isDict = bindings.IsDict(h) })
	runtime.KeepAlive(v)
	if err != nil {
		return nil, err
	}
	if !isDict {
		return nil, fmt.Errorf("%w: globals must be a dict", ErrArgumentShape)
	}
	return h, nil
}

// MainDict returns a borrowed reference to the namespace of __main__. It
// stays valid for the life of the Runtime.
func (rt *Runtime) MainDict() (Borrowed, error) {
	var (
		b    Borrowed
		perr *Error
	)
	err := rt.do(func() {
		h := bindings.MainDict()
		if h == nil {
			perr = rt.fetch("main dict", StageNone)
			return
		}
		b = Borrowed{ref{rt: rt, h: h}}
	})
	if err != nil {
		return Borrowed{}, err
	}
	if perr != nil {
		return Borrowed{}, perr
	}
	return b, nil
}
