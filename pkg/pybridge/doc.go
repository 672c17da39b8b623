// Package pybridge embeds a CPython interpreter in a Go program and moves
// values and calls across the boundary in both directions.
//
// # Runtime
//
// Init starts the interpreter on a dedicated OS thread and returns the
// Runtime every other operation hangs off:
//
//	rt, err := pybridge.Init(ctx, pybridge.DefaultConfig(), registry)
//	if err != nil {
//	    return err
//	}
//	defer rt.Close()
//
// Runtime methods may be called from any goroutine; the work is serialized
// onto the interpreter thread. Calls made from inside a host callback run
// inline, so Go code called from Python can call back into Python freely.
//
// # Ownership
//
// An *Object owns one reference and releases it on Close. A Borrowed value
// owns nothing and is valid only while its owner keeps the object alive:
// container elements, dict values and callback arguments are Borrowed. Use
// Borrowed.Own to keep one.
//
// Collections come in two flavours. ListOf and TupleOf add a reference to
// each item and leave the caller's references alone. ListSteal and
// TupleSteal move each *Object into the container; the items are empty
// afterwards.
//
// # Leniency
//
// Scalar readers (Int, Float, Str, Bytes, Bool) never fail: a value of the
// wrong type reads as the zero value and an int that does not fit in 64 bits
// reads as 0. Check the type first with IsInt or TypeFlags when the
// distinction matters.
//
// # Errors
//
// A Python exception surfaces as *Error, carrying the exception type name,
// message, rendered traceback and the exception objects themselves.
// CallMethod records whether the attribute lookup or the call raised:
//
//	res, err := obj.CallMethod("load", args, nil)
//	switch {
//	case errors.Is(err, pybridge.ErrLookupFailed):
//	    // no such method
//	case errors.Is(err, pybridge.ErrCallFailed):
//	    // the method raised
//	}
//
// # Host objects
//
// Go values reach Python as pybridge.HostObject instances holding an
// integer index. Calling one, or reading an attribute that is not a dunder
// name, calls the Runtime's Host with that index. HostRegistry is a Host
// that dispatches on the Callable, MethodCaller and AttributeResolver
// interfaces:
//
//	reg := pybridge.NewHostRegistry()
//	rt, _ := pybridge.Init(ctx, pybridge.DefaultConfig(), reg)
//	add, _ := reg.Expose(rt, pybridge.CallableFunc(func(args pybridge.Borrowed) (*pybridge.Object, error) {
//	    a, _ := args.Item(0)
//	    b, _ := args.Item(1)
//	    return args.Runtime().Int(a.Int() + b.Int())
//	}))
//
// Errors returned by host code are raised in Python as RuntimeError, or
// AttributeError for attribute reads. A panic in host code is recovered and
// raised the same way.
package pybridge
