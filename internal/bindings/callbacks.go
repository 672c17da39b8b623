//go:build cgo && !windows

package bindings

/*
#include "bridge.h"
*/
import "C"

import (
	"errors"
	"fmt"
)

// CGO export callbacks for the HostObject trampoline. The C side calls them
// with the GIL held; each one resolves the registered Host, forwards the call
// and turns a Go error into an exception payload. A panic must never unwind
// into the interpreter, so every export recovers first.

//export pybGoCallObject
func pybGoCallObject(ctx C.uintptr_t, index C.int, args *C.PyObject, errOut **C.PyObject) (result *C.PyObject) {
	defer recoverCallback(errOut, &result)

	host, ok := lookupHost(handle(ctx))
	if !ok {
		*errOut = errorPayload(ErrUnknownHost)
		return nil
	}
	h, err := host.CallObject(int(index), handleOf(args))
	return finishCallback(h, err, errOut)
}

//export pybGoCallMethod
func pybGoCallMethod(ctx C.uintptr_t, index C.int, name *C.char, args *C.PyObject, errOut **C.PyObject) (result *C.PyObject) {
	defer recoverCallback(errOut, &result)

	host, ok := lookupHost(handle(ctx))
	if !ok {
		*errOut = errorPayload(ErrUnknownHost)
		return nil
	}
	h, err := host.CallMethod(int(index), C.GoString(name), handleOf(args))
	return finishCallback(h, err, errOut)
}

func lookupHost(h handle) (Host, bool) {
	v, ok := get(h)
	if !ok {
		return nil, false
	}
	host, ok := v.(Host)
	return host, ok
}

func recoverCallback(errOut **C.PyObject, result **C.PyObject) {
	rec := recover()
	if rec == nil {
		return
	}
	if *result != nil {
		C.pyb_decref(*result)
		*result = nil
	}
	if *errOut != nil {
		C.pyb_decref(*errOut)
	}
	*errOut = errorPayload(fmt.Errorf("panic in host callback: %v", rec))
}

func finishCallback(h Handle, err error, errOut **C.PyObject) *C.PyObject {
	if err != nil {
		if h != nil {
			C.pyb_decref(ptr(h))
		}
		*errOut = errorPayload(err)
		return nil
	}
	if h == nil {
		return C.pyb_none()
	}
	return ptr(h)
}

// errorPayload returns a new reference to the object carried by the
// exception raised for err: the error's own payload when it has one, its
// text otherwise.
func errorPayload(err error) *C.PyObject {
	var pe PayloadError
	if errors.As(err, &pe) {
		if p := pe.Payload(); p != nil {
			return ptr(p)
		}
	}
	s, n := cString(err.Error())
	return C.pyb_str_from(s, n)
}
