//go:build cgo && !windows

package bindings

/*
#include <stdlib.h>
#include "bridge.h"
*/
import "C"

import (
	"unsafe"
)

// Call invokes callable with a tuple of positional arguments (nil for none)
// and an optional dict of keyword arguments. It returns a new reference, or
// nil with an exception pending.
func Call(callable, args, kwargs Handle) Handle {
	return handleOf(C.pyb_call(ptr(callable), ptr(args), ptr(kwargs)))
}

// CallMethod looks up name on obj and calls it. On failure the returned
// Stage tells whether the lookup or the call raised.
func CallMethod(obj Handle, name string, args, kwargs Handle) (Handle, Stage) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	var stage C.int
	res := C.pyb_call_method(ptr(obj), cname, ptr(args), ptr(kwargs), &stage)
	return handleOf(res), Stage(stage)
}

// GetAttr returns a new reference to obj.name.
func GetAttr(obj Handle, name string) Handle {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return handleOf(C.pyb_getattr(ptr(obj), cname))
}

// SetAttr sets obj.name = value.
func SetAttr(obj Handle, name string, value Handle) bool {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return C.pyb_setattr(ptr(obj), cname, ptr(value)) == 0
}

// HasAttr reports whether obj.name resolves. Lookup errors read as false.
func HasAttr(obj Handle, name string) bool {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return cBool(C.pyb_hasattr(ptr(obj), cname))
}

// Dir returns a new reference to dir(obj).
func Dir(obj Handle) Handle { return handleOf(C.pyb_dir(ptr(obj))) }

// TypeOf returns a new reference to type(obj).
func TypeOf(obj Handle) Handle { return handleOf(C.pyb_type(ptr(obj))) }

// Str returns a new reference to str(obj).
func Str(obj Handle) Handle { return handleOf(C.pyb_str(ptr(obj))) }

// Repr returns a new reference to repr(obj).
func Repr(obj Handle) Handle { return handleOf(C.pyb_repr(ptr(obj))) }

// Import imports a module by its dotted name.
func Import(name string) Handle {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return handleOf(C.pyb_import(cname))
}

// ImportFrom imports module and returns a new reference to its attribute.
func ImportFrom(module, name string) Handle {
	cmod := C.CString(module)
	defer C.free(unsafe.Pointer(cmod))
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return handleOf(C.pyb_import_from(cmod, cname))
}

// Eval evaluates an expression. A nil globals runs it in a fresh namespace
// holding only the builtins; a nil locals reuses globals.
func Eval(code string, globals, locals Handle) Handle {
	ccode := C.CString(code)
	defer C.free(unsafe.Pointer(ccode))
	return handleOf(C.pyb_eval(ccode, ptr(globals), ptr(locals)))
}

// Exec runs a block of statements and returns a new reference to None on
// success.
func Exec(code string, globals, locals Handle) Handle {
	ccode := C.CString(code)
	defer C.free(unsafe.Pointer(ccode))
	return handleOf(C.pyb_exec(ccode, ptr(globals), ptr(locals)))
}

// MainDict returns a borrowed reference to the namespace of __main__.
func MainDict() Handle { return handleOf(C.pyb_main_dict()) }

// NewHostObject returns a HostObject bound to index.
func NewHostObject(index int) Handle {
	return handleOf(C.pyb_host_object_new(C.int(index)))
}

// HostObjectIndex returns the index a HostObject is bound to (-1 when
// unbound) and whether h is a HostObject at all.
func HostObjectIndex(h Handle) (int, bool) {
	var idx C.int
	ok := C.pyb_host_object_index(ptr(h), &idx)
	return int(idx), ok != 0
}
