//go:build cgo && !windows

package bindings

/*
#include "bridge.h"
*/
import "C"

// IncRef adds a reference to h. nil is ignored.
func IncRef(h Handle) { C.pyb_incref(ptr(h)) }

// DecRef drops a reference to h. nil is ignored.
func DecRef(h Handle) { C.pyb_decref(ptr(h)) }

// RefCount returns the current reference count of h.
func RefCount(h Handle) int64 { return int64(C.pyb_refcnt(ptr(h))) }

func IsNone(h Handle) bool     { return cBool(C.pyb_is_none(ptr(h))) }
func IsBool(h Handle) bool     { return cBool(C.pyb_is_bool(ptr(h))) }
func IsInt(h Handle) bool      { return cBool(C.pyb_is_int(ptr(h))) }
func IsFloat(h Handle) bool    { return cBool(C.pyb_is_float(ptr(h))) }
func IsString(h Handle) bool   { return cBool(C.pyb_is_str(ptr(h))) }
func IsBytes(h Handle) bool    { return cBool(C.pyb_is_bytes(ptr(h))) }
func IsList(h Handle) bool     { return cBool(C.pyb_is_list(ptr(h))) }
func IsTuple(h Handle) bool    { return cBool(C.pyb_is_tuple(ptr(h))) }
func IsDict(h Handle) bool     { return cBool(C.pyb_is_dict(ptr(h))) }
func IsSet(h Handle) bool      { return cBool(C.pyb_is_set(ptr(h))) }
func IsCallable(h Handle) bool { return cBool(C.pyb_is_callable(ptr(h))) }
func IsModule(h Handle) bool   { return cBool(C.pyb_is_module(ptr(h))) }
func IsType(h Handle) bool     { return cBool(C.pyb_is_type(ptr(h))) }
func IsSequence(h Handle) bool { return cBool(C.pyb_is_sequence(ptr(h))) }

// TypeFlags classifies h in one call. The order is none, bool, int, float,
// str, bytes, list, tuple, dict, callable.
func TypeFlags(h Handle) [NumTypeFlags]bool {
	var raw [NumTypeFlags]C.uint8_t
	C.pyb_type_flags(ptr(h), &raw[0])
	var out [NumTypeFlags]bool
	for i, v := range raw {
		out[i] = v != 0
	}
	return out
}

// TypeName returns the name of h's type.
func TypeName(h Handle) string { return C.GoString(C.pyb_type_name(ptr(h))) }

// ClassName returns the name of a type object.
func ClassName(typ Handle) string { return C.GoString(C.pyb_class_name(ptr(typ))) }
