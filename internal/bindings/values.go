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

// cString exposes the bytes of s to C for the duration of one call. The
// pointer is not NUL-terminated and must not be retained.
func cString(s string) (*C.char, C.int64_t) {
	if len(s) == 0 {
		return nil, 0
	}
	return (*C.char)(unsafe.Pointer(unsafe.StringData(s))), C.int64_t(len(s))
}

// None returns a new reference to None.
func None() Handle { return handleOf(C.pyb_none()) }

// NewBool returns a new reference to True or False.
func NewBool(v bool) Handle { return handleOf(C.pyb_bool_from(boolToInt(v))) }

// NewInt returns a new int object. Values in [-5, 256] come from the
// interpreter's small-int cache.
func NewInt(v int64) Handle { return handleOf(C.pyb_int_from(C.int64_t(v))) }

// NewUint returns a new int object holding v.
func NewUint(v uint64) Handle { return handleOf(C.pyb_uint_from(C.uint64_t(v))) }

// NewFloat returns a new float object.
func NewFloat(v float64) Handle { return handleOf(C.pyb_float_from(C.double(v))) }

// NewString returns a new str object decoded from the UTF-8 bytes of s.
func NewString(s string) Handle {
	p, n := cString(s)
	return handleOf(C.pyb_str_from(p, n))
}

// NewBytes returns a new bytes object holding a copy of b.
func NewBytes(b []byte) Handle {
	if len(b) == 0 {
		return handleOf(C.pyb_bytes_from(nil, 0))
	}
	return handleOf(C.pyb_bytes_from((*C.char)(unsafe.Pointer(&b[0])), C.int64_t(len(b))))
}

// AsBool reports whether h is True. Any other object reads as false.
func AsBool(h Handle) bool { return cBool(C.pyb_as_bool(ptr(h))) }

// AsInt returns the value of an int object, or 0 for anything else,
// including ints that do not fit in 64 bits.
func AsInt(h Handle) int64 { return int64(C.pyb_as_int(ptr(h))) }

// AsFloat returns the value of a float or int object, or 0 for anything
// else.
func AsFloat(h Handle) float64 { return float64(C.pyb_as_float(ptr(h))) }

// AsString copies the UTF-8 form of a str object. Non-str objects read as "".
func AsString(h Handle) string {
	var n C.int64_t
	p := C.pyb_as_utf8(ptr(h), &n)
	if p == nil {
		return ""
	}
	return C.GoStringN(p, C.int(n))
}

// StringView returns a string aliasing the internal buffer of a str object.
// It is only valid while the object is alive and must never be mutated.
// Compact ASCII strings are read in place; others go through the object's
// cached UTF-8 form.
func StringView(h Handle) string {
	var n C.int64_t
	p := C.pyb_str_view(ptr(h), &n)
	if p == nil || n == 0 {
		return ""
	}
	return unsafe.String((*byte)(unsafe.Pointer(p)), int(n))
}

// AsBytes copies the contents of a bytes object. Other objects read as nil.
func AsBytes(h Handle) []byte {
	var n C.int64_t
	p := C.pyb_as_bytes(ptr(h), &n)
	if p == nil {
		return nil
	}
	return C.GoBytes(unsafe.Pointer(p), C.int(n))
}

// BatchIntToPy converts the first n values into new int objects written to
// out. A failed slot is left nil.
func BatchIntToPy(values []int64, out []Handle, n int) {
	if n <= 0 {
		return
	}
	res := make([]*C.PyObject, n)
	C.pyb_batch_int_to_py((*C.int64_t)(unsafe.Pointer(&values[0])), C.int32_t(n), &res[0])
	for i := 0; i < n; i++ {
		out[i] = handleOf(res[i])
	}
}

// BatchFloatToPy converts the first n values into new float objects.
func BatchFloatToPy(values []float64, out []Handle, n int) {
	if n <= 0 {
		return
	}
	res := make([]*C.PyObject, n)
	C.pyb_batch_float_to_py((*C.double)(unsafe.Pointer(&values[0])), C.int32_t(n), &res[0])
	for i := 0; i < n; i++ {
		out[i] = handleOf(res[i])
	}
}

// BatchStringToPy converts the first n values into new str objects. The
// string bytes are staged in the scratch pool, which is reset afterwards.
func BatchStringToPy(values []string, out []Handle, n int) {
	if n <= 0 {
		return
	}
	defer C.pyb_pool_reset()

	total := 0
	for _, s := range values[:n] {
		total += len(s)
	}
	ptrSize := int(unsafe.Sizeof((*C.char)(nil)))
	ptrs := (**C.char)(C.pyb_pool_alloc(C.size_t(n * ptrSize)))
	lens := (*C.int64_t)(C.pyb_pool_alloc(C.size_t(n * 8)))
	data := (*byte)(C.pyb_pool_alloc(C.size_t(total)))
	if ptrs == nil || lens == nil || data == nil {
		for i := 0; i < n; i++ {
			out[i] = nil
		}
		return
	}

	ptrSlice := unsafe.Slice(ptrs, n)
	lenSlice := unsafe.Slice(lens, n)
	buf := unsafe.Slice(data, total)
	off := 0
	for i, s := range values[:n] {
		copy(buf[off:], s)
		ptrSlice[i] = (*C.char)(unsafe.Add(unsafe.Pointer(data), off))
		lenSlice[i] = C.int64_t(len(s))
		off += len(s)
	}

	res := make([]*C.PyObject, n)
	C.pyb_batch_str_to_py(ptrs, lens, C.int32_t(n), &res[0])
	for i := 0; i < n; i++ {
		out[i] = handleOf(res[i])
	}
}

// BatchPyToInt reads n objects leniently: non-int slots become 0.
func BatchPyToInt(values []Handle, out []int64, n int) {
	if n <= 0 {
		return
	}
	src := toCArray(values[:n])
	C.pyb_batch_py_to_int(&src[0], C.int32_t(n), (*C.int64_t)(unsafe.Pointer(&out[0])))
}

// BatchPyToFloat reads n objects leniently: ints are widened, other
// non-float slots become 0.
func BatchPyToFloat(values []Handle, out []float64, n int) {
	if n <= 0 {
		return
	}
	src := toCArray(values[:n])
	C.pyb_batch_py_to_float(&src[0], C.int32_t(n), (*C.double)(unsafe.Pointer(&out[0])))
}

// BatchPyToString copies n str objects. Non-str slots become "".
func BatchPyToString(values []Handle, out []string, n int) {
	if n <= 0 {
		return
	}
	src := toCArray(values[:n])
	ptrs := make([]*C.char, n)
	lens := make([]C.int64_t, n)
	C.pyb_batch_py_to_str(&src[0], C.int32_t(n), &ptrs[0], &lens[0])
	for i := 0; i < n; i++ {
		if ptrs[i] == nil {
			out[i] = ""
			continue
		}
		out[i] = C.GoStringN(ptrs[i], C.int(lens[i]))
	}
}

// toCArray copies handles into a slice C can read. Interpreter pointers are
// not Go pointers, so the slice may be passed to C directly.
func toCArray(hs []Handle) []*C.PyObject {
	out := make([]*C.PyObject, len(hs))
	for i, h := range hs {
		out[i] = ptr(h)
	}
	return out
}
