//go:build cgo && !windows

package bindings

/*
#include "bridge.h"
*/
import "C"

import (
	"unsafe"
)

// AcquireBuffer exports obj through the buffer protocol. The returned view
// keeps the memory pinned until ReleaseBuffer; a nil view means an exception
// is pending.
func AcquireBuffer(obj Handle, writable bool) (unsafe.Pointer, BufferInfo) {
	var info C.pyb_buffer_info
	view := C.pyb_buffer_acquire(ptr(obj), boolToInt(writable), &info)
	if view == nil {
		return nil, BufferInfo{}
	}
	ndim := int(info.ndim)
	out := BufferInfo{
		Data:        info.data,
		Len:         int64(info.len),
		ItemSize:    int64(info.itemsize),
		NDim:        ndim,
		ReadOnly:    info.readonly != 0,
		CContiguous: info.c_contiguous != 0,
		DType:       DType(info.dtype),
		Format:      C.GoString(&info.format[0]),
		Shape:       make([]int64, ndim),
		Strides:     make([]int64, ndim),
	}
	for i := 0; i < ndim; i++ {
		out.Shape[i] = int64(info.shape[i])
		out.Strides[i] = int64(info.strides[i])
	}
	return view, out
}

// ReleaseBuffer ends a buffer export started by AcquireBuffer.
func ReleaseBuffer(view unsafe.Pointer) {
	C.pyb_buffer_release(view)
}

// NewMemoryView returns a memoryview over data. Without ViewCopy the memory
// must outlive the view and must not be Go memory; with ViewCopy the bytes
// are copied into an interpreter-owned buffer during the call. shape and
// strides are copied; nil strides means C order.
func NewMemoryView(data unsafe.Pointer, dtype DType, shape, strides []int64, flags int) Handle {
	if len(shape) == 0 {
		return handleOf(C.pyb_memoryview_from(data, C.int(dtype), 0, nil, nil, C.int(flags)))
	}
	n := len(shape)
	if n > MaxNDim {
		SetError(ExcValue, "too many dimensions")
		return nil
	}
	var cshape, cstrides [MaxNDim]C.int64_t
	for i := 0; i < n; i++ {
		cshape[i] = C.int64_t(shape[i])
	}
	var sp *C.int64_t
	if strides != nil {
		for i := 0; i < n && i < len(strides); i++ {
			cstrides[i] = C.int64_t(strides[i])
		}
		sp = &cstrides[0]
	}
	return handleOf(C.pyb_memoryview_from(data, C.int(dtype), C.int32_t(n), &cshape[0], sp, C.int(flags)))
}
