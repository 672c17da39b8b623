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

// FetchError takes the pending exception, normalizes it and renders its
// traceback. The exception state is cleared, so a second call returns a
// zero RawError. When the traceback cannot be rendered HasFormatted is false
// and the rendering failure is discarded.
func FetchError() RawError {
	var e C.pyb_error
	C.pyb_fetch_error(&e)
	out := RawError{
		Type:      handleOf(e._type),
		Value:     handleOf(e.value),
		Traceback: handleOf(e.traceback),
	}
	if e.formatted != nil {
		out.Formatted = C.GoString(e.formatted)
		out.HasFormatted = true
		C.pyb_free(unsafe.Pointer(e.formatted))
	}
	return out
}

// ErrorOccurred reports whether an exception is pending.
func ErrorOccurred() bool { return cBool(C.pyb_error_occurred()) }

// ClearError discards the pending exception.
func ClearError() { C.pyb_error_clear() }

// SetError raises an exception of the given kind with msg.
func SetError(kind ExcKind, msg string) {
	cmsg := C.CString(msg)
	defer C.free(unsafe.Pointer(cmsg))
	C.pyb_error_set(C.int(kind), cmsg)
}
