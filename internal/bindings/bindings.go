//go:build cgo && !windows

package bindings

/*
#cgo pkg-config: python3-embed
#cgo CFLAGS: -Wno-deprecated-declarations
#include <stdlib.h>
#include "bridge.h"
*/
import "C"

import (
	"fmt"
	"sync"
	"unsafe"
)

type handle uintptr

var (
	mu   sync.Mutex
	next handle = 1
	reg         = map[handle]any{}

	// hostCtx is the registry handle installed into the C callback pair by
	// Initialize. Zero means no host is registered.
	hostCtx handle
)

func put(v any) handle {
	mu.Lock()
	h := next
	next++
	reg[h] = v
	mu.Unlock()
	return h
}

func get(h handle) (any, bool) {
	mu.Lock()
	v, ok := reg[h]
	mu.Unlock()
	return v, ok
}

func del(h handle) {
	mu.Lock()
	delete(reg, h)
	mu.Unlock()
}

// Initialize starts the embedded interpreter and installs host as the target
// of every HostObject call and attribute lookup. When the interpreter is
// already running (started by an earlier Initialize or by a foreign embedder)
// the pybridge module is registered and the call succeeds without
// re-initializing anything.
//
// The calling OS thread becomes the interpreter's main thread; Finalize must
// run on the same thread. On return the GIL is released.
//
// On failure no host stays registered.
func Initialize(cfg Config, host Host) error {
	if host == nil {
		return ErrNoHost
	}

	ccfg := C.pyb_config{
		isolated:                boolToInt(cfg.Isolated),
		use_environment:         boolToInt(cfg.UseEnvironment),
		install_signal_handlers: boolToInt(cfg.InstallSignalHandlers),
	}
	if cfg.ProgramName != "" {
		s := C.CString(cfg.ProgramName)
		defer C.free(unsafe.Pointer(s))
		ccfg.program_name = s
	}
	if cfg.Home != "" {
		s := C.CString(cfg.Home)
		defer C.free(unsafe.Pointer(s))
		ccfg.home = s
	}
	if n := len(cfg.SearchPaths); n > 0 {
		paths := (**C.char)(C.malloc(C.size_t(n) * C.size_t(unsafe.Sizeof((*C.char)(nil)))))
		defer C.free(unsafe.Pointer(paths))
		dst := unsafe.Slice(paths, n)
		for i, p := range cfg.SearchPaths {
			dst[i] = C.CString(p)
			defer C.free(unsafe.Pointer(dst[i]))
		}
		ccfg.search_paths = paths
		ccfg.search_path_count = C.int32_t(n)
	}

	h := put(host)
	if rc := C.pyb_init(C.pyb_host_callbacks(C.uintptr_t(h)), &ccfg); rc != 0 {
		del(h)
		return fmt.Errorf("%w: %s", ErrInitFailed, C.GoString(C.pyb_init_error()))
	}

	mu.Lock()
	prev := hostCtx
	hostCtx = h
	mu.Unlock()
	if prev != 0 {
		del(prev)
	}
	return nil
}

// Finalize clears the registered host and, if Initialize started the
// interpreter, shuts it down.
func Finalize() error {
	rc := C.pyb_finalize()

	mu.Lock()
	h := hostCtx
	hostCtx = 0
	mu.Unlock()
	if h != 0 {
		del(h)
	}

	if rc != 0 {
		return ErrFinalizeFailed
	}
	return nil
}

// IsInitialized reports whether the interpreter is running.
func IsInitialized() bool {
	return C.pyb_is_initialized() != 0
}

// Version returns the embedded interpreter's version string.
func Version() string {
	return C.GoString(C.pyb_version())
}

// GILHeld reports whether the calling OS thread holds the GIL.
func GILHeld() bool {
	return C.pyb_gil_check() != 0
}

// EnsureGIL acquires the GIL for the calling OS thread. The caller must be
// locked to its thread and must pass the result to ReleaseGIL on that same
// thread.
func EnsureGIL() GILState {
	return GILState(C.pyb_gil_ensure())
}

// ReleaseGIL undoes the matching EnsureGIL.
func ReleaseGIL(st GILState) {
	C.pyb_gil_release(C.int(st))
}

func boolToInt(b bool) C.int {
	if b {
		return 1
	}
	return 0
}

func cBool(v C.int) bool { return v != 0 }

func ptr(h Handle) *C.PyObject { return (*C.PyObject)(h) }

func handleOf(p *C.PyObject) Handle { return Handle(unsafe.Pointer(p)) }
