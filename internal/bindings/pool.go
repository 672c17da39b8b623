//go:build cgo && !windows

package bindings

/*
#include "bridge.h"
*/
import "C"

import (
	"unsafe"
)

// PoolAlloc returns size bytes of scratch memory, 16-byte aligned. Earlier
// allocations stay valid until PoolReset. The pool is process-wide and must
// only be used while holding the GIL.
func PoolAlloc(size int) unsafe.Pointer { return C.pyb_pool_alloc(C.size_t(size)) }

// PoolReset makes all scratch memory reusable without returning it to the
// system.
func PoolReset() { C.pyb_pool_reset() }

// PoolFree returns all scratch memory to the system.
func PoolFree() { C.pyb_pool_free() }

// Pool reports the scratch pool usage.
func Pool() PoolStats {
	var capacity, used, blocks C.size_t
	C.pyb_pool_stats(&capacity, &used, &blocks)
	return PoolStats{Capacity: uint64(capacity), Used: uint64(used), Blocks: uint64(blocks)}
}
