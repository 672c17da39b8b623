package pybridge

import (
	"github.com/pybridge/pybridge-go/internal/bindings"
)

// CacheStats describes the conversion caches. The bridge keeps no caches,
// so every field is always zero; the type exists for callers that report
// cache metrics uniformly across backends.
type CacheStats struct {
	Hits   uint64
	Misses uint64
	Cached uint64
}

// CacheStats returns zero counters.
func (rt *Runtime) CacheStats() CacheStats { return CacheStats{} }

// ClearCaches does nothing.
func (rt *Runtime) ClearCaches() {}

// PoolStats describes the scratch pool used by string batches.
type PoolStats struct {
	Capacity uint64
	Used     uint64
	Blocks   uint64
}

// PoolStats reports the scratch pool usage.
func (rt *Runtime) PoolStats() (PoolStats, error) {
	var s bindings.PoolStats
	err := rt.do(func() { s = bindings.Pool() })
	return PoolStats(s), err
}
