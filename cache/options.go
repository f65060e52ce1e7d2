package cache

import (
	"github.com/IvanBrykalov/tileatlas/policy"
)

// EvictReason explains why an entry was removed.
type EvictReason int

const (
	// EvictCapacity: removed to satisfy the entry count limit (Put or Resize).
	EvictCapacity EvictReason = iota
	// EvictCost: removed to satisfy the MaxCost limit.
	EvictCost
	// EvictForced: removed on request through EvictOne.
	EvictForced
)

// String returns a stable lower-case name, used as a metrics label.
func (r EvictReason) String() string {
	switch r {
	case EvictCost:
		return "cost"
	case EvictForced:
		return "forced"
	default:
		return "capacity"
	}
}

// Evictor receives every evicted entry. It is called synchronously, before
// the evicting operation returns, so implementations can reclaim external
// resources referenced by v.
type Evictor[K comparable, V any] interface {
	OnEvict(k K, v V, reason EvictReason)
}

// EvictorFunc adapts an ordinary function to the Evictor interface.
type EvictorFunc[K comparable, V any] func(k K, v V, reason EvictReason)

// OnEvict calls f(k, v, reason).
func (f EvictorFunc[K, V]) OnEvict(k K, v V, reason EvictReason) { f(k, v, reason) }

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	Hit()
	Miss()
	Evict(reason EvictReason)
	Size(entries int, cost int64)
}

// Options configures the cache behavior. Zero values are safe;
// sane defaults are applied in New():
//   - nil Policy   => LRU
//   - nil Metrics  => NoopMetrics
//   - nil Evictor  => evictions are silent
type Options[K comparable, V any] struct {
	// Capacity is the entry count limit (used together with MaxCost if set).
	Capacity int

	// Policy is a pluggable eviction policy (LRU/2Q); nil => LRU by default.
	Policy policy.Policy[K, V]

	// Cost-based limiting (e.g., bytes). If Cost is non-nil and MaxCost > 0,
	// the cache evicts until both entry count and total cost limits are satisfied.
	Cost    func(v V) int // nil = all entries have equal cost (0)
	MaxCost int64         // total cost limit; 0 disables cost limiting

	// Evictor is called for every eviction; keep it lightweight.
	Evictor Evictor[K, V]

	Metrics Metrics
}
