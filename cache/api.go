package cache

// Cache is a bounded key/value cache with recency ordering and an
// eviction hook.
//
// A Cache is NOT safe for concurrent use. It is meant to live inside a single
// owner (for example an atlas) that serializes access with its own lock.
//
// Typical complexity for operations is O(1): a map lookup plus constant-time
// list adjustments.
type Cache[K comparable, V any] interface {
	// Get returns the value for k and a boolean flag indicating presence.
	// On hit, the entry is promoted according to the policy.
	// Get never allocates and never evicts.
	Get(k K) (V, bool)

	// Peek returns the value for k without touching recency.
	Peek(k K) (V, bool)

	// Put inserts k→v as the most-recently-used entry.
	// Returns false if k is already present (no update is performed);
	// callers check with Get first.
	// If the insert pushes the cache over its limits, least-recently-used
	// entries are evicted and the Evictor runs before Put returns.
	Put(k K, v V) bool

	// Remove deletes k if present and returns true on success.
	// Explicit removal is not an eviction: the Evictor is not called.
	Remove(k K) bool

	// EvictOne evicts the entry the policy would evict next (the
	// least-recently-used one under LRU) through the regular eviction path:
	// the Evictor runs before EvictOne returns. ok is false on an empty cache.
	EvictOne() (k K, v V, ok bool)

	// Resize changes the capacity. When shrinking, least-recently-used
	// entries are evicted (the Evictor runs for each) until Len() <= n.
	// Panics if n <= 0.
	Resize(n int)

	// Clear drops every entry WITHOUT calling the Evictor.
	//
	// This is deliberately asymmetric with Resize and regular eviction:
	// Clear means the owner is tearing down. Owners that hold external
	// resources in values must release them first (see Range).
	Clear()

	// Range calls fn for each entry from most- to least-recently-used
	// without promoting anything. Iteration stops when fn returns false.
	// fn must not mutate the cache.
	Range(fn func(k K, v V) bool)

	// Len returns the number of resident entries.
	Len() int

	// Cap returns the entry capacity.
	Cap() int

	// IsEmpty reports whether Len() == 0.
	IsEmpty() bool
}
