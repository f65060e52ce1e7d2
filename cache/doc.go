// Package cache provides a generic, bounded, in-memory cache with recency
// ordering, a pluggable eviction policy (LRU by default) and a synchronous
// eviction hook.
//
// Design
//
//   - Storage: a map[K]*node for lookups and an intrusive MRU↔LRU doubly
//     linked list for ordering. Get, Put and eviction are O(1) expected.
//
//   - Policies: the policy package binds a recency strategy to the list.
//     LRU is the default; a 2Q policy (policy/twoq) resists one-off scans.
//
//   - Eviction hook: Options.Evictor.OnEvict(k, v, reason) runs for every
//     eviction, before the evicting call (Put, Resize, EvictOne) returns.
//     Owners use it to reclaim external resources held by values, such as
//     atlas slots.
//
//   - Clear is bulk teardown and does NOT call the Evictor. Owners that
//     need per-entry cleanup walk the entries with Range first.
//
//   - Cost/MaxCost: besides entry count (Capacity), a user-defined "cost"
//     per value (Options.Cost) can be bounded with MaxCost, e.g. bytes.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Evict/Size signals.
//     NoopMetrics is the default; metrics/prom exports them to Prometheus.
//
// Basic usage
//
//	c := cache.New[rune, []byte](cache.Options[rune, []byte]{
//	    Capacity: 256,
//	    Evictor: cache.EvictorFunc[rune, []byte](func(r rune, b []byte, _ cache.EvictReason) {
//	        release(b)
//	    }),
//	})
//	if _, ok := c.Get('a'); !ok {
//	    c.Put('a', render('a'))
//	}
//
// # Thread-safety
//
// A Cache is not safe for concurrent use. The owner serializes access,
// typically with a single mutex around the cache and whatever state the
// Evictor touches.
package cache
