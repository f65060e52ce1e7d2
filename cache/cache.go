package cache

import (
	"math"

	"github.com/IvanBrykalov/tileatlas/policy"
	"github.com/IvanBrykalov/tileatlas/policy/lru"
)

// cache is a bounded in-memory KV store with a pluggable eviction policy.
// It keeps a map[K]*node for lookups and an intrusive MRU↔LRU list for
// ordering (head=MRU, tail=LRU).
type cache[K comparable, V any] struct {
	m    map[K]*node[K, V]
	head *node[K, V] // MRU
	tail *node[K, V] // LRU
	len  int         // number of resident entries
	cost int64       // total cost (if MaxCost is enabled)
	cap  int         // entry capacity

	// factory is kept so Clear can rebuild policy-internal state.
	factory policy.Policy[K, V]
	pol     policy.ListPolicy[K, V]
	opt     Options[K, V]
}

// New constructs a cache with the provided Options.
// Defaults:
//   - nil Metrics  -> NoopMetrics
//   - nil Policy   -> LRU
func New[K comparable, V any](opt Options[K, V]) Cache[K, V] {
	if opt.Capacity <= 0 {
		panic("Capacity must be > 0")
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	if opt.Policy == nil {
		opt.Policy = lru.New[K, V]()
	}

	c := &cache[K, V]{
		m:       make(map[K]*node[K, V], opt.Capacity),
		cap:     opt.Capacity,
		factory: opt.Policy,
		opt:     opt,
	}
	c.pol = opt.Policy.New(listHooks[K, V]{c: c})
	return c
}

// ---- Cache[K,V] implementation ----

// Get returns the value and promotes the entry according to the policy.
func (c *cache[K, V]) Get(k K) (V, bool) {
	n, ok := c.m[k]
	if !ok {
		c.opt.Metrics.Miss()
		var zero V
		return zero, false
	}
	c.pol.OnGet(n)
	c.opt.Metrics.Hit()
	return n.val, true
}

// Peek returns the value without promotion and without touching metrics.
func (c *cache[K, V]) Peek(k K) (V, bool) {
	if n, ok := c.m[k]; ok {
		return n.val, true
	}
	var zero V
	return zero, false
}

// Put inserts a NEW entry (no update) as MRU via policy hooks.
func (c *cache[K, V]) Put(k K, v V) bool {
	if _, exists := c.m[k]; exists {
		return false
	}
	n := &node[K, V]{key: k, val: v, cost: c.costOf(v)}
	c.m[k] = n

	c.pol.OnAdd(n)
	c.enforceLimits()
	return true
}

// Remove deletes an entry by key. Returns true if the entry existed.
func (c *cache[K, V]) Remove(k K) bool {
	n, ok := c.m[k]
	if !ok {
		return false
	}
	c.pol.OnRemove(n)
	c.removeNode(n)
	delete(c.m, k)
	c.opt.Metrics.Size(c.len, c.cost)
	return true
}

// EvictOne evicts the policy's next victim.
func (c *cache[K, V]) EvictOne() (K, V, bool) {
	n := c.victim()
	if n == nil {
		var (
			zk K
			zv V
		)
		return zk, zv, false
	}
	c.evictNode(n, EvictForced)
	c.opt.Metrics.Size(c.len, c.cost)
	return n.key, n.val, true
}

// Resize sets a new capacity and evicts LRU entries that no longer fit.
func (c *cache[K, V]) Resize(n int) {
	if n <= 0 {
		panic("Capacity must be > 0")
	}
	c.cap = n
	c.enforceLimits()
}

// Clear drops all entries; the Evictor is intentionally not invoked.
func (c *cache[K, V]) Clear() {
	clear(c.m)
	c.head, c.tail = nil, nil
	c.len, c.cost = 0, 0
	c.pol = c.factory.New(listHooks[K, V]{c: c})
	c.opt.Metrics.Size(0, 0)
}

// Range walks entries MRU → LRU.
func (c *cache[K, V]) Range(fn func(k K, v V) bool) {
	for n := c.head; n != nil; n = n.next {
		if !fn(n.key, n.val) {
			return
		}
	}
}

// Len returns the number of resident entries.
func (c *cache[K, V]) Len() int { return c.len }

// Cap returns the entry capacity.
func (c *cache[K, V]) Cap() int { return c.cap }

// IsEmpty reports whether the cache holds no entries.
func (c *cache[K, V]) IsEmpty() bool { return c.len == 0 }

// ---- helpers ----

// costOf computes the per-entry cost (clamped to int32 range).
func (c *cache[K, V]) costOf(v V) int32 {
	if c.opt.Cost == nil {
		return 0
	}
	iv := c.opt.Cost(v)
	if iv < 0 {
		iv = 0
	}
	// clamp to int32 to avoid overflow
	if iv > math.MaxInt32 {
		iv = math.MaxInt32
	}
	return int32(iv)
}
