package cache

import "github.com/IvanBrykalov/tileatlas/policy"

// insertFront inserts n at MRU in O(1).
func (c *cache[K, V]) insertFront(n *node[K, V]) {
	n.prev = nil
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
	c.len++
	c.cost += int64(n.cost)
}

// moveToFront promotes n to MRU in O(1).
func (c *cache[K, V]) moveToFront(n *node[K, V]) {
	if n == c.head {
		return
	}
	// detach
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if c.tail == n {
		c.tail = n.prev
	}
	// insert at head
	n.prev = nil
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
}

// removeNode removes n from the list and updates counters in O(1).
func (c *cache[K, V]) removeNode(n *node[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if c.head == n {
		c.head = n.next
	}
	if c.tail == n {
		c.tail = n.prev
	}
	n.prev, n.next = nil, nil
	c.len--
	c.cost -= int64(n.cost)
	if c.cost < 0 {
		c.cost = 0
	}
}

// victim asks the policy which node goes next; nil on an empty cache.
func (c *cache[K, V]) victim() *node[K, V] {
	v := c.pol.Victim()
	if v == nil {
		return nil
	}
	return v.(*node[K, V])
}

// evictNode removes the node, updates metrics, and calls the Evictor.
// The node is fully unlinked before the callback runs, so Len() already
// reflects the removal inside OnEvict.
func (c *cache[K, V]) evictNode(n *node[K, V], reason EvictReason) {
	c.pol.OnRemove(n)
	c.removeNode(n)
	delete(c.m, n.key)
	c.opt.Metrics.Evict(reason)
	if ev := c.opt.Evictor; ev != nil {
		ev.OnEvict(n.key, n.val, reason)
	}
}

// enforceLimits evicts LRU items until both count and cost limits are satisfied.
func (c *cache[K, V]) enforceLimits() {
	for c.len > c.cap {
		n := c.victim()
		if n == nil {
			break
		}
		c.evictNode(n, EvictCapacity)
	}
	if c.opt.MaxCost > 0 {
		// A single oversized value still gets cached.
		for c.cost > c.opt.MaxCost && c.len > 1 {
			n := c.victim()
			if n == nil {
				break
			}
			c.evictNode(n, EvictCost)
		}
	}
	c.opt.Metrics.Size(c.len, c.cost)
}

// -------------------- policy hooks --------------------

// listHooks adapts the cache's list operations to policy.Hooks.
type listHooks[K comparable, V any] struct{ c *cache[K, V] }

func (h listHooks[K, V]) MoveToFront(x policy.Node[K, V]) { h.c.moveToFront(x.(*node[K, V])) }
func (h listHooks[K, V]) PushFront(x policy.Node[K, V])   { h.c.insertFront(x.(*node[K, V])) }
func (h listHooks[K, V]) Remove(x policy.Node[K, V]) {
	// Map bookkeeping is performed by the cache itself.
	h.c.removeNode(x.(*node[K, V]))
}
func (h listHooks[K, V]) Back() policy.Node[K, V] {
	// Avoid returning a typed-nil inside a non-nil interface.
	if h.c.tail == nil {
		return nil
	}
	return h.c.tail
}
func (h listHooks[K, V]) Len() int { return h.c.len }
