package cache

// node is an intrusive doubly linked list element owned by the cache.
// It stores the key/value alongside list links and the cost used for
// MaxCost accounting.
type node[K comparable, V any] struct {
	key K
	val V

	// Intrusive list links: head is MRU, tail is LRU.
	prev *node[K, V]
	next *node[K, V]

	// Logical "cost" used when MaxCost is enabled.
	cost int32
}

// Key returns the node key (part of policy.Node interface).
func (n *node[K, V]) Key() K { return n.key }

// Value returns a pointer to the stored value (part of policy.Node interface).
func (n *node[K, V]) Value() *V { return &n.val }
