// Package policy defines the contract between the cache's intrusive
// recency list and pluggable eviction policies.
package policy

// Node is the minimal contract a cache entry must satisfy for a policy.
// It provides read-only access to the key and a pointer to the value.
type Node[K comparable, V any] interface {
	Key() K
	Value() *V
}

// Hooks expose O(1) list operations that a policy can use to manipulate
// the cache's intrusive MRU/LRU list. Implementations are provided by the cache.
//
// Important: hooks manage only the list; the cache owns the key->node map.
type Hooks[K comparable, V any] interface {
	// MoveToFront promotes the node to MRU.
	MoveToFront(Node[K, V])
	// PushFront inserts the node at MRU (used on admission).
	PushFront(Node[K, V])
	// Remove detaches the node from the list (map bookkeeping is done by the cache).
	Remove(Node[K, V])
	// Back returns the current LRU node (or nil if empty).
	Back() Node[K, V]
	// Len returns the number of resident nodes.
	Len() int
}

// ListPolicy is a policy instance bound to one cache's list hooks.
//
// Semantics:
//   - OnAdd admits a new node into the list (usually at MRU).
//   - OnGet typically promotes the node (e.g., move to MRU).
//   - Victim names the node the cache should evict next when it is over
//     its limits. It never evicts by itself; nil means "nothing to evict".
//   - OnRemove is a notification to update policy-internal state
//     (e.g., maintain ghost queues). The cache performs actual deletion.
type ListPolicy[K comparable, V any] interface {
	OnAdd(Node[K, V])
	OnGet(Node[K, V])
	Victim() Node[K, V]
	OnRemove(Node[K, V])
}

// Policy is a factory that creates policy instances bound to a
// particular cache's hooks. A cache calls New again when it is cleared.
type Policy[K comparable, V any] interface {
	New(Hooks[K, V]) ListPolicy[K, V]
}
