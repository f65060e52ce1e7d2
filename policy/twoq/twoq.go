// Package twoq implements a simplified 2Q eviction policy.
//
// 2Q keeps first-time entries in a probation queue (A1in) and only promotes
// them to the main queue (Am) when they are hit again. In an atlas this keeps
// a burst of one-off glyphs from flushing the hot working set.
package twoq

import (
	"container/list"

	"github.com/IvanBrykalov/tileatlas/policy"
)

// twoQ implements the 2Q eviction policy.
//
// Resident queues:
//   - A1in (probation): its own list + index by Node; admits first-time entries
//   - Am   (main):      nodes not present in inIdx; ordering is driven by cache hooks
//
// Ghost A1out: keys only (no values), tracks recently evicted A1in keys to give them
// a second chance (bypass A1in on re-admission).
type twoQ[K comparable, V any] struct {
	h policy.Hooks[K, V]

	capIn    int // A1in target size
	capGhost int // A1out (ghost) capacity

	// A1in: MRU at Front() -> LRU at Back()
	inList *list.List
	inIdx  map[policy.Node[K, V]]*list.Element // element.Value is policy.Node[K,V]

	// A1out (ghosts): keys only, MRU at Front() -> LRU at Back()
	ghostList *list.List
	ghostIdx  map[K]*list.Element // element.Value is K
}

// New constructs a 2Q policy factory.
// Common choices: capIn ≈ 25% of the cache capacity; capGhost ≈ 50–100% of it.
func New[K comparable, V any](capIn, capGhost int) policy.Policy[K, V] {
	if capIn < 1 {
		capIn = 1
	}
	if capGhost < 1 {
		capGhost = 1
	}
	return twoQPolicy[K, V]{capIn: capIn, capGhost: capGhost}
}

type twoQPolicy[K comparable, V any] struct {
	capIn    int
	capGhost int
}

func (p twoQPolicy[K, V]) New(h policy.Hooks[K, V]) policy.ListPolicy[K, V] {
	return &twoQ[K, V]{
		h:         h,
		capIn:     p.capIn,
		capGhost:  p.capGhost,
		inList:    list.New(),
		inIdx:     make(map[policy.Node[K, V]]*list.Element),
		ghostList: list.New(),
		ghostIdx:  make(map[K]*list.Element),
	}
}

// OnAdd admission rules:
//   - A key remembered in the ghosts (A1out) bypasses A1in and goes straight
//     to Am (MRU); the ghost entry is dropped.
//   - Otherwise the node enters A1in (and MRU of the cache list).
func (q *twoQ[K, V]) OnAdd(n policy.Node[K, V]) {
	k := n.Key()
	q.h.PushFront(n)
	if ge, ok := q.ghostIdx[k]; ok {
		q.ghostList.Remove(ge)
		delete(q.ghostIdx, k)
		return
	}
	q.inIdx[n] = q.inList.PushFront(n)
}

// OnGet: a hit on an A1in node promotes it to Am; every hit moves the node
// to MRU in the cache list.
func (q *twoQ[K, V]) OnGet(n policy.Node[K, V]) {
	if el, ok := q.inIdx[n]; ok {
		q.inList.Remove(el)
		delete(q.inIdx, n)
	}
	q.h.MoveToFront(n)
}

// Victim prefers the oldest probation entry while A1in is over its target
// size; otherwise the cache list tail goes.
func (q *twoQ[K, V]) Victim() policy.Node[K, V] {
	if q.inList.Len() > q.capIn {
		return q.inList.Back().Value.(policy.Node[K, V])
	}
	return q.h.Back()
}

// OnRemove:
//   - If the node was in A1in, add its key to ghosts (A1out), respecting capGhost.
//   - Removals from Am do NOT populate ghosts.
func (q *twoQ[K, V]) OnRemove(n policy.Node[K, V]) {
	el, ok := q.inIdx[n]
	if !ok {
		return
	}
	q.inList.Remove(el)
	delete(q.inIdx, n)

	k := n.Key()
	if old := q.ghostIdx[k]; old != nil {
		q.ghostList.Remove(old)
	}
	q.ghostIdx[k] = q.ghostList.PushFront(k)

	for q.ghostList.Len() > q.capGhost {
		tail := q.ghostList.Back()
		delete(q.ghostIdx, tail.Value.(K))
		q.ghostList.Remove(tail)
	}
}
