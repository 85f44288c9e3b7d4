package sgf

import "strings"

// EstimateCapacity returns a cheap upper bound on the number of nodes in src,
// counting node-start markers in the raw text. Suitable as a Reserve argument;
// over-estimation only costs memory.
func EstimateCapacity(src string) int {
	return strings.Count(src, ";")
}

// PoolAllocator hands out nodes from a pre-sized arena, falling back to fresh
// allocation once the arena is exhausted. Pooling is a latency optimization,
// not a correctness requirement.
type PoolAllocator[P any] struct {
	arena []Node[P]
	next  int
}

// NewPoolAllocator returns an allocator pre-sized for capacity nodes.
func NewPoolAllocator[P any](capacity int) *PoolAllocator[P] {
	a := &PoolAllocator[P]{}
	a.Reserve(capacity)
	return a
}

// Reserve installs a fresh arena of capacity nodes. Nodes handed out earlier
// stay valid; Reserve may run concurrently with lexing but must complete
// before tree construction begins.
func (a *PoolAllocator[P]) Reserve(capacity int) {
	if capacity > 0 {
		a.arena = make([]Node[P], capacity)
		a.next = 0
	}
}

func (a *PoolAllocator[P]) Allocate() *Node[P] {
	if a.next < len(a.arena) {
		node := &a.arena[a.next]
		a.next++
		return node
	}
	return &Node[P]{}
}

// Pooled reports how many nodes were served from the arena.
func (a *PoolAllocator[P]) Pooled() int { return a.next }
