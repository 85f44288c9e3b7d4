package solver

import (
	"fmt"
	"sync"

	"tsumego/sgf"
)

// Tree wraps a parsed SGF tree with search statistics and exposes the
// selection, expansion and backpropagation primitives. All mutation is
// serialized through one tree-level mutex; the oracle call between Select and
// Expand runs outside the lock.
type Tree struct {
	mu   sync.Mutex
	root *Node
	size int
}

func NewTree() *Tree {
	return &Tree{}
}

// Load parses src into the search tree, presizing a node pool from a cheap
// node-count estimate of the raw text.
func (t *Tree) Load(src string) error {
	alloc := sgf.NewPoolAllocator[Stats](sgf.EstimateCapacity(src))
	root, err := sgf.NewParser[Stats](alloc).Parse(src)
	if err != nil {
		return fmt.Errorf("load tree: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.root = root
	t.size = countNodes(root)
	return nil
}

func (t *Tree) Root() *Node {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.root
}

// RootStatus returns the proof status of the root, or StatusUnresolved when
// no tree is loaded.
func (t *Tree) RootStatus() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.root == nil {
		return StatusUnresolved
	}
	return t.root.Payload.Status
}

// NodeStatus reads a node's proof status under the tree lock.
func (t *Tree) NodeStatus(node *Node) Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return node.Payload.Status
}

// Size is the number of nodes currently in the tree.
func (t *Tree) Size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.size
}

// Select descends from the root to a childless leaf, at each step taking the
// child with the best UCT value. An unvisited child counts as infinitely
// good, so every child is sampled once before exploitation; ties keep the
// first child in child order. Resolved intermediate nodes are not skipped —
// their UCT value discourages them over time.
func (t *Tree) Select() *Node {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.root == nil {
		return nil
	}

	node := t.root
	for node.NumChildren() > 0 {
		node = bestChild(node)
	}
	return node
}

func bestChild(node *Node) *Node {
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		if child.Payload.Visits == 0 {
			return child
		}
	}

	policy := newUCT(CSquared, float64(node.Payload.Visits))
	var best *Node
	bestValue := 0.0
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		value := policy.evaluate(child.Payload.ScoreSum, float64(child.Payload.Visits))
		if best == nil || value > bestValue {
			best = child
			bestValue = value
		}
	}
	return best
}

// Expand applies an oracle result to node: a resolved oracle state is
// recorded as the node's status, and every node in the result's candidate
// chain is adopted as a new child with zeroed statistics. Expanding the same
// node twice with overlapping candidates is the caller's responsibility to
// avoid (see the solver's ignore lists).
func (t *Tree) Expand(node *Node, result *Result) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if result.State != StatusUnresolved {
		node.Payload.Status = result.State
	}

	var candidates []*Node
	for move := result.Moves; move != nil; move = move.NextSibling() {
		candidates = append(candidates, move)
	}
	for _, move := range candidates {
		move.Payload = Stats{}
		node.AddChild(move)
		t.size += countNodes(move)
	}
}

// Backpropagate walks from node to the root: every node on the path gets one
// more visit and the running score added to its score sum, with the score
// negated once per ply (the oracle scores the leaf in Black's absolute
// frame). After updating statistics each node's proof status is recomputed,
// so a newly resolved leaf can ripple a proof to the root.
func (t *Tree) Backpropagate(node *Node, score float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for current := node; current != nil; current = current.Parent() {
		current.Payload.Visits++
		current.Payload.ScoreSum += score
		updateStatus(current)
		score = -score
	}
}

// updateStatus applies the AND-OR proof rule. With P to move at the node: if
// any child is a proven win for P the node is a win for P (P picks that
// child); if every child is a proven win for the opponent the node is lost
// for P. Otherwise the status is left as is.
func updateStatus(node *Node) {
	if node.NumChildren() == 0 {
		return
	}

	mover := colorToMove(node)
	win := winFor(mover)
	loss := winFor(mover.Opponent())

	allLost := true
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		if child.Payload.Status == win {
			node.Payload.Status = win
			return
		}
		if child.Payload.Status != loss {
			allLost = false
		}
	}
	if allLost {
		node.Payload.Status = loss
	}
}

// ApplyVirtualLoss provisionally counts a visit on a node chosen for
// evaluation, discouraging concurrent simulations from piling onto the same
// leaf while the oracle call is in flight.
func (t *Tree) ApplyVirtualLoss(node *Node) {
	t.mu.Lock()
	defer t.mu.Unlock()
	node.Payload.Visits++
}

// RemoveVirtualLoss undoes ApplyVirtualLoss before the real backpropagation.
func (t *Tree) RemoveVirtualLoss(node *Node) {
	t.mu.Lock()
	defer t.mu.Unlock()
	node.Payload.Visits--
}

func countNodes(node *Node) int {
	count := 1
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		count += countNodes(child)
	}
	return count
}
