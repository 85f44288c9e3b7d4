package solver

import (
	"errors"
	"strings"

	"tsumego/sgf"
)

// Status is the proof state of a node: unresolved, or a forced win for one
// color regardless of the opponent's replies.
type Status int

const (
	StatusUnresolved Status = iota
	StatusWinBlack
	StatusWinWhite
)

func (s Status) String() string {
	switch s {
	case StatusWinBlack:
		return "WIN_BLACK"
	case StatusWinWhite:
		return "WIN_WHITE"
	}
	return "UNRESOLVED"
}

// winFor maps a color to the status meaning that color has a forced win.
func winFor(c sgf.Color) Status {
	switch c {
	case sgf.ColorBlack:
		return StatusWinBlack
	case sgf.ColorWhite:
		return StatusWinWhite
	}
	return StatusUnresolved
}

// Stats is the per-node search state the solver stores inside each SGF node.
type Stats struct {
	Visits   int
	ScoreSum float64
	Status   Status
}

// Node is an SGF node carrying search statistics.
type Node = sgf.Node[Stats]

// NewAllocator returns an allocator producing search nodes, usable anywhere
// the sgf parser accepts one.
func NewAllocator() sgf.Allocator[Stats] {
	return sgf.AllocatorFunc[Stats](func() *Node { return &Node{} })
}

var ErrNoMove = errors.New("solver: node carries no move")

// MoveString renders the node's move as an oracle move token, e.g. "B[dd]".
func MoveString(n *Node) (string, error) {
	color := n.Color()
	if color == sgf.ColorNone {
		return "", ErrNoMove
	}
	values, _ := n.Values(color.String())
	if len(values) == 0 {
		return "", ErrNoMove
	}
	return color.String() + "[" + values[0] + "]", nil
}

// JobString builds the oracle job for a node by walking root to node and
// joining each move token, e.g. ";B[dd];W[cc]". Nodes without a move (the
// root) are skipped.
func JobString(n *Node) string {
	var moves []string
	for cur := n; cur != nil; cur = cur.Parent() {
		move, err := MoveString(cur)
		if err != nil {
			continue
		}
		moves = append(moves, move)
	}
	// Collected leaf-first; reverse into game order.
	for i, j := 0, len(moves)-1; i < j; i, j = i+1, j-1 {
		moves[i], moves[j] = moves[j], moves[i]
	}
	return ";" + strings.Join(moves, ";")
}

// colorToMove infers whose turn it is at n: the opponent of the color that
// played n's move. A root without a move borrows the color of its first
// child; with no children either, Black moves first.
func colorToMove(n *Node) sgf.Color {
	if c := n.Color(); c != sgf.ColorNone {
		return c.Opponent()
	}
	if child := n.FirstChild(); child != nil && child.Color() != sgf.ColorNone {
		return child.Color()
	}
	return sgf.ColorBlack
}
