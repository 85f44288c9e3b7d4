package solver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTreeSelect(t *testing.T) {
	t.Run("preferring an unvisited child over any visited sibling", func(t *testing.T) {
		tree := loadTree(t, "(;B[dd](;W[aa])(;W[bb])(;W[cc]))")
		root := tree.Root()
		root.Payload.Visits = 7
		root.ChildAt(0).Payload = Stats{Visits: 5, ScoreSum: 5}
		root.ChildAt(2).Payload = Stats{Visits: 2, ScoreSum: 2}

		leaf := tree.Select()

		require.Equal(t, root.ChildAt(1), leaf, "The unvisited child should win over high-scoring visited siblings")
	})

	t.Run("taking the max UCT child once all are visited", func(t *testing.T) {
		tree := loadTree(t, "(;B[dd](;W[aa])(;W[bb]))")
		root := tree.Root()
		root.Payload.Visits = 4
		root.ChildAt(0).Payload = Stats{Visits: 2, ScoreSum: 1.0}
		root.ChildAt(1).Payload = Stats{Visits: 2, ScoreSum: 1.8}

		leaf := tree.Select()

		require.Equal(t, root.ChildAt(1), leaf)
	})

	t.Run("keeping the first child on a tie", func(t *testing.T) {
		tree := loadTree(t, "(;B[dd](;W[aa])(;W[bb]))")
		root := tree.Root()
		root.Payload.Visits = 4
		root.ChildAt(0).Payload = Stats{Visits: 2, ScoreSum: 1.0}
		root.ChildAt(1).Payload = Stats{Visits: 2, ScoreSum: 1.0}

		leaf := tree.Select()

		require.Equal(t, root.ChildAt(0), leaf, "Equal UCT values should keep the earlier child")
	})

	t.Run("descending through a resolved intermediate node", func(t *testing.T) {
		tree := loadTree(t, "(;B[dd];W[cc];B[ee])")
		root := tree.Root()
		root.Payload.Visits = 2
		middle := root.FirstChild()
		middle.Payload = Stats{Visits: 1, Status: StatusWinBlack}

		leaf := tree.Select()

		require.Equal(t, middle.FirstChild(), leaf, "Selection should only terminate at a childless leaf")
	})

	t.Run("returning a childless root immediately", func(t *testing.T) {
		tree := loadTree(t, "(;B[dd])")

		require.Equal(t, tree.Root(), tree.Select())
	})
}

func TestTreeExpand(t *testing.T) {
	t.Run("recording an oracle-asserted resolution", func(t *testing.T) {
		tree := loadTree(t, "(;B[dd])")

		tree.Expand(tree.Root(), &Result{State: StatusWinWhite})

		require.Equal(t, StatusWinWhite, tree.Root().Payload.Status)
	})

	t.Run("adopting every candidate with zeroed statistics", func(t *testing.T) {
		tree := loadTree(t, "(;B[dd])")
		first := &Node{}
		first.AddProperty("W", []string{"aa"})
		first.Payload = Stats{Visits: 9, ScoreSum: 3}
		second := &Node{}
		second.AddProperty("W", []string{"bb"})
		holder := &Node{}
		holder.AddChild(first)
		holder.AddChild(second)

		tree.Expand(tree.Root(), &Result{Moves: holder.FirstChild()})

		root := tree.Root()
		require.Equal(t, 2, root.NumChildren(), "Both candidates should become children")
		require.Equal(t, root, root.ChildAt(0).Parent(), "Ownership should transfer to the expanded node")
		require.Equal(t, Stats{}, root.ChildAt(0).Payload, "Adopted children should start with fresh statistics")
		require.Equal(t, Stats{}, root.ChildAt(1).Payload)
		require.Equal(t, 3, tree.Size(), "Tree size should grow by the adopted nodes")
	})

	t.Run("leaving the node alone on an empty result", func(t *testing.T) {
		tree := loadTree(t, "(;B[dd])")

		tree.Expand(tree.Root(), &Result{Score: 0.3})

		require.Equal(t, StatusUnresolved, tree.Root().Payload.Status)
		require.Equal(t, 0, tree.Root().NumChildren())
	})
}

func TestTreeBackpropagate(t *testing.T) {
	t.Run("updating exactly the node and its ancestors once each", func(t *testing.T) {
		tree := loadTree(t, "(;B[dd];W[cc](;B[ee])(;B[dc]))")
		root := tree.Root()
		middle := root.FirstChild()
		leaf := middle.ChildAt(0)
		bystander := middle.ChildAt(1)

		tree.Backpropagate(leaf, 0.5)

		require.Equal(t, 1, leaf.Payload.Visits)
		require.Equal(t, 1, middle.Payload.Visits)
		require.Equal(t, 1, root.Payload.Visits)
		require.Equal(t, 0, bystander.Payload.Visits, "Nodes off the path should be untouched")
	})

	t.Run("negating the score once per ply", func(t *testing.T) {
		tree := loadTree(t, "(;B[dd];W[cc];B[ee])")
		root := tree.Root()
		middle := root.FirstChild()
		leaf := middle.FirstChild()

		tree.Backpropagate(leaf, 1.0)

		require.Equal(t, 1.0, leaf.Payload.ScoreSum)
		require.Equal(t, -1.0, middle.Payload.ScoreSum)
		require.Equal(t, 1.0, root.Payload.ScoreSum)
	})

	t.Run("rippling a proof from a resolved leaf to the root", func(t *testing.T) {
		tree := loadTree(t, "(;B[dd];W[cc];B[ee])")
		root := tree.Root()
		middle := root.FirstChild()
		leaf := middle.FirstChild()
		leaf.Payload.Status = StatusWinBlack

		tree.Backpropagate(leaf, 1.0)

		// Black to move at middle picks the winning child (OR); White to move
		// at the root has only losing replies (AND).
		require.Equal(t, StatusWinBlack, middle.Payload.Status)
		require.Equal(t, StatusWinBlack, root.Payload.Status)
	})

	t.Run("leaving an OR node unresolved while a reply remains open", func(t *testing.T) {
		tree := loadTree(t, "(;B[dd](;W[aa])(;W[bb]))")
		root := tree.Root()
		lost := root.ChildAt(0)
		lost.Payload.Status = StatusWinBlack

		tree.Backpropagate(lost, 1.0)

		require.Equal(t, StatusUnresolved, root.Payload.Status,
			"White still has an untried reply, so the root cannot be proven")
	})

	t.Run("proving an OR node once the mover finds a win", func(t *testing.T) {
		tree := loadTree(t, "(;B[dd](;W[aa])(;W[bb]))")
		root := tree.Root()
		winning := root.ChildAt(1)
		winning.Payload.Status = StatusWinWhite

		tree.Backpropagate(winning, -1.0)

		require.Equal(t, StatusWinWhite, root.Payload.Status,
			"White to move picks the proven winning reply")
	})

	t.Run("keeping an oracle-asserted status on a childless node", func(t *testing.T) {
		tree := loadTree(t, "(;B[dd])")
		tree.Root().Payload.Status = StatusWinWhite

		tree.Backpropagate(tree.Root(), -1.0)

		require.Equal(t, StatusWinWhite, tree.Root().Payload.Status)
	})
}

func TestTreeVirtualLoss(t *testing.T) {
	t.Run("applying and reverting a provisional visit", func(t *testing.T) {
		tree := loadTree(t, "(;B[dd])")
		root := tree.Root()

		tree.ApplyVirtualLoss(root)
		require.Equal(t, 1, root.Payload.Visits)

		tree.RemoveVirtualLoss(root)
		require.Equal(t, 0, root.Payload.Visits)
	})
}
