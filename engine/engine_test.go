package engine

import (
	"testing"

	"tsumego/solver"

	"github.com/stretchr/testify/require"
)

func TestParseOutput(t *testing.T) {
	t.Run("parsing a certain black win", func(t *testing.T) {
		result, err := ParseOutput("B:w ;B[jj];W[ih];C[B:w];C[White is dead]")

		require.NoError(t, err)
		require.Equal(t, 1.0, result.Score)
		require.Equal(t, solver.StatusWinBlack, result.State)
		require.Equal(t, []string{"B:w", "White is dead"}, result.Comments)
		require.Equal(t, "B:w ;B[jj];W[ih];C[B:w];C[White is dead]", result.Raw)

		first := result.Moves
		require.NotNil(t, first, "The 12-byte fragment should reparse as a tiny tree")
		move, err := solver.MoveString(first)
		require.NoError(t, err)
		require.Equal(t, "B[jj]", move)
		require.Equal(t, 1, first.NumChildren())
		reply, err := solver.MoveString(first.FirstChild())
		require.NoError(t, err)
		require.Equal(t, "W[ih]", reply)
	})

	t.Run("parsing an intermediate grade as unresolved", func(t *testing.T) {
		result, err := ParseOutput("a-b:B2 ;B[cd];W[dc];C[a-b:B2]")

		require.NoError(t, err)
		require.Equal(t, 0.5, result.Score)
		require.Equal(t, solver.StatusUnresolved, result.State,
			"Only certain grades resolve the node's state")
	})

	t.Run("trimming trailing whitespace on the last comment", func(t *testing.T) {
		result, err := ParseOutput("W:w ;W[aa];B[bb];C[W:w];C[Black is captured]\n")

		require.NoError(t, err)
		require.Equal(t, -1.0, result.Score)
		require.Equal(t, solver.StatusWinWhite, result.State)
		require.Equal(t, []string{"W:w", "Black is captured"}, result.Comments)
	})

	t.Run("rejecting an unknown result token", func(t *testing.T) {
		_, err := ParseOutput("X:y ;B[jj];W[ih];C[X:y]")

		var protoErr *ProtocolError
		require.ErrorAs(t, err, &protoErr)
		require.Contains(t, protoErr.Reason, "unknown result token")
	})

	t.Run("rejecting output without a result separator", func(t *testing.T) {
		_, err := ParseOutput("garbage")

		var protoErr *ProtocolError
		require.ErrorAs(t, err, &protoErr)
		require.Contains(t, protoErr.Reason, "missing result token")
	})

	t.Run("rejecting a truncated move fragment", func(t *testing.T) {
		_, err := ParseOutput("B:w ;B[jj]")

		var protoErr *ProtocolError
		require.ErrorAs(t, err, &protoErr)
		require.Contains(t, protoErr.Reason, "truncated")
	})

	t.Run("rejecting an unparsable move fragment", func(t *testing.T) {
		_, err := ParseOutput("B:w abcdefghijkl;C[B:w]")

		var protoErr *ProtocolError
		require.ErrorAs(t, err, &protoErr)
		require.Contains(t, protoErr.Reason, "malformed move fragment")
	})
}

func TestScoreForResult(t *testing.T) {
	t.Run("mapping the fixed vocabulary", func(t *testing.T) {
		for token, want := range map[string]float64{
			"B:w":          1,
			"B:a_w":        0.9,
			"a-b:B1":       0.3,
			"a-b:stable":   0,
			"a-b:unstable": 0,
			"a-b:w3":       -0.7,
			"W:w":          -1,
		} {
			score, err := ScoreForResult(token)
			require.NoError(t, err)
			require.Equal(t, want, score, "Token %q should map to %v", token, want)
		}
	})

	t.Run("failing outside the vocabulary", func(t *testing.T) {
		_, err := ScoreForResult("B:maybe")

		var protoErr *ProtocolError
		require.ErrorAs(t, err, &protoErr)
	})
}
