// Package engine talks to the external tsumego oracle: it builds move-sequence
// jobs, invokes the oracle executable and parses its textual output into
// evaluation results for the solver.
package engine

import (
	"strings"

	"tsumego/sgf"
	"tsumego/solver"
)

// moveFragmentLen is the fixed width of the move fragment following the
// result token in oracle output.
const moveFragmentLen = 12

// resultScores maps the oracle's qualitative result tokens to scores in
// [-1,1] in Black's absolute frame. ±1 are certain outcomes; the rest are
// fixed heuristic grades.
var resultScores = map[string]float64{
	"B:w":          1,
	"B:a_w":        0.9,
	"a-b:B3":       0.7,
	"a-b:B2":       0.5,
	"a-b:B1":       0.3,
	"a-b:stable":   0,
	"a-b:unstable": 0,
	"a-b:w1":       -0.3,
	"a-b:w2":       -0.5,
	"a-b:w3":       -0.7,
	"W:a_w":        -0.9,
	"W:w":          -1,
}

// ScoreForResult resolves a result token against the fixed vocabulary.
func ScoreForResult(token string) (float64, error) {
	score, ok := resultScores[token]
	if !ok {
		return 0, &ProtocolError{Reason: "unknown result token " + token}
	}
	return score, nil
}

// ParseOutput parses one oracle reply: the result token up to the first
// space, then exactly moveFragmentLen bytes of suggested moves reparsed as a
// tiny SGF tree, then `];C[`-separated comment fields. The first comment is
// the result grade looked up in the vocabulary; a certain grade (±1) also
// resolves the evaluated node's state.
func ParseOutput(output string) (*solver.Result, error) {
	space := strings.IndexByte(output, ' ')
	if space < 0 {
		return nil, &ProtocolError{Reason: "missing result token separator", Output: output}
	}
	remainder := output[space+1:]
	if len(remainder) < moveFragmentLen {
		return nil, &ProtocolError{Reason: "truncated move fragment", Output: output}
	}

	fragment := remainder[:moveFragmentLen]
	moves, err := sgf.NewParser[solver.Stats](nil).Parse("(" + fragment + ")")
	if err != nil {
		return nil, &ProtocolError{Reason: "malformed move fragment " + fragment, Output: output}
	}

	comments := strings.Split(remainder[moveFragmentLen:], "];C[")
	if len(comments[0]) >= 3 {
		comments[0] = comments[0][3:] // drop the leading ";C[" run-in
	} else {
		comments[0] = ""
	}
	last := strings.TrimSpace(comments[len(comments)-1])
	if len(last) > 0 {
		last = last[:len(last)-1] // drop the closing bracket
	}
	comments[len(comments)-1] = last

	score, err := ScoreForResult(comments[0])
	if err != nil {
		return nil, err
	}

	state := solver.StatusUnresolved
	switch score {
	case 1:
		state = solver.StatusWinBlack
	case -1:
		state = solver.StatusWinWhite
	}

	return &solver.Result{
		Moves:    moves,
		Score:    score,
		State:    state,
		Comments: comments,
		Raw:      output,
	}, nil
}
