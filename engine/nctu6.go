package engine

import (
	"context"
	"os/exec"
	"path/filepath"
	"strings"

	"tsumego/solver"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type NCTU6Option func(engine *NCTU6)

// WithWorkDir overrides the working directory the oracle process runs in.
// The oracle reads auxiliary files relative to it, so it defaults to the
// executable's own directory.
func WithWorkDir(dir string) NCTU6Option {
	return func(e *NCTU6) {
		if dir != "" {
			e.workDir = dir
		}
	}
}

// NCTU6 invokes the NCTU6 tsumego oracle executable, one process per
// evaluation. It is safe for concurrent use.
type NCTU6 struct {
	path    string
	workDir string
}

func NewNCTU6(path string, options ...NCTU6Option) *NCTU6 {
	e := &NCTU6{
		path:    path,
		workDir: filepath.Dir(path),
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Evaluate runs the oracle on the move sequence leading to node. A non-empty
// ignore list is passed through so the oracle avoids suggesting those moves.
// A context deadline or process failure surfaces as UnavailableError without
// touching the tree.
func (e *NCTU6) Evaluate(ctx context.Context, node *solver.Node, ignore []string) (*solver.Result, error) {
	job := solver.JobString(node)
	args := []string{"-playtsumego", job}
	if len(ignore) > 0 {
		args = append(args, "-ignore", strings.Join(ignore, ";"))
	}

	id := uuid.NewString()
	log.Debug().Str("id", id).Str("job", job).Strs("ignore", ignore).Msg("oracle call")

	cmd := exec.CommandContext(ctx, e.path, args...)
	cmd.Dir = e.workDir
	output, err := cmd.Output()
	if err != nil {
		return nil, &UnavailableError{Path: e.path, Err: err}
	}

	result, err := ParseOutput(string(output))
	if err != nil {
		return nil, err
	}
	log.Debug().Str("id", id).Float64("score", result.Score).Str("state", result.State.String()).Msg("oracle reply")
	return result, nil
}

// Outcome carries an asynchronous evaluation's result or error.
type Outcome struct {
	Result *solver.Result
	Err    error
}

// EvaluateAsync starts the evaluation in the background and returns a channel
// delivering its single outcome, letting callers overlap several oracle
// calls' latency.
func (e *NCTU6) EvaluateAsync(ctx context.Context, node *solver.Node, ignore []string) <-chan Outcome {
	out := make(chan Outcome, 1)
	go func() {
		result, err := e.Evaluate(ctx, node, ignore)
		out <- Outcome{Result: result, Err: err}
	}()
	return out
}
