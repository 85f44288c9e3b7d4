package solver

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"tsumego/solver/metrics"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

// ErrNoTree is returned when Solve runs before a problem is loaded.
var ErrNoTree = errors.New("solver: no tree loaded")

// maxConsecutiveFailures aborts a solve whose oracle keeps failing; isolated
// failures only skip their simulation.
const maxConsecutiveFailures = 5

// Engine is the external evaluation oracle consulted at search leaves. The
// ignore list names move tokens the oracle must not suggest.
type Engine interface {
	Evaluate(ctx context.Context, node *Node, ignore []string) (*Result, error)
}

type Option func(solver *Solver)

// WithSimulations sets the simulation budget.
func WithSimulations(simulations int) Option {
	return func(s *Solver) {
		if simulations > 0 {
			s.simulations = simulations
		}
	}
}

// WithGoroutines runs simulations on this many workers, overlapping oracle
// latency. Tree mutation stays serialized; virtual loss keeps in-flight
// simulations off the same leaf.
func WithGoroutines(goroutines int) Option {
	return func(s *Solver) {
		if goroutines > 0 {
			s.goroutines = goroutines
		}
	}
}

// WithWidening re-evaluates each selected leaf's parent with the leaf's
// siblings excluded, trading extra oracle calls for broader branching at
// shallow depth.
func WithWidening() Option {
	return func(s *Solver) {
		s.widen = true
	}
}

func WithMetrics() Option {
	return func(s *Solver) {
		s.collector = metrics.NewCollector()
	}
}

// Solver drives repeated simulations over a search tree: select a leaf, ask
// the oracle, expand, backpropagate, until the root is proven or the budget
// runs out.
type Solver struct {
	engine      Engine
	tree        *Tree
	simulations int
	goroutines  int
	widen       bool
	collector   metrics.Collector
}

func New(engine Engine, options ...Option) *Solver {
	if engine == nil {
		panic("solver requires an engine")
	}
	s := &Solver{ // Default values
		engine:      engine,
		tree:        NewTree(),
		simulations: 100,
		goroutines:  1,
		collector:   metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Load parses the problem SGF into the search tree.
func (s *Solver) Load(src string) error {
	return s.tree.Load(src)
}

func (s *Solver) Tree() *Tree {
	return s.tree
}

// MoveStat is one root child's statistics for move selection.
type MoveStat struct {
	Move   string  `json:"move"`
	Visits int     `json:"visits"`
	Score  float64 `json:"score"` // average per-visit score
	Status string  `json:"status"`
}

// Report is the outcome of a solve: the root's proof status and the root's
// children ranked by visit count as the recommended move order.
type Report struct {
	Status      Status
	Proven      bool
	Simulations int
	Moves       []MoveStat
	Metric      metrics.SolveMetric
}

// Solve runs up to the configured number of simulations, stopping early once
// the root's status is proven.
func (s *Solver) Solve(ctx context.Context) (*Report, error) {
	root := s.tree.Root()
	if root == nil {
		return nil, ErrNoTree
	}

	s.collector.Start(s.goroutines, s.simulations)

	var simulations int
	var err error
	if s.goroutines > 1 {
		simulations, err = s.runParallel(ctx)
	} else {
		simulations, err = s.run(ctx)
	}
	if err != nil {
		return nil, err
	}

	status := s.tree.RootStatus()
	s.collector.SetProven(status != StatusUnresolved)
	s.collector.SetTreeSize(s.tree.Size())
	metric := s.collector.Complete()

	return &Report{
		Status:      status,
		Proven:      status != StatusUnresolved,
		Simulations: simulations,
		Moves:       s.rankedMoves(root),
		Metric:      metric,
	}, nil
}

func (s *Solver) run(ctx context.Context) (int, error) {
	completed := 0
	consecutive := 0
	for i := 0; i < s.simulations; i++ {
		if err := ctx.Err(); err != nil {
			return completed, err
		}

		if err := s.simulate(ctx, false); err != nil {
			s.collector.AddFailure()
			consecutive++
			log.Warn().Err(err).Msgf("simulation %d failed", i)
			if consecutive >= maxConsecutiveFailures {
				return completed, fmt.Errorf("aborting after %d consecutive oracle failures: %w", consecutive, err)
			}
			continue
		}
		consecutive = 0
		completed++
		s.collector.AddSimulation()

		if s.tree.RootStatus() != StatusUnresolved {
			break
		}
	}
	return completed, nil
}

func (s *Solver) runParallel(ctx context.Context) (int, error) {
	task := make(chan struct{}, s.simulations)
	for i := 0; i < s.simulations; i++ {
		task <- struct{}{}
	}
	close(task)

	done := make(chan struct{})
	var once sync.Once
	stop := func() { once.Do(func() { close(done) }) }

	var wg sync.WaitGroup
	var mu sync.Mutex
	var abortErr error
	completed := 0
	consecutive := 0

	for i := 0; i < s.goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range task {
				select {
				case <-done:
					return
				default:
				}
				if ctx.Err() != nil {
					stop()
					return
				}

				err := s.simulate(ctx, true)

				mu.Lock()
				if err != nil {
					s.collector.AddFailure()
					consecutive++
					log.Warn().Err(err).Msg("simulation failed")
					if consecutive >= maxConsecutiveFailures && abortErr == nil {
						abortErr = fmt.Errorf("aborting after %d consecutive oracle failures: %w", consecutive, err)
						stop()
					}
				} else {
					consecutive = 0
					completed++
					s.collector.AddSimulation()
				}
				mu.Unlock()

				if s.tree.RootStatus() != StatusUnresolved {
					stop()
					return
				}
			}
		}()
	}

	wg.Wait()
	if abortErr != nil {
		return completed, abortErr
	}
	return completed, ctx.Err()
}

// simulate runs one selection → evaluation → expansion → backpropagation
// pass. A failed oracle call leaves the tree untouched apart from the
// reverted virtual loss.
func (s *Solver) simulate(ctx context.Context, virtualLoss bool) error {
	leaf := s.tree.Select()
	if virtualLoss {
		s.tree.ApplyVirtualLoss(leaf)
	}
	release := func() {
		if virtualLoss {
			s.tree.RemoveVirtualLoss(leaf)
		}
	}

	// A previously resolved leaf reached again feeds its terminal score back
	// without consulting the oracle.
	if status := s.tree.NodeStatus(leaf); status != StatusUnresolved {
		release()
		score := 1.0
		if status == StatusWinWhite {
			score = -1.0
		}
		s.tree.Backpropagate(leaf, score)
		s.collector.AddTerminalRevisit()
		return nil
	}

	result, err := s.engine.Evaluate(ctx, leaf, nil)
	s.collector.AddOracleCall()
	if err != nil {
		release()
		return err
	}

	release()
	s.tree.Expand(leaf, result)
	s.tree.Backpropagate(leaf, result.Score)

	if s.widen && leaf.Parent() != nil {
		s.widenAt(ctx, leaf.Parent())
	}
	return nil
}

// widenAt asks the oracle for an alternative at parent, excluding the moves
// it already has as children. A widening failure is logged and dropped; the
// primary simulation already succeeded.
func (s *Solver) widenAt(ctx context.Context, parent *Node) {
	var ignore []string
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		move, err := MoveString(child)
		if err != nil {
			continue
		}
		ignore = append(ignore, move)
	}

	result, err := s.engine.Evaluate(ctx, parent, ignore)
	s.collector.AddOracleCall()
	if err != nil {
		log.Warn().Err(err).Msg("widening evaluation failed")
		return
	}
	s.tree.Expand(parent, result)
	s.tree.Backpropagate(parent, result.Score)
}

// rankedMoves ranks the root's children by visit count, ties keeping child
// order, which is the recommended move ordering.
func (s *Solver) rankedMoves(root *Node) []MoveStat {
	stats := make([]MoveStat, 0, root.NumChildren())
	for child := root.FirstChild(); child != nil; child = child.NextSibling() {
		move, err := MoveString(child)
		if err != nil {
			move = "?"
		}
		score := 0.0
		if child.Payload.Visits > 0 {
			score = child.Payload.ScoreSum / float64(child.Payload.Visits)
		}
		stats = append(stats, MoveStat{
			Move:   move,
			Visits: child.Payload.Visits,
			Score:  score,
			Status: child.Payload.Status.String(),
		})
	}
	slices.SortStableFunc(stats, func(a, b MoveStat) int {
		return b.Visits - a.Visits
	})
	return stats
}
