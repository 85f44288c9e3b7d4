package metrics

import (
	"sync/atomic"
	"time"
)

// SolveMetric summarizes one solve run.
type SolveMetric struct {
	Goroutines       int
	Budget           int // simulation budget
	Simulations      int // simulations actually run
	OracleCalls      int
	TerminalRevisits int
	Failures         int
	Proven           bool
	TreeSize         int
	Duration         time.Duration
}

type Collector interface {
	Start(goroutines, budget int)
	AddSimulation()
	AddOracleCall()
	AddTerminalRevisit()
	AddFailure()
	SetProven(value bool)
	SetTreeSize(size int)
	Complete() SolveMetric
}

type collector struct {
	goroutines       int
	budget           int
	startTime        time.Time
	simulations      atomic.Int32
	oracleCalls      atomic.Int32
	terminalRevisits atomic.Int32
	failures         atomic.Int32
	proven           atomic.Bool
	treeSize         atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (c *collector) Start(goroutines, budget int) {
	c.startTime = time.Now()
	c.goroutines = goroutines
	c.budget = budget
}

func (c *collector) AddSimulation()      { c.simulations.Add(1) }
func (c *collector) AddOracleCall()      { c.oracleCalls.Add(1) }
func (c *collector) AddTerminalRevisit() { c.terminalRevisits.Add(1) }
func (c *collector) AddFailure()         { c.failures.Add(1) }

func (c *collector) SetProven(value bool) { c.proven.Store(value) }

func (c *collector) SetTreeSize(size int) { c.treeSize.Store(int32(size)) }

func (c *collector) Complete() SolveMetric {
	return SolveMetric{
		Goroutines:       c.goroutines,
		Budget:           c.budget,
		Simulations:      int(c.simulations.Load()),
		OracleCalls:      int(c.oracleCalls.Load()),
		TerminalRevisits: int(c.terminalRevisits.Load()),
		Failures:         int(c.failures.Load()),
		Proven:           c.proven.Load(),
		TreeSize:         int(c.treeSize.Load()),
		Duration:         time.Since(c.startTime),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (d *dummyCollector) Start(goroutines, budget int) {}
func (d *dummyCollector) AddSimulation()               {}
func (d *dummyCollector) AddOracleCall()               {}
func (d *dummyCollector) AddTerminalRevisit()          {}
func (d *dummyCollector) AddFailure()                  {}
func (d *dummyCollector) SetProven(value bool)         {}
func (d *dummyCollector) SetTreeSize(size int)         {}
func (d *dummyCollector) Complete() SolveMetric        { return SolveMetric{} }
