package csolve

import (
	"fmt"
	"time"
)

// Solution is a total assignment produced by Solve: every variable's
// value, read off its (now-fixed) domain (spec.md §4.7 step 2).
type Solution struct {
	values map[VarId]Value
}

// Value returns variable v's value in this solution.
func (s *Solution) Value(v VarId) Value { return s.values[v] }

// Int returns v's integer payload directly.
func (s *Solution) Int(v VarId) int32 { return s.values[v].Int() }

// Float returns v's value widened to float64.
func (s *Solution) Float(v VarId) float64 { return s.values[v].Float() }

// ResultKind discriminates Solve's outcome (spec.md §4.8 step 4:
// "Solution | Infeasible | Timeout | MemoryLimit").
type ResultKind int

const (
	ResultSolution ResultKind = iota
	ResultInfeasible
	ResultTimeout
	ResultMemoryLimit
)

func (k ResultKind) String() string {
	switch k {
	case ResultSolution:
		return "Solution"
	case ResultInfeasible:
		return "Infeasible"
	case ResultTimeout:
		return "Timeout"
	case ResultMemoryLimit:
		return "MemoryLimit"
	}
	return "Unknown"
}

// Statistics accumulates the counters spec.md §4.5/§4.7 name: propagator
// invocations, search nodes explored, and the LP subsystem's own
// per-phase iteration counts.
//
// Grounded on the teacher's ExecutionStats type
// (internal/parallel/pool.go), the direct model for a solve-summary
// struct with its own String() renderer.
type Statistics struct {
	Propagations     int64
	Nodes            int64
	LPPhase1Needed   bool
	LPPhase1Iters    int64
	LPPhase2Iters    int64
	LPRefactorizations int64
	Duration         time.Duration
}

// String renders a compact human-readable summary, grounded on the
// teacher's ExecutionStats.String().
func (s Statistics) String() string {
	return fmt.Sprintf(
		"propagations=%d nodes=%d lp_phase1=%v lp_iters=%d/%d lp_refactors=%d duration=%s",
		s.Propagations, s.Nodes, s.LPPhase1Needed, s.LPPhase1Iters, s.LPPhase2Iters,
		s.LPRefactorizations, s.Duration,
	)
}

// SolveResult is the full outcome of Model.Solve. Solution is non-nil
// when Kind == ResultSolution, and may also be non-nil for ResultTimeout
// or ResultMemoryLimit: the best solution found before the abort, if any
// (spec.md §7 kind 3). It is always nil for ResultInfeasible.
type SolveResult struct {
	Kind     ResultKind
	Solution *Solution
	Stats    Statistics
}
