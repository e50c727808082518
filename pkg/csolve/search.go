package csolve

import (
	"context"
	"time"
)

// Objective drives branch-and-bound optimization (spec.md §4.7 step 2):
// nil means satisfaction only (the first total assignment found is
// returned); non-nil means search keeps descending past every solution,
// each time posting a strictly-better bound, until the search space is
// exhausted.
type Objective struct {
	Var      VarId
	Maximize bool
}

// errAbort unwinds the whole recursive descent immediately: either a
// hard termination condition (timeout, memory limit) fired, or — in
// satisfaction mode — the first solution was found and no further
// search is needed.
type errAbort struct{ kind ResultKind }

func (e errAbort) Error() string { return "csolve: search aborted: " + e.kind.String() }

// searcher holds one Solve call's mutable search state. Grounded on the
// teacher's DFSSearch (search.go): same trail-checkpoint-per-branch
// shape, generalized from the teacher's iterative explicit-stack
// traversal to a direct recursive descent (spec.md §4.7's per-node
// protocol reads naturally as a recursive "branch left, recurse, rewind,
// branch right, recurse, rewind"), and from the teacher's single-
// solution-stream contract to fail-driven branch-and-bound optimization.
type searcher struct {
	s        *store
	m        *mutator
	sched    *scheduler
	cfg      Config
	stats    *Statistics
	deadline time.Time
	obj      *Objective
	ctx      context.Context

	best *Solution
}

// Search runs the §4.7 driver over vars (every decision variable the
// model declared), honoring obj if non-nil.
func Search(ctx context.Context, s *store, sched *scheduler, vars []VarId, obj *Objective, cfg Config) SolveResult {
	start := time.Now()
	stats := &Statistics{}
	var deadline time.Time
	if cfg.TimeoutMS > 0 {
		deadline = start.Add(time.Duration(cfg.TimeoutMS) * time.Millisecond)
	}
	sr := &searcher{
		s: s, m: &mutator{s: s}, sched: sched, cfg: cfg, stats: stats,
		deadline: deadline, obj: obj, ctx: ctx,
	}

	root := append([]VarId(nil), vars...)
	err := sr.descend(root)
	stats.Duration = time.Since(start)

	if ab, ok := err.(errAbort); ok {
		// A Timeout/MemoryLimit abort keeps its own Kind even when a
		// best-known solution exists (spec.md §7 kind 3): the caller must
		// be able to tell "cut short, here's the best found so far" apart
		// from "search completed, this is the answer".
		return SolveResult{Kind: ab.kind, Solution: sr.best, Stats: *stats}
	}
	if sr.best != nil {
		return SolveResult{Kind: ResultSolution, Solution: sr.best, Stats: *stats}
	}
	return SolveResult{Kind: ResultInfeasible, Stats: *stats}
}

// descend implements spec.md §4.7's per-node protocol. It returns nil to
// signal "this subtree is exhausted, backtrack normally" or an errAbort
// to unwind the whole search immediately.
func (sr *searcher) descend(vars []VarId) error {
	if sr.timedOut() {
		return errAbort{ResultTimeout}
	}
	if sr.overMemoryLimit() {
		return errAbort{ResultMemoryLimit}
	}
	if sr.cfg.MaxSearchNodes > 0 && sr.stats.Nodes >= sr.cfg.MaxSearchNodes {
		return errAbort{ResultTimeout}
	}
	sr.stats.Nodes++

	if err := sr.sched.fixpoint(sr.m, &sr.stats.Propagations); err != nil {
		return nil // this node is infeasible; caller rewinds and tries the other branch
	}

	branchVar, ok := sr.selectVariable(vars)
	if !ok {
		return sr.onSolution(vars)
	}

	val := sr.selectValue(branchVar)
	cp := sr.s.mark()

	if err := sr.narrowLow(branchVar, val); err == nil {
		if aerr := sr.descend(vars); aerr != nil {
			return aerr
		}
	}
	sr.s.rewind(cp)

	if err := sr.narrowHigh(branchVar, val); err == nil {
		if aerr := sr.descend(vars); aerr != nil {
			return aerr
		}
	}
	sr.s.rewind(cp)

	return nil
}

// onSolution records a total assignment. For satisfaction it aborts the
// whole search immediately; for optimization it posts a strict
// objective-improvement bound and reports a normal (non-aborting) fail so
// the caller backtracks to look for something better (spec.md §4.7 step
// 2's "fail-driven descent").
func (sr *searcher) onSolution(vars []VarId) error {
	sol := sr.extractSolution(vars)
	sr.best = sol
	Logger().Debug().Int64("nodes", sr.stats.Nodes).Msg("search found a candidate solution")
	if sr.obj == nil {
		return errAbort{ResultSolution}
	}
	val := sr.m.Min(sr.obj.Var)
	rel := RelLt
	if sr.obj.Maximize {
		rel = RelGt
	}
	p := newCompareConstPropagator(sr.obj.Var, rel, val)
	id := sr.sched.register(p)
	sr.sched.enqueue(id, priFixed)
	return nil
}

func (sr *searcher) extractSolution(vars []VarId) *Solution {
	values := make(map[VarId]Value, len(vars))
	for _, v := range vars {
		values[v] = sr.m.Min(v)
	}
	return &Solution{values: values}
}

// selectVariable implements first-fail (smallest domain size), ties
// broken by variable id (spec.md §4.7 "Variable selection").
func (sr *searcher) selectVariable(vars []VarId) (VarId, bool) {
	best := VarId(-1)
	bestSize := -1
	for _, v := range vars {
		if sr.m.IsFixed(v) {
			continue
		}
		sz := sr.m.Size(v)
		if best == -1 || sz < bestSize || (sz == bestSize && v < best) {
			best, bestSize = v, sz
		}
	}
	if best == -1 {
		return 0, false
	}
	return best, true
}

// selectValue implements smallest-value for integers, midpoint for
// floats (spec.md §4.7 "Value selection").
func (sr *searcher) selectValue(v VarId) Value {
	if sr.m.KindOf(v) == KindInt {
		return sr.m.Min(v)
	}
	mid := (sr.m.Min(v).Float() + sr.m.Max(v).Float()) / 2
	return FloatValue(mid)
}

// narrowLow is the left branch: assign the chosen value (integers) or
// clamp to the lower half (floats).
func (sr *searcher) narrowLow(v VarId, val Value) error {
	if sr.m.KindOf(v) == KindInt {
		return sr.m.Assign(v, val)
	}
	return sr.m.SetMax(v, val)
}

// narrowHigh is the right branch: remove the chosen value (integers) or
// clamp to the upper half (floats).
func (sr *searcher) narrowHigh(v VarId, val Value) error {
	if sr.m.KindOf(v) == KindInt {
		return sr.m.Remove(v, val)
	}
	return sr.m.SetMin(v, val)
}

func (sr *searcher) timedOut() bool {
	if sr.ctx != nil && sr.ctx.Err() != nil {
		return true
	}
	return !sr.deadline.IsZero() && time.Now().After(sr.deadline)
}

// overMemoryLimit estimates solver memory from trail length and domain
// store size (spec.md §4.7 "Memory limit: estimated from trail length +
// LP basis size + domain store size"); LP memory is not counted, since
// the LP only runs once at the root and its tableau is not resident
// during search (spec.md §4.5).
func (sr *searcher) overMemoryLimit() bool {
	if sr.cfg.MemoryLimitMB <= 0 {
		return false
	}
	const bytesPerTrailRecord = 64
	const bytesPerVar = 96
	estimate := int64(sr.s.trail.len())*bytesPerTrailRecord + int64(len(sr.s.vars))*bytesPerVar
	return estimate > sr.cfg.MemoryLimitMB*1024*1024
}
