package csolve

import "testing"

// Running a scheduler to fixpoint twice in a row (the second call seeing
// an already-quiescent queue) must not change domain state: propagation
// is idempotent once fixpoint returns (spec.md §4.3).
func TestFixpointIdempotent(t *testing.T) {
	s := newStore(DefaultConfig())
	x := s.addIntVar(0, 9)
	y := s.addIntVar(0, 9)
	sched := newScheduler()
	s.sched = sched
	sched.register(newComparePropagator(x, y, RelLt))
	sched.scheduleAll()

	m := &mutator{s: s}
	var calls int64
	if err := sched.fixpoint(m, &calls); err != nil {
		t.Fatalf("first fixpoint failed: %v", err)
	}
	xMax, yMin := s.max(x), s.min(y)

	// Nothing left queued; a second fixpoint call must be a no-op.
	if err := sched.fixpoint(m, &calls); err != nil {
		t.Fatalf("second fixpoint failed: %v", err)
	}
	if s.max(x) != xMax || s.min(y) != yMin {
		t.Errorf("second fixpoint changed domain state: x.max %v->%v y.min %v->%v",
			xMax, s.max(x), yMin, s.min(y))
	}
}

// x < y over [0,9]x[0,9] must tighten x's max to 8 and y's min to 1.
func TestComparePropagatorTightensBounds(t *testing.T) {
	s := newStore(DefaultConfig())
	x := s.addIntVar(0, 9)
	y := s.addIntVar(0, 9)
	sched := newScheduler()
	s.sched = sched
	sched.register(newComparePropagator(x, y, RelLt))
	sched.scheduleAll()

	m := &mutator{s: s}
	var calls int64
	if err := sched.fixpoint(m, &calls); err != nil {
		t.Fatalf("fixpoint failed: %v", err)
	}
	if got := s.max(x).Int(); got != 8 {
		t.Errorf("x.max = %d, want 8", got)
	}
	if got := s.min(y).Int(); got != 1 {
		t.Errorf("y.min = %d, want 1", got)
	}
}

// Three variables over a 2-value universe cannot all be pairwise
// different: AllDifferent must fail during propagation.
func TestAllDifferentPigeonhole(t *testing.T) {
	s := newStore(DefaultConfig())
	vars := []VarId{s.addIntVar(0, 1), s.addIntVar(0, 1), s.addIntVar(0, 1)}
	sched := newScheduler()
	s.sched = sched
	sched.register(newAllDifferentPropagator(vars))
	sched.scheduleAll()

	m := &mutator{s: s}
	var calls int64
	err := sched.fixpoint(m, &calls)
	if err == nil {
		t.Fatalf("expected propagation failure for pigeonhole AllDifferent, got nil")
	}
	if !isFailure(err) {
		t.Errorf("expected internal failure signal, got %v", err)
	}
}

// AllDifferent over n variables each with the full n-value domain should
// fix nothing (every assignment remains a candidate) — propagation must
// not over-narrow.
func TestAllDifferentNoFalsePositive(t *testing.T) {
	s := newStore(DefaultConfig())
	vars := make([]VarId, 4)
	for i := range vars {
		vars[i] = s.addIntVar(0, 3)
	}
	sched := newScheduler()
	s.sched = sched
	sched.register(newAllDifferentPropagator(vars))
	sched.scheduleAll()

	m := &mutator{s: s}
	var calls int64
	if err := sched.fixpoint(m, &calls); err != nil {
		t.Fatalf("unexpected failure: %v", err)
	}
	for _, v := range vars {
		if s.size(v) != 4 {
			t.Errorf("var %d size = %d, want 4 (no value should be excludable yet)", v, s.size(v))
		}
	}
}
