package csolve

import "testing"

// A variable appearing only in "x <= 10" with no declared bounds should
// infer an upper bound derived from that constant, not the config's huge
// unbounded default (spec.md §4.6 step 4).
func TestInferBoundsFromCompareConst(t *testing.T) {
	cfg := DefaultConfig()
	x := VarId(0)
	cons := []Constraint{
		CompareConst{X: x, Rel: RelLe, K: IntValue(10)},
	}
	intBounds, _ := inferBounds(cons, []VarId{x}, nil, nil, cfg)
	b, ok := intBounds[x]
	if !ok {
		t.Fatalf("expected an inferred bound for x")
	}
	if b[1] > 10*int32(cfg.UnboundedInferenceFactor)+10 {
		t.Fatalf("inferred upper bound %d looks like the raw default, not a widened constant", b[1])
	}
	if b[1] < 10 {
		t.Fatalf("inferred upper bound %d must be at least the constraint's constant 10", b[1])
	}
}

// A variable no constraint ever mentions falls back to the config's
// default unbounded range untouched.
func TestInferBoundsFallsBackToDefault(t *testing.T) {
	cfg := DefaultConfig()
	x := VarId(0)
	intBounds, _ := inferBounds(nil, []VarId{x}, nil, nil, cfg)
	b, ok := intBounds[x]
	if !ok {
		t.Fatalf("expected a fallback bound for an unmentioned variable")
	}
	if b[0] != cfg.DefaultUnboundedIntBounds[0] || b[1] != cfg.DefaultUnboundedIntBounds[1] {
		t.Fatalf("expected the default unbounded range %v, got %v", cfg.DefaultUnboundedIntBounds, b)
	}
}

// A variable compared only against an explicitly-bounded partner should
// inherit that partner's range rather than falling back to the default.
func TestInferBoundsFromCompareTransitive(t *testing.T) {
	cfg := DefaultConfig()
	x, y := VarId(0), VarId(1)
	specs := []varSpec{
		{kind: VarInt, explicit: false, lo: 0, hi: 0},
		{kind: VarInt, explicit: true, lo: 0, hi: 20},
	}
	cons := []Constraint{Compare{X: x, Y: y, Rel: RelLt}}
	intBounds, _ := inferBounds(cons, []VarId{x}, nil, specs, cfg)
	b, ok := intBounds[x]
	if !ok {
		t.Fatalf("expected an inferred bound for x")
	}
	if b[0] > 0 || b[1] < 20 {
		t.Fatalf("expected x's inferred range to cover y's explicit [0,20], got %v", b)
	}
}

// Element's index must infer [0, len(Array)-1] regardless of what the
// array's elements or the target value are bounded to.
func TestInferBoundsFromElementIndex(t *testing.T) {
	cfg := DefaultConfig()
	idx := VarId(0)
	cons := []Constraint{Element{Idx: idx, Array: []VarId{1, 2, 3, 4}, Value: VarId(5)}}
	intBounds, _ := inferBounds(cons, []VarId{idx}, nil, nil, cfg)
	b, ok := intBounds[idx]
	if !ok {
		t.Fatalf("expected an inferred bound for idx")
	}
	if b[0] > 0 || b[1] < 3 {
		t.Fatalf("expected idx's inferred range to cover [0,3], got %v", b)
	}
}

// A variable in an AllDifferent group with explicitly-bounded peers
// should infer a range near theirs, widened by the group's size.
func TestInferBoundsFromAllDifferentCardinality(t *testing.T) {
	cfg := DefaultConfig()
	x, y := VarId(0), VarId(1)
	specs := []varSpec{
		{kind: VarInt, explicit: false, lo: 0, hi: 0},
		{kind: VarInt, explicit: true, lo: 0, hi: 5},
	}
	cons := []Constraint{AllDifferent{Vars: []VarId{x, y}}}
	intBounds, _ := inferBounds(cons, []VarId{x}, nil, specs, cfg)
	b, ok := intBounds[x]
	if !ok {
		t.Fatalf("expected an inferred bound for x")
	}
	if b[0] > -2 || b[1] < 7 {
		t.Fatalf("expected x's range to extend past y's [0,5] by the group size, got %v", b)
	}
}

// widen must never report a range wider than inferenceClampHalfWidth on
// either side of its own midpoint, even when the raw candidate and
// factor would otherwise blow it open (spec.md §4.6 step 4).
func TestWidenClampsToHalfWidth(t *testing.T) {
	lo, hi := widen(-1_000_000, 1_000_000, 1000)
	mid := (lo + hi) / 2
	if lo < mid-inferenceClampHalfWidth-1 || hi > mid+inferenceClampHalfWidth+1 {
		t.Fatalf("widen escaped the clamp: [%v,%v] around mid %v", lo, hi, mid)
	}
}
