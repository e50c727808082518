package lpsolve

import "testing"

// x + y <= 10, x,y in [0,20] should tighten both variables' upper bound
// down to 10 (each can reach 10 only when the other is pinned at 0).
func TestTightenBoundsSimpleSum(t *testing.T) {
	p := Problem{
		NumVars: 2,
		Rows: []Row{
			{Coeffs: []float64{1, 1}, Kind: LE, RHS: 10},
		},
		Bounds: []Bound{{Lo: 0, Hi: 20}, {Lo: 0, Hi: 20}},
	}
	bounds, feasible, _ := TightenBounds(p, 1000)
	if !feasible {
		t.Fatalf("expected a feasible problem")
	}
	for i, b := range bounds {
		if b.Hi > 10+1e-6 {
			t.Errorf("var %d: Hi = %v, want <= 10", i, b.Hi)
		}
		if b.Lo < 0 {
			t.Errorf("var %d: Lo = %v, want >= 0", i, b.Lo)
		}
	}
}

// x = 5, x in [0,0] (an infeasible equality against a pinned bound of 0)
// must be reported infeasible, not silently clamped.
func TestTightenBoundsInfeasible(t *testing.T) {
	p := Problem{
		NumVars: 1,
		Rows: []Row{
			{Coeffs: []float64{1}, Kind: EQ, RHS: 5},
		},
		Bounds: []Bound{{Lo: 0, Hi: 0}},
	}
	_, feasible, stats := TightenBounds(p, 1000)
	if feasible {
		t.Fatalf("expected infeasible, got feasible")
	}
	if stats.Status != StatusInfeasible {
		t.Errorf("expected StatusInfeasible, got %v", stats.Status)
	}
}

// A row requiring x >= 5 against a declared bound of [0,20] must raise
// x's lower bound to 5, the textbook single-row tightening.
func TestTightenBoundsGERow(t *testing.T) {
	p := Problem{
		NumVars: 1,
		Rows: []Row{
			{Coeffs: []float64{1}, Kind: GE, RHS: 5},
		},
		Bounds: []Bound{{Lo: 0, Hi: 20}},
	}
	bounds, feasible, _ := TightenBounds(p, 1000)
	if !feasible {
		t.Fatalf("expected feasible")
	}
	if bounds[0].Lo < 5-1e-6 {
		t.Errorf("Lo = %v, want >= 5", bounds[0].Lo)
	}
}

// An unconstrained problem (no rows) must leave the declared bounds
// untouched: there is nothing to tighten.
func TestTightenBoundsNoRowsIsNoOp(t *testing.T) {
	p := Problem{
		NumVars: 2,
		Bounds:  []Bound{{Lo: -3, Hi: 7}, {Lo: 0, Hi: 100}},
	}
	bounds, feasible, _ := TightenBounds(p, 1000)
	if !feasible {
		t.Fatalf("expected feasible")
	}
	for i, b := range bounds {
		if b != p.Bounds[i] {
			t.Errorf("var %d: bounds changed from %v to %v with no rows", i, p.Bounds[i], b)
		}
	}
}
