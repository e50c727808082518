package csolve

import (
	"context"
	"testing"
)

// 4-Queens via AllDifferent over columns and both diagonals, the smallest
// N that has a solution (3-Queens has none). diagUp[row] = col + row and
// diagDown[row] = col - row, each declared over exactly its reachable range.
func TestModelFourQueens(t *testing.T) {
	const n = 4
	md := NewModel(DefaultConfig())
	cols := make([]VarId, n)
	diagUp := make([]VarId, n)
	diagDown := make([]VarId, n)
	for row := 0; row < n; row++ {
		cols[row] = md.NewInt(0, n-1)
		diagUp[row] = md.NewInt(int32(row), int32(n-1+row))
		diagDown[row] = md.NewInt(int32(-row), int32(n-1-row))
		md.Post(Linear{Coeffs: []float64{1, -1}, Vars: []VarId{cols[row], diagUp[row]}, Rel: RelEq, K: float64(-row)})
		md.Post(Linear{Coeffs: []float64{1, -1}, Vars: []VarId{cols[row], diagDown[row]}, Rel: RelEq, K: float64(row)})
	}
	md.Post(AllDifferent{Vars: cols})
	md.Post(AllDifferent{Vars: diagUp})
	md.Post(AllDifferent{Vars: diagDown})

	res, err := md.Solve(context.Background())
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	if res.Kind != ResultSolution {
		t.Fatalf("expected a solution, got %s", res.Kind)
	}
	seen := map[int32]bool{}
	for row := 0; row < n; row++ {
		c := res.Solution.Int(cols[row])
		if c < 0 || c >= n {
			t.Fatalf("row %d column %d out of range", row, c)
		}
		if seen[c] {
			t.Fatalf("two queens share column %d", c)
		}
		seen[c] = true
	}
}

// Pigeonhole: 3 variables over a 2-value domain can never be pairwise
// different — Solve must report Infeasible, not hang or panic.
func TestModelPigeonholeInfeasible(t *testing.T) {
	md := NewModel(DefaultConfig())
	vars := []VarId{md.NewInt(0, 1), md.NewInt(0, 1), md.NewInt(0, 1)}
	md.Post(AllDifferent{Vars: vars})

	res, err := md.Solve(context.Background())
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	if res.Kind != ResultInfeasible {
		t.Fatalf("expected Infeasible, got %s", res.Kind)
	}
	if res.Solution != nil {
		t.Fatalf("Infeasible result must carry a nil Solution")
	}
}

// A reified compare whose boolean only resolves once its compared
// variable is pinned exercises propagation ordering across two posts.
func TestModelReifiedCompareResolves(t *testing.T) {
	md := NewModel(DefaultConfig())
	x := md.NewInt(3, 3)
	y := md.NewInt(0, 9)
	b := md.NewBool()
	md.Post(ReifiedCompare{B: b, X: x, Y: y, Rel: RelLt})
	md.Post(CompareConst{X: y, Rel: RelEq, K: IntValue(7)})

	res, err := md.Solve(context.Background())
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	if res.Kind != ResultSolution {
		t.Fatalf("expected a solution, got %s", res.Kind)
	}
	if res.Solution.Int(b) != 1 {
		t.Fatalf("expected b=1 since 3 < 7, got %d", res.Solution.Int(b))
	}
}

// Maximizing a linear objective under a linear inequality, with the LP
// subsystem enabled, must still land on the integer optimum the search
// driver would reach on its own — LP tightening narrows bounds, it
// doesn't change the answer.
func TestModelLinearOptimizationWithLP(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LPSolverEnabled = true
	md := NewModel(cfg)

	a := md.NewInt(0, 100)
	b := md.NewInt(0, 100)
	cost := md.NewInt(0, 10_000)
	md.Post(Linear{Coeffs: []float64{2, 3}, Vars: []VarId{a, b}, Rel: RelLe, K: 60})
	md.Post(Linear{Coeffs: []float64{5, 4, -1}, Vars: []VarId{a, b, cost}, Rel: RelEq, K: 0})
	md.Maximize(cost)

	res, err := md.Solve(context.Background())
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	if res.Kind != ResultSolution {
		t.Fatalf("expected a solution, got %s", res.Kind)
	}
	// Optimum: a=30, b=0, cost=150 (maximize 5a+4b s.t. 2a+3b<=60, a,b<=100).
	if got := res.Solution.Int(cost); got != 150 {
		t.Fatalf("cost = %d, want 150", got)
	}
}

// A search cut short by MaxSearchNodes must report ResultTimeout rather
// than Infeasible: a 1-node cap stops 8-Queens before any solution is
// found, although the search space was not exhausted (spec.md §7 kind 3).
func TestModelNodeCapReportsTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxSearchNodes = 1
	md := NewModel(cfg)

	const n = 8
	cols := make([]VarId, n)
	diagUp := make([]VarId, n)
	diagDown := make([]VarId, n)
	for row := 0; row < n; row++ {
		cols[row] = md.NewInt(0, n-1)
		diagUp[row] = md.NewInt(int32(row), int32(n-1+row))
		diagDown[row] = md.NewInt(int32(-row), int32(n-1-row))
		md.Post(Linear{Coeffs: []float64{1, -1}, Vars: []VarId{cols[row], diagUp[row]}, Rel: RelEq, K: float64(-row)})
		md.Post(Linear{Coeffs: []float64{1, -1}, Vars: []VarId{cols[row], diagDown[row]}, Rel: RelEq, K: float64(row)})
	}
	md.Post(AllDifferent{Vars: cols})
	md.Post(AllDifferent{Vars: diagUp})
	md.Post(AllDifferent{Vars: diagDown})
	md.Maximize(cols[0])

	res, err := md.Solve(context.Background())
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	if res.Kind != ResultTimeout {
		t.Fatalf("expected ResultTimeout from a 1-node cap, got %s", res.Kind)
	}
}

// A declared domain with min > max must be rejected at Solve entry,
// before any propagation, per spec.md §7's validation-error contract.
func TestModelValidatesInvalidDomain(t *testing.T) {
	md := NewModel(DefaultConfig())
	md.NewInt(10, 0)

	_, err := md.Solve(context.Background())
	if err == nil {
		t.Fatalf("expected a validation error for min > max")
	}
}

// A Table constraint enforces generalized-arc-consistency over an
// explicit tuple list; only listed tuples should remain reachable.
func TestModelTableConstraint(t *testing.T) {
	md := NewModel(DefaultConfig())
	x := md.NewInt(0, 3)
	y := md.NewInt(0, 3)
	md.Post(Table{
		Vars: []VarId{x, y},
		Tuples: [][]int32{
			{0, 1},
			{2, 3},
		},
	})
	md.Post(CompareConst{X: x, Rel: RelEq, K: IntValue(2)})

	res, err := md.Solve(context.Background())
	if err != nil {
		t.Fatalf("Solve returned error: %v", err)
	}
	if res.Kind != ResultSolution {
		t.Fatalf("expected a solution, got %s", res.Kind)
	}
	if got := res.Solution.Int(y); got != 3 {
		t.Fatalf("y = %d, want 3 (the only tuple with x=2)", got)
	}
}
