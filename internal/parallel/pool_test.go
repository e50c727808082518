package parallel

import (
	"context"
	"testing"
	"time"

	"github.com/gitrdm/fdcsolve/pkg/csolve"
)

func satisfiableModel() (*csolve.Model, csolve.VarId) {
	md := csolve.NewModel(csolve.DefaultConfig())
	x := md.NewInt(0, 9)
	md.Post(csolve.CompareConst{X: x, Rel: csolve.RelEq, K: csolve.IntValue(4)})
	return md, x
}

func infeasibleModel() *csolve.Model {
	md := csolve.NewModel(csolve.DefaultConfig())
	vars := []csolve.VarId{md.NewInt(0, 1), md.NewInt(0, 1), md.NewInt(0, 1)}
	md.Post(csolve.AllDifferent{Vars: vars})
	return md
}

// Run must solve every task and preserve task order in its result slice,
// even when tasks outnumber workers.
func TestPoolRunPreservesOrder(t *testing.T) {
	pool := NewPool(2)
	defer pool.Shutdown()

	md1, x1 := satisfiableModel()
	md2, x2 := satisfiableModel()
	md3, x3 := satisfiableModel()
	tasks := []Task{
		{Name: "a", Model: md1},
		{Name: "b", Model: md2},
		{Name: "c", Model: md3},
	}
	outcomes := pool.Run(context.Background(), tasks)
	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
	}
	want := []string{"a", "b", "c"}
	vars := []csolve.VarId{x1, x2, x3}
	for i, o := range outcomes {
		if o.Name != want[i] {
			t.Errorf("outcome %d: name = %q, want %q", i, o.Name, want[i])
		}
		if o.Err != nil {
			t.Fatalf("outcome %d: unexpected error %v", i, o.Err)
		}
		if o.Result.Kind != csolve.ResultSolution {
			t.Fatalf("outcome %d: expected Solution, got %s", i, o.Result.Kind)
		}
		if got := o.Result.Solution.Int(vars[i]); got != 4 {
			t.Errorf("outcome %d: x = %d, want 4", i, got)
		}
	}
}

// An infeasible task's outcome must report ResultInfeasible rather than
// panicking or being silently dropped.
func TestPoolRunReportsInfeasible(t *testing.T) {
	pool := NewPool(1)
	defer pool.Shutdown()

	outcomes := pool.Run(context.Background(), []Task{{Name: "pigeonhole", Model: infeasibleModel()}})
	if len(outcomes) != 1 {
		t.Fatalf("expected 1 outcome, got %d", len(outcomes))
	}
	if outcomes[0].Result.Kind != csolve.ResultInfeasible {
		t.Fatalf("expected Infeasible, got %s", outcomes[0].Result.Kind)
	}
}

// Best must pick the outcome whose objective value is actually better,
// ignoring a losing but still-solved competitor.
func TestBestPicksHigherObjective(t *testing.T) {
	mdLow := csolve.NewModel(csolve.DefaultConfig())
	low := mdLow.NewInt(0, 10)
	mdLow.Post(csolve.CompareConst{X: low, Rel: csolve.RelEq, K: csolve.IntValue(3)})
	mdLow.Maximize(low)

	mdHigh := csolve.NewModel(csolve.DefaultConfig())
	high := mdHigh.NewInt(0, 10)
	mdHigh.Post(csolve.CompareConst{X: high, Rel: csolve.RelEq, K: csolve.IntValue(9)})
	mdHigh.Maximize(high)

	tasks := []Task{
		{Name: "low", Model: mdLow, Objective: &csolve.Objective{Var: low, Maximize: true}},
		{Name: "high", Model: mdHigh, Objective: &csolve.Objective{Var: high, Maximize: true}},
	}
	pool := NewPool(2)
	defer pool.Shutdown()
	outcomes := pool.Run(context.Background(), tasks)

	best, ok := Best(outcomes, tasks)
	if !ok {
		t.Fatalf("expected a best outcome")
	}
	if best.Name != "high" {
		t.Fatalf("expected \"high\" to win, got %q", best.Name)
	}
}

// Stats must reflect exactly the number of tasks submitted and
// completed after Shutdown finalizes the collector.
func TestPoolStatsCounts(t *testing.T) {
	pool := NewPool(2)
	md1, _ := satisfiableModel()
	md2, _ := satisfiableModel()
	pool.Run(context.Background(), []Task{{Name: "a", Model: md1}, {Name: "b", Model: md2}})
	pool.Shutdown()

	stats := pool.GetStats().GetStats()
	if stats.TasksSubmitted != 2 {
		t.Errorf("TasksSubmitted = %d, want 2", stats.TasksSubmitted)
	}
	if stats.TasksCompleted != 2 {
		t.Errorf("TasksCompleted = %d, want 2", stats.TasksCompleted)
	}
	if stats.TotalExecutionTime <= 0 {
		t.Errorf("expected a positive TotalExecutionTime after Shutdown, got %v", stats.TotalExecutionTime)
	}
}

// Submitting to an already-shut-down pool must fail fast rather than
// block forever.
func TestPoolSubmitAfterShutdown(t *testing.T) {
	pool := NewPool(1)
	pool.Shutdown()

	md, _ := satisfiableModel()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	outcomes := pool.Run(ctx, []Task{{Name: "late", Model: md}})
	if outcomes[0].Err == nil {
		t.Fatalf("expected an error submitting to a shut-down pool")
	}
}
