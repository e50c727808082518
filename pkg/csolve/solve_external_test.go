package csolve_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/gitrdm/fdcsolve/pkg/csolve"
)

// SEND + MORE = MONEY via a single Linear constraint plus AllDifferent —
// the construction-API surface a caller outside the package actually
// sees, exercised black-box per the teacher's *_test package convention
// (e.g. katalvlaran/lvlath's flow package tests).
func TestSolveSendMoreMoney(t *testing.T) {
	md := csolve.NewModel(csolve.DefaultConfig())

	s := md.NewInt(1, 9)
	e := md.NewInt(0, 9)
	n := md.NewInt(0, 9)
	d := md.NewInt(0, 9)
	m := md.NewInt(1, 9)
	o := md.NewInt(0, 9)
	r := md.NewInt(0, 9)
	y := md.NewInt(0, 9)
	letters := []csolve.VarId{s, e, n, d, m, o, r, y}

	md.Post(csolve.AllDifferent{Vars: letters})
	md.Post(csolve.Linear{
		Coeffs: []float64{1000, 91, -90, 1, -9000, -900, 10, -1},
		Vars:   letters,
		Rel:    csolve.RelEq,
		K:      0,
	})

	res, err := md.Solve(context.Background())
	require.NoError(t, err)
	require.Equal(t, csolve.ResultSolution, res.Kind)

	digits := map[string]int32{
		"S": res.Solution.Int(s), "E": res.Solution.Int(e), "N": res.Solution.Int(n),
		"D": res.Solution.Int(d), "M": res.Solution.Int(m), "O": res.Solution.Int(o),
		"R": res.Solution.Int(r), "Y": res.Solution.Int(y),
	}
	seen := map[int32]bool{}
	for letter, v := range digits {
		require.Falsef(t, seen[v], "letter %s reuses digit %d", letter, v)
		seen[v] = true
	}
	require.Equal(t, int32(1), digits["M"], "M must be 1: the only carry a 4-digit sum can put into a 5th digit")

	send := digits["S"]*1000 + digits["E"]*100 + digits["N"]*10 + digits["D"]
	more := digits["M"]*1000 + digits["O"]*100 + digits["R"]*10 + digits["E"]
	money := digits["M"]*10000 + digits["O"]*1000 + digits["N"]*100 + digits["E"]*10 + digits["Y"]
	require.Equal(t, money, send+more)
}

// Two identically built models solved under identical configuration must
// reach the same result kind and the same optimum.
func TestSolveIsRepeatable(t *testing.T) {
	build := func() *csolve.Model {
		md := csolve.NewModel(csolve.DefaultConfig())
		a := md.NewInt(0, 100)
		b := md.NewInt(0, 100)
		cost := md.NewInt(0, 10_000)
		md.Post(csolve.Linear{Coeffs: []float64{2, 3}, Vars: []csolve.VarId{a, b}, Rel: csolve.RelLe, K: 60})
		md.Post(csolve.Linear{Coeffs: []float64{5, 4, -1}, Vars: []csolve.VarId{a, b, cost}, Rel: csolve.RelEq, K: 0})
		md.Maximize(cost)
		return md
	}

	md1, md2 := build(), build()
	res1, err1 := md1.Solve(context.Background())
	res2, err2 := md2.Solve(context.Background())
	require.NoError(t, err1)
	require.NoError(t, err2)

	if diff := cmp.Diff(res1.Kind, res2.Kind); diff != "" {
		t.Errorf("result kind mismatch (-first +second):\n%s", diff)
	}
	require.Equal(t, res1.Solution.Value(2), res2.Solution.Value(2))
}

// An unknown VarId referenced by a posted constraint must be rejected as
// a validation error (spec.md §7's first error kind), never panic.
func TestSolveRejectsUnknownVariable(t *testing.T) {
	md := csolve.NewModel(csolve.DefaultConfig())
	x := md.NewInt(0, 9)
	bogus := csolve.VarId(999)

	md.Post(csolve.Compare{X: x, Y: bogus, Rel: csolve.RelLt})

	_, err := md.Solve(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, csolve.ErrUnknownVariable)
}
