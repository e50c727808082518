package csolve

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/gitrdm/fdcsolve/internal/lpsolve"
)

// varSpec is a declared-but-not-yet-materialized variable (spec.md §4.8
// step 1, "build"): explicit records the bounds the caller gave; when
// false, inferBounds supplies them at Solve time (spec.md §4.6).
type varSpec struct {
	kind     VarKind
	explicit bool
	lo, hi   float64
}

// Model is the public construction facade (spec.md §4.8/§6): a caller
// declares variables and constraints against it, then calls Solve once.
// A Model may be solved more than once (e.g. under a portfolio runner);
// each Solve rebuilds the store and scheduler from the same declarations.
//
// Grounded on the teacher's FDStore (fd_solver.go), the single type a
// caller builds a problem against before invoking its solver; generalized
// here from goal-based relational solving to the three-phase build /
// prepare / search pipeline spec.md §4.8 describes.
type Model struct {
	cfg   Config
	specs []varSpec
	cons  []Constraint
	obj   *Objective
}

// NewModel creates an empty model under cfg.
func NewModel(cfg Config) *Model {
	return &Model{cfg: cfg}
}

// NewInt declares an integer variable with explicit bounds [lo, hi].
func (md *Model) NewInt(lo, hi int32) VarId {
	id := VarId(len(md.specs))
	md.specs = append(md.specs, varSpec{kind: VarInt, explicit: true, lo: float64(lo), hi: float64(hi)})
	return id
}

// NewIntUnbounded declares an integer variable with no caller-given
// bounds; its range is derived by the bound-inference pre-pass at Solve
// time (spec.md §4.6), falling back to Config.DefaultUnboundedIntBounds.
func (md *Model) NewIntUnbounded() VarId {
	id := VarId(len(md.specs))
	md.specs = append(md.specs, varSpec{kind: VarInt, explicit: false})
	return id
}

// NewFloat declares a float variable with explicit bounds [lo, hi].
func (md *Model) NewFloat(lo, hi float64) VarId {
	id := VarId(len(md.specs))
	md.specs = append(md.specs, varSpec{kind: VarFloat, explicit: true, lo: lo, hi: hi})
	return id
}

// NewFloatUnbounded declares a float variable whose range is inferred.
func (md *Model) NewFloatUnbounded() VarId {
	id := VarId(len(md.specs))
	md.specs = append(md.specs, varSpec{kind: VarFloat, explicit: false})
	return id
}

// NewBool declares a 0/1 variable.
func (md *Model) NewBool() VarId {
	id := VarId(len(md.specs))
	md.specs = append(md.specs, varSpec{kind: VarBool, explicit: true, lo: 0, hi: 1})
	return id
}

// Post adds a constraint to the model's pending set. Constraints may be
// posted in any order; materialization order does not affect the result
// (spec.md §4.3's confluence guarantee).
func (md *Model) Post(c Constraint) { md.cons = append(md.cons, c) }

// Minimize sets the search objective to minimizing v.
func (md *Model) Minimize(v VarId) { md.obj = &Objective{Var: v, Maximize: false} }

// Maximize sets the search objective to maximizing v.
func (md *Model) Maximize(v VarId) { md.obj = &Objective{Var: v, Maximize: true} }

// VariableCount reports how many variables have been declared.
func (md *Model) VariableCount() int { return len(md.specs) }

// ConstraintCount reports how many constraints have been posted.
func (md *Model) ConstraintCount() int { return len(md.cons) }

// validate runs spec.md §7's build-time validation: a declared domain
// with min > max, or a user-provided (not inference-derived) integer
// universe over the 10^6 cap. Returned immediately, before any
// propagation is attempted.
func (md *Model) validate() error {
	for i, sp := range md.specs {
		if !sp.explicit {
			continue
		}
		if sp.lo > sp.hi {
			return fmt.Errorf("csolve: variable %d: %w", i, ErrInvalidDomain)
		}
		if sp.kind != VarFloat {
			universe := int64(sp.hi) - int64(sp.lo) + 1
			if universe > maxIntUniverse {
				return fmt.Errorf("csolve: variable %d: %w", i, ErrDomainUniverseTooLarge)
			}
		}
	}
	n := VarId(len(md.specs))
	for _, c := range md.cons {
		for _, v := range c.vars() {
			if v < 0 || v >= n {
				return fmt.Errorf("csolve: constraint %T: %w", c, ErrUnknownVariable)
			}
		}
	}
	if md.obj != nil && (md.obj.Var < 0 || md.obj.Var >= n) {
		return fmt.Errorf("csolve: objective: %w", ErrUnknownVariable)
	}
	return nil
}

// Solve runs the full pipeline spec.md §4.8 describes: run bound
// inference, materialize variables and propagators, propagate to a root
// fixpoint, tighten bounds once via the LP subsystem when enabled, and
// finally run depth-first branch-and-bound search. A non-nil error is
// always a validation error (spec.md §7 kind 1); Infeasible/Timeout/
// MemoryLimit are reported through SolveResult.Kind instead.
func (md *Model) Solve(ctx context.Context) (SolveResult, error) {
	if err := md.validate(); err != nil {
		return SolveResult{Kind: ResultInfeasible}, err
	}

	start := time.Now()
	Logger().Debug().Int("vars", len(md.specs)).Int("constraints", len(md.cons)).Msg("materializing constraints")

	s := newStore(md.cfg)
	sched := newScheduler()

	var unboundedInt, unboundedFloat []VarId
	for i, sp := range md.specs {
		if sp.explicit {
			continue
		}
		if sp.kind == VarFloat {
			unboundedFloat = append(unboundedFloat, VarId(i))
		} else {
			unboundedInt = append(unboundedInt, VarId(i))
		}
	}
	intBounds, floatBounds := inferBounds(md.cons, unboundedInt, unboundedFloat, md.specs, md.cfg)

	for i, sp := range md.specs {
		if sp.kind == VarFloat {
			lo, hi := sp.lo, sp.hi
			if !sp.explicit {
				b := floatBounds[VarId(i)]
				lo, hi = b[0], b[1]
			}
			s.addFloatVar(lo, hi)
			continue
		}
		lo, hi := int32(sp.lo), int32(sp.hi)
		if !sp.explicit {
			b := intBounds[VarId(i)]
			lo, hi = b[0], b[1]
		}
		s.addIntVar(lo, hi)
	}
	s.sched = sched

	allVars := make([]VarId, len(md.specs))
	for i := range allVars {
		allVars[i] = VarId(i)
	}

	var lpRows []lpsolve.Row
	var unsupported error
	m := &mutator{s: s}

	for _, c := range md.cons {
		switch k := c.(type) {
		case Compare:
			sched.register(newComparePropagator(k.X, k.Y, k.Rel))
		case CompareConst:
			sched.register(newCompareConstPropagator(k.X, k.Rel, k.K))
		case Linear:
			sched.register(newLinearPropagator(k.Coeffs, k.Vars, k.Rel, k.K, k.Float))
			if row, ok := linearToLPRow(md, k.Coeffs, k.Vars, k.Rel, k.K); ok {
				lpRows = append(lpRows, row)
			}
		case BoolLinear:
			coeffs := make([]float64, len(k.Coeffs))
			for i, cf := range k.Coeffs {
				coeffs[i] = float64(cf)
			}
			sched.register(newLinearPropagator(coeffs, k.Vars, k.Rel, float64(k.K), false))
			if row, ok := linearToLPRow(md, coeffs, k.Vars, k.Rel, float64(k.K)); ok {
				lpRows = append(lpRows, row)
			}
		case ReifiedCompare:
			sched.register(newReifiedComparePropagator(k.B, k.X, k.Y, k.Rel))
		case ReifiedLinear:
			sched.register(newReifiedLinearPropagator(k.B, k.Coeffs, k.Vars, k.Rel, k.K))
		case BoolClause:
			sched.register(newBoolClausePropagator(k.Pos, k.Neg))
		case AllDifferent:
			sched.register(newAllDifferentPropagator(k.Vars))
		case AllEqual:
			sched.register(newAllEqualPropagator(k.Vars))
		case Element:
			sched.register(newElementPropagator(k.Idx, k.Array, k.Value))
		case Table:
			sched.register(newTablePropagator(k.Vars, k.Tuples))
		case Count:
			sched.register(newCountPropagator(k.Vars, k.Val, k.Count))
		case MinOf:
			sched.register(newMinOfPropagator(k.Vars, k.Z))
		case MaxOf:
			sched.register(newMaxOfPropagator(k.Vars, k.Z))
		case SumEq:
			sched.register(newSumEqPropagator(k.Vars, k.Z))
			coeffs := make([]float64, len(k.Vars)+1)
			vars := append(append([]VarId(nil), k.Vars...), k.Z)
			for i := range k.Vars {
				coeffs[i] = 1
			}
			coeffs[len(k.Vars)] = -1
			if row, ok := linearToLPRow(md, coeffs, vars, RelEq, 0); ok {
				lpRows = append(lpRows, row)
			}
		case Modulo:
			sched.register(newModuloPropagator(k.X, k.Y, k.Z))
		case AbsOf:
			sched.register(newAbsOfPropagator(k.X, k.Z))
		case Div:
			sched.register(newDivPropagator(k.X, k.Y, k.Z))
		case Mul:
			sched.register(newMulPropagator(k.X, k.Y, k.Z))
		case Convert:
			sched.register(newConvertPropagator(k.From, k.To, k.ToFloat, k.Mode))
		case GCC:
			sched.register(newGCCPropagator(k.Vars, k.Values, k.Counts))
		case Cumulative:
			sched.register(newCumulativePropagator(k.Tasks, k.Capacity))
		default:
			unsupported = fmt.Errorf("csolve: %T: %w", k, ErrUnsupportedAST)
		}
	}
	if unsupported != nil {
		return SolveResult{Kind: ResultInfeasible}, unsupported
	}

	sched.scheduleAll()
	rootStats := Statistics{}
	if err := sched.fixpoint(m, &rootStats.Propagations); err != nil {
		Logger().Debug().Msg("root propagation reached a failure; infeasible")
		return SolveResult{Kind: ResultInfeasible, Stats: finish(rootStats, start)}, nil
	}
	Logger().Debug().Int64("propagations", rootStats.Propagations).Msg("root propagation reached a fixpoint")

	if md.cfg.LPSolverEnabled && len(lpRows) > 0 {
		if infeasible := md.tightenWithLP(m, lpRows, &rootStats); infeasible {
			Logger().Debug().Msg("lp tightening proved infeasible")
			return SolveResult{Kind: ResultInfeasible, Stats: finish(rootStats, start)}, nil
		}
		if err := sched.fixpoint(m, &rootStats.Propagations); err != nil {
			Logger().Debug().Msg("post-lp propagation reached a failure; infeasible")
			return SolveResult{Kind: ResultInfeasible, Stats: finish(rootStats, start)}, nil
		}
		Logger().Debug().Int64("lp_iters", rootStats.LPPhase1Iters+rootStats.LPPhase2Iters).Msg("lp tightening complete")
	}

	Logger().Debug().Bool("optimizing", md.obj != nil).Msg("search started")
	res := Search(ctx, s, sched, allVars, md.obj, md.cfg)
	res.Stats.Propagations += rootStats.Propagations
	res.Stats.LPPhase1Needed = res.Stats.LPPhase1Needed || rootStats.LPPhase1Needed
	res.Stats.LPPhase1Iters += rootStats.LPPhase1Iters
	res.Stats.LPPhase2Iters += rootStats.LPPhase2Iters
	res.Stats.LPRefactorizations += rootStats.LPRefactorizations
	res.Stats.Duration = time.Since(start)

	switch res.Kind {
	case ResultTimeout, ResultMemoryLimit:
		Logger().Warn().Str("kind", res.Kind.String()).Bool("has_best", res.Solution != nil).
			Int64("nodes", res.Stats.Nodes).Msg("search finished")
	default:
		Logger().Debug().Str("kind", res.Kind.String()).Int64("nodes", res.Stats.Nodes).Msg("search finished")
	}
	return res, nil
}

func finish(stats Statistics, start time.Time) Statistics {
	stats.Duration = time.Since(start)
	return stats
}

// linearToLPRow converts a Linear/BoolLinear/SumEq AST (all Sigma c_i
// x_i relop K in shape) into an lpsolve.Row over every declared
// variable, zero-padding columns the row does not mention (spec.md §4.5
// "the model's linear subsystem" is one shared column space across every
// linear constraint). ok is false for RelNe, which has no sound LP-row
// representation (an outer relaxation of "!=" is not a convex region) and
// is left to the propagator alone.
func linearToLPRow(md *Model, coeffs []float64, vars []VarId, rel Relation, k float64) (row lpsolve.Row, ok bool) {
	row = lpsolve.Row{Coeffs: make([]float64, len(md.specs)), RHS: k}
	for i, v := range vars {
		row.Coeffs[v] = coeffs[i]
	}
	switch rel {
	case RelLe, RelLt:
		row.Kind = lpsolve.LE
	case RelGe, RelGt:
		row.Kind = lpsolve.GE
	case RelEq:
		row.Kind = lpsolve.EQ
	default: // RelNe
		return lpsolve.Row{}, false
	}
	return row, true
}

// tightenWithLP runs the LP subsystem once at the root (spec.md §4.5/
// §4.8 step 3) and applies its tightened bounds back onto the domain
// store. Returns true if the LP proved the problem infeasible.
func (md *Model) tightenWithLP(m *mutator, rows []lpsolve.Row, stats *Statistics) bool {
	n := len(md.specs)
	bounds := make([]lpsolve.Bound, n)
	for i := range bounds {
		v := VarId(i)
		bounds[i] = lpsolve.Bound{Lo: m.Min(v).Float(), Hi: m.Max(v).Float()}
	}
	problem := lpsolve.Problem{NumVars: n, Rows: rows, Bounds: bounds}
	tightened, feasible, lpStats := lpsolve.TightenBounds(problem, md.cfg.LPMaxIterations)

	stats.LPPhase1Needed = stats.LPPhase1Needed || lpStats.Phase1Needed
	stats.LPPhase1Iters += int64(lpStats.Phase1Iterations)
	stats.LPPhase2Iters += int64(lpStats.Phase2Iterations)
	stats.LPRefactorizations += int64(lpStats.Refactorizations)

	if !feasible {
		return true
	}
	for i, b := range tightened {
		v := VarId(i)
		var lo, hi Value
		if m.KindOf(v) == KindInt {
			lo = IntValue(int32(math.Ceil(b.Lo - m.Tol())))
			hi = IntValue(int32(math.Floor(b.Hi + m.Tol())))
		} else {
			lo = FloatValue(b.Lo)
			hi = FloatValue(b.Hi)
		}
		errLo := m.SetMin(v, lo)
		errHi := m.SetMax(v, hi)
		if errLo != nil || errHi != nil {
			return true
		}
	}
	return false
}
