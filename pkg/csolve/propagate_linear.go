package csolve

import "math"

// linearPropagator implements the two-phase bounds filter for
// "Sigma c_i*x_i relop K" (spec.md §4.4 "Linear integer"/"Linear float").
// Phase 1 computes the overall [lo,hi] interval of the sum accounting for
// coefficient sign; phase 2 tightens each variable's bound from the
// residual range of the others. Equality applies both directions; <=/>=
// apply only the matching direction; != prunes only once all but one
// term is fixed.
//
// Grounded on the teacher's arithmetic constraint handling in
// fd_arith.go (interval-arithmetic corner-product folding for products,
// the same idea applied here to linear sums), generalized to the
// spec.md two-phase residual-range algorithm and to arbitrary rational
// coefficients rather than the teacher's unit-offset constraints.
type linearPropagator struct {
	coeffs  []float64
	varsIds []VarId
	rel     Relation
	k       float64
	isFloat bool
}

func newLinearPropagator(coeffs []float64, vars []VarId, rel Relation, k float64, isFloat bool) *linearPropagator {
	return &linearPropagator{coeffs: coeffs, varsIds: vars, rel: rel, k: k, isFloat: isFloat}
}

func (p *linearPropagator) watches() []VarId { return append([]VarId(nil), p.varsIds...) }
func (p *linearPropagator) name() string      { return "linear" }

func (p *linearPropagator) propagate(m *mutator) error {
	n := len(p.varsIds)
	contribLo := make([]float64, n)
	contribHi := make([]float64, n)
	var loSum, hiSum float64
	for i, v := range p.varsIds {
		c := p.coeffs[i]
		xmin, xmax := m.Min(v).Float(), m.Max(v).Float()
		var lo, hi float64
		if c >= 0 {
			lo, hi = c*xmin, c*xmax
		} else {
			lo, hi = c*xmax, c*xmin
		}
		contribLo[i], contribHi[i] = lo, hi
		loSum += lo
		hiSum += hi
	}

	wantUpper, wantLower := false, false
	upperK, lowerK := p.k, p.k
	step := m.stepFor(p.varsIds, p.isFloat)
	switch p.rel {
	case RelEq:
		wantUpper, wantLower = true, true
	case RelLe:
		wantUpper = true
	case RelGe:
		wantLower = true
	case RelLt:
		wantUpper = true
		upperK = p.k - step
	case RelGt:
		wantLower = true
		lowerK = p.k + step
	case RelNe:
		return p.filterNe(m, contribLo, contribHi, loSum, hiSum)
	}

	if wantUpper {
		for i, v := range p.varsIds {
			c := p.coeffs[i]
			if c == 0 {
				continue
			}
			othersLo := loSum - contribLo[i]
			bound := upperK - othersLo
			if err := p.applyBound(m, v, c, bound, true); err != nil {
				return err
			}
		}
	}
	if wantLower {
		for i, v := range p.varsIds {
			c := p.coeffs[i]
			if c == 0 {
				continue
			}
			othersHi := hiSum - contribHi[i]
			bound := lowerK - othersHi
			if err := p.applyBound(m, v, c, bound, false); err != nil {
				return err
			}
		}
	}
	return nil
}

// applyBound tightens c*x to stay <= bound (upper=true) or >= bound
// (upper=false), dividing through by c and flipping direction for
// negative coefficients.
func (p *linearPropagator) applyBound(m *mutator, v VarId, c, bound float64, upper bool) error {
	x := bound / c
	isMax := upper == (c > 0)
	if m.KindOf(v) == KindInt {
		if isMax {
			return m.SetMax(v, IntValue(floorInt(x)))
		}
		return m.SetMin(v, IntValue(ceilInt(x)))
	}
	if isMax {
		return m.SetMax(v, FloatValue(x))
	}
	return m.SetMin(v, FloatValue(x))
}

// filterNe prunes only when all but one term is fixed (spec.md §4.4).
func (p *linearPropagator) filterNe(m *mutator, contribLo, contribHi []float64, loSum, hiSum float64) error {
	freeIdx := -1
	fixedSum := 0.0
	for i, v := range p.varsIds {
		if m.IsFixed(v) {
			fixedSum += p.coeffs[i] * m.Min(v).Float()
			continue
		}
		if freeIdx != -1 {
			return nil // more than one free term, nothing to prune
		}
		freeIdx = i
	}
	if freeIdx == -1 {
		if floatEq(fixedSum, p.k, m.Tol()) {
			return newFailure("linear disequality violated")
		}
		return nil
	}
	c := p.coeffs[freeIdx]
	if c == 0 {
		return nil
	}
	v := p.varsIds[freeIdx]
	forbidden := (p.k - fixedSum) / c
	return removeOrPrune(m, v, valueFor(m, v, forbidden))
}

func valueFor(m *mutator, v VarId, x float64) Value {
	if m.KindOf(v) == KindInt {
		return IntValue(int32(math.Round(x)))
	}
	return FloatValue(x)
}

func floatEq(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func floorInt(x float64) int32 { return int32(math.Floor(x + 1e-9)) }
func ceilInt(x float64) int32  { return int32(math.Ceil(x - 1e-9)) }

// stepFor returns the minimum-change unit for a strict linear relation:
// 1 for an all-integer row, the finest step among the float variables
// otherwise (spec.md §4.4: "uses the grid step as the minimum-change
// unit; any tightening smaller than s/2 is dropped").
func (m *mutator) stepFor(vars []VarId, isFloat bool) float64 {
	if !isFloat {
		return 1
	}
	step := math.Inf(1)
	for _, v := range vars {
		if s := m.Step(v); s < step {
			step = s
		}
	}
	if math.IsInf(step, 1) {
		return 1
	}
	return step
}
