package csolve

import "math"

// mulPropagator implements "z = x * y" via interval-arithmetic
// corner-product folding: z's bounds come from the four corner products
// of x and y's current ranges, and each factor's bounds are in turn
// recomputed from z and the other factor's corners — the same folding
// the teacher's fd_arith.go uses for its arithmetic constraint terms,
// generalized here from the teacher's unbounded-precision rational terms
// to spec.md's bounded int/float Value domains (spec.md §3/§4.4).
type mulPropagator struct {
	x, y, z VarId
}

func newMulPropagator(x, y, z VarId) *mulPropagator { return &mulPropagator{x: x, y: y, z: z} }

func (p *mulPropagator) watches() []VarId { return []VarId{p.x, p.y, p.z} }
func (p *mulPropagator) name() string      { return "mul" }

func (p *mulPropagator) propagate(m *mutator) error {
	xLo, xHi := m.Min(p.x).Float(), m.Max(p.x).Float()
	yLo, yHi := m.Min(p.y).Float(), m.Max(p.y).Float()

	zLo, zHi := corners(xLo, xHi, yLo, yHi)
	if err := setBound(m, p.z, zLo, zHi); err != nil {
		return err
	}

	zLoC, zHiC := m.Min(p.z).Float(), m.Max(p.z).Float()
	if xNewLo, xNewHi, ok := divideRange(zLoC, zHiC, yLo, yHi); ok {
		if err := setBound(m, p.x, xNewLo, xNewHi); err != nil {
			return err
		}
	}
	xLo, xHi = m.Min(p.x).Float(), m.Max(p.x).Float()
	if yNewLo, yNewHi, ok := divideRange(zLoC, zHiC, xLo, xHi); ok {
		if err := setBound(m, p.y, yNewLo, yNewHi); err != nil {
			return err
		}
	}
	return nil
}

// corners returns the min/max of the four corner products of two ranges.
func corners(aLo, aHi, bLo, bHi float64) (lo, hi float64) {
	c := [4]float64{aLo * bLo, aLo * bHi, aHi * bLo, aHi * bHi}
	lo, hi = c[0], c[0]
	for _, v := range c[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// divideRange computes the range of num/den given num in [numLo,numHi]
// and den in [denLo,denHi], skipping the computation (ok=false) whenever
// the denominator range contains zero.
func divideRange(numLo, numHi, denLo, denHi float64) (lo, hi float64, ok bool) {
	if denLo <= 0 && denHi >= 0 {
		return 0, 0, false
	}
	c := [4]float64{numLo / denLo, numLo / denHi, numHi / denLo, numHi / denHi}
	lo, hi = c[0], c[0]
	for _, v := range c[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi, true
}

func setBound(m *mutator, v VarId, lo, hi float64) error {
	if m.KindOf(v) == KindInt {
		if err := m.SetMin(v, IntValue(ceilInt(lo))); err != nil {
			return err
		}
		return m.SetMax(v, IntValue(floorInt(hi)))
	}
	if err := m.SetMin(v, FloatValue(lo)); err != nil {
		return err
	}
	return m.SetMax(v, FloatValue(hi))
}

// divPropagator implements "z = x / y", integer division truncating
// toward zero (spec.md §3). Uses the same corner-based range folding as
// mulPropagator, guarding against a divisor range that still straddles
// zero.
type divPropagator struct {
	x, y, z VarId
}

func newDivPropagator(x, y, z VarId) *divPropagator { return &divPropagator{x: x, y: y, z: z} }

func (p *divPropagator) watches() []VarId { return []VarId{p.x, p.y, p.z} }
func (p *divPropagator) name() string      { return "div" }

func (p *divPropagator) propagate(m *mutator) error {
	xLo, xHi := m.Min(p.x).Float(), m.Max(p.x).Float()
	yLo, yHi := m.Min(p.y).Float(), m.Max(p.y).Float()
	if yLo <= 0 && yHi >= 0 && yLo == yHi {
		return newFailure("division by zero")
	}
	if zLo, zHi, ok := divideRange(xLo, xHi, yLo, yHi); ok {
		if err := setBound(m, p.z, math.Trunc(zLo), math.Trunc(zHi)); err != nil {
			return err
		}
	}
	zLo, zHi := m.Min(p.z).Float(), m.Max(p.z).Float()
	xLoNew, xHiNew := corners(zLo, zHi, yLo, yHi)
	// Truncation leaves a remainder of magnitude at most |y|-1.
	if slack := math.Max(math.Abs(yLo), math.Abs(yHi)) - 1; slack > 0 {
		xLoNew, xHiNew = xLoNew-slack, xHiNew+slack
	}
	return setBound(m, p.x, xLoNew, xHiNew)
}

// absOfPropagator implements "z = |x|" via bounds consistency: z's range
// folds from x's corners under abs, and x is in turn clamped to
// [-z.max, z.max] (the enforced hole when z.min > 0 is left unpruned,
// since narrower/domain only exposes bound and single-value operations,
// not interval-removal — spec.md §4.1's float domain has the same
// limitation for removeValue).
type absOfPropagator struct {
	x, z VarId
}

func newAbsOfPropagator(x, z VarId) *absOfPropagator { return &absOfPropagator{x: x, z: z} }

func (p *absOfPropagator) watches() []VarId { return []VarId{p.x, p.z} }
func (p *absOfPropagator) name() string      { return "abs_of" }

func (p *absOfPropagator) propagate(m *mutator) error {
	xLo, xHi := m.Min(p.x).Float(), m.Max(p.x).Float()
	lo, hi := math.Abs(xLo), math.Abs(xHi)
	if lo > hi {
		lo, hi = hi, lo
	}
	if xLo <= 0 && xHi >= 0 {
		lo = 0
	}
	if err := setBound(m, p.z, lo, hi); err != nil {
		return err
	}
	zHi := m.Max(p.z).Float()
	return setBound(m, p.x, -zHi, zHi)
}

// moduloPropagator implements "z = x mod y" with Go's truncated-division
// sign convention (result takes the sign of x, magnitude < |y|). Filters
// via bounds consistency only, matching absOfPropagator's same scope
// limitation.
type moduloPropagator struct {
	x, y, z VarId
}

func newModuloPropagator(x, y, z VarId) *moduloPropagator {
	return &moduloPropagator{x: x, y: y, z: z}
}

func (p *moduloPropagator) watches() []VarId { return []VarId{p.x, p.y, p.z} }
func (p *moduloPropagator) name() string      { return "modulo" }

func (p *moduloPropagator) propagate(m *mutator) error {
	if !m.IsFixed(p.y) {
		return nil // bound on the modulus needed to say anything useful
	}
	yv := m.Min(p.y).Int()
	if yv == 0 {
		return newFailure("modulo by zero")
	}
	bound := yv
	if bound < 0 {
		bound = -bound
	}
	xLo, xHi := m.Min(p.x).Int(), m.Max(p.x).Int()
	lo, hi := int32(0), int32(0)
	switch {
	case xLo >= 0:
		lo, hi = 0, bound-1
	case xHi <= 0:
		lo, hi = -(bound - 1), 0
	default:
		lo, hi = -(bound - 1), bound-1
	}
	return setBound(m, p.z, float64(lo), float64(hi))
}
