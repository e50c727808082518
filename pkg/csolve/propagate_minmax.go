package csolve

// minOfPropagator implements "z = min(vars)" and maxOfPropagator "z =
// max(vars)" (spec.md §3/§4.4), each bidirectionally: z's bounds are
// tightened from the group, and the group's lower (for min) or upper
// (for max) bounds are tightened back from z so no variable can drift
// below/above what z allows.
//
// Grounded on the teacher's reduction-style folds in fd_arith.go (same
// "tighten the aggregate from the terms, then the terms from the
// aggregate" shape used there for sum folding), generalized to min/max.
type minOfPropagator struct {
	vars []VarId
	z    VarId
}

func newMinOfPropagator(vars []VarId, z VarId) *minOfPropagator {
	return &minOfPropagator{vars: append([]VarId(nil), vars...), z: z}
}

func (p *minOfPropagator) watches() []VarId {
	return append(append([]VarId(nil), p.vars...), p.z)
}
func (p *minOfPropagator) name() string { return "min_of" }

func (p *minOfPropagator) propagate(m *mutator) error {
	if len(p.vars) == 0 {
		return nil
	}
	tol := m.Tol()
	lo, hi := m.Min(p.vars[0]), m.Max(p.vars[0])
	for _, v := range p.vars[1:] {
		if LessTol(m.Min(v), lo, tol) {
			lo = m.Min(v)
		}
		if LessTol(m.Max(v), hi, tol) {
			hi = m.Max(v)
		}
	}
	if err := m.SetMin(p.z, lo); err != nil {
		return err
	}
	if err := m.SetMax(p.z, hi); err != nil {
		return err
	}
	// Every term must be >= z.min; the overall minimum can be no smaller
	// than z.min either.
	zMin := m.Min(p.z)
	for _, v := range p.vars {
		if err := m.SetMin(v, zMin); err != nil {
			return err
		}
	}
	return nil
}

type maxOfPropagator struct {
	vars []VarId
	z    VarId
}

func newMaxOfPropagator(vars []VarId, z VarId) *maxOfPropagator {
	return &maxOfPropagator{vars: append([]VarId(nil), vars...), z: z}
}

func (p *maxOfPropagator) watches() []VarId {
	return append(append([]VarId(nil), p.vars...), p.z)
}
func (p *maxOfPropagator) name() string { return "max_of" }

func (p *maxOfPropagator) propagate(m *mutator) error {
	if len(p.vars) == 0 {
		return nil
	}
	tol := m.Tol()
	lo, hi := m.Min(p.vars[0]), m.Max(p.vars[0])
	for _, v := range p.vars[1:] {
		if LessTol(lo, m.Min(v), tol) {
			lo = m.Min(v)
		}
		if LessTol(hi, m.Max(v), tol) {
			hi = m.Max(v)
		}
	}
	if err := m.SetMin(p.z, lo); err != nil {
		return err
	}
	if err := m.SetMax(p.z, hi); err != nil {
		return err
	}
	zMax := m.Max(p.z)
	for _, v := range p.vars {
		if err := m.SetMax(v, zMax); err != nil {
			return err
		}
	}
	return nil
}
