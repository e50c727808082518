package csolve

// allEqualPropagator implements AllEqual by tightening every variable to
// the intersection of all their bounds, the same way comparePropagator's
// filterEq does for a single pair (spec.md §3/§4.4 treats AllEqual as "all
// pairwise equal", and a pairwise-equal bounds fixpoint is exactly the
// bound intersection of the whole group).
//
// Grounded on the teacher's equality-closure handling in fd_arith.go,
// generalized from pairwise unification to an n-ary bound intersection.
type allEqualPropagator struct {
	vars []VarId
}

func newAllEqualPropagator(vars []VarId) *allEqualPropagator {
	return &allEqualPropagator{vars: append([]VarId(nil), vars...)}
}

func (p *allEqualPropagator) watches() []VarId { return append([]VarId(nil), p.vars...) }
func (p *allEqualPropagator) name() string      { return "all_equal" }

func (p *allEqualPropagator) propagate(m *mutator) error {
	if len(p.vars) == 0 {
		return nil
	}
	lo, hi := m.Min(p.vars[0]), m.Max(p.vars[0])
	for _, v := range p.vars[1:] {
		if LessTol(lo, m.Min(v), m.Tol()) {
			lo = m.Min(v)
		}
		if LessTol(m.Max(v), hi, m.Tol()) {
			hi = m.Max(v)
		}
	}
	for _, v := range p.vars {
		if err := m.SetMin(v, lo); err != nil {
			return err
		}
		if err := m.SetMax(v, hi); err != nil {
			return err
		}
	}
	return nil
}
