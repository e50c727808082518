package csolve

// comparePropagator implements bounds propagation for "x relop y"
// (spec.md §4.4 "Binary compare"). Grounded on the teacher's inequality
// handling (fd_ineq.go) generalized from the teacher's copy-on-write
// constraint application to the trail-backed mutator contract.
type comparePropagator struct {
	x, y VarId
	rel  Relation
}

func newComparePropagator(x, y VarId, rel Relation) *comparePropagator {
	return &comparePropagator{x: x, y: y, rel: rel}
}

func (p *comparePropagator) watches() []VarId { return []VarId{p.x, p.y} }
func (p *comparePropagator) name() string     { return "compare" }

func (p *comparePropagator) propagate(m *mutator) error {
	switch p.rel {
	case RelEq:
		return p.filterEq(m)
	case RelNe:
		return p.filterNe(m)
	case RelLt:
		return p.filterLt(m, p.x, p.y, m.Step(p.x))
	case RelLe:
		return p.filterLe(m, p.x, p.y)
	case RelGt:
		return p.filterLt(m, p.y, p.x, m.Step(p.y))
	case RelGe:
		return p.filterLe(m, p.y, p.x)
	}
	return nil
}

// filterEq tightens both bounds to the intersection; fails if disjoint
// (spec.md §4.4: "For =: tighten both bounds to the intersection").
func (p *comparePropagator) filterEq(m *mutator) error {
	if err := m.SetMin(p.x, m.Min(p.y)); err != nil {
		return err
	}
	if err := m.SetMax(p.x, m.Max(p.y)); err != nil {
		return err
	}
	if err := m.SetMin(p.y, m.Min(p.x)); err != nil {
		return err
	}
	if err := m.SetMax(p.y, m.Max(p.x)); err != nil {
		return err
	}
	return nil
}

// filterNe only acts when one side is fixed (spec.md §4.4).
func (p *comparePropagator) filterNe(m *mutator) error {
	if m.IsFixed(p.x) {
		return removeOrPrune(m, p.y, m.Min(p.x))
	}
	if m.IsFixed(p.y) {
		return removeOrPrune(m, p.x, m.Min(p.y))
	}
	return nil
}

// removeOrPrune removes val from v's domain for integers. For floats it
// prunes nothing: it fails only when v is already fixed to val.
func removeOrPrune(m *mutator, v VarId, val Value) error {
	if m.KindOf(v) == KindInt {
		return m.Remove(v, val)
	}
	// A float domain has no discrete "remove"; disequality only bites
	// when v is itself fixed to val, in which case it is infeasible.
	if m.IsFixed(v) && EqualTol(m.Min(v), val, m.Tol()) {
		return newFailure("float disequality violated")
	}
	return nil
}

// filterLt enforces a < b: a.max <= b.max - step, b.min >= a.min + step.
func (p *comparePropagator) filterLt(m *mutator, a, b VarId, step float64) error {
	if err := m.SetMax(a, subtractStep(m.Max(b), step, m.KindOf(a))); err != nil {
		return err
	}
	if err := m.SetMin(b, addStep(m.Min(a), step, m.KindOf(b))); err != nil {
		return err
	}
	return nil
}

// filterLe enforces a <= b.
func (p *comparePropagator) filterLe(m *mutator, a, b VarId) error {
	if err := m.SetMax(a, m.Max(b)); err != nil {
		return err
	}
	if err := m.SetMin(b, m.Min(a)); err != nil {
		return err
	}
	return nil
}

func subtractStep(v Value, step float64, k Kind) Value {
	if k == KindInt {
		return IntValue(v.Int() - int32(step))
	}
	return FloatValue(v.Float() - step)
}

func addStep(v Value, step float64, k Kind) Value {
	if k == KindInt {
		return IntValue(v.Int() + int32(step))
	}
	return FloatValue(v.Float() + step)
}

// compareConstPropagator implements "x relop k" for a literal constant.
type compareConstPropagator struct {
	x   VarId
	rel Relation
	k   Value
}

func newCompareConstPropagator(x VarId, rel Relation, k Value) *compareConstPropagator {
	return &compareConstPropagator{x: x, rel: rel, k: k}
}

func (p *compareConstPropagator) watches() []VarId { return []VarId{p.x} }
func (p *compareConstPropagator) name() string     { return "compare_const" }

func (p *compareConstPropagator) propagate(m *mutator) error {
	switch p.rel {
	case RelEq:
		return m.Assign(p.x, p.k)
	case RelNe:
		return removeOrPrune(m, p.x, p.k)
	case RelLt:
		return m.SetMax(p.x, subtractStep(p.k, m.Step(p.x), m.KindOf(p.x)))
	case RelLe:
		return m.SetMax(p.x, p.k)
	case RelGt:
		return m.SetMin(p.x, addStep(p.k, m.Step(p.x), m.KindOf(p.x)))
	case RelGe:
		return m.SetMin(p.x, p.k)
	}
	return nil
}
