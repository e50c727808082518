package csolve

// elementPropagator implements "array[idx] = value" (spec.md §3/§4.4
// "element"), bidirectionally: idx's domain is pruned to indices whose
// array variable can still equal value, and value's bounds are narrowed
// to the hull of the surviving array positions' bounds (values inside
// that hull are not removed).
//
// Grounded on the teacher's description of indexed access filtering in
// fd_arith.go (the same "restrict the index, then restrict the result"
// shape used there for array-like relational terms), generalized to
// spec.md's explicit array-of-variables element constraint.
type elementPropagator struct {
	idx   VarId
	array []VarId
	value VarId
}

func newElementPropagator(idx VarId, array []VarId, value VarId) *elementPropagator {
	return &elementPropagator{idx: idx, array: append([]VarId(nil), array...), value: value}
}

func (p *elementPropagator) watches() []VarId {
	return append(append([]VarId{p.idx}, p.array...), p.value)
}
func (p *elementPropagator) name() string { return "element" }

func (p *elementPropagator) propagate(m *mutator) error {
	idxVals := m.Values(p.idx)
	if idxVals == nil {
		return nil
	}
	tol := m.Tol()

	// Prune idx: drop any index i whose array[i] cannot possibly equal value.
	for _, i := range idxVals {
		if int(i) < 0 || int(i) >= len(p.array) {
			if err := m.Remove(p.idx, IntValue(i)); err != nil {
				return err
			}
			continue
		}
		av := p.array[i]
		if !rangesOverlap(m.Min(av), m.Max(av), m.Min(p.value), m.Max(p.value), tol) {
			if err := m.Remove(p.idx, IntValue(i)); err != nil {
				return err
			}
		}
	}

	// Prune value to the union of bounds over array positions idx can
	// still select.
	remaining := m.Values(p.idx)
	if len(remaining) == 0 {
		return nil
	}
	lo, hi := m.Min(p.array[remaining[0]]), m.Max(p.array[remaining[0]])
	for _, i := range remaining[1:] {
		av := p.array[i]
		if LessTol(m.Min(av), lo, tol) {
			lo = m.Min(av)
		}
		if LessTol(hi, m.Max(av), tol) {
			hi = m.Max(av)
		}
	}
	if err := m.SetMin(p.value, lo); err != nil {
		return err
	}
	if err := m.SetMax(p.value, hi); err != nil {
		return err
	}

	// If idx is fixed, the array cell and value must coincide exactly.
	if m.IsFixed(p.idx) {
		i := int(m.Min(p.idx).Int())
		if i < 0 || i >= len(p.array) {
			return newFailure("element index out of range")
		}
		av := p.array[i]
		if err := m.SetMin(av, m.Min(p.value)); err != nil {
			return err
		}
		if err := m.SetMax(av, m.Max(p.value)); err != nil {
			return err
		}
		if err := m.SetMin(p.value, m.Min(av)); err != nil {
			return err
		}
		if err := m.SetMax(p.value, m.Max(av)); err != nil {
			return err
		}
	}
	return nil
}

// rangesOverlap reports whether [aLo,aHi] and [bLo,bHi] intersect:
// neither range lies strictly below the other.
func rangesOverlap(aLo, aHi, bLo, bHi Value, tol float64) bool {
	return !LessTol(aHi, bLo, tol) && !LessTol(bHi, aLo, tol)
}
