package csolve

// countPropagator implements "|{i : vars[i] = val}| = count" (spec.md
// §3/§4.4 "count") by tightening count's bounds from how many variables
// are already fixed to val ("must") and how many still could be
// ("can"), and, once count is pinned at one extreme, forcing the
// remaining free variables accordingly.
//
// Grounded on the teacher's cardinality bookkeeping in fd_arith.go,
// generalized from a single running tally to the must/can bound pair
// spec.md's bounds-consistency style calls for.
type countPropagator struct {
	vars []VarId
	val  int32
	cnt  VarId
}

func newCountPropagator(vars []VarId, val int32, cnt VarId) *countPropagator {
	return &countPropagator{vars: append([]VarId(nil), vars...), val: val, cnt: cnt}
}

func (p *countPropagator) watches() []VarId {
	return append(append([]VarId(nil), p.vars...), p.cnt)
}
func (p *countPropagator) name() string { return "count" }

func (p *countPropagator) propagate(m *mutator) error {
	must, can := 0, 0
	var freeVars []VarId
	for _, v := range p.vars {
		if m.IsFixed(v) {
			if m.Min(v).Int() == p.val {
				must++
				can++
			}
			continue
		}
		if m.Contains(v, IntValue(p.val)) {
			can++
			freeVars = append(freeVars, v)
		}
	}

	if err := m.SetMin(p.cnt, IntValue(int32(must))); err != nil {
		return err
	}
	if err := m.SetMax(p.cnt, IntValue(int32(can))); err != nil {
		return err
	}

	if m.IsFixed(p.cnt) {
		target := m.Min(p.cnt).Int()
		if target == int32(must) {
			// No more free variable may take val.
			for _, v := range freeVars {
				if err := m.Remove(v, IntValue(p.val)); err != nil {
					return err
				}
			}
		} else if target == int32(can) {
			// Every free variable that still can must take val.
			for _, v := range freeVars {
				if err := m.Assign(v, IntValue(p.val)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
