package csolve

// tablePropagator implements GAC filtering over an explicit tuple list
// (spec.md §3/§4.4 "table"): a value survives in a variable's domain only
// if some tuple in Tuples agrees with the current domains on every
// position and matches that value at this position.
//
// Grounded on the teacher's fact-table matching idiom (pldb/fact_store.go
// matches rows by column), generalized from the teacher's unbounded
// relational unification to spec.md's fixed-arity, fixed-type tuple
// filtering over finite-domain integer variables.
type tablePropagator struct {
	vars   []VarId
	tuples [][]int32
}

func newTablePropagator(vars []VarId, tuples [][]int32) *tablePropagator {
	cp := make([][]int32, len(tuples))
	for i, t := range tuples {
		cp[i] = append([]int32(nil), t...)
	}
	return &tablePropagator{vars: append([]VarId(nil), vars...), tuples: cp}
}

func (p *tablePropagator) watches() []VarId { return append([]VarId(nil), p.vars...) }
func (p *tablePropagator) name() string      { return "table" }

func (p *tablePropagator) propagate(m *mutator) error {
	n := len(p.vars)
	supported := make([]map[int32]bool, n)
	for i := range supported {
		supported[i] = make(map[int32]bool)
	}

	for _, tuple := range p.tuples {
		ok := true
		for i, x := range tuple {
			if !m.Contains(p.vars[i], IntValue(x)) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		for i, x := range tuple {
			supported[i][x] = true
		}
	}

	for i, v := range p.vars {
		vals := m.Values(v)
		if vals == nil {
			continue
		}
		for _, x := range vals {
			if !supported[i][x] {
				if err := m.Remove(v, IntValue(x)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
