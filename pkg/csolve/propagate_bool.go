package csolve

// boolClausePropagator implements "(OR pos_i) OR (OR NOT neg_j)" over 0/1
// variables (spec.md §3/§4.4 "boolean clause"). It watches every literal
// in the clause and, each time it runs, scans for whether the clause is
// already satisfied, already violated, or down to exactly one unassigned
// literal (the unit-clause case, which forces that literal true).
//
// Grounded on the teacher's fd_bool.go boolean-domain handling: same
// scan-every-literal discipline, generalized from the teacher's
// copy-on-write state to the trail-backed mutator and widened from
// single-literal checks to an arbitrary-width clause.
type boolClausePropagator struct {
	lits    []VarId // literal variable for each position
	negated []bool  // true if the literal is "NOT lits[i]"
}

func newBoolClausePropagator(pos, neg []VarId) *boolClausePropagator {
	lits := make([]VarId, 0, len(pos)+len(neg))
	negated := make([]bool, 0, len(pos)+len(neg))
	for _, v := range pos {
		lits = append(lits, v)
		negated = append(negated, false)
	}
	for _, v := range neg {
		lits = append(lits, v)
		negated = append(negated, true)
	}
	return &boolClausePropagator{lits: lits, negated: negated}
}

func (p *boolClausePropagator) watches() []VarId { return append([]VarId(nil), p.lits...) }
func (p *boolClausePropagator) name() string      { return "bool_clause" }

// litState reports whether literal i is already known true, known false,
// or still free (fixed == false).
func (p *boolClausePropagator) litState(m *mutator, i int) (fixed, value bool) {
	v := p.lits[i]
	if !m.IsFixed(v) {
		return false, false
	}
	bit := m.Min(v).Int() != 0
	return true, bit != p.negated[i]
}

func (p *boolClausePropagator) assignTrue(m *mutator, i int) error {
	val := int32(1)
	if p.negated[i] {
		val = 0
	}
	return m.Assign(p.lits[i], IntValue(val))
}

func (p *boolClausePropagator) propagate(m *mutator) error {
	freeIdx := -1
	for i := range p.lits {
		fixed, value := p.litState(m, i)
		if !fixed {
			if freeIdx != -1 {
				freeIdx = -2 // more than one free literal, nothing to force yet
				continue
			}
			freeIdx = i
			continue
		}
		if value {
			return nil // clause already satisfied
		}
	}
	switch freeIdx {
	case -1:
		return newFailure("boolean clause violated") // all literals false
	case -2:
		return nil // more than one free literal, wait for the next event
	default:
		return p.assignTrue(m, freeIdx) // unit clause
	}
}
