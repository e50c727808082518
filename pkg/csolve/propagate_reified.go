package csolve

// reifiedComparePropagator implements "b <=> (x relop y)" (spec.md §3/§4.4).
// Every direction — forward (b fixed drives x,y), backward (x,y bounds
// entail b) — is evaluated unconditionally on every call; none is skipped
// because an earlier one already fired. spec.md §9's Open Question records
// a historical bug where an early-exit ("if forward fired, skip backward")
// shortcut silently missed propagation; this implementation resolves it by
// never short-circuiting between directions.
//
// Grounded on the teacher's description of reification in fd_reify.go
// (driving a boolean from constraint satisfaction and back), generalized
// to the trail-backed mutator and to all six Relation variants rather
// than the teacher's equality-only reification.
type reifiedComparePropagator struct {
	b    VarId
	x, y VarId
	rel  Relation
}

func newReifiedComparePropagator(b, x, y VarId, rel Relation) *reifiedComparePropagator {
	return &reifiedComparePropagator{b: b, x: x, y: y, rel: rel}
}

func (p *reifiedComparePropagator) watches() []VarId { return []VarId{p.b, p.x, p.y} }
func (p *reifiedComparePropagator) name() string      { return "reified_compare" }

func (p *reifiedComparePropagator) propagate(m *mutator) error {
	var errs [3]error

	if m.IsFixed(p.b) {
		rel := p.rel
		if m.Min(p.b).Int() == 0 {
			rel = negateRelation(rel)
		}
		errs[0] = (&comparePropagator{x: p.x, y: p.y, rel: rel}).propagate(m)
	}

	entailedTrue, entailedFalse := relEntailed(m, p.x, p.y, p.rel)
	if entailedTrue {
		errs[1] = m.Assign(p.b, IntValue(1))
	}
	if entailedFalse {
		errs[2] = m.Assign(p.b, IntValue(0))
	}

	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

// reifiedLinearPropagator implements "b <=> (Sigma c_i x_i relop K)" with
// the same no-early-exit discipline as reifiedComparePropagator.
type reifiedLinearPropagator struct {
	b       VarId
	coeffs  []float64
	varsIds []VarId
	rel     Relation
	k       float64
}

func newReifiedLinearPropagator(b VarId, coeffs []float64, vars []VarId, rel Relation, k float64) *reifiedLinearPropagator {
	return &reifiedLinearPropagator{b: b, coeffs: coeffs, varsIds: vars, rel: rel, k: k}
}

func (p *reifiedLinearPropagator) watches() []VarId {
	return append([]VarId{p.b}, p.varsIds...)
}
func (p *reifiedLinearPropagator) name() string { return "reified_linear" }

func (p *reifiedLinearPropagator) propagate(m *mutator) error {
	var errs [3]error

	if m.IsFixed(p.b) {
		rel := p.rel
		if m.Min(p.b).Int() == 0 {
			rel = negateRelation(rel)
		}
		lp := newLinearPropagator(p.coeffs, p.varsIds, rel, p.k, false)
		errs[0] = lp.propagate(m)
	}

	lo, hi := linearBounds(m, p.coeffs, p.varsIds)
	entailedTrue, entailedFalse := linearEntailed(lo, hi, p.rel, p.k, m.Tol())
	if entailedTrue {
		errs[1] = m.Assign(p.b, IntValue(1))
	}
	if entailedFalse {
		errs[2] = m.Assign(p.b, IntValue(0))
	}

	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

func negateRelation(r Relation) Relation {
	switch r {
	case RelEq:
		return RelNe
	case RelNe:
		return RelEq
	case RelLt:
		return RelGe
	case RelLe:
		return RelGt
	case RelGt:
		return RelLe
	case RelGe:
		return RelLt
	}
	return r
}

// relEntailed reports whether x relop y is entailed true or false by the
// current bounds alone, with neither case able to suppress the other.
func relEntailed(m *mutator, x, y VarId, rel Relation) (entailedTrue, entailedFalse bool) {
	minX, maxX := m.Min(x).Float(), m.Max(x).Float()
	minY, maxY := m.Min(y).Float(), m.Max(y).Float()
	tol := m.Tol()
	fixedEq := m.IsFixed(x) && m.IsFixed(y) && floatEq(minX, minY, tol)
	disjoint := maxX < minY-tol || maxY < minX-tol

	switch rel {
	case RelEq:
		entailedTrue = fixedEq
		entailedFalse = disjoint
	case RelNe:
		entailedTrue = disjoint
		entailedFalse = fixedEq
	case RelLe:
		entailedTrue = maxX <= minY+tol
		entailedFalse = minX > maxY+tol
	case RelGe:
		entailedTrue = minX >= maxY-tol
		entailedFalse = maxX < minY-tol
	case RelLt:
		entailedTrue = maxX < minY-tol
		entailedFalse = minX >= maxY-tol
	case RelGt:
		entailedTrue = minX > maxY+tol
		entailedFalse = maxX <= minY+tol
	}
	return entailedTrue, entailedFalse
}

// linearBounds computes the phase-1 interval of Sigma c_i x_i, reusing the
// same sign-aware folding as linearPropagator.propagate.
func linearBounds(m *mutator, coeffs []float64, vars []VarId) (lo, hi float64) {
	for i, v := range vars {
		c := coeffs[i]
		xmin, xmax := m.Min(v).Float(), m.Max(v).Float()
		if c >= 0 {
			lo += c * xmin
			hi += c * xmax
		} else {
			lo += c * xmax
			hi += c * xmin
		}
	}
	return lo, hi
}

func linearEntailed(lo, hi float64, rel Relation, k, tol float64) (entailedTrue, entailedFalse bool) {
	switch rel {
	case RelEq:
		entailedTrue = lo == hi && floatEq(lo, k, tol)
		entailedFalse = hi < k-tol || lo > k+tol
	case RelNe:
		entailedTrue = hi < k-tol || lo > k+tol
		entailedFalse = lo == hi && floatEq(lo, k, tol)
	case RelLe:
		entailedTrue = hi <= k+tol
		entailedFalse = lo > k+tol
	case RelGe:
		entailedTrue = lo >= k-tol
		entailedFalse = hi < k-tol
	case RelLt:
		entailedTrue = hi < k-tol
		entailedFalse = lo >= k-tol
	case RelGt:
		entailedTrue = lo > k+tol
		entailedFalse = hi <= k+tol
	}
	return entailedTrue, entailedFalse
}
