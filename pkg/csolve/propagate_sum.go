package csolve

// sumEqPropagator implements "z = Sigma vars" (spec.md §3/§4.4 "Sum"),
// its own named family even though it materializes as a Linear row with
// every term coefficient 1 and z's coefficient -1 (Sigma vars - z = 0).
// Kept as a thin adapter rather than folding Sum into Linear at the AST
// level, since spec.md names Sum as a distinct constraint kind callers
// construct directly.
type sumEqPropagator struct {
	inner *linearPropagator
}

func newSumEqPropagator(vars []VarId, z VarId) *sumEqPropagator {
	coeffs := make([]float64, len(vars)+1)
	allVars := make([]VarId, len(vars)+1)
	for i, v := range vars {
		coeffs[i] = 1
		allVars[i] = v
	}
	coeffs[len(vars)] = -1
	allVars[len(vars)] = z
	return &sumEqPropagator{inner: newLinearPropagator(coeffs, allVars, RelEq, 0, false)}
}

func (p *sumEqPropagator) watches() []VarId   { return p.inner.watches() }
func (p *sumEqPropagator) name() string        { return "sum_eq" }
func (p *sumEqPropagator) propagate(m *mutator) error { return p.inner.propagate(m) }
