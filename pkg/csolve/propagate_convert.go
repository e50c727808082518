package csolve

import "math"

// convertPropagator implements an int<->float type conversion with a
// caller-chosen rounding mode (spec.md §3 "type conversions int<->float
// with rounding mode"). Forward: To's bounds are derived from From's
// bounds, rounded per Mode. Backward: From is in turn clamped to the
// integer/grid range that could still round into To's current bounds.
type convertPropagator struct {
	from, to VarId
	toFloat  bool
	mode     RoundMode
}

func newConvertPropagator(from, to VarId, toFloat bool, mode RoundMode) *convertPropagator {
	return &convertPropagator{from: from, to: to, toFloat: toFloat, mode: mode}
}

func (p *convertPropagator) watches() []VarId { return []VarId{p.from, p.to} }
func (p *convertPropagator) name() string      { return "convert" }

func (p *convertPropagator) propagate(m *mutator) error {
	fLo, fHi := m.Min(p.from).Float(), m.Max(p.from).Float()
	tLo, tHi := round(fLo, p.mode), round(fHi, p.mode)
	if tLo > tHi {
		tLo, tHi = tHi, tLo
	}
	if err := setBound(m, p.to, tLo, tHi); err != nil {
		return err
	}
	// Backward: from cannot exceed the range that still rounds into to's
	// current bounds. When from is already integral (toFloat: the
	// conversion is an exact embedding, not a rounding) to's bounds
	// translate straight back. Otherwise each Mode maps a whole window of
	// from values onto a single rounded to value, so the window has to be
	// inverted rather than copied: a to pinned to [3,3] under RoundFloor
	// means from can range over [3,4), not just {3}.
	toLo, toHi := m.Min(p.to).Float(), m.Max(p.to).Float()
	if p.toFloat {
		return setBound(m, p.from, toLo, toHi)
	}
	tol := m.Tol()
	var fromLo, fromHi float64
	switch p.mode {
	case RoundFloor:
		fromLo, fromHi = toLo, toHi+1-tol
	case RoundCeil:
		fromLo, fromHi = toLo-1+tol, toHi
	default: // RoundNearest
		fromLo, fromHi = toLo-0.5, toHi+0.5-tol
	}
	return setBound(m, p.from, fromLo, fromHi)
}

func round(x float64, mode RoundMode) float64 {
	switch mode {
	case RoundFloor:
		return math.Floor(x)
	case RoundCeil:
		return math.Ceil(x)
	default:
		return math.Round(x)
	}
}
