package csolve

import "golang.org/x/exp/slices"

// inferBounds implements spec.md §4.6's pre-pass: every variable created
// without explicit finite bounds is, before materialization, given a
// provisional range derived from scanning the constraint ASTs that
// mention it for any constant the variable is compared or bounded
// against, widened by Config.UnboundedInferenceFactor; a variable no
// constraint ever bounds falls back to Config's default unbounded
// range. The pass is deterministic regardless of constraint posting
// order: candidates are collected into a set and the final widen/clamp
// step is order-independent (min/max folds), but the worklist is still
// sorted before iteration so any future per-variable side effects this
// pass grows stay reproducible across runs.
//
// Grounded on the teacher's fd_solver.go VariableMapper, which
// centralizes bookkeeping of every logic variable's identity; here the
// same "single bookkeeping pass before solving starts" shape is
// repurposed from identity tracking to bound extraction.
func inferBounds(cons []Constraint, unboundedInt []VarId, unboundedFloat []VarId, specs []varSpec, cfg Config) (intBounds map[VarId][2]int32, floatBounds map[VarId][2]float64) {
	intBounds = make(map[VarId][2]int32, len(unboundedInt))
	floatBounds = make(map[VarId][2]float64, len(unboundedFloat))

	intCandidates := make(map[VarId][2]float64) // running [lo,hi] found in constraints
	floatCandidates := make(map[VarId][2]float64)

	record := func(m map[VarId][2]float64, v VarId, lo, hi float64) {
		cur, ok := m[v]
		if !ok {
			m[v] = [2]float64{lo, hi}
			return
		}
		if lo < cur[0] {
			cur[0] = lo
		}
		if hi > cur[1] {
			cur[1] = hi
		}
		m[v] = cur
	}

	isFloatVar := make(map[VarId]bool, len(unboundedFloat))
	for _, v := range unboundedFloat {
		isFloatVar[v] = true
	}
	targetOf := func(v VarId) map[VarId][2]float64 {
		if isFloatVar[v] {
			return floatCandidates
		}
		return intCandidates
	}

	for _, c := range cons {
		switch k := c.(type) {
		case CompareConst:
			record(targetOf(k.X), k.X, k.K.Float(), k.K.Float())
		case Linear:
			if k.K != 0 {
				for _, v := range k.Vars {
					record(targetOf(v), v, -abs(k.K), abs(k.K))
				}
			}
		case BoolLinear:
			for _, v := range k.Vars {
				record(targetOf(v), v, -abs(float64(k.K)), abs(float64(k.K)))
			}
		case Table:
			for i, v := range k.Vars {
				lo, hi := tableColumnRange(k.Tuples, i)
				record(targetOf(v), v, float64(lo), float64(hi))
			}
		case GCC:
			for _, val := range k.Values {
				for _, v := range k.Vars {
					record(targetOf(v), v, float64(minI32(val, 0)), float64(maxI32(val, 0)))
				}
			}
		case Compare:
			// Transitive bound: an explicitly-bounded partner var's range
			// is a sound (if loose) bound on the unbounded side of a
			// plain relop.
			if lo, hi, ok := explicitRangeOf(specs, k.Y); ok {
				record(targetOf(k.X), k.X, lo, hi)
			}
			if lo, hi, ok := explicitRangeOf(specs, k.X); ok {
				record(targetOf(k.Y), k.Y, lo, hi)
			}
		case Element:
			record(targetOf(k.Idx), k.Idx, 0, float64(len(k.Array)-1))
		case AllDifferent:
			// Weak cardinality bound: with n pairwise-distinct vars, any
			// member can be no more than n-1 away from the explicitly
			// bounded members of the same group.
			if lo, hi, ok := explicitRangeOf(specs, k.Vars...); ok {
				pad := float64(len(k.Vars))
				for _, v := range k.Vars {
					record(targetOf(v), v, lo-pad, hi+pad)
				}
			}
		}
	}

	sorted := append([]VarId(nil), unboundedInt...)
	slices.Sort(sorted)
	for _, v := range sorted {
		if c, ok := intCandidates[v]; ok {
			lo, hi := widen(c[0], c[1], cfg.UnboundedInferenceFactor)
			intBounds[v] = [2]int32{int32(lo), int32(hi)}
		} else {
			intBounds[v] = cfg.DefaultUnboundedIntBounds
		}
	}

	sortedF := append([]VarId(nil), unboundedFloat...)
	slices.Sort(sortedF)
	for _, v := range sortedF {
		if c, ok := floatCandidates[v]; ok {
			lo, hi := widen(c[0], c[1], cfg.UnboundedInferenceFactor)
			floatBounds[v] = [2]float64{lo, hi}
		} else {
			floatBounds[v] = cfg.DefaultUnboundedFloatBounds
		}
	}
	return intBounds, floatBounds
}

// inferenceClampHalfWidth is spec.md §4.6 step 4's "trusted and clamped
// to ±500000 around the context midpoint": a widened range can never be
// reported wider than this around its own center, regardless of factor,
// so an inference-derived domain can never force store.addIntVar to
// materialize a universe anywhere near maxIntUniverse.
const inferenceClampHalfWidth = 500_000

// widen expands [lo,hi] by factor on each side, guaranteeing at least a
// unit span so a single observed constant still yields a usable range,
// then clamps the result to inferenceClampHalfWidth around its midpoint.
func widen(lo, hi, factor float64) (float64, float64) {
	span := hi - lo
	if span < 1 {
		span = 1
	}
	pad := span * factor
	lo, hi = lo-pad, hi+pad
	mid := (lo + hi) / 2
	if lo < mid-inferenceClampHalfWidth {
		lo = mid - inferenceClampHalfWidth
	}
	if hi > mid+inferenceClampHalfWidth {
		hi = mid + inferenceClampHalfWidth
	}
	return lo, hi
}

// explicitRangeOf reports the union of [lo,hi] over every var in vars
// that was given an explicit domain, or ok=false if none was.
func explicitRangeOf(specs []varSpec, vars ...VarId) (lo, hi float64, ok bool) {
	for _, v := range vars {
		if int(v) < 0 || int(v) >= len(specs) || !specs[v].explicit {
			continue
		}
		sp := specs[v]
		if !ok {
			lo, hi, ok = sp.lo, sp.hi, true
			continue
		}
		if sp.lo < lo {
			lo = sp.lo
		}
		if sp.hi > hi {
			hi = sp.hi
		}
	}
	return lo, hi, ok
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func minI32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func maxI32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func tableColumnRange(tuples [][]int32, col int) (lo, hi int32) {
	if len(tuples) == 0 {
		return 0, 0
	}
	lo, hi = tuples[0][col], tuples[0][col]
	for _, t := range tuples[1:] {
		if t[col] < lo {
			lo = t[col]
		}
		if t[col] > hi {
			hi = t[col]
		}
	}
	return lo, hi
}
