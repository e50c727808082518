package csolve

import "fmt"

// store owns every variable's current domain and the trail recording its
// mutations (spec.md §4.1). It chooses bitset vs sparse-set vs interval at
// variable creation and never switches representation thereafter.
//
// Grounded on the teacher's constraint_manager.go, which also centralizes
// ownership of mutable solving state behind a single type handing out
// scoped access — generalized here from the relational constraint store to
// a trail-backed finite-domain store per spec.md §4.1/§4.2.
type store struct {
	vars  []narrower
	trail *trail
	cfg   Config

	// sched receives notifications when a variable's domain changes, so
	// it can (re)schedule the propagators subscribed to that variable.
	// nil during bound inference and other pre-propagation phases.
	sched *scheduler
}

func newStore(cfg Config) *store {
	return &store{trail: newTrail(), cfg: cfg}
}

func (s *store) addIntVar(lo, hi int32) VarId {
	id := VarId(len(s.vars))
	universe := int64(hi) - int64(lo) + 1
	if universe > maxIntUniverse {
		// Explicit domains are already rejected at this size by
		// Model.validate; an inference-derived domain (boundinfer.go)
		// reaches here directly, so clamp as a last line of defense
		// rather than materialize an oversized sparse set.
		hi = lo + int32(maxIntUniverse) - 1
		universe = maxIntUniverse
	}
	var d narrower
	if universe <= bitsetMaxUniverse {
		d = newBitsetDomain(lo, hi)
	} else {
		d = newSparseSetDomain(lo, hi)
	}
	s.vars = append(s.vars, d)
	return id
}

func (s *store) addFloatVar(lo, hi float64) VarId {
	id := VarId(len(s.vars))
	s.vars = append(s.vars, newIntervalDomain(lo, hi, s.cfg.step()))
	return id
}

func (s *store) domainOf(v VarId) narrower { return s.vars[v] }

func (s *store) tol() float64 { return s.cfg.tol() }

// commit applies a narrowing outcome: on success it trails the pre-image
// snapshot and, if anything changed, notifies the scheduler at the
// priority class the resulting domain state implies (fixed > bound
// changed > value removed, spec.md §4.3); on failure it returns the
// internal failure signal (the narrower already left the domain
// unmodified).
func (s *store) commit(v VarId, before interface{}, changed, ok bool, basePri priority) error {
	if !ok {
		return newFailure(fmt.Sprintf("domain of var %d emptied", v))
	}
	if changed {
		s.trail.push(v, before)
		if s.sched != nil {
			p := basePri
			if s.vars[v].isFixed() && p < priFixed {
				p = priFixed
			}
			s.sched.notify(v, p)
		}
	}
	return nil
}

func (s *store) setMin(v VarId, val Value) error {
	d := s.vars[v]
	before := d.snapshot()
	changed, ok := d.setMin(val, s.tol())
	return s.commit(v, before, changed, ok, priBoundChanged)
}

func (s *store) setMax(v VarId, val Value) error {
	d := s.vars[v]
	before := d.snapshot()
	changed, ok := d.setMax(val, s.tol())
	return s.commit(v, before, changed, ok, priBoundChanged)
}

func (s *store) remove(v VarId, val Value) error {
	d := s.vars[v]
	before := d.snapshot()
	changed, ok := d.removeValue(val, s.tol())
	return s.commit(v, before, changed, ok, priValueRemoved)
}

func (s *store) assign(v VarId, val Value) error {
	d := s.vars[v]
	before := d.snapshot()
	changed, ok := d.assign(val, s.tol())
	return s.commit(v, before, changed, ok, priFixed)
}

func (s *store) contains(v VarId, val Value) bool {
	return s.vars[v].containsValue(val, s.tol())
}

func (s *store) min(v VarId) Value  { return s.vars[v].minValue() }
func (s *store) max(v VarId) Value  { return s.vars[v].maxValue() }
func (s *store) size(v VarId) int   { return s.vars[v].size() }
func (s *store) isFixed(v VarId) bool { return s.vars[v].isFixed() }

// mark/rewind expose the trail's checkpoint contract directly (spec.md
// §4.2); the search driver is the only caller.
func (s *store) mark() int { return s.trail.mark() }

func (s *store) rewind(cp int) {
	recs := s.trail.records
	for i := len(recs) - 1; i >= cp; i-- {
		r := recs[i]
		s.vars[r.v].restore(r.snap)
	}
	s.trail.records = recs[:cp]
}

// mutator is the scoped handle propagators and search receive for one
// propagation call (spec.md §4.1 "Ownership"). It is a thin forwarding
// wrapper over store today; it exists as its own type so propagator code
// depends on a narrow interface rather than the whole store, matching the
// "scoped mutator handle" spec.md §3 calls for.
type mutator struct {
	s *store
}

func (m *mutator) SetMin(v VarId, val Value) error  { return m.s.setMin(v, val) }
func (m *mutator) SetMax(v VarId, val Value) error  { return m.s.setMax(v, val) }
func (m *mutator) Remove(v VarId, val Value) error  { return m.s.remove(v, val) }
func (m *mutator) Assign(v VarId, val Value) error  { return m.s.assign(v, val) }
func (m *mutator) Contains(v VarId, val Value) bool { return m.s.contains(v, val) }
func (m *mutator) Min(v VarId) Value                { return m.s.min(v) }
func (m *mutator) Max(v VarId) Value                { return m.s.max(v) }
func (m *mutator) Size(v VarId) int                 { return m.s.size(v) }
func (m *mutator) IsFixed(v VarId) bool             { return m.s.isFixed(v) }
func (m *mutator) Tol() float64                     { return m.s.tol() }
func (m *mutator) KindOf(v VarId) Kind              { return m.s.vars[v].kind() }

// Step returns the minimum meaningful change for v: 1 for integer
// variables, the domain's quantization step for float variables
// (spec.md §4.4 "it uses the grid step as the minimum-change unit").
func (m *mutator) Step(v VarId) float64 {
	if iv, ok := m.s.vars[v].(*intervalDomain); ok {
		return iv.step
	}
	return 1
}

// Values lists v's remaining candidate values for a discrete integer
// domain (ascending for a bitset, in no particular order for a sparse
// set); nil for a float interval domain (spec.md §4.1
// Glossary "enumerable" applies to bitset/sparse-set only).
func (m *mutator) Values(v VarId) []int32 {
	e, ok := m.s.vars[v].(enumerable)
	if !ok {
		return nil
	}
	return e.values()
}
