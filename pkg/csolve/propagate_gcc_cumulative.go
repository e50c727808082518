package csolve

// gccPropagator implements global cardinality (spec.md §3/§4.4 "GCC"): for
// each (value, countVar) pair, countVar is tightened the same way
// countPropagator tightens a single count, run once per value/count pair
// sharing the one set of variables.
//
// Grounded on the teacher's cardinality bookkeeping (same fd_arith.go
// lineage as countPropagator), generalized from a single value to the
// parallel value/count list GCC carries.
type gccPropagator struct {
	vars   []VarId
	values []int32
	counts []VarId
}

func newGCCPropagator(vars []VarId, values []int32, counts []VarId) *gccPropagator {
	return &gccPropagator{
		vars:   append([]VarId(nil), vars...),
		values: append([]int32(nil), values...),
		counts: append([]VarId(nil), counts...),
	}
}

func (p *gccPropagator) watches() []VarId {
	return append(append([]VarId(nil), p.vars...), p.counts...)
}
func (p *gccPropagator) name() string { return "gcc" }

func (p *gccPropagator) propagate(m *mutator) error {
	for i, val := range p.values {
		cp := countPropagator{vars: p.vars, val: val, cnt: p.counts[i]}
		if err := cp.propagate(m); err != nil {
			return err
		}
	}
	return nil
}

// cumulativePropagator implements timetable filtering for a cumulative
// resource (spec.md §3/§4.4 "cumulative"): at every candidate instant
// covered by some task's mandatory part (the overlap of [start.min,
// start.max+duration) across its whole domain), sum the demand of tasks
// certainly running then; if that ever exceeds capacity, the constraint
// fails; otherwise, a task whose mandatory-part contribution plus any
// other task's full demand would overflow capacity has its start window
// pushed so the two tasks cannot overlap.
//
// Grounded on the teacher's resource/timeline bookkeeping in
// constraint_bus_pool.go's scheduling comments (conceptual lineage only;
// none of that file's pooling machinery is reused) — the timetabling
// algorithm itself is original, sized to spec.md's explicit Task/Capacity
// shape rather than a full edge-finding cumulative filter.
type cumulativePropagator struct {
	tasks    []Task
	capacity int32
}

func newCumulativePropagator(tasks []Task, capacity int32) *cumulativePropagator {
	return &cumulativePropagator{tasks: append([]Task(nil), tasks...), capacity: capacity}
}

func (p *cumulativePropagator) watches() []VarId {
	out := make([]VarId, len(p.tasks))
	for i, t := range p.tasks {
		out[i] = t.Start
	}
	return out
}
func (p *cumulativePropagator) name() string { return "cumulative" }

func (p *cumulativePropagator) propagate(m *mutator) error {
	type window struct {
		lo, hi int32 // mandatory part [lo, hi)
		demand int32
		start  VarId // start variable of the task owning this part
	}
	var windows []window
	for _, t := range p.tasks {
		lo := m.Max(t.Start).Int()
		hi := m.Min(t.Start).Int() + t.Duration
		if lo < hi {
			windows = append(windows, window{lo: lo, hi: hi, demand: t.Demand, start: t.Start})
		}
	}

	// Check every instant at which a mandatory part starts or ends.
	instants := make(map[int32]bool)
	for _, w := range windows {
		instants[w.lo] = true
		instants[w.hi] = true
	}
	for instant := range instants {
		var usage int32
		for _, w := range windows {
			if w.lo <= instant && instant < w.hi {
				usage += w.demand
			}
		}
		if usage > p.capacity {
			return newFailure("cumulative capacity exceeded")
		}
	}

	// Push each task so it cannot overlap a mandatory part that would, if
	// it were also present, exceed capacity.
	for _, t := range p.tasks {
		for _, w := range windows {
			if w.start == t.Start {
				continue
			}
			if w.demand+t.Demand <= p.capacity {
				continue
			}
			// t cannot overlap [w.lo, w.hi): either finish by w.lo or
			// start at or after w.hi.
			tLo := m.Min(t.Start).Int()
			tHi := m.Max(t.Start).Int()
			canFinishBefore := tLo+t.Duration <= w.lo
			canStartAfter := tHi >= w.hi
			if canFinishBefore && !canStartAfter {
				if err := m.SetMax(t.Start, IntValue(w.lo-t.Duration)); err != nil {
					return err
				}
			} else if canStartAfter && !canFinishBefore {
				if err := m.SetMin(t.Start, IntValue(w.hi)); err != nil {
					return err
				}
			} else if !canFinishBefore && !canStartAfter {
				return newFailure("cumulative task cannot avoid overload")
			}
		}
	}
	return nil
}
