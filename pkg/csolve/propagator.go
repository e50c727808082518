package csolve

import "container/heap"

// priority classes a variable change can trigger, ordered low to high
// activity per spec.md §4.3: "ValueRemoved/BoundChanged/Fixed — higher
// activity -> higher priority."
type priority int

const (
	priValueRemoved priority = iota
	priBoundChanged
	priFixed
	numPriorities
)

// Propagator is a filtering algorithm attached to one materialized
// constraint (spec.md §3 "Propagator", §4.4). Implementations live in the
// propagate_*.go files, one constraint family per file.
type Propagator interface {
	// watches returns the variables this propagator subscribes to.
	watches() []VarId

	// propagate runs the filtering algorithm once, narrowing domains
	// through m. Returns the internal failure signal (via m's errors) if
	// the constraint cannot be satisfied; any other error is a bug.
	propagate(m *mutator) error

	// name identifies the constraint kind for diagnostics.
	name() string
}

// scheduler owns the subscription lists and the priority queue of
// propagators currently due to run (spec.md §4.3). There is deliberately
// no constraint-type allow-list filtering here — §9's Open Question notes
// a historical bug where such a list silently dropped reified
// propagators, and this expansion resolves it by omitting the filter
// entirely (see DESIGN.md).
//
// Grounded on the teacher's description, in propagation.go's package
// comment, of running constraints "to a fixed-point"; the concrete
// per-priority-class min-heap-of-ids structure is new, built to match
// spec.md's explicit priority/idempotence contract.
type scheduler struct {
	props []Propagator
	subs  map[VarId][]int // variable -> subscribed propagator ids

	queues   [numPriorities]intHeap
	inQueue  []bool // indexed by propagator id
	queuedAt []priority
}

func newScheduler() *scheduler {
	return &scheduler{subs: make(map[VarId][]int)}
}

// register adds a propagator, subscribing it to every variable it
// watches, and returns its stable id (spec.md §4.3 "each with a stable
// id").
func (sc *scheduler) register(p Propagator) int {
	id := len(sc.props)
	sc.props = append(sc.props, p)
	sc.inQueue = append(sc.inQueue, false)
	sc.queuedAt = append(sc.queuedAt, priValueRemoved)
	for _, v := range p.watches() {
		sc.subs[v] = append(sc.subs[v], id)
	}
	return id
}

// scheduleAll enqueues every registered propagator once, used to seed
// root propagation (every propagator must run at least once).
func (sc *scheduler) scheduleAll() {
	for id := range sc.props {
		sc.enqueue(id, priFixed)
	}
}

func (sc *scheduler) enqueue(id int, p priority) {
	if sc.inQueue[id] {
		return // duplicate scheduling is idempotent (spec.md §4.3)
	}
	sc.inQueue[id] = true
	sc.queuedAt[id] = p
	heap.Push(&sc.queues[p], id)
}

// notify marks every propagator subscribed to v as scheduled, at
// priority class p (spec.md §4.3 step 1).
func (sc *scheduler) notify(v VarId, p priority) {
	for _, id := range sc.subs[v] {
		sc.enqueue(id, p)
	}
}

// fixpoint pops propagators until the queue is empty (success) or one
// fails (spec.md §4.3 step 2). On failure the caller is responsible for
// rewinding the trail; this function does not rewind. calls, when
// non-nil, is incremented once per propagator invocation for
// Statistics.Propagations.
func (sc *scheduler) fixpoint(m *mutator, calls *int64) error {
	for {
		id, ok := sc.pop()
		if !ok {
			return nil
		}
		if calls != nil {
			*calls++
		}
		if err := sc.props[id].propagate(m); err != nil {
			return err
		}
	}
}

// pop removes and returns the highest-priority scheduled propagator id,
// ties broken by id (spec.md §4.3).
func (sc *scheduler) pop() (int, bool) {
	for p := numPriorities - 1; p >= 0; p-- {
		if sc.queues[p].Len() > 0 {
			id := heap.Pop(&sc.queues[p]).(int)
			sc.inQueue[id] = false
			return id, true
		}
	}
	return 0, false
}

// intHeap is a min-heap of propagator ids, giving the "ties broken by id"
// ordering spec.md §4.3 requires within a priority class.
type intHeap []int

func (h intHeap) Len() int            { return len(h) }
func (h intHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h intHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *intHeap) Push(x interface{}) { *h = append(*h, x.(int)) }
func (h *intHeap) Pop() interface{} {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}
