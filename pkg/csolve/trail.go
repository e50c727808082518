package csolve

// trail is an append-only log of undoable domain-mutation records
// (spec.md §3/§4.2). A checkpoint is the trail's length at the moment it
// was taken; rewinding pops records back to that length, restoring each
// domain's prior snapshot in reverse order.
//
// New relative to the teacher: gokanlogic backtracks via persistent,
// copy-on-write state threaded through a SolverState value
// (constraint_store.go), never an explicit undo log. spec.md §3/§4.2
// specify the opposite discipline — in-place mutation plus an explicit
// reversible record — so this file has no direct teacher analogue; its
// checkpoint/rewind naming follows the vocabulary the teacher already
// uses for its own state snapshots.
type trail struct {
	records []trailRecord
}

// trailRecord pairs the mutated variable with the snapshot needed to
// restore it. The snapshot's concrete type depends on which domain
// representation that variable uses (bitsetSnapshot, sparseSetSnapshot,
// or intervalSnapshot — see the respective domain_*.go files).
type trailRecord struct {
	v    VarId
	snap interface{}
}

func newTrail() *trail { return &trail{} }

// mark returns the current trail length as an opaque checkpoint.
func (t *trail) mark() int { return len(t.records) }

// push appends a new undo record. Called by the store once a narrowing
// has changed a domain, with the snapshot taken before that narrowing.
func (t *trail) push(v VarId, snap interface{}) {
	t.records = append(t.records, trailRecord{v: v, snap: snap})
}

// len reports the number of records currently on the trail.
func (t *trail) len() int { return len(t.records) }
