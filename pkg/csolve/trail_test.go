package csolve

import "testing"

// Rewinding to a checkpoint must restore every domain touched since that
// checkpoint to byte-identical state (spec.md §4.2).
func TestTrailMarkRewindExactness(t *testing.T) {
	s := newStore(DefaultConfig())
	v := s.addIntVar(0, 9)

	before := s.domainOf(v).snapshot()
	cp := s.mark()

	if err := s.remove(v, IntValue(5)); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if err := s.setMin(v, IntValue(2)); err != nil {
		t.Fatalf("setMin failed: %v", err)
	}
	if s.size(v) == 10 {
		t.Fatalf("expected domain to have shrunk")
	}

	s.rewind(cp)

	after := s.domainOf(v).snapshot()
	if s.size(v) != 10 {
		t.Errorf("expected size 10 after rewind, got %d", s.size(v))
	}
	if !domainSnapshotsEqual(before, after) {
		t.Errorf("rewind did not restore the exact pre-checkpoint snapshot")
	}
}

// A second rewind to an earlier mark after further mutation must still
// restore exactly, proving nested checkpoints compose.
func TestTrailNestedCheckpoints(t *testing.T) {
	s := newStore(DefaultConfig())
	v := s.addIntVar(0, 9)

	cp0 := s.mark()
	mustOK(t, s.remove(v, IntValue(0)))

	cp1 := s.mark()
	mustOK(t, s.remove(v, IntValue(1)))
	mustOK(t, s.remove(v, IntValue(2)))
	if s.size(v) != 7 {
		t.Fatalf("expected size 7, got %d", s.size(v))
	}

	s.rewind(cp1)
	if s.size(v) != 9 {
		t.Fatalf("expected size 9 after inner rewind, got %d", s.size(v))
	}

	s.rewind(cp0)
	if s.size(v) != 10 {
		t.Fatalf("expected size 10 after outer rewind, got %d", s.size(v))
	}
	if s.trail.len() != 0 {
		t.Errorf("expected empty trail after rewinding to the root mark, got %d records", s.trail.len())
	}
}

func mustOK(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected failure: %v", err)
	}
}

func domainSnapshotsEqual(a, b interface{}) bool {
	bsA, okA := a.(bitsetSnapshot)
	bsB, okB := b.(bitsetSnapshot)
	if okA && okB {
		return bsA == bsB
	}
	return a == b
}
