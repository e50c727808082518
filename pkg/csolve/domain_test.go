package csolve

import "testing"

// Every domain representation must report non-empty with min<=max and a
// cached size matching the number of values actually present (spec.md §3
// domain invariants), for as long as it hasn't been narrowed to empty.
func TestDomainInvariants(t *testing.T) {
	tol := DefaultConfig().tol()

	cases := []struct {
		name string
		d    narrower
	}{
		{"bitset", newBitsetDomain(0, 9)},
		{"sparseset", newSparseSetDomain(0, 999)},
		{"interval", newIntervalDomain(0, 10, 0.5)},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if c.d.isEmpty() {
				t.Fatalf("fresh domain reported empty")
			}
			if c.d.minValue().Float() > c.d.maxValue().Float() {
				t.Fatalf("min %v > max %v", c.d.minValue(), c.d.maxValue())
			}
			if e, ok := c.d.(enumerable); ok {
				if got := len(e.values()); got != c.d.size() {
					t.Fatalf("cached size %d != enumerated size %d", c.d.size(), got)
				}
			}
			_ = tol
		})
	}
}

// A bitset domain narrowed to a single value must report isFixed and a
// size of exactly 1, with min == max.
func TestBitsetAssignFixes(t *testing.T) {
	d := newBitsetDomain(0, 9)
	changed, ok := d.assign(IntValue(4), 0)
	if !ok || !changed {
		t.Fatalf("assign(4) failed: changed=%v ok=%v", changed, ok)
	}
	if !d.isFixed() {
		t.Fatalf("expected domain fixed after assign")
	}
	if d.size() != 1 {
		t.Fatalf("expected size 1, got %d", d.size())
	}
	if d.minValue() != d.maxValue() {
		t.Fatalf("min %v != max %v on a fixed domain", d.minValue(), d.maxValue())
	}
}

// Narrowing a domain to exclude every value must report ok=false and
// leave the domain unchanged, never an empty-but-live domain.
func TestBitsetRemoveAllFails(t *testing.T) {
	d := newBitsetDomain(0, 1)
	if _, ok := d.removeValue(IntValue(0), 0); !ok {
		t.Fatalf("first removeValue unexpectedly failed")
	}
	_, ok := d.removeValue(IntValue(1), 0)
	if ok {
		t.Fatalf("removing the last remaining value should report ok=false")
	}
	if d.isEmpty() {
		t.Fatalf("domain must be left unchanged (non-empty) after a rejected narrowing")
	}
}

// A float interval domain's grid points stay aligned to its step after
// setMin/setMax narrowing (spec.md §3 "quantized to a grid of step s").
func TestIntervalGridAlignment(t *testing.T) {
	d := newIntervalDomain(0, 10, 0.5)
	if _, ok := d.setMin(FloatValue(3.26), d.tol()); !ok {
		t.Fatalf("setMin failed")
	}
	got := d.minValue().Float()
	// 3.26 should round to the nearest 0.5 grid point, 3.5.
	if got != 3.5 {
		t.Fatalf("setMin did not snap to the grid: got %v, want 3.5", got)
	}
	remainder := got / d.step
	if remainder != float64(int64(remainder)) {
		t.Fatalf("min %v is not aligned to step %v", got, d.step)
	}
}

// A sparse-set domain's swap-pop removal (see its doc comment) reorders
// the dense array, so values() is not expected to stay sorted — but it
// must still enumerate exactly the surviving values, once each.
func TestSparseSetEnumerationAfterRemoval(t *testing.T) {
	d := newSparseSetDomain(0, 9)
	if _, ok := d.removeValue(IntValue(5), 0); !ok {
		t.Fatalf("removeValue(5) failed")
	}
	if _, ok := d.removeValue(IntValue(2), 0); !ok {
		t.Fatalf("removeValue(2) failed")
	}
	vals := d.values()
	if len(vals) != d.size() {
		t.Fatalf("values() returned %d entries, size() reports %d", len(vals), d.size())
	}
	seen := map[int32]bool{}
	for _, v := range vals {
		if seen[v] {
			t.Fatalf("value %d enumerated more than once in %v", v, vals)
		}
		seen[v] = true
	}
	for _, excluded := range []int32{2, 5} {
		if seen[excluded] {
			t.Fatalf("removed value %d still present in %v", excluded, vals)
		}
	}
	for v := int32(0); v < 10; v++ {
		if v == 2 || v == 5 {
			continue
		}
		if !seen[v] {
			t.Fatalf("expected surviving value %d missing from %v", v, vals)
		}
	}
}
