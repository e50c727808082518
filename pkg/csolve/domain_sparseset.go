package csolve

// sparseSetDomain is an integer domain over a bounded universe larger than
// bitsetMaxUniverse (up to maxIntUniverse elements), represented as a pair
// of dense/sparse arrays (spec.md §3, Glossary "sparse set"). Membership,
// single-value removal, and "remove-swap-pop" are O(1); min/max are
// tracked incrementally. remove_below/remove_above scan the values
// currently present (not the whole universe), so their cost is
// proportional to the current domain size.
//
// New relative to the teacher (gokanlogic has no sparse-set domain): this
// is original code written in the teacher's bit-twiddling-and-cached-
// min/max idiom, built for the larger-universe case spec.md §3 calls for.
type sparseSetDomain struct {
	base int32 // universe minimum; value v lives at dense/sparse index v-base

	dense  []int32 // dense[0:size] are the values currently present
	sparse []int32 // sparse[v-base] = index into dense, valid only if < size

	size       int
	cMin, cMax int32
}

func newSparseSetDomain(lo, hi int32) *sparseSetDomain {
	n := int(hi-lo) + 1
	d := &sparseSetDomain{
		base:   lo,
		dense:  make([]int32, n),
		sparse: make([]int32, n),
		size:   n,
		cMin:   lo,
		cMax:   hi,
	}
	for i := 0; i < n; i++ {
		d.dense[i] = lo + int32(i)
		d.sparse[i] = int32(i)
	}
	return d
}

func (d *sparseSetDomain) kind() Kind     { return KindInt }
func (d *sparseSetDomain) size() int      { return d.size }
func (d *sparseSetDomain) isEmpty() bool  { return d.size == 0 }
func (d *sparseSetDomain) isFixed() bool  { return d.size == 1 }
func (d *sparseSetDomain) minValue() Value { return IntValue(d.cMin) }
func (d *sparseSetDomain) maxValue() Value { return IntValue(d.cMax) }

func (d *sparseSetDomain) indexOf(v int32) (int32, bool) {
	off := v - d.base
	if off < 0 || int(off) >= len(d.dense) {
		return 0, false
	}
	return off, true
}

func (d *sparseSetDomain) containsValue(v Value, tol float64) bool {
	iv := roundToInt(v)
	off, ok := d.indexOf(iv)
	if !ok {
		return false
	}
	idx := d.sparse[off]
	return int(idx) < d.size && d.dense[idx] == iv
}

// removeAt swap-removes the value at dense index idx (idx < d.size).
func (d *sparseSetDomain) removeAt(idx int32) {
	last := int32(d.size - 1)
	v := d.dense[idx]
	lastVal := d.dense[last]
	d.dense[idx] = lastVal
	d.dense[last] = v
	d.sparse[lastVal-d.base] = idx
	d.sparse[v-d.base] = last
	d.size--
}

func (d *sparseSetDomain) removeValue(v Value, tol float64) (changed, ok bool) {
	iv := roundToInt(v)
	off, inRange := d.indexOf(iv)
	if !inRange {
		return false, true
	}
	idx := d.sparse[off]
	if int(idx) >= d.size || d.dense[idx] != iv {
		return false, true
	}
	if d.size == 1 {
		return false, false
	}
	d.removeAt(idx)
	if iv == d.cMin || iv == d.cMax {
		d.recomputeMinMax()
	}
	return true, true
}

func (d *sparseSetDomain) recomputeMinMax() {
	mn, mx := d.dense[0], d.dense[0]
	for i := 1; i < d.size; i++ {
		if d.dense[i] < mn {
			mn = d.dense[i]
		}
		if d.dense[i] > mx {
			mx = d.dense[i]
		}
	}
	d.cMin, d.cMax = mn, mx
}

func (d *sparseSetDomain) setMin(v Value, tol float64) (changed, ok bool) {
	lo := roundToInt(v)
	if lo <= d.cMin {
		return false, true
	}
	if lo > d.cMax {
		return false, false
	}
	return d.pruneWhere(func(x int32) bool { return x < lo })
}

func (d *sparseSetDomain) setMax(v Value, tol float64) (changed, ok bool) {
	hi := roundToInt(v)
	if hi >= d.cMax {
		return false, true
	}
	if hi < d.cMin {
		return false, false
	}
	return d.pruneWhere(func(x int32) bool { return x > hi })
}

// pruneWhere removes every present value satisfying pred, scanning only
// the currently-present dense slice (so cost tracks the current domain
// size, not the full universe).
func (d *sparseSetDomain) pruneWhere(pred func(int32) bool) (changed, ok bool) {
	i := 0
	for i < d.size {
		if pred(d.dense[i]) {
			if d.size == 1 {
				return true, false
			}
			d.removeAt(int32(i))
			changed = true
			continue
		}
		i++
	}
	if changed {
		d.recomputeMinMax()
	}
	return changed, true
}

func (d *sparseSetDomain) assign(v Value, tol float64) (changed, ok bool) {
	iv := roundToInt(v)
	off, inRange := d.indexOf(iv)
	if !inRange {
		return false, false
	}
	idx := d.sparse[off]
	if int(idx) >= d.size || d.dense[idx] != iv {
		return false, false
	}
	if d.size == 1 {
		return false, true
	}
	// Move iv to dense[0] and shrink size to 1.
	d.sparse[d.dense[0]-d.base], d.sparse[iv-d.base] = idx, 0
	d.dense[0], d.dense[idx] = iv, d.dense[0]
	d.size = 1
	d.cMin, d.cMax = iv, iv
	return true, true
}

type sparseSetSnapshot struct {
	dense      []int32
	sparse     []int32
	size       int
	cMin, cMax int32
}

func (d *sparseSetDomain) snapshot() interface{} {
	dc := make([]int32, len(d.dense))
	copy(dc, d.dense)
	sc := make([]int32, len(d.sparse))
	copy(sc, d.sparse)
	return sparseSetSnapshot{dense: dc, sparse: sc, size: d.size, cMin: d.cMin, cMax: d.cMax}
}

func (d *sparseSetDomain) restore(snap interface{}) {
	s := snap.(sparseSetSnapshot)
	copy(d.dense, s.dense)
	copy(d.sparse, s.sparse)
	d.size, d.cMin, d.cMax = s.size, s.cMin, s.cMax
}

func (d *sparseSetDomain) clone() domain {
	cp := &sparseSetDomain{
		base: d.base,
		size: d.size,
		cMin: d.cMin,
		cMax: d.cMax,
	}
	cp.dense = make([]int32, len(d.dense))
	copy(cp.dense, d.dense)
	cp.sparse = make([]int32, len(d.sparse))
	copy(cp.sparse, d.sparse)
	return cp
}

func (d *sparseSetDomain) values() []int32 {
	out := make([]int32, d.size)
	copy(out, d.dense[:d.size])
	return out
}
