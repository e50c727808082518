package csolve

// domain is the uniform interface the store narrows through regardless of
// the concrete representation backing a variable (spec.md §3/§4.1). Unlike
// the teacher's Domain (gokanlogic's domain.go), which is immutable and
// copy-on-write for lock-free parallel search, domain here is mutated
// in place and every narrowing is recorded on the trail by the caller
// (store.go) — spec.md §4.2 requires trailed, reversible mutation, not
// structural sharing.
//
// All narrowing methods report ok=false when the operation would leave
// the domain empty; in that case the domain is left unchanged and no
// trail record should be produced by the caller.
type domain interface {
	// kind reports whether this is an integer or float representation.
	kind() Kind

	// size returns the number of values currently in the domain.
	size() int

	// isEmpty reports size() == 0. Not a reachable steady state (spec.md
	// §3), but checked defensively after a narrowing attempt.
	isEmpty() bool

	// isFixed reports min == max.
	isFixed() bool

	// minValue / maxValue return the current bounds.
	minValue() Value
	maxValue() Value

	// containsValue reports membership, under float tolerance when
	// applicable.
	containsValue(v Value, tol float64) bool

	// snapshot captures enough state to undo a future mutation; restore
	// applies a previously captured snapshot. Concrete types define their
	// own snapshot payload (see trail.go's record variants).
	snapshot() interface{}
	restore(snap interface{})

	// clone returns a deep, independent copy. Nothing in this package
	// calls it during solving.
	clone() domain
}

// narrower is implemented by every concrete domain to perform the actual
// bound/value mutations. store.go calls these and is responsible for
// trailing. Each method returns ok=false (domain left unchanged) if the
// narrowing would make the domain empty.
type narrower interface {
	domain

	setMin(v Value, tol float64) (changed, ok bool)
	setMax(v Value, tol float64) (changed, ok bool)
	removeValue(v Value, tol float64) (changed, ok bool)
	assign(v Value, tol float64) (changed, ok bool)
}

// enumerable is implemented by the two discrete integer representations
// (bitset, sparse-set) to list their remaining candidate values; the
// float interval domain does not implement it since its values are a
// continuum of grid points, not a finite enumerable set. GAC-style
// propagators (all-different, table) type-assert for it.
type enumerable interface {
	values() []int32
}
