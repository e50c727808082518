package csolve

// VarId is the opaque identity of a decision variable. Variables are
// created once; a variable's domain representation may change between
// integer (bitset/sparse-set) and continuous (interval), but its identity
// never changes (spec.md §3).
type VarId int

// VarKind distinguishes the three variable flavors exposed by the
// construction API (spec.md §6).
type VarKind int

const (
	// VarInt is a finite-domain integer variable.
	VarInt VarKind = iota
	// VarFloat is a quantized-interval float variable.
	VarFloat
	// VarBool is a 0/1 integer variable, modeled as a two-value VarInt.
	VarBool
)

// variable pairs a declared variable's id with its kind. The store owns
// the live Domain; materialization, bound inference and solution
// extraction do not use this record (the model facade keeps its
// declarations as varSpec values).
type variable struct {
	id   VarId
	kind VarKind
}
