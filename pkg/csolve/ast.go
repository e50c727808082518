package csolve

// Relation is the comparison operator carried by compare/linear/reified
// AST nodes: x relop y (or Sigma c_i x_i relop K).
type Relation int

const (
	RelEq Relation = iota
	RelNe
	RelLt
	RelLe
	RelGt
	RelGe
)

// RoundMode controls int<->float conversion rounding (spec.md §3).
type RoundMode int

const (
	RoundFloor RoundMode = iota
	RoundCeil
	RoundNearest
)

// Constraint is the pending, not-yet-materialized constraint AST spec.md
// §3 describes: "a discriminated union with variants for every supported
// constraint kind." Each concrete type below is one variant; astNode is
// an unexported marker method sealing the union to this package the way
// Go idiomatically expresses a closed sum type.
type Constraint interface {
	astNode()
	// vars returns every VarId the constraint AST references, used by
	// Model.validate to reject references to undeclared variables.
	vars() []VarId
}

// Compare is "x relop y" (spec.md §3 "binary compare").
type Compare struct {
	X, Y VarId
	Rel  Relation
}

func (Compare) astNode()         {}
func (c Compare) vars() []VarId  { return []VarId{c.X, c.Y} }

// CompareConst is "x relop k" for a literal constant k.
type CompareConst struct {
	X   VarId
	Rel Relation
	K   Value
}

func (CompareConst) astNode()        {}
func (c CompareConst) vars() []VarId { return []VarId{c.X} }

// Linear is "Sigma coeffs[i]*vars[i] relop K" over integer or float
// variables (spec.md §3 "linear int/float with coefficients"); Float
// distinguishes which bounds-filter variant materializes it (§4.4).
type Linear struct {
	Coeffs []float64
	Vars   []VarId
	Rel    Relation
	K      float64
	Float  bool
}

func (Linear) astNode()        {}
func (l Linear) vars() []VarId { return append([]VarId(nil), l.Vars...) }

// BoolLinear is a linear constraint restricted to 0/1 variables, kept as
// its own variant per spec.md §3 ("boolean linear") even though it
// materializes through the same propagator as Linear with Float=false.
type BoolLinear struct {
	Coeffs []int32
	Vars   []VarId
	Rel    Relation
	K      int32
}

func (BoolLinear) astNode() {}
func (b BoolLinear) vars() []VarId { return append([]VarId(nil), b.Vars...) }

// ReifiedCompare is "b <=> (x relop y)" (spec.md §3/§4.4).
type ReifiedCompare struct {
	B    VarId
	X, Y VarId
	Rel  Relation
}

func (ReifiedCompare) astNode()        {}
func (r ReifiedCompare) vars() []VarId { return []VarId{r.B, r.X, r.Y} }

// ReifiedLinear is "b <=> (Sigma c_i x_i relop K)".
type ReifiedLinear struct {
	B      VarId
	Coeffs []float64
	Vars   []VarId
	Rel    Relation
	K      float64
}

func (ReifiedLinear) astNode() {}
func (r ReifiedLinear) vars() []VarId {
	return append([]VarId{r.B}, r.Vars...)
}

// BoolClause is "(OR pos_i) OR (OR NOT neg_j)" (spec.md §3/§4.4).
type BoolClause struct {
	Pos []VarId
	Neg []VarId
}

func (BoolClause) astNode() {}
func (b BoolClause) vars() []VarId {
	return append(append([]VarId(nil), b.Pos...), b.Neg...)
}

// AllDifferent requires every variable take a distinct value.
type AllDifferent struct{ Vars []VarId }

func (AllDifferent) astNode()        {}
func (a AllDifferent) vars() []VarId { return append([]VarId(nil), a.Vars...) }

// AllEqual requires every variable take the same value.
type AllEqual struct{ Vars []VarId }

func (AllEqual) astNode()        {}
func (a AllEqual) vars() []VarId { return append([]VarId(nil), a.Vars...) }

// Element is "array[idx] = value" (spec.md §3/§4.4).
type Element struct {
	Idx   VarId
	Array []VarId
	Value VarId
}

func (Element) astNode() {}
func (e Element) vars() []VarId {
	return append(append([]VarId{e.Idx}, e.Array...), e.Value)
}

// Table is GAC over an explicit tuple list (spec.md §3/§4.4).
type Table struct {
	Vars   []VarId
	Tuples [][]int32
}

func (Table) astNode()        {}
func (t Table) vars() []VarId { return append([]VarId(nil), t.Vars...) }

// Count is "|{i : vars[i] = val}| = count" (spec.md §3/§4.4).
type Count struct {
	Vars  []VarId
	Val   int32
	Count VarId
}

func (Count) astNode() {}
func (c Count) vars() []VarId {
	return append(append([]VarId(nil), c.Vars...), c.Count)
}

// MinOf is "z = min(vars)"; MaxOf is "z = max(vars)" (spec.md §3/§4.4).
type MinOf struct {
	Vars []VarId
	Z    VarId
}

func (MinOf) astNode() {}
func (m MinOf) vars() []VarId {
	return append(append([]VarId(nil), m.Vars...), m.Z)
}

type MaxOf struct {
	Vars []VarId
	Z    VarId
}

func (MaxOf) astNode() {}
func (m MaxOf) vars() []VarId {
	return append(append([]VarId(nil), m.Vars...), m.Z)
}

// SumEq is "z = Sigma vars" (spec.md §3/§4.4 "Sum").
type SumEq struct {
	Vars []VarId
	Z    VarId
}

func (SumEq) astNode() {}
func (s SumEq) vars() []VarId {
	return append(append([]VarId(nil), s.Vars...), s.Z)
}

// Modulo is "z = x mod y".
type Modulo struct{ X, Y, Z VarId }

func (Modulo) astNode()        {}
func (m Modulo) vars() []VarId { return []VarId{m.X, m.Y, m.Z} }

// AbsOf is "z = |x|".
type AbsOf struct{ X, Z VarId }

func (AbsOf) astNode()        {}
func (a AbsOf) vars() []VarId { return []VarId{a.X, a.Z} }

// Div is "z = x / y" (integer division, truncating toward zero).
type Div struct{ X, Y, Z VarId }

func (Div) astNode()        {}
func (d Div) vars() []VarId { return []VarId{d.X, d.Y, d.Z} }

// Mul is "z = x * y".
type Mul struct{ X, Y, Z VarId }

func (Mul) astNode()        {}
func (m Mul) vars() []VarId { return []VarId{m.X, m.Y, m.Z} }

// Convert is an int<->float type conversion (spec.md §3 "type conversions
// int<->float with rounding mode"). ToFloat indicates the direction.
type Convert struct {
	From, To VarId
	ToFloat  bool
	Mode     RoundMode
}

func (Convert) astNode()        {}
func (c Convert) vars() []VarId { return []VarId{c.From, c.To} }

// GCC is global cardinality: for each (value, countVar) pair, the number
// of variables taking that value equals countVar's value.
type GCC struct {
	Vars   []VarId
	Values []int32
	Counts []VarId
}

func (GCC) astNode() {}
func (g GCC) vars() []VarId {
	return append(append([]VarId(nil), g.Vars...), g.Counts...)
}

// Task is one cumulative-resource task: fixed duration and demand, a
// start-time variable to be bounded.
type Task struct {
	Start    VarId
	Duration int32
	Demand   int32
}

// Cumulative bounds resource usage across overlapping tasks to Capacity
// at every instant (spec.md §3/§4.4 "cumulative").
type Cumulative struct {
	Tasks    []Task
	Capacity int32
}

func (Cumulative) astNode() {}
func (c Cumulative) vars() []VarId {
	out := make([]VarId, len(c.Tasks))
	for i, t := range c.Tasks {
		out[i] = t.Start
	}
	return out
}
