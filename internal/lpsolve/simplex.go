package lpsolve

import "math"

const eps = 1e-9

// RowKind is a linear row's comparison operator before standardization.
type RowKind int

const (
	LE RowKind = iota
	GE
	EQ
)

// Row is one linear constraint row, spec.md §4.5's "constraint matrix A,
// ... rhs vector b" expressed one row at a time for callers' convenience.
type Row struct {
	Coeffs []float64
	Kind   RowKind
	RHS    float64
}

// Bound is a variable's finite [Lo, Hi] range as seen by the LP subsystem
// (spec.md §4.6's bound-inference pre-pass guarantees every variable has
// finite bounds by the time the LP subsystem runs).
type Bound struct {
	Lo, Hi float64
}

// Problem is the root-level linear subsystem extracted at materialization
// (spec.md §4.5 "given the model's linear subsystem").
type Problem struct {
	NumVars int
	Rows    []Row
	Bounds  []Bound
}

// Status is the outcome of one simplex solve.
type Status int

const (
	StatusOptimal Status = iota
	StatusInfeasible
	StatusUnbounded
	StatusIterationLimit
)

// Result is one simplex solve's outcome: the optimal point (when
// Status == StatusOptimal), its objective value, and iteration counts
// split by phase (spec.md §4.5 "Statistics recorded per solve").
type Result struct {
	Status           Status
	X                []float64
	Objective        float64
	Phase1Iterations int
	Phase2Iterations int
	Phase1Needed     bool
	Refactorizations int
}

// solve minimizes objective (or maximizes, if maximize is true) subject
// to p's rows and bounds, via two-phase primal simplex (spec.md §4.5
// "Primal simplex, two-phase. Phase I solves a feasibility LP ...; Phase
// II optimizes the objective from the resulting feasible basis").
func solve(p Problem, objective []float64, maximize bool, maxIter int) Result {
	n := p.NumVars
	std := standardize(p)
	if std.m == 0 {
		// No constraint rows: unconstrained within bounds — optimum sits at
		// whichever bound the objective sign favors.
		x := make([]float64, n)
		for i := range x {
			c := objective[i]
			if maximize {
				c = -c
			}
			if c <= 0 {
				x[i] = p.Bounds[i].Hi
			} else {
				x[i] = p.Bounds[i].Lo
			}
		}
		return Result{Status: StatusOptimal, X: x, Objective: dot(objective, x)}
	}

	result := Result{}

	if std.numArtificial > 0 {
		result.Phase1Needed = true
		tab := std.buildTableau(phase1Objective(std))
		canonicalize(tab, std.basis, std.m)
		allowed := make([]bool, std.totalCols)
		for c := 0; c < std.totalCols; c++ {
			allowed[c] = true
		}
		iters, status := runSimplex(tab, std.basis, allowed, maxIter)
		result.Phase1Iterations = iters
		if status == StatusIterationLimit {
			result.Status = StatusIterationLimit
			return result
		}
		if tab[std.m][std.totalCols] < -eps {
			result.Status = StatusInfeasible
			return result
		}
		// Phase I feasible: forbid artificial columns from re-entering.
		for c := std.artificialStart; c < std.artificialStart+std.numArtificial; c++ {
			allowed[c] = false
		}
		std.refactor(tab)
		result.Refactorizations++

		obj2 := phase2Objective(std, objective, maximize)
		copy(tab[std.m], obj2)
		tab[std.m][std.totalCols] = 0
		canonicalize(tab, std.basis, std.m)

		iters2, status2 := runSimplex(tab, std.basis, allowed, maxIter)
		result.Phase2Iterations = iters2
		switch status2 {
		case StatusIterationLimit:
			result.Status = StatusIterationLimit
			return result
		case StatusUnbounded:
			result.Status = StatusUnbounded
			return result
		}
		result.X, result.Objective = std.extractSolution(tab, objective, maximize)
		result.Status = StatusOptimal
		return result
	}

	tab := std.buildTableau(phase2Objective(std, objective, maximize))
	canonicalize(tab, std.basis, std.m)
	allowed := make([]bool, std.totalCols)
	for c := range allowed {
		allowed[c] = true
	}
	iters, status := runSimplex(tab, std.basis, allowed, maxIter)
	result.Phase2Iterations = iters
	switch status {
	case StatusIterationLimit:
		result.Status = StatusIterationLimit
		return result
	case StatusUnbounded:
		result.Status = StatusUnbounded
		return result
	}
	result.X, result.Objective = std.extractSolution(tab, objective, maximize)
	result.Status = StatusOptimal
	return result
}

// TightenBounds implements spec.md §4.5's bound-tightening protocol: solve
// the feasibility LP once, then for each variable solve minimize/maximize
// xi to obtain LP-exact [lo,hi]. A variable whose LP is unbounded in a
// direction keeps its original bound in that direction (spec.md §4.5
// "unbounded LP ⇒ LP propagation is skipped for that variable").
func TightenBounds(p Problem, maxIter int) (bounds []Bound, feasible bool, stats Result) {
	zero := make([]float64, p.NumVars)
	feas := solve(p, zero, false, maxIter)
	if feas.Status == StatusInfeasible {
		return nil, false, feas
	}
	if feas.Status == StatusIterationLimit {
		return append([]Bound(nil), p.Bounds...), true, feas
	}

	out := append([]Bound(nil), p.Bounds...)
	agg := feas
	for i := 0; i < p.NumVars; i++ {
		obj := make([]float64, p.NumVars)
		obj[i] = 1

		minRes := solve(p, obj, false, maxIter)
		agg.Phase1Iterations += minRes.Phase1Iterations
		agg.Phase2Iterations += minRes.Phase2Iterations
		agg.Refactorizations += minRes.Refactorizations
		if minRes.Status == StatusOptimal && minRes.Objective > out[i].Lo {
			out[i].Lo = minRes.Objective
		}

		maxRes := solve(p, obj, true, maxIter)
		agg.Phase1Iterations += maxRes.Phase1Iterations
		agg.Phase2Iterations += maxRes.Phase2Iterations
		agg.Refactorizations += maxRes.Refactorizations
		if maxRes.Status == StatusOptimal && maxRes.Objective < out[i].Hi {
			out[i].Hi = maxRes.Objective
		}
	}
	return out, true, agg
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

// standardized holds a problem shifted to non-negative variables (x = y +
// lo) with every row brought to standard equality form via slack/
// surplus/artificial columns (spec.md §4.5 "slack variables are
// introduced for inequalities to bring the system to standard form").
type standardized struct {
	n               int // original variable count
	loOffset        []float64
	rows            []stdRow
	m               int // number of constraint rows
	slackStart      int
	artificialStart int
	numSlack        int
	numArtificial   int
	totalCols       int // n + slacks + artificials (excludes RHS column)
	basis           []int
}

type stdRow struct {
	coeffs []float64 // length n, over shifted variables
	kind   RowKind
	rhs    float64
	slack  int // column index of this row's slack/surplus, -1 if none
	artif  int // column index of this row's artificial, -1 if none
}

func standardize(p Problem) *standardized {
	n := p.NumVars
	lo := make([]float64, n)
	for i, b := range p.Bounds {
		lo[i] = b.Lo
	}

	var rows []stdRow
	for _, r := range p.Rows {
		rhs := r.RHS
		for i, a := range r.Coeffs {
			rhs -= a * lo[i]
		}
		rows = append(rows, stdRow{coeffs: append([]float64(nil), r.Coeffs...), kind: r.Kind, rhs: rhs})
	}
	for i := 0; i < n; i++ {
		hi := p.Bounds[i].Hi
		if math.IsInf(hi, 1) {
			continue
		}
		span := hi - lo[i]
		coeffs := make([]float64, n)
		coeffs[i] = 1
		rows = append(rows, stdRow{coeffs: coeffs, kind: LE, rhs: span})
	}

	for i := range rows {
		if rows[i].rhs < 0 {
			for j := range rows[i].coeffs {
				rows[i].coeffs[j] = -rows[i].coeffs[j]
			}
			rows[i].rhs = -rows[i].rhs
			switch rows[i].kind {
			case LE:
				rows[i].kind = GE
			case GE:
				rows[i].kind = LE
			}
		}
	}

	numSlack, numArtificial := 0, 0
	for i := range rows {
		switch rows[i].kind {
		case LE:
			numSlack++
		case GE:
			numSlack++
			numArtificial++
		case EQ:
			numArtificial++
		}
	}

	slackStart := n
	artificialStart := n + numSlack
	std := &standardized{
		n: n, loOffset: lo, rows: rows, m: len(rows),
		slackStart: slackStart, artificialStart: artificialStart,
		numSlack: numSlack, numArtificial: numArtificial,
		totalCols: artificialStart + numArtificial,
		basis:     make([]int, len(rows)),
	}

	slackCol, artifCol := slackStart, artificialStart
	for i := range std.rows {
		std.rows[i].slack, std.rows[i].artif = -1, -1
		switch std.rows[i].kind {
		case LE:
			std.rows[i].slack = slackCol
			std.basis[i] = slackCol
			slackCol++
		case GE:
			std.rows[i].slack = slackCol
			std.rows[i].artif = artifCol
			std.basis[i] = artifCol
			slackCol++
			artifCol++
		case EQ:
			std.rows[i].artif = artifCol
			std.basis[i] = artifCol
			artifCol++
		}
	}
	return std
}

// buildTableau lays out the (m+1) x (totalCols+1) simplex tableau: one row
// per constraint plus an objective row, with obj as the objective row's
// coefficients (reduced to canonical form by the caller when needed).
func (s *standardized) buildTableau(obj []float64) [][]float64 {
	width := s.totalCols + 1
	tab := make([][]float64, s.m+1)
	for i, r := range s.rows {
		row := make([]float64, width)
		copy(row, r.coeffs)
		if r.slack >= 0 {
			if r.kind == GE {
				row[r.slack] = -1
			} else {
				row[r.slack] = 1
			}
		}
		if r.artif >= 0 {
			row[r.artif] = 1
		}
		row[width-1] = r.rhs
		tab[i] = row
	}
	objRow := make([]float64, width)
	copy(objRow, obj)
	tab[s.m] = objRow
	return tab
}

// phase1Objective minimizes the sum of artificial variables.
func phase1Objective(s *standardized) []float64 {
	obj := make([]float64, s.totalCols+1)
	for c := s.artificialStart; c < s.artificialStart+s.numArtificial; c++ {
		obj[c] = 1
	}
	return obj
}

// phase2Objective materializes the caller's objective over the shifted
// variables (flipping sign for maximize, since the engine always
// minimizes).
func phase2Objective(s *standardized, objective []float64, maximize bool) []float64 {
	obj := make([]float64, s.totalCols+1)
	sign := 1.0
	if maximize {
		sign = -1.0
	}
	for i := 0; i < s.n; i++ {
		obj[i] = sign * objective[i]
	}
	return obj
}

// canonicalize zeroes the objective row's entries under every basic
// column by subtracting the appropriate multiple of that column's row,
// the standard simplex precondition that the reduced-cost row only
// reflects non-basic columns.
func canonicalize(tab [][]float64, basis []int, m int) {
	for r := 0; r < m; r++ {
		c := basis[r]
		factor := tab[m][c]
		if factor == 0 {
			continue
		}
		for j := range tab[m] {
			tab[m][j] -= factor * tab[r][j]
		}
	}
}

// runSimplex pivots until optimal, unbounded, or maxIter is reached.
// Entering-column selection defaults to the most-negative-reduced-cost
// rule; after a run of degenerate (non-improving) pivots it switches to
// Bland's smallest-index rule, matching spec.md §4.5's "pricing uses the
// most-negative-reduced-cost rule; ratio test uses Bland's rule only as a
// fallback to prevent cycling".
func runSimplex(tab [][]float64, basis []int, allowed []bool, maxIter int) (int, Status) {
	m := len(tab) - 1
	totalCols := len(tab[0]) - 1
	antiCycle := false
	noImprove := 0
	lastObj := tab[m][totalCols]

	iter := 0
	for ; iter < maxIter; iter++ {
		enter := -1
		if antiCycle {
			for c := 0; c < totalCols; c++ {
				if allowed[c] && tab[m][c] < -eps {
					enter = c
					break
				}
			}
		} else {
			best := -eps
			for c := 0; c < totalCols; c++ {
				if allowed[c] && tab[m][c] < best {
					best = tab[m][c]
					enter = c
				}
			}
		}
		if enter == -1 {
			return iter, StatusOptimal
		}

		leave := -1
		bestRatio := math.Inf(1)
		for r := 0; r < m; r++ {
			if tab[r][enter] <= eps {
				continue
			}
			ratio := tab[r][totalCols] / tab[r][enter]
			if ratio < bestRatio-eps || (math.Abs(ratio-bestRatio) <= eps && (leave == -1 || basis[r] < basis[leave])) {
				bestRatio, leave = ratio, r
			}
		}
		if leave == -1 {
			return iter, StatusUnbounded
		}

		pivotOn(tab, leave, enter)
		basis[leave] = enter

		newObj := tab[m][totalCols]
		if math.Abs(newObj-lastObj) < eps {
			noImprove++
		} else {
			noImprove = 0
		}
		lastObj = newObj
		if noImprove > 2*len(basis) {
			antiCycle = true
		}
	}
	return iter, StatusIterationLimit
}

func pivotOn(tab [][]float64, r, c int) {
	piv := tab[r][c]
	row := tab[r]
	for j := range row {
		row[j] /= piv
	}
	for i := range tab {
		if i == r {
			continue
		}
		factor := tab[i][c]
		if factor == 0 {
			continue
		}
		for j := range tab[i] {
			tab[i][j] -= factor * row[j]
		}
	}
}

// refactor recomputes the current basis's LU factorization from the
// original (pre-tableau) constraint columns and re-derives the basic
// variable values from it, the numerically-clean "refactor" step
// spec.md §4.5 calls for between phases (see the LU type's doc comment
// in lu.go for why this runs once per phase transition rather than
// incrementally per pivot).
func (s *standardized) refactor(tab [][]float64) {
	m := s.m
	basisCols := NewMatrix(m, m)
	for col, basisVar := range s.basis {
		column := s.tableColumn(basisVar)
		for row := 0; row < m; row++ {
			basisCols.Set(row, col, column[row])
		}
	}
	lu, err := Factorize(m, basisCols.data)
	if err != nil {
		return // degenerate/singular basis; keep the tableau's own values
	}
	b := make([]float64, m)
	for i, r := range s.rows {
		b[i] = r.rhs
	}
	xB := lu.Solve(b)
	width := len(tab[0])
	for row := 0; row < m; row++ {
		tab[row][width-1] = xB[row]
	}
}

// tableColumn returns the original (pre-pivot) constraint-matrix column
// for structural, slack, or artificial variable col.
func (s *standardized) tableColumn(col int) []float64 {
	out := make([]float64, s.m)
	for i, r := range s.rows {
		switch {
		case col < s.n:
			out[i] = r.coeffs[col]
		case col == r.slack:
			if r.kind == GE {
				out[i] = -1
			} else {
				out[i] = 1
			}
		case col == r.artif:
			out[i] = 1
		}
	}
	return out
}

// extractSolution reads shifted-variable values off the optimal tableau
// and un-shifts them back to the original variables' space.
func (s *standardized) extractSolution(tab [][]float64, objective []float64, maximize bool) ([]float64, float64) {
	width := len(tab[0])
	y := make([]float64, s.n)
	for row, basisVar := range s.basis {
		if basisVar < s.n {
			y[basisVar] = tab[row][width-1]
		}
	}
	x := make([]float64, s.n)
	for i := range x {
		x[i] = y[i] + s.loOffset[i]
	}
	return x, dot(objective, x)
}
