package lpsolve

import (
	"errors"
	"math"
)

// ErrSingular is returned when a basis matrix has no LU factorization
// (linearly dependent basic columns).
var ErrSingular = errors.New("lpsolve: singular basis matrix")

// LU is the LU factorization (with partial pivoting) of one basis matrix,
// spec.md §4.5's "the LU factorization of the corresponding columns".
//
// A Solve call in simplex.go refactors from scratch once, between Phase I
// and Phase II (only when Phase I runs), rather than maintaining the factorization with
// incremental rank-one (Bartels–Golub style) updates across pivots: the
// LP subsystem runs once per solve at the root (spec.md §4.5 "Invocation
// policy"), not per search node, so the performance case for incremental
// updates does not apply here. Consequently there is no separate
// "refactor threshold" counter — every basis solve is already a fresh
// factorization.
type LU struct {
	n    int
	data []float64 // combined L/U storage, row-major
	perm []int     // row permutation applied by partial pivoting
	sign float64   // +1/-1, parity of the permutation (unused by callers today)
}

// Factorize computes the LU decomposition of the n x n matrix a (row-major,
// len(a) == n*n) using Doolittle's method with partial pivoting.
func Factorize(n int, a []float64) (*LU, error) {
	lu := &LU{n: n, data: append([]float64(nil), a...), perm: make([]int, n), sign: 1}
	for i := range lu.perm {
		lu.perm[i] = i
	}

	at := func(r, c int) float64 { return lu.data[r*n+c] }
	set := func(r, c int, v float64) { lu.data[r*n+c] = v }

	for k := 0; k < n; k++ {
		// Partial pivot: largest magnitude in column k at or below row k.
		piv, best := k, math.Abs(at(k, k))
		for i := k + 1; i < n; i++ {
			if v := math.Abs(at(i, k)); v > best {
				piv, best = i, v
			}
		}
		if best < 1e-12 {
			return nil, ErrSingular
		}
		if piv != k {
			for c := 0; c < n; c++ {
				tmp := at(k, c)
				set(k, c, at(piv, c))
				set(piv, c, tmp)
			}
			lu.perm[k], lu.perm[piv] = lu.perm[piv], lu.perm[k]
			lu.sign = -lu.sign
		}
		for i := k + 1; i < n; i++ {
			factor := at(i, k) / at(k, k)
			set(i, k, factor)
			for c := k + 1; c < n; c++ {
				set(i, c, at(i, c)-factor*at(k, c))
			}
		}
	}
	return lu, nil
}

// Solve returns x such that A x = b, given this LU factorization of A.
func (lu *LU) Solve(b []float64) []float64 {
	n := lu.n
	at := func(r, c int) float64 { return lu.data[r*n+c] }

	pb := make([]float64, n)
	for i, p := range lu.perm {
		pb[i] = b[p]
	}

	// Forward substitution: L y = Pb (L has unit diagonal).
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := pb[i]
		for j := 0; j < i; j++ {
			sum -= at(i, j) * y[j]
		}
		y[i] = sum
	}

	// Back substitution: U x = y.
	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := y[i]
		for j := i + 1; j < n; j++ {
			sum -= at(i, j) * x[j]
		}
		x[i] = sum / at(i, i)
	}
	return x
}
