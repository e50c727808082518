package csolve

import "math"

// Config holds the tunable knobs for a Model, mirrored from spec.md §6.
// The zero value is not meaningful; use DefaultConfig.
type Config struct {
	// FloatPrecisionDigits sets the quantization step s = 10^-p for float
	// domains; all float comparisons use tolerance s/2.
	FloatPrecisionDigits int

	// TimeoutMS is the wall-clock cap for the entire solve, in
	// milliseconds. Zero means unset (no cap).
	TimeoutMS int64

	// MemoryLimitMB is a soft cap on estimated solver memory. Zero means
	// unset (no cap).
	MemoryLimitMB int64

	// LPSolverEnabled controls whether the LP subsystem runs at the root
	// (spec.md §4.5/§4.8).
	LPSolverEnabled bool

	// UnboundedInferenceFactor widens the constraint-derived candidate
	// range of a variable declared without bounds: the range is padded by
	// factor times its span (at least 1) on each side (spec.md §4.6 step
	// 4). A variable with no candidate gets the default bounds below.
	UnboundedInferenceFactor float64

	// DefaultUnboundedIntBounds is the [min,max] fallback for integer
	// variables with no usable inference context.
	DefaultUnboundedIntBounds [2]int32

	// DefaultUnboundedFloatBounds is the [min,max] fallback for float
	// variables with no usable inference context.
	DefaultUnboundedFloatBounds [2]float64

	// LPMaxIterations caps each simplex solve the LP subsystem runs
	// (spec.md §4.5 "iteration-limit reached ⇒ the LP's current bounds
	// are discarded").
	LPMaxIterations int

	// MaxSearchNodes, when nonzero, caps the number of search-tree nodes
	// explored (an additional termination condition alongside timeout and
	// memory limit, spec.md §4.7).
	MaxSearchNodes int64
}

// DefaultConfig returns the configuration defaults from spec.md §6's table.
func DefaultConfig() Config {
	return Config{
		FloatPrecisionDigits:        6,
		TimeoutMS:                   0,
		MemoryLimitMB:               0,
		LPSolverEnabled:             true,
		UnboundedInferenceFactor:    1000,
		DefaultUnboundedIntBounds:  [2]int32{-1_000_000, 1_000_000},
		DefaultUnboundedFloatBounds: [2]float64{-1_000_000, 1_000_000},
		LPMaxIterations:             10_000,
		MaxSearchNodes:               0,
	}
}

// step returns the float quantization step s = 10^-p.
func (c Config) step() float64 {
	return math.Pow(10, -float64(c.FloatPrecisionDigits))
}

// tol returns the float comparison tolerance s/2.
func (c Config) tol() float64 {
	return c.step() / 2
}

// maxIntUniverse is the hard cap on a user-declared integer domain's
// universe size (spec.md §7.1); inference-derived over-size domains are
// clamped rather than rejected (§4.6 step 4).
const maxIntUniverse = 1_000_000

// bitsetMaxUniverse is the cutoff below which an integer domain uses the
// O(1)-everything bitset representation rather than a sparse set
// (spec.md §3: "≤ 64 candidate values").
const bitsetMaxUniverse = 64
