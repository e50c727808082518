package csolve

import (
	"os"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Package-level logger, grounded on the zerolog.Logger field embedded in
// gnark's solver type (constraint/bls12-381/solver.go, retrieved
// alongside this pack): a single logger instance threaded through every
// solve, defaulting to disabled so a library consumer pays nothing
// unless it opts in.
var currentLogger atomic.Pointer[zerolog.Logger]

func init() {
	l := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.Disabled)
	currentLogger.Store(&l)
}

// SetLogger replaces the package-wide logger used for solve-lifecycle
// events (spec.md §1's ambient logging: materialization, root
// propagation, search start/stop, resource-limit outcomes).
func SetLogger(l zerolog.Logger) { currentLogger.Store(&l) }

// Logger returns the current package-wide logger.
func Logger() zerolog.Logger { return *currentLogger.Load() }
