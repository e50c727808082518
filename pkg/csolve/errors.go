package csolve

import "errors"

// Validation errors (spec.md §7.1) — returned immediately at model build or
// at solve entry, before any propagation is attempted.
var (
	// ErrInvalidDomain is returned when a declared domain has min > max.
	ErrInvalidDomain = errors.New("csolve: invalid domain, min > max")
	// ErrDomainUniverseTooLarge is returned when a user-provided integer
	// domain declares a universe larger than 10^6 elements. Inference-
	// derived over-size domains are clamped instead of rejected (§4.6).
	ErrDomainUniverseTooLarge = errors.New("csolve: integer domain universe exceeds 1,000,000 elements")
	// ErrUnsupportedAST is returned when a posted constraint AST variant
	// cannot be materialized (a Constraint type materialization has no
	// case for).
	ErrUnsupportedAST = errors.New("csolve: unsupported or malformed constraint AST")
	// ErrUnknownVariable is returned when an AST or objective references a
	// VarId that was never created on this model.
	ErrUnknownVariable = errors.New("csolve: unknown variable id")
)

// failure is the internal "this branch is infeasible" signal described in
// spec.md §7.2. It is never surfaced to the user directly; propagation and
// search translate it into Infeasible or an alternate branch attempt. Its
// only payload is a short reason string for diagnostics; the trail, not
// the error, records what happened.
type failure struct{ reason string }

func (f *failure) Error() string { return "csolve: propagation failure: " + f.reason }

func newFailure(reason string) error { return &failure{reason: reason} }

// isFailure reports whether err is the internal propagation-failure signal.
func isFailure(err error) bool {
	var f *failure
	return errors.As(err, &f)
}
