// Package planerr defines the typed error taxonomy the orchestrator and
// lock registry raise, grounded on original_source's
// core/validators/odl_state_validator.py status-code taxonomy
// (ALREADY_IN_BATCH, LOCKED, INVALID_PRODUCTION_STATUS).
package planerr

import (
	"errors"
	"fmt"
)

// Kind classifies a planning error for callers that branch on category
// rather than on a specific message.
type Kind int

const (
	// KindInputInvalid marks malformed or out-of-range caller input: no
	// autoclaves, a negative tool dimension, a zero vacuum-line demand, a
	// zero-sized or zero-capacity autoclave, or a work-order whose largest
	// tool fits no autoclave.
	KindInputInvalid Kind = iota
	// KindLockConflict marks a work-order the lock registry refuses to
	// release for batching: already reserved by another in-flight run, or
	// reported not-ready by the production status collaborator.
	KindLockConflict
	// KindInvariantViolation marks a post-solve audit failure: the solver
	// or batch builder produced a layout that breaks one of the packing
	// invariants (overlap, out-of-bounds, duplicate assignment). This
	// should never happen in a correct build and is always a bug, not a
	// caller mistake.
	KindInvariantViolation
)

func (k Kind) String() string {
	switch k {
	case KindInputInvalid:
		return "input_invalid"
	case KindLockConflict:
		return "lock_conflict"
	case KindInvariantViolation:
		return "invariant_violation"
	default:
		return "unknown"
	}
}

// PlanError is the concrete error type every planning-stage failure is
// wrapped in, so callers can use errors.As to recover the Kind and any
// offending identifiers.
type PlanError struct {
	Kind    Kind
	Subject string // work-order ID, cycle code, autoclave ID, or similar
	Reason  string
	Cause   error
}

func (e *PlanError) Error() string {
	if e.Subject != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Reason, e.Subject)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *PlanError) Unwrap() error { return e.Cause }

// InputInvalid builds a KindInputInvalid PlanError.
func InputInvalid(subject, reason string) error {
	return &PlanError{Kind: KindInputInvalid, Subject: subject, Reason: reason}
}

// LockConflict builds a KindLockConflict PlanError.
func LockConflict(subject, reason string) error {
	return &PlanError{Kind: KindLockConflict, Subject: subject, Reason: reason}
}

// InvariantViolation builds a KindInvariantViolation PlanError.
func InvariantViolation(subject, reason string) error {
	return &PlanError{Kind: KindInvariantViolation, Subject: subject, Reason: reason}
}

// Is reports whether err carries the given Kind, unwrapping as needed.
func Is(err error, kind Kind) bool {
	var pe *PlanError
	if !errors.As(err, &pe) {
		return false
	}
	return pe.Kind == kind
}
