package domain

import "errors"

var (
	// ErrInvalidTransition: the entity is not in a state that permits the
	// attempted operation. Surfaced to the caller, never retried as-is.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrCapacityExceeded: the institution's partnership student limit is
	// reached. Blocks new enrollment only.
	ErrCapacityExceeded = errors.New("institution student limit reached")

	// ErrPolicyViolation: cross-institution pairing attempted where at least
	// one institution disallows it.
	ErrPolicyViolation = errors.New("cross-institution matching not permitted")

	// ErrConcurrencyConflict: lost a balance/transaction write race; the whole
	// operation is safe to retry.
	ErrConcurrencyConflict = errors.New("concurrent modification, retry the operation")

	// ErrNotCreditEligible: the ingested booking is not completed or not
	// flagged credit-eligible.
	ErrNotCreditEligible = errors.New("booking is not credit eligible")
)
