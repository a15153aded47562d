package domain

import "errors"

var (
	// ErrJobNotFound is returned when a job id does not resolve to a record
	ErrJobNotFound = errors.New("job not found")

	// ErrSubcontractorNotFound is returned when a subcontractor id does not resolve to a record
	ErrSubcontractorNotFound = errors.New("subcontractor not found")

	// ErrAccountNotFound is returned when an account id does not resolve to a record
	ErrAccountNotFound = errors.New("account not found")

	// ErrJobNotOpen is returned when assigning a job that is not in Open status
	ErrJobNotOpen = errors.New("job is not open")

	// ErrInvalidTransition is returned for any status change outside
	// Open -> Assigned -> Completed (same-status reapplies are no-ops)
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrSubcontractorIneligible is returned when the target subcontractor
	// fails the availability/license/match predicate
	ErrSubcontractorIneligible = errors.New("subcontractor not eligible")

	// ErrAccessDenied is returned when the trial/payment gate rejects the actor
	ErrAccessDenied = errors.New("access denied")

	// ErrConcurrentModification is returned when an optimistic version check
	// loses a write race
	ErrConcurrentModification = errors.New("concurrent modification")
)
