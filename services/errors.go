package services

import "errors"

var (
	// ErrInvalidTransition is returned when the requested phase does not
	// follow the order's current phase, or the order is already terminal.
	ErrInvalidTransition = errors.New("invalid delivery state transition")

	// ErrMissingEvidence is returned when a pickup confirmation arrives
	// without the required proof-of-purchase image.
	ErrMissingEvidence = errors.New("bill image is required to confirm pickup")

	// ErrOrderNotFound is returned when no order matches the given id.
	ErrOrderNotFound = errors.New("order not found")
)
