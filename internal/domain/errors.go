package domain

import "errors"

// Domain errors. Adapters and handlers compare with errors.Is.
var (
	// ErrDataUnavailable indicates the input event or zone set was empty.
	// Views still render; the condition is reported, not raised.
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrInvalidGeometry indicates a zone or event record with malformed
	// or out-of-range geometry. Such records are skipped and counted.
	ErrInvalidGeometry = errors.New("invalid geometry")

	// ErrInvalidCoordinate indicates a latitude/longitude outside the valid range.
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
)
