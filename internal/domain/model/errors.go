package model

import "errors"

// Sentinel kinds shared by the pipeline stages.
var (
	// ErrEmptySelection marks a request whose selection yields no rows. It
	// halts downstream computation and is surfaced as a notice, not a failure.
	ErrEmptySelection = errors.New("empty selection")
	ErrDivisionByZero = errors.New("division by zero")
)
