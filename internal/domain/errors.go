package domain

import "errors"

var (
	// ErrInvalidPlan marks configuration errors found while validating plan inputs.
	ErrInvalidPlan = errors.New("invalid plan")
	// ErrDataRange marks a historical start year outside the available dataset.
	ErrDataRange = errors.New("historical data range")
	// ErrZeroBalance is returned when an allocation is requested for an empty account or portfolio.
	ErrZeroBalance = errors.New("allocation undefined for zero balance")
)
