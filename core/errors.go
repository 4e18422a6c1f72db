package core

import "errors"

// Error kinds surfaced by the analysis core. Everything the core can fail
// with wraps one of these, so callers can route on errors.Is.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrInsufficientData = errors.New("insufficient data")
	ErrEmptyPortfolio   = errors.New("empty portfolio")
)
