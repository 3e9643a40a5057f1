package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// ErrDomain marks mathematically invalid input: probabilities outside (0,1),
	// non-positive dispersion, zero effect where a division is required.
	ErrDomain = errors.New("domain error")

	ErrProbabilityOutOfRange = fmt.Errorf("%w: probability must be in (0,1)", ErrDomain)
	ErrNonPositiveDispersion = fmt.Errorf("%w: dispersion must be positive", ErrDomain)
	ErrZeroEffect            = fmt.Errorf("%w: effect size cannot be zero", ErrDomain)
	ErrNonPositiveSampleSize = fmt.Errorf("%w: sample size must be positive", ErrDomain)

	// ErrInvalidParameters is returned by callers that pre-validate requests
	// before handing them to the engine.
	ErrInvalidParameters = errors.New("invalid parameters")
)

// NewDomainError wraps ErrDomain with context about the offending input
func NewDomainError(field string, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrDomain, field, reason)
}

// NewValidationError reports a request field that failed pre-validation
func NewValidationError(field string, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidParameters, field, reason)
}

// IsDomainError reports whether err originates from invalid mathematical input
func IsDomainError(err error) bool {
	return errors.Is(err, ErrDomain)
}

// IsValidationError reports whether err is a request pre-validation failure
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidParameters)
}
