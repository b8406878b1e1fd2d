package contract

import (
	"errors"
	"fmt"
)

// Error classes. Every rejection wraps exactly one of these so callers can
// branch with errors.Is; the message after the class names the detail.
var (
	ErrValidation         = errors.New("validation error")
	ErrDuplicateRecord    = errors.New("duplicate record")
	ErrInvalidState       = errors.New("invalid state")
	ErrExpired            = errors.New("proposal expired")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrArithmeticOverflow = errors.New("arithmetic overflow")
	ErrNotInitialized     = errors.New("organization not initialized")
	ErrNotFound           = errors.New("not found")

	// ErrProposalNotActive is the InvalidState raised for finalized proposals.
	ErrProposalNotActive = fmt.Errorf("%w: proposal not active", ErrInvalidState)
)

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// checkedAdd returns a+b or ErrArithmeticOverflow naming what overflowed.
func checkedAdd(a, b uint64, what string) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, fmt.Errorf("%w: %s", ErrArithmeticOverflow, what)
	}
	return sum, nil
}

func checkedAddInt64(a, b int64, what string) (int64, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, fmt.Errorf("%w: %s", ErrArithmeticOverflow, what)
	}
	return sum, nil
}
