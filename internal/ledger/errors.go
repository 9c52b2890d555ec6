package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrForbidden         = errors.New("forbidden")
	ErrCurrencyMismatch  = errors.New("currency mismatch")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidCurrency   = errors.New("invalid currency")
	ErrInvalidInput      = errors.New("invalid input")

	// ErrAlreadyPaid is returned when paying a job twice.
	ErrAlreadyPaid = fmt.Errorf("job already paid: %w", ErrConflict)
)

// CurrencyMismatchError reports a deposit between a goal and an account
// held in different currencies.
type CurrencyMismatchError struct {
	Goal    string
	Account string
}

func (e *CurrencyMismatchError) Error() string {
	return fmt.Sprintf("currency mismatch: goal is in %s but account is in %s", e.Goal, e.Account)
}

func (e *CurrencyMismatchError) Is(target error) bool {
	return target == ErrCurrencyMismatch
}

func notFound(what string, id uint) error {
	return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
