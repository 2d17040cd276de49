package errors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrAlreadyExists         = errors.New("already exists")
	ErrNotFound              = errors.New("not found")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrEmptyCart             = errors.New("cart is empty")
	ErrInvalidQuantity       = errors.New("quantity must be a positive integer")
	ErrJustificationRequired = errors.New("justification is required")
	ErrForbidden             = errors.New("forbidden")

	// ErrBudgetExceeded and ErrInvalidTransition are match targets for
	// errors.Is; the concrete values carry context (BudgetError,
	// TransitionError).
	ErrBudgetExceeded    = errors.New("budget ceiling exceeded")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// BudgetError reports a rejected cart mutation or order submission with
// the full arithmetic behind the refusal.
type BudgetError struct {
	Ceiling   decimal.Decimal
	Current   decimal.Decimal
	Attempted decimal.Decimal
	Resulting decimal.Decimal
}

func (e *BudgetError) Error() string {
	return fmt.Sprintf("budget ceiling exceeded: %s + %s = %s > %s (over by %s)",
		e.Current, e.Attempted, e.Resulting, e.Ceiling, e.Overage())
}

// Overage returns the amount by which the ceiling would have been passed.
func (e *BudgetError) Overage() decimal.Decimal {
	return e.Resulting.Sub(e.Ceiling)
}

func (e *BudgetError) Is(target error) bool {
	return target == ErrBudgetExceeded
}

// TransitionError reports a status move outside the transition table.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
