package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared by services, repositories and delivery.
var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidInput     = errors.New("invalid input")
	ErrQuotaExceeded    = errors.New("subscription limit exceeded")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrCodeCollision    = errors.New("invitation code already exists")
	ErrNotRedeemable    = errors.New("invitation is not redeemable")
	ErrAlreadyMember    = errors.New("already a member of this club")
)

// QuotaError reports which seat category rejected a request.
type QuotaError struct {
	Category  SeatCategory
	Cap       int
	Committed int
	Requested int
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("Cannot add %s: subscription limit exceeded (limit %d, in use %d, requested %d)",
		e.Category.Plural(), e.Cap, e.Committed, e.Requested)
}

func (e *QuotaError) Unwrap() error { return ErrQuotaExceeded }

// ValidationError collects input problems found before any I/O.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError returns nil when problems is empty.
func NewValidationError(problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems}
}

// RedeemError reports why an invitation could not be redeemed.
type RedeemError struct {
	Reason RedeemReason
}

func (e *RedeemError) Error() string {
	return fmt.Sprintf("invitation is not redeemable: %s", e.Reason)
}

func (e *RedeemError) Unwrap() error { return ErrNotRedeemable }
