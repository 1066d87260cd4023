package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrEmptyOrder          = errors.New("order must contain at least one ticket")
	ErrOutOfRange          = errors.New("seat position out of range")
	ErrSeatTaken           = errors.New("seat already taken")
	ErrTransactionConflict = errors.New("concurrent order conflict, retry the order")
	ErrInvalidInput        = errors.New("invalid input")
)

// Violation is a single field-attributed validation failure.
type Violation struct {
	Field   string
	Message string
	// Kind is ErrOutOfRange or ErrSeatTaken.
	Kind error
}

// OrderValidationError reports every violation of the first ticket in an
// order that failed validation.
type OrderValidationError struct {
	Index      int
	Violations []Violation
}

func (e *OrderValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return fmt.Sprintf("ticket %d: %s", e.Index, strings.Join(parts, "; "))
}

// Is lets errors.Is match the kinds of the carried violations.
func (e *OrderValidationError) Is(target error) bool {
	for _, v := range e.Violations {
		if v.Kind == target {
			return true
		}
	}
	return false
}

// Fields groups messages by field name, keeping violation order.
func (e *OrderValidationError) Fields() map[string][]string {
	out := make(map[string][]string, len(e.Violations))
	for _, v := range e.Violations {
		out[v.Field] = append(out[v.Field], v.Message)
	}
	return out
}

// FieldError is a validation failure of a reference resource.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidInput
}

// SeatConflictError is a seat collision detected by the storage layer at
// commit time rather than by validation.
type SeatConflictError struct {
	FlightID int64
	Seat     Seat
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("flight %d row %d seat %d: %s", e.FlightID, e.Seat.Row, e.Seat.Seat, ErrSeatTaken)
}

func (e *SeatConflictError) Is(target error) bool {
	return target == ErrSeatTaken
}
