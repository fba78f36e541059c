package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so the transport layer can map them to
// status codes without inspecting messages.
type ErrorKind string

const (
	KindValidation      ErrorKind = "VALIDATION"
	KindNotFound        ErrorKind = "NOT_FOUND"
	KindConflict        ErrorKind = "CONFLICT"
	KindPermission      ErrorKind = "PERMISSION"
	KindStateTransition ErrorKind = "STATE_TRANSITION"
)

type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Expected marks domain errors as rejected requests rather than faults.
func (e *Error) Expected() bool { return true }

// StateTransitionError reports a status change missing from the transition table.
type StateTransitionError struct {
	From BookingStatus
	To   BookingStatus
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("cannot change booking status from %s to %s", e.From, e.To)
}

func (e *StateTransitionError) Expected() bool { return true }

var (
	ErrCarNotFound     = &Error{Kind: KindNotFound, Message: "Car not found"}
	ErrBookingNotFound = &Error{Kind: KindNotFound, Message: "Booking not found"}
	ErrUserNotFound    = &Error{Kind: KindNotFound, Message: "User not found"}

	ErrCarNotForRent     = &Error{Kind: KindConflict, Message: "car is not listed for rent"}
	ErrSelfBooking       = &Error{Kind: KindConflict, Message: "sellers cannot book their own car"}
	ErrCarNotAvailable   = &Error{Kind: KindConflict, Message: "car is not available for the selected dates"}
	ErrBookingConflict   = &Error{Kind: KindConflict, Message: "car is already booked for the selected dates"}
	ErrBookingIncomplete = &Error{Kind: KindConflict, Message: "only completed bookings can be reviewed"}
	ErrReviewExists      = &Error{Kind: KindConflict, Message: "booking has already been reviewed"}

	ErrNotBookingParticipant = &Error{Kind: KindPermission, Message: "you do not have permission to access this booking"}
	ErrSellerOnlyTransition  = &Error{Kind: KindPermission, Message: "only the seller can confirm or reject a booking"}
	ErrNotCarSeller          = &Error{Kind: KindPermission, Message: "only the seller of this car can manage it"}
	ErrReviewNotAllowed      = &Error{Kind: KindPermission, Message: "you can only review your own bookings"}
)

func NewValidationError(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// WrapValidation marks err as caused by bad input.
func WrapValidation(message string, err error) error {
	return &Error{Kind: KindValidation, Message: message, Err: err}
}

// KindOf returns the classification of err, or "" for infrastructure errors.
func KindOf(err error) ErrorKind {
	var stErr *StateTransitionError
	if errors.As(err, &stErr) {
		return KindStateTransition
	}
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Kind
	}
	return ""
}
