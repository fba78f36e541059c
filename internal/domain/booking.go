package domain

import (
	"time"

	"carmarket-rental-backend/internal/calendar"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusRejected  BookingStatus = "REJECTED"
	BookingStatusExpired   BookingStatus = "EXPIRED"
)

// bookingTransitions is the only place legal status changes are defined.
// Statuses without an entry are terminal.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending: {
		BookingStatusConfirmed,
		BookingStatusRejected,
		BookingStatusCancelled,
		BookingStatusExpired,
	},
	BookingStatusConfirmed: {
		BookingStatusCompleted,
		BookingStatusCancelled,
	},
}

// ActiveBookingStatuses are the statuses whose bookings hold the car's days.
var ActiveBookingStatuses = []BookingStatus{BookingStatusPending, BookingStatusConfirmed}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled,
		BookingStatusCompleted, BookingStatusRejected, BookingStatusExpired:
		return true
	}
	return false
}

func (s BookingStatus) IsTerminal() bool {
	return s.Valid() && len(bookingTransitions[s]) == 0
}

func (s BookingStatus) CanTransitionTo(to BookingStatus) bool {
	for _, next := range bookingTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns a *StateTransitionError when from -> to is not in
// the transition table.
func ValidateTransition(from, to BookingStatus) error {
	if !from.CanTransitionTo(to) {
		return &StateTransitionError{From: from, To: to}
	}
	return nil
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
	PaymentStatusFailed   PaymentStatus = "FAILED"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusRefunded, PaymentStatusFailed:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodBankTransfer:
		return true
	}
	return false
}

// BookingRole is the relation of a user to a booking.
type BookingRole int

const (
	BookingRoleNone BookingRole = iota
	BookingRoleClient
	BookingRoleSeller
)

type Booking struct {
	ID            int32         `json:"id" db:"id"`
	CarID         int32         `json:"car_id" db:"car_id"`
	ClientID      int32         `json:"client_id" db:"client_id"`
	StartDate     calendar.Date `json:"start_date" db:"start_date"`
	EndDate       calendar.Date `json:"end_date" db:"end_date"`
	Status        BookingStatus `json:"status" db:"status"`
	PaymentStatus PaymentStatus `json:"payment_status" db:"payment_status"`
	PaymentMethod PaymentMethod `json:"payment_method" db:"payment_method"`

	// Snapshot of daily price x inclusive days taken at creation; never recomputed.
	TotalPriceCents int64     `json:"total_price_cents" db:"total_price"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`

	// Populated when fetching booking details
	Car    *Car  `json:"car,omitempty" db:"-"`
	Seller *User `json:"seller,omitempty" db:"-"`
	Client *User `json:"client,omitempty" db:"-"`
}

func (b *Booking) Range() calendar.Range {
	return calendar.Range{Start: b.StartDate, End: b.EndDate}
}

// RoleOf reports whether userID is the client or the seller of the booking.
func (b *Booking) RoleOf(userID, sellerID int32) BookingRole {
	switch userID {
	case b.ClientID:
		return BookingRoleClient
	case sellerID:
		return BookingRoleSeller
	}
	return BookingRoleNone
}

// AuthorizeTransition checks that role may move a booking to status to.
// Confirmation and rejection are reserved to the seller; every other
// transition is open to either participant.
func AuthorizeTransition(to BookingStatus, role BookingRole) error {
	if role == BookingRoleNone {
		return ErrNotBookingParticipant
	}
	if (to == BookingStatusConfirmed || to == BookingStatusRejected) && role != BookingRoleSeller {
		return ErrSellerOnlyTransition
	}
	return nil
}

// SellerBookingStats aggregates bookings across every car owned by a seller.
type SellerBookingStats struct {
	TotalBookings     int64 `json:"total_bookings" db:"total_bookings"`
	ConfirmedBookings int64 `json:"confirmed_bookings" db:"confirmed_bookings"`
	CompletedBookings int64 `json:"completed_bookings" db:"completed_bookings"`
	// Only COMPLETED or CONFIRMED bookings that are PAID count as revenue.
	TotalRevenueCents int64 `json:"total_revenue_cents" db:"total_revenue"`
}
