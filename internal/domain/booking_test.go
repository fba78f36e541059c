package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusCancelled,
	BookingStatusCompleted,
	BookingStatusRejected,
	BookingStatusExpired,
}

func TestValidateTransition(t *testing.T) {
	legal := map[string]bool{
		"PENDING->CONFIRMED":   true,
		"PENDING->REJECTED":    true,
		"PENDING->CANCELLED":   true,
		"PENDING->EXPIRED":     true,
		"CONFIRMED->COMPLETED": true,
		"CONFIRMED->CANCELLED": true,
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			key := fmt.Sprintf("%s->%s", from, to)
			t.Run(key, func(t *testing.T) {
				err := ValidateTransition(from, to)
				if legal[key] {
					assert.NoError(t, err)
					return
				}
				var stErr *StateTransitionError
				require.ErrorAs(t, err, &stErr)
				assert.Equal(t, from, stErr.From)
				assert.Equal(t, to, stErr.To)
				assert.Contains(t, err.Error(), string(from))
				assert.Contains(t, err.Error(), string(to))
				assert.Equal(t, KindStateTransition, KindOf(err))
			})
		}
	}
}

func TestBookingStatus_IsTerminal(t *testing.T) {
	assert.False(t, BookingStatusPending.IsTerminal())
	assert.False(t, BookingStatusConfirmed.IsTerminal())
	assert.True(t, BookingStatusCancelled.IsTerminal())
	assert.True(t, BookingStatusCompleted.IsTerminal())
	assert.True(t, BookingStatusRejected.IsTerminal())
	assert.True(t, BookingStatusExpired.IsTerminal())
	assert.False(t, BookingStatus("BOGUS").IsTerminal())
}

func TestAuthorizeTransition(t *testing.T) {
	t.Run("Seller confirms and rejects", func(t *testing.T) {
		assert.NoError(t, AuthorizeTransition(BookingStatusConfirmed, BookingRoleSeller))
		assert.NoError(t, AuthorizeTransition(BookingStatusRejected, BookingRoleSeller))
	})

	t.Run("Client cannot confirm or reject", func(t *testing.T) {
		assert.ErrorIs(t, AuthorizeTransition(BookingStatusConfirmed, BookingRoleClient), ErrSellerOnlyTransition)
		assert.ErrorIs(t, AuthorizeTransition(BookingStatusRejected, BookingRoleClient), ErrSellerOnlyTransition)
	})

	t.Run("Both can cancel", func(t *testing.T) {
		assert.NoError(t, AuthorizeTransition(BookingStatusCancelled, BookingRoleClient))
		assert.NoError(t, AuthorizeTransition(BookingStatusCancelled, BookingRoleSeller))
	})

	t.Run("Outsiders are refused", func(t *testing.T) {
		err := AuthorizeTransition(BookingStatusCancelled, BookingRoleNone)
		assert.ErrorIs(t, err, ErrNotBookingParticipant)
		assert.Equal(t, KindPermission, KindOf(err))
	})
}

func TestBooking_RoleOf(t *testing.T) {
	b := &Booking{ClientID: 7}
	assert.Equal(t, BookingRoleClient, b.RoleOf(7, 9))
	assert.Equal(t, BookingRoleSeller, b.RoleOf(9, 9))
	assert.Equal(t, BookingRoleNone, b.RoleOf(3, 9))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("load: %w", ErrBookingNotFound)))
	assert.Equal(t, KindValidation, KindOf(NewValidationError("bad %s", "input")))
	assert.Equal(t, KindValidation, KindOf(WrapValidation("invalid start_date", fmt.Errorf("boom"))))
	assert.Equal(t, ErrorKind(""), KindOf(fmt.Errorf("connection refused")))
}

func TestCheckReviewEligibility(t *testing.T) {
	completed := &Booking{ClientID: 1, CarID: 2, Status: BookingStatusCompleted}

	assert.NoError(t, CheckReviewEligibility(completed, 1, 2))
	assert.ErrorIs(t, CheckReviewEligibility(completed, 5, 2), ErrReviewNotAllowed)
	assert.Equal(t, KindValidation, KindOf(CheckReviewEligibility(completed, 1, 3)))

	confirmed := &Booking{ClientID: 1, CarID: 2, Status: BookingStatusConfirmed}
	assert.ErrorIs(t, CheckReviewEligibility(confirmed, 1, 2), ErrBookingIncomplete)
}
