package domain

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID        int32     `json:"id" db:"id"`
	UserID    int32     `json:"user_id" db:"user_id"`
	CarID     int32     `json:"car_id" db:"car_id"`
	BookingID int32     `json:"booking_id" db:"booking_id"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   string    `json:"comment" db:"comment"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type CarRating struct {
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int64   `json:"total_reviews"`
}

// CheckReviewEligibility verifies that userID may review booking for carID.
// It does not look for an existing review.
func CheckReviewEligibility(b *Booking, userID, carID int32) error {
	if b.ClientID != userID {
		return ErrReviewNotAllowed
	}
	if b.CarID != carID {
		return &Error{Kind: KindValidation, Message: "booking does not belong to this car"}
	}
	if b.Status != BookingStatusCompleted {
		return ErrBookingIncomplete
	}
	return nil
}
