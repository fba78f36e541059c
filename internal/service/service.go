package service

import (
	"context"
	"time"

	"carmarket-rental-backend/internal/calendar"
	"carmarket-rental-backend/internal/domain"
)

type AuthService interface {
	// Login checks the credentials and returns a signed access token.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

type CarService interface {
	GetCar(ctx context.Context, carID int32) (*domain.Car, error)
	// VerifySeller returns the car when userID is its seller and
	// domain.ErrNotCarSeller otherwise.
	VerifySeller(ctx context.Context, carID, userID int32) (*domain.Car, error)
}

type AvailabilityService interface {
	AddAvailability(ctx context.Context, carID int32, periods []calendar.Range) error
	RemoveAvailability(ctx context.Context, carID int32, periods []calendar.Range) error
	SetAvailability(ctx context.Context, carID int32, periods []calendar.Range) error
	IsAvailable(ctx context.Context, carID int32, start, end calendar.Date) (bool, error)
	GetAvailability(ctx context.Context, carID int32) ([]domain.AvailabilityPeriod, error)
	GetAvailableDatesInRange(ctx context.Context, carID int32, start, end calendar.Date) ([]calendar.Range, error)
}

type CreateBookingInput struct {
	CarID         int32
	ClientID      int32
	StartDate     calendar.Date
	EndDate       calendar.Date
	PaymentMethod *domain.PaymentMethod
}

type UpdateStatusInput struct {
	BookingID int32
	Status    domain.BookingStatus
	UpdatedBy int32
}

type BookingService interface {
	CreateBooking(ctx context.Context, in CreateBookingInput) (*domain.Booking, error)
	CheckBookingAvailability(ctx context.Context, carID int32, start, end calendar.Date, excludeBookingID int32) (bool, error)

	GetBookingByID(ctx context.Context, id int32) (*domain.Booking, error)
	GetBookingForUser(ctx context.Context, userID, id int32) (*domain.Booking, error)

	UpdateBookingStatus(ctx context.Context, in UpdateStatusInput) (*domain.Booking, error)
	CancelBooking(ctx context.Context, bookingID, userID int32) (*domain.Booking, error)
	ConfirmBooking(ctx context.Context, bookingID, sellerID int32) (*domain.Booking, error)
	RejectBooking(ctx context.Context, bookingID, sellerID int32) (*domain.Booking, error)
	CompleteBooking(ctx context.Context, bookingID, userID int32) (*domain.Booking, error)
	UpdatePaymentStatus(ctx context.Context, bookingID int32, status domain.PaymentStatus, method *domain.PaymentMethod) (*domain.Booking, error)

	ExpirePendingBookings(ctx context.Context) (int, error)
	CompleteFinishedBookings(ctx context.Context) (int, error)

	GetClientBookings(ctx context.Context, clientID int32, status *domain.BookingStatus) ([]domain.Booking, error)
	GetSellerBookings(ctx context.Context, sellerID int32, status *domain.BookingStatus) ([]domain.Booking, error)
	GetUpcomingBookings(ctx context.Context, userID int32, limit int) ([]domain.Booking, error)
	GetSellerBookingStats(ctx context.Context, sellerID int32) (*domain.SellerBookingStats, error)
}

type CreateReviewInput struct {
	UserID    int32
	CarID     int32
	BookingID int32
	Rating    int
	Comment   string
}

type ReviewService interface {
	CreateReview(ctx context.Context, in CreateReviewInput) (*domain.Review, error)
	CanReviewBooking(ctx context.Context, userID, bookingID int32) (bool, error)
	GetCarRating(ctx context.Context, carID int32) (*domain.CarRating, error)
	ListCarReviews(ctx context.Context, carID int32) ([]domain.Review, error)
}

// Clock tells services what "today" is in the business time zone.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

func NewClock(loc *time.Location) Clock {
	return Clock{Now: time.Now, Location: loc}
}

func (c Clock) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Today returns the current calendar day in the clock's location.
func (c Clock) Today() calendar.Date {
	return calendar.Today(c.now(), c.Location)
}
