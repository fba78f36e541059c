package repository

import (
	"context"
	"errors"
	"time"

	"carmarket-rental-backend/internal/calendar"
	"carmarket-rental-backend/internal/domain"
)

// ErrStatusChanged is returned by BookingRepository.UpdateStatus when the
// booking no longer has the expected status.
var ErrStatusChanged = errors.New("booking status changed concurrently")

type UserRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type CarRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.Car, error)
}

type AvailabilityRepository interface {
	// ListByCar returns the stored periods of a car ordered by start date.
	ListByCar(ctx context.Context, carID int32) ([]domain.AvailabilityPeriod, error)
	// ReplaceForCar deletes every stored period of the car and inserts ranges.
	// Callers run it inside WithCarLock so the swap is atomic.
	ReplaceForCar(ctx context.Context, carID int32, ranges []calendar.Range) error
}

// BookingFilter narrows booking listings. Zero values mean "any".
type BookingFilter struct {
	Status *domain.BookingStatus
}

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int32) (*domain.Booking, error)
	// UpdateStatus moves the booking from status from to status to. It fails
	// with ErrStatusChanged if the stored status is no longer from.
	UpdateStatus(ctx context.Context, id int32, from, to domain.BookingStatus) error
	UpdatePayment(ctx context.Context, id int32, status domain.PaymentStatus, method *domain.PaymentMethod) error

	// ListOverlapping returns bookings of the car in one of statuses whose days
	// overlap r. excludeID > 0 leaves that booking out.
	ListOverlapping(ctx context.Context, carID int32, r calendar.Range, statuses []domain.BookingStatus, excludeID int32) ([]domain.Booking, error)

	ListByClient(ctx context.Context, clientID int32, filter BookingFilter) ([]domain.Booking, error)
	ListBySeller(ctx context.Context, sellerID int32, filter BookingFilter) ([]domain.Booking, error)
	// ListUpcoming returns active bookings starting on or after from where the
	// user is the client or the seller, soonest first.
	ListUpcoming(ctx context.Context, userID int32, from calendar.Date, limit int) ([]domain.Booking, error)

	// ExpirePending moves PENDING bookings created before cutoff to EXPIRED.
	ExpirePending(ctx context.Context, cutoff time.Time) ([]int32, error)
	// CompleteFinished moves CONFIRMED bookings that ended before day to COMPLETED.
	CompleteFinished(ctx context.Context, day calendar.Date) ([]int32, error)

	SellerStats(ctx context.Context, sellerID int32) (*domain.SellerBookingStats, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	GetByBookingID(ctx context.Context, bookingID int32) (*domain.Review, error)
	ExistsForBooking(ctx context.Context, bookingID int32) (bool, error)
	ListByCar(ctx context.Context, carID int32) ([]domain.Review, error)
	RatingForCar(ctx context.Context, carID int32) (*domain.CarRating, error)
}

// CarScope exposes the repositories bound to a transaction that holds the
// lock of one car.
type CarScope struct {
	Car          *domain.Car
	Availability AvailabilityRepository
	Bookings     BookingRepository
}

type TxManager interface {
	// WithCarLock runs fn in a transaction holding an exclusive lock on the
	// car row, so writers of the same car's availability and bookings run one
	// at a time. It returns domain.ErrCarNotFound when the car does not exist.
	// The transaction commits when fn returns nil and rolls back otherwise.
	WithCarLock(ctx context.Context, carID int32, fn func(ctx context.Context, scope CarScope) error) error
}
