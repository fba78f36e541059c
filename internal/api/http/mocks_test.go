package http

import (
	"context"

	"carmarket-rental-backend/internal/calendar"
	"carmarket-rental-backend/internal/domain"
	"carmarket-rental-backend/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*domain.User), args.Error(2)
}

type MockCarService struct {
	mock.Mock
}

func (m *MockCarService) GetCar(ctx context.Context, carID int32) (*domain.Car, error) {
	args := m.Called(ctx, carID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Car), args.Error(1)
}

func (m *MockCarService) VerifySeller(ctx context.Context, carID, userID int32) (*domain.Car, error) {
	args := m.Called(ctx, carID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Car), args.Error(1)
}

type MockAvailabilityService struct {
	mock.Mock
}

func (m *MockAvailabilityService) AddAvailability(ctx context.Context, carID int32, periods []calendar.Range) error {
	return m.Called(ctx, carID, periods).Error(0)
}

func (m *MockAvailabilityService) RemoveAvailability(ctx context.Context, carID int32, periods []calendar.Range) error {
	return m.Called(ctx, carID, periods).Error(0)
}

func (m *MockAvailabilityService) SetAvailability(ctx context.Context, carID int32, periods []calendar.Range) error {
	return m.Called(ctx, carID, periods).Error(0)
}

func (m *MockAvailabilityService) IsAvailable(ctx context.Context, carID int32, start, end calendar.Date) (bool, error) {
	args := m.Called(ctx, carID, start, end)
	return args.Bool(0), args.Error(1)
}

func (m *MockAvailabilityService) GetAvailability(ctx context.Context, carID int32) ([]domain.AvailabilityPeriod, error) {
	args := m.Called(ctx, carID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AvailabilityPeriod), args.Error(1)
}

func (m *MockAvailabilityService) GetAvailableDatesInRange(ctx context.Context, carID int32, start, end calendar.Date) ([]calendar.Range, error) {
	args := m.Called(ctx, carID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]calendar.Range), args.Error(1)
}

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) booking(args mock.Arguments) (*domain.Booking, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingService) bookings(args mock.Arguments) ([]domain.Booking, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingService) CreateBooking(ctx context.Context, in service.CreateBookingInput) (*domain.Booking, error) {
	return m.booking(m.Called(ctx, in))
}

func (m *MockBookingService) CheckBookingAvailability(ctx context.Context, carID int32, start, end calendar.Date, excludeBookingID int32) (bool, error) {
	args := m.Called(ctx, carID, start, end, excludeBookingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingService) GetBookingByID(ctx context.Context, id int32) (*domain.Booking, error) {
	return m.booking(m.Called(ctx, id))
}

func (m *MockBookingService) GetBookingForUser(ctx context.Context, userID, id int32) (*domain.Booking, error) {
	return m.booking(m.Called(ctx, userID, id))
}

func (m *MockBookingService) UpdateBookingStatus(ctx context.Context, in service.UpdateStatusInput) (*domain.Booking, error) {
	return m.booking(m.Called(ctx, in))
}

func (m *MockBookingService) CancelBooking(ctx context.Context, bookingID, userID int32) (*domain.Booking, error) {
	return m.booking(m.Called(ctx, bookingID, userID))
}

func (m *MockBookingService) ConfirmBooking(ctx context.Context, bookingID, sellerID int32) (*domain.Booking, error) {
	return m.booking(m.Called(ctx, bookingID, sellerID))
}

func (m *MockBookingService) RejectBooking(ctx context.Context, bookingID, sellerID int32) (*domain.Booking, error) {
	return m.booking(m.Called(ctx, bookingID, sellerID))
}

func (m *MockBookingService) CompleteBooking(ctx context.Context, bookingID, userID int32) (*domain.Booking, error) {
	return m.booking(m.Called(ctx, bookingID, userID))
}

func (m *MockBookingService) UpdatePaymentStatus(ctx context.Context, bookingID int32, status domain.PaymentStatus, method *domain.PaymentMethod) (*domain.Booking, error) {
	return m.booking(m.Called(ctx, bookingID, status, method))
}

func (m *MockBookingService) ExpirePendingBookings(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockBookingService) CompleteFinishedBookings(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockBookingService) GetClientBookings(ctx context.Context, clientID int32, status *domain.BookingStatus) ([]domain.Booking, error) {
	return m.bookings(m.Called(ctx, clientID, status))
}

func (m *MockBookingService) GetSellerBookings(ctx context.Context, sellerID int32, status *domain.BookingStatus) ([]domain.Booking, error) {
	return m.bookings(m.Called(ctx, sellerID, status))
}

func (m *MockBookingService) GetUpcomingBookings(ctx context.Context, userID int32, limit int) ([]domain.Booking, error) {
	return m.bookings(m.Called(ctx, userID, limit))
}

func (m *MockBookingService) GetSellerBookingStats(ctx context.Context, sellerID int32) (*domain.SellerBookingStats, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SellerBookingStats), args.Error(1)
}

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) CreateReview(ctx context.Context, in service.CreateReviewInput) (*domain.Review, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *MockReviewService) CanReviewBooking(ctx context.Context, userID, bookingID int32) (bool, error) {
	args := m.Called(ctx, userID, bookingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReviewService) GetCarRating(ctx context.Context, carID int32) (*domain.CarRating, error) {
	args := m.Called(ctx, carID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CarRating), args.Error(1)
}

func (m *MockReviewService) ListCarReviews(ctx context.Context, carID int32) ([]domain.Review, error) {
	args := m.Called(ctx, carID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

type fakePinger struct {
	err error
}

func (p fakePinger) Ping(context.Context) error { return p.err }
