package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carmarket-rental-backend/internal/calendar"
	"carmarket-rental-backend/internal/domain"
	"carmarket-rental-backend/internal/logger"
	"carmarket-rental-backend/internal/repository"
	"carmarket-rental-backend/internal/utils"
)

const (
	DefaultPendingTTL    = 24 * time.Hour
	defaultUpcomingLimit = 10
	maxUpcomingLimit     = 100
)

type bookingService struct {
	bookingRepo      repository.BookingRepository
	availabilityRepo repository.AvailabilityRepository
	carRepo          repository.CarRepository
	userRepo         repository.UserRepository
	txManager        repository.TxManager
	clock            Clock
	pendingTTL       time.Duration
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	availabilityRepo repository.AvailabilityRepository,
	carRepo repository.CarRepository,
	userRepo repository.UserRepository,
	txManager repository.TxManager,
	clock Clock,
	pendingTTL time.Duration,
) BookingService {
	if pendingTTL <= 0 {
		pendingTTL = DefaultPendingTTL
	}
	return &bookingService{
		bookingRepo:      bookingRepo,
		availabilityRepo: availabilityRepo,
		carRepo:          carRepo,
		userRepo:         userRepo,
		txManager:        txManager,
		clock:            clock,
		pendingTTL:       pendingTTL,
	}
}

// CreateBooking books [StartDate, EndDate] for the client. Availability and
// conflicts are checked under the car lock so two overlapping requests can
// never both succeed. Availability periods are left untouched.
func (s *bookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.CreateBooking", "carID", in.CarID, "clientID", in.ClientID, "start", in.StartDate, "end", in.EndDate)

	rg, err := newRange(in.StartDate, in.EndDate)
	if err != nil {
		logger.ExitMethodWithError("bookingService.CreateBooking", err)
		return nil, err
	}
	if rg.Start < s.clock.Today() {
		err := domain.NewValidationError("start date %s cannot be in the past", rg.Start)
		logger.ExitMethodWithError("bookingService.CreateBooking", err)
		return nil, err
	}
	method := domain.PaymentMethodCash
	if in.PaymentMethod != nil {
		if !in.PaymentMethod.Valid() {
			err := domain.NewValidationError("invalid payment method: %s", *in.PaymentMethod)
			logger.ExitMethodWithError("bookingService.CreateBooking", err)
			return nil, err
		}
		method = *in.PaymentMethod
	}

	var booking *domain.Booking
	err = s.txManager.WithCarLock(ctx, in.CarID, func(ctx context.Context, scope repository.CarScope) error {
		car := scope.Car
		if car.ListingType != domain.ListingTypeRent {
			return domain.ErrCarNotForRent
		}
		if car.SellerID == in.ClientID {
			return domain.ErrSelfBooking
		}

		periods, err := scope.Availability.ListByCar(ctx, car.ID)
		if err != nil {
			return err
		}
		if !calendar.AnyContains(domain.PeriodRanges(periods), rg) {
			return domain.ErrCarNotAvailable
		}

		conflicts, err := scope.Bookings.ListOverlapping(ctx, car.ID, rg, domain.ActiveBookingStatuses, 0)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return domain.ErrBookingConflict
		}

		cost, err := utils.CalculateRentalCost(car.DailyPriceCents, rg)
		if err != nil {
			return err
		}

		b := &domain.Booking{
			CarID:           car.ID,
			ClientID:        in.ClientID,
			StartDate:       rg.Start,
			EndDate:         rg.End,
			Status:          domain.BookingStatusPending,
			PaymentStatus:   domain.PaymentStatusPending,
			PaymentMethod:   method,
			TotalPriceCents: cost.TotalCents,
		}
		if err := scope.Bookings.Create(ctx, b); err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}
		booking = b
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("bookingService.CreateBooking", err, "carID", in.CarID)
		return nil, err
	}

	logger.ExitMethod("bookingService.CreateBooking", "bookingID", booking.ID, "totalCents", booking.TotalPriceCents)
	return booking, nil
}

// CheckBookingAvailability reports whether [start, end] lies within one
// availability period and clashes with no active booking other than
// excludeBookingID.
func (s *bookingService) CheckBookingAvailability(ctx context.Context, carID int32, start, end calendar.Date, excludeBookingID int32) (bool, error) {
	rg, err := newRange(start, end)
	if err != nil {
		return false, err
	}

	periods, err := s.availabilityRepo.ListByCar(ctx, carID)
	if err != nil {
		return false, err
	}
	if !calendar.AnyContains(domain.PeriodRanges(periods), rg) {
		return false, nil
	}

	conflicts, err := s.bookingRepo.ListOverlapping(ctx, carID, rg, domain.ActiveBookingStatuses, excludeBookingID)
	if err != nil {
		return false, err
	}
	return len(conflicts) == 0, nil
}

// GetBookingByID loads a booking together with its car, seller and client.
func (s *bookingService) GetBookingByID(ctx context.Context, id int32) (*domain.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	car, err := s.carRepo.GetByID(ctx, b.CarID)
	if err != nil {
		return nil, fmt.Errorf("failed to load car %d: %w", b.CarID, err)
	}
	seller, err := s.userRepo.GetByID(ctx, car.SellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load seller %d: %w", car.SellerID, err)
	}
	client, err := s.userRepo.GetByID(ctx, b.ClientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load client %d: %w", b.ClientID, err)
	}

	b.Car = car
	b.Seller = seller
	b.Client = client
	return b, nil
}

func (s *bookingService) GetBookingForUser(ctx context.Context, userID, id int32) (*domain.Booking, error) {
	b, err := s.GetBookingByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.RoleOf(userID, b.Car.SellerID) == domain.BookingRoleNone {
		return nil, domain.ErrNotBookingParticipant
	}
	return b, nil
}

// UpdateBookingStatus applies a user-driven transition. The actor must be the
// client or the seller, and only the seller may confirm or reject.
func (s *bookingService) UpdateBookingStatus(ctx context.Context, in UpdateStatusInput) (*domain.Booking, error) {
	logger.EnterMethod("bookingService.UpdateBookingStatus", "bookingID", in.BookingID, "status", in.Status, "updatedBy", in.UpdatedBy)

	if !in.Status.Valid() {
		err := domain.NewValidationError("invalid booking status: %s", in.Status)
		logger.ExitMethodWithError("bookingService.UpdateBookingStatus", err)
		return nil, err
	}

	b, err := s.bookingRepo.GetByID(ctx, in.BookingID)
	if err != nil {
		logger.ExitMethodWithError("bookingService.UpdateBookingStatus", err, "bookingID", in.BookingID)
		return nil, err
	}
	car, err := s.carRepo.GetByID(ctx, b.CarID)
	if err != nil {
		logger.ExitMethodWithError("bookingService.UpdateBookingStatus", err, "bookingID", in.BookingID)
		return nil, err
	}

	if err := domain.AuthorizeTransition(in.Status, b.RoleOf(in.UpdatedBy, car.SellerID)); err != nil {
		logger.ExitMethodWithError("bookingService.UpdateBookingStatus", err, "bookingID", in.BookingID)
		return nil, err
	}
	if err := domain.ValidateTransition(b.Status, in.Status); err != nil {
		logger.ExitMethodWithError("bookingService.UpdateBookingStatus", err, "bookingID", in.BookingID)
		return nil, err
	}

	if err := s.bookingRepo.UpdateStatus(ctx, b.ID, b.Status, in.Status); err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			err = s.staleTransitionError(ctx, b.ID, in.Status, err)
		}
		logger.ExitMethodWithError("bookingService.UpdateBookingStatus", err, "bookingID", in.BookingID)
		return nil, err
	}

	updated, err := s.GetBookingByID(ctx, b.ID)
	if err != nil {
		logger.ExitMethodWithError("bookingService.UpdateBookingStatus", err, "bookingID", in.BookingID)
		return nil, err
	}

	logger.ExitMethod("bookingService.UpdateBookingStatus", "bookingID", updated.ID, "status", updated.Status)
	return updated, nil
}

// staleTransitionError reports the transition against the status another
// writer left behind.
func (s *bookingService) staleTransitionError(ctx context.Context, id int32, to domain.BookingStatus, cause error) error {
	current, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return cause
	}
	if verr := domain.ValidateTransition(current.Status, to); verr != nil {
		return verr
	}
	return cause
}

func (s *bookingService) CancelBooking(ctx context.Context, bookingID, userID int32) (*domain.Booking, error) {
	return s.UpdateBookingStatus(ctx, UpdateStatusInput{BookingID: bookingID, Status: domain.BookingStatusCancelled, UpdatedBy: userID})
}

func (s *bookingService) ConfirmBooking(ctx context.Context, bookingID, sellerID int32) (*domain.Booking, error) {
	return s.UpdateBookingStatus(ctx, UpdateStatusInput{BookingID: bookingID, Status: domain.BookingStatusConfirmed, UpdatedBy: sellerID})
}

func (s *bookingService) RejectBooking(ctx context.Context, bookingID, sellerID int32) (*domain.Booking, error) {
	return s.UpdateBookingStatus(ctx, UpdateStatusInput{BookingID: bookingID, Status: domain.BookingStatusRejected, UpdatedBy: sellerID})
}

func (s *bookingService) CompleteBooking(ctx context.Context, bookingID, userID int32) (*domain.Booking, error) {
	return s.UpdateBookingStatus(ctx, UpdateStatusInput{BookingID: bookingID, Status: domain.BookingStatusCompleted, UpdatedBy: userID})
}

// UpdatePaymentStatus records the payment state reported by the payment
// provider. Any payment status may follow any other.
func (s *bookingService) UpdatePaymentStatus(ctx context.Context, bookingID int32, status domain.PaymentStatus, method *domain.PaymentMethod) (*domain.Booking, error) {
	if !status.Valid() {
		return nil, domain.NewValidationError("invalid payment status: %s", status)
	}
	if method != nil && !method.Valid() {
		return nil, domain.NewValidationError("invalid payment method: %s", *method)
	}

	if err := s.bookingRepo.UpdatePayment(ctx, bookingID, status, method); err != nil {
		return nil, err
	}
	return s.GetBookingByID(ctx, bookingID)
}

// ExpirePendingBookings expires every PENDING booking older than the pending
// TTL in one statement and returns how many changed.
func (s *bookingService) ExpirePendingBookings(ctx context.Context) (int, error) {
	cutoff := s.clock.now().Add(-s.pendingTTL)
	logger.EnterMethod("bookingService.ExpirePendingBookings", "cutoff", cutoff)

	ids, err := s.bookingRepo.ExpirePending(ctx, cutoff)
	if err != nil {
		logger.ExitMethodWithError("bookingService.ExpirePendingBookings", err)
		return 0, err
	}

	logger.ExitMethod("bookingService.ExpirePendingBookings", "expired", len(ids), "bookingIDs", ids)
	return len(ids), nil
}

// CompleteFinishedBookings completes CONFIRMED bookings whose last day is
// before today.
func (s *bookingService) CompleteFinishedBookings(ctx context.Context) (int, error) {
	today := s.clock.Today()
	logger.EnterMethod("bookingService.CompleteFinishedBookings", "today", today)

	ids, err := s.bookingRepo.CompleteFinished(ctx, today)
	if err != nil {
		logger.ExitMethodWithError("bookingService.CompleteFinishedBookings", err)
		return 0, err
	}

	logger.ExitMethod("bookingService.CompleteFinishedBookings", "completed", len(ids), "bookingIDs", ids)
	return len(ids), nil
}

func (s *bookingService) GetClientBookings(ctx context.Context, clientID int32, status *domain.BookingStatus) ([]domain.Booking, error) {
	if status != nil && !status.Valid() {
		return nil, domain.NewValidationError("invalid booking status: %s", *status)
	}
	return s.bookingRepo.ListByClient(ctx, clientID, repository.BookingFilter{Status: status})
}

func (s *bookingService) GetSellerBookings(ctx context.Context, sellerID int32, status *domain.BookingStatus) ([]domain.Booking, error) {
	if status != nil && !status.Valid() {
		return nil, domain.NewValidationError("invalid booking status: %s", *status)
	}
	return s.bookingRepo.ListBySeller(ctx, sellerID, repository.BookingFilter{Status: status})
}

// GetUpcomingBookings lists the user's PENDING and CONFIRMED bookings that
// start today or later, as client or as seller, soonest first.
func (s *bookingService) GetUpcomingBookings(ctx context.Context, userID int32, limit int) ([]domain.Booking, error) {
	if limit <= 0 {
		limit = defaultUpcomingLimit
	}
	if limit > maxUpcomingLimit {
		limit = maxUpcomingLimit
	}
	return s.bookingRepo.ListUpcoming(ctx, userID, s.clock.Today(), limit)
}

func (s *bookingService) GetSellerBookingStats(ctx context.Context, sellerID int32) (*domain.SellerBookingStats, error) {
	return s.bookingRepo.SellerStats(ctx, sellerID)
}
