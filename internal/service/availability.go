package service

import (
	"context"

	"carmarket-rental-backend/internal/calendar"
	"carmarket-rental-backend/internal/domain"
	"carmarket-rental-backend/internal/logger"
	"carmarket-rental-backend/internal/repository"
)

type availabilityService struct {
	availabilityRepo repository.AvailabilityRepository
	txManager        repository.TxManager
	clock            Clock
}

func NewAvailabilityService(
	availabilityRepo repository.AvailabilityRepository,
	txManager repository.TxManager,
	clock Clock,
) AvailabilityService {
	return &availabilityService{
		availabilityRepo: availabilityRepo,
		txManager:        txManager,
		clock:            clock,
	}
}

// AddAvailability unions periods into the car's stored set. Overlapping and
// adjacent periods collapse into one.
func (s *availabilityService) AddAvailability(ctx context.Context, carID int32, periods []calendar.Range) error {
	logger.EnterMethod("availabilityService.AddAvailability", "carID", carID, "periods", len(periods))

	if err := validateNewPeriods(periods, s.clock.Today()); err != nil {
		logger.ExitMethodWithError("availabilityService.AddAvailability", err, "carID", carID)
		return err
	}

	err := s.txManager.WithCarLock(ctx, carID, func(ctx context.Context, scope repository.CarScope) error {
		stored, err := scope.Availability.ListByCar(ctx, carID)
		if err != nil {
			return err
		}
		ranges := append(domain.PeriodRanges(stored), periods...)
		return scope.Availability.ReplaceForCar(ctx, carID, calendar.Merge(ranges))
	})
	if err != nil {
		logger.ExitMethodWithError("availabilityService.AddAvailability", err, "carID", carID)
		return err
	}

	logger.ExitMethod("availabilityService.AddAvailability", "carID", carID)
	return nil
}

// RemoveAvailability subtracts periods from the stored set in input order.
// Removing days that are not available is a no-op.
func (s *availabilityService) RemoveAvailability(ctx context.Context, carID int32, periods []calendar.Range) error {
	logger.EnterMethod("availabilityService.RemoveAvailability", "carID", carID, "periods", len(periods))

	if err := validatePeriodShapes(periods); err != nil {
		logger.ExitMethodWithError("availabilityService.RemoveAvailability", err, "carID", carID)
		return err
	}

	err := s.txManager.WithCarLock(ctx, carID, func(ctx context.Context, scope repository.CarScope) error {
		stored, err := scope.Availability.ListByCar(ctx, carID)
		if err != nil {
			return err
		}
		remaining := calendar.SubtractAll(domain.PeriodRanges(stored), periods)
		return scope.Availability.ReplaceForCar(ctx, carID, remaining)
	})
	if err != nil {
		logger.ExitMethodWithError("availabilityService.RemoveAvailability", err, "carID", carID)
		return err
	}

	logger.ExitMethod("availabilityService.RemoveAvailability", "carID", carID)
	return nil
}

// SetAvailability replaces the stored set. An empty list clears it.
func (s *availabilityService) SetAvailability(ctx context.Context, carID int32, periods []calendar.Range) error {
	logger.EnterMethod("availabilityService.SetAvailability", "carID", carID, "periods", len(periods))

	var merged []calendar.Range
	if len(periods) > 0 {
		if err := validateNewPeriods(periods, s.clock.Today()); err != nil {
			logger.ExitMethodWithError("availabilityService.SetAvailability", err, "carID", carID)
			return err
		}
		merged = calendar.Merge(periods)
	}

	err := s.txManager.WithCarLock(ctx, carID, func(ctx context.Context, scope repository.CarScope) error {
		return scope.Availability.ReplaceForCar(ctx, carID, merged)
	})
	if err != nil {
		logger.ExitMethodWithError("availabilityService.SetAvailability", err, "carID", carID)
		return err
	}

	logger.ExitMethod("availabilityService.SetAvailability", "carID", carID, "stored", len(merged))
	return nil
}

// IsAvailable reports whether one stored period contains every day of
// [start, end]. Two touching periods never occur, so a request spanning a gap
// is unavailable.
func (s *availabilityService) IsAvailable(ctx context.Context, carID int32, start, end calendar.Date) (bool, error) {
	want, err := newRange(start, end)
	if err != nil {
		return false, err
	}
	stored, err := s.availabilityRepo.ListByCar(ctx, carID)
	if err != nil {
		return false, err
	}
	return calendar.AnyContains(domain.PeriodRanges(stored), want), nil
}

func (s *availabilityService) GetAvailability(ctx context.Context, carID int32) ([]domain.AvailabilityPeriod, error) {
	return s.availabilityRepo.ListByCar(ctx, carID)
}

func (s *availabilityService) GetAvailableDatesInRange(ctx context.Context, carID int32, start, end calendar.Date) ([]calendar.Range, error) {
	window, err := newRange(start, end)
	if err != nil {
		return nil, err
	}
	stored, err := s.availabilityRepo.ListByCar(ctx, carID)
	if err != nil {
		return nil, err
	}
	return calendar.Clip(domain.PeriodRanges(stored), window), nil
}

func newRange(start, end calendar.Date) (calendar.Range, error) {
	r, err := calendar.NewRange(start, end)
	if err != nil {
		return calendar.Range{}, domain.NewValidationError("start date must not be after end date")
	}
	return r, nil
}

func validatePeriodShapes(periods []calendar.Range) error {
	if len(periods) == 0 {
		return domain.NewValidationError("at least one availability period is required")
	}
	for _, p := range periods {
		if !p.Valid() {
			return domain.NewValidationError("start date %s must not be after end date %s", p.Start, p.End)
		}
	}
	return nil
}

func validateNewPeriods(periods []calendar.Range, today calendar.Date) error {
	if err := validatePeriodShapes(periods); err != nil {
		return err
	}
	for _, p := range periods {
		if p.Start < today {
			return domain.NewValidationError("start date %s cannot be in the past", p.Start)
		}
	}
	return nil
}
