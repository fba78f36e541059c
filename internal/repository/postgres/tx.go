package postgres

import (
	"context"

	"carmarket-rental-backend/internal/domain"
	"carmarket-rental-backend/internal/logger"
	"carmarket-rental-backend/internal/repository"

	"github.com/jmoiron/sqlx"
)

type txManager struct {
	db *sqlx.DB
}

func NewTxManager(db *sqlx.DB) repository.TxManager {
	return &txManager{db: db}
}

func (m *txManager) WithCarLock(ctx context.Context, carID int32, fn func(ctx context.Context, scope repository.CarScope) error) error {
	logger.EnterMethod("txManager.WithCarLock", "carID", carID)

	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		logger.ExitMethodWithError("txManager.WithCarLock", err, "carID", carID)
		return err
	}
	defer tx.Rollback()

	car := &domain.Car{}
	query := `SELECT ` + carColumns + ` FROM cars WHERE id = $1 FOR UPDATE`
	if err := sqlx.GetContext(ctx, tx, car, query, carID); err != nil {
		err = notFound(err, domain.ErrCarNotFound)
		logger.ExitMethodWithError("txManager.WithCarLock", err, "carID", carID)
		return err
	}

	scope := repository.CarScope{
		Car:          car,
		Availability: NewAvailabilityRepository(tx),
		Bookings:     NewBookingRepository(tx),
	}
	if err := fn(ctx, scope); err != nil {
		logger.ExitMethodWithError("txManager.WithCarLock", err, "carID", carID)
		return err
	}

	if err := tx.Commit(); err != nil {
		logger.ExitMethodWithError("txManager.WithCarLock", err, "carID", carID)
		return err
	}

	logger.ExitMethod("txManager.WithCarLock", "carID", carID)
	return nil
}
