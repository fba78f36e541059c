package postgres

import (
	"context"
	"database/sql"
	"errors"

	"carmarket-rental-backend/internal/repository"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Store struct {
	db *sqlx.DB
	repository.UserRepository
	repository.CarRepository
	repository.AvailabilityRepository
	repository.BookingRepository
	repository.ReviewRepository
	repository.TxManager
}

func NewStore(db *sql.DB) *Store {
	xdb := sqlx.NewDb(db, "postgres")
	return &Store{
		db:                     xdb,
		UserRepository:         NewUserRepository(xdb),
		CarRepository:          NewCarRepository(xdb),
		AvailabilityRepository: NewAvailabilityRepository(xdb),
		BookingRepository:      NewBookingRepository(xdb),
		ReviewRepository:       NewReviewRepository(xdb),
		TxManager:              NewTxManager(xdb),
	}
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// notFound replaces sql.ErrNoRows with target.
func notFound(err, target error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return target
	}
	return err
}

func statusStrings[S ~string](statuses []S) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
