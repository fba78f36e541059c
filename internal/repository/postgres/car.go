package postgres

import (
	"context"

	"carmarket-rental-backend/internal/domain"
	"carmarket-rental-backend/internal/repository"

	"github.com/jmoiron/sqlx"
)

const carColumns = `id, seller_id, title, listing_type, daily_price_cents, created_at`

type carRepository struct {
	db sqlx.ExtContext
}

func NewCarRepository(db sqlx.ExtContext) repository.CarRepository {
	return &carRepository{db: db}
}

func (r *carRepository) GetByID(ctx context.Context, id int32) (*domain.Car, error) {
	c := &domain.Car{}
	query := `SELECT ` + carColumns + ` FROM cars WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.db, c, query, id); err != nil {
		return nil, notFound(err, domain.ErrCarNotFound)
	}
	return c, nil
}
