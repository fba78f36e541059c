package postgres

import (
	"context"
	"errors"
	"time"

	"carmarket-rental-backend/internal/domain"
	"carmarket-rental-backend/internal/repository"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type reviewRepository struct {
	db sqlx.ExtContext
}

func NewReviewRepository(db sqlx.ExtContext) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

// Create inserts a review. The unique index on booking_id turns a concurrent
// second review of the same booking into domain.ErrReviewExists.
func (r *reviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	query := `INSERT INTO review (user_id, car_id, booking_id, rating, comment, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`
	err := r.db.QueryRowxContext(ctx, query,
		rv.UserID, rv.CarID, rv.BookingID, rv.Rating, rv.Comment, time.Now(),
	).Scan(&rv.ID, &rv.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrReviewExists
		}
		return err
	}
	return nil
}

func (r *reviewRepository) GetByBookingID(ctx context.Context, bookingID int32) (*domain.Review, error) {
	rv := &domain.Review{}
	query := `SELECT id, user_id, car_id, booking_id, rating, comment, created_at FROM review WHERE booking_id = $1`
	if err := sqlx.GetContext(ctx, r.db, rv, query, bookingID); err != nil {
		return nil, err
	}
	return rv, nil
}

func (r *reviewRepository) ExistsForBooking(ctx context.Context, bookingID int32) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM review WHERE booking_id = $1)`
	if err := sqlx.GetContext(ctx, r.db, &exists, query, bookingID); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *reviewRepository) ListByCar(ctx context.Context, carID int32) ([]domain.Review, error) {
	query := `SELECT id, user_id, car_id, booking_id, rating, comment, created_at
	          FROM review WHERE car_id = $1 ORDER BY created_at DESC`
	reviews := []domain.Review{}
	if err := sqlx.SelectContext(ctx, r.db, &reviews, query, carID); err != nil {
		return nil, err
	}
	return reviews, nil
}

// RatingForCar returns the unrounded mean rating and the review count.
func (r *reviewRepository) RatingForCar(ctx context.Context, carID int32) (*domain.CarRating, error) {
	rating := &domain.CarRating{}
	query := `SELECT COALESCE(AVG(rating), 0), COUNT(*) FROM review WHERE car_id = $1`
	err := r.db.QueryRowxContext(ctx, query, carID).Scan(&rating.AverageRating, &rating.TotalReviews)
	if err != nil {
		return nil, err
	}
	return rating, nil
}
