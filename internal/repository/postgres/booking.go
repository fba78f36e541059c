package postgres

import (
	"context"
	"fmt"
	"time"

	"carmarket-rental-backend/internal/calendar"
	"carmarket-rental-backend/internal/domain"
	"carmarket-rental-backend/internal/logger"
	"carmarket-rental-backend/internal/repository"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const bookingColumns = `b.id, b.car_id, b.client_id, b.start_date, b.end_date, b.status,
	b.payment_status, b.payment_method, b.total_price, b.created_at, b.updated_at`

type bookingRepository struct {
	db sqlx.ExtContext
}

func NewBookingRepository(db sqlx.ExtContext) repository.BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	logger.EnterMethod("bookingRepository.Create", "carID", b.CarID, "clientID", b.ClientID, "range", b.Range().String())

	query := `
		INSERT INTO booking (
			car_id, client_id, start_date, end_date, status,
			payment_status, payment_method, total_price, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		b.CarID, b.ClientID, b.StartDate, b.EndDate, b.Status,
		b.PaymentStatus, b.PaymentMethod, b.TotalPriceCents, time.Now(),
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		logger.ExitMethodWithError("bookingRepository.Create", err, "carID", b.CarID)
		return err
	}

	logger.ExitMethod("bookingRepository.Create", "bookingID", b.ID)
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	b := &domain.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM booking b WHERE b.id = $1`
	if err := sqlx.GetContext(ctx, r.db, b, query, id); err != nil {
		return nil, notFound(err, domain.ErrBookingNotFound)
	}
	return b, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id int32, from, to domain.BookingStatus) error {
	query := `UPDATE booking SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`
	logger.DatabaseCall("UPDATE", query, "bookingID", id, "from", from, "to", to)
	res, err := r.db.ExecContext(ctx, query, to, time.Now(), id, from)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return err
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult("UPDATE", n, err)
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrStatusChanged
	}
	return nil
}

func (r *bookingRepository) UpdatePayment(ctx context.Context, id int32, status domain.PaymentStatus, method *domain.PaymentMethod) error {
	var methodArg any
	if method != nil {
		methodArg = string(*method)
	}
	query := `UPDATE booking
	          SET payment_status = $1, payment_method = COALESCE($2, payment_method), updated_at = $3
	          WHERE id = $4`
	res, err := r.db.ExecContext(ctx, query, status, methodArg, time.Now(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

// ListOverlapping matches a stored booking when the requested start falls in
// it, the requested end falls in it, or it lies wholly inside the request.
func (r *bookingRepository) ListOverlapping(ctx context.Context, carID int32, rg calendar.Range, statuses []domain.BookingStatus, excludeID int32) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM booking b
	          WHERE b.car_id = $1 AND b.status = ANY($2)
	            AND ((b.start_date <= $3 AND b.end_date >= $3)
	              OR (b.start_date <= $4 AND b.end_date >= $4)
	              OR (b.start_date >= $3 AND b.end_date <= $4))
	            AND ($5 = 0 OR b.id <> $5)
	          ORDER BY b.start_date ASC`
	logger.DatabaseCall("SELECT", query, "carID", carID, "range", rg.String(), "excludeID", excludeID)
	bookings := []domain.Booking{}
	err := sqlx.SelectContext(ctx, r.db, &bookings, query,
		carID, pq.Array(statusStrings(statuses)), rg.Start, rg.End, excludeID)
	logger.DatabaseResult("SELECT", int64(len(bookings)), err)
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) ListByClient(ctx context.Context, clientID int32, filter repository.BookingFilter) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM booking b WHERE b.client_id = $1`
	args := []any{clientID}
	if filter.Status != nil {
		query += " AND b.status = $2"
		args = append(args, *filter.Status)
	}
	query += " ORDER BY b.created_at DESC"

	bookings := []domain.Booking{}
	if err := sqlx.SelectContext(ctx, r.db, &bookings, query, args...); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) ListBySeller(ctx context.Context, sellerID int32, filter repository.BookingFilter) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM booking b
	          JOIN cars c ON c.id = b.car_id
	          WHERE c.seller_id = $1`
	args := []any{sellerID}
	if filter.Status != nil {
		query += " AND b.status = $2"
		args = append(args, *filter.Status)
	}
	query += " ORDER BY b.created_at DESC"

	bookings := []domain.Booking{}
	if err := sqlx.SelectContext(ctx, r.db, &bookings, query, args...); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) ListUpcoming(ctx context.Context, userID int32, from calendar.Date, limit int) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM booking b
	          JOIN cars c ON c.id = b.car_id
	          WHERE (b.client_id = $1 OR c.seller_id = $1)
	            AND b.status = ANY($2)
	            AND b.start_date >= $3
	          ORDER BY b.start_date ASC, b.id ASC`
	args := []any{userID, pq.Array(statusStrings(domain.ActiveBookingStatuses)), from}
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, limit)
	}

	bookings := []domain.Booking{}
	if err := sqlx.SelectContext(ctx, r.db, &bookings, query, args...); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) ExpirePending(ctx context.Context, cutoff time.Time) ([]int32, error) {
	logger.EnterMethod("bookingRepository.ExpirePending", "cutoff", cutoff)

	query := `UPDATE booking SET status = $1, updated_at = $2
	          WHERE status = $3 AND created_at < $4
	          RETURNING id`
	var ids []int32
	err := sqlx.SelectContext(ctx, r.db, &ids, query,
		domain.BookingStatusExpired, time.Now(), domain.BookingStatusPending, cutoff)
	if err != nil {
		logger.ExitMethodWithError("bookingRepository.ExpirePending", err)
		return nil, err
	}

	logger.ExitMethod("bookingRepository.ExpirePending", "expired", len(ids))
	return ids, nil
}

func (r *bookingRepository) CompleteFinished(ctx context.Context, day calendar.Date) ([]int32, error) {
	logger.EnterMethod("bookingRepository.CompleteFinished", "day", day)

	query := `UPDATE booking SET status = $1, updated_at = $2
	          WHERE status = $3 AND end_date < $4
	          RETURNING id`
	var ids []int32
	err := sqlx.SelectContext(ctx, r.db, &ids, query,
		domain.BookingStatusCompleted, time.Now(), domain.BookingStatusConfirmed, day)
	if err != nil {
		logger.ExitMethodWithError("bookingRepository.CompleteFinished", err)
		return nil, err
	}

	logger.ExitMethod("bookingRepository.CompleteFinished", "completed", len(ids))
	return ids, nil
}

func (r *bookingRepository) SellerStats(ctx context.Context, sellerID int32) (*domain.SellerBookingStats, error) {
	query := `
		SELECT COUNT(*) AS total_bookings,
		       COUNT(*) FILTER (WHERE b.status = $2) AS confirmed_bookings,
		       COUNT(*) FILTER (WHERE b.status = $3) AS completed_bookings,
		       COALESCE(SUM(b.total_price) FILTER (
		           WHERE b.status IN ($2, $3) AND b.payment_status = $4), 0) AS total_revenue
		FROM booking b
		JOIN cars c ON c.id = b.car_id
		WHERE c.seller_id = $1
	`
	stats := &domain.SellerBookingStats{}
	err := sqlx.GetContext(ctx, r.db, stats, query, sellerID,
		domain.BookingStatusConfirmed, domain.BookingStatusCompleted, domain.PaymentStatusPaid)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
