package postgres

import (
	"context"
	"time"

	"carmarket-rental-backend/internal/calendar"
	"carmarket-rental-backend/internal/domain"
	"carmarket-rental-backend/internal/logger"
	"carmarket-rental-backend/internal/repository"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type availabilityRepository struct {
	db sqlx.ExtContext
}

func NewAvailabilityRepository(db sqlx.ExtContext) repository.AvailabilityRepository {
	return &availabilityRepository{db: db}
}

func (r *availabilityRepository) ListByCar(ctx context.Context, carID int32) ([]domain.AvailabilityPeriod, error) {
	query := `SELECT id, car_id, start_date, end_date, created_at, updated_at
	          FROM rental_availability WHERE car_id = $1 ORDER BY start_date ASC`
	periods := []domain.AvailabilityPeriod{}
	if err := sqlx.SelectContext(ctx, r.db, &periods, query, carID); err != nil {
		return nil, err
	}
	return periods, nil
}

func (r *availabilityRepository) ReplaceForCar(ctx context.Context, carID int32, ranges []calendar.Range) error {
	logger.EnterMethod("availabilityRepository.ReplaceForCar", "carID", carID, "ranges", len(ranges))

	deleteQuery := `DELETE FROM rental_availability WHERE car_id = $1`
	logger.DatabaseCall("DELETE", deleteQuery, "carID", carID)
	res, err := r.db.ExecContext(ctx, deleteQuery, carID)
	if err != nil {
		logger.DatabaseResult("DELETE", 0, err)
		return err
	}
	deleted, _ := res.RowsAffected()
	logger.DatabaseResult("DELETE", deleted, nil)

	if len(ranges) == 0 {
		logger.ExitMethod("availabilityRepository.ReplaceForCar", "carID", carID, "deleted", deleted)
		return nil
	}

	starts := make([]string, len(ranges))
	ends := make([]string, len(ranges))
	for i, rg := range ranges {
		starts[i] = rg.Start.String()
		ends[i] = rg.End.String()
	}

	insertQuery := `INSERT INTO rental_availability (car_id, start_date, end_date, created_at, updated_at)
	                SELECT $1, s, e, $4, $4 FROM unnest($2::date[], $3::date[]) AS t(s, e)`
	logger.DatabaseCall("INSERT", insertQuery, "carID", carID)
	res, err = r.db.ExecContext(ctx, insertQuery, carID, pq.Array(starts), pq.Array(ends), time.Now())
	if err != nil {
		logger.DatabaseResult("INSERT", 0, err)
		return err
	}
	inserted, _ := res.RowsAffected()
	logger.DatabaseResult("INSERT", inserted, nil)

	logger.ExitMethod("availabilityRepository.ReplaceForCar", "carID", carID, "deleted", deleted, "inserted", inserted)
	return nil
}
