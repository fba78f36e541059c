package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"carmarket-rental-backend/internal/calendar"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestAvailabilityRepository_ListByCar(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAvailabilityRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		now := time.Now()
		rows := sqlmock.NewRows([]string{"id", "car_id", "start_date", "end_date", "created_at", "updated_at"}).
			AddRow(1, 7, "2026-01-01", "2026-01-05", now, now).
			AddRow(2, 7, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC), now, now)

		mock.ExpectQuery("SELECT (.+) FROM rental_availability WHERE car_id = \\$1 ORDER BY start_date ASC").
			WithArgs(int32(7)).
			WillReturnRows(rows)

		periods, err := repo.ListByCar(ctx, 7)
		require.NoError(t, err)
		require.Len(t, periods, 2)
		assert.Equal(t, calendar.MustParse("2026-01-01"), periods[0].StartDate)
		assert.Equal(t, calendar.MustParse("2026-01-05"), periods[0].EndDate)
		assert.Equal(t, calendar.MustParse("2026-02-01"), periods[1].StartDate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM rental_availability").
			WithArgs(int32(8)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "car_id", "start_date", "end_date", "created_at", "updated_at"}))

		periods, err := repo.ListByCar(ctx, 8)
		require.NoError(t, err)
		assert.NotNil(t, periods)
		assert.Empty(t, periods)
	})
}

func TestAvailabilityRepository_ReplaceForCar(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAvailabilityRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		ranges := []calendar.Range{
			{Start: calendar.MustParse("2026-01-01"), End: calendar.MustParse("2026-01-10")},
			{Start: calendar.MustParse("2026-01-20"), End: calendar.MustParse("2026-01-25")},
		}

		mock.ExpectExec("DELETE FROM rental_availability WHERE car_id = \\$1").
			WithArgs(int32(7)).
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectExec("INSERT INTO rental_availability (.+) unnest").
			WithArgs(int32(7), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 2))

		err := repo.ReplaceForCar(ctx, 7, ranges)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Clear skips insert", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM rental_availability WHERE car_id = \\$1").
			WithArgs(int32(7)).
			WillReturnResult(sqlmock.NewResult(0, 2))

		err := repo.ReplaceForCar(ctx, 7, nil)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Delete failure", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM rental_availability").
			WithArgs(int32(7)).
			WillReturnError(errors.New("connection reset"))

		err := repo.ReplaceForCar(ctx, 7, []calendar.Range{{Start: 1, End: 2}})
		assert.EqualError(t, err, "connection reset")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
