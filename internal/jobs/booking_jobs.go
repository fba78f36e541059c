package jobs

import (
	"context"

	"carmarket-rental-backend/internal/logger"
)

// ExpirePendingBookings moves PENDING bookings older than the configured TTL
// to EXPIRED, releasing their days.
func (jr *JobRunner) ExpirePendingBookings() bool {
	return jr.runWithRecovery("ExpirePendingBookings", func(ctx context.Context) error {
		n, err := jr.bookings.ExpirePendingBookings(ctx)
		if err != nil {
			return err
		}
		logger.InfoContext(ctx, "Expired pending bookings", "count", n)
		return nil
	})
}

// CompleteFinishedBookings marks CONFIRMED bookings whose last day has passed
// as COMPLETED.
func (jr *JobRunner) CompleteFinishedBookings() bool {
	return jr.runWithRecovery("CompleteFinishedBookings", func(ctx context.Context) error {
		n, err := jr.bookings.CompleteFinishedBookings(ctx)
		if err != nil {
			return err
		}
		logger.InfoContext(ctx, "Completed finished bookings", "count", n)
		return nil
	})
}
