package jobs

import (
	"context"
	"time"

	"carmarket-rental-backend/internal/config"
	"carmarket-rental-backend/internal/logger"
)

const defaultJobTimeout = 5 * time.Minute

// BookingMaintainer is the part of the booking service the jobs drive.
type BookingMaintainer interface {
	ExpirePendingBookings(ctx context.Context) (int, error)
	CompleteFinishedBookings(ctx context.Context) (int, error)
}

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	bookings BookingMaintainer
	config   *config.Config
	timeout  time.Duration
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(bookings BookingMaintainer, cfg *config.Config) *JobRunner {
	return &JobRunner{
		bookings: bookings,
		config:   cfg,
		timeout:  defaultJobTimeout,
	}
}

// Config returns the configuration the runner was built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery and a timeout
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context) error) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
			ok = false
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), jr.timeout)
	defer cancel()
	ctx = logger.NewContext(ctx, "job", jobName)

	logger.Info("Starting job", "job", jobName)
	start := time.Now()
	if err := jobFunc(ctx); err != nil {
		logger.Error("Job failed", "job", jobName, "error", err, "duration", time.Since(start))
		return false
	}
	logger.Info("Job completed", "job", jobName, "duration", time.Since(start))
	return true
}

// RunAll runs every booking maintenance job once (for manual execution)
func (jr *JobRunner) RunAll() bool {
	expired := jr.ExpirePendingBookings()
	completed := jr.CompleteFinishedBookings()
	return expired && completed
}
