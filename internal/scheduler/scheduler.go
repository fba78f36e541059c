package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"carmarket-rental-backend/internal/jobs"
	"carmarket-rental-backend/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a new scheduler with the provided job runner. Specs are
// evaluated in loc with seconds precision; a nil loc means UTC.
func NewScheduler(jobRunner *jobs.JobRunner, loc *time.Location) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	if err := s.registerJobs(); err != nil {
		return nil, err
	}
	return s, nil
}

// registerJobs registers all scheduled jobs with the cron scheduler
func (s *Scheduler) registerJobs() error {
	cfg := s.jobs.Config().Scheduler

	// Expire stale PENDING bookings
	if _, err := s.cron.AddFunc(cfg.ExpirePendingBookings, func() { s.jobs.ExpirePendingBookings() }); err != nil {
		logger.Error("Failed to register ExpirePendingBookings job", "error", err)
		return fmt.Errorf("invalid schedule %q for ExpirePendingBookings: %w", cfg.ExpirePendingBookings, err)
	}

	// Complete CONFIRMED bookings after their last day
	if _, err := s.cron.AddFunc(cfg.CompleteFinishedBookings, func() { s.jobs.CompleteFinishedBookings() }); err != nil {
		logger.Error("Failed to register CompleteFinishedBookings job", "error", err)
		return fmt.Errorf("invalid schedule %q for CompleteFinishedBookings: %w", cfg.CompleteFinishedBookings, err)
	}

	logger.Info("All cron jobs registered successfully", "jobs", len(s.cron.Entries()))
	return nil
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop gracefully stops the cron scheduler, waiting for running jobs
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// Entries returns the number of registered jobs
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
