package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/urfave/cli/v2"

	"carmarket-rental-backend/internal/config"
	"carmarket-rental-backend/internal/jobs"
	"carmarket-rental-backend/internal/logger"
	"carmarket-rental-backend/internal/repository/postgres"
	"carmarket-rental-backend/internal/scheduler"
	"carmarket-rental-backend/internal/service"
)

var jobNames = []string{
	"expire-pending-bookings",
	"complete-finished-bookings",
	"all",
}

func main() {
	app := &cli.App{
		Name:  "cronjob",
		Usage: "Run booking maintenance jobs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config/config.dev.yaml",
				Usage:   "Path to configuration file",
				EnvVars: []string{"CONFIG_PATH"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Start the scheduler and run jobs on their cron schedules",
				Action: runScheduler,
			},
			{
				Name:      "run-once",
				Usage:     "Run a specific job once and exit",
				ArgsUsage: "<" + fmt.Sprint(jobNames) + ">",
				Action:    runOnce,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// setup loads configuration and connects to the database. The returned
// cleanup closes the connection.
func setup(c *cli.Context) (*config.Config, *jobs.JobRunner, func(), error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Car Marketplace Cronjob Runner...", "log_level", cfg.Log.Level)

	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}
	logger.Info("Database connection established")

	store := postgres.NewStore(db)
	bookingService := service.NewBookingService(
		store.BookingRepository,
		store.AvailabilityRepository,
		store.CarRepository,
		store.UserRepository,
		store.TxManager,
		service.NewClock(cfg.Location()),
		cfg.Booking.PendingTTL,
	)

	return cfg, jobs.NewJobRunner(bookingService, cfg), func() { db.Close() }, nil
}

func runScheduler(c *cli.Context) error {
	cfg, jobRunner, cleanup, err := setup(c)
	if err != nil {
		return err
	}
	defer cleanup()

	cronScheduler, err := scheduler.NewScheduler(jobRunner, cfg.Location())
	if err != nil {
		return err
	}

	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
	return nil
}

func runOnce(c *cli.Context) error {
	jobName := c.Args().First()
	if jobName == "" {
		return cli.Exit(fmt.Sprintf("job name required, one of %v", jobNames), 2)
	}

	_, jobRunner, cleanup, err := setup(c)
	if err != nil {
		return err
	}
	defer cleanup()

	logger.Info("Running job once", "job", jobName)
	var ok bool
	switch jobName {
	case "expire-pending-bookings":
		ok = jobRunner.ExpirePendingBookings()
	case "complete-finished-bookings":
		ok = jobRunner.CompleteFinishedBookings()
	case "all":
		ok = jobRunner.RunAll()
	default:
		logger.Error("Unknown job name", "job", jobName)
		return cli.Exit(fmt.Sprintf("unknown job %q, available jobs: %v", jobName, jobNames), 2)
	}
	if !ok {
		return cli.Exit(fmt.Sprintf("job %s failed", jobName), 1)
	}
	logger.Info("Job execution completed", "job", jobName)
	return nil
}
