package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/urfave/cli/v2"

	"carmarket-rental-backend/internal/config"
	"carmarket-rental-backend/internal/logger"
	"carmarket-rental-backend/internal/migrations"
)

func main() {
	app := &cli.App{
		Name:  "migrate",
		Usage: "Manage the rental database schema and development data",
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
				Name:  "up",
				Usage: "Apply all pending migrations",
				Action: withDB(func(_ *cli.Context, db *sql.DB) error {
					return migrations.Up(db)
				}),
			},
			{
				Name:  "down",
				Usage: "Roll back migrations",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "steps", Value: 1, Usage: "Number of migrations to roll back"},
				},
				Action: withDB(func(c *cli.Context, db *sql.DB) error {
					steps := c.Int("steps")
					if err := migrations.Down(db, steps); err != nil {
						return err
					}
					logger.Info("Rolled back migrations", "steps", steps)
					return nil
				}),
			},
			{
				Name:  "version",
				Usage: "Print the applied schema version",
				Action: withDB(func(_ *cli.Context, db *sql.DB) error {
					version, dirty, err := migrations.Version(db)
					if err != nil {
						return err
					}
					fmt.Printf("version=%d dirty=%t\n", version, dirty)
					return nil
				}),
			},
			{
				Name:      "seed",
				Usage:     "Load users, cars and availability from a YAML file",
				ArgsUsage: "<file>",
				Action: withDB(func(c *cli.Context, db *sql.DB) error {
					filename := c.Args().First()
					if filename == "" {
						return cli.Exit("seed file required", 2)
					}
					data, err := migrations.ReadSeedFile(filename)
					if err != nil {
						return err
					}
					if err := migrations.Seed(c.Context, sqlx.NewDb(db, "postgres"), data); err != nil {
						return err
					}
					logger.Info("Seed data loaded", "file", filename, "users", len(data.Users), "cars", len(data.Cars))
					return nil
				}),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// withDB opens the configured database for the duration of a command.
func withDB(action func(c *cli.Context, db *sql.DB) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := config.Load(c.String("config"))
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		logger.Initialize(cfg.Log.Level, cfg.Log.Format)

		db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			return fmt.Errorf("failed to ping database: %w", err)
		}
		return action(c, db)
	}
}
