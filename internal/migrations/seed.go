package migrations

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"carmarket-rental-backend/internal/calendar"
	"carmarket-rental-backend/internal/domain"
	"carmarket-rental-backend/internal/logger"
)

type SeedUser struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Role     string `yaml:"role"`
}

type SeedCar struct {
	SellerEmail     string       `yaml:"seller_email"`
	Title           string       `yaml:"title"`
	ListingType     string       `yaml:"listing_type"`
	DailyPriceCents int64        `yaml:"daily_price_cents"`
	Availability    []SeedPeriod `yaml:"availability"`
}

type SeedPeriod struct {
	StartDate calendar.Date `yaml:"start_date"`
	EndDate   calendar.Date `yaml:"end_date"`
}

// SeedData is the development data set loaded by `migrate seed`.
type SeedData struct {
	Users []SeedUser `yaml:"users"`
	Cars  []SeedCar  `yaml:"cars"`
}

func ReadSeedFile(filename string) (*SeedData, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var seed SeedData
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", filename, err)
	}
	return &seed, nil
}

// Seed inserts users, cars and their availability in one transaction.
// Availability periods are merged before they are stored.
func Seed(ctx context.Context, db *sqlx.DB, data *SeedData) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	userIDs := make(map[string]int32, len(data.Users))
	for i, user := range data.Users {
		logger.Info("Creating user", "n", i+1, "of", len(data.Users), "email", user.Email)

		role := domain.UserRole(strings.ToUpper(user.Role))
		if role == "" {
			role = domain.UserRoleClient
		}
		passwordHash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", user.Email, err)
		}

		var userID int32
		err = tx.QueryRowContext(ctx, `
			INSERT INTO users (email, name, password_hash, role, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, user.Email, user.Name, string(passwordHash), role, now).Scan(&userID)
		if err != nil {
			return fmt.Errorf("failed to create user %s: %w", user.Email, err)
		}
		userIDs[strings.ToLower(user.Email)] = userID
	}

	for _, car := range data.Cars {
		sellerID, ok := userIDs[strings.ToLower(car.SellerEmail)]
		if !ok {
			return fmt.Errorf("car %q: unknown seller %s", car.Title, car.SellerEmail)
		}

		var carID int32
		err = tx.QueryRowContext(ctx, `
			INSERT INTO cars (seller_id, title, listing_type, daily_price_cents, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, sellerID, car.Title, strings.ToUpper(car.ListingType), car.DailyPriceCents, now).Scan(&carID)
		if err != nil {
			return fmt.Errorf("failed to create car %q: %w", car.Title, err)
		}

		ranges := make([]calendar.Range, 0, len(car.Availability))
		for _, period := range car.Availability {
			rg, err := calendar.NewRange(period.StartDate, period.EndDate)
			if err != nil {
				return fmt.Errorf("car %q: %w", car.Title, err)
			}
			ranges = append(ranges, rg)
		}
		for _, period := range calendar.Merge(ranges) {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO rental_availability (car_id, start_date, end_date, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $4)
			`, carID, period.Start, period.End, now)
			if err != nil {
				return fmt.Errorf("failed to add availability for car %q: %w", car.Title, err)
			}
		}
		logger.Info("Created car", "carID", carID, "title", car.Title, "periods", len(car.Availability))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed transaction: %w", err)
	}
	return nil
}
