package domain

import (
	"time"

	"carmarket-rental-backend/internal/calendar"
)

type ListingType string

const (
	ListingTypeSale ListingType = "SALE"
	ListingTypeRent ListingType = "RENT"
)

// Car is the catalog entry a booking refers to. The catalog itself is managed
// elsewhere; this service only reads it.
type Car struct {
	ID              int32       `json:"id" db:"id"`
	SellerID        int32       `json:"seller_id" db:"seller_id"`
	Title           string      `json:"title" db:"title"`
	ListingType     ListingType `json:"listing_type" db:"listing_type"`
	DailyPriceCents int64       `json:"daily_price_cents" db:"daily_price_cents"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
}

// AvailabilityPeriod is a seller-declared closed range of days during which a
// car can be rented. Periods of one car never overlap or touch.
type AvailabilityPeriod struct {
	ID        int32         `json:"id" db:"id"`
	CarID     int32         `json:"car_id" db:"car_id"`
	StartDate calendar.Date `json:"start_date" db:"start_date"`
	EndDate   calendar.Date `json:"end_date" db:"end_date"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" db:"updated_at"`
}

func (p AvailabilityPeriod) Range() calendar.Range {
	return calendar.Range{Start: p.StartDate, End: p.EndDate}
}

// PeriodRanges projects periods onto their ranges, keeping order.
func PeriodRanges(periods []AvailabilityPeriod) []calendar.Range {
	out := make([]calendar.Range, len(periods))
	for i, p := range periods {
		out[i] = p.Range()
	}
	return out
}
