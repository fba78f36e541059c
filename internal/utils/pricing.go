package utils

import (
	"fmt"
	"math"

	"carmarket-rental-backend/internal/calendar"
)

// RentalCostBreakdown provides detailed cost breakdown
type RentalCostBreakdown struct {
	Days            int
	DailyPriceCents int64
	TotalCents      int64
}

// CalculateRentalCost prices a rental as the daily price times the number of
// days in r, counting both the start and the end day.
func CalculateRentalCost(dailyPriceCents int64, r calendar.Range) (RentalCostBreakdown, error) {
	if !r.Valid() {
		return RentalCostBreakdown{}, calendar.ErrInvertedRange
	}
	if dailyPriceCents < 0 {
		return RentalCostBreakdown{}, fmt.Errorf("daily price cannot be negative: %d", dailyPriceCents)
	}

	days := r.Days()
	if dailyPriceCents > 0 && int64(days) > math.MaxInt64/dailyPriceCents {
		return RentalCostBreakdown{}, fmt.Errorf("rental cost overflows for %d days at %d cents", days, dailyPriceCents)
	}

	return RentalCostBreakdown{
		Days:            days,
		DailyPriceCents: dailyPriceCents,
		TotalCents:      int64(days) * dailyPriceCents,
	}, nil
}
