package utils

import (
	"math"
	"testing"

	"carmarket-rental-backend/internal/calendar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rng(start, end string) calendar.Range {
	return calendar.Range{Start: calendar.MustParse(start), End: calendar.MustParse(end)}
}

func TestCalculateRentalCost(t *testing.T) {
	tests := []struct {
		name     string
		daily    int64
		r        calendar.Range
		days     int
		expected int64
	}{
		{"Three days inclusive", 5000, rng("2026-01-01", "2026-01-03"), 3, 15000},
		{"Single day", 5000, rng("2026-01-01", "2026-01-01"), 1, 5000},
		{"Across month end", 1250, rng("2026-01-30", "2026-02-02"), 4, 5000},
		{"Across leap day", 100, rng("2028-02-28", "2028-03-01"), 3, 300},
		{"Free car", 0, rng("2026-01-01", "2026-01-10"), 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost, err := CalculateRentalCost(tt.daily, tt.r)
			require.NoError(t, err)
			assert.Equal(t, tt.days, cost.Days)
			assert.Equal(t, tt.expected, cost.TotalCents)
		})
	}
}

func TestCalculateRentalCost_Errors(t *testing.T) {
	t.Run("Inverted range", func(t *testing.T) {
		_, err := CalculateRentalCost(5000, rng("2026-01-03", "2026-01-01"))
		assert.ErrorIs(t, err, calendar.ErrInvertedRange)
	})

	t.Run("Negative price", func(t *testing.T) {
		_, err := CalculateRentalCost(-1, rng("2026-01-01", "2026-01-01"))
		assert.ErrorContains(t, err, "cannot be negative")
	})

	t.Run("Overflow", func(t *testing.T) {
		_, err := CalculateRentalCost(math.MaxInt64/2, rng("2026-01-01", "2026-01-03"))
		assert.ErrorContains(t, err, "overflows")
	})
}
