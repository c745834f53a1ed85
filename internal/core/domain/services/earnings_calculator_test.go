package services_test

import (
	"testing"
	"time"

	"lastmile/internal/core/domain/services"
	"lastmile/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	for in, want := range map[string]services.Period{
		"":       services.PeriodToday,
		"today":  services.PeriodToday,
		" WEEK ": services.PeriodWeek,
		"month":  services.PeriodMonth,
	} {
		got, err := services.ParsePeriod(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := services.ParsePeriod("year")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestEarningsCalculator_Window(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	calc := services.NewEarningsCalculator(decimal.NewFromInt(50), ist)
	// Wednesday 2025-06-04 01:15 IST is still Tuesday in UTC.
	now := time.Date(2025, 6, 3, 19, 45, 0, 0, time.UTC)

	tests := []struct {
		period     services.Period
		start, end time.Time
	}{
		{services.PeriodToday, time.Date(2025, 6, 4, 0, 0, 0, 0, ist), time.Date(2025, 6, 5, 0, 0, 0, 0, ist)},
		{services.PeriodWeek, time.Date(2025, 6, 1, 0, 0, 0, 0, ist), time.Date(2025, 6, 8, 0, 0, 0, 0, ist)},
		{services.PeriodMonth, time.Date(2025, 6, 1, 0, 0, 0, 0, ist), time.Date(2025, 7, 1, 0, 0, 0, 0, ist)},
	}
	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			start, end := calc.Window(tt.period, now)

			assert.True(t, tt.start.Equal(start), "start %s", start)
			assert.True(t, tt.end.Equal(end), "end %s", end)
		})
	}
}

func TestEarningsCalculator_WeekStartsOnSunday(t *testing.T) {
	calc := services.NewEarningsCalculator(decimal.NewFromInt(50), time.UTC)
	sunday := time.Date(2025, 6, 8, 23, 59, 0, 0, time.UTC)

	start, end := calc.Window(services.PeriodWeek, sunday)

	assert.Equal(t, time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), end)
}

func TestEarningsCalculator_Total(t *testing.T) {
	calc := services.NewEarningsCalculator(decimal.RequireFromString("50"), nil)

	assert.Equal(t, "350.00", calc.Total(7).StringFixed(2))
	assert.True(t, calc.Total(0).IsZero())
	assert.True(t, calc.RatePerDelivery().Equal(decimal.NewFromInt(50)))
}
