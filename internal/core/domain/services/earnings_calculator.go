package services

import (
	"fmt"
	"strings"
	"time"

	"lastmile/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Period is a calendar-aligned earnings window.
type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ParsePeriod defaults an empty keyword to today.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PeriodToday, nil
	case PeriodToday, PeriodWeek, PeriodMonth:
		return p, nil
	}
	return "", errs.NewValueIsInvalidErrorWithCause("period", fmt.Errorf("%q is not one of today, week, month", s))
}

// EarningsCalculator derives display earnings from delivered order counts.
// It is a delivered-count proxy and is not reconciled against the wallet.
type EarningsCalculator struct {
	rate     decimal.Decimal
	location *time.Location
}

func NewEarningsCalculator(ratePerDelivery decimal.Decimal, location *time.Location) EarningsCalculator {
	if location == nil {
		location = time.Local
	}
	return EarningsCalculator{rate: ratePerDelivery, location: location}
}

func (c EarningsCalculator) RatePerDelivery() decimal.Decimal {
	return c.rate
}

// Window returns [start, end) of the period containing now, with boundaries
// at local midnight. Weeks start on Sunday.
func (c EarningsCalculator) Window(p Period, now time.Time) (time.Time, time.Time) {
	local := now.In(c.location)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, c.location)

	switch p {
	case PeriodWeek:
		start := midnight.AddDate(0, 0, -int(local.Weekday()))
		return start, start.AddDate(0, 0, 7)
	case PeriodMonth:
		start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, c.location)
		return start, start.AddDate(0, 1, 0)
	default:
		return midnight, midnight.AddDate(0, 0, 1)
	}
}

func (c EarningsCalculator) Total(deliveries int) decimal.Decimal {
	return c.rate.Mul(decimal.NewFromInt(int64(deliveries)))
}
