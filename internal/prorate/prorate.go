// Package prorate splits statement-period amounts into per-calendar-month shares.
// A period is "spanning" when it crosses a month boundary or does not align to
// whole calendar months; only spanning periods are pro-rated.
package prorate

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthSegment describes one calendar month touched by a statement period.
// DaysInPeriod counts the days of the period that fall inside the month,
// with both period endpoints inclusive.
type MonthSegment struct {
	MonthStart   time.Time `json:"monthStart"`
	MonthEnd     time.Time `json:"monthEnd"`
	DaysInMonth  int       `json:"daysInMonth"`
	DaysInPeriod int       `json:"daysInPeriod"`
}

// IsSpanning reports whether the period does not align exactly to whole calendar
// months: it spans more than one month, starts after the 1st, or ends before the
// last day of its month.
func IsSpanning(periodStart, periodEnd time.Time) bool {
	start := truncateDay(periodStart)
	end := truncateDay(periodEnd)

	if start.Year() != end.Year() || start.Month() != end.Month() {
		return true
	}
	if start.Day() != 1 {
		return true
	}
	return end.Day() != daysInMonth(end)
}

// MonthsSpanned returns the number of calendar months the period touches.
// Zero-length, single-day and inverted periods count as one month.
func MonthsSpanned(periodStart, periodEnd time.Time) int {
	start := truncateDay(periodStart)
	end := truncateDay(periodEnd)
	if !end.After(start) {
		return 1
	}

	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month()) + 1
	if months < 1 {
		return 1
	}
	return months
}

// CalculateMonthlyBreakdown returns one segment per calendar month touched by the
// period, ordered chronologically. The per-segment DaysInPeriod values sum to the
// inclusive day count of the whole period.
func CalculateMonthlyBreakdown(periodStart, periodEnd time.Time) []MonthSegment {
	start := truncateDay(periodStart)
	end := truncateDay(periodEnd)
	if end.Before(start) {
		end = start
	}

	segments := make([]MonthSegment, 0, MonthsSpanned(start, end))
	for cursor := firstOfMonth(start); !cursor.After(end); cursor = cursor.AddDate(0, 1, 0) {
		monthStart := cursor
		monthEnd := cursor.AddDate(0, 1, -1)

		overlapStart := maxDate(monthStart, start)
		overlapEnd := minDate(monthEnd, end)

		segments = append(segments, MonthSegment{
			MonthStart:   monthStart,
			MonthEnd:     monthEnd,
			DaysInMonth:  monthEnd.Day(),
			DaysInPeriod: daysInclusive(overlapStart, overlapEnd),
		})
	}

	return segments
}

// ProrateToMonthly converts a period amount into a per-month amount by dividing
// by the number of calendar months spanned. Non-spanning periods pass through
// unchanged. The result is not rounded; rounding happens at the persistence
// boundary.
func ProrateToMonthly(amount decimal.Decimal, periodStart, periodEnd time.Time) decimal.Decimal {
	if !IsSpanning(periodStart, periodEnd) {
		return amount
	}
	return amount.Div(decimal.NewFromInt(int64(MonthsSpanned(periodStart, periodEnd))))
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func daysInclusive(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

func maxDate(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minDate(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
