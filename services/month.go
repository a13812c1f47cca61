package services

import (
	"fmt"
	"time"
)

// parseMonth parses a "YYYY-MM" month identifier into its year and month
// numbers. Malformed input falls back to the current calendar month rather
// than failing, so a bad month string can never break aggregation.
func parseMonth(month string) (int, time.Month) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		now := time.Now()
		return now.Year(), now.Month()
	}
	return t.Year(), t.Month()
}

// monthStart returns midnight UTC on the first day of the given month.
func monthStart(month string) time.Time {
	year, m := parseMonth(month)
	return time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
}

// formatMonth renders a year/month pair back into the "YYYY-MM" storage key.
func formatMonth(year int, m time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(m))
}

// CurrentMonth returns the "YYYY-MM" key for the current calendar month.
func CurrentMonth() string {
	now := time.Now()
	return formatMonth(now.Year(), now.Month())
}
