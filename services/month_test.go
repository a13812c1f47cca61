package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseMonthValid(t *testing.T) {
	year, month := parseMonth("2026-01")
	assert.Equal(t, 2026, year)
	assert.Equal(t, time.January, month)

	year, month = parseMonth("2025-12")
	assert.Equal(t, 2025, year)
	assert.Equal(t, time.December, month)
}

func TestParseMonthMalformedFallsBackToCurrent(t *testing.T) {
	now := time.Now()
	for _, input := range []string{"not-a-month", "2026-13", "2026", "", "01-2026"} {
		year, month := parseMonth(input)
		assert.Equal(t, now.Year(), year, "input %q", input)
		assert.Equal(t, now.Month(), month, "input %q", input)
	}
}

func TestFormatMonthPadsSingleDigits(t *testing.T) {
	assert.Equal(t, "2026-01", formatMonth(2026, time.January))
	assert.Equal(t, "2026-11", formatMonth(2026, time.November))
}

func TestMonthStart(t *testing.T) {
	start := monthStart("2026-03")
	assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), start)
}

func TestCurrentMonthRoundTrips(t *testing.T) {
	year, month := parseMonth(CurrentMonth())
	now := time.Now()
	assert.Equal(t, now.Year(), year)
	assert.Equal(t, now.Month(), month)
}
