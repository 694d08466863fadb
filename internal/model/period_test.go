package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePeriod_Dashed(t *testing.T) {
	p, ok := NormalizePeriod("2024-03", PeriodDashed)
	require.True(t, ok)
	assert.Equal(t, Period("2024-03"), p)

	for _, raw := range []string{"2024-3", "202403", "2024-13", "2024-00", "N/A", "", "2024/03"} {
		_, ok := NormalizePeriod(raw, PeriodDashed)
		assert.False(t, ok, "should reject %q", raw)
	}
}

func TestNormalizePeriod_Compact(t *testing.T) {
	p, ok := NormalizePeriod("202403", PeriodCompact)
	require.True(t, ok)
	assert.Equal(t, Period("2024-03"), p)

	for _, raw := range []string{"2024-03", "20243", "202413", "abcdef", ""} {
		_, ok := NormalizePeriod(raw, PeriodCompact)
		assert.False(t, ok, "should reject %q", raw)
	}
}

func TestNormalizePeriod_Loose(t *testing.T) {
	cases := map[string]Period{
		"2024-3":             "2024-03",
		"2024-03":            "2024-03",
		"2024-3-15":          "2024-03",
		"2024-11-01 00:00:0": "2024-11",
	}
	for raw, want := range cases {
		p, ok := NormalizePeriod(raw, PeriodLoose)
		require.True(t, ok, "should accept %q", raw)
		assert.Equal(t, want, p)
	}

	for _, raw := range []string{"24-03", "2024", "N/A", ""} {
		_, ok := NormalizePeriod(raw, PeriodLoose)
		assert.False(t, ok, "should reject %q", raw)
	}
}

func TestNormalizePeriod_TrimsWhitespace(t *testing.T) {
	p, ok := NormalizePeriod("  2024-07 ", PeriodDashed)
	require.True(t, ok)
	assert.Equal(t, Period("2024-07"), p)
}

func TestPeriodFromYearMonth(t *testing.T) {
	p, ok := PeriodFromYearMonth(2024, 7)
	require.True(t, ok)
	assert.Equal(t, Period("2024-07"), p)

	_, ok = PeriodFromYearMonth(2024, 13)
	assert.False(t, ok)
	_, ok = PeriodFromYearMonth(2024, 0)
	assert.False(t, ok)
}

func TestPeriodWindow_Contains(t *testing.T) {
	w := NewPeriodWindow("2024-01", "2024-06")
	assert.True(t, w.Contains("2024-01"))
	assert.True(t, w.Contains("2024-06"))
	assert.False(t, w.Contains("2023-12"))
	assert.False(t, w.Contains("2024-07"))
}

func TestPeriodWindow_SentinelBounds(t *testing.T) {
	w := NewPeriodWindow("", "")
	assert.Equal(t, UnboundedPeriodWindow(), w)
	assert.True(t, w.Contains("1900-01"))
	assert.True(t, w.Contains("2999-12"))

	onlyStart := NewPeriodWindow("2024-01", "")
	assert.True(t, onlyStart.Contains("2030-05"))
	assert.False(t, onlyStart.Contains("2023-12"))
}

func TestDefaultPeriodWindow(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	// Both bounds empty: unconstrained.
	assert.Equal(t, UnboundedPeriodWindow(), DefaultPeriodWindow("", "", now))

	// Only a start: the end stops at the current month.
	w := DefaultPeriodWindow("2024-03", "", now)
	assert.Equal(t, Period("2024-03"), w.Start)
	assert.Equal(t, Period("2025-06"), w.End)
	assert.False(t, w.Contains("2025-07"))

	// Only an end: the start defaults to January of the current year.
	w = DefaultPeriodWindow("", "2025-04", now)
	assert.Equal(t, Period("2025-01"), w.Start)
	assert.Equal(t, Period("2025-04"), w.End)
	assert.False(t, w.Contains("2024-12"))

	// Both supplied: taken as-is.
	w = DefaultPeriodWindow("2024-01", "2024-06", now)
	assert.Equal(t, NewPeriodWindow("2024-01", "2024-06"), w)
}

func TestDefaultTimeWindow(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	// A start without an end runs up to the current date.
	w := DefaultTimeWindow("2025-01-01", "", now)
	assert.Equal(t, "2025-06-15 23:59:59", w.End)
	assert.False(t, w.Contains("2025-06-16 00:00:00"))

	// Both empty stays unconstrained; an end alone stays open at the start.
	assert.Equal(t, TimeWindow{}, DefaultTimeWindow("", "", now))
	w = DefaultTimeWindow("", "2025-03-31", now)
	assert.Equal(t, "", w.Start)
	assert.True(t, w.Contains("2020-01-01 00:00:00"))
}

func TestTimeWindow_EndDateExtension(t *testing.T) {
	w := NewTimeWindow("2024-01-01", "2024-01-31")
	assert.Equal(t, "2024-01-31 23:59:59", w.End)
	assert.True(t, w.Contains("2024-01-31 18:30:00"))
	assert.False(t, w.Contains("2024-02-01 00:00:00"))
}

func TestTimeWindow_EmptyTimestamp(t *testing.T) {
	unbounded := TimeWindow{}
	assert.True(t, unbounded.Contains(""))

	bounded := NewTimeWindow("2024-01-01", "")
	assert.False(t, bounded.Contains(""))
}

func TestMonthOf(t *testing.T) {
	assert.Equal(t, "2024-05", MonthOf("2024-05-17 09:30:00"))
	assert.Equal(t, "2024-05", MonthOf("2024-05-17"))
	assert.Equal(t, "", MonthOf("2024"))
	assert.Equal(t, "", MonthOf(""))

	// A timestamp long enough but not month-shaped must not become a group
	// key.
	assert.Equal(t, "", MonthOf("not a timestamp"))
	assert.Equal(t, "", MonthOf("2024-13-01 00:00:00"))
	assert.Equal(t, "", MonthOf("20240517093000"))
}
