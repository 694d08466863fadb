package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Period is a production month in canonical "YYYY-MM" form. Periods compare
// correctly as strings, which is what every window check relies on.
type Period string

// Sentinel bounds used when a production window is unbounded. Using extreme
// values instead of empty strings keeps all comparisons uniform.
const (
	PeriodMin Period = "0000-01"
	PeriodMax Period = "9999-12"
)

// PeriodFormat describes how a venue encodes the production month.
type PeriodFormat int

const (
	// PeriodDashed is the canonical "YYYY-MM" form.
	PeriodDashed PeriodFormat = iota
	// PeriodCompact is the six-digit "YYYYMM" form.
	PeriodCompact
	// PeriodLoose is a date-like string starting with "YYYY-M" where the
	// month may be unpadded and trailing day/time parts may follow.
	PeriodLoose
)

// NormalizePeriod converts a raw venue period value into canonical "YYYY-MM".
// Malformed values (wrong length, non-numeric, month out of range) report
// ok=false and are excluded by callers rather than treated as errors.
func NormalizePeriod(raw string, format PeriodFormat) (Period, bool) {
	raw = strings.TrimSpace(raw)
	switch format {
	case PeriodDashed:
		if len(raw) != 7 || raw[4] != '-' {
			return "", false
		}
		return makePeriod(raw[:4], raw[5:7])
	case PeriodCompact:
		if len(raw) != 6 {
			return "", false
		}
		return makePeriod(raw[:4], raw[4:6])
	case PeriodLoose:
		parts := strings.SplitN(raw, "-", 3)
		if len(parts) < 2 || len(parts[0]) != 4 {
			return "", false
		}
		month := parts[1]
		if len(month) == 1 {
			month = "0" + month
		}
		return makePeriod(parts[0], month)
	}
	return "", false
}

// PeriodFromYearMonth builds a canonical period from integer components.
func PeriodFromYearMonth(year, month int) (Period, bool) {
	if year < 0 || month < 1 || month > 12 {
		return "", false
	}
	return Period(fmt.Sprintf("%04d-%02d", year, month)), true
}

func makePeriod(year, month string) (Period, bool) {
	if _, err := strconv.Atoi(year); err != nil {
		return "", false
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return "", false
	}
	return Period(year + "-" + month), true
}

// PeriodWindow is an inclusive [Start, End] range of production months.
type PeriodWindow struct {
	Start Period
	End   Period
}

// UnboundedPeriodWindow covers every representable period.
func UnboundedPeriodWindow() PeriodWindow {
	return PeriodWindow{Start: PeriodMin, End: PeriodMax}
}

// NewPeriodWindow fills missing bounds with the sentinel extremes.
func NewPeriodWindow(start, end string) PeriodWindow {
	w := UnboundedPeriodWindow()
	if start != "" {
		w.Start = Period(start)
	}
	if end != "" {
		w.End = Period(end)
	}
	return w
}

// Contains reports whether p falls inside the window.
func (w PeriodWindow) Contains(p Period) bool {
	return p >= w.Start && p <= w.End
}

// DefaultPeriodWindow applies the statistics default range. Both bounds
// empty means unbounded; when exactly one bound is supplied the missing one
// defaults to January of the current year (start) or the current month (end).
func DefaultPeriodWindow(start, end string, now time.Time) PeriodWindow {
	if start == "" && end == "" {
		return UnboundedPeriodWindow()
	}
	if start == "" {
		start = fmt.Sprintf("%04d-01", now.Year())
	}
	if end == "" {
		end = now.Format("2006-01")
	}
	return PeriodWindow{Start: Period(start), End: Period(end)}
}

// TimeWindow is an optional range over venue transaction timestamps.
// Timestamps are kept as the "YYYY-MM-DD HH:MM:SS" strings the venues report;
// lexical comparison orders them chronologically. Empty bounds are open.
type TimeWindow struct {
	Start string
	End   string
}

// DefaultTimeWindow applies the statistics default range: when only a start
// date is supplied the end defaults to the current date.
func DefaultTimeWindow(start, end string, now time.Time) TimeWindow {
	if start != "" && end == "" {
		end = now.Format("2006-01-02")
	}
	return NewTimeWindow(start, end)
}

// NewTimeWindow builds a window from "YYYY-MM-DD" request values. A bare date
// end bound is extended to the last second of that day so the final day is
// fully covered.
func NewTimeWindow(start, end string) TimeWindow {
	if len(end) == 10 {
		end += " 23:59:59"
	}
	return TimeWindow{Start: start, End: end}
}

// Bounded reports whether the window constrains anything.
func (w TimeWindow) Bounded() bool {
	return w.Start != "" || w.End != ""
}

// Contains reports whether ts falls inside the window. An empty timestamp is
// only accepted by an unbounded window.
func (w TimeWindow) Contains(ts string) bool {
	if !w.Bounded() {
		return true
	}
	if ts == "" {
		return false
	}
	if w.Start != "" && ts < w.Start {
		return false
	}
	if w.End != "" && ts > w.End {
		return false
	}
	return true
}

// MonthOf extracts the "YYYY-MM" month from a transaction timestamp, or ""
// when the timestamp does not start with a well-formed month.
func MonthOf(ts string) string {
	if len(ts) < 7 {
		return ""
	}
	month, ok := NormalizePeriod(ts[:7], PeriodDashed)
	if !ok {
		return ""
	}
	return string(month)
}
