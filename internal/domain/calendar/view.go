package calendar

import (
	"strings"
	"time"

	"roomdesk/internal/domain/shared/daterange"
)

type ViewMode string

const (
	ViewDaily   ViewMode = "daily"
	ViewWeekly  ViewMode = "weekly"
	ViewMonthly ViewMode = "monthly"
)

// ParseViewMode never fails; anything unrecognised is monthly.
func ParseViewMode(raw string) ViewMode {
	switch mode := ViewMode(strings.ToLower(strings.TrimSpace(raw))); mode {
	case ViewDaily, ViewWeekly, ViewMonthly:
		return mode
	default:
		return ViewMonthly
	}
}

// Dates returns the ascending, gap-free columns rendered for anchor in mode.
// Weeks start on Sunday.
func Dates(anchor daterange.Date, mode ViewMode) []daterange.Date {
	if anchor.IsZero() {
		return nil
	}
	var first, last daterange.Date
	switch ParseViewMode(string(mode)) {
	case ViewDaily:
		return []daterange.Date{anchor}
	case ViewWeekly:
		first = anchor.AddDays(-int(anchor.Weekday() - time.Sunday))
		last = first.AddDays(6)
	default:
		first = anchor.StartOfMonth()
		last = anchor.EndOfMonth()
	}
	return daterange.DateRange{CheckIn: first, CheckOut: last.AddDays(1)}.Days()
}

// Window is the inclusive [first, last] pair sent to the booking fetch.
type Window struct {
	Start daterange.Date
	End   daterange.Date
}

func WindowOf(dates []daterange.Date) Window {
	if len(dates) == 0 {
		return Window{}
	}
	return Window{Start: dates[0], End: dates[len(dates)-1]}
}

// Shift moves the anchor one view-length forward (steps > 0) or back.
func Shift(anchor daterange.Date, mode ViewMode, steps int) daterange.Date {
	switch ParseViewMode(string(mode)) {
	case ViewDaily:
		return anchor.AddDays(steps)
	case ViewWeekly:
		return anchor.AddDays(7 * steps)
	default:
		start := anchor.StartOfMonth().Time().AddDate(0, steps, 0)
		return daterange.Of(start)
	}
}
