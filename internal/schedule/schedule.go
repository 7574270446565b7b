// Package schedule holds the calendar rules of the canteen: the daily
// registration cutoff and the Monday-to-Friday reporting window. Everything
// here is a pure function of its inputs; lock state is never persisted.
package schedule

import (
	"time"
)

// DateLayout is the canonical day format used in storage and on the wire.
const DateLayout = "2006-01-02"

// DayLabels are the weekly-grid column keys, in window order.
var DayLabels = [5]string{"Mon", "Tue", "Wed", "Thu", "Fri"}

// Rules evaluates lock state and reporting windows for a canteen site.
type Rules struct {
	CutoffHour int
	Location   *time.Location
}

// NewRules returns rules with the given cutoff hour in loc. A nil loc
// falls back to the system local time.
func NewRules(cutoffHour int, loc *time.Location) Rules {
	if loc == nil {
		loc = time.Local
	}
	return Rules{CutoffHour: cutoffHour, Location: loc}
}

// ParseDate parses a YYYY-MM-DD string in the rules' timezone.
func (r Rules) ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, r.Location)
}

// Today formats the current calendar day for now in the rules' timezone.
func (r Rules) Today(now time.Time) string {
	return now.In(r.Location).Format(DateLayout)
}

// LockedAt reports whether the given calendar day is locked as of now.
// A day locks at its own cutoff instant, so past days are always locked
// and future days never are.
func (r Rules) LockedAt(day time.Time, now time.Time) bool {
	cutoff := time.Date(day.Year(), day.Month(), day.Day(), r.CutoffHour, 0, 0, 0, r.Location)
	return !now.Before(cutoff)
}

// IsLocked is LockedAt over a YYYY-MM-DD string.
func (r Rules) IsLocked(date string, now time.Time) (bool, error) {
	day, err := r.ParseDate(date)
	if err != nil {
		return false, err
	}
	return r.LockedAt(day, now), nil
}

// WeekStart returns the Monday anchoring the reporting window that contains
// now. Saturdays and Sundays roll forward to the next Monday.
func (r Rules) WeekStart(now time.Time) time.Time {
	t := dateOnly(now.In(r.Location), r.Location)
	switch t.Weekday() {
	case time.Saturday:
		return t.AddDate(0, 0, 2)
	case time.Sunday:
		return t.AddDate(0, 0, 1)
	default:
		return t.AddDate(0, 0, -(int(t.Weekday()) - 1))
	}
}

// WeekDates expands a week-start Monday into the five weekday date strings.
func WeekDates(start time.Time) []string {
	dates := make([]string, len(DayLabels))
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i).Format(DateLayout)
	}
	return dates
}

func dateOnly(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
