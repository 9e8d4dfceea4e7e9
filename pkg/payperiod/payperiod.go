// Package payperiod computes the fixed biweekly pay periods shared by every employee and salon.
//
// Periods are 14 days long, start on a Sunday and tile the calendar from the anchor
// Sunday 2024-01-07 in both directions.
package payperiod

import "time"

const (
	// Length is the number of days in a pay period.
	Length = 14

	day = 24 * time.Hour

	secondsPerDay = 24 * 60 * 60
)

// Anchor is the Sunday the period grid is aligned to.
var Anchor = time.Date(2024, time.January, 7, 0, 0, 0, 0, time.UTC)

// Period is an inclusive range of calendar dates [Start, End], both at midnight UTC.
type Period struct {
	Start time.Time
	End   time.Time
}

// For returns the period containing the calendar date of ref.
// Only the year/month/day of ref are used, so the result does not depend on ref's time of day.
func For(ref time.Time) Period {
	d := dateOf(ref)

	currentSunday := d.AddDate(0, 0, -int(d.Weekday()))

	// Both are UTC midnights, so whole days come from Unix seconds without Duration overflow.
	days := (currentSunday.Unix() - Anchor.Unix()) / secondsPerDay
	weeks := floorDiv(days, 7)

	start := currentSunday
	if weeks%2 != 0 {
		start = currentSunday.AddDate(0, 0, -7)
	}

	return Period{Start: start, End: start.AddDate(0, 0, Length-1)}
}

// History returns n consecutive periods ending with the one containing ref, most recent first.
func History(ref time.Time, n int) []Period {
	if n <= 0 {
		return []Period{}
	}
	periods := make([]Period, 0, n)
	for i := 0; i < n; i++ {
		periods = append(periods, For(dateOf(ref).AddDate(0, 0, -Length*i)))
	}
	return periods
}

// RangeStart is the first instant of the period.
func (p Period) RangeStart() time.Time {
	return p.Start
}

// RangeEnd is the last microsecond of the period's end date.
func (p Period) RangeEnd() time.Time {
	return p.End.Add(day - time.Microsecond)
}

// RangeIn returns the period's bounds as UTC instants for calendars kept in loc:
// local midnight of Start through the last microsecond of End.
func (p Period) RangeIn(loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	from := time.Date(p.Start.Year(), p.Start.Month(), p.Start.Day(), 0, 0, 0, 0, loc)
	to := time.Date(p.End.Year(), p.End.Month(), p.End.Day()+1, 0, 0, 0, 0, loc).Add(-time.Microsecond)
	return from.UTC(), to.UTC()
}

// Previous returns the period immediately before p.
func (p Period) Previous() Period {
	return Period{Start: p.Start.AddDate(0, 0, -Length), End: p.End.AddDate(0, 0, -Length)}
}

// Contains reports whether the calendar date of t lies in the period.
func (p Period) Contains(t time.Time) bool {
	d := dateOf(t)
	return !d.Before(p.Start) && !d.After(p.End)
}

// Label formats the period as "Jan 07 - Jan 20, 2024".
func (p Period) Label() string {
	return p.Start.Format("Jan 02") + " - " + p.End.Format("Jan 02, 2006")
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
