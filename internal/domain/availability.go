package domain

import (
	"time"

	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// WeekdayIndex maps a date to the schedule weekday, Sunday = 0 ... Saturday = 6.
func WeekdayIndex(d time.Time) int {
	return int(d.Weekday())
}

// IsValidWeekday reports whether w is a schedule weekday.
func IsValidWeekday(w int) bool {
	return w >= MinWeekday && w <= MaxWeekday
}

// WeeklyAvailabilityRule is a recurring working window of an employee for one weekday.
// A rule without start or end time marks a day off.
type WeeklyAvailabilityRule struct {
	ID            int64
	EmployeeID    int64
	Weekday       int
	StartTime     types.NullTimeString
	EndTime       types.NullTimeString
	EffectiveFrom time.Time
	EffectiveTo   *time.Time
}

// HasWorkingHours returns true if the rule defines a non-empty shift
func (r *WeeklyAvailabilityRule) HasWorkingHours() bool {
	return r.StartTime.Valid && r.EndTime.Valid && r.StartTime.TimeString.IsBefore(r.EndTime.TimeString)
}

// IsEffectiveOn returns true if the rule applies to the calendar date d
func (r *WeeklyAvailabilityRule) IsEffectiveOn(d time.Time) bool {
	if r.Weekday != WeekdayIndex(d) {
		return false
	}
	if d.Before(r.EffectiveFrom) {
		return false
	}
	return r.EffectiveTo == nil || !d.After(*r.EffectiveTo)
}

// TimeBlock is a manual block of an employee's time (vacation, break).
type TimeBlock struct {
	ID         int64
	EmployeeID int64
	SalonID    int64
	StartAt    time.Time
	EndAt      time.Time
	Reason     string
	CreatedAt  time.Time
}

// Interval returns the block as a busy interval
func (b *TimeBlock) Interval() BusyInterval {
	return BusyInterval{Start: b.StartAt, End: b.EndAt}
}
