package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	secondsPerMinute = 60
	secondsPerDay    = 24 * 60 * 60
)

var (
	// ErrInvalidTimeString is returned for values that are not HH:MM or HH:MM:SS.
	ErrInvalidTimeString = errors.New("invalid time string format")

	// ErrTimeOutOfRange is returned when arithmetic leaves the [00:00, 24:00] range.
	ErrTimeOutOfRange = errors.New("time of day out of range")
)

// TimeString is a wall-clock time of day with second precision.
type TimeString struct {
	seconds int
}

// NewTimeString takes the time-of-day part of t.
func NewTimeString(t time.Time) TimeString {
	return TimeString{seconds: t.Hour()*3600 + t.Minute()*60 + t.Second()}
}

// NewTimeStringFromString parses "HH:MM" or "HH:MM:SS".
func NewTimeStringFromString(s string) (TimeString, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewTimeString(t), nil
		}
	}
	return TimeString{}, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
}

// MustTimeString is NewTimeStringFromString that panics on error. Intended for constants and tests.
func MustTimeString(s string) TimeString {
	ts, err := NewTimeStringFromString(s)
	if err != nil {
		panic(err)
	}
	return ts
}

// AddMinutes shifts the time. The result may be exactly 24:00 but not beyond.
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	s := t.seconds + minutes*secondsPerMinute
	if s < 0 || s > secondsPerDay {
		return TimeString{}, ErrTimeOutOfRange
	}
	return TimeString{seconds: s}, nil
}

func (t TimeString) IsBefore(other TimeString) bool { return t.seconds < other.seconds }
func (t TimeString) IsAfter(other TimeString) bool  { return t.seconds > other.seconds }
func (t TimeString) Equal(other TimeString) bool    { return t.seconds == other.seconds }

// Seconds returns the number of seconds since midnight.
func (t TimeString) Seconds() int { return t.seconds }

// On anchors the time of day to the calendar date of d, in d's location.
func (t TimeString) On(d time.Time) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, d.Location()).Add(time.Duration(t.seconds) * time.Second)
}

// String formats as HH:MM.
func (t TimeString) String() string {
	return fmt.Sprintf("%02d:%02d", t.seconds/3600, (t.seconds%3600)/60)
}

// ISO formats as HH:MM:SS.
func (t TimeString) ISO() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.seconds/3600, (t.seconds%3600)/60, t.seconds%60)
}

// Value implements driver.Valuer for TIME columns.
func (t TimeString) Value() (driver.Value, error) {
	return t.ISO(), nil
}

// Scan implements sql.Scanner. lib/pq returns TIME columns as time.Time.
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*t = NewTimeString(v)
		return nil
	case []byte:
		parsed, err := NewTimeStringFromString(string(v))
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case string:
		parsed, err := NewTimeStringFromString(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidTimeString, src)
	}
}

// NullTimeString is a TimeString that may be NULL.
type NullTimeString struct {
	TimeString TimeString
	Valid      bool
}

// Scan implements sql.Scanner.
func (n *NullTimeString) Scan(src interface{}) error {
	if src == nil {
		n.TimeString, n.Valid = TimeString{}, false
		return nil
	}
	if err := n.TimeString.Scan(src); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

// Value implements driver.Valuer.
func (n NullTimeString) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.TimeString.Value()
}

// NewNullTimeString wraps a valid TimeString.
func NewNullTimeString(t TimeString) NullTimeString {
	return NullTimeString{TimeString: t, Valid: true}
}
