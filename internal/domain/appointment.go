package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending    AppointmentStatus = "PENDING"
	StatusBooked     AppointmentStatus = "BOOKED"
	StatusConfirmed  AppointmentStatus = "CONFIRMED"
	StatusInProgress AppointmentStatus = "IN_PROGRESS"
	StatusCompleted  AppointmentStatus = "COMPLETED"
	StatusCancelled  AppointmentStatus = "CANCELLED"
	StatusNoShow     AppointmentStatus = "NO_SHOW"
)

var allStatuses = []AppointmentStatus{
	StatusPending,
	StatusBooked,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}

// ParseAppointmentStatus accepts any letter case.
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	candidate := AppointmentStatus(strings.ToUpper(strings.TrimSpace(s)))
	for _, st := range allStatuses {
		if st == candidate {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown appointment status %q", s)
}

// Appointment is a booked visit of a customer to an employee.
type Appointment struct {
	ID         int64
	SalonID    int64
	CustomerID int64
	EmployeeID int64
	ServiceID  int64
	StartAt    time.Time
	EndAt      time.Time
	Status     AppointmentStatus

	// Price of the service at booking time. NULL counts as zero in payroll.
	PriceAtBook decimal.NullDecimal
	Notes       *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanBeCancelled returns true if the appointment can be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusBooked || a.Status == StatusConfirmed
}

// IsCancelled returns true if the appointment has been cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelled
}

// Duration returns the length of the appointment
func (a *Appointment) Duration() time.Duration {
	return a.EndAt.Sub(a.StartAt)
}

// BusyInterval is a half-open [Start, End) range during which an employee is occupied.
type BusyInterval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether [start, end) intersects the interval.
// Touching endpoints do not overlap.
func (b BusyInterval) Overlaps(start, end time.Time) bool {
	return start.Before(b.End) && end.After(b.Start)
}

// AppointmentRangeFilter selects appointments for payroll aggregation.
// Exactly one of EmployeeID and SalonID is expected to be set.
type AppointmentRangeFilter struct {
	EmployeeID *int64
	SalonID    *int64
	From       time.Time // inclusive
	To         time.Time // inclusive
	Statuses   []AppointmentStatus
}
