package domain

import "github.com/shopspring/decimal"

// Salon is a business that employs stylists and sells services and products.
type Salon struct {
	ID   int64
	Name string
}

// Employee is a stylist working at a salon.
type Employee struct {
	ID               int64
	SalonID          int64
	FirstName        string
	LastName         string
	EmploymentStatus string
}

// FullName returns "First Last" without trailing spaces
func (e *Employee) FullName() string {
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

// SalonService is a bookable service offered by a salon.
type SalonService struct {
	ID              int64
	SalonID         int64
	Name            string
	DurationMinutes int
	Price           decimal.NullDecimal
}
