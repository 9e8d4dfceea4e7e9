package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollEntry is the part of an appointment that payroll needs.
type PayrollEntry struct {
	StartAt time.Time
	EndAt   time.Time
	Price   decimal.NullDecimal
}

// PayrollTotals are the rounded sums of one pay period.
type PayrollTotals struct {
	PeriodStart      time.Time
	PeriodEnd        time.Time
	AppointmentCount int
	TotalHours       decimal.Decimal
	ServiceRevenue   decimal.Decimal
	EmployeeEarnings decimal.Decimal
	SalonShare       decimal.Decimal
	ProductRevenue   decimal.Decimal
}
