package payroll

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/payperiod"
)

var period = payperiod.For(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))

func entry(start time.Time, minutes int, price string) domain.PayrollEntry {
	e := domain.PayrollEntry{StartAt: start, EndAt: start.Add(time.Duration(minutes) * time.Minute)}
	if price != "" {
		e.Price = decimal.NewNullDecimal(decimal.RequireFromString(price))
	}
	return e
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSummarize_RoundsTotalBeforeSplit(t *testing.T) {
	start := time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC)
	entries := []domain.PayrollEntry{
		entry(start, 60, "100.00"),
		entry(start.Add(2*time.Hour), 60, "100.005"),
	}

	got := summarize(period, entries, dec("0.70"))

	assert.True(t, got.ServiceRevenue.Equal(dec("200.01")), "revenue %s", got.ServiceRevenue)
	assert.True(t, got.EmployeeEarnings.Equal(dec("140.01")), "earnings %s", got.EmployeeEarnings)
	assert.True(t, got.SalonShare.Equal(dec("60.00")), "share %s", got.SalonShare)
	assert.True(t, got.TotalHours.Equal(dec("2")))
	assert.Equal(t, 2, got.AppointmentCount)
}

func TestSummarize_SplitMayDriftFromTotal(t *testing.T) {
	start := time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC)

	got := summarize(period, []domain.PayrollEntry{entry(start, 30, "0.05")}, dec("0.70"))

	// 0.035 -> 0.04, 0.015 -> 0.02
	assert.True(t, got.EmployeeEarnings.Equal(dec("0.04")))
	assert.True(t, got.SalonShare.Equal(dec("0.02")))
	assert.False(t, got.EmployeeEarnings.Add(got.SalonShare).Equal(got.ServiceRevenue))
}

func TestSummarize_HoursRoundedOnceAtTotal(t *testing.T) {
	start := time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC)
	entries := []domain.PayrollEntry{
		entry(start, 20, ""),
		entry(start.Add(time.Hour), 20, ""),
		entry(start.Add(2*time.Hour), 20, ""),
	}

	got := summarize(period, entries, dec("0.70"))

	// Отдельно 0.33 * 3 = 0.99, итогом 1.00
	assert.True(t, got.TotalHours.Equal(dec("1")), "hours %s", got.TotalHours)
	assert.True(t, got.ServiceRevenue.IsZero())
}

func TestSummarize_Empty(t *testing.T) {
	got := summarize(period, nil, dec("0.70"))

	assert.Equal(t, period.Start, got.PeriodStart)
	assert.Equal(t, period.End, got.PeriodEnd)
	assert.Zero(t, got.AppointmentCount)
	assert.True(t, got.TotalHours.IsZero())
	assert.True(t, got.EmployeeEarnings.IsZero())
}

func TestSumProducts(t *testing.T) {
	assert.True(t, sumProducts([]decimal.Decimal{dec("10.10"), dec("5.255")}).Equal(dec("15.36")))
	assert.True(t, sumProducts(nil).IsZero())
}
