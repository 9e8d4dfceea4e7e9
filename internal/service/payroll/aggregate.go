package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/payperiod"
)

const moneyPlaces = 2

var (
	one           = decimal.NewFromInt(1)
	microsPerHour = decimal.NewFromInt(int64(time.Hour / time.Microsecond))
)

// summarize считает итоги периода
// Часы и выручка округляются один раз на итоговой сумме, доли мастера и салона
// округляются независимо от округлённой выручки
func summarize(period payperiod.Period, entries []domain.PayrollEntry, rate decimal.Decimal) domain.PayrollTotals {
	var worked time.Duration
	revenue := decimal.Zero

	for _, e := range entries {
		worked += e.EndAt.Sub(e.StartAt)
		if e.Price.Valid {
			revenue = revenue.Add(e.Price.Decimal)
		}
	}

	revenue = revenue.Round(moneyPlaces)

	return domain.PayrollTotals{
		PeriodStart:      period.Start,
		PeriodEnd:        period.End,
		AppointmentCount: len(entries),
		TotalHours:       decimal.NewFromInt(int64(worked / time.Microsecond)).Div(microsPerHour).Round(moneyPlaces),
		ServiceRevenue:   revenue,
		EmployeeEarnings: revenue.Mul(rate).Round(moneyPlaces),
		SalonShare:       revenue.Mul(one.Sub(rate)).Round(moneyPlaces),
		ProductRevenue:   decimal.Zero,
	}
}

// sumProducts суммирует строки заказов с товарами, салон получает 100%
func sumProducts(lines []decimal.Decimal) decimal.Decimal {
	return decimal.Sum(decimal.Zero, lines...).Round(moneyPlaces)
}
