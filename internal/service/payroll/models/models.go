package models

import (
	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/payperiod"
)

// PayrollSummaryResponse итоги одного расчётного периода
// Денежные поля округлены до копеек и отдаются числами
type PayrollSummaryResponse struct {
	EmployeeID       *int64   `json:"employeeId,omitempty"`
	SalonID          *int64   `json:"salonId,omitempty"`
	PeriodStart      string   `json:"periodStart"` // "2024-01-07"
	PeriodEnd        string   `json:"periodEnd"`   // "2024-01-20"
	Label            string   `json:"label"`       // "Jan 07 - Jan 20, 2024"
	AppointmentCount int      `json:"appointmentCount"`
	TotalHours       float64  `json:"totalHours"`
	ServiceRevenue   float64  `json:"serviceRevenue"`
	EmployeeEarnings float64  `json:"employeeEarnings"`
	SalonShare       float64  `json:"salonShare"`
	ProductRevenue   *float64 `json:"productRevenue,omitempty"` // только для салона
}

// PayrollHistoryResponse итоги нескольких периодов, последний период первым
type PayrollHistoryResponse struct {
	Periods []PayrollSummaryResponse `json:"periods"`
}

// FromDomainTotals конвертирует итоги в DTO
func FromDomainTotals(t domain.PayrollTotals, withProducts bool) PayrollSummaryResponse {
	period := payperiod.Period{Start: t.PeriodStart, End: t.PeriodEnd}

	resp := PayrollSummaryResponse{
		PeriodStart:      t.PeriodStart.Format(domain.DateFormat),
		PeriodEnd:        t.PeriodEnd.Format(domain.DateFormat),
		Label:            period.Label(),
		AppointmentCount: t.AppointmentCount,
		TotalHours:       t.TotalHours.InexactFloat64(),
		ServiceRevenue:   t.ServiceRevenue.InexactFloat64(),
		EmployeeEarnings: t.EmployeeEarnings.InexactFloat64(),
		SalonShare:       t.SalonShare.InexactFloat64(),
	}

	if withProducts {
		products := t.ProductRevenue.InexactFloat64()
		resp.ProductRevenue = &products
	}

	return resp
}
