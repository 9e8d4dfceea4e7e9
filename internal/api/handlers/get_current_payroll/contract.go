package get_current_payroll

import (
	"context"

	"github.com/m04kA/SMC-SalonService/internal/service/payroll/models"
)

type PayrollService interface {
	EmployeeCurrentPeriod(ctx context.Context, employeeID int64) (*models.PayrollSummaryResponse, error)
	SalonCurrentPeriod(ctx context.Context, salonID int64) (*models.PayrollSummaryResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
