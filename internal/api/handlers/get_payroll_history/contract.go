package get_payroll_history

import (
	"context"

	"github.com/m04kA/SMC-SalonService/internal/service/payroll/models"
)

type PayrollService interface {
	EmployeeHistory(ctx context.Context, employeeID int64) (*models.PayrollHistoryResponse, error)
	SalonHistory(ctx context.Context, salonID int64) (*models.PayrollHistoryResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
