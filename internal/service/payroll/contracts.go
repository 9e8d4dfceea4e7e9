package payroll

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// AppointmentRepository интерфейс выборки записей для расчёта зарплаты
type AppointmentRepository interface {
	ListPayrollEntries(ctx context.Context, filter domain.AppointmentRangeFilter) ([]domain.PayrollEntry, error)
}

// OrderRepository интерфейс выборки продаж товаров
type OrderRepository interface {
	ListProductLineTotals(ctx context.Context, salonID int64, from, to time.Time) ([]decimal.Decimal, error)
}

// EmployeeRepository интерфейс репозитория мастеров
type EmployeeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)
}

// SalonRepository интерфейс репозитория салонов
type SalonRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Salon, error)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time { return time.Now() }
