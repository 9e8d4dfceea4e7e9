package get_available_times

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// EmployeeRepository интерфейс репозитория мастеров
type EmployeeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)
}

// AvailabilityRepository интерфейс репозитория недельного расписания
type AvailabilityRepository interface {
	// FindRule возвращает правило, действующее на дату, или ErrRuleNotFound
	FindRule(ctx context.Context, employeeID int64, date time.Time) (*domain.WeeklyAvailabilityRule, error)
}

// BusyIntervalSource источник занятых интервалов мастера (записи или блокировки)
type BusyIntervalSource interface {
	ListBusyIntervals(ctx context.Context, employeeID int64, from, to time.Time) ([]domain.BusyInterval, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
