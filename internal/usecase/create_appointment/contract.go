package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/internal/integrations/notificationservice"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	// ListOverlappingIntervals возвращает активные записи, пересекающиеся с [from, to), с блокировкой строк
	ListOverlappingIntervals(ctx context.Context, employeeID int64, from, to time.Time) ([]domain.BusyInterval, error)
}

// TimeBlockRepository интерфейс репозитория блокировок
type TimeBlockRepository interface {
	// ListOverlappingIntervals возвращает блокировки, пересекающиеся с [from, to), включая многодневные
	ListOverlappingIntervals(ctx context.Context, employeeID int64, from, to time.Time) ([]domain.BusyInterval, error)
}

// AvailabilityRepository интерфейс репозитория расписания
type AvailabilityRepository interface {
	FindRule(ctx context.Context, employeeID int64, date time.Time) (*domain.WeeklyAvailabilityRule, error)
}

// EmployeeRepository интерфейс репозитория мастеров
type EmployeeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)
}

// SalonRepository интерфейс репозитория салонов
type SalonRepository interface {
	GetService(ctx context.Context, salonID, serviceID int64) (*domain.SalonService, error)
}

// NotificationClient интерфейс клиента сервиса уведомлений
type NotificationClient interface {
	NotifyAppointmentBooked(ctx context.Context, event *notificationservice.AppointmentBooked) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время в UTC
func (p *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}
