package payroll

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// Config параметры расчёта, фиксируются при создании сервиса
type Config struct {
	// Пустой список - учитываются записи в любом статусе
	QualifyingStatuses []domain.AppointmentStatus
	CommissionRate     decimal.Decimal
	Location           *time.Location
	HistoryPeriods     int
}

// DefaultConfig возвращает настройки по умолчанию: только COMPLETED, 70% мастеру, UTC, 6 периодов
func DefaultConfig() Config {
	return Config{
		QualifyingStatuses: []domain.AppointmentStatus{domain.StatusCompleted},
		CommissionRate:     decimal.RequireFromString("0.70"),
		Location:           time.UTC,
		HistoryPeriods:     domain.DefaultPayrollHistory,
	}
}

// ParseStatuses конвертирует статусы из конфигурации
func ParseStatuses(raw []string) ([]domain.AppointmentStatus, error) {
	statuses := make([]domain.AppointmentStatus, 0, len(raw))
	for _, s := range raw {
		st, err := domain.ParseAppointmentStatus(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}

func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.Location == nil {
		c.Location = def.Location
	}
	if c.HistoryPeriods <= 0 {
		c.HistoryPeriods = def.HistoryPeriods
	}
	return c
}
