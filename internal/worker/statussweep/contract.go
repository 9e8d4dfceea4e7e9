package statussweep

import (
	"context"
	"time"
)

// AppointmentRepository интерфейс завершения прошедших записей
type AppointmentRepository interface {
	CompleteEnded(ctx context.Context, now time.Time) (int64, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Recorder принимает результат прогона (реализуется *metrics.Metrics)
type Recorder interface {
	RecordSweep(completed int64, err error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
