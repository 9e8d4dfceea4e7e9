// Package statussweep periodically marks appointments whose end time has passed as COMPLETED.
// Each run is one transaction and is idempotent.
package statussweep

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

const runTimeout = time.Minute

// Worker фоновая задача завершения записей
type Worker struct {
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	recorder        Recorder
	logger          Logger
	now             func() time.Time

	cron *cron.Cron
}

// NewWorker создает воркер; recorder может быть nil, если метрики отключены
func NewWorker(appointmentRepo AppointmentRepository, txManager TransactionManager, recorder Recorder, logger Logger) *Worker {
	return &Worker{
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		recorder:        recorder,
		logger:          logger,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// Start регистрирует задачу по расписанию (cron-выражение или "@every 5m") и запускает планировщик
func (w *Worker) Start(schedule string) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	if _, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		_, _ = w.RunOnce(ctx)
	}); err != nil {
		return fmt.Errorf("statussweep: invalid schedule %q: %w", schedule, err)
	}

	w.cron = c
	c.Start()
	w.logger.Info("StatusSweep: scheduler started with schedule %q", schedule)
	return nil
}

// Stop останавливает планировщик и ждёт завершения текущего прогона
func (w *Worker) Stop(ctx context.Context) {
	if w.cron == nil {
		return
	}

	select {
	case <-w.cron.Stop().Done():
		w.logger.Info("StatusSweep: scheduler stopped")
	case <-ctx.Done():
		w.logger.Warn("StatusSweep: stop timed out: %v", ctx.Err())
	}
}

// RunOnce выполняет один прогон и возвращает число завершённых записей
// Ошибка логируется и не останавливает планировщик
func (w *Worker) RunOnce(ctx context.Context) (int64, error) {
	now := w.now()

	var completed int64
	err := w.txManager.Do(ctx, func(txCtx context.Context) error {
		n, err := w.appointmentRepo.CompleteEnded(txCtx, now)
		if err != nil {
			return err
		}
		completed = n
		return nil
	})

	if w.recorder != nil {
		w.recorder.RecordSweep(completed, err)
	}

	if err != nil {
		w.logger.Error("StatusSweep: run at %s failed: %v", now.Format(time.RFC3339), err)
		return 0, err
	}

	if completed > 0 {
		w.logger.Info("StatusSweep: marked %d appointments as COMPLETED", completed)
	}
	return completed, nil
}
