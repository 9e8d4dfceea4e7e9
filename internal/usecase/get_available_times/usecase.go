package get_available_times

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/availability"
	employeeRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/employee"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// UseCase use case для расчёта свободного времени мастера на дату
type UseCase struct {
	employeeRepo     EmployeeRepository
	availabilityRepo AvailabilityRepository
	appointmentBusy  BusyIntervalSource
	timeBlockBusy    BusyIntervalSource
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	employeeRepo EmployeeRepository,
	availabilityRepo AvailabilityRepository,
	appointmentBusy BusyIntervalSource,
	timeBlockBusy BusyIntervalSource,
	logger Logger,
) *UseCase {
	return &UseCase{
		employeeRepo:     employeeRepo,
		availabilityRepo: availabilityRepo,
		appointmentBusy:  appointmentBusy,
		timeBlockBusy:    timeBlockBusy,
		logger:           logger,
	}
}

// Execute выполняет расчёт доступного времени
// Ничего не изменяет: результат может устареть сразу после ответа,
// поэтому создание записи перепроверяет слот в своей транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableTimes: employee=%d, date=%s, duration=%d",
		req.EmployeeID, req.Date.Format(domain.DateFormat), req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableTimes: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем существование мастера
	if _, err := uc.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		if errors.Is(err, employeeRepo.ErrEmployeeNotFound) {
			uc.logger.Warn("GetAvailableTimes: employee id=%d not found", req.EmployeeID)
			return nil, ErrEmployeeNotFound
		}
		uc.logger.Error("GetAvailableTimes: failed to get employee id=%d: %v", req.EmployeeID, err)
		return nil, fmt.Errorf("%w: failed to get employee: %v", ErrInternal, err)
	}

	empty := &Response{EmployeeID: req.EmployeeID, Date: req.Date, Times: []types.TimeString{}}

	// 3. Ищем правило расписания на этот день недели
	rule, err := uc.availabilityRepo.FindRule(ctx, req.EmployeeID, req.Date)
	if err != nil {
		if errors.Is(err, availabilityRepo.ErrRuleNotFound) {
			uc.logger.Info("GetAvailableTimes: employee=%d has no schedule on %s", req.EmployeeID, req.Date.Format(domain.DateFormat))
			return empty, nil
		}
		uc.logger.Error("GetAvailableTimes: failed to find rule: %v", err)
		return nil, fmt.Errorf("%w: failed to find schedule rule: %v", ErrInternal, err)
	}

	if !rule.HasWorkingHours() {
		uc.logger.Info("GetAvailableTimes: employee=%d is off on %s", req.EmployeeID, req.Date.Format(domain.DateFormat))
		return empty, nil
	}

	if req.DurationMinutes == 0 {
		return empty, nil
	}

	// 4. Собираем занятые интервалы за день
	from, to := dayBounds(req.Date)

	appointments, err := uc.appointmentBusy.ListBusyIntervals(ctx, req.EmployeeID, from, to)
	if err != nil {
		uc.logger.Error("GetAvailableTimes: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	blocks, err := uc.timeBlockBusy.ListBusyIntervals(ctx, req.EmployeeID, from, to)
	if err != nil {
		uc.logger.Error("GetAvailableTimes: failed to get time blocks: %v", err)
		return nil, fmt.Errorf("%w: failed to get time blocks: %v", ErrInternal, err)
	}

	busy := mergeBusy(appointments, blocks)

	// 5. Генерируем слоты
	times := computeSlots(from, rule.StartTime.TimeString, rule.EndTime.TimeString, req.DurationMinutes, busy)

	uc.logger.Info("GetAvailableTimes: generated %d start times for employee=%d, date=%s (busy intervals: %d)",
		len(times), req.EmployeeID, req.Date.Format(domain.DateFormat), len(busy))

	return &Response{
		EmployeeID: req.EmployeeID,
		Date:       req.Date,
		Times:      times,
	}, nil
}
