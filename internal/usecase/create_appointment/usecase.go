package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/availability"
	employeeRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/employee"
	salonRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/salon"
	"github.com/m04kA/SMC-SalonService/internal/integrations/notificationservice"
	"github.com/m04kA/SMC-SalonService/pkg/txmanager"
)

// UseCase use case для создания записи к мастеру
type UseCase struct {
	appointmentRepo  AppointmentRepository
	timeBlockRepo    TimeBlockRepository
	availabilityRepo AvailabilityRepository
	employeeRepo     EmployeeRepository
	salonRepo        SalonRepository
	notifier         NotificationClient
	txManager        TransactionManager
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	timeBlockRepo TimeBlockRepository,
	availabilityRepo AvailabilityRepository,
	employeeRepo EmployeeRepository,
	salonRepo SalonRepository,
	notifier NotificationClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo:  appointmentRepo,
		timeBlockRepo:    timeBlockRepo,
		availabilityRepo: availabilityRepo,
		employeeRepo:     employeeRepo,
		salonRepo:        salonRepo,
		notifier:         notifier,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case создания записи
// Проверка слота и вставка выполняются в одной сериализуемой транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: customer=%d, employee=%d, service=%d, date=%s, time=%s",
		req.CustomerID, req.EmployeeID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем мастера
	employee, err := uc.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, employeeRepo.ErrEmployeeNotFound) {
			uc.logger.Warn("CreateAppointment: employee id=%d not found", req.EmployeeID)
			return nil, ErrEmployeeNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get employee id=%d: %v", req.EmployeeID, err)
		return nil, fmt.Errorf("%w: failed to get employee: %v", ErrInternal, err)
	}

	// 3. Получаем услугу в салоне мастера
	service, err := uc.salonRepo.GetService(ctx, employee.SalonID, req.ServiceID)
	if err != nil {
		if errors.Is(err, salonRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found in salon id=%d", req.ServiceID, employee.SalonID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if err := validateServiceDuration(service); err != nil {
		uc.logger.Error("CreateAppointment: %v", err)
		return nil, err
	}

	// 4. Вычисляем интервал записи и проверяем, что он не в прошлом
	date, _ := dayBounds(req.Date)
	startAt := req.StartTime.On(date)
	endAt := startAt.Add(time.Duration(service.DurationMinutes) * time.Minute)

	if startAt.Before(uc.timeProvider.Now()) {
		uc.logger.Warn("CreateAppointment: start %s is in the past", startAt.Format(time.RFC3339))
		return nil, ErrInvalidDate
	}

	var result *domain.Appointment

	// 5. Проверяем слот и создаём запись в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Правило расписания на день недели
		rule, err := uc.availabilityRepo.FindRule(txCtx, req.EmployeeID, date)
		if err != nil {
			if errors.Is(err, availabilityRepo.ErrRuleNotFound) {
				uc.logger.Warn("CreateAppointment: employee=%d has no schedule on %s", req.EmployeeID, date.Format(domain.DateFormat))
				return ErrEmployeeNotWorking
			}
			uc.logger.Error("CreateAppointment: failed to find rule: %v", err)
			return fmt.Errorf("%w: failed to find schedule rule: %v", ErrInternal, err)
		}

		// 5.2. Слот внутри смены и на сетке
		if err := validateAgainstShift(rule, req.StartTime, service.DurationMinutes); err != nil {
			uc.logger.Warn("CreateAppointment: shift validation failed: %v", err)
			return err
		}

		// 5.3. Все занятые интервалы, пересекающиеся со слотом, с блокировкой (FOR UPDATE)
		appointments, err := uc.appointmentRepo.ListOverlappingIntervals(txCtx, req.EmployeeID, startAt, endAt)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %w", ErrInternal, err)
		}

		blocks, err := uc.timeBlockRepo.ListOverlappingIntervals(txCtx, req.EmployeeID, startAt, endAt)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get time blocks: %v", err)
			return fmt.Errorf("%w: failed to get time blocks: %w", ErrInternal, err)
		}

		// 5.4. Проверяем пересечения
		if conflict := findConflict(startAt, endAt, append(appointments, blocks...)); conflict != nil {
			uc.logger.Warn("CreateAppointment: slot %s-%s overlaps busy %s-%s",
				startAt.Format(domain.TimeFormat), endAt.Format(domain.TimeFormat),
				conflict.Start.Format(domain.TimeFormat), conflict.End.Format(domain.TimeFormat))
			return ErrSlotNotAvailable
		}

		// 5.5. Создаём запись с ценой на момент бронирования
		appt := &domain.Appointment{
			SalonID:     employee.SalonID,
			CustomerID:  req.CustomerID,
			EmployeeID:  req.EmployeeID,
			ServiceID:   req.ServiceID,
			StartAt:     startAt,
			EndAt:       endAt,
			Status:      domain.StatusBooked,
			PriceAtBook: service.Price,
			Notes:       req.Notes,
		}

		created, err := uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		if txmanager.IsSerializationFailure(err) {
			uc.logger.Warn("CreateAppointment: concurrent booking for employee=%d at %s: %v",
				req.EmployeeID, startAt.Format(time.RFC3339), err)
			return nil, ErrSlotNotAvailable
		}
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.ID)

	// 6. Уведомление отправляется после фиксации, его ошибка не отменяет запись
	uc.notify(ctx, result, employee, service)

	return &Response{
		ID:          result.ID,
		SalonID:     result.SalonID,
		CustomerID:  result.CustomerID,
		EmployeeID:  result.EmployeeID,
		ServiceID:   result.ServiceID,
		ServiceName: service.Name,
		StartAt:     result.StartAt,
		EndAt:       result.EndAt,
		Status:      string(result.Status),
		PriceAtBook: result.PriceAtBook,
		Notes:       result.Notes,
		CreatedAt:   result.CreatedAt,
	}, nil
}

func (uc *UseCase) notify(ctx context.Context, appt *domain.Appointment, employee *domain.Employee, service *domain.SalonService) {
	if uc.notifier == nil {
		return
	}

	event := &notificationservice.AppointmentBooked{
		AppointmentID:   appt.ID,
		SalonID:         appt.SalonID,
		CustomerID:      appt.CustomerID,
		EmployeeID:      appt.EmployeeID,
		EmployeeName:    employee.FullName(),
		ServiceName:     service.Name,
		StartAt:         appt.StartAt,
		EndAt:           appt.EndAt,
		DurationMinutes: int(appt.Duration().Minutes()),
	}

	if err := uc.notifier.NotifyAppointmentBooked(ctx, event); err != nil {
		uc.logger.Warn("CreateAppointment: failed to notify about appointment id=%d: %v", appt.ID, err)
	}
}
