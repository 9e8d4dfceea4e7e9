package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SalonService/internal/service/appointments/models"
)

// Service сервис для чтения и отмены записей
type Service struct {
	appointmentRepo AppointmentRepository
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(appointmentRepo AppointmentRepository, logger Logger) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		timeProvider:    realTimeProvider{},
		logger:          logger,
	}
}

// GetByID получает запись по ID
// Клиент может видеть только свою запись
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%d", id, userID)

	appt, err := s.get(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if appt.CustomerID != userID {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainAppointment(appt), nil
}

// ListCustomerUpcoming возвращает будущие активные записи клиента по возрастанию времени
func (s *Service) ListCustomerUpcoming(ctx context.Context, customerID int64, userID int64) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListCustomerUpcoming: customer=%d, user=%d", customerID, userID)

	if customerID <= 0 {
		return nil, fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if customerID != userID {
		s.logger.Warn("ListCustomerUpcoming: user=%d cannot read appointments of customer=%d", userID, customerID)
		return nil, ErrAccessDenied
	}

	list, err := s.appointmentRepo.GetUpcomingByCustomer(ctx, customerID, s.timeProvider.Now())
	if err != nil {
		s.logger.Error("ListCustomerUpcoming: repository error for customer=%d: %v", customerID, err)
		return nil, fmt.Errorf("%w: ListCustomerUpcoming - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListCustomerUpcoming: found %d appointments for customer=%d", len(list), customerID)
	return models.FromDomainAppointmentList(list), nil
}

// Cancel отменяет запись клиента
// Отменить можно только PENDING, BOOKED и CONFIRMED
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelAppointmentRequest) error {
	s.logger.Info("Cancel: cancelling appointment id=%d by user=%d", id, req.UserID)

	if len(req.CancellationReason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: cancellation reason must not exceed %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	appt, err := s.get(ctx, "Cancel", id)
	if err != nil {
		return err
	}

	if appt.CustomerID != req.UserID {
		s.logger.Warn("Cancel: access denied for user=%d to appointment id=%d", req.UserID, id)
		return ErrAccessDenied
	}

	if appt.IsCancelled() {
		s.logger.Warn("Cancel: appointment id=%d is already cancelled", id)
		return ErrCannotCancel
	}

	if !appt.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", id, appt.Status)
		return ErrCannotCancel
	}

	if err := s.appointmentRepo.Cancel(ctx, id, req.CancellationReason); err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found during cancellation", id)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", id, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%d", id)
	return nil
}

func (s *Service) get(ctx context.Context, op string, id int64) (*domain.Appointment, error) {
	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%d not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return appt, nil
}
