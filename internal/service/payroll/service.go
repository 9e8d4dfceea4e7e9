package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	employeeRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/employee"
	salonRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/salon"
	"github.com/m04kA/SMC-SalonService/internal/service/payroll/models"
	"github.com/m04kA/SMC-SalonService/pkg/payperiod"
)

// Service сервис расчёта зарплаты по двухнедельным периодам
// Ничего не кэширует: каждый запрос пересчитывает итоги из БД
type Service struct {
	appointmentRepo AppointmentRepository
	orderRepo       OrderRepository
	employeeRepo    EmployeeRepository
	salonRepo       SalonRepository
	cfg             Config
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса расчёта зарплаты
func NewService(
	appointmentRepo AppointmentRepository,
	orderRepo OrderRepository,
	employeeRepo EmployeeRepository,
	salonRepo SalonRepository,
	cfg Config,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		orderRepo:       orderRepo,
		employeeRepo:    employeeRepo,
		salonRepo:       salonRepo,
		cfg:             cfg.normalized(),
		timeProvider:    realTimeProvider{},
		logger:          logger,
	}
}

// EmployeeCurrentPeriod возвращает итоги мастера за текущий период
func (s *Service) EmployeeCurrentPeriod(ctx context.Context, employeeID int64) (*models.PayrollSummaryResponse, error) {
	s.logger.Info("EmployeeCurrentPeriod: employee=%d", employeeID)

	if err := s.checkEmployee(ctx, "EmployeeCurrentPeriod", employeeID); err != nil {
		return nil, err
	}

	summary, err := s.employeeSummary(ctx, employeeID, payperiod.For(s.today()))
	if err != nil {
		s.logger.Error("EmployeeCurrentPeriod: employee=%d: %v", employeeID, err)
		return nil, err
	}

	return &summary, nil
}

// EmployeeHistory возвращает итоги мастера за текущий и предыдущие периоды
func (s *Service) EmployeeHistory(ctx context.Context, employeeID int64) (*models.PayrollHistoryResponse, error) {
	s.logger.Info("EmployeeHistory: employee=%d, periods=%d", employeeID, s.cfg.HistoryPeriods)

	if err := s.checkEmployee(ctx, "EmployeeHistory", employeeID); err != nil {
		return nil, err
	}

	resp := &models.PayrollHistoryResponse{Periods: make([]models.PayrollSummaryResponse, 0, s.cfg.HistoryPeriods)}
	for _, period := range payperiod.History(s.today(), s.cfg.HistoryPeriods) {
		summary, err := s.employeeSummary(ctx, employeeID, period)
		if err != nil {
			s.logger.Error("EmployeeHistory: employee=%d, period=%s: %v", employeeID, period.Label(), err)
			return nil, err
		}
		resp.Periods = append(resp.Periods, summary)
	}

	return resp, nil
}

// SalonCurrentPeriod возвращает итоги салона за текущий период, включая продажи товаров
func (s *Service) SalonCurrentPeriod(ctx context.Context, salonID int64) (*models.PayrollSummaryResponse, error) {
	s.logger.Info("SalonCurrentPeriod: salon=%d", salonID)

	if err := s.checkSalon(ctx, "SalonCurrentPeriod", salonID); err != nil {
		return nil, err
	}

	summary, err := s.salonSummary(ctx, salonID, payperiod.For(s.today()))
	if err != nil {
		s.logger.Error("SalonCurrentPeriod: salon=%d: %v", salonID, err)
		return nil, err
	}

	return &summary, nil
}

// SalonHistory возвращает итоги салона за текущий и предыдущие периоды
func (s *Service) SalonHistory(ctx context.Context, salonID int64) (*models.PayrollHistoryResponse, error) {
	s.logger.Info("SalonHistory: salon=%d, periods=%d", salonID, s.cfg.HistoryPeriods)

	if err := s.checkSalon(ctx, "SalonHistory", salonID); err != nil {
		return nil, err
	}

	resp := &models.PayrollHistoryResponse{Periods: make([]models.PayrollSummaryResponse, 0, s.cfg.HistoryPeriods)}
	for _, period := range payperiod.History(s.today(), s.cfg.HistoryPeriods) {
		summary, err := s.salonSummary(ctx, salonID, period)
		if err != nil {
			s.logger.Error("SalonHistory: salon=%d, period=%s: %v", salonID, period.Label(), err)
			return nil, err
		}
		resp.Periods = append(resp.Periods, summary)
	}

	return resp, nil
}

func (s *Service) employeeSummary(ctx context.Context, employeeID int64, period payperiod.Period) (models.PayrollSummaryResponse, error) {
	from, to := period.RangeIn(s.cfg.Location)

	entries, err := s.appointmentRepo.ListPayrollEntries(ctx, domain.AppointmentRangeFilter{
		EmployeeID: &employeeID,
		From:       from,
		To:         to,
		Statuses:   s.cfg.QualifyingStatuses,
	})
	if err != nil {
		return models.PayrollSummaryResponse{}, fmt.Errorf("%w: failed to list appointments: %v", ErrInternal, err)
	}

	summary := models.FromDomainTotals(summarize(period, entries, s.cfg.CommissionRate), false)
	summary.EmployeeID = &employeeID
	return summary, nil
}

func (s *Service) salonSummary(ctx context.Context, salonID int64, period payperiod.Period) (models.PayrollSummaryResponse, error) {
	from, to := period.RangeIn(s.cfg.Location)

	entries, err := s.appointmentRepo.ListPayrollEntries(ctx, domain.AppointmentRangeFilter{
		SalonID:  &salonID,
		From:     from,
		To:       to,
		Statuses: s.cfg.QualifyingStatuses,
	})
	if err != nil {
		return models.PayrollSummaryResponse{}, fmt.Errorf("%w: failed to list appointments: %v", ErrInternal, err)
	}

	lines, err := s.orderRepo.ListProductLineTotals(ctx, salonID, from, to)
	if err != nil {
		return models.PayrollSummaryResponse{}, fmt.Errorf("%w: failed to list product lines: %v", ErrInternal, err)
	}

	totals := summarize(period, entries, s.cfg.CommissionRate)
	totals.ProductRevenue = sumProducts(lines)

	summary := models.FromDomainTotals(totals, true)
	summary.SalonID = &salonID
	return summary, nil
}

// today возвращает текущую дату в часовом поясе салонов
func (s *Service) today() time.Time {
	return s.timeProvider.Now().In(s.cfg.Location)
}

func (s *Service) checkEmployee(ctx context.Context, op string, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: employeeID must be positive", ErrInvalidInput)
	}
	if _, err := s.employeeRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, employeeRepo.ErrEmployeeNotFound) {
			s.logger.Warn("%s: employee id=%d not found", op, id)
			return ErrEmployeeNotFound
		}
		s.logger.Error("%s: failed to get employee id=%d: %v", op, id, err)
		return fmt.Errorf("%w: %s - failed to get employee: %v", ErrInternal, op, err)
	}
	return nil
}

func (s *Service) checkSalon(ctx context.Context, op string, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: salonID must be positive", ErrInvalidInput)
	}
	if _, err := s.salonRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, salonRepo.ErrSalonNotFound) {
			s.logger.Warn("%s: salon id=%d not found", op, id)
			return ErrSalonNotFound
		}
		s.logger.Error("%s: failed to get salon id=%d: %v", op, id, err)
		return fmt.Errorf("%w: %s - failed to get salon: %v", ErrInternal, op, err)
	}
	return nil
}
