package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	employeeRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/employee"
	"github.com/m04kA/SMC-SalonService/internal/service/schedule/models"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// Service сервис расписания мастеров и блокировок времени
type Service struct {
	availabilityRepo AvailabilityRepository
	timeBlockRepo    TimeBlockRepository
	employeeRepo     EmployeeRepository
	txManager        TransactionManager
	timeProvider     TimeProvider
	logger           Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	availabilityRepo AvailabilityRepository,
	timeBlockRepo TimeBlockRepository,
	employeeRepo EmployeeRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		availabilityRepo: availabilityRepo,
		timeBlockRepo:    timeBlockRepo,
		employeeRepo:     employeeRepo,
		txManager:        txManager,
		timeProvider:     realTimeProvider{},
		logger:           logger,
	}
}

// GetSchedule возвращает правила расписания мастера
func (s *Service) GetSchedule(ctx context.Context, employeeID int64) (*models.ScheduleResponse, error) {
	s.logger.Info("GetSchedule: employee=%d", employeeID)

	if _, err := s.getEmployee(ctx, "GetSchedule", employeeID); err != nil {
		return nil, err
	}

	rules, err := s.availabilityRepo.ListRules(ctx, employeeID)
	if err != nil {
		s.logger.Error("GetSchedule: repository error for employee=%d: %v", employeeID, err)
		return nil, fmt.Errorf("%w: GetSchedule - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSchedule(employeeID, rules), nil
}

// ReplaceSchedule заменяет расписание мастера целиком
// Записи без времени начала или конца пропускаются, новые правила действуют с сегодняшнего дня
func (s *Service) ReplaceSchedule(ctx context.Context, employeeID int64, req *models.ReplaceScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("ReplaceSchedule: employee=%d, rules=%d, user=%d", employeeID, len(req.Rules), req.UserID)

	// 1. Валидация и конвертация правил
	today := dateOnly(s.timeProvider.Now())
	rules, err := buildRules(employeeID, req.Rules, today)
	if err != nil {
		s.logger.Warn("ReplaceSchedule: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем существование мастера
	if _, err := s.getEmployee(ctx, "ReplaceSchedule", employeeID); err != nil {
		return nil, err
	}

	// 3. Удаляем старые правила и создаём новые в одной транзакции
	var saved []*domain.WeeklyAvailabilityRule
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		saved, err = s.availabilityRepo.ReplaceRules(txCtx, employeeID, rules)
		return err
	})
	if err != nil {
		s.logger.Error("ReplaceSchedule: failed to replace rules for employee=%d: %v", employeeID, err)
		return nil, fmt.Errorf("%w: ReplaceSchedule - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ReplaceSchedule: saved %d rules for employee=%d", len(saved), employeeID)
	return models.FromDomainSchedule(employeeID, saved), nil
}

// CreateTimeBlock создает блокировку времени мастера
func (s *Service) CreateTimeBlock(ctx context.Context, req *models.CreateTimeBlockRequest) (*models.TimeBlockResponse, error) {
	s.logger.Info("CreateTimeBlock: employee=%d, %s - %s, user=%d",
		req.EmployeeID, req.StartAt.Format(time.RFC3339), req.EndAt.Format(time.RFC3339), req.UserID)

	if req.StartAt.IsZero() || req.EndAt.IsZero() {
		return nil, fmt.Errorf("%w: startAt and endAt are required", ErrInvalidInput)
	}

	if !req.EndAt.After(req.StartAt) {
		s.logger.Warn("CreateTimeBlock: end %s is not after start %s", req.EndAt, req.StartAt)
		return nil, ErrInvalidTimeRange
	}

	if len(req.Reason) > domain.MaxTimeBlockReasonLength {
		return nil, fmt.Errorf("%w: reason must not exceed %d characters", ErrInvalidInput, domain.MaxTimeBlockReasonLength)
	}

	employee, err := s.getEmployee(ctx, "CreateTimeBlock", req.EmployeeID)
	if err != nil {
		return nil, err
	}

	block, err := s.timeBlockRepo.Create(ctx, &domain.TimeBlock{
		EmployeeID: employee.ID,
		SalonID:    employee.SalonID,
		StartAt:    req.StartAt.UTC(),
		EndAt:      req.EndAt.UTC(),
		Reason:     req.Reason,
	})
	if err != nil {
		s.logger.Error("CreateTimeBlock: repository error for employee=%d: %v", req.EmployeeID, err)
		return nil, fmt.Errorf("%w: CreateTimeBlock - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateTimeBlock: created block id=%d for employee=%d", block.ID, block.EmployeeID)
	return models.FromDomainTimeBlock(block), nil
}

// ListTimeBlocks возвращает блокировки мастера за календарный день
func (s *Service) ListTimeBlocks(ctx context.Context, employeeID int64, date time.Time) (*models.TimeBlockListResponse, error) {
	s.logger.Info("ListTimeBlocks: employee=%d, date=%s", employeeID, date.Format(domain.DateFormat))

	if _, err := s.getEmployee(ctx, "ListTimeBlocks", employeeID); err != nil {
		return nil, err
	}

	from := dateOnly(date)
	to := from.Add(24*time.Hour - time.Microsecond)

	blocks, err := s.timeBlockRepo.List(ctx, employeeID, from, to)
	if err != nil {
		s.logger.Error("ListTimeBlocks: repository error for employee=%d: %v", employeeID, err)
		return nil, fmt.Errorf("%w: ListTimeBlocks - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainTimeBlockList(blocks), nil
}

func (s *Service) getEmployee(ctx context.Context, op string, id int64) (*domain.Employee, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: employeeID must be positive", ErrInvalidInput)
	}

	employee, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, employeeRepo.ErrEmployeeNotFound) {
			s.logger.Warn("%s: employee id=%d not found", op, id)
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("%s: failed to get employee id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - failed to get employee: %v", ErrInternal, op, err)
	}
	return employee, nil
}

// buildRules проверяет дни недели и время, пропуская записи без start/end
func buildRules(employeeID int64, items []models.ScheduleRuleRequest, effectiveFrom time.Time) ([]*domain.WeeklyAvailabilityRule, error) {
	rules := make([]*domain.WeeklyAvailabilityRule, 0, len(items))

	for i, item := range items {
		if !domain.IsValidWeekday(item.Weekday) {
			return nil, fmt.Errorf("%w: rules[%d]: weekday must be between %d and %d",
				ErrInvalidInput, i, domain.MinWeekday, domain.MaxWeekday)
		}

		if item.StartTime == nil || item.EndTime == nil {
			continue
		}

		start, err := types.NewTimeStringFromString(*item.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: rules[%d]: startTime: %v", ErrInvalidInput, i, err)
		}
		end, err := types.NewTimeStringFromString(*item.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: rules[%d]: endTime: %v", ErrInvalidInput, i, err)
		}
		if !start.IsBefore(end) {
			return nil, fmt.Errorf("%w: rules[%d]: startTime must be before endTime", ErrInvalidTimeRange, i)
		}

		rules = append(rules, &domain.WeeklyAvailabilityRule{
			EmployeeID:    employeeID,
			Weekday:       item.Weekday,
			StartTime:     types.NewNullTimeString(start),
			EndTime:       types.NewNullTimeString(end),
			EffectiveFrom: effectiveFrom,
		})
	}

	return rules, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
