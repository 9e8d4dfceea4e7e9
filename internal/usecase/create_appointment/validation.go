package create_appointment

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if req.EmployeeID <= 0 {
		return fmt.Errorf("%w: employeeID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateServiceDuration проверяет, что услуга имеет положительную длительность
func validateServiceDuration(service *domain.SalonService) error {
	if service.DurationMinutes <= 0 || service.DurationMinutes > domain.MaxDurationMinutes {
		return fmt.Errorf("%w: service id=%d has invalid duration %d", ErrInternal, service.ID, service.DurationMinutes)
	}
	return nil
}

// validateAgainstShift проверяет, что [start, start+duration) лежит в смене и на сетке слотов
func validateAgainstShift(rule *domain.WeeklyAvailabilityRule, start types.TimeString, durationMinutes int) error {
	if !rule.HasWorkingHours() {
		return ErrEmployeeNotWorking
	}

	shiftStart := rule.StartTime.TimeString
	shiftEnd := rule.EndTime.TimeString

	end, err := start.AddMinutes(durationMinutes)
	if err != nil {
		return ErrOutsideWorkingHours
	}

	if start.IsBefore(shiftStart) || end.IsAfter(shiftEnd) {
		return fmt.Errorf("%w: %s-%s is outside %s-%s", ErrOutsideWorkingHours, start, end, shiftStart, shiftEnd)
	}

	if (start.Seconds()-shiftStart.Seconds())%(domain.SlotIncrementMinutes*60) != 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTimeSlot, start)
	}

	return nil
}

// findConflict возвращает первый занятый интервал, пересекающийся с [start, end)
func findConflict(start, end time.Time, busy []domain.BusyInterval) *domain.BusyInterval {
	for i := range busy {
		if busy[i].Overlaps(start, end) {
			return &busy[i]
		}
	}
	return nil
}

// dayBounds возвращает первое и последнее мгновение календарного дня
func dayBounds(date time.Time) (time.Time, time.Time) {
	y, m, d := date.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return start, start.Add(24*time.Hour - time.Microsecond)
}
