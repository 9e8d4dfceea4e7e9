package get_available_times

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// computeSlots генерирует время начала услуги с шагом 15 минут от начала смены
// Кандидат попадает в результат, если услуга целиком помещается в смену
// и не пересекается ни с одним занятым интервалом.
// Касание границ (конец услуги ровно в начале занятого интервала и наоборот) пересечением не считается
func computeSlots(
	date time.Time,
	shiftStart, shiftEnd types.TimeString,
	durationMinutes int,
	busy []domain.BusyInterval,
) []types.TimeString {
	result := make([]types.TimeString, 0)

	if durationMinutes <= 0 || !shiftStart.IsBefore(shiftEnd) {
		return result
	}

	dayEnd := shiftEnd.On(date)
	duration := time.Duration(durationMinutes) * time.Minute

	for current := shiftStart; ; {
		start := current.On(date)
		end := start.Add(duration)
		if end.After(dayEnd) {
			break
		}

		if !overlapsAny(start, end, busy) {
			result = append(result, current)
		}

		next, err := current.AddMinutes(domain.SlotIncrementMinutes)
		if err != nil {
			break
		}
		current = next
	}

	return result
}

// overlapsAny проверяет пересечение [start, end) с занятыми интервалами, до первого совпадения
func overlapsAny(start, end time.Time, busy []domain.BusyInterval) bool {
	for _, b := range busy {
		if b.Overlaps(start, end) {
			return true
		}
	}
	return false
}

// mergeBusy объединяет интервалы из двух источников и сортирует по началу
func mergeBusy(appointments, blocks []domain.BusyInterval) []domain.BusyInterval {
	merged := make([]domain.BusyInterval, 0, len(appointments)+len(blocks))
	merged = append(merged, appointments...)
	merged = append(merged, blocks...)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Start.Before(merged[j].Start)
	})

	return merged
}

// dayBounds возвращает первое и последнее мгновение календарного дня
func dayBounds(date time.Time) (time.Time, time.Time) {
	y, m, d := date.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return start, start.Add(24*time.Hour - time.Microsecond)
}
