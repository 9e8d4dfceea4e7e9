package domain

// Slot grid
const (
	// SlotIncrementMinutes шаг сетки слотов от начала смены
	SlotIncrementMinutes = 15
	MaxDurationMinutes   = 24 * 60
)

// Business validation constants
const (
	MinWeekday                  = 0 // воскресенье
	MaxWeekday                  = 6 // суббота
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxTimeBlockReasonLength    = 255
	DefaultPayrollHistory       = 6
)

// Time format constants
const (
	TimeFormat    = "15:04"      // HH:MM
	ISOTimeFormat = "15:04:05"   // HH:MM:SS
	DateFormat    = "2006-01-02" // YYYY-MM-DD
)

// BlockingStatuses статусы записей, которые занимают время мастера
// Используется при расчёте доступных слотов и при проверке пересечений
var BlockingStatuses = []AppointmentStatus{
	StatusPending,
	StatusBooked,
	StatusConfirmed,
}

// ActiveStatuses статусы, из которых фоновая задача переводит прошедшие записи в COMPLETED
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusBooked,
	StatusConfirmed,
	StatusInProgress,
}

// StatusStrings переводит статусы в строки для SQL фильтров
func StatusStrings(statuses []AppointmentStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
