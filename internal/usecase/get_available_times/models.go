package get_available_times

import (
	"time"

	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// Request модель запроса доступного времени мастера
type Request struct {
	EmployeeID      int64
	Date            time.Time // Дата без времени
	DurationMinutes int       // Длительность услуги, 0 даёт пустой результат
}

// Response модель ответа со списком времени начала
type Response struct {
	EmployeeID int64
	Date       time.Time
	Times      []types.TimeString // По возрастанию, шаг 15 минут от начала смены
}
