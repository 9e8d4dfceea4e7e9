package create_appointment

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	CustomerID int64            // ID клиента (из X-User-ID)
	EmployeeID int64            // ID мастера
	ServiceID  int64            // ID услуги
	Date       time.Time        // Дата записи (без времени)
	StartTime  types.TimeString // Время начала, одно из значений get_available_times
	Notes      *string          // Заметки (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID          int64
	SalonID     int64
	CustomerID  int64
	EmployeeID  int64
	ServiceID   int64
	ServiceName string
	StartAt     time.Time
	EndAt       time.Time
	Status      string
	PriceAtBook decimal.NullDecimal
	Notes       *string
	CreatedAt   time.Time
}
