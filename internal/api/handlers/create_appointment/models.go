package create_appointment

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	createAppointment "github.com/m04kA/SMC-SalonService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	EmployeeID int64   `json:"employeeId"`
	ServiceID  int64   `json:"serviceId"`
	Date       string  `json:"date"`      // "2024-03-11"
	StartTime  string  `json:"startTime"` // "10:00:00" из available-times
	Notes      *string `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID          int64    `json:"id"`
	SalonID     int64    `json:"salonId"`
	CustomerID  int64    `json:"customerId"`
	EmployeeID  int64    `json:"employeeId"`
	ServiceID   int64    `json:"serviceId"`
	ServiceName string   `json:"serviceName"`
	StartAt     string   `json:"startAt"`
	EndAt       string   `json:"endAt"`
	Status      string   `json:"status"`
	PriceAtBook *float64 `json:"priceAtBook,omitempty"`
	Notes       *string  `json:"notes,omitempty"`
	CreatedAt   string   `json:"createdAt"`
}

var (
	errInvalidDate = errors.New("invalid date")
	errInvalidTime = errors.New("invalid start time")
)

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(customerID int64) (*createAppointment.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidDate, err)
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidTime, err)
	}

	return &createAppointment.Request{
		CustomerID: customerID,
		EmployeeID: r.EmployeeID,
		ServiceID:  r.ServiceID,
		Date:       date,
		StartTime:  startTime,
		Notes:      r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	out := &AppointmentResponse{
		ID:          resp.ID,
		SalonID:     resp.SalonID,
		CustomerID:  resp.CustomerID,
		EmployeeID:  resp.EmployeeID,
		ServiceID:   resp.ServiceID,
		ServiceName: resp.ServiceName,
		StartAt:     resp.StartAt.Format(time.RFC3339),
		EndAt:       resp.EndAt.Format(time.RFC3339),
		Status:      resp.Status,
		Notes:       resp.Notes,
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
	}

	if resp.PriceAtBook.Valid {
		price := resp.PriceAtBook.Decimal.InexactFloat64()
		out.PriceAtBook = &price
	}

	return out
}
