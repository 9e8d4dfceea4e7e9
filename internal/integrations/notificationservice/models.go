package notificationservice

import "time"

// AppointmentBooked событие о создании записи
type AppointmentBooked struct {
	AppointmentID   int64     `json:"appointment_id"`
	SalonID         int64     `json:"salon_id"`
	CustomerID      int64     `json:"customer_id"`
	EmployeeID      int64     `json:"employee_id"`
	EmployeeName    string    `json:"employee_name"`
	ServiceName     string    `json:"service_name"`
	StartAt         time.Time `json:"start_at"`
	EndAt           time.Time `json:"end_at"`
	DurationMinutes int       `json:"duration_minutes"`
}
