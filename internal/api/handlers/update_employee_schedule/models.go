package update_employee_schedule

import "github.com/m04kA/SMC-SalonService/internal/service/schedule/models"

// UpdateScheduleRequest HTTP request model
type UpdateScheduleRequest struct {
	Rules []models.ScheduleRuleRequest `json:"rules"`
}
