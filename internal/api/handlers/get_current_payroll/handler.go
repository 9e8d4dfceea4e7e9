package get_current_payroll

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonService/internal/service/payroll"
)

const (
	msgInvalidEmployeeID = "некорректный ID мастера"
	msgInvalidSalonID    = "некорректный ID салона"
	msgEmployeeNotFound  = "мастер не найден"
	msgSalonNotFound     = "салон не найден"
	msgInvalidInput      = "некорректные параметры расчёта"
)

type Handler struct {
	service PayrollService
	logger  Logger
}

func NewHandler(service PayrollService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleEmployee GET /api/v1/employees/{employeeId}/payroll/current-period
func (h *Handler) HandleEmployee(w http.ResponseWriter, r *http.Request) {
	const route = "GET /employees/{id}/payroll/current-period"

	employeeID, err := handlers.PathID(r, "employeeId")
	if err != nil {
		h.logger.Warn("%s - Invalid employee ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidEmployeeID)
		return
	}

	result, err := h.service.EmployeeCurrentPeriod(r.Context(), employeeID)
	if err != nil {
		h.respondError(w, route, employeeID, err)
		return
	}

	h.logger.Info("%s - Payroll calculated: employee_id=%d", route, employeeID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleSalon GET /api/v1/salons/{salonId}/payroll/current-period
func (h *Handler) HandleSalon(w http.ResponseWriter, r *http.Request) {
	const route = "GET /salons/{id}/payroll/current-period"

	salonID, err := handlers.PathID(r, "salonId")
	if err != nil {
		h.logger.Warn("%s - Invalid salon ID: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidSalonID)
		return
	}

	result, err := h.service.SalonCurrentPeriod(r.Context(), salonID)
	if err != nil {
		h.respondError(w, route, salonID, err)
		return
	}

	h.logger.Info("%s - Payroll calculated: salon_id=%d", route, salonID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) respondError(w http.ResponseWriter, route string, id int64, err error) {
	switch {
	case errors.Is(err, payroll.ErrEmployeeNotFound):
		h.logger.Warn("%s - Employee not found: id=%d", route, id)
		handlers.RespondNotFound(w, msgEmployeeNotFound)

	case errors.Is(err, payroll.ErrSalonNotFound):
		h.logger.Warn("%s - Salon not found: id=%d", route, id)
		handlers.RespondNotFound(w, msgSalonNotFound)

	case errors.Is(err, payroll.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidInput)

	default:
		h.logger.Error("%s - Failed to calculate payroll: id=%d, error=%v", route, id, err)
		handlers.RespondInternalError(w)
	}
}
