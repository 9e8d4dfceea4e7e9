package get_payroll_history

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/service/payroll"
	"github.com/m04kA/SMC-SalonService/internal/service/payroll/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeService struct {
	err error
}

func (f *fakeService) EmployeeHistory(_ context.Context, employeeID int64) (*models.PayrollHistoryResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.PayrollHistoryResponse{Periods: []models.PayrollSummaryResponse{
		{EmployeeID: &employeeID, PeriodStart: "2024-01-21", PeriodEnd: "2024-02-03", ServiceRevenue: 100, EmployeeEarnings: 70, SalonShare: 30},
		{EmployeeID: &employeeID, PeriodStart: "2024-01-07", PeriodEnd: "2024-01-20"},
	}}, nil
}

func (f *fakeService) SalonHistory(_ context.Context, salonID int64) (*models.PayrollHistoryResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	products := 12.5
	return &models.PayrollHistoryResponse{Periods: []models.PayrollSummaryResponse{
		{SalonID: &salonID, PeriodStart: "2024-01-21", PeriodEnd: "2024-02-03", ProductRevenue: &products},
	}}, nil
}

func TestHandleEmployee(t *testing.T) {
	h := NewHandler(&fakeService{}, nopLogger{})
	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/v1/employees/7/payroll/history", nil),
		map[string]string{"employeeId": "7"})
	rec := httptest.NewRecorder()

	h.HandleEmployee(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body models.PayrollHistoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Periods, 2)
	assert.Equal(t, "2024-01-21", body.Periods[0].PeriodStart)
	assert.Equal(t, 70.0, body.Periods[0].EmployeeEarnings)
	assert.Nil(t, body.Periods[0].ProductRevenue)
}

func TestHandleSalon(t *testing.T) {
	h := NewHandler(&fakeService{}, nopLogger{})
	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/v1/salons/3/payroll/history", nil),
		map[string]string{"salonId": "3"})
	rec := httptest.NewRecorder()

	h.HandleSalon(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"productRevenue":12.5`)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		salon      bool
		id         string
		svcErr     error
		wantStatus int
	}{
		{name: "bad employee id", id: "0", wantStatus: http.StatusBadRequest},
		{name: "bad salon id", salon: true, id: "x", wantStatus: http.StatusBadRequest},
		{name: "employee not found", id: "7", svcErr: payroll.ErrEmployeeNotFound, wantStatus: http.StatusNotFound},
		{name: "salon not found", salon: true, id: "3", svcErr: payroll.ErrSalonNotFound, wantStatus: http.StatusNotFound},
		{name: "internal", id: "7", svcErr: payroll.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeService{err: tt.svcErr}, nopLogger{})
			rec := httptest.NewRecorder()

			if tt.salon {
				req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"salonId": tt.id})
				h.HandleSalon(rec, req)
			} else {
				req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"employeeId": tt.id})
				h.HandleEmployee(rec, req)
			}

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
