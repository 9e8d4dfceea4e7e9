package create_appointment

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/api/middleware"
	createAppointment "github.com/m04kA/SMC-SalonService/internal/usecase/create_appointment"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeUseCase struct {
	got *createAppointment.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *createAppointment.Request) (*createAppointment.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	start := req.StartTime.On(req.Date)
	return &createAppointment.Response{
		ID:         1,
		CustomerID: req.CustomerID,
		EmployeeID: req.EmployeeID,
		StartAt:    start,
		EndAt:      start.Add(time.Hour),
		Status:     "BOOKED",
	}, nil
}

const validBody = `{"employeeId":7,"serviceId":5,"date":"2024-03-11","startTime":"10:00:00"}`

func do(h *Handler, body string, userID int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
	if userID > 0 {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	uc := &fakeUseCase{}
	h := NewHandler(uc, nopLogger{})

	rec := do(h, validBody, 100)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(100), uc.got.CustomerID)
	assert.Equal(t, "10:00:00", uc.got.StartTime.ISO())
	assert.Contains(t, rec.Body.String(), `"startAt":"2024-03-11T10:00:00Z"`)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		userID     int64
		ucErr      error
		wantStatus int
	}{
		{name: "no user", body: validBody, wantStatus: http.StatusUnauthorized},
		{name: "broken json", body: `{`, userID: 100, wantStatus: http.StatusBadRequest},
		{name: "bad date", body: `{"employeeId":7,"serviceId":5,"date":"11/03/2024","startTime":"10:00"}`, userID: 100, wantStatus: http.StatusBadRequest},
		{name: "bad time", body: `{"employeeId":7,"serviceId":5,"date":"2024-03-11","startTime":"ten"}`, userID: 100, wantStatus: http.StatusBadRequest},
		{name: "conflict", body: validBody, userID: 100, ucErr: createAppointment.ErrSlotNotAvailable, wantStatus: http.StatusConflict},
		{name: "employee not found", body: validBody, userID: 100, ucErr: createAppointment.ErrEmployeeNotFound, wantStatus: http.StatusNotFound},
		{name: "service not found", body: validBody, userID: 100, ucErr: createAppointment.ErrServiceNotFound, wantStatus: http.StatusNotFound},
		{name: "outside hours", body: validBody, userID: 100, ucErr: createAppointment.ErrOutsideWorkingHours, wantStatus: http.StatusBadRequest},
		{name: "internal", body: validBody, userID: 100, ucErr: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeUseCase{err: tt.ucErr}, nopLogger{})

			rec := do(h, tt.body, tt.userID)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
