package create_time_block

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonService/internal/service/schedule"
	"github.com/m04kA/SMC-SalonService/internal/service/schedule/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeService struct {
	gotReq *models.CreateTimeBlockRequest
	err    error
}

func (f *fakeService) CreateTimeBlock(_ context.Context, req *models.CreateTimeBlockRequest) (*models.TimeBlockResponse, error) {
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.TimeBlockResponse{ID: 9, EmployeeID: req.EmployeeID, StartAt: req.StartAt, EndAt: req.EndAt, Reason: req.Reason}, nil
}

const validBody = `{"startAt":"2024-03-11T12:00:00Z","endAt":"2024-03-11T13:00:00Z","reason":"обед"}`

func do(h *Handler, body string, userID int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/employees/7/time-blocks", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"employeeId": "7"})
	if userID > 0 {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc, nopLogger{})

	rec := do(h, validBody, 100)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(7), svc.gotReq.EmployeeID)
	assert.Equal(t, int64(100), svc.gotReq.UserID)
	assert.Equal(t, time.Date(2024, 3, 11, 12, 0, 0, 0, time.UTC), svc.gotReq.StartAt)
	assert.Equal(t, "обед", svc.gotReq.Reason)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		userID     int64
		svcErr     error
		wantStatus int
	}{
		{name: "no user", body: validBody, wantStatus: http.StatusUnauthorized},
		{name: "bad timestamp", body: `{"startAt":"12:00","endAt":"13:00"}`, userID: 100, wantStatus: http.StatusBadRequest},
		{name: "reversed range", body: validBody, userID: 100, svcErr: schedule.ErrInvalidTimeRange, wantStatus: http.StatusBadRequest},
		{name: "not found", body: validBody, userID: 100, svcErr: schedule.ErrEmployeeNotFound, wantStatus: http.StatusNotFound},
		{name: "internal", body: validBody, userID: 100, svcErr: schedule.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeService{err: tt.svcErr}, nopLogger{})

			rec := do(h, tt.body, tt.userID)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
