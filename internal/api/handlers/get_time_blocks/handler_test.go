package get_time_blocks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/service/schedule"
	"github.com/m04kA/SMC-SalonService/internal/service/schedule/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeService struct {
	gotDate time.Time
	err     error
}

func (f *fakeService) ListTimeBlocks(_ context.Context, _ int64, date time.Time) (*models.TimeBlockListResponse, error) {
	f.gotDate = date
	if f.err != nil {
		return nil, f.err
	}
	return &models.TimeBlockListResponse{TimeBlocks: []models.TimeBlockResponse{}}, nil
}

func do(h *Handler, query string) *httptest.ResponseRecorder {
	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/v1/employees/7/time-blocks?"+query, nil),
		map[string]string{"employeeId": "7"})
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_OK(t *testing.T) {
	svc := &fakeService{}
	h := NewHandler(svc, nopLogger{})

	rec := do(h, "date=2024-03-11")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), svc.gotDate)
	assert.JSONEq(t, `{"timeBlocks":[]}`, rec.Body.String())
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		svcErr     error
		wantStatus int
	}{
		{name: "missing date", query: "", wantStatus: http.StatusBadRequest},
		{name: "bad date", query: "date=11.03.2024", wantStatus: http.StatusBadRequest},
		{name: "not found", query: "date=2024-03-11", svcErr: schedule.ErrEmployeeNotFound, wantStatus: http.StatusNotFound},
		{name: "internal", query: "date=2024-03-11", svcErr: schedule.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeService{err: tt.svcErr}, nopLogger{})

			rec := do(h, tt.query)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
