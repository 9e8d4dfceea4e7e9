package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SalonService/internal/service/appointments/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeRepo struct {
	byID        map[int64]*domain.Appointment
	getErr      error
	upcoming    []*domain.Appointment
	upcomingErr error
	gotFrom     time.Time
	cancelled   []int64
	cancelErr   error
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	a, ok := f.byID[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	return a, nil
}

func (f *fakeRepo) GetUpcomingByCustomer(_ context.Context, _ int64, from time.Time) ([]*domain.Appointment, error) {
	f.gotFrom = from
	return f.upcoming, f.upcomingErr
}

func (f *fakeRepo) Cancel(_ context.Context, id int64, _ string) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelled = append(f.cancelled, id)
	return nil
}

var now = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func newService(repo *fakeRepo) *Service {
	s := NewService(repo, nopLogger{})
	s.timeProvider = fixedTime{now: now}
	return s
}

func appointment(id, customer int64, status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		ID:          id,
		SalonID:     1,
		CustomerID:  customer,
		EmployeeID:  7,
		ServiceID:   5,
		StartAt:     now.Add(24 * time.Hour),
		EndAt:       now.Add(25 * time.Hour),
		Status:      status,
		PriceAtBook: decimal.NewNullDecimal(decimal.RequireFromString("40.00")),
	}
}

func TestGetByID(t *testing.T) {
	repo := &fakeRepo{byID: map[int64]*domain.Appointment{1: appointment(1, 100, domain.StatusBooked)}}
	s := newService(repo)

	t.Run("owner", func(t *testing.T) {
		resp, err := s.GetByID(context.Background(), 1, 100)
		require.NoError(t, err)
		assert.Equal(t, "BOOKED", resp.Status)
		require.NotNil(t, resp.PriceAtBook)
		assert.Equal(t, 40.0, *resp.PriceAtBook)
	})

	t.Run("other user", func(t *testing.T) {
		_, err := s.GetByID(context.Background(), 1, 200)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := s.GetByID(context.Background(), 2, 100)
		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})
}

func TestGetByID_RepositoryFailure(t *testing.T) {
	s := newService(&fakeRepo{getErr: errors.New("boom")})

	_, err := s.GetByID(context.Background(), 1, 100)

	assert.ErrorIs(t, err, ErrInternal)
}

func TestListCustomerUpcoming(t *testing.T) {
	repo := &fakeRepo{upcoming: []*domain.Appointment{
		appointment(1, 100, domain.StatusBooked),
		appointment(2, 100, domain.StatusConfirmed),
	}}
	s := newService(repo)

	resp, err := s.ListCustomerUpcoming(context.Background(), 100, 100)
	require.NoError(t, err)

	assert.Len(t, resp.Appointments, 2)
	assert.Equal(t, now, repo.gotFrom)
}

func TestListCustomerUpcoming_Empty(t *testing.T) {
	s := newService(&fakeRepo{})

	resp, err := s.ListCustomerUpcoming(context.Background(), 100, 100)
	require.NoError(t, err)

	assert.NotNil(t, resp.Appointments)
	assert.Empty(t, resp.Appointments)
}

func TestListCustomerUpcoming_OtherCustomer(t *testing.T) {
	s := newService(&fakeRepo{})

	_, err := s.ListCustomerUpcoming(context.Background(), 100, 200)

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCancel(t *testing.T) {
	tests := []struct {
		name    string
		appt    *domain.Appointment
		userID  int64
		wantErr error
	}{
		{name: "booked", appt: appointment(1, 100, domain.StatusBooked), userID: 100},
		{name: "pending", appt: appointment(1, 100, domain.StatusPending), userID: 100},
		{name: "confirmed", appt: appointment(1, 100, domain.StatusConfirmed), userID: 100},
		{name: "completed", appt: appointment(1, 100, domain.StatusCompleted), userID: 100, wantErr: ErrCannotCancel},
		{name: "already cancelled", appt: appointment(1, 100, domain.StatusCancelled), userID: 100, wantErr: ErrCannotCancel},
		{name: "in progress", appt: appointment(1, 100, domain.StatusInProgress), userID: 100, wantErr: ErrCannotCancel},
		{name: "foreign appointment", appt: appointment(1, 100, domain.StatusBooked), userID: 200, wantErr: ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{byID: map[int64]*domain.Appointment{1: tt.appt}}
			s := newService(repo)

			err := s.Cancel(context.Background(), 1, &models.CancelAppointmentRequest{UserID: tt.userID, CancellationReason: "sick"})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, repo.cancelled)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []int64{1}, repo.cancelled)
		})
	}
}
