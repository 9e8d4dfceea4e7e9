package payroll

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	employeeRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/employee"
	salonRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/salon"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeAppointments struct {
	entries []domain.PayrollEntry
	err     error
	filters []domain.AppointmentRangeFilter
}

func (f *fakeAppointments) ListPayrollEntries(_ context.Context, filter domain.AppointmentRangeFilter) ([]domain.PayrollEntry, error) {
	f.filters = append(f.filters, filter)
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.PayrollEntry
	for _, e := range f.entries {
		if !e.StartAt.Before(filter.From) && !e.StartAt.After(filter.To) {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeOrders struct {
	lines []decimal.Decimal
	err   error
}

func (f *fakeOrders) ListProductLineTotals(context.Context, int64, time.Time, time.Time) ([]decimal.Decimal, error) {
	return f.lines, f.err
}

type fakeEmployees struct{ err error }

func (f *fakeEmployees) GetByID(_ context.Context, id int64) (*domain.Employee, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Employee{ID: id, SalonID: 3}, nil
}

type fakeSalons struct{ err error }

func (f *fakeSalons) GetByID(_ context.Context, id int64) (*domain.Salon, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Salon{ID: id, Name: "Downtown"}, nil
}

type fixture struct {
	appointments *fakeAppointments
	orders       *fakeOrders
	employees    *fakeEmployees
	salons       *fakeSalons
}

func newFixture() *fixture {
	return &fixture{
		appointments: &fakeAppointments{},
		orders:       &fakeOrders{},
		employees:    &fakeEmployees{},
		salons:       &fakeSalons{},
	}
}

func (f *fixture) service(cfg Config, now time.Time) *Service {
	s := NewService(f.appointments, f.orders, f.employees, f.salons, cfg, nopLogger{})
	s.timeProvider = fixedTime{now: now}
	return s
}

// 2024-01-24 лежит в периоде 2024-01-21 .. 2024-02-03
var now = time.Date(2024, 1, 24, 15, 0, 0, 0, time.UTC)

func TestEmployeeCurrentPeriod(t *testing.T) {
	f := newFixture()
	f.appointments.entries = []domain.PayrollEntry{
		entry(time.Date(2024, 1, 21, 9, 0, 0, 0, time.UTC), 90, "60.00"),
		entry(time.Date(2024, 2, 3, 23, 0, 0, 0, time.UTC), 60, "40.00"),
		entry(time.Date(2024, 1, 20, 23, 59, 0, 0, time.UTC), 60, "999.00"),
	}

	resp, err := f.service(DefaultConfig(), now).EmployeeCurrentPeriod(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, "2024-01-21", resp.PeriodStart)
	assert.Equal(t, "2024-02-03", resp.PeriodEnd)
	assert.Equal(t, 2, resp.AppointmentCount)
	assert.Equal(t, 2.5, resp.TotalHours)
	assert.Equal(t, 100.0, resp.ServiceRevenue)
	assert.Equal(t, 70.0, resp.EmployeeEarnings)
	assert.Equal(t, 30.0, resp.SalonShare)
	assert.Nil(t, resp.ProductRevenue)
	require.NotNil(t, resp.EmployeeID)
	assert.Equal(t, int64(7), *resp.EmployeeID)

	require.Len(t, f.appointments.filters, 1)
	filter := f.appointments.filters[0]
	assert.Equal(t, []domain.AppointmentStatus{domain.StatusCompleted}, filter.Statuses)
	assert.Equal(t, time.Date(2024, 1, 21, 0, 0, 0, 0, time.UTC), filter.From)
	assert.Equal(t, time.Date(2024, 2, 3, 23, 59, 59, 999999000, time.UTC), filter.To)
}

func TestEmployeeCurrentPeriod_AllStatusesWhenListEmpty(t *testing.T) {
	f := newFixture()
	cfg := DefaultConfig()
	cfg.QualifyingStatuses = nil

	_, err := f.service(cfg, now).EmployeeCurrentPeriod(context.Background(), 7)
	require.NoError(t, err)

	assert.Empty(t, f.appointments.filters[0].Statuses)
}

func TestEmployeeCurrentPeriod_UsesConfiguredTimezone(t *testing.T) {
	f := newFixture()
	cfg := DefaultConfig()
	cfg.Location = time.FixedZone("UTC-5", -5*3600)

	// В UTC уже воскресенье 21-го, в UTC-5 ещё суббота 20-го
	resp, err := f.service(cfg, time.Date(2024, 1, 21, 2, 0, 0, 0, time.UTC)).EmployeeCurrentPeriod(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, "2024-01-07", resp.PeriodStart)

	// Границы периода берутся по местной полуночи
	require.Len(t, f.appointments.filters, 1)
	assert.Equal(t, time.Date(2024, 1, 7, 5, 0, 0, 0, time.UTC), f.appointments.filters[0].From)
	assert.Equal(t, time.Date(2024, 1, 21, 4, 59, 59, 999999000, time.UTC), f.appointments.filters[0].To)
}

func TestEmployeeCurrentPeriod_LocalEdges(t *testing.T) {
	f := newFixture()
	cfg := DefaultConfig()
	cfg.Location = time.FixedZone("UTC-5", -5*3600)
	f.appointments.entries = []domain.PayrollEntry{
		// 2024-01-06 22:00 по местному времени, прошлый период
		entry(time.Date(2024, 1, 7, 3, 0, 0, 0, time.UTC), 60, "100.00"),
		// 2024-01-20 23:00 по местному времени, текущий период
		entry(time.Date(2024, 1, 21, 4, 0, 0, 0, time.UTC), 60, "40.00"),
	}

	resp, err := f.service(cfg, time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)).EmployeeCurrentPeriod(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, 1, resp.AppointmentCount)
	assert.Equal(t, 40.0, resp.ServiceRevenue)
}

func TestEmployeeHistory(t *testing.T) {
	f := newFixture()

	resp, err := f.service(DefaultConfig(), now).EmployeeHistory(context.Background(), 7)
	require.NoError(t, err)

	require.Len(t, resp.Periods, 6)
	assert.Equal(t, "2024-01-21", resp.Periods[0].PeriodStart)
	assert.Equal(t, "2024-01-07", resp.Periods[1].PeriodStart)
	assert.Equal(t, "2023-12-24", resp.Periods[2].PeriodStart)
	assert.Equal(t, "2023-11-12", resp.Periods[5].PeriodStart)
	for i := 1; i < len(resp.Periods); i++ {
		prev, _ := time.Parse(domain.DateFormat, resp.Periods[i-1].PeriodStart)
		cur, _ := time.Parse(domain.DateFormat, resp.Periods[i].PeriodStart)
		assert.Equal(t, 14*24*time.Hour, prev.Sub(cur))
	}
}

func TestSalonCurrentPeriod_IncludesProducts(t *testing.T) {
	f := newFixture()
	f.appointments.entries = []domain.PayrollEntry{entry(time.Date(2024, 1, 22, 9, 0, 0, 0, time.UTC), 60, "")}
	f.orders.lines = []decimal.Decimal{decimal.RequireFromString("12.50"), decimal.RequireFromString("7.25")}

	resp, err := f.service(DefaultConfig(), now).SalonCurrentPeriod(context.Background(), 3)
	require.NoError(t, err)

	require.NotNil(t, resp.ProductRevenue)
	assert.Equal(t, 19.75, *resp.ProductRevenue)
	assert.Equal(t, 0.0, resp.ServiceRevenue)
	assert.Equal(t, 1.0, resp.TotalHours)
	require.NotNil(t, f.appointments.filters[0].SalonID)
	assert.Nil(t, f.appointments.filters[0].EmployeeID)
}

func TestSalonHistory(t *testing.T) {
	f := newFixture()

	resp, err := f.service(DefaultConfig(), now).SalonHistory(context.Background(), 3)
	require.NoError(t, err)

	assert.Len(t, resp.Periods, 6)
	assert.Len(t, f.appointments.filters, 6)
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(f *fixture)
		call    func(s *Service) error
		wantErr error
	}{
		{
			name:  "unknown employee",
			setup: func(f *fixture) { f.employees.err = employeeRepo.ErrEmployeeNotFound },
			call: func(s *Service) error {
				_, err := s.EmployeeCurrentPeriod(context.Background(), 7)
				return err
			},
			wantErr: ErrEmployeeNotFound,
		},
		{
			name:  "unknown salon",
			setup: func(f *fixture) { f.salons.err = salonRepo.ErrSalonNotFound },
			call: func(s *Service) error {
				_, err := s.SalonHistory(context.Background(), 3)
				return err
			},
			wantErr: ErrSalonNotFound,
		},
		{
			name:  "appointments failure",
			setup: func(f *fixture) { f.appointments.err = errors.New("timeout") },
			call: func(s *Service) error {
				_, err := s.EmployeeHistory(context.Background(), 7)
				return err
			},
			wantErr: ErrInternal,
		},
		{
			name:  "orders failure",
			setup: func(f *fixture) { f.orders.err = errors.New("timeout") },
			call: func(s *Service) error {
				_, err := s.SalonCurrentPeriod(context.Background(), 3)
				return err
			},
			wantErr: ErrInternal,
		},
		{
			name: "invalid id",
			call: func(s *Service) error {
				_, err := s.EmployeeCurrentPeriod(context.Background(), 0)
				return err
			},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			if tt.setup != nil {
				tt.setup(f)
			}

			err := tt.call(f.service(DefaultConfig(), now))

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseStatuses(t *testing.T) {
	got, err := ParseStatuses([]string{"completed", "BOOKED"})
	require.NoError(t, err)
	assert.Equal(t, []domain.AppointmentStatus{domain.StatusCompleted, domain.StatusBooked}, got)

	_, err = ParseStatuses([]string{"Finished"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
