package create_appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	availabilityRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/availability"
	employeeRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/employee"
	salonRepo "github.com/m04kA/SMC-SalonService/internal/infra/storage/salon"
	"github.com/m04kA/SMC-SalonService/internal/integrations/notificationservice"
	"github.com/m04kA/SMC-SalonService/pkg/txmanager"
	"github.com/m04kA/SMC-SalonService/pkg/types"
)

var testDate = time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)

func at(hhmm string) time.Time {
	return types.MustTimeString(hhmm).On(testDate)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

// overlapping повторяет фильтр репозитория: интервал пересекает [from, to)
func overlapping(busy []domain.BusyInterval, from, to time.Time) []domain.BusyInterval {
	out := make([]domain.BusyInterval, 0, len(busy))
	for _, iv := range busy {
		if iv.Overlaps(from, to) {
			out = append(out, iv)
		}
	}
	return out
}

type fakeAppointments struct {
	busy      []domain.BusyInterval
	busyErr   error
	createErr error
	created   *domain.Appointment
	window    [2]time.Time
}

func (f *fakeAppointments) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	out := *appt
	out.ID = 101
	out.CreatedAt = at("08:00")
	f.created = &out
	return &out, nil
}

func (f *fakeAppointments) ListOverlappingIntervals(_ context.Context, _ int64, from, to time.Time) ([]domain.BusyInterval, error) {
	f.window = [2]time.Time{from, to}
	if f.busyErr != nil {
		return nil, f.busyErr
	}
	return overlapping(f.busy, from, to), nil
}

type fakeBlocks struct {
	busy   []domain.BusyInterval
	err    error
	window [2]time.Time
}

func (f *fakeBlocks) ListOverlappingIntervals(_ context.Context, _ int64, from, to time.Time) ([]domain.BusyInterval, error) {
	f.window = [2]time.Time{from, to}
	if f.err != nil {
		return nil, f.err
	}
	return overlapping(f.busy, from, to), nil
}

type fakeRules struct {
	rule *domain.WeeklyAvailabilityRule
	err  error
}

func (f *fakeRules) FindRule(context.Context, int64, time.Time) (*domain.WeeklyAvailabilityRule, error) {
	return f.rule, f.err
}

type fakeEmployees struct{ err error }

func (f *fakeEmployees) GetByID(_ context.Context, id int64) (*domain.Employee, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Employee{ID: id, SalonID: 3, FirstName: "Ann", LastName: "Lee"}, nil
}

type fakeSalons struct {
	service *domain.SalonService
	err     error
}

func (f *fakeSalons) GetService(context.Context, int64, int64) (*domain.SalonService, error) {
	return f.service, f.err
}

type fakeNotifier struct {
	events []*notificationservice.AppointmentBooked
	err    error
}

func (f *fakeNotifier) NotifyAppointmentBooked(_ context.Context, event *notificationservice.AppointmentBooked) error {
	f.events = append(f.events, event)
	return f.err
}

// fakeTx выполняет fn без БД и может имитировать ошибку фиксации
type fakeTx struct {
	commitErr error
	calls     int
}

func (f *fakeTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	if err := fn(ctx); err != nil {
		return err
	}
	return f.commitErr
}

type fixture struct {
	appointments *fakeAppointments
	blocks       *fakeBlocks
	rules        *fakeRules
	employees    *fakeEmployees
	salons       *fakeSalons
	notifier     *fakeNotifier
	tx           *fakeTx
	uc           *UseCase
}

func newFixture() *fixture {
	f := &fixture{
		appointments: &fakeAppointments{},
		blocks:       &fakeBlocks{},
		rules: &fakeRules{rule: &domain.WeeklyAvailabilityRule{
			ID:         1,
			EmployeeID: 7,
			Weekday:    domain.WeekdayIndex(testDate),
			StartTime:  types.NewNullTimeString(types.MustTimeString("09:00")),
			EndTime:    types.NewNullTimeString(types.MustTimeString("17:00")),
		}},
		employees: &fakeEmployees{},
		salons: &fakeSalons{service: &domain.SalonService{
			ID:              5,
			SalonID:         3,
			Name:            "Haircut",
			DurationMinutes: 60,
			Price:           decimal.NewNullDecimal(decimal.RequireFromString("45.50")),
		}},
		notifier: &fakeNotifier{},
		tx:       &fakeTx{},
	}
	f.uc = NewUseCase(f.appointments, f.blocks, f.rules, f.employees, f.salons, f.notifier, f.tx, nopLogger{})
	f.uc.timeProvider = fixedTime{now: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)}
	return f
}

func validRequest(start string) *Request {
	return &Request{
		CustomerID: 100,
		EmployeeID: 7,
		ServiceID:  5,
		Date:       testDate,
		StartTime:  types.MustTimeString(start),
	}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), validRequest("10:00"))
	require.NoError(t, err)

	assert.Equal(t, int64(101), resp.ID)
	assert.Equal(t, int64(3), resp.SalonID)
	assert.Equal(t, at("10:00"), resp.StartAt)
	assert.Equal(t, at("11:00"), resp.EndAt)
	assert.Equal(t, string(domain.StatusBooked), resp.Status)
	assert.Equal(t, "Haircut", resp.ServiceName)
	assert.True(t, resp.PriceAtBook.Decimal.Equal(decimal.RequireFromString("45.50")))
	assert.Equal(t, 1, f.tx.calls)

	assert.Equal(t, [2]time.Time{at("10:00"), at("11:00")}, f.appointments.window)
	assert.Equal(t, [2]time.Time{at("10:00"), at("11:00")}, f.blocks.window)

	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, int64(101), f.notifier.events[0].AppointmentID)
	assert.Equal(t, "Ann Lee", f.notifier.events[0].EmployeeName)
	assert.Equal(t, 60, f.notifier.events[0].DurationMinutes)
}

func TestExecute_TouchingNeighboursAllowed(t *testing.T) {
	f := newFixture()
	f.appointments.busy = []domain.BusyInterval{{Start: at("09:00"), End: at("10:00")}}
	f.blocks.busy = []domain.BusyInterval{{Start: at("11:00"), End: at("12:00")}}

	_, err := f.uc.Execute(context.Background(), validRequest("10:00"))

	assert.NoError(t, err)
}

func TestExecute_NotificationFailureDoesNotFail(t *testing.T) {
	f := newFixture()
	f.notifier.err = notificationservice.ErrUnavailable

	resp, err := f.uc.Execute(context.Background(), validRequest("10:00"))

	require.NoError(t, err)
	assert.NotNil(t, resp)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		req     *Request
		setup   func(f *fixture)
		wantErr error
	}{
		{
			name:    "missing customer",
			req:     &Request{EmployeeID: 7, ServiceID: 5, Date: testDate},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown employee",
			req:     validRequest("10:00"),
			setup:   func(f *fixture) { f.employees.err = employeeRepo.ErrEmployeeNotFound },
			wantErr: ErrEmployeeNotFound,
		},
		{
			name:    "unknown service",
			req:     validRequest("10:00"),
			setup:   func(f *fixture) { f.salons.service, f.salons.err = nil, salonRepo.ErrServiceNotFound },
			wantErr: ErrServiceNotFound,
		},
		{
			name:    "start in the past",
			req:     validRequest("10:00"),
			setup:   func(f *fixture) { f.uc.timeProvider = fixedTime{now: at("10:30")} },
			wantErr: ErrInvalidDate,
		},
		{
			name:    "no schedule rule",
			req:     validRequest("10:00"),
			setup:   func(f *fixture) { f.rules.rule, f.rules.err = nil, availabilityRepo.ErrRuleNotFound },
			wantErr: ErrEmployeeNotWorking,
		},
		{
			name: "day off",
			req:  validRequest("10:00"),
			setup: func(f *fixture) {
				f.rules.rule = &domain.WeeklyAvailabilityRule{Weekday: domain.WeekdayIndex(testDate)}
			},
			wantErr: ErrEmployeeNotWorking,
		},
		{
			name:    "runs past shift end",
			req:     validRequest("16:30"),
			wantErr: ErrOutsideWorkingHours,
		},
		{
			name:    "before shift start",
			req:     validRequest("08:45"),
			wantErr: ErrOutsideWorkingHours,
		},
		{
			name:    "off the slot grid",
			req:     validRequest("10:10"),
			wantErr: ErrInvalidTimeSlot,
		},
		{
			name: "overlaps appointment",
			req:  validRequest("10:00"),
			setup: func(f *fixture) {
				f.appointments.busy = []domain.BusyInterval{{Start: at("10:30"), End: at("11:30")}}
			},
			wantErr: ErrSlotNotAvailable,
		},
		{
			name: "overlaps time block",
			req:  validRequest("10:00"),
			setup: func(f *fixture) {
				f.blocks.busy = []domain.BusyInterval{{Start: at("09:30"), End: at("10:15")}}
			},
			wantErr: ErrSlotNotAvailable,
		},
		{
			name: "inside multi-day vacation",
			req:  validRequest("10:00"),
			setup: func(f *fixture) {
				f.blocks.busy = []domain.BusyInterval{{
					Start: time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC),
					End:   time.Date(2024, 3, 12, 20, 0, 0, 0, time.UTC),
				}}
			},
			wantErr: ErrSlotNotAvailable,
		},
		{
			name: "appointment crossing midnight",
			req:  validRequest("09:00"),
			setup: func(f *fixture) {
				f.appointments.busy = []domain.BusyInterval{{
					Start: time.Date(2024, 3, 10, 22, 0, 0, 0, time.UTC),
					End:   at("09:30"),
				}}
			},
			wantErr: ErrSlotNotAvailable,
		},
		{
			name:    "serialization failure on insert",
			req:     validRequest("10:00"),
			setup:   func(f *fixture) { f.appointments.createErr = &pq.Error{Code: "40001"} },
			wantErr: ErrSlotNotAvailable,
		},
		{
			name:    "serialization failure on commit",
			req:     validRequest("10:00"),
			setup:   func(f *fixture) { f.tx.commitErr = txmanager.ErrSerialization },
			wantErr: ErrSlotNotAvailable,
		},
		{
			name:    "repository failure",
			req:     validRequest("10:00"),
			setup:   func(f *fixture) { f.appointments.busyErr = errors.New("connection reset") },
			wantErr: ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			if tt.setup != nil {
				tt.setup(f)
			}

			resp, err := f.uc.Execute(context.Background(), tt.req)

			assert.Nil(t, resp)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.notifier.events)
		})
	}
}
