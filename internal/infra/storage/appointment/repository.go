package appointment

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonService/pkg/psqlbuilder"
)

var appointmentColumns = []string{
	"a.id",
	"a.salon_id",
	"a.customer_id",
	"a.employee_id",
	"a.service_id",
	"a.start_at",
	"a.end_at",
	"a.status",
	"a.price_at_book",
	"a.notes",
	"a.cancellation_reason",
	"a.cancelled_at",
	"a.created_at",
	"a.updated_at",
}

// Repository репозиторий для работы с записями клиентов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись
// Если в контексте передана транзакция, запрос выполняется в ней
// (создание записи всегда идёт вместе с проверкой пересечений в одной SERIALIZABLE транзакции)
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"salon_id",
			"customer_id",
			"employee_id",
			"service_id",
			"start_at",
			"end_at",
			"status",
			"price_at_book",
			"notes",
		).
		Values(
			appt.SalonID,
			appt.CustomerID,
			appt.EmployeeID,
			appt.ServiceID,
			appt.StartAt.UTC(),
			appt.EndAt.UTC(),
			appt.Status,
			appt.PriceAtBook,
			appt.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&appt.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	appt.CreatedAt = createdAt.Time.UTC()
	appt.UpdatedAt = updatedAt.Time.UTC()

	return appt, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments a").
		Where(squirrel.Eq{"a.id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appt, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return appt, nil
}

// GetUpcomingByCustomer получает будущие записи клиента, занимающие время мастера
// Отсортированы по времени начала (ближайшие первыми)
func (r *Repository) GetUpcomingByCustomer(ctx context.Context, customerID int64, from time.Time) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments a").
		Where(squirrel.Eq{"a.customer_id": customerID}).
		Where(squirrel.GtOrEq{"a.start_at": from.UTC()}).
		Where(squirrel.Eq{"a.status": domain.StatusStrings(domain.BlockingStatuses)}).
		OrderBy("a.start_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetUpcomingByCustomer - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetUpcomingByCustomer - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// Cancel отменяет запись с указанием причины
func (r *Repository) Cancel(ctx context.Context, id int64, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// ListBusyIntervals возвращает интервалы записей мастера, которые занимают его время в [from, to]
// Учитываются только записи, целиком лежащие внутри окна.
func (r *Repository) ListBusyIntervals(ctx context.Context, employeeID int64, from, to time.Time) ([]domain.BusyInterval, error) {
	return r.busyIntervals(ctx, "ListBusyIntervals", busyQuery(ctx, employeeID, containedIn(from, to)))
}

// ListOverlappingIntervals возвращает записи мастера, пересекающиеся с [from, to)
// Внутри транзакции строки блокируются (FOR UPDATE), чтобы параллельное бронирование
// того же мастера ждало или получало конфликт сериализации
func (r *Repository) ListOverlappingIntervals(ctx context.Context, employeeID int64, from, to time.Time) ([]domain.BusyInterval, error) {
	return r.busyIntervals(ctx, "ListOverlappingIntervals", busyQuery(ctx, employeeID, overlapping(from, to)))
}

func (r *Repository) busyIntervals(ctx context.Context, op string, selectBuilder squirrel.SelectBuilder) ([]domain.BusyInterval, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	intervals := make([]domain.BusyInterval, 0)
	for rows.Next() {
		var iv domain.BusyInterval
		if err := rows.Scan(&iv.Start, &iv.End); err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		iv.Start, iv.End = iv.Start.UTC(), iv.End.UTC()
		intervals = append(intervals, iv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return intervals, nil
}

func busyQuery(ctx context.Context, employeeID int64, window squirrel.Sqlizer) squirrel.SelectBuilder {
	selectBuilder := psqlbuilder.Select("start_at", "end_at").
		From("appointments").
		Where(squirrel.Eq{"employee_id": employeeID}).
		Where(squirrel.Eq{"status": domain.StatusStrings(domain.BlockingStatuses)}).
		Where(window).
		OrderBy("start_at ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	return selectBuilder
}

// containedIn интервал целиком внутри [from, to]
func containedIn(from, to time.Time) squirrel.And {
	return squirrel.And{
		squirrel.GtOrEq{"start_at": from.UTC()},
		squirrel.LtOrEq{"end_at": to.UTC()},
	}
}

// overlapping интервал пересекает [from, to)
func overlapping(from, to time.Time) squirrel.And {
	return squirrel.And{
		squirrel.Lt{"start_at": to.UTC()},
		squirrel.Gt{"end_at": from.UTC()},
	}
}

// ListPayrollEntries возвращает записи мастера или салона, начавшиеся в [From, To]
// Для салона выборка идёт через мастеров салона.
// Пустой список статусов означает отсутствие фильтра по статусу
func (r *Repository) ListPayrollEntries(ctx context.Context, filter domain.AppointmentRangeFilter) ([]domain.PayrollEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("a.start_at", "a.end_at", "a.price_at_book").
		From("appointments a").
		Where(squirrel.GtOrEq{"a.start_at": filter.From.UTC()}).
		Where(squirrel.LtOrEq{"a.start_at": filter.To.UTC()}).
		OrderBy("a.start_at ASC")

	switch {
	case filter.EmployeeID != nil:
		selectBuilder = selectBuilder.Where(squirrel.Eq{"a.employee_id": *filter.EmployeeID})
	case filter.SalonID != nil:
		selectBuilder = selectBuilder.
			Join("employees e ON e.id = a.employee_id").
			Where(squirrel.Eq{"e.salon_id": *filter.SalonID})
	default:
		return nil, ErrInvalidFilter
	}

	if len(filter.Statuses) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"a.status": domain.StatusStrings(filter.Statuses)})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListPayrollEntries - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListPayrollEntries - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]domain.PayrollEntry, 0)
	for rows.Next() {
		var e domain.PayrollEntry
		if err := rows.Scan(&e.StartAt, &e.EndAt, &e.Price); err != nil {
			return nil, fmt.Errorf("%w: ListPayrollEntries - scan row: %v", ErrScanRow, err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListPayrollEntries - rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}

// CompleteEnded переводит завершившиеся активные записи в COMPLETED
// Возвращает количество обновлённых строк. Повторный вызов безопасен
func (r *Repository) CompleteEnded(ctx context.Context, now time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", domain.StatusCompleted).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"status": domain.StatusStrings(domain.ActiveStatuses)}).
		Where(squirrel.LtOrEq{"end_at": now.UTC()}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CompleteEnded - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: CompleteEnded - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: CompleteEnded - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var appt domain.Appointment
	var notes, reason sql.NullString
	var cancelledAt, createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&appt.ID,
		&appt.SalonID,
		&appt.CustomerID,
		&appt.EmployeeID,
		&appt.ServiceID,
		&appt.StartAt,
		&appt.EndAt,
		&appt.Status,
		&appt.PriceAtBook,
		&notes,
		&reason,
		&cancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	appt.StartAt = appt.StartAt.UTC()
	appt.EndAt = appt.EndAt.UTC()
	if notes.Valid {
		appt.Notes = &notes.String
	}
	if reason.Valid {
		appt.CancellationReason = &reason.String
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time.UTC()
		appt.CancelledAt = &t
	}
	appt.CreatedAt = createdAt.Time.UTC()
	appt.UpdatedAt = updatedAt.Time.UTC()

	return &appt, nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}
