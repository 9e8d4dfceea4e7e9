package timeblock

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

// Repository репозиторий ручных блокировок времени мастера
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория блокировок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает блокировку
func (r *Repository) Create(ctx context.Context, block *domain.TimeBlock) (*domain.TimeBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("time_blocks").
		Columns("employee_id", "salon_id", "start_at", "end_at", "reason").
		Values(block.EmployeeID, block.SalonID, block.StartAt.UTC(), block.EndAt.UTC(), block.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&block.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	block.CreatedAt = createdAt.Time.UTC()

	return block, nil
}

// List возвращает блокировки мастера, пересекающиеся с [from, to), по времени начала
func (r *Repository) List(ctx context.Context, employeeID int64, from, to time.Time) ([]*domain.TimeBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := blockQuery(ctx, employeeID, overlapping(from, to),
		"id", "employee_id", "salon_id", "start_at", "end_at", "reason", "created_at").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	blocks := make([]*domain.TimeBlock, 0)
	for rows.Next() {
		var b domain.TimeBlock
		var createdAt sql.NullTime
		if err := rows.Scan(&b.ID, &b.EmployeeID, &b.SalonID, &b.StartAt, &b.EndAt, &b.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		b.StartAt, b.EndAt = b.StartAt.UTC(), b.EndAt.UTC()
		b.CreatedAt = createdAt.Time.UTC()
		blocks = append(blocks, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return blocks, nil
}

// ListBusyIntervals возвращает блокировки мастера, целиком лежащие в [from, to], как занятые интервалы
func (r *Repository) ListBusyIntervals(ctx context.Context, employeeID int64, from, to time.Time) ([]domain.BusyInterval, error) {
	return r.busyIntervals(ctx, "ListBusyIntervals", blockQuery(ctx, employeeID, containedIn(from, to), "start_at", "end_at"))
}

// ListOverlappingIntervals возвращает блокировки мастера, пересекающиеся с [from, to)
// Многодневные блокировки (отпуск) тоже попадают в выборку. Внутри транзакции строки блокируются (FOR UPDATE)
func (r *Repository) ListOverlappingIntervals(ctx context.Context, employeeID int64, from, to time.Time) ([]domain.BusyInterval, error) {
	return r.busyIntervals(ctx, "ListOverlappingIntervals", blockQuery(ctx, employeeID, overlapping(from, to), "start_at", "end_at"))
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

func blockQuery(ctx context.Context, employeeID int64, window squirrel.Sqlizer, columns ...string) squirrel.SelectBuilder {
	selectBuilder := psqlbuilder.Select(columns...).
		From("time_blocks").
		Where(squirrel.Eq{"employee_id": employeeID}).
		Where(window).
		OrderBy("start_at ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	return selectBuilder
}

// containedIn блокировка целиком внутри [from, to]
func containedIn(from, to time.Time) squirrel.And {
	return squirrel.And{
		squirrel.GtOrEq{"start_at": from.UTC()},
		squirrel.LtOrEq{"end_at": to.UTC()},
	}
}

// overlapping блокировка пересекает [from, to)
func overlapping(from, to time.Time) squirrel.And {
	return squirrel.And{
		squirrel.Lt{"start_at": to.UTC()},
		squirrel.Gt{"end_at": from.UTC()},
	}
}
