package availability

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

var ruleColumns = []string{
	"id",
	"employee_id",
	"weekday",
	"start_time",
	"end_time",
	"effective_from",
	"effective_to",
}

// Repository репозиторий недельного расписания мастеров
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// FindRule ищет правило расписания мастера, действующее на дату
// Условия: совпадает день недели, effective_from <= date, effective_to пустой или >= date.
// Если подходит несколько правил, берётся самое позднее по effective_from
func (r *Repository) FindRule(ctx context.Context, employeeID int64, date time.Time) (*domain.WeeklyAvailabilityRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := findRuleQuery(employeeID, date).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindRule - build select query: %v", ErrBuildQuery, err)
	}

	rule, err := scanRule(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindRule - scan rule: %v", ErrScanRow, err)
	}

	return rule, nil
}

func findRuleQuery(employeeID int64, date time.Time) squirrel.SelectBuilder {
	day := date.Format(domain.DateFormat)

	return psqlbuilder.Select(ruleColumns...).
		From("employee_availability").
		Where(squirrel.Eq{"employee_id": employeeID}).
		Where(squirrel.Eq{"weekday": domain.WeekdayIndex(date)}).
		Where(squirrel.LtOrEq{"effective_from": day}).
		Where(squirrel.Or{
			squirrel.Eq{"effective_to": nil},
			squirrel.GtOrEq{"effective_to": day},
		}).
		OrderBy("effective_from DESC", "id DESC").
		Limit(1)
}

// ListRules возвращает все правила мастера, упорядоченные по дню недели и дате начала действия
func (r *Repository) ListRules(ctx context.Context, employeeID int64) ([]*domain.WeeklyAvailabilityRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(ruleColumns...).
		From("employee_availability").
		Where(squirrel.Eq{"employee_id": employeeID}).
		OrderBy("weekday ASC", "effective_from DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListRules - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListRules - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	rules := make([]*domain.WeeklyAvailabilityRule, 0)
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListRules - scan row: %v", ErrScanRow, err)
		}
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListRules - rows error: %v", ErrScanRow, err)
	}

	return rules, nil
}

// ReplaceRules удаляет все правила мастера и создает новые
// Должен вызываться внутри транзакции, иначе при ошибке вставки расписание останется пустым
func (r *Repository) ReplaceRules(ctx context.Context, employeeID int64, rules []*domain.WeeklyAvailabilityRule) ([]*domain.WeeklyAvailabilityRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("employee_availability").
		Where(squirrel.Eq{"employee_id": employeeID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ReplaceRules - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: ReplaceRules - execute delete: %v", ErrExecQuery, err)
	}

	for _, rule := range rules {
		var effectiveTo interface{}
		if rule.EffectiveTo != nil {
			effectiveTo = rule.EffectiveTo.Format(domain.DateFormat)
		}

		query, args, err := psqlbuilder.Insert("employee_availability").
			Columns("employee_id", "weekday", "start_time", "end_time", "effective_from", "effective_to").
			Values(
				employeeID,
				rule.Weekday,
				rule.StartTime,
				rule.EndTime,
				rule.EffectiveFrom.Format(domain.DateFormat),
				effectiveTo,
			).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("%w: ReplaceRules - build insert query: %v", ErrBuildQuery, err)
		}

		if err := executor.QueryRowContext(ctx, query, args...).Scan(&rule.ID); err != nil {
			return nil, fmt.Errorf("%w: ReplaceRules - execute insert: %v", ErrExecQuery, err)
		}
		rule.EmployeeID = employeeID
	}

	return rules, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRule(row rowScanner) (*domain.WeeklyAvailabilityRule, error) {
	var rule domain.WeeklyAvailabilityRule
	var effectiveTo sql.NullTime

	err := row.Scan(
		&rule.ID,
		&rule.EmployeeID,
		&rule.Weekday,
		&rule.StartTime,
		&rule.EndTime,
		&rule.EffectiveFrom,
		&effectiveTo,
	)
	if err != nil {
		return nil, err
	}

	rule.EffectiveFrom = rule.EffectiveFrom.UTC()
	if effectiveTo.Valid {
		t := effectiveTo.Time.UTC()
		rule.EffectiveTo = &t
	}

	return &rule, nil
}
