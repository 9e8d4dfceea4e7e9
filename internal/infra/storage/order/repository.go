package order

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-SalonService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonService/pkg/psqlbuilder"
)

// ProductKind тип строки заказа для товаров
const ProductKind = "product"

// Repository репозиторий заказов салона
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория заказов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListProductLineTotals возвращает суммы строк заказов с товарами салона, созданных в [from, to]
// Суммирование и округление выполняет вызывающий код
func (r *Repository) ListProductLineTotals(ctx context.Context, salonID int64, from, to time.Time) ([]decimal.Decimal, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("oi.line_total").
		From("order_items oi").
		Join("orders o ON o.id = oi.order_id").
		Where(squirrel.Eq{"o.salon_id": salonID, "oi.kind": ProductKind}).
		Where(squirrel.GtOrEq{"o.created_at": from.UTC()}).
		Where(squirrel.LtOrEq{"o.created_at": to.UTC()}).
		OrderBy("o.created_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListProductLineTotals - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListProductLineTotals - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	totals := make([]decimal.Decimal, 0)
	for rows.Next() {
		var total decimal.Decimal
		if err := rows.Scan(&total); err != nil {
			return nil, fmt.Errorf("%w: ListProductLineTotals - scan row: %v", ErrScanRow, err)
		}
		totals = append(totals, total)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListProductLineTotals - rows error: %v", ErrScanRow, err)
	}

	return totals, nil
}
