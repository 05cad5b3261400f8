package reconciliation

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/HomeService-Booking/internal/domain"
	"github.com/m04kA/HomeService-Booking/pkg/dbmetrics"
	"github.com/m04kA/HomeService-Booking/pkg/pgerr"
	"github.com/m04kA/HomeService-Booking/pkg/psqlbuilder"
)

var caseColumns = []string{
	"id",
	"payment_intent_ref",
	"user_id",
	"selected_date",
	"selected_time",
	"stage",
	"reason",
	"hold_released",
	"status",
	"created_at",
}

// Repository журнал расхождений между шлюзом и базой
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create записывает случай для ручного разбора
// Вызывается вне транзакции бронирования: та уже откатилась
func (r *Repository) Create(ctx context.Context, c *domain.ReconciliationCase) (*domain.ReconciliationCase, error) {
	query, args, err := psqlbuilder.Insert("reconciliation_cases").
		Columns(
			"payment_intent_ref",
			"user_id",
			"selected_date",
			"selected_time",
			"stage",
			"reason",
			"hold_released",
			"status",
		).
		Values(
			c.PaymentIntentRef,
			c.UserID,
			c.SelectedDate.Format(domain.DateFormat),
			c.SelectedTime,
			c.Stage,
			c.Reason,
			c.HoldReleased,
			domain.ReconciliationOpen,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.CreatedAt); err != nil {
		return nil, pgerr.Wrap(ErrExecQuery, "Create - execute insert", err)
	}
	c.Status = domain.ReconciliationOpen

	return c, nil
}

// ListOpen получает неразобранные случаи, старые первыми
func (r *Repository) ListOpen(ctx context.Context) ([]*domain.ReconciliationCase, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(caseColumns...).
		From("reconciliation_cases").
		Where(squirrel.Eq{"status": domain.ReconciliationOpen}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListOpen - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, pgerr.Wrap(ErrExecQuery, "ListOpen - execute query", err)
	}
	defer rows.Close()

	cases := make([]*domain.ReconciliationCase, 0)
	for rows.Next() {
		var c domain.ReconciliationCase
		err := rows.Scan(
			&c.ID,
			&c.PaymentIntentRef,
			&c.UserID,
			&c.SelectedDate,
			&c.SelectedTime,
			&c.Stage,
			&c.Reason,
			&c.HoldReleased,
			&c.Status,
			&c.CreatedAt,
		)
		if err != nil {
			return nil, pgerr.Wrap(ErrScanRow, "ListOpen - scan row", err)
		}
		cases = append(cases, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, pgerr.Wrap(ErrScanRow, "ListOpen - rows error", err)
	}

	return cases, nil
}
