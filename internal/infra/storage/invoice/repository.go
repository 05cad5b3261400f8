package invoice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/HomeService-Booking/internal/domain"
	"github.com/m04kA/HomeService-Booking/pkg/dbmetrics"
	"github.com/m04kA/HomeService-Booking/pkg/pgerr"
	"github.com/m04kA/HomeService-Booking/pkg/psqlbuilder"
)

var invoiceColumns = []string{
	"id",
	"invoice_id",
	"job_id",
	"user_id",
	"amount_cents",
	"currency",
	"status",
	"issued_date",
	"due_date",
	"paid_date",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы со счетами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория счетов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает счет
func (r *Repository) Create(ctx context.Context, invoice *domain.Invoice) (*domain.Invoice, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("invoices").
		Columns(
			"invoice_id",
			"job_id",
			"user_id",
			"amount_cents",
			"currency",
			"status",
			"issued_date",
			"due_date",
		).
		Values(
			invoice.InvoiceID,
			invoice.JobID,
			invoice.UserID,
			invoice.AmountCents,
			invoice.Currency,
			invoice.Status,
			invoice.IssuedDate.Format(domain.DateFormat),
			formatDate(invoice.DueDate),
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&invoice.ID, &invoice.CreatedAt, &invoice.UpdatedAt)
	if err != nil {
		switch {
		case pgerr.IsUniqueViolation(err):
			return nil, fmt.Errorf("%w: %s", ErrDuplicateNumber, invoice.InvoiceID)
		case pgerr.IsForeignKeyViolation(err):
			return nil, fmt.Errorf("%w: job_id=%d", ErrJobNotFound, invoice.JobID)
		}
		return nil, pgerr.Wrap(ErrExecQuery, "Create - execute insert", err)
	}

	return invoice, nil
}

// GetByInvoiceID получает счет по номеру (INV-...)
func (r *Repository) GetByInvoiceID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(invoiceColumns...).
		From("invoices").
		Where(squirrel.Eq{"invoice_id": invoiceID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByInvoiceID - build select query: %v", ErrBuildQuery, err)
	}

	invoice, err := scanInvoice(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvoiceNotFound
	}
	if err != nil {
		return nil, pgerr.Wrap(ErrScanRow, "GetByInvoiceID - scan invoice", err)
	}

	return invoice, nil
}

// ListByUser получает счета пользователя, новые первыми
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]*domain.Invoice, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(invoiceColumns...).
		From("invoices").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("issued_date DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, pgerr.Wrap(ErrExecQuery, "ListByUser - execute query", err)
	}
	defer rows.Close()

	invoices := make([]*domain.Invoice, 0)
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, pgerr.Wrap(ErrScanRow, "ListByUser - scan row", err)
		}
		invoices = append(invoices, invoice)
	}
	if err := rows.Err(); err != nil {
		return nil, pgerr.Wrap(ErrScanRow, "ListByUser - rows error", err)
	}

	return invoices, nil
}

// UpdateStatus обновляет статус счета
// paidDate записывается только для статуса Paid, для остальных сбрасывается
func (r *Repository) UpdateStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus, paidDate *time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("invoices").
		Set("status", status).
		Set("paid_date", formatDate(paidDate)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"invoice_id": invoiceID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return pgerr.Wrap(ErrExecQuery, "UpdateStatus - execute update", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return pgerr.Wrap(ErrExecQuery, "UpdateStatus - get rows affected", err)
	}
	if rowsAffected == 0 {
		return ErrInvoiceNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanInvoice(row rowScanner) (*domain.Invoice, error) {
	var invoice domain.Invoice

	err := row.Scan(
		&invoice.ID,
		&invoice.InvoiceID,
		&invoice.JobID,
		&invoice.UserID,
		&invoice.AmountCents,
		&invoice.Currency,
		&invoice.Status,
		&invoice.IssuedDate,
		&invoice.DueDate,
		&invoice.PaidDate,
		&invoice.CreatedAt,
		&invoice.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &invoice, nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(domain.DateFormat)
	return &s
}
