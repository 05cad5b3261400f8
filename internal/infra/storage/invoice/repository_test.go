package invoice

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HomeService-Booking/internal/domain"
	"github.com/m04kA/HomeService-Booking/pkg/dbmetrics"
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	return NewRepository(dbmetrics.Wrap(sqlDB, nil)), mock
}

var issued = time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)

func TestCreate(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()
	due := issued.AddDate(0, 0, 14)

	mock.ExpectQuery(`INSERT INTO invoices`).
		WithArgs("INV-1A2B3C4D", int64(3), "user-1", int64(12000), "usd", "Unpaid", "2025-06-12", "2025-06-26").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(1), now, now))

	invoice, err := repo.Create(context.Background(), &domain.Invoice{
		InvoiceID:   "INV-1A2B3C4D",
		JobID:       3,
		UserID:      "user-1",
		AmountCents: 12000,
		Currency:    "usd",
		Status:      domain.InvoiceUnpaid,
		IssuedDate:  issued,
		DueDate:     &due,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), invoice.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_ConstraintErrors(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`INSERT INTO invoices`).WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectQuery(`INSERT INTO invoices`).WillReturnError(&pq.Error{Code: "23503"})

	_, err := repo.Create(context.Background(), &domain.Invoice{IssuedDate: issued})
	assert.ErrorIs(t, err, ErrDuplicateNumber)

	_, err = repo.Create(context.Background(), &domain.Invoice{IssuedDate: issued})
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestGetByInvoiceID(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT .* FROM invoices WHERE invoice_id = \$1`).
		WithArgs("INV-1A2B3C4D").
		WillReturnRows(sqlmock.NewRows(invoiceColumns).AddRow(
			int64(1), "INV-1A2B3C4D", int64(3), "user-1", int64(12000), "usd", "Unpaid",
			issued, nil, nil, now, now,
		))
	mock.ExpectQuery(`SELECT .* FROM invoices`).WillReturnError(sql.ErrNoRows)

	invoice, err := repo.GetByInvoiceID(context.Background(), "INV-1A2B3C4D")
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceUnpaid, invoice.Status)
	assert.Nil(t, invoice.PaidDate)

	_, err = repo.GetByInvoiceID(context.Background(), "INV-MISSING")
	assert.ErrorIs(t, err, ErrInvoiceNotFound)
}

func TestUpdateStatus(t *testing.T) {
	repo, mock := newRepo(t)
	paid := time.Date(2025, 6, 20, 15, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE invoices SET status = \$1, paid_date = \$2, updated_at = NOW\(\) WHERE invoice_id = \$3`).
		WithArgs("Paid", "2025-06-20", "INV-1A2B3C4D").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE invoices`).
		WithArgs("Overdue", nil, "INV-MISSING").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.UpdateStatus(context.Background(), "INV-1A2B3C4D", domain.InvoicePaid, &paid))
	assert.ErrorIs(t, repo.UpdateStatus(context.Background(), "INV-MISSING", domain.InvoiceOverdue, nil), ErrInvoiceNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
