package booking

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

// activeSlotIndex уникальный индекс (selected_date, selected_time) среди неотменённых бронирований
const activeSlotIndex = "idx_bookings_active_slot"

var bookingColumns = []string{
	"id",
	"user_id",
	"selected_date",
	"selected_time",
	"address",
	"issue_description",
	"arrival_instructions",
	"payment_intent_ref",
	"amount_cents",
	"currency",
	"status",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция, использует её.
// Нарушение уникального индекса (date, time) среди активных бронирований -> ErrSlotNotAvailable
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"user_id",
			"selected_date",
			"selected_time",
			"address",
			"issue_description",
			"arrival_instructions",
			"payment_intent_ref",
			"amount_cents",
			"currency",
			"status",
		).
		Values(
			booking.UserID,
			booking.SelectedDate.Format(domain.DateFormat),
			booking.SelectedTime,
			booking.Address,
			booking.IssueDescription,
			booking.ArrivalInstructions,
			booking.PaymentIntentRef,
			booking.AmountCents,
			booking.Currency,
			booking.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, wrapExecError("Create - execute insert", err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, pgerr.Wrap(ErrScanRow, "GetByID - scan booking", err)
	}

	return booking, nil
}

// List получает бронирования по фильтру
//
// Примеры:
//
//  1. История пользователя: domain.BookingsFilter{UserID: &userID, IncludeCancelled: true}
//  2. Активные бронирования на дату: domain.BookingsFilter{Date: &date}
//
// Для фильтра по дате внутри транзакции строки блокируются (FOR UPDATE),
// это используется при фиксации нового бронирования
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).From("bookings")

	if filter.UserID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"user_id": *filter.UserID})
	}
	// DATE передается строкой: иначе lib/pq отправит timestamptz и дата сдвинется по TimeZone сессии
	if filter.Date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"selected_date": filter.Date.Format(domain.DateFormat)})
	}

	// Фильтрация по статусу
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": domain.StatusCancelled})
	}

	if filter.Date != nil {
		selectBuilder = selectBuilder.OrderBy("selected_time ASC", "id ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("selected_date DESC", "id DESC")
	}

	if dbmetrics.IsInTransaction(ctx) && filter.Date != nil {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapExecError("List - execute query", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// LockDate берет advisory-блокировку на дату до конца транзакции
// Сериализует фиксацию бронирований на одну дату, включая случай пустой даты,
// когда FOR UPDATE нечего блокировать
func (r *Repository) LockDate(ctx context.Context, date time.Time) error {
	tx, ok := dbmetrics.GetTx(ctx)
	if !ok {
		return fmt.Errorf("%w: LockDate", ErrTransaction)
	}

	_, err := tx.ExecContext(ctx,
		"SELECT pg_advisory_xact_lock(hashtext($1))",
		"bookings:"+date.Format(domain.DateFormat),
	)
	if err != nil {
		return wrapExecError("LockDate - execute lock", err)
	}

	return nil
}

// UpdateStatusFrom переводит бронирование из статуса from в статус to
// Если бронирование уже не в статусе from, возвращает ErrInvalidStatus
func (r *Repository) UpdateStatusFrom(ctx context.Context, id int64, from, to domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatusFrom - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapExecError("UpdateStatusFrom - execute update", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return pgerr.Wrap(ErrExecQuery, "UpdateStatusFrom - get rows affected", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: booking id=%d is not %s", ErrInvalidStatus, id, from)
	}

	return nil
}

// Cancel отменяет бронирование с указанием причины
// Отменить можно только бронирование в нетерминальном статусе
func (r *Repository) Cancel(ctx context.Context, id int64, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.NotEq{"status": []string{
			string(domain.StatusCancelled),
			string(domain.StatusPaymentCaptured),
		}}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapExecError("Cancel - execute update", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return pgerr.Wrap(ErrExecQuery, "Cancel - get rows affected", err)
	}

	if rowsAffected == 0 {
		return ErrCannotCancel
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking

	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.SelectedDate,
		&booking.SelectedTime,
		&booking.Address,
		&booking.IssueDescription,
		&booking.ArrivalInstructions,
		&booking.PaymentIntentRef,
		&booking.AmountCents,
		&booking.Currency,
		&booking.Status,
		&booking.CancellationReason,
		&booking.CancelledAt,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, pgerr.Wrap(ErrScanRow, "scanBookings - scan row", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, pgerr.Wrap(ErrScanRow, "scanBookings - rows error", err)
	}

	return bookings, nil
}

// wrapExecError классифицирует ошибку PostgreSQL
// Ошибка сериализации оборачивается через %w, чтобы её увидел txmanager
func wrapExecError(op string, err error) error {
	switch {
	case pgerr.IsUniqueViolation(err) && pgerr.Constraint(err) == activeSlotIndex:
		return fmt.Errorf("%w: %s: %v", ErrSlotNotAvailable, op, err)
	case pgerr.IsSerializationFailure(err):
		return fmt.Errorf("%w: %s: %w", ErrSerialization, op, err)
	default:
		return pgerr.Wrap(ErrExecQuery, op, err)
	}
}
