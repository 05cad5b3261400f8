package job

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/HomeService-Booking/internal/domain"
	"github.com/m04kA/HomeService-Booking/pkg/dbmetrics"
	"github.com/m04kA/HomeService-Booking/pkg/pgerr"
	"github.com/m04kA/HomeService-Booking/pkg/psqlbuilder"
)

var jobColumns = []string{
	"id",
	"booking_id",
	"user_id",
	"helper_id",
	"appointment_date",
	"appointment_time_slot",
	"appointment_timestamp",
	"location",
	"issue_description",
	"status",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с заданиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория заданий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает задание для бронирования
// Для одного бронирования допускается только одно задание (ErrJobExists)
func (r *Repository) Create(ctx context.Context, job *domain.Job) (*domain.Job, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("jobs").
		Columns(
			"booking_id",
			"user_id",
			"helper_id",
			"appointment_date",
			"appointment_time_slot",
			"appointment_timestamp",
			"location",
			"issue_description",
			"status",
		).
		Values(
			job.BookingID,
			job.UserID,
			job.HelperID,
			job.AppointmentDate.Format(domain.DateFormat),
			job.AppointmentTimeSlot,
			job.AppointmentTimestamp,
			job.Location,
			job.IssueDescription,
			job.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return nil, wrapExecError("Create - execute insert", err)
	}

	return job, nil
}

// GetByID получает задание по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Job, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

// GetByBookingID получает задание по ID бронирования
func (r *Repository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.Job, error) {
	return r.getOne(ctx, "GetByBookingID", squirrel.Eq{"booking_id": bookingID})
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Eq) (*domain.Job, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(jobColumns...).
		From("jobs").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	job, err := scanJob(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, pgerr.Wrap(ErrScanRow, op+" - scan job", err)
	}

	return job, nil
}

// ListByUser получает задания пользователя, ближайшие визиты первыми
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]*domain.Job, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(jobColumns...).
		From("jobs").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("appointment_timestamp DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapExecError("ListByUser - execute query", err)
	}
	defer rows.Close()

	jobs := make([]*domain.Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, pgerr.Wrap(ErrScanRow, "ListByUser - scan row", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, pgerr.Wrap(ErrScanRow, "ListByUser - rows error", err)
	}

	return jobs, nil
}

// UpdateAssignment обновляет исполнителя и статус задания
// nil в helperID или status означает "не менять"
func (r *Repository) UpdateAssignment(ctx context.Context, id int64, helperID *string, status *domain.JobStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("jobs").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if helperID != nil {
		updateBuilder = updateBuilder.Set("helper_id", *helperID)
	}
	if status != nil {
		updateBuilder = updateBuilder.Set("status", *status)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateAssignment - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return wrapExecError("UpdateAssignment - execute update", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return pgerr.Wrap(ErrExecQuery, "UpdateAssignment - get rows affected", err)
	}
	if rowsAffected == 0 {
		return ErrJobNotFound
	}

	return nil
}

// CancelByBookingID переводит задание бронирования в Cancelled
// Отсутствие задания не считается ошибкой: задание могло не создаться
func (r *Repository) CancelByBookingID(ctx context.Context, bookingID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("jobs").
		Set("status", domain.JobCancelled).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"booking_id": bookingID}).
		Where(squirrel.NotEq{"status": domain.JobCompleted}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: CancelByBookingID - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return wrapExecError("CancelByBookingID - execute update", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row rowScanner) (*domain.Job, error) {
	var job domain.Job

	err := row.Scan(
		&job.ID,
		&job.BookingID,
		&job.UserID,
		&job.HelperID,
		&job.AppointmentDate,
		&job.AppointmentTimeSlot,
		&job.AppointmentTimestamp,
		&job.Location,
		&job.IssueDescription,
		&job.Status,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &job, nil
}

func wrapExecError(op string, err error) error {
	switch {
	case pgerr.IsUniqueViolation(err):
		return fmt.Errorf("%w: %s: %v", ErrJobExists, op, err)
	case pgerr.IsSerializationFailure(err):
		return fmt.Errorf("%w: %s: %w", ErrSerialization, op, err)
	default:
		return pgerr.Wrap(ErrExecQuery, op, err)
	}
}
