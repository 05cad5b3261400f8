package support

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/HomeService-Booking/internal/domain"
	"github.com/m04kA/HomeService-Booking/pkg/dbmetrics"
	"github.com/m04kA/HomeService-Booking/pkg/pgerr"
	"github.com/m04kA/HomeService-Booking/pkg/psqlbuilder"
)

// Repository репозиторий обращений в поддержку
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория обращений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет обращение
func (r *Repository) Create(ctx context.Context, ticket *domain.SupportTicket) (*domain.SupportTicket, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("support_tickets").
		Columns("job_id", "user_id", "enquiry_text", "contact_email").
		Values(ticket.JobID, ticket.UserID, ticket.EnquiryText, ticket.ContactEmail).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&ticket.ID, &ticket.CreatedAt)
	if err != nil {
		if pgerr.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: job_id=%d", ErrJobNotFound, ticket.JobID)
		}
		return nil, pgerr.Wrap(ErrExecQuery, "Create - execute insert", err)
	}

	return ticket, nil
}

// ListByUser получает обращения пользователя, новые первыми
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]*domain.SupportTicket, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "job_id", "user_id", "enquiry_text", "contact_email", "created_at").
		From("support_tickets").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByUser - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, pgerr.Wrap(ErrExecQuery, "ListByUser - execute query", err)
	}
	defer rows.Close()

	tickets := make([]*domain.SupportTicket, 0)
	for rows.Next() {
		var t domain.SupportTicket
		if err := rows.Scan(&t.ID, &t.JobID, &t.UserID, &t.EnquiryText, &t.ContactEmail, &t.CreatedAt); err != nil {
			return nil, pgerr.Wrap(ErrScanRow, "ListByUser - scan row", err)
		}
		tickets = append(tickets, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, pgerr.Wrap(ErrScanRow, "ListByUser - rows error", err)
	}

	return tickets, nil
}
