package customer

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

// Repository хранит связь пользователя с клиентом платежного шлюза
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByUserID получает клиента шлюза для пользователя
func (r *Repository) GetByUserID(ctx context.Context, userID string) (*domain.PaymentCustomer, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("user_id", "customer_ref", "created_at").
		From("payment_customers").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	var c domain.PaymentCustomer
	err = executor.QueryRowContext(ctx, query, args...).Scan(&c.UserID, &c.CustomerRef, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, pgerr.Wrap(ErrExecQuery, "GetByUserID - execute query", err)
	}

	return &c, nil
}

// Create сохраняет клиента шлюза
// При гонке двух запросов одного пользователя побеждает первая запись,
// возвращается сохраненная версия
func (r *Repository) Create(ctx context.Context, customer *domain.PaymentCustomer) (*domain.PaymentCustomer, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("payment_customers").
		Columns("user_id", "customer_ref").
		Values(customer.UserID, customer.CustomerRef).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id RETURNING user_id, customer_ref, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var saved domain.PaymentCustomer
	err = executor.QueryRowContext(ctx, query, args...).Scan(&saved.UserID, &saved.CustomerRef, &saved.CreatedAt)
	if err != nil {
		return nil, pgerr.Wrap(ErrExecQuery, "Create - execute insert", err)
	}

	return &saved, nil
}
