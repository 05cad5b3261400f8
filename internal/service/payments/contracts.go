package payments

import (
	"context"

	"github.com/m04kA/HomeService-Booking/internal/domain"
)

// CustomerRepository связь пользователя с клиентом платежного шлюза
type CustomerRepository interface {
	GetByUserID(ctx context.Context, userID string) (*domain.PaymentCustomer, error)
	Create(ctx context.Context, customer *domain.PaymentCustomer) (*domain.PaymentCustomer, error)
}

// PaymentGateway операции шлюза с клиентами и картами
type PaymentGateway interface {
	CreateCustomer(ctx context.Context, userID, idempotencyKey string) (string, error)
	ListPaymentMethods(ctx context.Context, customerRef string) ([]domain.PaymentMethod, error)
	AttachPaymentMethod(ctx context.Context, customerRef, paymentMethodID string) (*domain.PaymentMethod, error)
	DetachPaymentMethod(ctx context.Context, customerRef, paymentMethodID string) error
	SetDefaultPaymentMethod(ctx context.Context, customerRef, paymentMethodID string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
