package payment_methods

import (
	"context"

	"github.com/m04kA/HomeService-Booking/internal/service/payments/models"
)

type PaymentService interface {
	List(ctx context.Context, userID string) (*models.PaymentMethodListResponse, error)
	Add(ctx context.Context, req *models.AddPaymentMethodRequest) (*models.PaymentMethodResponse, error)
	Remove(ctx context.Context, userID, paymentMethodID string) error
	SetDefault(ctx context.Context, userID, paymentMethodID string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
