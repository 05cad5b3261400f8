package get_invoices

import (
	"context"

	"github.com/m04kA/HomeService-Booking/internal/service/invoices/models"
)

type InvoiceService interface {
	ListForUser(ctx context.Context, userID string) (*models.InvoiceListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
