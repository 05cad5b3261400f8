package update_invoice_status

import (
	"context"

	"github.com/m04kA/HomeService-Booking/internal/service/invoices/models"
)

type InvoiceService interface {
	UpdateStatus(ctx context.Context, invoiceID string, req *models.UpdateInvoiceStatusRequest) (*models.InvoiceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
