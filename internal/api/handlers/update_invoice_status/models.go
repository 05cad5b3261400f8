package update_invoice_status

import (
	"github.com/m04kA/HomeService-Booking/internal/service/invoices/models"
)

// UpdateInvoiceStatusRequest HTTP request model
type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Unpaid Paid Overdue Cancelled"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateInvoiceStatusRequest) ToServiceRequest() *models.UpdateInvoiceStatusRequest {
	return &models.UpdateInvoiceStatusRequest{Status: r.Status}
}
