package create_invoice

import (
	"github.com/m04kA/HomeService-Booking/internal/service/invoices/models"
)

// CreateInvoiceRequest HTTP request model
type CreateInvoiceRequest struct {
	JobID    int64   `json:"jobId" validate:"required,gt=0"`
	Amount   string  `json:"amount" validate:"required"` // "120.00"
	Currency string  `json:"currency,omitempty" validate:"omitempty,len=3,lowercase"`
	DueDate  *string `json:"dueDate,omitempty" validate:"omitempty,date"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CreateInvoiceRequest) ToServiceRequest() *models.CreateInvoiceRequest {
	return &models.CreateInvoiceRequest{
		JobID:    r.JobID,
		Amount:   r.Amount,
		Currency: r.Currency,
		DueDate:  r.DueDate,
	}
}
