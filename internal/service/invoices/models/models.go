package models

import (
	"time"

	"github.com/m04kA/HomeService-Booking/internal/domain"
	"github.com/m04kA/HomeService-Booking/pkg/money"
)

// CreateInvoiceRequest запрос администратора на выставление счета
type CreateInvoiceRequest struct {
	JobID    int64   `json:"jobId"`
	Amount   string  `json:"amount"` // "120.00"
	Currency string  `json:"currency,omitempty"`
	DueDate  *string `json:"dueDate,omitempty"` // "2025-07-01"
}

// UpdateInvoiceStatusRequest запрос на смену статуса счета
type UpdateInvoiceStatusRequest struct {
	Status string `json:"status"`
}

// InvoiceResponse ответ с данными счета
type InvoiceResponse struct {
	InvoiceID  string    `json:"invoiceId"`
	JobID      int64     `json:"jobId"`
	UserID     string    `json:"userId"`
	Amount     string    `json:"amount"`
	Currency   string    `json:"currency"`
	Status     string    `json:"status"`
	IssuedDate string    `json:"issuedDate"`
	DueDate    *string   `json:"dueDate,omitempty"`
	PaidDate   *string   `json:"paidDate,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// InvoiceListResponse ответ со списком счетов
type InvoiceListResponse struct {
	Invoices []InvoiceResponse `json:"invoices"`
}

// FromDomainInvoice конвертирует domain модель в DTO
func FromDomainInvoice(i *domain.Invoice) *InvoiceResponse {
	if i == nil {
		return nil
	}

	return &InvoiceResponse{
		InvoiceID:  i.InvoiceID,
		JobID:      i.JobID,
		UserID:     i.UserID,
		Amount:     money.FormatCents(i.AmountCents),
		Currency:   i.Currency,
		Status:     string(i.Status),
		IssuedDate: i.IssuedDate.Format(domain.DateFormat),
		DueDate:    formatDate(i.DueDate),
		PaidDate:   formatDate(i.PaidDate),
		CreatedAt:  i.CreatedAt,
		UpdatedAt:  i.UpdatedAt,
	}
}

// FromDomainInvoiceList конвертирует список domain моделей в DTO
func FromDomainInvoiceList(invoices []*domain.Invoice) *InvoiceListResponse {
	resp := &InvoiceListResponse{Invoices: make([]InvoiceResponse, 0, len(invoices))}
	for _, i := range invoices {
		resp.Invoices = append(resp.Invoices, *FromDomainInvoice(i))
	}
	return resp
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(domain.DateFormat)
	return &s
}
