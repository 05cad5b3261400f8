package domain

import "time"

// InvoiceStatus represents the payment state of an invoice
type InvoiceStatus string

const (
	InvoiceUnpaid    InvoiceStatus = "Unpaid"
	InvoicePaid      InvoiceStatus = "Paid"
	InvoiceOverdue   InvoiceStatus = "Overdue"
	InvoiceCancelled InvoiceStatus = "Cancelled"
)

// ParseInvoiceStatus validates an invoice status string
func ParseInvoiceStatus(s string) (InvoiceStatus, error) {
	switch status := InvoiceStatus(s); status {
	case InvoiceUnpaid, InvoicePaid, InvoiceOverdue, InvoiceCancelled:
		return status, nil
	}
	return "", ErrInvalidStatus
}

// Invoice is issued by an admin against an existing job
type Invoice struct {
	ID          int64
	InvoiceID   string // human-facing number, e.g. INV-1A2B3C4D
	JobID       int64
	UserID      string
	AmountCents int64
	Currency    string
	Status      InvoiceStatus
	IssuedDate  time.Time
	DueDate     *time.Time
	PaidDate    *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOwnedBy returns true if the invoice belongs to the user
func (i *Invoice) IsOwnedBy(userID string) bool {
	return i.UserID == userID
}
