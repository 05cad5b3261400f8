package domain

import "time"

// SupportTicket is a customer enquiry about one of their jobs
type SupportTicket struct {
	ID           int64
	JobID        int64
	UserID       string
	EnquiryText  string
	ContactEmail string
	CreatedAt    time.Time
}
