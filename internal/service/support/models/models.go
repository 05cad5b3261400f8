package models

import (
	"time"

	"github.com/m04kA/HomeService-Booking/internal/domain"
)

// CreateTicketRequest запрос на создание обращения
type CreateTicketRequest struct {
	UserID       string `json:"-"`
	JobID        int64  `json:"jobId"`
	EnquiryText  string `json:"enquiryText"`
	ContactEmail string `json:"contactEmail"`
}

// TicketResponse ответ с данными обращения
type TicketResponse struct {
	ID           int64     `json:"id"`
	JobID        int64     `json:"jobId"`
	UserID       string    `json:"userId"`
	EnquiryText  string    `json:"enquiryText"`
	ContactEmail string    `json:"contactEmail"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TicketListResponse ответ со списком обращений
type TicketListResponse struct {
	Tickets []TicketResponse `json:"tickets"`
}

// FromDomainTicket конвертирует domain модель в DTO
func FromDomainTicket(t *domain.SupportTicket) *TicketResponse {
	if t == nil {
		return nil
	}
	return &TicketResponse{
		ID:           t.ID,
		JobID:        t.JobID,
		UserID:       t.UserID,
		EnquiryText:  t.EnquiryText,
		ContactEmail: t.ContactEmail,
		CreatedAt:    t.CreatedAt,
	}
}

// FromDomainTicketList конвертирует список domain моделей в DTO
func FromDomainTicketList(tickets []*domain.SupportTicket) *TicketListResponse {
	resp := &TicketListResponse{Tickets: make([]TicketResponse, 0, len(tickets))}
	for _, t := range tickets {
		resp.Tickets = append(resp.Tickets, *FromDomainTicket(t))
	}
	return resp
}
