package models

import (
	"time"

	"github.com/m04kA/HomeService-Booking/internal/domain"
)

// CaseResponse случай сверки для администратора
type CaseResponse struct {
	ID               int64     `json:"id"`
	PaymentIntentRef string    `json:"paymentIntentRef"`
	UserID           string    `json:"userId"`
	SelectedDate     string    `json:"selectedDate"`
	SelectedTime     string    `json:"selectedTime"`
	Stage            string    `json:"stage"`
	Reason           string    `json:"reason"`
	HoldReleased     bool      `json:"holdReleased"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
}

// CaseListResponse список открытых случаев
type CaseListResponse struct {
	Cases []CaseResponse `json:"cases"`
}

// FromDomainCases конвертирует список domain моделей в DTO
func FromDomainCases(cases []*domain.ReconciliationCase) *CaseListResponse {
	resp := &CaseListResponse{Cases: make([]CaseResponse, 0, len(cases))}
	for _, c := range cases {
		resp.Cases = append(resp.Cases, CaseResponse{
			ID:               c.ID,
			PaymentIntentRef: c.PaymentIntentRef,
			UserID:           c.UserID,
			SelectedDate:     c.SelectedDate.Format(domain.DateFormat),
			SelectedTime:     c.SelectedTime,
			Stage:            c.Stage,
			Reason:           c.Reason,
			HoldReleased:     c.HoldReleased,
			Status:           string(c.Status),
			CreatedAt:        c.CreatedAt,
		})
	}
	return resp
}
