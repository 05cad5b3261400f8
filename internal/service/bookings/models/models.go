package models

import (
	"time"

	"github.com/m04kA/HomeService-Booking/internal/domain"
	"github.com/m04kA/HomeService-Booking/pkg/money"
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	UserID             string `json:"-"`
	IsAdmin            bool   `json:"-"`
	CancellationReason string `json:"cancellationReason"`
}

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID string  `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// GetBookingsForDateRequest запрос администратора на бронирования дня
type GetBookingsForDateRequest struct {
	Date             time.Time
	IncludeCancelled bool
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID                  int64   `json:"id"`
	UserID              string  `json:"userId"`
	SelectedDate        string  `json:"selectedDate"` // "2025-06-11"
	SelectedTime        string  `json:"selectedTime"` // "11-12"
	Address             string  `json:"address"`
	IssueDescription    string  `json:"issueDescription"`
	ArrivalInstructions *string `json:"arrivalInstructions,omitempty"`
	PaymentIntentRef    string  `json:"paymentIntentRef"`
	Amount              string  `json:"amount"` // "50.00"
	Currency            string  `json:"currency"`
	Status              string  `json:"status"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                  b.ID,
		UserID:              b.UserID,
		SelectedDate:        b.SelectedDate.Format(domain.DateFormat),
		SelectedTime:        b.SelectedTime,
		Address:             b.Address,
		IssueDescription:    b.IssueDescription,
		ArrivalInstructions: b.ArrivalInstructions,
		PaymentIntentRef:    b.PaymentIntentRef,
		Amount:              money.FormatCents(b.AmountCents),
		Currency:            b.Currency,
		Status:              string(b.Status),
		CancellationReason:  b.CancellationReason,
		CreatedAt:           b.CreatedAt,
		UpdatedAt:           b.UpdatedAt,
	}

	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}
