package events

import "time"

// Ключи маршрутизации событий бронирования
const (
	RoutingBookingCreated   = "booking.created"
	RoutingBookingCaptured  = "booking.captured"
	RoutingBookingCancelled = "booking.cancelled"
)

// BookingEvent событие жизненного цикла бронирования
type BookingEvent struct {
	EventID          string    `json:"eventId"`
	Type             string    `json:"type"`
	BookingID        int64     `json:"bookingId"`
	JobID            *int64    `json:"jobId,omitempty"`
	UserID           string    `json:"userId"`
	SelectedDate     string    `json:"selectedDate"`
	SelectedTime     string    `json:"selectedTime"`
	Status           string    `json:"status"`
	PaymentIntentRef string    `json:"paymentIntentRef,omitempty"`
	OccurredAt       time.Time `json:"occurredAt"`
}
