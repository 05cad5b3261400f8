package domain

import (
	"errors"
	"time"
)

// ErrInvalidStatus is returned when a status string is not part of the enum
var ErrInvalidStatus = errors.New("domain: invalid status")

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	StatusPending           BookingStatus = "pending"
	StatusConfirmed         BookingStatus = "confirmed"
	StatusPaymentAuthorized BookingStatus = "payment_authorized"
	StatusPaymentCaptured   BookingStatus = "payment_captured"
	StatusCancelled         BookingStatus = "cancelled"
)

// ParseBookingStatus validates a status string
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch status := BookingStatus(s); status {
	case StatusPending, StatusConfirmed, StatusPaymentAuthorized, StatusPaymentCaptured, StatusCancelled:
		return status, nil
	}
	return "", ErrInvalidStatus
}

// Booking represents a customer's reservation of a slot on a date.
// Bookings are never hard-deleted; cancellation is a status.
type Booking struct {
	ID                  int64
	UserID              string // subject id from the identity provider
	SelectedDate        time.Time
	SelectedTime        string // slot label, e.g. "11-12"
	Address             string
	IssueDescription    string
	ArrivalInstructions *string
	PaymentIntentRef    string
	AmountCents         int64
	Currency            string
	Status              BookingStatus

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still holds its slot
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// IsTerminal returns true if no further lifecycle transitions are allowed.
// A captured booking is settled; undoing it is a refund, not a cancellation.
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCancelled || b.Status == StatusPaymentCaptured
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return !b.IsTerminal()
}

// CanBeCaptured returns true if the booking holds an uncaptured authorization
func (b *Booking) CanBeCaptured() bool {
	return b.Status == StatusPaymentAuthorized
}

// HoldsAuthorization returns true if cancelling must release a gateway hold
func (b *Booking) HoldsAuthorization() bool {
	return b.Status == StatusPaymentAuthorized && b.PaymentIntentRef != ""
}

// IsOwnedBy returns true if the booking belongs to the user
func (b *Booking) IsOwnedBy(userID string) bool {
	return b.UserID == userID
}

// BookingsFilter selects bookings for listing
type BookingsFilter struct {
	UserID           *string        // only this customer's bookings
	Date             *time.Time     // only this date
	Status           *BookingStatus // only this status
	IncludeCancelled bool           // include cancelled bookings (ignored when Status is set)
}
