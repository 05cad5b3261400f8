package domain

import "time"

// PaymentCustomer links a user to their customer record at the payment gateway
type PaymentCustomer struct {
	UserID      string
	CustomerRef string
	CreatedAt   time.Time
}

// PaymentMethod is a saved card at the payment gateway
type PaymentMethod struct {
	ID        string
	Brand     string
	Last4     string
	ExpMonth  int64
	ExpYear   int64
	IsDefault bool
}

// AuthorizationStatus is the gateway-side state of a payment hold
type AuthorizationStatus string

const (
	AuthRequiresCapture AuthorizationStatus = "requires_capture"
	AuthSucceeded       AuthorizationStatus = "succeeded"
	AuthCanceled        AuthorizationStatus = "canceled"
	AuthRequiresAction  AuthorizationStatus = "requires_action"
	AuthProcessing      AuthorizationStatus = "processing"
	AuthFailed          AuthorizationStatus = "requires_payment_method"
)

// Authorization is a manual-capture payment hold
type Authorization struct {
	Ref         string
	Status      AuthorizationStatus
	AmountCents int64
	Currency    string
}

// IsCapturable returns true if the hold can be captured now
func (a *Authorization) IsCapturable() bool {
	return a.Status == AuthRequiresCapture
}

// IsCaptured returns true if funds were already transferred
func (a *Authorization) IsCaptured() bool {
	return a.Status == AuthSucceeded
}
