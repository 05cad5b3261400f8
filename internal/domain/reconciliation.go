package domain

import "time"

// ReconciliationStatus tracks manual follow-up of an inconsistent booking
type ReconciliationStatus string

const (
	ReconciliationOpen     ReconciliationStatus = "open"
	ReconciliationResolved ReconciliationStatus = "resolved"
)

// ReconciliationCase records a payment authorization that could not be
// matched with a persisted booking and job.
type ReconciliationCase struct {
	ID               int64
	PaymentIntentRef string
	UserID           string
	SelectedDate     time.Time
	SelectedTime     string
	Stage            string // lifecycle stage that failed
	Reason           string
	HoldReleased     bool
	Status           ReconciliationStatus
	CreatedAt        time.Time
}
