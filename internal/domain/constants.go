package domain

// Default calendar rules
const (
	DefaultLeadTimeHours = 3  // same-day minimum lead time
	DefaultCutoffHour    = 17 // no same-day slot starting at or after 5pm
	DefaultBufferSlots   = 2  // slots blocked on each side of a booking
)

// Business validation constants
const (
	MaxAddressLength             = 500
	MaxIssueDescriptionLength    = 2000
	MaxArrivalInstructionsLength = 1000
	MaxEnquiryLength             = 4000
	MaxCancellationReasonLength  = 500
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InvoiceNumberPrefix prefix of human-facing invoice numbers
const InvoiceNumberPrefix = "INV-"
