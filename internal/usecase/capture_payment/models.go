package capture_payment

// Request модель запроса на списание
type Request struct {
	BookingID        int64
	PaymentIntentRef string
}

// Response модель ответа
type Response struct {
	BookingID        int64
	PaymentIntentRef string
	Status           string
	AmountCents      int64
	Currency         string
	// AlreadyCaptured списание было выполнено раньше, повторного списания не было
	AlreadyCaptured bool
}
