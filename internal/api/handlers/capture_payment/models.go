package capture_payment

import (
	capturePayment "github.com/m04kA/HomeService-Booking/internal/usecase/capture_payment"
	"github.com/m04kA/HomeService-Booking/pkg/money"
)

// CapturePaymentRequest HTTP request model
type CapturePaymentRequest struct {
	PaymentIntentRef string `json:"paymentIntentRef" validate:"required,startswith=pi_"`
}

// CapturePaymentResponse HTTP response model
type CapturePaymentResponse struct {
	BookingID        int64  `json:"bookingId"`
	PaymentIntentRef string `json:"paymentIntentRef"`
	Status           string `json:"status"`
	Amount           string `json:"amount"`
	Currency         string `json:"currency"`
	AlreadyCaptured  bool   `json:"alreadyCaptured"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CapturePaymentRequest) ToUseCaseRequest(bookingID int64) *capturePayment.Request {
	return &capturePayment.Request{
		BookingID:        bookingID,
		PaymentIntentRef: r.PaymentIntentRef,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *capturePayment.Response) *CapturePaymentResponse {
	return &CapturePaymentResponse{
		BookingID:        resp.BookingID,
		PaymentIntentRef: resp.PaymentIntentRef,
		Status:           resp.Status,
		Amount:           money.FormatCents(resp.AmountCents),
		Currency:         resp.Currency,
		AlreadyCaptured:  resp.AlreadyCaptured,
	}
}
