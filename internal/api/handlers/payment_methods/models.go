package payment_methods

import (
	"github.com/m04kA/HomeService-Booking/internal/service/payments/models"
)

// AddPaymentMethodRequest HTTP request model
type AddPaymentMethodRequest struct {
	PaymentMethodID string `json:"paymentMethodId" validate:"required,startswith=pm_"`
	MakeDefault     bool   `json:"makeDefault"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *AddPaymentMethodRequest) ToServiceRequest(userID string) *models.AddPaymentMethodRequest {
	return &models.AddPaymentMethodRequest{
		UserID:          userID,
		PaymentMethodID: r.PaymentMethodID,
		MakeDefault:     r.MakeDefault,
	}
}
