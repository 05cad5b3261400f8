package models

import "github.com/m04kA/HomeService-Booking/internal/domain"

// AddPaymentMethodRequest запрос на сохранение карты
// PaymentMethodID токен карты, полученный клиентом от шлюза
type AddPaymentMethodRequest struct {
	UserID          string `json:"-"`
	PaymentMethodID string `json:"paymentMethodId"`
	MakeDefault     bool   `json:"makeDefault"`
}

// PaymentMethodResponse сохраненная карта
type PaymentMethodResponse struct {
	ID        string `json:"id"`
	Brand     string `json:"brand"`
	Last4     string `json:"last4"`
	ExpMonth  int64  `json:"expMonth"`
	ExpYear   int64  `json:"expYear"`
	IsDefault bool   `json:"isDefault"`
}

// PaymentMethodListResponse список сохраненных карт
type PaymentMethodListResponse struct {
	PaymentMethods []PaymentMethodResponse `json:"paymentMethods"`
}

// FromDomainPaymentMethod конвертирует domain модель в DTO
func FromDomainPaymentMethod(pm domain.PaymentMethod) PaymentMethodResponse {
	return PaymentMethodResponse{
		ID:        pm.ID,
		Brand:     pm.Brand,
		Last4:     pm.Last4,
		ExpMonth:  pm.ExpMonth,
		ExpYear:   pm.ExpYear,
		IsDefault: pm.IsDefault,
	}
}

// FromDomainPaymentMethods конвертирует список domain моделей в DTO
func FromDomainPaymentMethods(methods []domain.PaymentMethod) *PaymentMethodListResponse {
	resp := &PaymentMethodListResponse{PaymentMethods: make([]PaymentMethodResponse, 0, len(methods))}
	for _, pm := range methods {
		resp.PaymentMethods = append(resp.PaymentMethods, FromDomainPaymentMethod(pm))
	}
	return resp
}
