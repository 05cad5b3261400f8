package payments

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("payments: invalid input data")

	// ErrPaymentMethodNotFound возвращается, когда карта не найдена у клиента
	ErrPaymentMethodNotFound = errors.New("payments: payment method not found")

	// ErrDeclined возвращается, когда шлюз отклонил карту
	ErrDeclined = errors.New("payments: payment method declined")

	// ErrGatewayUnavailable возвращается, когда шлюз недоступен; запрос можно повторить
	ErrGatewayUnavailable = errors.New("payments: payment gateway unavailable")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("payments: internal error")

	// ErrStoreUnavailable возвращается при таймауте или потере соединения с БД; запрос можно повторить
	ErrStoreUnavailable = errors.New("payments: storage unavailable")
)
