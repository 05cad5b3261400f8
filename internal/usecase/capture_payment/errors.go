package capture_payment

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	// (в том числе, если ссылка на платеж не совпадает с бронированием)
	ErrInvalidInput = errors.New("capture_payment: invalid input data")

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("capture_payment: booking not found")

	// ErrInvalidState возвращается, когда удержание нельзя списать; повтор не поможет
	ErrInvalidState = errors.New("capture_payment: payment is not capturable")

	// ErrPaymentDeclined возвращается, когда процессор отклонил списание
	ErrPaymentDeclined = errors.New("capture_payment: capture declined")

	// ErrPaymentUnavailable возвращается, когда шлюз не ответил вовремя; запрос можно повторить
	ErrPaymentUnavailable = errors.New("capture_payment: payment gateway unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("capture_payment: internal error")

	// ErrStoreUnavailable возвращается при таймауте или потере соединения с БД; запрос можно повторить
	ErrStoreUnavailable = errors.New("capture_payment: storage unavailable")
)

// DeclinedError отказ процессора при списании с причиной от шлюза
type DeclinedError struct {
	Code   string
	Reason string
}

func (e *DeclinedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrPaymentDeclined, e.Reason)
}

// Is позволяет сравнивать DeclinedError с ErrPaymentDeclined
func (e *DeclinedError) Is(target error) bool {
	return target == ErrPaymentDeclined
}
