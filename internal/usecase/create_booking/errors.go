package create_booking

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInvalidDate возвращается, когда дата бронирования уже прошла
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceDays
	ErrDateTooFarInFuture = errors.New("create_booking: date is too far in the future")

	// ErrNoPaymentMethod возвращается, когда карта не передана и у клиента нет карты по умолчанию
	ErrNoPaymentMethod = errors.New("create_booking: no payment method")

	// ErrSlotUnavailable возвращается, когда слот занят, в буфере или уже недоступен по времени
	ErrSlotUnavailable = errors.New("create_booking: slot is not available")

	// ErrPaymentDeclined возвращается при отказе в удержании суммы
	ErrPaymentDeclined = errors.New("create_booking: payment declined")

	// ErrPaymentUnavailable возвращается, когда шлюз не ответил вовремя; запрос можно повторить
	ErrPaymentUnavailable = errors.New("create_booking: payment gateway unavailable")

	// ErrInconsistent возвращается, когда удержание создано, а бронирование не сохранено
	ErrInconsistent = errors.New("create_booking: booking not persisted after payment authorization")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")

	// ErrStoreUnavailable возвращается при таймауте или потере соединения с БД; запрос можно повторить
	ErrStoreUnavailable = errors.New("create_booking: storage unavailable")
)

// DeclinedError отказ шлюза с причиной для клиента
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

// InconsistentError расхождение, записанное для ручного разбора
type InconsistentError struct {
	CaseID           int64 // 0, если случай не удалось сохранить
	PaymentIntentRef string
	Stage            string
	Err              error
}

func (e *InconsistentError) Error() string {
	return fmt.Sprintf("%s: stage=%s, payment_intent=%s, case=%d: %v",
		ErrInconsistent, e.Stage, e.PaymentIntentRef, e.CaseID, e.Err)
}

// Is позволяет сравнивать InconsistentError с ErrInconsistent
func (e *InconsistentError) Is(target error) bool {
	return target == ErrInconsistent
}

func (e *InconsistentError) Unwrap() error {
	return e.Err
}
