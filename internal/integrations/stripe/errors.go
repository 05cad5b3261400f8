package stripe

import (
	"errors"
	"fmt"
)

var (
	// ErrDeclined платеж отклонен банком или шлюзом, повтор не поможет без другой карты
	ErrDeclined = errors.New("stripe client: payment declined")

	// ErrInvalidState операция невозможна в текущем состоянии платежа
	ErrInvalidState = errors.New("stripe client: payment intent in unexpected state")

	// ErrUnavailable шлюз недоступен (таймаут, 5xx, сеть), запрос можно повторить
	ErrUnavailable = errors.New("stripe client: gateway unavailable")

	// ErrNotFound объект не найден в шлюзе
	ErrNotFound = errors.New("stripe client: resource not found")

	// ErrInvalidRequest шлюз отклонил параметры запроса
	ErrInvalidRequest = errors.New("stripe client: invalid request")
)

// DeclineError отказ с причиной от шлюза
// errors.Is(err, ErrDeclined) == true
type DeclineError struct {
	Code   string // decline_code, например insufficient_funds
	Reason string // сообщение шлюза для клиента
}

func (e *DeclineError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("%s: %s", ErrDeclined, e.Reason)
	}
	return fmt.Sprintf("%s: %s (%s)", ErrDeclined, e.Reason, e.Code)
}

// Is позволяет сравнивать DeclineError с ErrDeclined
func (e *DeclineError) Is(target error) bool {
	return target == ErrDeclined
}
