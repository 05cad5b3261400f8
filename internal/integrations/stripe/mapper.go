package stripe

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	stripeapi "github.com/stripe/stripe-go/v76"
)

// mapError переводит ошибку stripe-go в ошибки адаптера
// Все, что не является ответом API (сеть, таймаут), считается недоступностью шлюза
func mapError(op string, err error) error {
	var stripeErr *stripeapi.Error
	if !errors.As(err, &stripeErr) {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("%s: %w", op, err)
		}
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
	}

	switch {
	case stripeErr.Type == stripeapi.ErrorTypeCard:
		return &DeclineError{Code: string(stripeErr.DeclineCode), Reason: declineReason(stripeErr)}
	case stripeErr.Code == stripeapi.ErrorCodePaymentIntentUnexpectedState:
		return fmt.Errorf("%w: %s: %s", ErrInvalidState, op, stripeErr.Msg)
	case stripeErr.Code == stripeapi.ErrorCodeResourceMissing || stripeErr.HTTPStatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s: %s", ErrNotFound, op, stripeErr.Msg)
	case stripeErr.HTTPStatusCode == http.StatusTooManyRequests || stripeErr.HTTPStatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %s: status %d: %s", ErrUnavailable, op, stripeErr.HTTPStatusCode, stripeErr.Msg)
	case stripeErr.Type == stripeapi.ErrorTypeAPI:
		return fmt.Errorf("%w: %s: %s", ErrUnavailable, op, stripeErr.Msg)
	default:
		return fmt.Errorf("%w: %s: %s", ErrInvalidRequest, op, stripeErr.Msg)
	}
}

func declineReason(e *stripeapi.Error) string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.DeclineCode != "" {
		return string(e.DeclineCode)
	}
	return string(e.Code)
}
