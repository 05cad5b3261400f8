package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/HomeService-Booking/internal/calendar"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	return nil
}

// validateDate проверяет, что дата не в прошлом и не дальше advanceDays
func validateDate(requestDate, now time.Time, advanceDays int) error {
	if calendar.IsPastDate(requestDate, now) {
		return ErrInvalidDate
	}

	// Если advanceDays = 0, нет ограничений на дату
	if advanceDays == 0 {
		return nil
	}

	maxDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, advanceDays)
	requestDateOnly := time.Date(requestDate.Year(), requestDate.Month(), requestDate.Day(), 0, 0, 0, 0, time.UTC)

	if requestDateOnly.After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, advanceDays)
	}

	return nil
}
