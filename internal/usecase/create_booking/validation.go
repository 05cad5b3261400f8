package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/HomeService-Booking/internal/calendar"
	"github.com/m04kA/HomeService-Booking/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.UserID) == "" {
		return fmt.Errorf("%w: userID is required", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if _, ok := domain.SlotByLabel(req.Time); !ok {
		return fmt.Errorf("%w: unknown time slot %q", ErrInvalidInput, req.Time)
	}

	if strings.TrimSpace(req.Address) == "" {
		return fmt.Errorf("%w: address is required", ErrInvalidInput)
	}
	if len(req.Address) > domain.MaxAddressLength {
		return fmt.Errorf("%w: address exceeds maximum length of %d characters", ErrInvalidInput, domain.MaxAddressLength)
	}

	if strings.TrimSpace(req.IssueDescription) == "" {
		return fmt.Errorf("%w: issue description is required", ErrInvalidInput)
	}
	if len(req.IssueDescription) > domain.MaxIssueDescriptionLength {
		return fmt.Errorf("%w: issue description exceeds maximum length of %d characters",
			ErrInvalidInput, domain.MaxIssueDescriptionLength)
	}

	if req.ArrivalInstructions != nil && len(*req.ArrivalInstructions) > domain.MaxArrivalInstructionsLength {
		return fmt.Errorf("%w: arrival instructions exceed maximum length of %d characters",
			ErrInvalidInput, domain.MaxArrivalInstructionsLength)
	}

	if req.PaymentMethodID != nil && strings.TrimSpace(*req.PaymentMethodID) == "" {
		return fmt.Errorf("%w: paymentMethodId must not be empty", ErrInvalidInput)
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

// bookedLabels метки слотов активных бронирований
func bookedLabels(bookings []*domain.Booking) []string {
	labels := make([]string, 0, len(bookings))
	for _, b := range bookings {
		if b.IsActive() {
			labels = append(labels, b.SelectedTime)
		}
	}
	return labels
}
