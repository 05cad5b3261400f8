package get_bookings_for_date

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/HomeService-Booking/internal/domain"
	"github.com/m04kA/HomeService-Booking/internal/service/bookings/models"
)

var errMissingDate = errors.New("date is required")

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(dateStr string, includeCancelledStr string) (*models.GetBookingsForDateRequest, error) {
	if dateStr == "" {
		return nil, errMissingDate
	}

	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	// По умолчанию только активные
	req := &models.GetBookingsForDateRequest{Date: date}

	if includeCancelledStr != "" {
		includeCancelled, err := strconv.ParseBool(includeCancelledStr)
		if err != nil {
			return nil, fmt.Errorf("invalid includeCancelled value: %w", err)
		}
		req.IncludeCancelled = includeCancelled
	}

	return req, nil
}
