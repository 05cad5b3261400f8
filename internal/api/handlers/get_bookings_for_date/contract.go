package get_bookings_for_date

import (
	"context"

	"github.com/m04kA/HomeService-Booking/internal/service/bookings/models"
)

type BookingService interface {
	GetBookingsForDate(ctx context.Context, req *models.GetBookingsForDateRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
