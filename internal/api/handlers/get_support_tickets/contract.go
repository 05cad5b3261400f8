package get_support_tickets

import (
	"context"

	"github.com/m04kA/HomeService-Booking/internal/service/support/models"
)

type SupportService interface {
	ListForUser(ctx context.Context, userID string) (*models.TicketListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
