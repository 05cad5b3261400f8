package create_support_ticket

import (
	"context"

	"github.com/m04kA/HomeService-Booking/internal/service/support/models"
)

type SupportService interface {
	Create(ctx context.Context, req *models.CreateTicketRequest) (*models.TicketResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
