package capture_payment

import (
	"context"

	"github.com/m04kA/HomeService-Booking/internal/domain"
	"github.com/m04kA/HomeService-Booking/internal/integrations/events"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateStatusFrom(ctx context.Context, id int64, from, to domain.BookingStatus) error
}

// PaymentGateway интерфейс платежного шлюза
type PaymentGateway interface {
	GetAuthorization(ctx context.Context, ref string) (*domain.Authorization, error)
	Capture(ctx context.Context, ref, idempotencyKey string) (*domain.Authorization, error)
}

// EventPublisher публикует события бронирований
type EventPublisher interface {
	Publish(ctx context.Context, event events.BookingEvent) error
}

// Metrics метрики этапов жизненного цикла
type Metrics interface {
	IncBookingOutcome(stage, result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
