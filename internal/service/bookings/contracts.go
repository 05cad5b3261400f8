package bookings

import (
	"context"

	"github.com/m04kA/HomeService-Booking/internal/domain"
	"github.com/m04kA/HomeService-Booking/internal/integrations/events"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	Cancel(ctx context.Context, id int64, reason string) error
}

// JobRepository интерфейс репозитория заданий
type JobRepository interface {
	CancelByBookingID(ctx context.Context, bookingID int64) error
}

// PaymentGateway снятие удержания при отмене
type PaymentGateway interface {
	Release(ctx context.Context, ref string) error
}

// EventPublisher публикует события бронирований
type EventPublisher interface {
	Publish(ctx context.Context, event events.BookingEvent) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
