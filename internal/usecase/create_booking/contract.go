package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/HomeService-Booking/internal/domain"
	"github.com/m04kA/HomeService-Booking/internal/integrations/events"
	"github.com/m04kA/HomeService-Booking/internal/integrations/stripe"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	LockDate(ctx context.Context, date time.Time) error
}

// JobRepository интерфейс репозитория заданий
type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) (*domain.Job, error)
}

// CustomerProvider возвращает клиента платежного шлюза для пользователя, создавая его при необходимости
type CustomerProvider interface {
	EnsureCustomer(ctx context.Context, userID string) (string, error)
}

// PaymentGateway интерфейс платежного шлюза
type PaymentGateway interface {
	AttachPaymentMethod(ctx context.Context, customerRef, paymentMethodID string) (*domain.PaymentMethod, error)
	SetDefaultPaymentMethod(ctx context.Context, customerRef, paymentMethodID string) error
	DefaultPaymentMethod(ctx context.Context, customerRef string) (string, error)
	Authorize(ctx context.Context, params stripe.AuthorizeParams) (*domain.Authorization, error)
	Release(ctx context.Context, ref string) error
}

// ReconciliationRecorder записывает расхождение между шлюзом и базой
type ReconciliationRecorder interface {
	Record(ctx context.Context, c *domain.ReconciliationCase) (*domain.ReconciliationCase, error)
}

// EventPublisher публикует события бронирований
type EventPublisher interface {
	Publish(ctx context.Context, event events.BookingEvent) error
}

// Metrics метрики этапов жизненного цикла
type Metrics interface {
	IncBookingOutcome(stage, result string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
