package support

import (
	"context"

	"github.com/m04kA/HomeService-Booking/internal/domain"
)

// TicketRepository интерфейс репозитория обращений
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.SupportTicket) (*domain.SupportTicket, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.SupportTicket, error)
}

// JobRepository интерфейс репозитория заданий
type JobRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Job, error)
}

// Notifier уведомляет службу поддержки о новом обращении
type Notifier interface {
	NotifySupportTicket(ctx context.Context, ticket *domain.SupportTicket) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
