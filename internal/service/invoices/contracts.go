package invoices

import (
	"context"
	"time"

	"github.com/m04kA/HomeService-Booking/internal/domain"
)

// InvoiceRepository интерфейс репозитория счетов
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *domain.Invoice) (*domain.Invoice, error)
	GetByInvoiceID(ctx context.Context, invoiceID string) (*domain.Invoice, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Invoice, error)
	UpdateStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus, paidDate *time.Time) error
}

// JobRepository интерфейс репозитория заданий
type JobRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Job, error)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальная реализация TimeProvider
type RealTimeProvider struct{}

func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
