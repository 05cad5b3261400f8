package reconciliation

import (
	"context"

	"github.com/m04kA/HomeService-Booking/internal/domain"
)

// CaseRepository интерфейс репозитория случаев сверки
type CaseRepository interface {
	Create(ctx context.Context, c *domain.ReconciliationCase) (*domain.ReconciliationCase, error)
	ListOpen(ctx context.Context) ([]*domain.ReconciliationCase, error)
}

// Metrics счетчик случаев сверки
type Metrics interface {
	IncReconciliationCases()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
