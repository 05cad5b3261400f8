package jobs

import (
	"context"

	"github.com/m04kA/HomeService-Booking/internal/domain"
)

// JobRepository интерфейс репозитория заданий
type JobRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Job, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Job, error)
	UpdateAssignment(ctx context.Context, id int64, helperID *string, status *domain.JobStatus) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
