package get_jobs

import (
	"context"

	"github.com/m04kA/HomeService-Booking/internal/service/jobs/models"
)

type JobService interface {
	ListForUser(ctx context.Context, userID string) (*models.JobListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
