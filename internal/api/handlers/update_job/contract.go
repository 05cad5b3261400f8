package update_job

import (
	"context"

	"github.com/m04kA/HomeService-Booking/internal/service/jobs/models"
)

type JobService interface {
	UpdateAssignment(ctx context.Context, jobID int64, req *models.UpdateJobRequest) (*models.JobResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
