package jobs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/HomeService-Booking/internal/domain"
	jobRepo "github.com/m04kA/HomeService-Booking/internal/infra/storage/job"
	"github.com/m04kA/HomeService-Booking/internal/service/jobs/models"
)

// Service сервис заданий
type Service struct {
	jobRepo JobRepository
	logger  Logger
}

// NewService создает новый экземпляр сервиса заданий
func NewService(jobRepo JobRepository, logger Logger) *Service {
	return &Service{
		jobRepo: jobRepo,
		logger:  logger,
	}
}

// ListForUser возвращает задания пользователя
// Задания других пользователей в ответ не попадают
func (s *Service) ListForUser(ctx context.Context, userID string) (*models.JobListResponse, error) {
	s.logger.Info("ListForUser: fetching jobs for user=%s", userID)

	jobs, err := s.jobRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("ListForUser: repository error for user=%s: %v", userID, err)
		return nil, storeError("ListForUser - repository error", err)
	}

	owned := make([]*domain.Job, 0, len(jobs))
	for _, j := range jobs {
		if j.IsOwnedBy(userID) {
			owned = append(owned, j)
		}
	}

	return models.FromDomainJobList(owned), nil
}

// UpdateAssignment назначает исполнителя и/или меняет статус задания (для администратора)
func (s *Service) UpdateAssignment(ctx context.Context, jobID int64, req *models.UpdateJobRequest) (*models.JobResponse, error) {
	s.logger.Info("UpdateAssignment: updating job id=%d", jobID)

	if req.HelperID == nil && req.Status == nil {
		return nil, fmt.Errorf("%w: helperId or status is required", ErrInvalidInput)
	}

	var helperID *string
	if req.HelperID != nil {
		trimmed := strings.TrimSpace(*req.HelperID)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: helperId must not be empty", ErrInvalidInput)
		}
		helperID = &trimmed
	}

	var status *domain.JobStatus
	if req.Status != nil {
		parsed, err := domain.ParseJobStatus(*req.Status)
		if err != nil {
			s.logger.Warn("UpdateAssignment: invalid status=%s for job id=%d", *req.Status, jobID)
			return nil, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, *req.Status)
		}
		status = &parsed
	}

	job, err := s.getJob(ctx, "UpdateAssignment", jobID)
	if err != nil {
		return nil, err
	}

	if job.IsClosed() {
		s.logger.Warn("UpdateAssignment: job id=%d is %s", jobID, job.Status)
		return nil, fmt.Errorf("%w: job status is %s", ErrJobClosed, job.Status)
	}

	if err := s.jobRepo.UpdateAssignment(ctx, jobID, helperID, status); err != nil {
		if errors.Is(err, jobRepo.ErrJobNotFound) {
			return nil, ErrJobNotFound
		}
		s.logger.Error("UpdateAssignment: repository error for job id=%d: %v", jobID, err)
		return nil, storeError("UpdateAssignment - repository error", err)
	}

	updated, err := s.getJob(ctx, "UpdateAssignment", jobID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateAssignment: job id=%d helper=%v status=%s", jobID, updated.HelperID, updated.Status)
	return models.FromDomainJob(updated), nil
}

func (s *Service) getJob(ctx context.Context, op string, id int64) (*domain.Job, error) {
	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, jobRepo.ErrJobNotFound) {
			s.logger.Warn("%s: job id=%d not found", op, id)
			return nil, ErrJobNotFound
		}
		s.logger.Error("%s: repository error for job id=%d: %v", op, id, err)
		return nil, storeError(op+" - repository error", err)
	}
	return job, nil
}

// storeError отделяет недоступность БД от прочих ошибок хранилища
func storeError(op string, err error) error {
	if errors.Is(err, jobRepo.ErrUnavailable) {
		return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}
