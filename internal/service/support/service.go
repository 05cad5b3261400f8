package support

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/HomeService-Booking/internal/domain"
	jobRepo "github.com/m04kA/HomeService-Booking/internal/infra/storage/job"
	supportRepo "github.com/m04kA/HomeService-Booking/internal/infra/storage/support"
	"github.com/m04kA/HomeService-Booking/internal/service/support/models"
)

const notifyTimeout = 10 * time.Second

var validate = validator.New()

// Service сервис обращений в поддержку
type Service struct {
	ticketRepo TicketRepository
	jobRepo    JobRepository
	notifier   Notifier
	logger     Logger
}

// NewService создает новый экземпляр сервиса обращений
func NewService(ticketRepo TicketRepository, jobRepo JobRepository, notifier Notifier, logger Logger) *Service {
	return &Service{
		ticketRepo: ticketRepo,
		jobRepo:    jobRepo,
		notifier:   notifier,
		logger:     logger,
	}
}

// Create создает обращение по заданию пользователя
// Обращение по чужому заданию запрещено; уведомление поддержки отправляется без гарантий
func (s *Service) Create(ctx context.Context, req *models.CreateTicketRequest) (*models.TicketResponse, error) {
	s.logger.Info("Create: support ticket for job id=%d by user=%s", req.JobID, req.UserID)

	enquiry := strings.TrimSpace(req.EnquiryText)
	email := strings.TrimSpace(req.ContactEmail)

	switch {
	case req.JobID <= 0:
		return nil, fmt.Errorf("%w: jobId is required", ErrInvalidInput)
	case enquiry == "":
		return nil, fmt.Errorf("%w: enquiryText is required", ErrInvalidInput)
	case len(enquiry) > domain.MaxEnquiryLength:
		return nil, fmt.Errorf("%w: enquiryText exceeds %d characters", ErrInvalidInput, domain.MaxEnquiryLength)
	}
	if err := validate.Var(email, "required,email"); err != nil {
		return nil, fmt.Errorf("%w: contactEmail is not a valid address", ErrInvalidInput)
	}

	job, err := s.jobRepo.GetByID(ctx, req.JobID)
	if err != nil {
		if errors.Is(err, jobRepo.ErrJobNotFound) {
			s.logger.Warn("Create: job id=%d not found", req.JobID)
			return nil, ErrJobNotFound
		}
		s.logger.Error("Create: failed to get job id=%d: %v", req.JobID, err)
		return nil, storeError("Create - failed to get job", err)
	}

	if !job.IsOwnedBy(req.UserID) {
		s.logger.Warn("Create: access denied for user=%s to job id=%d", req.UserID, req.JobID)
		return nil, ErrAccessDenied
	}

	ticket, err := s.ticketRepo.Create(ctx, &domain.SupportTicket{
		JobID:        job.ID,
		UserID:       req.UserID,
		EnquiryText:  enquiry,
		ContactEmail: email,
	})
	if err != nil {
		if errors.Is(err, supportRepo.ErrJobNotFound) {
			return nil, ErrJobNotFound
		}
		s.logger.Error("Create: repository error for job id=%d: %v", req.JobID, err)
		return nil, storeError("Create - repository error", err)
	}

	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	if err := s.notifier.NotifySupportTicket(notifyCtx, ticket); err != nil {
		s.logger.Warn("Create: failed to notify support about ticket id=%d: %v", ticket.ID, err)
	}

	s.logger.Info("Create: created support ticket id=%d", ticket.ID)
	return models.FromDomainTicket(ticket), nil
}

// ListForUser возвращает обращения пользователя
func (s *Service) ListForUser(ctx context.Context, userID string) (*models.TicketListResponse, error) {
	tickets, err := s.ticketRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("ListForUser: repository error for user=%s: %v", userID, err)
		return nil, storeError("ListForUser - repository error", err)
	}

	owned := make([]*domain.SupportTicket, 0, len(tickets))
	for _, t := range tickets {
		if t.UserID == userID {
			owned = append(owned, t)
		}
	}

	return models.FromDomainTicketList(owned), nil
}

// storeError отделяет недоступность БД от прочих ошибок хранилища
func storeError(op string, err error) error {
	if errors.Is(err, supportRepo.ErrUnavailable) {
		return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}
