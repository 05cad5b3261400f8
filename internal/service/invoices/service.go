package invoices

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/HomeService-Booking/internal/domain"
	invoiceRepo "github.com/m04kA/HomeService-Booking/internal/infra/storage/invoice"
	jobRepo "github.com/m04kA/HomeService-Booking/internal/infra/storage/job"
	"github.com/m04kA/HomeService-Booking/internal/service/invoices/models"
	"github.com/m04kA/HomeService-Booking/pkg/money"
)

// maxNumberAttempts попыток сгенерировать уникальный номер счета
const maxNumberAttempts = 3

// Service сервис счетов
type Service struct {
	invoiceRepo     InvoiceRepository
	jobRepo         JobRepository
	defaultCurrency string
	location        *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса счетов
func NewService(
	invoiceRepo InvoiceRepository,
	jobRepo JobRepository,
	defaultCurrency string,
	location *time.Location,
	logger Logger,
) *Service {
	return &Service{
		invoiceRepo:     invoiceRepo,
		jobRepo:         jobRepo,
		defaultCurrency: defaultCurrency,
		location:        location,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// ListForUser возвращает счета пользователя
// Счета других пользователей в ответ не попадают
func (s *Service) ListForUser(ctx context.Context, userID string) (*models.InvoiceListResponse, error) {
	s.logger.Info("ListForUser: fetching invoices for user=%s", userID)

	invoices, err := s.invoiceRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("ListForUser: repository error for user=%s: %v", userID, err)
		return nil, storeError("ListForUser - repository error", err)
	}

	owned := make([]*domain.Invoice, 0, len(invoices))
	for _, i := range invoices {
		if i.IsOwnedBy(userID) {
			owned = append(owned, i)
		}
	}

	return models.FromDomainInvoiceList(owned), nil
}

// Create выставляет счет по заданию (для администратора)
// Владелец счета берется из задания
func (s *Service) Create(ctx context.Context, req *models.CreateInvoiceRequest) (*models.InvoiceResponse, error) {
	s.logger.Info("Create: issuing invoice for job id=%d, amount=%s", req.JobID, req.Amount)

	if req.JobID <= 0 {
		return nil, fmt.Errorf("%w: jobId is required", ErrInvalidInput)
	}

	amountCents, err := money.ParseCents(req.Amount)
	if err != nil || amountCents == 0 {
		return nil, fmt.Errorf("%w: amount must be a positive value with at most two decimals", ErrInvalidInput)
	}

	today := s.today()

	var dueDate *time.Time
	if req.DueDate != nil {
		parsed, err := time.Parse(domain.DateFormat, *req.DueDate)
		if err != nil {
			return nil, fmt.Errorf("%w: dueDate must be YYYY-MM-DD", ErrInvalidInput)
		}
		if parsed.Before(today) {
			return nil, fmt.Errorf("%w: dueDate is before issue date", ErrInvalidInput)
		}
		dueDate = &parsed
	}

	currency := strings.ToLower(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = s.defaultCurrency
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

	for attempt := 1; ; attempt++ {
		created, err := s.invoiceRepo.Create(ctx, &domain.Invoice{
			InvoiceID:   newInvoiceNumber(),
			JobID:       job.ID,
			UserID:      job.UserID,
			AmountCents: amountCents,
			Currency:    currency,
			Status:      domain.InvoiceUnpaid,
			IssuedDate:  today,
			DueDate:     dueDate,
		})
		if err == nil {
			s.logger.Info("Create: issued invoice %s for job id=%d", created.InvoiceID, job.ID)
			return models.FromDomainInvoice(created), nil
		}

		switch {
		case errors.Is(err, invoiceRepo.ErrDuplicateNumber) && attempt < maxNumberAttempts:
			s.logger.Warn("Create: invoice number collision, attempt %d", attempt)
			continue
		case errors.Is(err, invoiceRepo.ErrJobNotFound):
			return nil, ErrJobNotFound
		}

		s.logger.Error("Create: repository error for job id=%d: %v", job.ID, err)
		return nil, storeError("Create - repository error", err)
	}
}

// UpdateStatus меняет статус счета (для администратора)
// Переход в Paid проставляет дату оплаты, остальные статусы ее сбрасывают
func (s *Service) UpdateStatus(ctx context.Context, invoiceID string, req *models.UpdateInvoiceStatusRequest) (*models.InvoiceResponse, error) {
	s.logger.Info("UpdateStatus: invoice %s to status=%s", invoiceID, req.Status)

	status, err := domain.ParseInvoiceStatus(req.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, req.Status)
	}

	var paidDate *time.Time
	if status == domain.InvoicePaid {
		today := s.today()
		paidDate = &today
	}

	if err := s.invoiceRepo.UpdateStatus(ctx, invoiceID, status, paidDate); err != nil {
		if errors.Is(err, invoiceRepo.ErrInvoiceNotFound) {
			s.logger.Warn("UpdateStatus: invoice %s not found", invoiceID)
			return nil, ErrInvoiceNotFound
		}
		s.logger.Error("UpdateStatus: repository error for invoice %s: %v", invoiceID, err)
		return nil, storeError("UpdateStatus - repository error", err)
	}

	invoice, err := s.invoiceRepo.GetByInvoiceID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, invoiceRepo.ErrInvoiceNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, storeError("UpdateStatus - repository error", err)
	}

	return models.FromDomainInvoice(invoice), nil
}

// today текущая дата в часовом поясе бизнеса
func (s *Service) today() time.Time {
	now := s.timeProvider.Now().In(s.location)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func newInvoiceNumber() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return domain.InvoiceNumberPrefix + strings.ToUpper(id[:8])
}

// storeError отделяет недоступность БД от прочих ошибок хранилища
func storeError(op string, err error) error {
	if errors.Is(err, invoiceRepo.ErrUnavailable) {
		return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}
