package reconciliation

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/HomeService-Booking/internal/domain"
	"github.com/m04kA/HomeService-Booking/internal/service/reconciliation/models"
	"github.com/m04kA/HomeService-Booking/pkg/pgerr"
)

// Service учет платежей, не сопоставленных с сохраненным бронированием
type Service struct {
	caseRepo CaseRepository
	metrics  Metrics
	logger   Logger
}

// NewService создает новый экземпляр сервиса сверки
func NewService(caseRepo CaseRepository, metrics Metrics, logger Logger) *Service {
	return &Service{
		caseRepo: caseRepo,
		metrics:  metrics,
		logger:   logger,
	}
}

// Record фиксирует случай сверки
// Строка лога с маркером RECONCILIATION пишется до сохранения: случай не теряется,
// даже если БД недоступна
func (s *Service) Record(ctx context.Context, c *domain.ReconciliationCase) (*domain.ReconciliationCase, error) {
	s.logger.Error("RECONCILIATION: stage=%s payment_intent=%s user=%s date=%s slot=%s hold_released=%t reason=%s",
		c.Stage, c.PaymentIntentRef, c.UserID, c.SelectedDate.Format(domain.DateFormat), c.SelectedTime,
		c.HoldReleased, c.Reason)
	s.metrics.IncReconciliationCases()

	if c.Status == "" {
		c.Status = domain.ReconciliationOpen
	}

	saved, err := s.caseRepo.Create(ctx, c)
	if err != nil {
		s.logger.Error("Record: failed to persist reconciliation case for payment_intent=%s: %v", c.PaymentIntentRef, err)
		return nil, storeError("Record - repository error", err)
	}

	s.logger.Info("Record: reconciliation case id=%d opened", saved.ID)
	return saved, nil
}

// ListOpen возвращает открытые случаи сверки (для администратора)
func (s *Service) ListOpen(ctx context.Context) (*models.CaseListResponse, error) {
	cases, err := s.caseRepo.ListOpen(ctx)
	if err != nil {
		s.logger.Error("ListOpen: repository error: %v", err)
		return nil, storeError("ListOpen - repository error", err)
	}
	return models.FromDomainCases(cases), nil
}

// storeError отделяет недоступность БД от прочих ошибок хранилища
func storeError(op string, err error) error {
	if errors.Is(err, pgerr.ErrUnavailable) {
		return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}
