package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/HomeService-Booking/internal/domain"
	customerRepo "github.com/m04kA/HomeService-Booking/internal/infra/storage/customer"
	"github.com/m04kA/HomeService-Booking/internal/integrations/stripe"
	"github.com/m04kA/HomeService-Booking/internal/service/payments/models"
)

// Service сервис клиентов шлюза и сохраненных карт
type Service struct {
	customerRepo CustomerRepository
	gateway      PaymentGateway
	logger       Logger
}

// NewService создает новый экземпляр сервиса платежей
func NewService(customerRepo CustomerRepository, gateway PaymentGateway, logger Logger) *Service {
	return &Service{
		customerRepo: customerRepo,
		gateway:      gateway,
		logger:       logger,
	}
}

// EnsureCustomer возвращает клиента шлюза для пользователя, создавая его при первом обращении
// Ключ идемпотентности привязан к пользователю, повтор не создаст второго клиента в шлюзе
func (s *Service) EnsureCustomer(ctx context.Context, userID string) (string, error) {
	customer, err := s.customerRepo.GetByUserID(ctx, userID)
	if err == nil {
		return customer.CustomerRef, nil
	}
	if !errors.Is(err, customerRepo.ErrCustomerNotFound) {
		s.logger.Error("EnsureCustomer: repository error for user=%s: %v", userID, err)
		return "", storeError("EnsureCustomer - repository error", err)
	}

	ref, err := s.gateway.CreateCustomer(ctx, userID, "customer-"+userID)
	if err != nil {
		s.logger.Error("EnsureCustomer: gateway error for user=%s: %v", userID, err)
		return "", mapGatewayError("EnsureCustomer", err)
	}

	saved, err := s.customerRepo.Create(ctx, &domain.PaymentCustomer{UserID: userID, CustomerRef: ref})
	if err != nil {
		s.logger.Error("EnsureCustomer: failed to save customer %s for user=%s: %v", ref, userID, err)
		return "", storeError("EnsureCustomer - repository error", err)
	}

	if saved.CustomerRef != ref {
		s.logger.Warn("EnsureCustomer: user=%s already linked to %s, gateway customer %s unused",
			userID, saved.CustomerRef, ref)
	} else {
		s.logger.Info("EnsureCustomer: created gateway customer %s for user=%s", ref, userID)
	}

	return saved.CustomerRef, nil
}

// List возвращает сохраненные карты пользователя
func (s *Service) List(ctx context.Context, userID string) (*models.PaymentMethodListResponse, error) {
	ref, err := s.EnsureCustomer(ctx, userID)
	if err != nil {
		return nil, err
	}

	methods, err := s.gateway.ListPaymentMethods(ctx, ref)
	if err != nil {
		s.logger.Error("List: gateway error for user=%s: %v", userID, err)
		return nil, mapGatewayError("List", err)
	}

	return models.FromDomainPaymentMethods(methods), nil
}

// Add привязывает карту к клиенту и опционально делает ее картой по умолчанию
func (s *Service) Add(ctx context.Context, req *models.AddPaymentMethodRequest) (*models.PaymentMethodResponse, error) {
	pmID := strings.TrimSpace(req.PaymentMethodID)
	if pmID == "" {
		return nil, fmt.Errorf("%w: paymentMethodId is required", ErrInvalidInput)
	}

	s.logger.Info("Add: attaching payment method %s for user=%s", pmID, req.UserID)

	ref, err := s.EnsureCustomer(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	pm, err := s.gateway.AttachPaymentMethod(ctx, ref, pmID)
	if err != nil {
		s.logger.Warn("Add: attach failed for user=%s: %v", req.UserID, err)
		return nil, mapGatewayError("Add", err)
	}

	if req.MakeDefault {
		if err := s.gateway.SetDefaultPaymentMethod(ctx, ref, pm.ID); err != nil {
			s.logger.Error("Add: set default failed for user=%s: %v", req.UserID, err)
			return nil, mapGatewayError("Add", err)
		}
		pm.IsDefault = true
	}

	resp := models.FromDomainPaymentMethod(*pm)
	return &resp, nil
}

// Remove отвязывает карту от клиента
func (s *Service) Remove(ctx context.Context, userID, paymentMethodID string) error {
	s.logger.Info("Remove: detaching payment method %s for user=%s", paymentMethodID, userID)

	ref, err := s.EnsureCustomer(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.gateway.DetachPaymentMethod(ctx, ref, paymentMethodID); err != nil {
		s.logger.Warn("Remove: detach failed for user=%s: %v", userID, err)
		return mapGatewayError("Remove", err)
	}
	return nil
}

// SetDefault делает карту картой по умолчанию
func (s *Service) SetDefault(ctx context.Context, userID, paymentMethodID string) error {
	s.logger.Info("SetDefault: payment method %s for user=%s", paymentMethodID, userID)

	ref, err := s.EnsureCustomer(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.gateway.SetDefaultPaymentMethod(ctx, ref, paymentMethodID); err != nil {
		s.logger.Warn("SetDefault: failed for user=%s: %v", userID, err)
		return mapGatewayError("SetDefault", err)
	}
	return nil
}

// mapGatewayError переводит ошибку шлюза в ошибку сервиса, сохраняя исходную в цепочке
func mapGatewayError(op string, err error) error {
	switch {
	case errors.Is(err, stripe.ErrDeclined):
		return fmt.Errorf("%w: %s: %w", ErrDeclined, op, err)
	case errors.Is(err, stripe.ErrNotFound):
		return fmt.Errorf("%w: %s: %w", ErrPaymentMethodNotFound, op, err)
	case errors.Is(err, stripe.ErrInvalidRequest):
		return fmt.Errorf("%w: %s: %w", ErrInvalidInput, op, err)
	case errors.Is(err, stripe.ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %s: %w", ErrGatewayUnavailable, op, err)
	default:
		return fmt.Errorf("%w: %s: %w", ErrInternal, op, err)
	}
}

// storeError отделяет недоступность БД от прочих ошибок хранилища
func storeError(op string, err error) error {
	if errors.Is(err, customerRepo.ErrUnavailable) {
		return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}
