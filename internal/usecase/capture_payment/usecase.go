package capture_payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/m04kA/HomeService-Booking/internal/domain"
	bookingRepo "github.com/m04kA/HomeService-Booking/internal/infra/storage/booking"
	"github.com/m04kA/HomeService-Booking/internal/integrations/events"
	"github.com/m04kA/HomeService-Booking/internal/integrations/stripe"
)

var tracer = otel.Tracer("homeservice.usecase.capture_payment")

const stageCapture = "capture"

// UseCase use case для списания удержанной суммы (действие администратора)
// Повторный вызов для уже списанного бронирования возвращает успех без повторного списания
type UseCase struct {
	bookingRepo BookingRepository
	gateway     PaymentGateway
	publisher   EventPublisher
	metrics     Metrics
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	gateway PaymentGateway,
	publisher EventPublisher,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		gateway:     gateway,
		publisher:   publisher,
		metrics:     metrics,
		logger:      logger,
	}
}

// Execute выполняет use case списания
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	ctx, span := tracer.Start(ctx, "CapturePayment")
	defer span.End()
	span.SetAttributes(attribute.Int64("homeservice.booking_id", req.BookingID))

	// 1. Валидация входных данных
	if req.BookingID <= 0 || strings.TrimSpace(req.PaymentIntentRef) == "" {
		uc.logger.Warn("CapturePayment: invalid request booking=%d, ref=%q", req.BookingID, req.PaymentIntentRef)
		return nil, fmt.Errorf("%w: bookingId and paymentIntentRef are required", ErrInvalidInput)
	}

	uc.logger.Info("CapturePayment: booking=%d, payment_intent=%s", req.BookingID, req.PaymentIntentRef)

	// 2. Получаем бронирование
	booking, err := uc.loadBooking(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	if booking.PaymentIntentRef != req.PaymentIntentRef {
		uc.logger.Warn("CapturePayment: payment intent mismatch for booking=%d: got %s",
			booking.ID, req.PaymentIntentRef)
		return nil, fmt.Errorf("%w: payment intent does not belong to booking %d", ErrInvalidInput, booking.ID)
	}

	// 3. Уже списано
	if booking.Status == domain.StatusPaymentCaptured {
		uc.logger.Info("CapturePayment: booking=%d already captured", booking.ID)
		uc.metrics.IncBookingOutcome(stageCapture, "already_captured")
		return toResponse(booking, true), nil
	}

	if !booking.CanBeCaptured() {
		uc.logger.Warn("CapturePayment: booking=%d in status %s cannot be captured", booking.ID, booking.Status)
		uc.metrics.IncBookingOutcome(stageCapture, "invalid_state")
		return nil, fmt.Errorf("%w: booking status is %s", ErrInvalidState, booking.Status)
	}

	// 4. Списание в шлюзе (или обнаружение, что оно уже было)
	alreadyCaptured, err := uc.captureAtGateway(ctx, booking)
	if err != nil {
		return nil, err
	}

	// 5. Фиксируем статус; при гонке двух списаний второй увидит уже обновленный статус
	err = uc.bookingRepo.UpdateStatusFrom(ctx, booking.ID, domain.StatusPaymentAuthorized, domain.StatusPaymentCaptured)
	if err != nil && !errors.Is(err, bookingRepo.ErrInvalidStatus) {
		uc.logger.Error("CapturePayment: RECONCILIATION captured at gateway but status not saved, booking=%d, payment_intent=%s: %v",
			booking.ID, booking.PaymentIntentRef, err)
		uc.metrics.IncBookingOutcome(stageCapture, "error")
		return nil, storeError("failed to update booking status", err)
	}

	if errors.Is(err, bookingRepo.ErrInvalidStatus) {
		current, loadErr := uc.loadBooking(ctx, booking.ID)
		if loadErr != nil {
			return nil, loadErr
		}
		if current.Status != domain.StatusPaymentCaptured {
			uc.logger.Warn("CapturePayment: booking=%d changed to %s during capture", booking.ID, current.Status)
			return nil, fmt.Errorf("%w: booking status is %s", ErrInvalidState, current.Status)
		}
		uc.metrics.IncBookingOutcome(stageCapture, "already_captured")
		return toResponse(current, true), nil
	}

	booking.Status = domain.StatusPaymentCaptured
	uc.metrics.IncBookingOutcome(stageCapture, "ok")
	uc.logger.Info("CapturePayment: booking=%d captured, repaired=%t", booking.ID, alreadyCaptured)

	uc.publish(ctx, booking)

	return toResponse(booking, alreadyCaptured), nil
}

// captureAtGateway списывает удержание
// Возвращает true, если в шлюзе оно уже было списано (статус в БД отстал)
func (uc *UseCase) captureAtGateway(ctx context.Context, booking *domain.Booking) (bool, error) {
	auth, err := uc.gateway.GetAuthorization(ctx, booking.PaymentIntentRef)
	if err != nil {
		uc.logger.Error("CapturePayment: failed to get payment intent %s: %v", booking.PaymentIntentRef, err)
		return false, uc.mapGatewayError(err)
	}

	switch {
	case auth.IsCaptured():
		uc.logger.Warn("CapturePayment: payment intent %s already succeeded, repairing booking=%d status",
			auth.Ref, booking.ID)
		return true, nil
	case !auth.IsCapturable():
		uc.metrics.IncBookingOutcome(stageCapture, "invalid_state")
		return false, fmt.Errorf("%w: payment intent status is %s", ErrInvalidState, auth.Status)
	}

	captured, err := uc.gateway.Capture(ctx, auth.Ref, fmt.Sprintf("capture-%d", booking.ID))
	if err != nil {
		// Конкурентное списание могло завершиться раньше
		if errors.Is(err, stripe.ErrInvalidState) {
			if current, getErr := uc.gateway.GetAuthorization(ctx, auth.Ref); getErr == nil && current.IsCaptured() {
				return true, nil
			}
		}
		uc.logger.Error("CapturePayment: capture failed for payment intent %s: %v", auth.Ref, err)
		return false, uc.mapGatewayError(err)
	}

	if !captured.IsCaptured() {
		uc.logger.Error("CapturePayment: payment intent %s in status %s after capture", captured.Ref, captured.Status)
		return false, fmt.Errorf("%w: payment intent status is %s after capture", ErrInvalidState, captured.Status)
	}

	return false, nil
}

func (uc *UseCase) loadBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("CapturePayment: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("CapturePayment: failed to get booking id=%d: %v", id, err)
		return nil, storeError("failed to get booking", err)
	}
	return booking, nil
}

func (uc *UseCase) mapGatewayError(err error) error {
	var decline *stripe.DeclineError
	switch {
	case errors.As(err, &decline):
		uc.metrics.IncBookingOutcome(stageCapture, "declined")
		return &DeclinedError{Code: decline.Code, Reason: decline.Reason}
	case errors.Is(err, stripe.ErrDeclined):
		uc.metrics.IncBookingOutcome(stageCapture, "declined")
		return fmt.Errorf("%w: %v", ErrPaymentDeclined, err)
	case errors.Is(err, stripe.ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
		uc.metrics.IncBookingOutcome(stageCapture, "unavailable")
		return fmt.Errorf("%w: %v", ErrPaymentUnavailable, err)
	case errors.Is(err, stripe.ErrInvalidState):
		uc.metrics.IncBookingOutcome(stageCapture, "invalid_state")
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	default:
		uc.metrics.IncBookingOutcome(stageCapture, "error")
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}

func (uc *UseCase) publish(ctx context.Context, booking *domain.Booking) {
	err := uc.publisher.Publish(ctx, events.BookingEvent{
		Type:             events.RoutingBookingCaptured,
		BookingID:        booking.ID,
		UserID:           booking.UserID,
		SelectedDate:     booking.SelectedDate.Format(domain.DateFormat),
		SelectedTime:     booking.SelectedTime,
		Status:           string(booking.Status),
		PaymentIntentRef: booking.PaymentIntentRef,
	})
	if err != nil {
		uc.logger.Warn("CapturePayment: failed to publish event for booking id=%d: %v", booking.ID, err)
	}
}

func toResponse(b *domain.Booking, alreadyCaptured bool) *Response {
	return &Response{
		BookingID:        b.ID,
		PaymentIntentRef: b.PaymentIntentRef,
		Status:           string(b.Status),
		AmountCents:      b.AmountCents,
		Currency:         b.Currency,
		AlreadyCaptured:  alreadyCaptured,
	}
}

// storeError отделяет недоступность БД от прочих ошибок хранилища
func storeError(op string, err error) error {
	if errors.Is(err, bookingRepo.ErrUnavailable) {
		return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}
