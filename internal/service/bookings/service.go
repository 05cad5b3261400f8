package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/HomeService-Booking/internal/domain"
	bookingRepo "github.com/m04kA/HomeService-Booking/internal/infra/storage/booking"
	"github.com/m04kA/HomeService-Booking/internal/integrations/events"
	"github.com/m04kA/HomeService-Booking/internal/service/bookings/models"
)

const releaseTimeout = 15 * time.Second

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo BookingRepository
	jobRepo     JobRepository
	gateway     PaymentGateway
	publisher   EventPublisher
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	jobRepo JobRepository,
	gateway PaymentGateway,
	publisher EventPublisher,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		jobRepo:     jobRepo,
		gateway:     gateway,
		publisher:   publisher,
		txManager:   txManager,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
// Пользователь видит только своё бронирование, администратор видит любое
func (s *Service) GetByID(ctx context.Context, id int64, userID string, isAdmin bool) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%s", id, userID)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if !isAdmin && !booking.IsOwnedBy(userID) {
		s.logger.Warn("GetByID: access denied for user=%s to booking id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя
// Опционально фильтрует по статусу; без фильтра отменённые тоже возвращаются
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%s, status=%v", req.UserID, req.Status)

	filter := domain.BookingsFilter{
		UserID:           &req.UserID,
		IncludeCancelled: true,
	}

	if req.Status != nil {
		status, err := domain.ParseBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%s", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%s: %v", req.UserID, err)
		return nil, storeError("GetUserBookings - repository error", err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%s", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetBookingsForDate получает бронирования на дату (для администратора)
func (s *Service) GetBookingsForDate(ctx context.Context, req *models.GetBookingsForDateRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetBookingsForDate: fetching bookings for date=%s, includeCancelled=%t",
		req.Date.Format(domain.DateFormat), req.IncludeCancelled)

	bookings, err := s.bookingRepo.List(ctx, domain.BookingsFilter{
		Date:             &req.Date,
		IncludeCancelled: req.IncludeCancelled,
	})
	if err != nil {
		s.logger.Error("GetBookingsForDate: repository error for date=%s: %v", req.Date.Format(domain.DateFormat), err)
		return nil, storeError("GetBookingsForDate - repository error", err)
	}

	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование и связанное задание, освобождая слот
// Пользователь может отменить только своё бронирование, администратор любое
// Удержание в платежном шлюзе снимается после фиксации отмены
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%s", bookingID, req.UserID)

	reason := strings.TrimSpace(req.CancellationReason)
	if len(reason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: cancellation reason exceeds %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	booking, err := s.getBooking(ctx, "Cancel", bookingID)
	if err != nil {
		return err
	}

	if !req.IsAdmin && !booking.IsOwnedBy(req.UserID) {
		s.logger.Warn("Cancel: access denied for user=%s to cancel booking id=%d", req.UserID, bookingID)
		return ErrAccessDenied
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return ErrCannotCancel
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.bookingRepo.Cancel(ctx, bookingID, reason); err != nil {
			return err
		}
		return s.jobRepo.CancelByBookingID(ctx, bookingID)
	})
	if err != nil {
		if errors.Is(err, bookingRepo.ErrCannotCancel) {
			s.logger.Warn("Cancel: booking id=%d changed status concurrently", bookingID)
			return ErrCannotCancel
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return storeError("Cancel - repository error", err)
	}

	if booking.HoldsAuthorization() {
		s.releaseHold(ctx, booking)
	}

	booking.Status = domain.StatusCancelled
	if err := s.publisher.Publish(ctx, events.BookingEvent{
		Type:             events.RoutingBookingCancelled,
		BookingID:        booking.ID,
		UserID:           booking.UserID,
		SelectedDate:     booking.SelectedDate.Format(domain.DateFormat),
		SelectedTime:     booking.SelectedTime,
		Status:           string(booking.Status),
		PaymentIntentRef: booking.PaymentIntentRef,
	}); err != nil {
		s.logger.Warn("Cancel: failed to publish event for booking id=%d: %v", bookingID, err)
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d", bookingID)
	return nil
}

// Вспомогательные методы

func (s *Service) getBooking(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, storeError(op+" - repository error", err)
	}
	return booking, nil
}

// releaseHold снимает удержание; при ошибке оно истечет в шлюзе само
func (s *Service) releaseHold(ctx context.Context, booking *domain.Booking) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()

	if err := s.gateway.Release(ctx, booking.PaymentIntentRef); err != nil {
		s.logger.Warn("Cancel: failed to release payment intent %s for booking id=%d: %v",
			booking.PaymentIntentRef, booking.ID, err)
		return
	}
	s.logger.Info("Cancel: released payment intent %s for booking id=%d", booking.PaymentIntentRef, booking.ID)
}

// storeError отделяет недоступность БД от прочих ошибок хранилища
func storeError(op string, err error) error {
	if errors.Is(err, bookingRepo.ErrUnavailable) {
		return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}
