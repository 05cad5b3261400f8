package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/HomeService-Booking/internal/calendar"
	"github.com/m04kA/HomeService-Booking/internal/domain"
	"github.com/m04kA/HomeService-Booking/pkg/pgerr"
)

// UseCase use case для получения слотов на дату
type UseCase struct {
	bookingRepo  BookingRepository
	rules        calendar.Rules
	advanceDays  int
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
// location - часовой пояс бизнеса, в нем считаются "сегодня" и текущий час
func NewUseCase(
	bookingRepo BookingRepository,
	rules calendar.Rules,
	advanceDays int,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		rules:        rules,
		advanceDays:  advanceDays,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("GetAvailableSlots: date=%s", req.Date.Format(domain.DateFormat))

	// 2. Текущее время в часовом поясе бизнеса
	now := uc.timeProvider.Now().In(uc.location)

	// 3. Валидация даты
	if err := validateDate(req.Date, now, uc.advanceDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 4. Получаем активные бронирования на дату
	date := req.Date
	bookings, err := uc.bookingRepo.List(ctx, domain.BookingsFilter{Date: &date})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, storeError("failed to get bookings", err)
	}

	booked := make([]string, 0, len(bookings))
	for _, b := range bookings {
		booked = append(booked, b.SelectedTime)
	}

	// 5. Вычисляем доступность
	availability := calendar.Compute(req.Date, now, booked, uc.rules)

	uc.logger.Info("GetAvailableSlots: date=%s, booked=%d, available=%d, noCapacity=%t",
		req.Date.Format(domain.DateFormat), len(booked), len(availability.Available), availability.NoCapacity)

	return toResponse(availability), nil
}

func toResponse(a calendar.Availability) *Response {
	resp := &Response{
		Date:        a.Date,
		Available:   make([]Slot, 0, len(a.Available)),
		Unavailable: make([]UnavailableSlot, 0, len(a.Unavailable)),
		NoCapacity:  a.NoCapacity,
	}

	for _, s := range a.Available {
		resp.Available = append(resp.Available, Slot{Label: s.Label, StartHour: s.StartHour})
	}
	for _, u := range a.Unavailable {
		resp.Unavailable = append(resp.Unavailable, UnavailableSlot{
			Slot:   Slot{Label: u.Slot.Label, StartHour: u.Slot.StartHour},
			Reason: string(u.Reason),
		})
	}

	return resp
}

// storeError отделяет недоступность БД от прочих ошибок хранилища
func storeError(op string, err error) error {
	if errors.Is(err, pgerr.ErrUnavailable) {
		return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}
