package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/HomeService-Booking/internal/api/handlers"
	"github.com/m04kA/HomeService-Booking/internal/api/middleware"
	createBooking "github.com/m04kA/HomeService-Booking/internal/usecase/create_booking"
)

const (
	msgUnauthorized       = "пользователь не авторизован"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgValidationFailed   = "ошибка валидации запроса"
	msgInvalidDate        = "некорректный формат даты бронирования, ожидается YYYY-MM-DD"
	msgInvalidBookingDate = "некорректная дата бронирования"
	msgDateTooFar         = "дата бронирования слишком далеко в будущем"
	msgNoPaymentMethod    = "не указана карта и нет карты по умолчанию"
	msgSlotNotAvailable   = "выбранный временной слот недоступен"
	msgPaymentDeclined    = "платеж отклонен"
	msgPaymentUnavailable = "платежный сервис временно недоступен, повторите попытку"
	msgInconsistent       = "бронирование не сохранено, удержание передано на ручную проверку"
	msgStoreUnavailable   = "сервис временно недоступен, повторите попытку"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Unauthorized")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if fieldErrors := handlers.ValidateStruct(&req); fieldErrors != nil {
		h.logger.Warn("POST /bookings - Validation failed: user_id=%s, fields=%v", userID, fieldErrors)
		handlers.RespondErrorWithDetails(w, http.StatusBadRequest, msgValidationFailed, "validation_failed", fieldErrors)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var declined *createBooking.DeclinedError
		var inconsistent *createBooking.InconsistentError

		switch {
		case errors.Is(err, createBooking.ErrSlotUnavailable):
			h.logger.Warn("POST /bookings - Slot not available: user_id=%s, date=%s, time=%s",
				userID, req.SelectedDate, req.SelectedTime)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.As(err, &declined):
			h.logger.Warn("POST /bookings - Payment declined: user_id=%s, code=%s", userID, declined.Code)
			handlers.RespondErrorWithDetails(w, http.StatusPaymentRequired, msgPaymentDeclined, declined.Code,
				map[string]string{"reason": declined.Reason})

		case errors.Is(err, createBooking.ErrPaymentDeclined):
			h.logger.Warn("POST /bookings - Payment declined: user_id=%s", userID)
			handlers.RespondError(w, http.StatusPaymentRequired, msgPaymentDeclined)

		case errors.Is(err, createBooking.ErrPaymentUnavailable):
			h.logger.Warn("POST /bookings - Payment gateway unavailable: user_id=%s, error=%v", userID, err)
			handlers.RespondServiceUnavailable(w, msgPaymentUnavailable)

		case errors.As(err, &inconsistent):
			h.logger.Error("POST /bookings - Inconsistent state: user_id=%s, error=%v", userID, err)
			handlers.RespondErrorWithDetails(w, http.StatusInternalServerError, msgInconsistent, "inconsistent",
				caseDetails(inconsistent.CaseID))

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Invalid booking date: user_id=%s, date=%s", userID, req.SelectedDate)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, createBooking.ErrDateTooFarInFuture):
			h.logger.Warn("POST /bookings - Date too far in future: user_id=%s, date=%s", userID, req.SelectedDate)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createBooking.ErrNoPaymentMethod):
			h.logger.Warn("POST /bookings - No payment method: user_id=%s", userID)
			handlers.RespondBadRequest(w, msgNoPaymentMethod)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user_id=%s, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgValidationFailed)

		case errors.Is(err, createBooking.ErrStoreUnavailable):
			h.logger.Error("POST /bookings - Storage unavailable: %v", err)
			handlers.RespondServiceUnavailable(w, msgStoreUnavailable)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%s, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, job_id=%d, user_id=%s",
		result.ID, result.JobID, userID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
