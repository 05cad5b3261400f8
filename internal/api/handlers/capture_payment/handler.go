package capture_payment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/HomeService-Booking/internal/api/handlers"
	capturePayment "github.com/m04kA/HomeService-Booking/internal/usecase/capture_payment"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgValidationFailed   = "ошибка валидации запроса"
	msgRefMismatch        = "платеж не относится к бронированию"
	msgNotFound           = "бронирование не найдено"
	msgCaptureDeclined    = "списание отклонено платежной системой"
	msgNotCapturable      = "удержание не может быть списано"
	msgPaymentUnavailable = "платежный сервис временно недоступен, повторите попытку"
	msgStoreUnavailable   = "сервис временно недоступен, повторите попытку"
)

type Handler struct {
	useCase CapturePaymentUseCase
	logger  Logger
}

func NewHandler(useCase CapturePaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/admin/bookings/{bookingId}/capture
// Повторный вызов для уже списанного платежа возвращает 200 с alreadyCaptured=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /admin/bookings/{id}/capture - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req CapturePaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/bookings/{id}/capture - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if fieldErrors := handlers.ValidateStruct(&req); fieldErrors != nil {
		h.logger.Warn("POST /admin/bookings/{id}/capture - Validation failed: %v", fieldErrors)
		handlers.RespondErrorWithDetails(w, http.StatusBadRequest, msgValidationFailed, "validation_failed", fieldErrors)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(bookingID))
	if err != nil {
		var declined *capturePayment.DeclinedError
		switch {
		case errors.Is(err, capturePayment.ErrInvalidInput):
			h.logger.Warn("POST /admin/bookings/{id}/capture - Payment reference mismatch: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgRefMismatch)

		case errors.Is(err, capturePayment.ErrBookingNotFound):
			h.logger.Warn("POST /admin/bookings/{id}/capture - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.As(err, &declined):
			h.logger.Warn("POST /admin/bookings/{id}/capture - Capture declined: booking_id=%d, code=%s, reason=%s",
				bookingID, declined.Code, declined.Reason)
			handlers.RespondErrorWithDetails(w, http.StatusPaymentRequired, msgCaptureDeclined, declineCode(declined.Code),
				map[string]string{"reason": declined.Reason})

		case errors.Is(err, capturePayment.ErrPaymentDeclined):
			h.logger.Warn("POST /admin/bookings/{id}/capture - Capture declined: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondError(w, http.StatusPaymentRequired, msgCaptureDeclined)

		case errors.Is(err, capturePayment.ErrInvalidState):
			h.logger.Warn("POST /admin/bookings/{id}/capture - Not capturable: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondConflict(w, msgNotCapturable)

		case errors.Is(err, capturePayment.ErrPaymentUnavailable):
			h.logger.Warn("POST /admin/bookings/{id}/capture - Gateway unavailable: booking_id=%d", bookingID)
			handlers.RespondServiceUnavailable(w, msgPaymentUnavailable)

		case errors.Is(err, capturePayment.ErrStoreUnavailable):
			h.logger.Error("POST /admin/bookings/{id}/capture - Storage unavailable: %v", err)
			handlers.RespondServiceUnavailable(w, msgStoreUnavailable)

		default:
			h.logger.Error("POST /admin/bookings/{id}/capture - Failed to capture: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/bookings/{id}/capture - Payment captured: booking_id=%d, already_captured=%t",
		bookingID, result.AlreadyCaptured)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

func declineCode(code string) string {
	if code == "" {
		return "capture_declined"
	}
	return code
}
