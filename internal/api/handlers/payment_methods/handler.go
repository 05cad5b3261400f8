package payment_methods

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/HomeService-Booking/internal/api/handlers"
	"github.com/m04kA/HomeService-Booking/internal/api/middleware"
	"github.com/m04kA/HomeService-Booking/internal/service/payments"
)

const (
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgValidationFailed   = "ошибка валидации запроса"
	msgNotFound           = "карта не найдена"
	msgDeclined           = "карта отклонена"
	msgGatewayUnavailable = "платежный сервис временно недоступен, повторите попытку"
	msgStoreUnavailable   = "сервис временно недоступен, повторите попытку"
)

// Handler управление сохраненными картами текущего пользователя
type Handler struct {
	service PaymentService
	logger  Logger
}

func NewHandler(service PaymentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// List GET /api/v1/payment-methods
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /payment-methods - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.List(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, "GET /payment-methods", userID, err)
		return
	}

	h.logger.Info("GET /payment-methods - Payment methods retrieved: user_id=%s, count=%d",
		userID, len(result.PaymentMethods))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Add POST /api/v1/payment-methods
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /payment-methods - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req AddPaymentMethodRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /payment-methods - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if fieldErrors := handlers.ValidateStruct(&req); fieldErrors != nil {
		h.logger.Warn("POST /payment-methods - Validation failed: user_id=%s, fields=%v", userID, fieldErrors)
		handlers.RespondErrorWithDetails(w, http.StatusBadRequest, msgValidationFailed, "validation_failed", fieldErrors)
		return
	}

	result, err := h.service.Add(r.Context(), req.ToServiceRequest(userID))
	if err != nil {
		h.respondServiceError(w, "POST /payment-methods", userID, err)
		return
	}

	h.logger.Info("POST /payment-methods - Payment method saved: user_id=%s, default=%t", userID, result.IsDefault)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// Remove DELETE /api/v1/payment-methods/{paymentMethodId}
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /payment-methods/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	paymentMethodID := mux.Vars(r)["paymentMethodId"]
	if err := h.service.Remove(r.Context(), userID, paymentMethodID); err != nil {
		h.respondServiceError(w, "DELETE /payment-methods/{id}", userID, err)
		return
	}

	h.logger.Info("DELETE /payment-methods/{id} - Payment method removed: user_id=%s", userID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

// SetDefault PUT /api/v1/payment-methods/{paymentMethodId}/default
func (h *Handler) SetDefault(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /payment-methods/{id}/default - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	paymentMethodID := mux.Vars(r)["paymentMethodId"]
	if err := h.service.SetDefault(r.Context(), userID, paymentMethodID); err != nil {
		h.respondServiceError(w, "PUT /payment-methods/{id}/default", userID, err)
		return
	}

	h.logger.Info("PUT /payment-methods/{id}/default - Default payment method set: user_id=%s", userID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, route, userID string, err error) {
	switch {
	case errors.Is(err, payments.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: user_id=%s, error=%v", route, userID, err)
		handlers.RespondBadRequest(w, msgValidationFailed)

	case errors.Is(err, payments.ErrPaymentMethodNotFound):
		h.logger.Warn("%s - Payment method not found: user_id=%s", route, userID)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, payments.ErrDeclined):
		h.logger.Warn("%s - Payment method declined: user_id=%s, error=%v", route, userID, err)
		handlers.RespondError(w, http.StatusPaymentRequired, msgDeclined)

	case errors.Is(err, payments.ErrGatewayUnavailable):
		h.logger.Warn("%s - Gateway unavailable: user_id=%s", route, userID)
		handlers.RespondServiceUnavailable(w, msgGatewayUnavailable)

	case errors.Is(err, payments.ErrStoreUnavailable):
		h.logger.Error("%s - Storage unavailable: user_id=%s, error=%v", route, userID, err)
		handlers.RespondServiceUnavailable(w, msgStoreUnavailable)

	default:
		h.logger.Error("%s - Failed: user_id=%s, error=%v", route, userID, err)
		handlers.RespondInternalError(w)
	}
}
