package create_support_ticket

import (
	"errors"
	"net/http"

	"github.com/m04kA/HomeService-Booking/internal/api/handlers"
	"github.com/m04kA/HomeService-Booking/internal/api/middleware"
	"github.com/m04kA/HomeService-Booking/internal/service/support"
)

const (
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgValidationFailed   = "ошибка валидации запроса"
	msgJobNotFound        = "задание не найдено"
	msgForbidden          = "доступ запрещен"
	msgStoreUnavailable   = "сервис временно недоступен, повторите попытку"
)

type Handler struct {
	service SupportService
	logger  Logger
}

func NewHandler(service SupportService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/support-tickets
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /support-tickets - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateTicketRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /support-tickets - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if fieldErrors := handlers.ValidateStruct(&req); fieldErrors != nil {
		h.logger.Warn("POST /support-tickets - Validation failed: user_id=%s, fields=%v", userID, fieldErrors)
		handlers.RespondErrorWithDetails(w, http.StatusBadRequest, msgValidationFailed, "validation_failed", fieldErrors)
		return
	}

	result, err := h.service.Create(r.Context(), req.ToServiceRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, support.ErrInvalidInput):
			h.logger.Warn("POST /support-tickets - Invalid input: user_id=%s, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgValidationFailed)

		case errors.Is(err, support.ErrJobNotFound):
			h.logger.Warn("POST /support-tickets - Job not found: job_id=%d", req.JobID)
			handlers.RespondNotFound(w, msgJobNotFound)

		case errors.Is(err, support.ErrAccessDenied):
			h.logger.Warn("POST /support-tickets - Access denied: job_id=%d, user_id=%s", req.JobID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, support.ErrStoreUnavailable):
			h.logger.Error("POST /support-tickets - Storage unavailable: %v", err)
			handlers.RespondServiceUnavailable(w, msgStoreUnavailable)

		default:
			h.logger.Error("POST /support-tickets - Failed to create ticket: user_id=%s, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /support-tickets - Ticket created successfully: ticket_id=%d, user_id=%s", result.ID, userID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
