package get_support_tickets

import (
	"errors"
	"net/http"

	"github.com/m04kA/HomeService-Booking/internal/api/handlers"
	"github.com/m04kA/HomeService-Booking/internal/api/middleware"
	"github.com/m04kA/HomeService-Booking/internal/service/support"
)

const (
	msgMissingUserID    = "отсутствует ID пользователя"
	msgStoreUnavailable = "сервис временно недоступен, повторите попытку"
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

// Handle GET /api/v1/support-tickets
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /support-tickets - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, support.ErrStoreUnavailable) {
			h.logger.Error("GET /support-tickets - Storage unavailable: %v", err)
			handlers.RespondServiceUnavailable(w, msgStoreUnavailable)
			return
		}
		h.logger.Error("GET /support-tickets - Failed to get tickets: user_id=%s, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /support-tickets - Tickets retrieved successfully: user_id=%s, count=%d", userID, len(result.Tickets))
	handlers.RespondJSON(w, http.StatusOK, result)
}
