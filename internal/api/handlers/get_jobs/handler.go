package get_jobs

import (
	"errors"
	"net/http"

	"github.com/m04kA/HomeService-Booking/internal/api/handlers"
	"github.com/m04kA/HomeService-Booking/internal/api/middleware"
	"github.com/m04kA/HomeService-Booking/internal/service/jobs"
)

const (
	msgMissingUserID    = "отсутствует ID пользователя"
	msgStoreUnavailable = "сервис временно недоступен, повторите попытку"
)

type Handler struct {
	service JobService
	logger  Logger
}

func NewHandler(service JobService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/jobs
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /jobs - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, jobs.ErrStoreUnavailable) {
			h.logger.Error("GET /jobs - Storage unavailable: %v", err)
			handlers.RespondServiceUnavailable(w, msgStoreUnavailable)
			return
		}
		h.logger.Error("GET /jobs - Failed to get jobs: user_id=%s, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /jobs - Jobs retrieved successfully: user_id=%s, count=%d", userID, len(result.Jobs))
	handlers.RespondJSON(w, http.StatusOK, result)
}
