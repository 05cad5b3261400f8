package get_invoices

import (
	"errors"
	"net/http"

	"github.com/m04kA/HomeService-Booking/internal/api/handlers"
	"github.com/m04kA/HomeService-Booking/internal/api/middleware"
	"github.com/m04kA/HomeService-Booking/internal/service/invoices"
)

const (
	msgMissingUserID    = "отсутствует ID пользователя"
	msgStoreUnavailable = "сервис временно недоступен, повторите попытку"
)

type Handler struct {
	service InvoiceService
	logger  Logger
}

func NewHandler(service InvoiceService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/invoices
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /invoices - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, invoices.ErrStoreUnavailable) {
			h.logger.Error("GET /invoices - Storage unavailable: %v", err)
			handlers.RespondServiceUnavailable(w, msgStoreUnavailable)
			return
		}
		h.logger.Error("GET /invoices - Failed to get invoices: user_id=%s, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /invoices - Invoices retrieved successfully: user_id=%s, count=%d", userID, len(result.Invoices))
	handlers.RespondJSON(w, http.StatusOK, result)
}
