package get_reconciliation_cases

import (
	"errors"
	"net/http"

	"github.com/m04kA/HomeService-Booking/internal/api/handlers"
	"github.com/m04kA/HomeService-Booking/internal/service/reconciliation"
)

const (
	msgStoreUnavailable = "сервис временно недоступен, повторите попытку"
)

type Handler struct {
	service ReconciliationService
	logger  Logger
}

func NewHandler(service ReconciliationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/reconciliation
// Открытые случаи расхождения платежа и бронирования
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ListOpen(r.Context())
	if err != nil {
		if errors.Is(err, reconciliation.ErrStoreUnavailable) {
			h.logger.Error("GET /admin/reconciliation - Storage unavailable: %v", err)
			handlers.RespondServiceUnavailable(w, msgStoreUnavailable)
			return
		}
		h.logger.Error("GET /admin/reconciliation - Failed to list cases: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /admin/reconciliation - Open cases retrieved: count=%d", len(result.Cases))
	handlers.RespondJSON(w, http.StatusOK, result)
}
