package get_bookings_for_date

import (
	"errors"
	"net/http"

	"github.com/m04kA/HomeService-Booking/internal/api/handlers"
	"github.com/m04kA/HomeService-Booking/internal/service/bookings"
)

const (
	msgInvalidParams    = "некорректные параметры запроса, ожидается date=YYYY-MM-DD"
	msgStoreUnavailable = "сервис временно недоступен, повторите попытку"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/bookings?date=YYYY-MM-DD&includeCancelled=false
// Доступ проверяет middleware RequireAdmin
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")

	serviceReq, err := ToServiceRequest(dateStr, r.URL.Query().Get("includeCancelled"))
	if err != nil {
		h.logger.Warn("GET /admin/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.GetBookingsForDate(r.Context(), serviceReq)
	if err != nil {
		if errors.Is(err, bookings.ErrStoreUnavailable) {
			h.logger.Error("GET /admin/bookings - Storage unavailable: %v", err)
			handlers.RespondServiceUnavailable(w, msgStoreUnavailable)
			return
		}
		h.logger.Error("GET /admin/bookings - Failed to get bookings: date=%s, error=%v", dateStr, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /admin/bookings - Bookings retrieved successfully: date=%s, count=%d",
		dateStr, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
