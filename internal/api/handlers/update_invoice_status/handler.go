package update_invoice_status

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/HomeService-Booking/internal/api/handlers"
	"github.com/m04kA/HomeService-Booking/internal/service/invoices"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgValidationFailed   = "ошибка валидации запроса"
	msgNotFound           = "счет не найден"
	msgStoreUnavailable   = "сервис временно недоступен, повторите попытку"
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

// Handle PATCH /api/v1/admin/invoices/{invoiceId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	invoiceID := mux.Vars(r)["invoiceId"]

	var req UpdateInvoiceStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/invoices/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if fieldErrors := handlers.ValidateStruct(&req); fieldErrors != nil {
		h.logger.Warn("PATCH /admin/invoices/{id}/status - Validation failed: %v", fieldErrors)
		handlers.RespondErrorWithDetails(w, http.StatusBadRequest, msgValidationFailed, "validation_failed", fieldErrors)
		return
	}

	result, err := h.service.UpdateStatus(r.Context(), invoiceID, req.ToServiceRequest())
	if err != nil {
		switch {
		case errors.Is(err, invoices.ErrInvalidInput):
			h.logger.Warn("PATCH /admin/invoices/{id}/status - Invalid input: invoice_id=%s, error=%v", invoiceID, err)
			handlers.RespondBadRequest(w, msgValidationFailed)

		case errors.Is(err, invoices.ErrInvoiceNotFound):
			h.logger.Warn("PATCH /admin/invoices/{id}/status - Invoice not found: invoice_id=%s", invoiceID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, invoices.ErrStoreUnavailable):
			h.logger.Error("PATCH /admin/invoices/{id}/status - Storage unavailable: %v", err)
			handlers.RespondServiceUnavailable(w, msgStoreUnavailable)

		default:
			h.logger.Error("PATCH /admin/invoices/{id}/status - Failed to update invoice: invoice_id=%s, error=%v",
				invoiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /admin/invoices/{id}/status - Invoice updated: invoice_id=%s, status=%s",
		invoiceID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}
