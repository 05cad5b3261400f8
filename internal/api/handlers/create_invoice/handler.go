package create_invoice

import (
	"errors"
	"net/http"

	"github.com/m04kA/HomeService-Booking/internal/api/handlers"
	"github.com/m04kA/HomeService-Booking/internal/service/invoices"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgValidationFailed   = "ошибка валидации запроса"
	msgJobNotFound        = "задание не найдено"
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

// Handle POST /api/v1/admin/invoices
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateInvoiceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/invoices - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if fieldErrors := handlers.ValidateStruct(&req); fieldErrors != nil {
		h.logger.Warn("POST /admin/invoices - Validation failed: %v", fieldErrors)
		handlers.RespondErrorWithDetails(w, http.StatusBadRequest, msgValidationFailed, "validation_failed", fieldErrors)
		return
	}

	result, err := h.service.Create(r.Context(), req.ToServiceRequest())
	if err != nil {
		switch {
		case errors.Is(err, invoices.ErrInvalidInput):
			h.logger.Warn("POST /admin/invoices - Invalid input: job_id=%d, error=%v", req.JobID, err)
			handlers.RespondBadRequest(w, msgValidationFailed)

		case errors.Is(err, invoices.ErrJobNotFound):
			h.logger.Warn("POST /admin/invoices - Job not found: job_id=%d", req.JobID)
			handlers.RespondNotFound(w, msgJobNotFound)

		case errors.Is(err, invoices.ErrStoreUnavailable):
			h.logger.Error("POST /admin/invoices - Storage unavailable: %v", err)
			handlers.RespondServiceUnavailable(w, msgStoreUnavailable)

		default:
			h.logger.Error("POST /admin/invoices - Failed to create invoice: job_id=%d, error=%v", req.JobID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/invoices - Invoice created successfully: invoice_id=%s, job_id=%d",
		result.InvoiceID, req.JobID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
