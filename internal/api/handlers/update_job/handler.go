package update_job

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/HomeService-Booking/internal/api/handlers"
	"github.com/m04kA/HomeService-Booking/internal/service/jobs"
)

const (
	msgInvalidJobID       = "некорректный ID задания"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgValidationFailed   = "ошибка валидации запроса"
	msgNotFound           = "задание не найдено"
	msgJobClosed          = "задание уже закрыто"
	msgStoreUnavailable   = "сервис временно недоступен, повторите попытку"
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

// Handle PATCH /api/v1/admin/jobs/{jobId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	jobID, err := strconv.ParseInt(mux.Vars(r)["jobId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /admin/jobs/{id} - Invalid job ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidJobID)
		return
	}

	var req UpdateJobRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/jobs/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if fieldErrors := handlers.ValidateStruct(&req); fieldErrors != nil {
		h.logger.Warn("PATCH /admin/jobs/{id} - Validation failed: %v", fieldErrors)
		handlers.RespondErrorWithDetails(w, http.StatusBadRequest, msgValidationFailed, "validation_failed", fieldErrors)
		return
	}

	result, err := h.service.UpdateAssignment(r.Context(), jobID, req.ToServiceRequest())
	if err != nil {
		switch {
		case errors.Is(err, jobs.ErrInvalidInput):
			h.logger.Warn("PATCH /admin/jobs/{id} - Invalid input: job_id=%d, error=%v", jobID, err)
			handlers.RespondBadRequest(w, msgValidationFailed)

		case errors.Is(err, jobs.ErrJobNotFound):
			h.logger.Warn("PATCH /admin/jobs/{id} - Job not found: job_id=%d", jobID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, jobs.ErrJobClosed):
			h.logger.Warn("PATCH /admin/jobs/{id} - Job closed: job_id=%d", jobID)
			handlers.RespondConflict(w, msgJobClosed)

		case errors.Is(err, jobs.ErrStoreUnavailable):
			h.logger.Error("PATCH /admin/jobs/{id} - Storage unavailable: %v", err)
			handlers.RespondServiceUnavailable(w, msgStoreUnavailable)

		default:
			h.logger.Error("PATCH /admin/jobs/{id} - Failed to update job: job_id=%d, error=%v", jobID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /admin/jobs/{id} - Job updated successfully: job_id=%d, status=%s", jobID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}
