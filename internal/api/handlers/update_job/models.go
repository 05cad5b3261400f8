package update_job

import (
	"github.com/m04kA/HomeService-Booking/internal/service/jobs/models"
)

// UpdateJobRequest HTTP request model
type UpdateJobRequest struct {
	HelperID *string `json:"helperId,omitempty" validate:"omitempty,max=128"`
	Status   *string `json:"status,omitempty" validate:"omitempty,oneof=Scheduled InProgress Completed Cancelled"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateJobRequest) ToServiceRequest() *models.UpdateJobRequest {
	return &models.UpdateJobRequest{
		HelperID: r.HelperID,
		Status:   r.Status,
	}
}
