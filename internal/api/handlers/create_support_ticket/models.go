package create_support_ticket

import (
	"github.com/m04kA/HomeService-Booking/internal/service/support/models"
)

// CreateTicketRequest HTTP request model
type CreateTicketRequest struct {
	JobID        int64  `json:"jobId" validate:"required,gt=0"`
	EnquiryText  string `json:"enquiryText" validate:"required,max=4000"`
	ContactEmail string `json:"contactEmail" validate:"required,email"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CreateTicketRequest) ToServiceRequest(userID string) *models.CreateTicketRequest {
	return &models.CreateTicketRequest{
		UserID:       userID,
		JobID:        r.JobID,
		EnquiryText:  r.EnquiryText,
		ContactEmail: r.ContactEmail,
	}
}
