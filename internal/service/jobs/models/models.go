package models

import (
	"time"

	"github.com/m04kA/HomeService-Booking/internal/domain"
)

// UpdateJobRequest запрос администратора на назначение исполнителя или смену статуса
type UpdateJobRequest struct {
	HelperID *string `json:"helperId,omitempty"`
	Status   *string `json:"status,omitempty"`
}

// JobResponse ответ с данными задания
type JobResponse struct {
	ID                   int64     `json:"id"`
	BookingID            int64     `json:"bookingId"`
	UserID               string    `json:"userId"`
	HelperID             *string   `json:"helperId,omitempty"`
	AppointmentDate      string    `json:"appointmentDate"`
	AppointmentTimeSlot  string    `json:"appointmentTimeSlot"`
	AppointmentTimestamp time.Time `json:"appointmentTimestamp"`
	Location             string    `json:"location"`
	IssueDescription     string    `json:"issueDescription"`
	Status               string    `json:"status"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// JobListResponse ответ со списком заданий
type JobListResponse struct {
	Jobs []JobResponse `json:"jobs"`
}

// FromDomainJob конвертирует domain модель в DTO
func FromDomainJob(j *domain.Job) *JobResponse {
	if j == nil {
		return nil
	}

	return &JobResponse{
		ID:                   j.ID,
		BookingID:            j.BookingID,
		UserID:               j.UserID,
		HelperID:             j.HelperID,
		AppointmentDate:      j.AppointmentDate.Format(domain.DateFormat),
		AppointmentTimeSlot:  j.AppointmentTimeSlot,
		AppointmentTimestamp: j.AppointmentTimestamp,
		Location:             j.Location,
		IssueDescription:     j.IssueDescription,
		Status:               string(j.Status),
		CreatedAt:            j.CreatedAt,
		UpdatedAt:            j.UpdatedAt,
	}
}

// FromDomainJobList конвертирует список domain моделей в DTO
func FromDomainJobList(jobs []*domain.Job) *JobListResponse {
	resp := &JobListResponse{Jobs: make([]JobResponse, 0, len(jobs))}
	for _, j := range jobs {
		resp.Jobs = append(resp.Jobs, *FromDomainJob(j))
	}
	return resp
}
