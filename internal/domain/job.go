package domain

import "time"

// JobStatus represents the dispatch state of a job
type JobStatus string

const (
	JobScheduled  JobStatus = "Scheduled"
	JobInProgress JobStatus = "InProgress"
	JobCompleted  JobStatus = "Completed"
	JobCancelled  JobStatus = "Cancelled"
)

// ParseJobStatus validates a job status string
func ParseJobStatus(s string) (JobStatus, error) {
	switch status := JobStatus(s); status {
	case JobScheduled, JobInProgress, JobCompleted, JobCancelled:
		return status, nil
	}
	return "", ErrInvalidStatus
}

// Job is the dispatch-facing unit of work created from a booking
type Job struct {
	ID                   int64
	BookingID            int64
	UserID               string
	HelperID             *string // assigned by admin
	AppointmentDate      time.Time
	AppointmentTimeSlot  string
	AppointmentTimestamp time.Time // slot start in the business location
	Location             string
	IssueDescription     string
	Status               JobStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOwnedBy returns true if the job belongs to the user
func (j *Job) IsOwnedBy(userID string) bool {
	return j.UserID == userID
}

// IsClosed returns true if the job can no longer change status
func (j *Job) IsClosed() bool {
	return j.Status == JobCompleted || j.Status == JobCancelled
}

// AppointmentStart derives the slot start instant for a date in loc
func AppointmentStart(date time.Time, slot Slot, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), slot.StartHour, 0, 0, 0, loc)
}
