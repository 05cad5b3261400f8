package create_booking

import (
	"strconv"
	"time"

	"github.com/m04kA/HomeService-Booking/internal/domain"
	createBooking "github.com/m04kA/HomeService-Booking/internal/usecase/create_booking"
	"github.com/m04kA/HomeService-Booking/pkg/money"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	SelectedDate        string  `json:"selectedDate" validate:"required,date"` // "2025-06-11"
	SelectedTime        string  `json:"selectedTime" validate:"required,slot"` // "11-12"
	Address             string  `json:"address" validate:"required,max=500"`
	IssueDescription    string  `json:"issueDescription" validate:"required,max=2000"`
	ArrivalInstructions *string `json:"arrivalInstructions,omitempty" validate:"omitempty,max=1000"`
	PaymentMethodID     *string `json:"paymentMethodId,omitempty" validate:"omitempty,startswith=pm_"`
	SavePaymentMethod   bool    `json:"savePaymentMethod"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID                  int64   `json:"id"`
	JobID               int64   `json:"jobId"`
	UserID              string  `json:"userId"`
	SelectedDate        string  `json:"selectedDate"`
	SelectedTime        string  `json:"selectedTime"`
	Address             string  `json:"address"`
	IssueDescription    string  `json:"issueDescription"`
	ArrivalInstructions *string `json:"arrivalInstructions,omitempty"`
	PaymentIntentRef    string  `json:"paymentIntentRef"`
	Amount              string  `json:"amount"`
	Currency            string  `json:"currency"`
	Status              string  `json:"status"`
	AppointmentAt       string  `json:"appointmentAt"`
	CreatedAt           string  `json:"createdAt"`
	UpdatedAt           string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID string) (*createBooking.Request, error) {
	selectedDate, err := time.Parse(domain.DateFormat, r.SelectedDate)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		UserID:              userID,
		Date:                selectedDate,
		Time:                r.SelectedTime,
		Address:             r.Address,
		IssueDescription:    r.IssueDescription,
		ArrivalInstructions: r.ArrivalInstructions,
		PaymentMethodID:     r.PaymentMethodID,
		SavePaymentMethod:   r.SavePaymentMethod,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:                  resp.ID,
		JobID:               resp.JobID,
		UserID:              resp.UserID,
		SelectedDate:        resp.SelectedDate.Format(domain.DateFormat),
		SelectedTime:        resp.SelectedTime,
		Address:             resp.Address,
		IssueDescription:    resp.IssueDescription,
		ArrivalInstructions: resp.ArrivalInstructions,
		PaymentIntentRef:    resp.PaymentIntentRef,
		Amount:              money.FormatCents(resp.AmountCents),
		Currency:            resp.Currency,
		Status:              resp.Status,
		AppointmentAt:       resp.AppointmentAt.Format(time.RFC3339),
		CreatedAt:           resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           resp.UpdatedAt.Format(time.RFC3339),
	}
}

func caseDetails(caseID int64) map[string]string {
	if caseID == 0 {
		return nil
	}
	return map[string]string{"reconciliationCaseId": strconv.FormatInt(caseID, 10)}
}
