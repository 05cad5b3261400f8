package get_available_slots

import (
	"time"

	"github.com/m04kA/HomeService-Booking/internal/domain"
	getAvailableSlots "github.com/m04kA/HomeService-Booking/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date        string            `json:"date"`
	Available   []string          `json:"available"`
	Unavailable []UnavailableSlot `json:"unavailable"`
	NoCapacity  bool              `json:"noCapacity"`
}

// UnavailableSlot недоступный слот с причиной
type UnavailableSlot struct {
	Time   string `json:"time"`
	Reason string `json:"reason"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	available := make([]string, len(resp.Available))
	for i, slot := range resp.Available {
		available[i] = slot.Label
	}

	unavailable := make([]UnavailableSlot, len(resp.Unavailable))
	for i, slot := range resp.Unavailable {
		unavailable[i] = UnavailableSlot{Time: slot.Label, Reason: slot.Reason}
	}

	return &AvailableSlotsResponse{
		Date:        resp.Date.Format(domain.DateFormat),
		Available:   available,
		Unavailable: unavailable,
		NoCapacity:  resp.NoCapacity,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{Date: date}, nil
}
