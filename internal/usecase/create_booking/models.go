package create_booking

import (
	"time"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID              string
	Date                time.Time // Дата (без времени)
	Time                string    // Метка слота, например "11-12"
	Address             string
	IssueDescription    string
	ArrivalInstructions *string
	// PaymentMethodID новая карта; если nil, используется карта по умолчанию
	PaymentMethodID   *string
	SavePaymentMethod bool
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID                  int64
	JobID               int64
	UserID              string
	SelectedDate        time.Time
	SelectedTime        string
	Address             string
	IssueDescription    string
	ArrivalInstructions *string
	PaymentIntentRef    string
	AmountCents         int64
	Currency            string
	Status              string
	AppointmentAt       time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Options параметры бронирования из конфигурации
type Options struct {
	AdvanceDays  int
	DepositCents int64
	Currency     string
	Location     *time.Location
}
