package get_available_slots

import (
	"time"
)

// Request модель запроса на получение слотов
type Request struct {
	Date time.Time // Дата (без времени)
}

// Response модель ответа со слотами на дату
type Response struct {
	Date        time.Time
	Available   []Slot
	Unavailable []UnavailableSlot
	// NoCapacity все слоты на дату недоступны
	NoCapacity bool
}

// Slot модель слота
type Slot struct {
	Label     string // "11-12"
	StartHour int    // 11
}

// UnavailableSlot недоступный слот с причиной
type UnavailableSlot struct {
	Slot
	Reason string // booked, buffer, too_soon, too_late
}
