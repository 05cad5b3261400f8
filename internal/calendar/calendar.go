// Package calendar вычисляет доступность слотов на дату.
// Только чистые функции: текущее время и бронирования передаются вызывающим.
package calendar

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/HomeService-Booking/internal/domain"
)

var (
	// ErrSlotNotOffered слот отсутствует в сетке на этот день недели
	ErrSlotNotOffered = errors.New("calendar: slot is not offered on this date")

	// ErrSlotBlocked слот занят или попадает в буфер соседнего бронирования
	ErrSlotBlocked = errors.New("calendar: slot is blocked by an existing booking")

	// ErrTooSoon слот на сегодня начинается раньше, чем через LeadTimeHours
	ErrTooSoon = errors.New("calendar: slot starts too soon")

	// ErrTooLate слот на сегодня начинается в CutoffHour или позже
	ErrTooLate = errors.New("calendar: slot starts after the same-day cutoff")

	// ErrPastDate дата уже прошла
	ErrPastDate = errors.New("calendar: date is in the past")
)

// Reason причина недоступности слота
type Reason string

const (
	ReasonBooked  Reason = "booked"
	ReasonBuffer  Reason = "buffer"
	ReasonTooSoon Reason = "too_soon"
	ReasonTooLate Reason = "too_late"
	ReasonPast    Reason = "past"
)

// Rules параметры правил календаря
type Rules struct {
	LeadTimeHours int
	CutoffHour    int
	BufferSlots   int
}

// DefaultRules 3 часа на подготовку, без записи на сегодня после 17:00, буфер 2 слота
func DefaultRules() Rules {
	return Rules{
		LeadTimeHours: domain.DefaultLeadTimeHours,
		CutoffHour:    domain.DefaultCutoffHour,
		BufferSlots:   domain.DefaultBufferSlots,
	}
}

// UnavailableSlot слот, недоступный для бронирования
type UnavailableSlot struct {
	Slot   domain.Slot
	Reason Reason
}

// Availability доступность слотов на дату
type Availability struct {
	Date        time.Time
	Available   []domain.Slot
	Unavailable []UnavailableSlot
	// NoCapacity на дату не осталось ни одного слота (дата при этом существует)
	NoCapacity bool
}

// Grid возвращает сетку слотов для даты
// В субботу и воскресенье первый слот ("9-10") не предлагается
func Grid(date time.Time) []domain.Slot {
	grid := domain.SlotGrid
	if isWeekend(date) {
		grid = grid[1:]
	}

	result := make([]domain.Slot, len(grid))
	copy(result, grid)
	return result
}

// Compute вычисляет доступные и недоступные слоты на date
// now должен быть в часовом поясе бизнеса; bookedLabels - слоты неотменённых бронирований на date
func Compute(date, now time.Time, bookedLabels []string, rules Rules) Availability {
	grid := Grid(date)
	blocked := blockedSlots(bookedLabels, rules.BufferSlots)

	result := Availability{
		Date:        date,
		Available:   make([]domain.Slot, 0, len(grid)),
		Unavailable: make([]UnavailableSlot, 0),
	}

	for _, slot := range grid {
		if reason, ok := unavailableReason(slot, date, now, blocked, rules); ok {
			result.Unavailable = append(result.Unavailable, UnavailableSlot{Slot: slot, Reason: reason})
			continue
		}
		result.Available = append(result.Available, slot)
	}

	sort.Slice(result.Available, func(i, j int) bool {
		return result.Available[i].StartHour < result.Available[j].StartHour
	})
	sort.Slice(result.Unavailable, func(i, j int) bool {
		return result.Unavailable[i].Slot.StartHour < result.Unavailable[j].Slot.StartHour
	})

	result.NoCapacity = len(result.Available) == 0
	return result
}

// Check проверяет, что слот label можно забронировать на date
// Используется при фиксации бронирования против актуального состояния БД
func Check(date, now time.Time, label string, bookedLabels []string, rules Rules) error {
	slot, ok := findInGrid(Grid(date), label)
	if !ok {
		return fmt.Errorf("%w: %s on %s", ErrSlotNotOffered, label, date.Format(domain.DateFormat))
	}

	blocked := blockedSlots(bookedLabels, rules.BufferSlots)
	reason, unavailable := unavailableReason(slot, date, now, blocked, rules)
	if !unavailable {
		return nil
	}

	switch reason {
	case ReasonPast:
		return ErrPastDate
	case ReasonTooSoon:
		return fmt.Errorf("%w: %s, lead time %dh", ErrTooSoon, label, rules.LeadTimeHours)
	case ReasonTooLate:
		return fmt.Errorf("%w: %s, cutoff %d:00", ErrTooLate, label, rules.CutoffHour)
	default:
		return fmt.Errorf("%w: %s (%s)", ErrSlotBlocked, label, reason)
	}
}

// IsPastDate проверяет, что дата раньше сегодняшней (сравниваются только даты)
func IsPastDate(date, now time.Time) bool {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	dy, dm, dd := date.Date()
	target := time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC)
	return target.Before(today)
}

// IsSameDay проверяет, что date - сегодняшняя дата относительно now
func IsSameDay(date, now time.Time) bool {
	y1, m1, d1 := date.Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// unavailableReason возвращает причину недоступности слота
// Порядок проверок задаёт приоритет причины: прошлое, занят, буфер, рано, поздно
func unavailableReason(slot domain.Slot, date, now time.Time, blocked map[int]Reason, rules Rules) (Reason, bool) {
	if IsPastDate(date, now) {
		return ReasonPast, true
	}

	if reason, ok := blocked[slot.StartHour]; ok {
		return reason, true
	}

	if IsSameDay(date, now) {
		if slot.StartHour < now.Hour()+rules.LeadTimeHours {
			return ReasonTooSoon, true
		}
		if slot.StartHour >= rules.CutoffHour {
			return ReasonTooLate, true
		}
	}

	return "", false
}

// blockedSlots объединение занятых слотов и их буферов (по часу начала)
// Буфер считается по полной сетке без переноса через границы дня
func blockedSlots(bookedLabels []string, buffer int) map[int]Reason {
	blocked := make(map[int]Reason)

	for _, label := range bookedLabels {
		booked, ok := domain.SlotByLabel(label)
		if !ok {
			continue
		}

		for _, s := range domain.SlotGrid {
			diff := s.StartHour - booked.StartHour
			if diff < -buffer || diff > buffer {
				continue
			}
			if diff == 0 {
				blocked[s.StartHour] = ReasonBooked
				continue
			}
			if _, already := blocked[s.StartHour]; !already {
				blocked[s.StartHour] = ReasonBuffer
			}
		}
	}

	return blocked
}

func findInGrid(grid []domain.Slot, label string) (domain.Slot, bool) {
	for _, s := range grid {
		if s.Label == label {
			return s, true
		}
	}
	return domain.Slot{}, false
}

func isWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
