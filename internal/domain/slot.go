package domain

// Slot is a fixed one-hour interval of the daily booking grid.
// Slots are not persisted; bookings reference them by Label.
type Slot struct {
	Label     string
	StartHour int // 24h clock
}

// SlotGrid is the full ordered daily grid, 9am to 5pm
var SlotGrid = []Slot{
	{Label: "9-10", StartHour: 9},
	{Label: "10-11", StartHour: 10},
	{Label: "11-12", StartHour: 11},
	{Label: "12-1", StartHour: 12},
	{Label: "1-2", StartHour: 13},
	{Label: "2-3", StartHour: 14},
	{Label: "3-4", StartHour: 15},
	{Label: "4-5", StartHour: 16},
}

// SlotByLabel looks up a slot of the full grid by its label
func SlotByLabel(label string) (Slot, bool) {
	for _, s := range SlotGrid {
		if s.Label == label {
			return s, true
		}
	}
	return Slot{}, false
}

// Labels returns slot labels in order
func Labels(slots []Slot) []string {
	labels := make([]string, len(slots))
	for i, s := range slots {
		labels[i] = s.Label
	}
	return labels
}
