package model

import "time"

const MinutesPerDay = 24 * 60

// AvailabilitySlot is a weekly window in the tutor's timezone.
type AvailabilitySlot struct {
	Weekday     time.Weekday `json:"weekday"`      // 0 = Sunday, 6 = Saturday
	StartMinute int          `json:"start_minute"` // minutes since midnight
	EndMinute   int          `json:"end_minute"`   // exclusive, up to 1440
}

// Contains reports whether [start, end) minutes of weekday fit inside the slot.
func (s AvailabilitySlot) Contains(weekday time.Weekday, start, end int) bool {
	return s.Weekday == weekday && start >= s.StartMinute && end <= s.EndMinute
}

// Overlaps reports whether two slots share any minute.
func (s AvailabilitySlot) Overlaps(o AvailabilitySlot) bool {
	return s.Weekday == o.Weekday && s.StartMinute < o.EndMinute && o.StartMinute < s.EndMinute
}
