// Package availability matches proposed session times against a tutor's
// weekly availability windows.
package availability

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
)

var (
	ErrInvalidSlot      = errors.New("invalid availability slot")
	ErrOverlappingSlots = errors.New("availability slots overlap")
)

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

// Fits reports whether [start, start+dur) lies inside a single slot when
// viewed in loc. Sessions crossing midnight never fit.
func Fits(slots []model.AvailabilitySlot, loc *time.Location, start time.Time, dur time.Duration) bool {
	if loc == nil {
		loc = time.UTC
	}
	local := start.In(loc)
	startMinute := local.Hour()*60 + local.Minute()
	endMinute := startMinute + int((dur+time.Minute-1)/time.Minute)

	for _, slot := range slots {
		if slot.Contains(local.Weekday(), startMinute, endMinute) {
			return true
		}
	}
	return false
}

// FitsAll reports whether every start fits.
func FitsAll(slots []model.AvailabilitySlot, loc *time.Location, starts []time.Time, dur time.Duration) bool {
	for _, start := range starts {
		if !Fits(slots, loc, start, dur) {
			return false
		}
	}
	return true
}

// Normalize validates slots and returns them sorted by weekday and start.
func Normalize(slots []model.AvailabilitySlot) ([]model.AvailabilitySlot, error) {
	sorted := make([]model.AvailabilitySlot, len(slots))
	copy(sorted, slots)

	for _, s := range sorted {
		if s.Weekday < time.Sunday || s.Weekday > time.Saturday {
			return nil, fmt.Errorf("%w: weekday %d", ErrInvalidSlot, s.Weekday)
		}
		if s.StartMinute < 0 || s.EndMinute > model.MinutesPerDay || s.StartMinute >= s.EndMinute {
			return nil, fmt.Errorf("%w: %s", ErrInvalidSlot, FormatSlot(s))
		}
	}

	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Weekday != sorted[j].Weekday {
			return sorted[i].Weekday < sorted[j].Weekday
		}
		return sorted[i].StartMinute < sorted[j].StartMinute
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Overlaps(sorted[i]) {
			return nil, fmt.Errorf("%w: %s and %s", ErrOverlappingSlots, FormatSlot(sorted[i-1]), FormatSlot(sorted[i]))
		}
	}

	return sorted, nil
}

// ParseSlot parses "Mon 16:00-18:00".
func ParseSlot(text string) (model.AvailabilitySlot, error) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) != 2 {
		return model.AvailabilitySlot{}, fmt.Errorf("%w: %q", ErrInvalidSlot, text)
	}

	day := strings.ToLower(fields[0])
	if len(day) > 3 {
		day = day[:3]
	}
	weekday, ok := weekdayNames[day]
	if !ok {
		return model.AvailabilitySlot{}, fmt.Errorf("%w: unknown weekday %q", ErrInvalidSlot, fields[0])
	}

	bounds := strings.SplitN(fields[1], "-", 2)
	if len(bounds) != 2 {
		return model.AvailabilitySlot{}, fmt.Errorf("%w: %q", ErrInvalidSlot, text)
	}
	start, err := parseClock(bounds[0])
	if err != nil {
		return model.AvailabilitySlot{}, err
	}
	end, err := parseClock(bounds[1])
	if err != nil {
		return model.AvailabilitySlot{}, err
	}

	slot := model.AvailabilitySlot{Weekday: weekday, StartMinute: start, EndMinute: end}
	if start >= end {
		return model.AvailabilitySlot{}, fmt.Errorf("%w: %q ends before it starts", ErrInvalidSlot, text)
	}
	return slot, nil
}

// ParseSlots parses slots separated by ';' or new lines.
func ParseSlots(text string) ([]model.AvailabilitySlot, error) {
	parts := strings.FieldsFunc(text, func(r rune) bool { return r == ';' || r == '\n' })
	slots := make([]model.AvailabilitySlot, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		slot, err := ParseSlot(part)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return Normalize(slots)
}

// FormatSlot renders a slot the way ParseSlot reads it.
func FormatSlot(s model.AvailabilitySlot) string {
	return fmt.Sprintf("%s %s-%s", s.Weekday.String()[:3], formatClock(s.StartMinute), formatClock(s.EndMinute))
}

func parseClock(text string) (int, error) {
	hm := strings.SplitN(strings.TrimSpace(text), ":", 2)
	if len(hm) != 2 {
		return 0, fmt.Errorf("%w: bad time %q", ErrInvalidSlot, text)
	}
	h, err := strconv.Atoi(hm[0])
	if err != nil || h < 0 || h > 24 {
		return 0, fmt.Errorf("%w: bad hour %q", ErrInvalidSlot, text)
	}
	m, err := strconv.Atoi(hm[1])
	if err != nil || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("%w: bad minute %q", ErrInvalidSlot, text)
	}
	return h*60 + m, nil
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
