package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
)

func slot(day time.Weekday, from, to int) model.AvailabilitySlot {
	return model.AvailabilitySlot{Weekday: day, StartMinute: from, EndMinute: to}
}

func TestFits(t *testing.T) {
	slots := []model.AvailabilitySlot{
		slot(time.Tuesday, 16*60, 18*60),
		slot(time.Thursday, 9*60, 12*60),
	}
	// 2026-03-10 is a Tuesday.
	tuesday := time.Date(2026, 3, 10, 16, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		start time.Time
		dur   time.Duration
		want  bool
	}{
		{"exact window", tuesday, 2 * time.Hour, true},
		{"inside window", tuesday.Add(30 * time.Minute), time.Hour, true},
		{"runs past end", tuesday.Add(90 * time.Minute), time.Hour, false},
		{"starts before", tuesday.Add(-30 * time.Minute), time.Hour, false},
		{"wrong day", tuesday.AddDate(0, 0, 1), time.Hour, false},
		{"other slot", time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC), time.Hour, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fits(slots, time.UTC, tt.start, tt.dur))
		})
	}
}

func TestFitsUsesTutorLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	slots := []model.AvailabilitySlot{slot(time.Tuesday, 16*60, 18*60)}

	// 13:00 UTC is 16:00 in UTC+3.
	start := time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC)
	assert.True(t, Fits(slots, loc, start, time.Hour))
	assert.False(t, Fits(slots, time.UTC, start, time.Hour))
}

func TestFitsAll(t *testing.T) {
	slots := []model.AvailabilitySlot{slot(time.Tuesday, 16*60, 18*60)}
	start := time.Date(2026, 3, 10, 16, 0, 0, 0, time.UTC)

	assert.True(t, FitsAll(slots, time.UTC, []time.Time{start, start.AddDate(0, 0, 7)}, time.Hour))
	assert.False(t, FitsAll(slots, time.UTC, []time.Time{start, start.AddDate(0, 0, 1)}, time.Hour))
}

func TestNormalize(t *testing.T) {
	got, err := Normalize([]model.AvailabilitySlot{
		slot(time.Friday, 600, 700),
		slot(time.Monday, 900, 1000),
		slot(time.Monday, 600, 700),
	})
	require.NoError(t, err)
	assert.Equal(t, []model.AvailabilitySlot{
		slot(time.Monday, 600, 700),
		slot(time.Monday, 900, 1000),
		slot(time.Friday, 600, 700),
	}, got)

	_, err = Normalize([]model.AvailabilitySlot{slot(time.Monday, 600, 700), slot(time.Monday, 650, 800)})
	assert.ErrorIs(t, err, ErrOverlappingSlots)

	_, err = Normalize([]model.AvailabilitySlot{slot(time.Monday, 700, 600)})
	assert.ErrorIs(t, err, ErrInvalidSlot)

	_, err = Normalize([]model.AvailabilitySlot{slot(time.Monday, 0, 1441)})
	assert.ErrorIs(t, err, ErrInvalidSlot)

	_, err = Normalize([]model.AvailabilitySlot{slot(time.Weekday(9), 0, 60)})
	assert.ErrorIs(t, err, ErrInvalidSlot)
}

func TestParseSlots(t *testing.T) {
	got, err := ParseSlots("Wed 10:00-12:30; monday 16:00-18:00\nSun 20:00-24:00")
	require.NoError(t, err)
	assert.Equal(t, []model.AvailabilitySlot{
		slot(time.Sunday, 20*60, 24*60),
		slot(time.Monday, 16*60, 18*60),
		slot(time.Wednesday, 10*60, 12*60+30),
	}, got)

	for _, bad := range []string{"Mon", "Xyz 10:00-11:00", "Mon 10-11", "Mon 11:00-10:00", "Mon 10:00-25:00", "Mon 24:30-24:45"} {
		_, err := ParseSlots(bad)
		assert.ErrorIs(t, err, ErrInvalidSlot, bad)
	}
}

func TestFormatSlot(t *testing.T) {
	assert.Equal(t, "Mon 09:05-24:00", FormatSlot(slot(time.Monday, 9*60+5, 24*60)))
}
