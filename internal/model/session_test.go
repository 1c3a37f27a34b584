package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSessions(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	sessions := []*TutoringSession{
		{ID: 1, StartTime: now.Add(48 * time.Hour), Status: SessionStatusScheduled},
		{ID: 2, StartTime: now.Add(-48 * time.Hour), Status: SessionStatusCompleted},
		{ID: 3, StartTime: now.Add(2 * time.Hour), Status: SessionStatusScheduled},
		{ID: 4, StartTime: now.Add(24 * time.Hour), Status: SessionStatusCancelled},
		{ID: 5, StartTime: now.Add(-time.Hour), Status: SessionStatusScheduled},
	}

	upcoming, past := SplitSessions(sessions, now)

	require.Len(t, upcoming, 2)
	assert.Equal(t, int64(3), upcoming[0].ID)
	assert.Equal(t, int64(1), upcoming[1].ID)

	require.Len(t, past, 3)
	assert.Equal(t, int64(4), past[0].ID)
	assert.Equal(t, int64(5), past[1].ID)
	assert.Equal(t, int64(2), past[2].ID)
}

func TestSplitSessionsEmpty(t *testing.T) {
	upcoming, past := SplitSessions(nil, time.Now())
	assert.NotNil(t, upcoming)
	assert.NotNil(t, past)
	assert.Empty(t, upcoming)
	assert.Empty(t, past)
}

func TestOverlaps(t *testing.T) {
	base := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	hour := time.Hour

	assert.True(t, Overlaps(base, hour, base.Add(30*time.Minute), hour))
	assert.True(t, Overlaps(base, 3*hour, base.Add(hour), hour))
	assert.False(t, Overlaps(base, hour, base.Add(hour), hour), "touching ranges do not overlap")
	assert.False(t, Overlaps(base.Add(2*hour), hour, base, hour))
}

func TestSessionParticipants(t *testing.T) {
	s := &TutoringSession{TutorID: 7, StudentID: 9, StartTime: time.Now(), DurationMinutes: 90}
	assert.True(t, s.IsParticipant(7))
	assert.True(t, s.IsParticipant(9))
	assert.False(t, s.IsParticipant(8))
	assert.Equal(t, int64(9), s.Counterpart(7))
	assert.Equal(t, int64(7), s.Counterpart(9))
	assert.Equal(t, 90*time.Minute, s.EndTime().Sub(s.StartTime))
}

func TestOccurrenceTimes(t *testing.T) {
	start := time.Date(2026, 3, 10, 16, 0, 0, 0, time.UTC)
	r := &TutoringRequest{StartTime: start, Occurrences: 3}
	times := r.OccurrenceTimes(time.UTC)
	require.Len(t, times, 3)
	assert.Equal(t, start, times[0])
	assert.Equal(t, start.AddDate(0, 0, 7), times[1])
	assert.Equal(t, start.AddDate(0, 0, 14), times[2])

	r.Occurrences = 0
	assert.Len(t, r.OccurrenceTimes(nil), 1)
}

func TestOccurrenceTimesKeepLocalHourAcrossDST(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	// 20.10.2026 16:00 CEST, переход на зимнее время 25.10.2026
	start := time.Date(2026, 10, 20, 16, 0, 0, 0, berlin)
	r := &TutoringRequest{StartTime: start.UTC(), Occurrences: 3}

	times := r.OccurrenceTimes(berlin)
	require.Len(t, times, 3)
	for i, ts := range times {
		local := ts.In(berlin)
		assert.Equal(t, 16, local.Hour(), "occurrence %d", i)
		assert.Equal(t, time.Tuesday, local.Weekday(), "occurrence %d", i)
		assert.Equal(t, time.UTC, ts.Location())
	}
	assert.Equal(t, 7*24*time.Hour+time.Hour, times[1].Sub(times[0]))

	// в UTC серия сдвигается на час
	utc := r.OccurrenceTimes(time.UTC)
	assert.Equal(t, 15, utc[1].In(berlin).Hour())
}
