package formatting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
)

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45 мин", FormatDuration(45))
	assert.Equal(t, "1 ч", FormatDuration(60))
	assert.Equal(t, "1 ч 30 мин", FormatDuration(90))
}

func TestFormatInZone(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	ts := time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC)
	assert.Equal(t, "Вт, 10.03.2026 16:00 MSK", FormatInZone(ts, loc))
	assert.Equal(t, "Вт, 10.03.2026 13:00 UTC", FormatInZone(ts, nil))
}

func TestParseDateTime(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	got, err := ParseDateTime(" 10.03.2026 16:00 ", loc)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC)))

	_, err = ParseDateTime("2026-03-10 16:00", loc)
	assert.Error(t, err)
}

func TestPluralize(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "занятие"}, {2, "занятия"}, {5, "занятий"}, {11, "занятий"},
		{21, "занятие"}, {22, "занятия"}, {112, "занятий"}, {0, "занятий"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, PluralizeSessions(tc.n), tc.n)
	}
	assert.Equal(t, "отзывов", PluralizeReviews(12))
	assert.Equal(t, "заявка", PluralizeRequests(1))
}

func TestStatusDisplay(t *testing.T) {
	assert.Equal(t, "⏳ Ожидает ответа", GetRequestStatusDisplay(model.RequestStatusPending).String())
	assert.Equal(t, "⚫️ Отменено", GetSessionStatusDisplay(model.SessionStatusCancelled).String())
	assert.Equal(t, "❓", GetSessionStatusDisplay("weird").Emoji)
}

func TestStars(t *testing.T) {
	assert.Equal(t, "⭐⭐⭐", Stars(3))
	assert.Equal(t, "-", Stars(0))
	assert.Equal(t, "-", Stars(6))
}
