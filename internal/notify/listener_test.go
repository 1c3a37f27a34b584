package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
)

func TestDecodeAlert(t *testing.T) {
	payload := `{"id":42,"user_id":7,"type":"request_received","message":"Sam requested","related_id":3,"is_read":false,"created_at":"2026-03-10T12:00:00.123456+00:00"}`

	alert, err := DecodeAlert([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, int64(42), alert.ID)
	assert.Equal(t, int64(7), alert.UserID)
	assert.Equal(t, model.AlertRequestReceived, alert.Type)
	assert.Equal(t, int64(3), alert.RelatedID)
	assert.True(t, alert.CreatedAt.Equal(time.Date(2026, 3, 10, 12, 0, 0, 123456000, time.UTC)))
}

func TestDecodeAlertErrors(t *testing.T) {
	for _, payload := range []string{`not json`, `{"id":0,"user_id":1}`, `{"id":1}`} {
		_, err := DecodeAlert([]byte(payload))
		assert.Error(t, err, payload)
	}
}

func TestNextBackoff(t *testing.T) {
	assert.Equal(t, 2*time.Second, nextBackoff(time.Second))
	assert.Equal(t, maxBackoff, nextBackoff(20*time.Second))
	assert.Equal(t, maxBackoff, nextBackoff(maxBackoff))
}

func TestRetryDelayResetsAfterListen(t *testing.T) {
	var r retryDelay

	// подряд неудачные подключения
	assert.Equal(t, time.Second, r.next(false))
	assert.Equal(t, 2*time.Second, r.next(false))
	assert.Equal(t, 4*time.Second, r.next(false))
	for i := 0; i < 10; i++ {
		r.next(false)
	}
	assert.Equal(t, maxBackoff, r.next(false))

	// соединение дошло до LISTEN и потом оборвалось
	assert.Equal(t, minBackoff, r.next(true))
	assert.Equal(t, 2*time.Second, r.next(false))
	assert.Equal(t, minBackoff, r.next(true))
}
