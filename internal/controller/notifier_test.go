package controller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/Freeeeeet/peer_tutoring/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeUsers map[int64]*model.User

func (f fakeUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := f[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	return u, nil
}

type sentMessage struct {
	chatID int64
	text   string
}

type recorder struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (r *recorder) send(_ context.Context, chatID int64, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

func (r *recorder) messages() []sentMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sentMessage(nil), r.sent...)
}

func TestAlertPusherDeliversToTelegramUsers(t *testing.T) {
	tg := int64(555)
	users := fakeUsers{
		1: {ID: 1, TelegramID: &tg},
		2: {ID: 2},
	}
	hub := notify.NewHub(zap.NewNop())
	rec := &recorder{}
	pusher := NewAlertPusher(hub, users, rec.send, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- pusher.Run(ctx) }()

	require.Eventually(t, func() bool { return hub.Subscribers() == 1 }, time.Second, 5*time.Millisecond)

	hub.Publish(&model.Alert{ID: 10, UserID: 2, Type: model.AlertMessageReceived, Message: "api user"})
	hub.Publish(&model.Alert{ID: 11, UserID: 3, Type: model.AlertMessageReceived, Message: "unknown"})
	hub.Publish(&model.Alert{ID: 12, UserID: 1, Type: model.AlertRequestReceived, Message: "New <request>"})

	require.Eventually(t, func() bool { return len(rec.messages()) == 1 }, time.Second, 5*time.Millisecond)
	got := rec.messages()[0]
	assert.Equal(t, tg, got.chatID)
	assert.Contains(t, got.text, "New &lt;request&gt;")
	assert.Contains(t, got.text, "/requests")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("pusher did not stop")
	}
	assert.Equal(t, 0, hub.Subscribers())
}

func TestAlertText(t *testing.T) {
	tests := []struct {
		alertType model.AlertType
		hint      string
	}{
		{model.AlertRequestApproved, "/sessions"},
		{model.AlertRequestDeclined, "/myrequests"},
		{model.AlertSessionCompleted, "/history"},
		{model.AlertReviewReceived, ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.alertType), func(t *testing.T) {
			text := AlertText(&model.Alert{Type: tt.alertType, Message: "m"})
			assert.True(t, len(text) > 0)
			if tt.hint != "" {
				assert.Contains(t, text, tt.hint)
			} else {
				assert.Equal(t, "🔔 m", text)
			}
		})
	}
}
