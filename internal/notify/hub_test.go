package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
)

func receive(t *testing.T, sub *Subscription) *model.Alert {
	t.Helper()
	select {
	case a := <-sub.C:
		return a
	case <-time.After(time.Second):
		t.Fatal("no alert received")
		return nil
	}
}

func TestHubRoutesByUser(t *testing.T) {
	hub := NewHub(zap.NewNop())
	alice := hub.Subscribe(1)
	bob := hub.Subscribe(2)
	all := hub.Subscribe(AllUsers)
	defer alice.Close()
	defer bob.Close()
	defer all.Close()

	hub.Publish(&model.Alert{ID: 10, UserID: 1})

	assert.Equal(t, int64(10), receive(t, alice).ID)
	assert.Equal(t, int64(10), receive(t, all).ID)
	select {
	case a := <-bob.C:
		t.Fatalf("bob got alert %d", a.ID)
	default:
	}
}

func TestHubCloseUnsubscribes(t *testing.T) {
	hub := NewHub(zap.NewNop())
	sub := hub.Subscribe(1)
	require.Equal(t, 1, hub.Subscribers())

	sub.Close()
	sub.Close()

	assert.Equal(t, 0, hub.Subscribers())
	_, open := <-sub.C
	assert.False(t, open)

	hub.Publish(&model.Alert{ID: 1, UserID: 1})
}

func TestHubDropsWhenFull(t *testing.T) {
	hub := NewHub(zap.NewNop())
	sub := hub.Subscribe(1)
	defer sub.Close()

	for i := 0; i < subscriberBuffer+5; i++ {
		hub.Publish(&model.Alert{ID: int64(i + 1), UserID: 1})
	}

	assert.Len(t, sub.C, subscriberBuffer)
	assert.Equal(t, int64(1), receive(t, sub).ID)
}
