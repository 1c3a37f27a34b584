// Package notify delivers alerts to live subscribers as soon as they are
// committed to the database.
package notify

import (
	"sync"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"go.uber.org/zap"
)

// AllUsers subscribes to alerts of every user.
const AllUsers int64 = 0

const subscriberBuffer = 16

// Subscription receives alerts until Close is called.
type Subscription struct {
	C <-chan *model.Alert

	ch     chan *model.Alert
	hub    *Hub
	userID int64
	once   sync.Once
}

// Close detaches the subscription and closes C.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.remove(s)
	})
}

// Hub fans alerts out to subscribers. Sends never block: a subscriber whose
// buffer is full misses the alert.
type Hub struct {
	mu     sync.RWMutex
	subs   map[int64]map[*Subscription]struct{}
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subs:   make(map[int64]map[*Subscription]struct{}),
		logger: logger,
	}
}

// Subscribe registers for alerts of userID, or of everyone with AllUsers.
func (h *Hub) Subscribe(userID int64) *Subscription {
	ch := make(chan *model.Alert, subscriberBuffer)
	sub := &Subscription{C: ch, ch: ch, hub: h, userID: userID}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subs[userID] == nil {
		h.subs[userID] = make(map[*Subscription]struct{})
	}
	h.subs[userID][sub] = struct{}{}
	return sub
}

// Publish delivers alert to the user's subscribers and to AllUsers subscribers.
func (h *Hub) Publish(alert *model.Alert) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	h.deliver(h.subs[alert.UserID], alert)
	if alert.UserID != AllUsers {
		h.deliver(h.subs[AllUsers], alert)
	}
}

// Subscribers returns the number of live subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, set := range h.subs {
		n += len(set)
	}
	return n
}

func (h *Hub) deliver(set map[*Subscription]struct{}, alert *model.Alert) {
	for sub := range set {
		select {
		case sub.ch <- alert:
		default:
			h.logger.Warn("Dropping alert for slow subscriber",
				zap.Int64("alert_id", alert.ID),
				zap.Int64("user_id", alert.UserID))
		}
	}
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if set, ok := h.subs[sub.userID]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.subs, sub.userID)
		}
	}
	close(sub.ch)
}
