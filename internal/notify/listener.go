package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/peer_tutoring/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Channel is the Postgres NOTIFY channel filled by the alerts_notify trigger.
const Channel = "alerts"

const (
	minBackoff = time.Second
	maxBackoff = 30 * time.Second
)

// Listener pumps NOTIFY payloads from Postgres into a Hub.
type Listener struct {
	pool   *pgxpool.Pool
	hub    *Hub
	logger *zap.Logger
}

func NewListener(pool *pgxpool.Pool, hub *Hub, logger *zap.Logger) *Listener {
	return &Listener{pool: pool, hub: hub, logger: logger}
}

// Run listens until ctx is cancelled, reconnecting with exponential backoff.
func (l *Listener) Run(ctx context.Context) error {
	var retry retryDelay
	for {
		listened, err := l.listen(ctx)
		if ctx.Err() != nil {
			return nil
		}

		backoff := retry.next(listened)
		l.logger.Error("Alert listener disconnected", zap.Error(err), zap.Duration("retry_in", backoff))
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil
		}
	}
}

// listen reports whether LISTEN succeeded before the connection was lost.
func (l *Listener) listen(ctx context.Context) (bool, error) {
	pooled, err := l.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	// Соединение с LISTEN нельзя возвращать в пул
	conn := pooled.Hijack()
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+Channel); err != nil {
		return false, fmt.Errorf("listen: %w", err)
	}
	l.logger.Info("Listening for alerts", zap.String("channel", Channel))

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return true, fmt.Errorf("wait for notification: %w", err)
		}

		alert, err := DecodeAlert([]byte(n.Payload))
		if err != nil {
			l.logger.Warn("Skipping malformed alert payload", zap.Error(err))
			continue
		}
		l.hub.Publish(alert)
	}
}

// DecodeAlert parses the row_to_json payload of an alerts row.
func DecodeAlert(payload []byte) (*model.Alert, error) {
	var alert model.Alert
	if err := json.Unmarshal(payload, &alert); err != nil {
		return nil, fmt.Errorf("decode alert: %w", err)
	}
	if alert.ID == 0 || alert.UserID == 0 {
		return nil, errors.New("decode alert: missing id or user_id")
	}
	return &alert, nil
}

// retryDelay grows the pause between failed reconnects and starts over
// once a connection got as far as LISTEN.
type retryDelay struct {
	current time.Duration
}

func (r *retryDelay) next(listened bool) time.Duration {
	if listened || r.current == 0 {
		r.current = minBackoff
	} else {
		r.current = nextBackoff(r.current)
	}
	return r.current
}

func nextBackoff(d time.Duration) time.Duration {
	d *= 2
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}
