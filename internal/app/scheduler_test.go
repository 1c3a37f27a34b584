package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeExpirer struct {
	calls atomic.Int32
	err   error
}

func (f *fakeExpirer) ExpireStale(context.Context) (int, error) {
	f.calls.Add(1)
	return 2, f.err
}

type fakeReminder struct {
	calls atomic.Int32
	lead  atomic.Int64
}

func (f *fakeReminder) SendReminders(_ context.Context, lead time.Duration) (int, error) {
	f.calls.Add(1)
	f.lead.Store(int64(lead))
	return 1, nil
}

func TestNewSchedulerRejectsBadSpec(t *testing.T) {
	_, err := NewScheduler(&fakeExpirer{}, &fakeReminder{}, "every tuesday-ish", "@every 1m", time.Hour, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request expiry")

	_, err = NewScheduler(&fakeExpirer{}, &fakeReminder{}, "@every 1m", "nope", time.Hour, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reminders")
}

func TestSchedulerRunsJobsOnStart(t *testing.T) {
	exp := &fakeExpirer{err: errors.New("db down")}
	rem := &fakeReminder{}

	s, err := NewScheduler(exp, rem, "@hourly", "@hourly", 30*time.Minute, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool {
		return exp.calls.Load() == 1 && rem.calls.Load() == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, int64(30*time.Minute), rem.lead.Load())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}
