package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// RequestExpirer declines pending requests whose start time has passed.
type RequestExpirer interface {
	ExpireStale(ctx context.Context) (int, error)
}

// Reminder sends reminders for sessions starting within lead.
type Reminder interface {
	SendReminders(ctx context.Context, lead time.Duration) (int, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	cron     *cron.Cron
	requests RequestExpirer
	sessions Reminder
	lead     time.Duration
	logger   *zap.Logger
	ctx      context.Context
}

// NewScheduler регистрирует задачи истечения заявок и напоминаний о занятиях
func NewScheduler(
	requests RequestExpirer,
	sessions Reminder,
	expirySpec, reminderSpec string,
	lead time.Duration,
	logger *zap.Logger,
) (*Scheduler, error) {
	s := &Scheduler{
		cron:     cron.New(cron.WithChain(cron.Recover(cronLogger{logger}), cron.SkipIfStillRunning(cronLogger{logger}))),
		requests: requests,
		sessions: sessions,
		lead:     lead,
		logger:   logger,
		ctx:      context.Background(),
	}

	if _, err := s.cron.AddFunc(expirySpec, s.expireRequests); err != nil {
		return nil, fmt.Errorf("schedule request expiry %q: %w", expirySpec, err)
	}
	if _, err := s.cron.AddFunc(reminderSpec, s.sendReminders); err != nil {
		return nil, fmt.Errorf("schedule reminders %q: %w", reminderSpec, err)
	}
	return s, nil
}

// Run запускает задачи и блокируется до отмены контекста
func (s *Scheduler) Run(ctx context.Context) error {
	s.ctx = ctx
	s.logger.Info("Starting background scheduler", zap.Int("jobs", len(s.cron.Entries())))

	// Первый проход сразу при старте
	s.expireRequests()
	s.sendReminders()

	s.cron.Start()
	<-ctx.Done()

	s.logger.Info("Stopping background scheduler")
	<-s.cron.Stop().Done()
	return nil
}

func (s *Scheduler) expireRequests() {
	n, err := s.requests.ExpireStale(s.ctx)
	if err != nil {
		s.logger.Error("Failed to expire stale requests", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("Expired stale requests", zap.Int("count", n))
	}
}

func (s *Scheduler) sendReminders() {
	n, err := s.sessions.SendReminders(s.ctx, s.lead)
	if err != nil {
		s.logger.Error("Failed to send session reminders", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("Session reminders sent", zap.Int("count", n))
	}
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
