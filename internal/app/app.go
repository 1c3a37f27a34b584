package app

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/peer_tutoring/internal/config"
	"github.com/Freeeeeet/peer_tutoring/internal/notify"
	"github.com/Freeeeeet/peer_tutoring/internal/repository"
	"github.com/Freeeeeet/peer_tutoring/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Services собирает сервисный слой поверх одного пула
type Services struct {
	Users    *service.UserService
	Requests *service.RequestService
	Sessions *service.SessionService
	Reviews  *service.ReviewService
	Alerts   *service.AlertService
	Messages *service.MessageService
	Reports  *service.ReportService
}

// App holds everything a process entrypoint needs.
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Pool      *pgxpool.Pool
	Services  *Services
	Hub       *notify.Hub
	Listener  *notify.Listener
	Scheduler *Scheduler
}

// NewPool подключается к базе с лимитом соединений из конфига
func NewPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("parse DB_DSN: %w", err)
	}
	poolCfg.MaxConns = cfg.DBMaxConns

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// NewServices wires repositories and services over pool.
func NewServices(pool *pgxpool.Pool, logger *zap.Logger) *Services {
	userRepo := repository.NewUserRepository(pool)
	requestRepo := repository.NewRequestRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	reviewRepo := repository.NewReviewRepository(pool)
	alertRepo := repository.NewAlertRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)

	sessions := service.NewSessionService(pool, userRepo, sessionRepo, alertRepo, logger)

	return &Services{
		Users:    service.NewUserService(userRepo, logger),
		Requests: service.NewRequestService(pool, userRepo, requestRepo, sessionRepo, alertRepo, logger),
		Sessions: sessions,
		Reviews:  service.NewReviewService(pool, userRepo, sessionRepo, reviewRepo, alertRepo, logger),
		Alerts:   service.NewAlertService(alertRepo, logger),
		Messages: service.NewMessageService(pool, userRepo, messageRepo, alertRepo, logger),
		Reports:  service.NewReportService(sessions, userRepo, reviewRepo, logger),
	}
}

// New connects, migrates and builds the application graph.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	pool, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}

	migrator, err := NewMigrator(pool, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}
	defer migrator.Close()

	if err := migrator.Run(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	services := NewServices(pool, logger)
	hub := notify.NewHub(logger)

	scheduler, err := NewScheduler(
		services.Requests,
		services.Sessions,
		cfg.ExpiryCron,
		cfg.ReminderCron,
		cfg.ReminderLead,
		logger,
	)
	if err != nil {
		pool.Close()
		return nil, err
	}

	return &App{
		Config:    cfg,
		Logger:    logger,
		Pool:      pool,
		Services:  services,
		Hub:       hub,
		Listener:  notify.NewListener(pool, hub, logger),
		Scheduler: scheduler,
	}, nil
}

// Close releases the pool.
func (a *App) Close() {
	a.Pool.Close()
}
