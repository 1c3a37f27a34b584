package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Freeeeeet/peer_tutoring/internal/app"
	"github.com/Freeeeeet/peer_tutoring/internal/config"
	"github.com/Freeeeeet/peer_tutoring/internal/controller"
	"github.com/go-telegram/bot"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.RequireTelegram(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Bot stopped with error", zap.Error(err))
	}
	logger.Info("Bot stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("Starting peer tutoring bot", zap.String("environment", cfg.Environment))

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		return err
	}

	botController := controller.NewBotController(b, a.Services, a.Hub, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		// меню команд не обязательно для работы
		logger.Warn("Bot commands menu not set", zap.Error(err))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.Listener.Run(gctx) })
	g.Go(func() error { return a.Scheduler.Run(gctx) })
	g.Go(func() error { return botController.Start(gctx) })
	return g.Wait()
}
