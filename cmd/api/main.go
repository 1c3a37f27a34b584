package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/peer_tutoring/internal/api"
	"github.com/Freeeeeet/peer_tutoring/internal/app"
	"github.com/Freeeeeet/peer_tutoring/internal/config"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("API stopped with error", zap.Error(err))
	}
	logger.Info("API stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	router := api.NewRouter(api.Deps{
		Users:    a.Services.Users,
		Requests: a.Services.Requests,
		Sessions: a.Services.Sessions,
		Reviews:  a.Services.Reviews,
		Alerts:   a.Services.Alerts,
		Messages: a.Services.Messages,
		Reports:  a.Services.Reports,
		Stream:   a.Hub,
		Ping:     a.Pool.Ping,
	}, logger)

	g, gctx := errgroup.WithContext(ctx)
	server := newServer(gctx, cfg.HTTPAddr, router)

	g.Go(func() error { return a.Listener.Run(gctx) })
	g.Go(func() error { return a.Scheduler.Run(gctx) })
	g.Go(func() error {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// newServer ties request contexts to ctx, so SSE streams end as soon as
// shutdown starts instead of holding Shutdown until its timeout.
func newServer(ctx context.Context, addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}
