// Package app assembles the meetings backend from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/meetings-backend/internal/auth"
	"github.com/heartmarshall/meetings-backend/internal/config"
	"github.com/heartmarshall/meetings-backend/internal/transport/middleware"
	"github.com/heartmarshall/meetings-backend/internal/transport/rest"
)

// rateLimitCleanup is how often idle rate limit buckets are dropped.
const rateLimitCleanup = 5 * time.Minute

// Run is the HTTP server entry point. It loads configuration, builds the
// services and serves until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting meetings backend",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("bucket", cfg.Storage.BucketName()),
		slog.String("llm_provider", cfg.LLM.Provider),
	)

	deps, err := NewDeps(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	validator, err := auth.NewValidator(cfg.Auth)
	if err != nil {
		return err
	}

	limiter := middleware.NewRateLimiter(rateLimitCleanup)
	defer limiter.Stop()

	handler := rest.NewRouter(rest.RouterDeps{
		Log: logger,
		Health: rest.NewHealthHandler(BuildVersion(),
			rest.Component{Name: "database", Dep: deps.Pool},
			rest.Component{Name: "storage", Dep: deps.Storage},
		),
		Meetings:      rest.NewMeetingHandler(deps.Meetings, logger),
		Auth:          middleware.Auth(validator),
		CORS:          middleware.CORS(cfg.CORS),
		UploadLimiter: limiter.Limit(cfg.RateLimit.UploadPerMinute),
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	return serve(ctx, srv, cfg.Server.ShutdownTimeout, logger)
}

// serve runs srv until ctx is done or the listener fails, then drains
// in-flight requests for at most shutdownTimeout.
func serve(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration, logger *slog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server", slog.Duration("timeout", shutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("http server stopped")
	return nil
}
