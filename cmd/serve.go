package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"portfolio/internal/config"
	"portfolio/internal/handlers"
	"portfolio/internal/logger"
	"portfolio/internal/repository"
	"portfolio/internal/server"
	"portfolio/internal/service"
	"portfolio/internal/tracking"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(configDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the homepage and API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), *configDir)
		},
	}
}

func runServe(ctx context.Context, configDir string) error {
	a, err := bootstrap(configDir)
	if err != nil {
		return err
	}
	defer a.close()

	cfg := a.cfg
	emitter := tracking.NewEmitter(buildSink(cfg.Tracking, a.repos, a.log), a.log, tracking.Options{
		QueueSize:   cfg.Tracking.QueueSize,
		SendTimeout: cfg.Tracking.SendTimeout,
		DrainGrace:  cfg.Tracking.DrainGrace,
	})

	// wire dependencies
	services := service.NewService(a.repos, service.Deps{
		Emitter:  emitter,
		Defaults: cfg.Preferences,
		Profile:  cfg.Profile,
		Auth: service.AuthOptions{
			SigningKey: cfg.Auth.SigningKey,
			TokenTTL:   cfg.Auth.TokenTTL,
		},
		RetentionMaxAge: cfg.Retention.MaxAge,
		Log:             a.log,
	})
	if cfg.Auth.SigningKey == "" {
		a.log.Warnw("auth.signing_key not set; admin tokens will not survive a restart")
	}

	apiHandler := handlers.NewHandler(services, a.log, handlers.Options{
		VisitorCookie: cfg.Visitor.CookieName,
		VisitorMaxAge: cfg.Visitor.MaxAge,
		SecureCookies: cfg.Visitor.Secure,
		RespectDNT:    cfg.Tracking.RespectDNT,
		RateLimit: handlers.RateLimit{
			RequestsPerSecond: cfg.Tracking.RateLimit.RequestsPerSecond,
			Burst:             cfg.Tracking.RateLimit.Burst,
		},
		StaticDir: cfg.StaticDir,
	})

	scheduler := service.NewScheduler(services.Retention, a.log)
	if err := scheduler.Start(cfg.Retention.Schedule); err != nil {
		return fmt.Errorf("start retention scheduler: %w", err)
	}
	defer scheduler.Stop()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// the emitter outlives the HTTP server so late requests can still enqueue
	emitCtx, stopEmitter := context.WithCancel(context.Background())
	defer stopEmitter()

	srv := server.New(cfg.Port, apiHandler.InitRoutes())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return emitter.Run(emitCtx) })
	g.Go(func() error {
		a.log.Infow("http_server_started", "addr", srv.Addr())
		if err := srv.Run(); err != nil {
			return fmt.Errorf("run http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return waitForShutdown(gctx, srv, stopEmitter, a.log)
	})

	if err := g.Wait(); err != nil {
		a.log.Errorw("server_stopped_with_error", "err", err)
		return err
	}
	c := emitter.Counters()
	a.log.Infow("server_stopped", "tracking_delivered", c.Delivered, "tracking_failed", c.Failed, "tracking_dropped", c.Dropped)
	return nil
}

// buildSink fans records out to the SQLite log, the debug log and, when
// configured, a PostHog capture endpoint.
func buildSink(cfg config.TrackingConfig, repos *repository.Repository, log *logger.Logger) tracking.Sink {
	sinks := tracking.MultiSink{
		tracking.NewStoreSink(repos.Tracking),
		tracking.NewLogSink(log),
	}
	if cfg.PostHog.Host == "" {
		return sinks
	}
	ph, err := tracking.NewPostHogSink(cfg.PostHog.Host, cfg.PostHog.APIKey, nil)
	if err != nil {
		log.Warnw("posthog_sink_disabled", "err", err)
		return sinks
	}
	log.Infow("posthog_sink_enabled", "host", cfg.PostHog.Host)
	return append(sinks, ph)
}

// waitForShutdown blocks until ctx is done, then drains HTTP and stops the emitter.
func waitForShutdown(ctx context.Context, srv *server.Server, stopEmitter context.CancelFunc, log *logger.Logger) error {
	<-ctx.Done()
	log.Infow("shutting down server...")

	// allow in-flight requests to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)

	// stop background goroutines; the emitter flushes its queue
	stopEmitter()

	if err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
