package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"savefood/backend"
	"savefood/config"
	"savefood/handlers"
	"savefood/metrics"
	"savefood/ui"
	"savefood/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := utils.NewLogger(cfg.Env)
	defer logger.Sync()
	logger.Info("environment", zap.String("env", cfg.Env), zap.String("backend", cfg.BackendURL))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
	logger.Info("Server stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	g, ctx := errgroup.WithContext(ctx)

	var sessions utils.SessionStore
	switch cfg.SessionBackend {
	case config.SessionBackendPostgres:
		dbPool, err := utils.OpenDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer dbPool.Close()

		store := utils.NewPGSessionStore(dbPool)
		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
		sessions = store
		g.Go(func() error {
			purgeSessions(ctx, store, logger)
			return nil
		})
	default:
		redisPool, err := utils.OpenRedisPool(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer redisPool.Close()
		sessions = utils.NewRedisSessionStore(redisPool)
	}

	api := backend.New(cfg.BackendURL,
		backend.WithHTTPClient(&http.Client{Timeout: cfg.BackendTimeout}),
		backend.WithLogger(logger.Named("backend")),
		backend.WithLoginEncoding(cfg.LoginEncoding),
		backend.WithRetryPolicy(backend.RetryPolicy{
			MaxAttempts: cfg.BagsMaxAttempts,
			Delay:       cfg.BagsRetryDelay,
			Observer:    bagFetchObserver(logger),
		}),
	)

	templates, err := handlers.NewTemplateCache(ui.Files)
	if err != nil {
		return err
	}

	app := &handlers.App{
		API:          api,
		Sessions:     sessions,
		Templates:    templates,
		Logger:       logger,
		SessionTTL:   cfg.SessionTTL,
		CookieSecure: cfg.CookieSecure,
	}
	if cfg.SendgridAPIKey != "" {
		app.Notifier = utils.NewMailer(cfg.SendgridAPIKey, cfg.MailFrom, logger.Named("mail"))
	} else {
		logger.Info("SENDGRID_API_KEY not set, order confirmations disabled")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{
		Addr:              ":" + cfg.MetricsPort,
		Handler:           metricsMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	for _, s := range []*http.Server{srv, metricsSrv} {
		s := s
		g.Go(func() error {
			logger.Info("Starting server", zap.String("addr", s.Addr))
			if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return s.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}

// bagFetchObserver logs bag list state changes and counts them. Each failed
// attempt is counted once, under Retrying or under the final Error.
func bagFetchObserver(logger *zap.Logger) backend.Observer {
	return func(state backend.FetchState, attempt int, err error) {
		metrics.BagFetchStatesTotal.WithLabelValues(state.String()).Inc()
		if state == backend.StateRetrying {
			metrics.BagFetchAttemptsTotal.WithLabelValues("failure").Inc()
			logger.Warn("Retrying bag fetch", zap.Int("attempt", attempt), zap.Error(err))
			return
		}
		if !state.Terminal() {
			return
		}

		switch {
		case err == nil:
			metrics.BagFetchAttemptsTotal.WithLabelValues("success").Inc()
			logger.Debug("Bags loaded", zap.Int("attempt", attempt))
		case errors.Is(err, backend.ErrRetryInterrupted):
			metrics.BagFetchAttemptsTotal.WithLabelValues("cancelled").Inc()
			logger.Info("Bag fetch cancelled", zap.Int("attempt", attempt), zap.Error(err))
		default:
			metrics.BagFetchAttemptsTotal.WithLabelValues("failure").Inc()
			logger.Error("Giving up on bag fetch", zap.Int("attempt", attempt), zap.Error(err))
		}
	}
}

// purgeSessions deletes expired postgres sessions until ctx is done.
// Redis expires its keys on its own.
func purgeSessions(ctx context.Context, store *utils.PGSessionStore, logger *zap.Logger) {
	ticker := time.NewTicker(15 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.PurgeExpired(ctx)
			if err != nil {
				logger.Warn("Error purging expired sessions", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Info("Purged expired sessions", zap.Int64("count", n))
			}
		}
	}
}
