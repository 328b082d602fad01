package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/DukeRupert/pagedlist"
	"github.com/DukeRupert/pagedlist/internal"
	"github.com/DukeRupert/pagedlist/internal/domain"
	"github.com/DukeRupert/pagedlist/internal/handler"
	"github.com/DukeRupert/pagedlist/internal/metrics"
	"github.com/DukeRupert/pagedlist/internal/middleware"
	"github.com/DukeRupert/pagedlist/internal/resilience"
	"github.com/DukeRupert/pagedlist/pager"
	"github.com/DukeRupert/pagedlist/source/s3source"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)
	slog.SetDefault(logger)

	// Open the item store
	store, err := openItemStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.close(closeCtx); err != nil {
			logger.Error("Item store close error", "error", err)
		}
	}()
	logger.Info("Item store ready", "source", cfg.Source)

	pagerOpts, err := pager.PresetByName(cfg.PagerPreset)
	if err != nil {
		return fmt.Errorf("pager configuration failed: %w", err)
	}
	pagerOpts.MaximumPageNumbersToDisplay = cfg.PagerMaxPageNumbers
	params := pagedlist.ParamsConfig{
		DefaultPageSize: cfg.PageSize,
		MaxPageSize:     cfg.MaxPageSize,
	}

	// Initialize middleware
	isSecure := cfg.Env != "development"
	loggingMw := middleware.NewRequestLoggingMiddleware(logger)
	securityMw := middleware.NewSecurityHeadersMiddleware(isSecure)
	metricsAuthMw := middleware.NewMetricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword)
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	rateLimitMw := middleware.NewRateLimitMiddleware(rateLimiter, logger)

	if !metricsAuthMw.Enabled() {
		logger.Warn("Metrics endpoint is unprotected; set METRICS_USERNAME and METRICS_PASSWORD")
	}

	// Initialize handlers
	itemBreaker := resilience.New(resilience.SourceConfig(cfg.Source), logger)
	itemHandler := handler.NewListHandler(handler.ListConfig[domain.Item]{
		Name:    cfg.Source,
		Title:   "Items",
		Source:  resilience.Guard(itemBreaker, metrics.Instrument(cfg.Source, store.source)),
		Columns: handler.ItemColumns(),
		Params:  params,
		Pager:   pagerOpts,
		GoTo:    pager.DefaultGoToFormOptions(),
		Timeout: cfg.SourceTimeout,
	}, logger)

	checks := map[string]handler.Check{}
	if store.check != nil {
		checks[cfg.Source] = store.check
	}

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	mux := http.NewServeMux()

	// Health check
	mux.Handle("GET /health", handler.NewHealthHandler(checks, logger))

	// Metrics
	mux.Handle("GET /metrics", metricsAuthMw.Handler(promhttp.Handler()))

	// List pages (rate limited)
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/items", http.StatusFound)
	})
	itemHandler.RegisterRoutes(mux, "/items", rateLimitMw.Limit)

	if cfg.S3Enabled() {
		objects, check := openObjectStore(cfg)
		checks["s3"] = check

		objectBreaker := resilience.New(resilience.SourceConfig("s3"), logger)
		objectHandler := handler.NewListHandler(handler.ListConfig[s3source.Object]{
			Name:    "s3",
			Title:   "Objects in " + cfg.S3Bucket,
			Source:  resilience.Guard(objectBreaker, metrics.Instrument("s3", objects)),
			Columns: handler.ObjectColumns(),
			Params:  params,
			Pager:   pagerOpts,
			GoTo:    pager.DefaultGoToFormOptions(),
			Timeout: cfg.SourceTimeout,
		}, logger)
		objectHandler.RegisterRoutes(mux, "/objects", rateLimitMw.Limit)
		logger.Info("Bucket listing enabled", "bucket", cfg.S3Bucket, "prefix", cfg.S3Prefix)
	}

	// metrics.Middleware sits next to the mux so it sees the matched pattern
	app := middleware.Stack(
		loggingMw.Handler,
		securityMw.Handler,
		metrics.Middleware,
	)(mux)

	// ==========================================================================
	// Start server
	// ==========================================================================

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           app,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Drop idle rate limiter entries
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go func() {
		ticker := time.NewTicker(cfg.RateLimitWindow)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				if n := rateLimiter.Sweep(); n > 0 {
					logger.Debug("Rate limiter sweep", "removed", n, "tracked", rateLimiter.Len())
				}
			}
		}
	}()

	// Channel to listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	logger.Info("Server starting", "address", server.Addr, "env", cfg.Env, "base_url", cfg.BaseURL)
	return serve(server, sigChan, 30*time.Second, logger)
}

// serve runs server until a signal arrives on stop, then shuts it down
// gracefully. A listener failure such as a taken port is returned at once.
func serve(server *http.Server, stop <-chan os.Signal, shutdownTimeout time.Duration, logger *slog.Logger) error {
	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal or server failure
	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		logger.Info("Shutdown signal received, initiating graceful shutdown...", "signal", sig.String())
	}

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
		return err
	}

	logger.Info("Graceful shutdown complete")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
