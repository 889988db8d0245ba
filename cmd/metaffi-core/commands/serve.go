package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/MetaFFI/plugin-sdk/internal/logger"
	"github.com/MetaFFI/plugin-sdk/internal/telemetry"
	"github.com/MetaFFI/plugin-sdk/pkg/config"
	"github.com/MetaFFI/plugin-sdk/pkg/metrics"

	_ "github.com/MetaFFI/plugin-sdk/pkg/metrics/prometheus"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a debug HTTP server exposing /metrics and /healthz",
	Long: `serve starts a minimal chi-based HTTP server for operating the
engine out of process: Prometheus metrics (if enabled in config) and a
liveness probe. There is no CDTS traffic over HTTP — construct/traverse stay
CLI/in-process operations; this is purely the observability surface.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry piggybacks on the same enabled flag as metrics: both are
	// optional observability surfaces this debug server turns on together.
	telemetryCfg := telemetry.DefaultConfig()
	telemetryCfg.Enabled = cfg.Metrics.Enabled
	telemetryCfg.ServiceVersion = Version
	telemetryShutdown, err := telemetry.Init(ctx, telemetryCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := telemetryShutdown(ctx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}()

	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		r.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
		logger.Info("metrics enabled", "port", cfg.Metrics.Port)
	} else {
		logger.Info("metrics disabled")
	}

	addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
	if !cfg.Metrics.Enabled {
		addr = ":8099"
	}
	srv := &http.Server{Addr: addr, Handler: r}

	serveDone := make(chan error, 1)
	go func() { serveDone <- srv.ListenAndServe() }()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("metaffi-core debug server listening", "addr", addr)

	select {
	case <-sigChan:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	case err := <-serveDone:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}
