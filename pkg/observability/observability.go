// Package observability builds the logger, tracer and metrics registry shared
// by every palette module.
package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Config selects how logs, traces and metrics are produced.
type Config struct {
	ServiceName    string
	Environment    string
	Version        string
	LogLevel       string
	MetricsAddress string
}

// Provider owns the process logger.
type Provider struct {
	Logger *slog.Logger
}

// Registry owns the tracer and the Prometheus registry.
type Registry struct {
	Tracer     trace.Tracer
	Prometheus *prometheus.Registry
}

// Observability bundles everything a module needs to report on itself.
type Observability struct {
	Provider *Provider
	Registry *Registry
	config   Config
}

// Init builds observability from cfg. Logs go to stderr as JSON, or as text when
// the environment is development.
func Init(ctx context.Context, cfg Config) (Observability, error) {
	return InitWithWriter(ctx, os.Stderr, cfg)
}

// InitWithWriter is Init with logs written to w.
func InitWithWriter(ctx context.Context, w io.Writer, cfg Config) (Observability, error) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "palette-forge"
	}
	logger := NewLogger(w, cfg.Environment, cfg.LogLevel).With(
		slog.String("service", cfg.ServiceName),
		slog.String("environment", cfg.Environment),
	)
	if cfg.Version != "" {
		logger = logger.With(slog.String("version", cfg.Version))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	logger.InfoContext(ctx, "Observability initialized",
		slog.String("log_level", cfg.LogLevel),
		slog.Bool("metrics_enabled", cfg.MetricsAddress != ""),
	)

	return Observability{
		Provider: &Provider{Logger: logger},
		Registry: &Registry{
			Tracer:     otel.Tracer(cfg.ServiceName),
			Prometheus: reg,
		},
		config: cfg,
	}, nil
}

// NewTestObservability discards logs and traces.
func NewTestObservability() Observability {
	return Observability{
		Provider: &Provider{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))},
		Registry: &Registry{
			Tracer:     noop.NewTracerProvider().Tracer("test"),
			Prometheus: prometheus.NewRegistry(),
		},
	}
}

// NewLogger returns a JSON logger, or a text logger for development.
func NewLogger(w io.Writer, environment, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if strings.EqualFold(environment, "development") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// ParseLevel maps a level name to a slog.Level. Unknown names mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MetricsHandler exposes the Prometheus registry.
func (o Observability) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(o.Registry.Prometheus, promhttp.HandlerOpts{Registry: o.Registry.Prometheus})
}

// ServeMetrics serves /metrics on the configured address until ctx is done.
// It returns immediately when no address is configured.
func (o Observability) ServeMetrics(ctx context.Context) error {
	addr := o.config.MetricsAddress
	if addr == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", o.MetricsHandler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	o.Provider.Logger.InfoContext(ctx, "Serving metrics", slog.String("address", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
