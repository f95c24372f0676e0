package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("json outside development", func(t *testing.T) {
		var buf bytes.Buffer
		NewLogger(&buf, "production", "info").Info("hello", slog.String("k", "v"))

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "hello", line["msg"])
		assert.Equal(t, "v", line["k"])
	})

	t.Run("text in development", func(t *testing.T) {
		var buf bytes.Buffer
		NewLogger(&buf, "development", "info").Info("hello")
		assert.True(t, strings.Contains(buf.String(), "msg=hello"))
	})

	t.Run("level filters", func(t *testing.T) {
		var buf bytes.Buffer
		NewLogger(&buf, "production", "error").Warn("dropped")
		assert.Empty(t, buf.String())
	})
}

func TestInit(t *testing.T) {
	obs, err := Init(context.Background(), Config{Environment: "test", LogLevel: "error"})
	require.NoError(t, err)
	require.NotNil(t, obs.Provider.Logger)
	require.NotNil(t, obs.Registry.Tracer)
	require.NotNil(t, obs.Registry.Prometheus)

	// ServeMetrics without an address is a no-op.
	assert.NoError(t, obs.ServeMetrics(context.Background()))
}

func TestInitWithWriter(t *testing.T) {
	var buf bytes.Buffer
	obs, err := InitWithWriter(context.Background(), &buf, Config{Environment: "production", LogLevel: "warn"})
	require.NoError(t, err)

	obs.Provider.Logger.Info("dropped")
	obs.Provider.Logger.Warn("kept")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "kept", line["msg"])
	assert.Equal(t, "palette-forge", line["service"])
}

func TestMetricsHandler(t *testing.T) {
	obs := NewTestObservability()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "palette_test_total", Help: "test"})
	obs.Registry.Prometheus.MustRegister(counter)
	counter.Inc()

	rr := httptest.NewRecorder()
	obs.MetricsHandler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "palette_test_total 1")
}
