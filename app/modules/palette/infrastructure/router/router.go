package paletterouter

import (
	"context"
	"log/slog"
	"os"

	paletteevents "github.com/Black-And-White-Club/palette-forge/app/modules/palette/domain/events"
	palettehandlers "github.com/Black-And-White-Club/palette-forge/app/modules/palette/infrastructure/handlers"
	"github.com/Black-And-White-Club/palette-forge/pkg/eventbus"
	"github.com/Black-And-White-Club/palette-forge/pkg/handlerwrapper"
	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

const (
	TestEnvironmentFlag  = "APP_ENV"
	TestEnvironmentValue = "test"
)

// PaletteRouter handles Watermill handler registration for palette requests.
type PaletteRouter struct {
	logger         *slog.Logger
	router         *message.Router
	subscriber     eventbus.EventBus
	publisher      eventbus.EventBus
	tracer         trace.Tracer
	metricsBuilder *metrics.PrometheusMetricsBuilder
}

// NewPaletteRouter creates a new PaletteRouter. A nil registry, or APP_ENV=test,
// leaves the router without Prometheus metrics.
func NewPaletteRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber eventbus.EventBus,
	publisher eventbus.EventBus,
	tracer trace.Tracer,
	prometheusRegistry *prometheus.Registry,
) *PaletteRouter {
	var metricsBuilder *metrics.PrometheusMetricsBuilder
	if prometheusRegistry != nil && os.Getenv(TestEnvironmentFlag) != TestEnvironmentValue {
		builder := metrics.NewPrometheusMetricsBuilder(prometheusRegistry, "palette", "router")
		metricsBuilder = &builder
	}

	return &PaletteRouter{
		logger:         logger,
		router:         router,
		subscriber:     subscriber,
		publisher:      publisher,
		tracer:         tracer,
		metricsBuilder: metricsBuilder,
	}
}

// Configure adds middleware and registers the palette handlers.
func (r *PaletteRouter) Configure(_ context.Context, handlers palettehandlers.Handlers) error {
	if r.metricsBuilder != nil {
		r.logger.Info("Adding Prometheus router metrics middleware")
		r.metricsBuilder.AddPrometheusRouterMetrics(r.router)
	}

	r.router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
		middleware.Retry{MaxRetries: 3}.Middleware,
	)

	r.registerHandlers(handlers)
	return nil
}

// handlerDeps bundles dependencies for handler registration.
type handlerDeps struct {
	router     *message.Router
	subscriber eventbus.EventBus
	publisher  eventbus.EventBus
	logger     *slog.Logger
	tracer     trace.Tracer
}

// registerHandlers wires request topics to handler methods.
func (r *PaletteRouter) registerHandlers(handlers palettehandlers.Handlers) {
	deps := handlerDeps{
		router:     r.router,
		subscriber: r.subscriber,
		publisher:  r.publisher,
		logger:     r.logger,
		tracer:     r.tracer,
	}

	r.logger.Info("Registering palette module handlers",
		slog.String("generate_subject", paletteevents.PaletteGenerateRequestedV1),
		slog.String("save_subject", paletteevents.PaletteSaveRequestedV1),
		slog.String("delete_subject", paletteevents.PaletteDeleteRequestedV1),
	)

	registerHandler(deps, paletteevents.PaletteGenerateRequestedV1, handlers.HandleGenerateRequested)
	registerHandler(deps, paletteevents.PaletteSaveRequestedV1, handlers.HandleSaveRequested)
	registerHandler(deps, paletteevents.PaletteDeleteRequestedV1, handlers.HandleDeleteRequested)

	r.logger.Info("Palette module handlers registered successfully")
}

// registerHandler is a generic function for type-safe Watermill handler registration.
// Results carry their topic in metadata, so the publish topic stays empty.
func registerHandler[T any](
	deps handlerDeps,
	topic string,
	handler func(context.Context, *T) ([]handlerwrapper.Result, error),
) {
	handlerName := "palette." + topic

	deps.router.AddHandler(
		handlerName,
		topic,
		deps.subscriber,
		"",
		deps.publisher,
		handlerwrapper.WrapTransformingTyped(
			handlerName,
			deps.logger,
			deps.tracer,
			handler,
		),
	)
}

// Close shuts down the router.
func (r *PaletteRouter) Close() error {
	return r.router.Close()
}
