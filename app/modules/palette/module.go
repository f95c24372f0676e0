package palette

import (
	"context"
	"fmt"
	"sync"

	paletteservice "github.com/Black-And-White-Club/palette-forge/app/modules/palette/application"
	palettehandlers "github.com/Black-And-White-Club/palette-forge/app/modules/palette/infrastructure/handlers"
	palettedb "github.com/Black-And-White-Club/palette-forge/app/modules/palette/infrastructure/repositories"
	paletterouter "github.com/Black-And-White-Club/palette-forge/app/modules/palette/infrastructure/router"
	"github.com/Black-And-White-Club/palette-forge/config"
	"github.com/Black-And-White-Club/palette-forge/pkg/eventbus"
	"github.com/Black-And-White-Club/palette-forge/pkg/observability"
	palettemetrics "github.com/Black-And-White-Club/palette-forge/pkg/observability/metrics/palette"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"golang.org/x/time/rate"
)

// Module represents the palette module.
type Module struct {
	PaletteService paletteservice.Service
	PaletteRouter  *paletterouter.PaletteRouter
	cancelFunc     context.CancelFunc
	observability  observability.Observability
}

// NewPaletteModule creates and initializes a new palette module. The bus
// handlers are registered on router and the HTTP API on httpRouter.
func NewPaletteModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	eventBus eventbus.EventBus,
	router *message.Router,
	httpRouter chi.Router,
	routerCtx context.Context,
	db *bun.DB,
) (*Module, error) {
	logger := obs.Provider.Logger
	tracer := obs.Registry.Tracer

	logger.InfoContext(ctx, "palette.NewPaletteModule initializing")

	// 1. Initialize Repository
	repo := palettedb.NewRepository(db)

	// 2. Initialize Metrics
	metrics := palettemetrics.NewPrometheus(obs.Registry.Prometheus)

	// 3. Initialize Service
	service := paletteservice.NewPaletteService(repo, logger, metrics, tracer, db, paletteservice.Settings{
		Defaults:  cfg.Palette.Defaults,
		MaxColors: cfg.Palette.MaxColors,
	})

	// 4. Initialize Handlers
	handlers := palettehandlers.NewPaletteHandlers(service, eventBus, logger, tracer)

	// 5. Initialize Router
	paletteRouter := paletterouter.NewPaletteRouter(
		logger,
		router,
		eventBus,
		eventBus,
		tracer,
		obs.Registry.Prometheus,
	)

	// 6. Configure the router with handlers
	if err := paletteRouter.Configure(routerCtx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure palette router: %w", err)
	}

	// 7. Mount the HTTP API
	palettehandlers.RegisterRoutes(httpRouter, handlers, palettehandlers.RouteConfig{
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Limiter:        palettehandlers.NewIPRateLimiter(rate.Limit(cfg.HTTP.RateLimit), cfg.HTTP.RateBurst),
		Logger:         logger,
	})

	return &Module{
		PaletteService: service,
		PaletteRouter:  paletteRouter,
		observability:  obs,
	}, nil
}

// Run starts the palette module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Provider.Logger
	logger.InfoContext(ctx, "Starting palette module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Palette module goroutine stopped")
}

// Close shuts down the palette module.
func (m *Module) Close() error {
	logger := m.observability.Provider.Logger
	logger.Info("Stopping palette module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	if m.PaletteRouter != nil {
		if err := m.PaletteRouter.Close(); err != nil {
			logger.Error("Error closing PaletteRouter from module", "error", err)
			return fmt.Errorf("error closing PaletteRouter: %w", err)
		}
	}

	logger.Info("Palette module stopped")
	return nil
}
