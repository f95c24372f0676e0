package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Black-And-White-Club/palette-forge/app/modules/palette"
	"github.com/Black-And-White-Club/palette-forge/config"
	"github.com/Black-And-White-Club/palette-forge/db/bundb"
	"github.com/Black-And-White-Club/palette-forge/pkg/eventbus"
	"github.com/Black-And-White-Club/palette-forge/pkg/observability"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

// App wires configuration, storage, transports and modules together.
type App struct {
	Config        *config.Config
	Observability observability.Observability
	EventBus      eventbus.EventBus
	Router        *message.Router
	HTTPRouter    chi.Router
	DB            *bun.DB
	PaletteModule *palette.Module

	routerCtx    context.Context
	routerCancel context.CancelFunc
	wg           sync.WaitGroup
}

// Initialize opens the store, migrates it, connects the bus and builds the modules.
func (app *App) Initialize(ctx context.Context, cfg *config.Config, obs observability.Observability) error {
	app.Config = cfg
	app.Observability = obs
	logger := obs.Provider.Logger

	db, err := bundb.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	app.DB = db

	if err := Migrate(ctx, db, logger); err != nil {
		return err
	}

	if cfg.NATS.URL != "" {
		app.EventBus, err = eventbus.NewNATSEventBus(cfg.NATS.URL, logger)
		if err != nil {
			return fmt.Errorf("failed to create event bus: %w", err)
		}
	} else {
		logger.InfoContext(ctx, "No NATS URL configured, using in-process event bus")
		app.EventBus = eventbus.NewInMemoryEventBus(logger)
	}

	app.Router, err = message.NewRouter(message.RouterConfig{CloseTimeout: 10 * time.Second}, watermill.NewSlogLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create Watermill router: %w", err)
	}
	app.HTTPRouter = chi.NewRouter()

	app.routerCtx, app.routerCancel = context.WithCancel(context.Background())
	if err := app.initializeModules(ctx); err != nil {
		return err
	}

	logger.InfoContext(ctx, "Application initialized")
	return nil
}

func (app *App) initializeModules(ctx context.Context) error {
	paletteModule, err := palette.NewPaletteModule(
		ctx,
		app.Config,
		app.Observability,
		app.EventBus,
		app.Router,
		app.HTTPRouter,
		app.routerCtx,
		app.DB,
	)
	if err != nil {
		return fmt.Errorf("failed to initialize palette module: %w", err)
	}
	app.PaletteModule = paletteModule
	return nil
}

// Handler returns the HTTP API.
func (app *App) Handler() http.Handler {
	return app.HTTPRouter
}

// Run serves the bus router, the HTTP API and metrics until ctx is done.
func (app *App) Run(ctx context.Context) error {
	logger := app.Observability.Provider.Logger

	routerErr := make(chan error, 1)
	go func() {
		if err := app.Router.Run(app.routerCtx); err != nil {
			routerErr <- err
		}
	}()
	select {
	case <-app.Router.Running():
		logger.InfoContext(ctx, "Watermill router running")
	case err := <-routerErr:
		return fmt.Errorf("watermill router failed: %w", err)
	case <-ctx.Done():
		return ctx.Err()
	}

	app.wg.Add(1)
	go app.PaletteModule.Run(ctx, &app.wg)

	go func() {
		if err := app.Observability.ServeMetrics(ctx); err != nil {
			logger.ErrorContext(ctx, "Metrics server failed", slog.Any("error", err))
		}
	}()

	srv := &http.Server{
		Addr:              app.Config.HTTP.Address,
		Handler:           app.HTTPRouter,
		ReadHeaderTimeout: 5 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "Serving HTTP API", slog.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-serveErr:
		return fmt.Errorf("HTTP server failed: %w", err)
	case err := <-routerErr:
		return fmt.Errorf("watermill router failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server forced to shutdown", slog.Any("error", err))
	}
	app.wg.Wait()
	return nil
}

// Close stops the modules and releases the bus and the database.
func (app *App) Close() error {
	logger := app.Observability.Provider.Logger
	var errs []error

	if app.PaletteModule != nil {
		if err := app.PaletteModule.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if app.routerCancel != nil {
		app.routerCancel()
	}
	if app.EventBus != nil {
		if err := app.EventBus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing event bus: %w", err))
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing database: %w", err))
		}
	}

	logger.Info("Application shut down")
	return errors.Join(errs...)
}
