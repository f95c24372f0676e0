package app

import (
	"context"
	"fmt"

	"github.com/Black-And-White-Club/palette-forge/config"
	"github.com/Black-And-White-Club/palette-forge/pkg/observability"
)

// Start loads configuration from configFile, serves until ctx is done and
// then shuts everything down.
func Start(ctx context.Context, configFile string) error {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	obs, err := observability.Init(ctx, config.ToObsConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	logger := obs.Provider.Logger

	application := &App{}
	if err := application.Initialize(ctx, cfg, obs); err != nil {
		if application.DB != nil {
			_ = application.Close()
		}
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	runErr := application.Run(ctx)
	if err := application.Close(); err != nil {
		logger.Error("Error during shutdown", "error", err)
	}
	return runErr
}
