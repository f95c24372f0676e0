package testutils

import (
	"context"
	"log"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	natsmodule "github.com/testcontainers/testcontainers-go/modules/nats"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"

	"github.com/Black-And-White-Club/palette-forge/app"
	palettedb "github.com/Black-And-White-Club/palette-forge/app/modules/palette/infrastructure/repositories"
	"github.com/Black-And-White-Club/palette-forge/config"
	"github.com/Black-And-White-Club/palette-forge/db/bundb"
	"github.com/Black-And-White-Club/palette-forge/integration_tests/containers"
	"github.com/Black-And-White-Club/palette-forge/pkg/observability"
)

// TestEnvironment holds a migrated Postgres database and a NATS server.
type TestEnvironment struct {
	Ctx           context.Context
	PgContainer   *postgres.PostgresContainer
	NatsContainer *natsmodule.NATSContainer
	DB            *bun.DB
	Config        *config.Config
}

// NewTestEnvironment starts the containers and migrates the palette store.
// It skips the test under -short or when no container runtime is reachable.
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	env := &TestEnvironment{Ctx: ctx}
	t.Cleanup(env.Cleanup)

	pgContainer, pgConnStr, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		t.Fatalf("failed to setup postgres container: %v", err)
	}
	env.PgContainer = pgContainer

	natsContainer, natsURL, err := containers.SetupNatsContainer(ctx)
	if err != nil {
		t.Fatalf("failed to setup nats container: %v", err)
	}
	env.NatsContainer = natsContainer

	db, err := bundb.OpenPostgres(ctx, pgConnStr)
	if err != nil {
		t.Fatalf("failed to open postgres: %v", err)
	}
	env.DB = db

	logger := observability.NewTestObservability().Provider.Logger
	if err := app.Migrate(ctx, db, logger); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	env.Config = &config.Config{
		Postgres: config.PostgresConfig{DSN: pgConnStr},
		NATS:     config.NATSConfig{URL: natsURL},
	}
	return env
}

// Reset empties the palette store between subtests.
func (env *TestEnvironment) Reset(t *testing.T) {
	t.Helper()
	if _, err := env.DB.NewTruncateTable().Model((*palettedb.SavedPalette)(nil)).Exec(env.Ctx); err != nil {
		t.Fatalf("failed to truncate saved_palettes: %v", err)
	}
}

// Cleanup closes the database and terminates the containers.
func (env *TestEnvironment) Cleanup() {
	if env.DB != nil {
		if err := env.DB.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}
	if env.NatsContainer != nil {
		if err := env.NatsContainer.Terminate(env.Ctx); err != nil {
			log.Printf("Failed to terminate NATS container: %v", err)
		}
	}
	if env.PgContainer != nil {
		if err := env.PgContainer.Terminate(env.Ctx); err != nil {
			log.Printf("Failed to terminate Postgres container: %v", err)
		}
	}
}
