// Package bundb opens the bun handle for the palette store: Postgres when a DSN
// is configured, otherwise a local SQLite file.
package bundb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Black-And-White-Club/palette-forge/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	_ "modernc.org/sqlite"
)

// sqlitePragmas are set on every new connection through the DSN.
var sqlitePragmas = []string{
	"foreign_keys(1)",
	"busy_timeout(10000)",
	"synchronous(NORMAL)",
}

// Open returns a pinged bun.DB for cfg.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*bun.DB, error) {
	if cfg.Postgres.DSN != "" {
		logger.InfoContext(ctx, "Opening Postgres palette store")
		return OpenPostgres(ctx, cfg.Postgres.DSN)
	}
	logger.InfoContext(ctx, "Opening SQLite palette store", slog.String("path", cfg.SQLite.Path))
	return OpenSQLite(ctx, cfg.SQLite.Path)
}

// OpenPostgres connects through pgdriver.
func OpenPostgres(ctx context.Context, dsn string) (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	if err := sqldb.PingContext(ctx); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return bun.NewDB(sqldb, pgdialect.New()), nil
}

// OpenSQLite opens path with the modernc driver. ":memory:" keeps a single
// connection so every query sees the same database.
func OpenSQLite(ctx context.Context, path string) (*bun.DB, error) {
	memory := path == ":memory:" || strings.Contains(path, "mode=memory")
	if !memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	pragmas := sqlitePragmas
	if !memory {
		pragmas = append([]string{"journal_mode(WAL)"}, pragmas...)
	}
	sqldb, err := sql.Open("sqlite", sqliteDSN(path, pragmas))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	if memory {
		sqldb.SetMaxOpenConns(1)
	}

	if err := sqldb.PingContext(ctx); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

func sqliteDSN(path string, pragmas []string) string {
	params := make([]string, 0, len(pragmas))
	for _, p := range pragmas {
		params = append(params, "_pragma="+p)
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + strings.Join(params, "&")
}
