package palettedb

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Repository defines the contract for saved palette persistence.
// Every method accepts an optional bun.IDB so callers can run it inside a
// transaction; nil means the repository's own connection.
type Repository interface {
	// Insert stores a new palette. A taken id yields ErrDuplicateID.
	Insert(ctx context.Context, db bun.IDB, palette *SavedPalette) error

	// List returns palettes created at or after since, newest first.
	// A zero since returns everything.
	List(ctx context.Context, db bun.IDB, since time.Time) ([]SavedPalette, error)

	// GetByID retrieves one palette.
	GetByID(ctx context.Context, db bun.IDB, id int64) (*SavedPalette, error)

	// Delete removes one palette.
	Delete(ctx context.Context, db bun.IDB, id int64) error

	// MaxID returns the largest stored id, or 0 when the store is empty.
	MaxID(ctx context.Context, db bun.IDB) (int64, error)
}
