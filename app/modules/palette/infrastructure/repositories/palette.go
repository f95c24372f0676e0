package palettedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound is returned when a saved palette does not exist.
	ErrNotFound = errors.New("saved palette not found")

	// ErrDuplicateID is returned when an insert races another save for the same id.
	ErrDuplicateID = errors.New("saved palette id already exists")
)

// pgUniqueViolation is the Postgres SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// isDuplicateKey reports a primary key collision on either supported driver.
func isDuplicateKey(err error) bool {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == pgUniqueViolation
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY || code == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new saved palette repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// Insert stores a new palette.
func (r *Impl) Insert(ctx context.Context, db bun.IDB, palette *SavedPalette) error {
	db = r.resolveDB(db)
	if palette.CreatedAt.IsZero() {
		palette.CreatedAt = time.Now().UTC()
	}
	if _, err := db.NewInsert().Model(palette).Exec(ctx); err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("%w: %d", ErrDuplicateID, palette.ID)
		}
		return fmt.Errorf("failed to insert saved palette: %w", err)
	}
	return nil
}

// List returns palettes created at or after since, newest first.
func (r *Impl) List(ctx context.Context, db bun.IDB, since time.Time) ([]SavedPalette, error) {
	db = r.resolveDB(db)
	palettes := make([]SavedPalette, 0)
	q := db.NewSelect().Model(&palettes).Order("id DESC")
	if !since.IsZero() {
		q = q.Where("id >= ?", since.UnixMilli())
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list saved palettes: %w", err)
	}
	return palettes, nil
}

// GetByID retrieves one palette.
func (r *Impl) GetByID(ctx context.Context, db bun.IDB, id int64) (*SavedPalette, error) {
	db = r.resolveDB(db)
	palette := new(SavedPalette)
	err := db.NewSelect().
		Model(palette).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get saved palette: %w", err)
	}
	return palette, nil
}

// Delete removes one palette.
func (r *Impl) Delete(ctx context.Context, db bun.IDB, id int64) error {
	db = r.resolveDB(db)
	result, err := db.NewDelete().
		Model((*SavedPalette)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete saved palette: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// MaxID returns the largest stored id, or 0 when the store is empty.
func (r *Impl) MaxID(ctx context.Context, db bun.IDB) (int64, error) {
	db = r.resolveDB(db)
	var maxID sql.NullInt64
	err := db.NewSelect().
		Model((*SavedPalette)(nil)).
		ColumnExpr("MAX(id)").
		Scan(ctx, &maxID)
	if err != nil {
		return 0, fmt.Errorf("failed to read max palette id: %w", err)
	}
	return maxID.Int64, nil
}
