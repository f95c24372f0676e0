package migrations

import (
	"context"
	"fmt"

	palettedb "github.com/Black-And-White-Club/palette-forge/app/modules/palette/infrastructure/repositories"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

var Migrations = migrate.NewMigrations()

// CreateSavedPalettesTable creates the saved_palettes table from the bun model.
func CreateSavedPalettesTable(ctx context.Context, db *bun.DB) error {
	fmt.Println("Creating saved_palettes table...")
	_, err := db.NewCreateTable().Model((*palettedb.SavedPalette)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create saved_palettes table: %w", err)
	}
	fmt.Println("saved_palettes table created successfully!")
	return nil
}

// DropSavedPalettesTable drops the saved_palettes table.
func DropSavedPalettesTable(ctx context.Context, db *bun.DB) error {
	fmt.Println("Dropping saved_palettes table...")
	_, err := db.NewDropTable().Model((*palettedb.SavedPalette)(nil)).IfExists().Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to drop saved_palettes table: %w", err)
	}
	fmt.Println("saved_palettes table dropped successfully!")
	return nil
}

func init() {
	if err := Migrations.DiscoverCaller(); err != nil {
		panic(err)
	}
}
