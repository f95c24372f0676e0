package migrations

import (
	"context"
	"fmt"

	palettedb "github.com/Black-And-White-Club/palette-forge/app/modules/palette/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Adding created_at index to saved_palettes...")
			if _, err := db.NewCreateIndex().
				Model((*palettedb.SavedPalette)(nil)).
				Index("idx_saved_palettes_created_at").
				Column("created_at").
				IfNotExists().
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to create idx_saved_palettes_created_at: %w", err)
			}
			return nil
		},
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Dropping created_at index from saved_palettes...")
			if _, err := db.NewDropIndex().
				Model((*palettedb.SavedPalette)(nil)).
				Index("idx_saved_palettes_created_at").
				IfExists().
				Exec(ctx); err != nil {
				return fmt.Errorf("failed to drop idx_saved_palettes_created_at: %w", err)
			}
			return nil
		},
	)
}
