package paletteservice

import (
	"context"
	"io"

	palettedomain "github.com/Black-And-White-Club/palette-forge/app/modules/palette/domain"
	palettedb "github.com/Black-And-White-Club/palette-forge/app/modules/palette/infrastructure/repositories"
)

// Service defines the contract for palette operations.
type Service interface {
	// --- SESSIONS ---

	NewSession(ctx context.Context) (*SessionView, error)
	GetSession(ctx context.Context, sessionID string) (*SessionView, error)
	EndSession(ctx context.Context, sessionID string) error

	// UpdateControls replaces the session controls and regenerates, keeping locks.
	UpdateControls(ctx context.Context, sessionID string, controls palettedomain.Controls) (*SessionView, error)
	Regenerate(ctx context.Context, sessionID string) (*SessionView, error)
	ToggleLock(ctx context.Context, sessionID string, position int) (*SessionView, error)
	ResetSession(ctx context.Context, sessionID string) (*SessionView, error)

	// LoadPalette displays a saved palette in the session.
	LoadPalette(ctx context.Context, sessionID string, paletteID int64) (*SessionView, error)

	// --- STATELESS ---

	Generate(ctx context.Context, req palettedomain.Request) ([]palettedomain.Hex, error)

	// --- SAVED PALETTES ---

	SaveSession(ctx context.Context, sessionID string) (*palettedb.SavedPalette, error)
	SaveColors(ctx context.Context, colors []string) (*palettedb.SavedPalette, error)
	ListSaved(ctx context.Context, since string) ([]palettedb.SavedPalette, error)
	GetSaved(ctx context.Context, paletteID int64) (*palettedb.SavedPalette, error)
	DeleteSaved(ctx context.Context, paletteID int64) error

	// --- EXPORTS ---

	ExportXLSX(ctx context.Context, w io.Writer) error
	RenderSwatch(ctx context.Context, paletteID int64, w io.Writer) error
}
