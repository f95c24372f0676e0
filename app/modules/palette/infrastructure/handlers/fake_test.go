package palettehandlers

import (
	"context"
	"io"

	paletteservice "github.com/Black-And-White-Club/palette-forge/app/modules/palette/application"
	palettedomain "github.com/Black-And-White-Club/palette-forge/app/modules/palette/domain"
	palettedb "github.com/Black-And-White-Club/palette-forge/app/modules/palette/infrastructure/repositories"
)

// ------------------------
// Fake Palette Service
// ------------------------

type FakeService struct {
	trace []string

	NewSessionFunc     func(ctx context.Context) (*paletteservice.SessionView, error)
	GetSessionFunc     func(ctx context.Context, sessionID string) (*paletteservice.SessionView, error)
	EndSessionFunc     func(ctx context.Context, sessionID string) error
	UpdateControlsFunc func(ctx context.Context, sessionID string, controls palettedomain.Controls) (*paletteservice.SessionView, error)
	RegenerateFunc     func(ctx context.Context, sessionID string) (*paletteservice.SessionView, error)
	ToggleLockFunc     func(ctx context.Context, sessionID string, position int) (*paletteservice.SessionView, error)
	ResetSessionFunc   func(ctx context.Context, sessionID string) (*paletteservice.SessionView, error)
	LoadPaletteFunc    func(ctx context.Context, sessionID string, paletteID int64) (*paletteservice.SessionView, error)
	GenerateFunc       func(ctx context.Context, req palettedomain.Request) ([]palettedomain.Hex, error)
	SaveSessionFunc    func(ctx context.Context, sessionID string) (*palettedb.SavedPalette, error)
	SaveColorsFunc     func(ctx context.Context, colors []string) (*palettedb.SavedPalette, error)
	ListSavedFunc      func(ctx context.Context, since string) ([]palettedb.SavedPalette, error)
	GetSavedFunc       func(ctx context.Context, paletteID int64) (*palettedb.SavedPalette, error)
	DeleteSavedFunc    func(ctx context.Context, paletteID int64) error
	ExportXLSXFunc     func(ctx context.Context, w io.Writer) error
	RenderSwatchFunc   func(ctx context.Context, paletteID int64, w io.Writer) error
}

func NewFakeService() *FakeService {
	return &FakeService{trace: []string{}}
}

func (f *FakeService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeService) NewSession(ctx context.Context) (*paletteservice.SessionView, error) {
	f.record("NewSession")
	if f.NewSessionFunc != nil {
		return f.NewSessionFunc(ctx)
	}
	return &paletteservice.SessionView{}, nil
}

func (f *FakeService) GetSession(ctx context.Context, sessionID string) (*paletteservice.SessionView, error) {
	f.record("GetSession")
	if f.GetSessionFunc != nil {
		return f.GetSessionFunc(ctx, sessionID)
	}
	return nil, paletteservice.ErrSessionNotFound
}

func (f *FakeService) EndSession(ctx context.Context, sessionID string) error {
	f.record("EndSession")
	if f.EndSessionFunc != nil {
		return f.EndSessionFunc(ctx, sessionID)
	}
	return nil
}

func (f *FakeService) UpdateControls(ctx context.Context, sessionID string, controls palettedomain.Controls) (*paletteservice.SessionView, error) {
	f.record("UpdateControls")
	if f.UpdateControlsFunc != nil {
		return f.UpdateControlsFunc(ctx, sessionID, controls)
	}
	return nil, paletteservice.ErrSessionNotFound
}

func (f *FakeService) Regenerate(ctx context.Context, sessionID string) (*paletteservice.SessionView, error) {
	f.record("Regenerate")
	if f.RegenerateFunc != nil {
		return f.RegenerateFunc(ctx, sessionID)
	}
	return nil, paletteservice.ErrSessionNotFound
}

func (f *FakeService) ToggleLock(ctx context.Context, sessionID string, position int) (*paletteservice.SessionView, error) {
	f.record("ToggleLock")
	if f.ToggleLockFunc != nil {
		return f.ToggleLockFunc(ctx, sessionID, position)
	}
	return nil, paletteservice.ErrSessionNotFound
}

func (f *FakeService) ResetSession(ctx context.Context, sessionID string) (*paletteservice.SessionView, error) {
	f.record("ResetSession")
	if f.ResetSessionFunc != nil {
		return f.ResetSessionFunc(ctx, sessionID)
	}
	return nil, paletteservice.ErrSessionNotFound
}

func (f *FakeService) LoadPalette(ctx context.Context, sessionID string, paletteID int64) (*paletteservice.SessionView, error) {
	f.record("LoadPalette")
	if f.LoadPaletteFunc != nil {
		return f.LoadPaletteFunc(ctx, sessionID, paletteID)
	}
	return nil, paletteservice.ErrSessionNotFound
}

func (f *FakeService) Generate(ctx context.Context, req palettedomain.Request) ([]palettedomain.Hex, error) {
	f.record("Generate")
	if f.GenerateFunc != nil {
		return f.GenerateFunc(ctx, req)
	}
	return []palettedomain.Hex{}, nil
}

func (f *FakeService) SaveSession(ctx context.Context, sessionID string) (*palettedb.SavedPalette, error) {
	f.record("SaveSession")
	if f.SaveSessionFunc != nil {
		return f.SaveSessionFunc(ctx, sessionID)
	}
	return nil, paletteservice.ErrSessionNotFound
}

func (f *FakeService) SaveColors(ctx context.Context, colors []string) (*palettedb.SavedPalette, error) {
	f.record("SaveColors")
	if f.SaveColorsFunc != nil {
		return f.SaveColorsFunc(ctx, colors)
	}
	return &palettedb.SavedPalette{Colors: colors}, nil
}

func (f *FakeService) ListSaved(ctx context.Context, since string) ([]palettedb.SavedPalette, error) {
	f.record("ListSaved")
	if f.ListSavedFunc != nil {
		return f.ListSavedFunc(ctx, since)
	}
	return []palettedb.SavedPalette{}, nil
}

func (f *FakeService) GetSaved(ctx context.Context, paletteID int64) (*palettedb.SavedPalette, error) {
	f.record("GetSaved")
	if f.GetSavedFunc != nil {
		return f.GetSavedFunc(ctx, paletteID)
	}
	return nil, palettedb.ErrNotFound
}

func (f *FakeService) DeleteSaved(ctx context.Context, paletteID int64) error {
	f.record("DeleteSaved")
	if f.DeleteSavedFunc != nil {
		return f.DeleteSavedFunc(ctx, paletteID)
	}
	return nil
}

func (f *FakeService) ExportXLSX(ctx context.Context, w io.Writer) error {
	f.record("ExportXLSX")
	if f.ExportXLSXFunc != nil {
		return f.ExportXLSXFunc(ctx, w)
	}
	return nil
}

func (f *FakeService) RenderSwatch(ctx context.Context, paletteID int64, w io.Writer) error {
	f.record("RenderSwatch")
	if f.RenderSwatchFunc != nil {
		return f.RenderSwatchFunc(ctx, paletteID, w)
	}
	return nil
}

// Ensure the fake actually satisfies the interface
var _ paletteservice.Service = (*FakeService)(nil)
