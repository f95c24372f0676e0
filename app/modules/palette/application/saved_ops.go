package paletteservice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/uptrace/bun"

	palettedomain "github.com/Black-And-White-Club/palette-forge/app/modules/palette/domain"
	paletteexport "github.com/Black-And-White-Club/palette-forge/app/modules/palette/infrastructure/export"
	palettedb "github.com/Black-And-White-Club/palette-forge/app/modules/palette/infrastructure/repositories"
	"github.com/Black-And-White-Club/palette-forge/pkg/observability/attr"
	"github.com/Black-And-White-Club/palette-forge/pkg/results"
)

// DateLayout renders the human readable date of a saved palette.
const DateLayout = "Jan 2, 2006 3:04 PM"

// Generate runs a stateless orchestration.
func (s *PaletteService) Generate(ctx context.Context, req palettedomain.Request) ([]palettedomain.Hex, error) {
	result, err := withTelemetry(s, ctx, "Generate", req.BaseColor, func(ctx context.Context) (results.OperationResult[[]palettedomain.Hex, error], error) {
		if err := s.checkCount(req.Count); err != nil {
			return outcome[[]palettedomain.Hex](nil, err)
		}

		colors, err := palettedomain.Orchestrate(req, s.rng)
		if err == nil {
			s.recordGenerated(ctx, palettedomain.ParseMode(string(req.Mode)), len(colors))
		}
		return outcome(colors, err)
	})
	return unwrap(result, err)
}

// SaveSession stores the palette currently displayed by a session.
func (s *PaletteService) SaveSession(ctx context.Context, sessionID string) (*palettedb.SavedPalette, error) {
	saveTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*palettedb.SavedPalette, error], error) {
		var colors []palettedomain.Hex
		if _, err := s.sessions.with(sessionID, func(session *palettedomain.Session) error {
			colors = session.Palette()
			return nil
		}); err != nil {
			return outcome[*palettedb.SavedPalette](nil, err)
		}
		saved, err := s.insertPalette(ctx, db, colors)
		return outcome(saved, err)
	}

	result, err := withTelemetry(s, ctx, "SaveSession", sessionID, func(ctx context.Context) (results.OperationResult[*palettedb.SavedPalette, error], error) {
		return s.saveWithRetry(ctx, saveTx)
	})
	return unwrap(result, err)
}

// SaveColors stores an explicit palette.
func (s *PaletteService) SaveColors(ctx context.Context, colors []string) (*palettedb.SavedPalette, error) {
	saveTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*palettedb.SavedPalette, error], error) {
		hexes, err := parseColors(colors)
		if err != nil {
			return outcome[*palettedb.SavedPalette](nil, err)
		}
		saved, err := s.insertPalette(ctx, db, hexes)
		return outcome(saved, err)
	}

	result, err := withTelemetry(s, ctx, "SaveColors", "", func(ctx context.Context) (results.OperationResult[*palettedb.SavedPalette, error], error) {
		return s.saveWithRetry(ctx, saveTx)
	})
	return unwrap(result, err)
}

// maxSaveAttempts bounds how often a save is retried after a concurrent save
// claimed the same id.
const maxSaveAttempts = 3

// saveWithRetry runs a save transaction again when its id was taken between
// reading MaxID and inserting. Each attempt gets its own transaction because
// Postgres aborts a transaction on a constraint violation.
func (s *PaletteService) saveWithRetry(
	ctx context.Context,
	saveTx func(ctx context.Context, db bun.IDB) (results.OperationResult[*palettedb.SavedPalette, error], error),
) (results.OperationResult[*palettedb.SavedPalette, error], error) {
	for attempt := 1; ; attempt++ {
		result, err := runInTx(s, ctx, saveTx)
		if err == nil || !errors.Is(err, palettedb.ErrDuplicateID) || attempt == maxSaveAttempts {
			return result, err
		}
		s.logger.WarnContext(ctx, "Palette id taken by a concurrent save, retrying",
			attr.ExtractCorrelationID(ctx),
			attr.Int("attempt", attempt),
			attr.Error(err),
		)
	}
}

// insertPalette stores colors under a fresh millisecond id, bumped past the
// newest existing id when two saves land in the same millisecond.
func (s *PaletteService) insertPalette(ctx context.Context, db bun.IDB, colors []palettedomain.Hex) (*palettedb.SavedPalette, error) {
	if len(colors) == 0 {
		return nil, ErrEmptyPalette
	}
	if err := s.checkCount(len(colors)); err != nil {
		return nil, err
	}

	newest, err := s.repo.MaxID(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("failed to read newest palette id: %w", err)
	}

	now := s.clock.Now()
	saved := &palettedb.SavedPalette{
		ID:        max(now.UnixMilli(), newest+1),
		Colors:    make([]string, len(colors)),
		Date:      now.Format(DateLayout),
		CreatedAt: now.UTC(),
	}
	for i, c := range colors {
		saved.Colors[i] = c.String()
	}

	if err := s.repo.Insert(ctx, db, saved); err != nil {
		return nil, fmt.Errorf("failed to save palette: %w", err)
	}

	s.logger.InfoContext(ctx, "Palette saved",
		attr.ExtractCorrelationID(ctx),
		attr.PaletteID(saved.ID),
		attr.Int("colors", len(saved.Colors)),
	)
	if s.metrics != nil {
		s.metrics.RecordPaletteSaved(ctx)
	}
	return saved, nil
}

// ListSaved returns saved palettes newest first, optionally bounded by since.
func (s *PaletteService) ListSaved(ctx context.Context, since string) ([]palettedb.SavedPalette, error) {
	listTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[[]palettedb.SavedPalette, error], error) {
		from, err := parseSince(since, s.clock.Now())
		if err != nil {
			return outcome[[]palettedb.SavedPalette](nil, err)
		}

		palettes, err := s.repo.List(ctx, db, from)
		if err != nil {
			return outcome[[]palettedb.SavedPalette](nil, fmt.Errorf("failed to list palettes: %w", err))
		}
		if palettes == nil {
			palettes = []palettedb.SavedPalette{}
		}
		return outcome(palettes, nil)
	}

	result, err := withTelemetry(s, ctx, "ListSaved", since, func(ctx context.Context) (results.OperationResult[[]palettedb.SavedPalette, error], error) {
		return runInTx(s, ctx, listTx)
	})
	return unwrap(result, err)
}

// GetSaved returns one saved palette.
func (s *PaletteService) GetSaved(ctx context.Context, paletteID int64) (*palettedb.SavedPalette, error) {
	getTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*palettedb.SavedPalette, error], error) {
		saved, err := s.repo.GetByID(ctx, db, paletteID)
		if err != nil {
			return outcome[*palettedb.SavedPalette](nil, fmt.Errorf("failed to get palette %d: %w", paletteID, err))
		}
		return outcome(saved, nil)
	}

	result, err := withTelemetry(s, ctx, "GetSaved", strconv.FormatInt(paletteID, 10), func(ctx context.Context) (results.OperationResult[*palettedb.SavedPalette, error], error) {
		return runInTx(s, ctx, getTx)
	})
	return unwrap(result, err)
}

// DeleteSaved removes a saved palette.
func (s *PaletteService) DeleteSaved(ctx context.Context, paletteID int64) error {
	deleteTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[int64, error], error) {
		if err := s.repo.Delete(ctx, db, paletteID); err != nil {
			return outcome(int64(0), fmt.Errorf("failed to delete palette %d: %w", paletteID, err))
		}
		return outcome(paletteID, nil)
	}

	result, err := withTelemetry(s, ctx, "DeleteSaved", strconv.FormatInt(paletteID, 10), func(ctx context.Context) (results.OperationResult[int64, error], error) {
		return runInTx(s, ctx, deleteTx)
	})
	_, err = unwrap(result, err)
	return err
}

// ExportXLSX writes every saved palette as a workbook.
func (s *PaletteService) ExportXLSX(ctx context.Context, w io.Writer) error {
	palettes, err := s.ListSaved(ctx, "")
	if err != nil {
		return err
	}
	if err := paletteexport.WriteXLSX(w, palettes); err != nil {
		return fmt.Errorf("failed to export palettes: %w", err)
	}
	return nil
}

// RenderSwatch writes a PNG strip of one saved palette.
func (s *PaletteService) RenderSwatch(ctx context.Context, paletteID int64, w io.Writer) error {
	saved, err := s.GetSaved(ctx, paletteID)
	if err != nil {
		return err
	}
	if err := paletteexport.RenderSwatch(w, saved.Colors, 0, 0); err != nil {
		return fmt.Errorf("failed to render palette %d: %w", paletteID, err)
	}
	return nil
}
