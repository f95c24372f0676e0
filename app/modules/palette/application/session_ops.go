package paletteservice

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/uptrace/bun"

	palettedomain "github.com/Black-And-White-Club/palette-forge/app/modules/palette/domain"
	palettedb "github.com/Black-And-White-Club/palette-forge/app/modules/palette/infrastructure/repositories"
	"github.com/Black-And-White-Club/palette-forge/pkg/observability/attr"
	"github.com/Black-And-White-Club/palette-forge/pkg/results"
)

// expected reports whether err is a caller-facing outcome rather than an infrastructure fault.
func expected(err error) bool {
	return errors.Is(err, palettedomain.ErrInvalidArgument) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, palettedb.ErrNotFound)
}

// outcome sorts err into a failure result or an infrastructure error.
func outcome[S any](value S, err error) (results.OperationResult[S, error], error) {
	if err != nil {
		if expected(err) {
			return results.FailureResult[S, error](err), nil
		}
		return results.OperationResult[S, error]{}, err
	}
	return results.SuccessResult[S, error](value), nil
}

// NewSession starts a session on the configured defaults and generates its first palette.
func (s *PaletteService) NewSession(ctx context.Context) (*SessionView, error) {
	result, err := withTelemetry(s, ctx, "NewSession", "", func(ctx context.Context) (results.OperationResult[*SessionView, error], error) {
		id, view, err := s.sessions.create(s.settings.Defaults, func(session *palettedomain.Session) error {
			_, err := session.Regenerate(s.rng)
			return err
		})
		if err != nil {
			return outcome[*SessionView](nil, fmt.Errorf("failed to start session: %w", err))
		}

		s.logger.InfoContext(ctx, "Session started", attr.ExtractCorrelationID(ctx), attr.SessionID(id))
		s.recordGenerated(ctx, view.Controls.Mode, len(view.Colors))
		s.recordActiveSessions(ctx)
		return outcome(view, nil)
	})
	return unwrap(result, err)
}

// GetSession returns the current state of a session.
func (s *PaletteService) GetSession(ctx context.Context, sessionID string) (*SessionView, error) {
	result, err := withTelemetry(s, ctx, "GetSession", sessionID, func(ctx context.Context) (results.OperationResult[*SessionView, error], error) {
		view, err := s.sessions.with(sessionID, func(*palettedomain.Session) error { return nil })
		return outcome(view, err)
	})
	return unwrap(result, err)
}

// EndSession discards a session.
func (s *PaletteService) EndSession(ctx context.Context, sessionID string) error {
	result, err := withTelemetry(s, ctx, "EndSession", sessionID, func(ctx context.Context) (results.OperationResult[bool, error], error) {
		if !s.sessions.remove(sessionID) {
			return outcome(false, ErrSessionNotFound)
		}
		s.recordActiveSessions(ctx)
		return outcome(true, nil)
	})
	_, err = unwrap(result, err)
	return err
}

// UpdateControls replaces the session controls and regenerates, keeping locks.
func (s *PaletteService) UpdateControls(ctx context.Context, sessionID string, controls palettedomain.Controls) (*SessionView, error) {
	result, err := withTelemetry(s, ctx, "UpdateControls", sessionID, func(ctx context.Context) (results.OperationResult[*SessionView, error], error) {
		controls.Mode = palettedomain.ParseMode(string(controls.Mode))
		if err := s.checkCount(controls.Count); err != nil {
			return outcome[*SessionView](nil, err)
		}

		view, err := s.sessions.with(sessionID, func(session *palettedomain.Session) error {
			_, err := session.Update(controls, s.rng)
			return err
		})
		if err == nil {
			s.recordGenerated(ctx, view.Controls.Mode, len(view.Colors))
		}
		return outcome(view, err)
	})
	return unwrap(result, err)
}

// Regenerate produces a fresh palette from the session controls, keeping locked swatches.
func (s *PaletteService) Regenerate(ctx context.Context, sessionID string) (*SessionView, error) {
	result, err := withTelemetry(s, ctx, "Regenerate", sessionID, func(ctx context.Context) (results.OperationResult[*SessionView, error], error) {
		view, err := s.sessions.with(sessionID, func(session *palettedomain.Session) error {
			_, err := session.Regenerate(s.rng)
			return err
		})
		if err == nil {
			s.recordGenerated(ctx, view.Controls.Mode, len(view.Colors))
		}
		return outcome(view, err)
	})
	return unwrap(result, err)
}

// ToggleLock pins or unpins one position of the displayed palette.
func (s *PaletteService) ToggleLock(ctx context.Context, sessionID string, position int) (*SessionView, error) {
	identifier := sessionID + "/" + strconv.Itoa(position)
	result, err := withTelemetry(s, ctx, "ToggleLock", identifier, func(ctx context.Context) (results.OperationResult[*SessionView, error], error) {
		view, err := s.sessions.with(sessionID, func(session *palettedomain.Session) error {
			locked, err := session.ToggleLock(position)
			if err != nil {
				return err
			}
			s.logger.DebugContext(ctx, "Lock toggled",
				attr.SessionID(sessionID),
				attr.Int("position", position),
				attr.Bool("locked", locked),
			)
			return nil
		})
		return outcome(view, err)
	})
	return unwrap(result, err)
}

// ResetSession restores the default controls, clears locks and regenerates.
func (s *PaletteService) ResetSession(ctx context.Context, sessionID string) (*SessionView, error) {
	result, err := withTelemetry(s, ctx, "ResetSession", sessionID, func(ctx context.Context) (results.OperationResult[*SessionView, error], error) {
		view, err := s.sessions.with(sessionID, func(session *palettedomain.Session) error {
			_, err := session.Reset(s.settings.Defaults, s.rng)
			return err
		})
		if err == nil {
			s.recordGenerated(ctx, view.Controls.Mode, len(view.Colors))
		}
		return outcome(view, err)
	})
	return unwrap(result, err)
}

// LoadPalette displays a saved palette in the session. Locks stay on their positions.
func (s *PaletteService) LoadPalette(ctx context.Context, sessionID string, paletteID int64) (*SessionView, error) {
	loadTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*SessionView, error], error) {
		saved, err := s.repo.GetByID(ctx, db, paletteID)
		if err != nil {
			return outcome[*SessionView](nil, fmt.Errorf("failed to load palette %d: %w", paletteID, err))
		}

		colors, err := parseColors(saved.Colors)
		if err != nil {
			return outcome[*SessionView](nil, fmt.Errorf("palette %d: %w", paletteID, err))
		}

		view, err := s.sessions.with(sessionID, func(session *palettedomain.Session) error {
			session.Load(colors)
			return nil
		})
		return outcome(view, err)
	}

	identifier := sessionID + "/" + strconv.FormatInt(paletteID, 10)
	result, err := withTelemetry(s, ctx, "LoadPalette", identifier, func(ctx context.Context) (results.OperationResult[*SessionView, error], error) {
		return runInTx(s, ctx, loadTx)
	})
	return unwrap(result, err)
}

// parseColors canonicalises stored or caller supplied colors.
func parseColors(in []string) ([]palettedomain.Hex, error) {
	out := make([]palettedomain.Hex, len(in))
	for i, c := range in {
		hex, err := palettedomain.ParseHex(c)
		if err != nil {
			return nil, fmt.Errorf("color %d: %w", i, err)
		}
		out[i] = hex
	}
	return out, nil
}
