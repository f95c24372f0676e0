package palettehandlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	paletteservice "github.com/Black-And-White-Club/palette-forge/app/modules/palette/application"
	palettedomain "github.com/Black-And-White-Club/palette-forge/app/modules/palette/domain"
	paletteevents "github.com/Black-And-White-Club/palette-forge/app/modules/palette/domain/events"
	palettedb "github.com/Black-And-White-Club/palette-forge/app/modules/palette/infrastructure/repositories"
	"github.com/Black-And-White-Club/palette-forge/pkg/handlerwrapper"
)

func newTestHandlers(svc *FakeService) *PaletteHandlers {
	return NewPaletteHandlers(
		svc,
		nil,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		noop.NewTracerProvider().Tracer("test"),
	).(*PaletteHandlers)
}

func TestHandleGenerateRequested(t *testing.T) {
	tests := []struct {
		name         string
		setupService func(*FakeService)
		payload      *paletteevents.PaletteGenerateRequestedPayloadV1
		replyTo      string
		wantTopic    string
		wantErr      bool
		verify       func(t *testing.T, f *FakeService, results []handlerwrapper.Result)
	}{
		{
			name: "stateless generation",
			setupService: func(f *FakeService) {
				f.GenerateFunc = func(ctx context.Context, req palettedomain.Request) ([]palettedomain.Hex, error) {
					assert.Equal(t, "#3399CC", req.BaseColor)
					assert.Equal(t, 2, req.Count)
					assert.Equal(t, 60, req.Saturation)
					return []palettedomain.Hex{"#3399CC", "#CC6633"}, nil
				}
			},
			payload:   &paletteevents.PaletteGenerateRequestedPayloadV1{BaseColor: "#3399CC", Mode: "complementary", Count: 2, Saturation: 60, Lightness: 50},
			wantTopic: paletteevents.PaletteGeneratedV1,
			verify: func(t *testing.T, f *FakeService, results []handlerwrapper.Result) {
				payload := results[0].Payload.(*paletteevents.PaletteGeneratedPayloadV1)
				assert.Equal(t, []string{"#3399CC", "#CC6633"}, payload.Colors)
				assert.Equal(t, "complementary", payload.Mode)
				assert.Empty(t, payload.SessionID)
				assert.Equal(t, []string{"Generate"}, f.Trace())
			},
		},
		{
			name: "session generation replies on the session topic",
			setupService: func(f *FakeService) {
				f.UpdateControlsFunc = func(ctx context.Context, sessionID string, controls palettedomain.Controls) (*paletteservice.SessionView, error) {
					assert.Equal(t, palettedomain.Mode("triadic"), controls.Mode)
					return &paletteservice.SessionView{
						ID:       sessionID,
						Controls: palettedomain.Controls{Mode: palettedomain.ModeTriadic},
						Colors:   []palettedomain.Hex{"#111111", "#222222"},
						Locked:   []int{1},
					}, nil
				}
			},
			payload:   &paletteevents.PaletteGenerateRequestedPayloadV1{SessionID: "s-1", BaseColor: "#F63049", Mode: "triadic", Count: 2},
			wantTopic: paletteevents.PaletteGeneratedV1 + ".s-1",
			verify: func(t *testing.T, f *FakeService, results []handlerwrapper.Result) {
				payload := results[0].Payload.(*paletteevents.PaletteGeneratedPayloadV1)
				assert.Equal(t, "s-1", payload.SessionID)
				assert.Equal(t, []int{1}, payload.Locked)
				assert.Equal(t, []string{"UpdateControls"}, f.Trace())
			},
		},
		{
			name:      "reply_to overrides the result topic",
			payload:   &paletteevents.PaletteGenerateRequestedPayloadV1{BaseColor: "#F63049", Count: 3},
			replyTo:   "_INBOX.42",
			wantTopic: "_INBOX.42",
		},
		{
			name: "invalid input is answered on the failed topic",
			setupService: func(f *FakeService) {
				f.GenerateFunc = func(ctx context.Context, req palettedomain.Request) ([]palettedomain.Hex, error) {
					return nil, palettedomain.ErrInvalidHex
				}
			},
			payload:   &paletteevents.PaletteGenerateRequestedPayloadV1{BaseColor: "nope", Count: 3},
			wantTopic: paletteevents.PaletteRequestFailedV1,
			verify: func(t *testing.T, f *FakeService, results []handlerwrapper.Result) {
				payload := results[0].Payload.(*paletteevents.PaletteRequestFailedPayloadV1)
				assert.Equal(t, paletteevents.PaletteGenerateRequestedV1, payload.Topic)
				assert.Contains(t, payload.Reason, "invalid hex")
			},
		},
		{
			name:      "unknown session is answered on the failed topic",
			payload:   &paletteevents.PaletteGenerateRequestedPayloadV1{SessionID: "gone", BaseColor: "#F63049", Count: 3},
			wantTopic: paletteevents.PaletteRequestFailedV1,
		},
		{
			name: "infrastructure errors are returned for retry",
			setupService: func(f *FakeService) {
				f.GenerateFunc = func(ctx context.Context, req palettedomain.Request) ([]palettedomain.Hex, error) {
					return nil, errors.New("boom")
				}
			},
			payload: &paletteevents.PaletteGenerateRequestedPayloadV1{BaseColor: "#F63049", Count: 3},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewFakeService()
			if tt.setupService != nil {
				tt.setupService(svc)
			}
			h := newTestHandlers(svc)

			ctx := context.Background()
			if tt.replyTo != "" {
				ctx = context.WithValue(ctx, handlerwrapper.CtxKeyReplyTo, tt.replyTo)
			}

			results, err := h.HandleGenerateRequested(ctx, tt.payload)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Empty(t, results)
				return
			}
			require.NoError(t, err)
			require.Len(t, results, 1)
			assert.Equal(t, tt.wantTopic, results[0].Topic)
			if tt.verify != nil {
				tt.verify(t, svc, results)
			}
		})
	}
}

func TestHandleSaveRequested(t *testing.T) {
	created := time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)
	saved := &palettedb.SavedPalette{ID: 1760875200000, Colors: []string{"#F63049"}, Date: "Oct 19, 2026 12:00 PM", CreatedAt: created}

	tests := []struct {
		name         string
		setupService func(*FakeService)
		payload      *paletteevents.PaletteSaveRequestedPayloadV1
		wantTopic    string
		wantTrace    []string
	}{
		{
			name: "saves a session palette",
			setupService: func(f *FakeService) {
				f.SaveSessionFunc = func(ctx context.Context, sessionID string) (*palettedb.SavedPalette, error) {
					return saved, nil
				}
			},
			payload:   &paletteevents.PaletteSaveRequestedPayloadV1{SessionID: "s-1"},
			wantTopic: paletteevents.PaletteSavedV1,
			wantTrace: []string{"SaveSession"},
		},
		{
			name: "saves explicit colors",
			setupService: func(f *FakeService) {
				f.SaveColorsFunc = func(ctx context.Context, colors []string) (*palettedb.SavedPalette, error) {
					assert.Equal(t, []string{"#F63049"}, colors)
					return saved, nil
				}
			},
			payload:   &paletteevents.PaletteSaveRequestedPayloadV1{Colors: []string{"#F63049"}},
			wantTopic: paletteevents.PaletteSavedV1,
			wantTrace: []string{"SaveColors"},
		},
		{
			name: "empty palette is rejected",
			setupService: func(f *FakeService) {
				f.SaveColorsFunc = func(ctx context.Context, colors []string) (*palettedb.SavedPalette, error) {
					return nil, paletteservice.ErrEmptyPalette
				}
			},
			payload:   &paletteevents.PaletteSaveRequestedPayloadV1{},
			wantTopic: paletteevents.PaletteRequestFailedV1,
			wantTrace: []string{"SaveColors"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewFakeService()
			tt.setupService(svc)
			h := newTestHandlers(svc)

			results, err := h.HandleSaveRequested(context.Background(), tt.payload)
			require.NoError(t, err)
			require.Len(t, results, 1)
			assert.Equal(t, tt.wantTopic, results[0].Topic)
			assert.Equal(t, tt.wantTrace, svc.Trace())

			if payload, ok := results[0].Payload.(*paletteevents.PaletteSavedPayloadV1); ok {
				assert.Equal(t, saved.ID, payload.ID)
				assert.Equal(t, created, payload.CreatedAt)
			}
		})
	}
}

func TestHandleDeleteRequested(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		svc := NewFakeService()
		h := newTestHandlers(svc)

		results, err := h.HandleDeleteRequested(context.Background(), &paletteevents.PaletteDeleteRequestedPayloadV1{ID: 5})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, paletteevents.PaletteDeletedV1, results[0].Topic)
		assert.Equal(t, &paletteevents.PaletteDeletedPayloadV1{ID: 5}, results[0].Payload)
	})

	t.Run("missing palette", func(t *testing.T) {
		svc := NewFakeService()
		svc.DeleteSavedFunc = func(ctx context.Context, paletteID int64) error {
			return palettedb.ErrNotFound
		}
		h := newTestHandlers(svc)

		results, err := h.HandleDeleteRequested(context.Background(), &paletteevents.PaletteDeleteRequestedPayloadV1{ID: 5})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, paletteevents.PaletteRequestFailedV1, results[0].Topic)
	})
}
