package palettehandlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	paletteservice "github.com/Black-And-White-Club/palette-forge/app/modules/palette/application"
	palettedomain "github.com/Black-And-White-Club/palette-forge/app/modules/palette/domain"
	paletteevents "github.com/Black-And-White-Club/palette-forge/app/modules/palette/domain/events"
	palettedb "github.com/Black-And-White-Club/palette-forge/app/modules/palette/infrastructure/repositories"
	"github.com/Black-And-White-Club/palette-forge/pkg/eventbus"
	"github.com/Black-And-White-Club/palette-forge/pkg/handlerwrapper"
	"github.com/Black-And-White-Club/palette-forge/pkg/observability/attr"
)

// PaletteHandlers implements the Handlers interface.
type PaletteHandlers struct {
	service   paletteservice.Service
	publisher message.Publisher
	logger    *slog.Logger
	tracer    trace.Tracer
}

// NewPaletteHandlers creates a new PaletteHandlers instance. A nil publisher
// disables session announcements.
func NewPaletteHandlers(
	service paletteservice.Service,
	publisher message.Publisher,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &PaletteHandlers{
		service:   service,
		publisher: publisher,
		logger:    logger,
		tracer:    tracer,
	}
}

// HandleGenerateRequested produces a palette. With a session id the session's
// controls are replaced and its locks honoured; otherwise generation is stateless.
func (h *PaletteHandlers) HandleGenerateRequested(ctx context.Context, payload *paletteevents.PaletteGenerateRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "PaletteHandlers.HandleGenerateRequested")
	defer span.End()

	controls := palettedomain.Controls{
		BaseColor:  payload.BaseColor,
		Mode:       palettedomain.Mode(payload.Mode),
		Count:      payload.Count,
		HueShift:   payload.HueShift,
		Saturation: payload.Saturation,
		Lightness:  payload.Lightness,
	}

	if payload.SessionID == "" {
		colors, err := h.service.Generate(ctx, palettedomain.Request{
			BaseColor:  controls.BaseColor,
			Mode:       controls.Mode,
			Count:      controls.Count,
			HueShift:   controls.HueShift,
			Saturation: controls.Saturation,
			Lightness:  controls.Lightness,
		})
		if err != nil {
			return h.failure(ctx, paletteevents.PaletteGenerateRequestedV1, err)
		}
		return []handlerwrapper.Result{{
			Topic: handlerwrapper.ReplyTopic(ctx, paletteevents.PaletteGeneratedV1),
			Payload: &paletteevents.PaletteGeneratedPayloadV1{
				Mode:   string(palettedomain.ParseMode(payload.Mode)),
				Colors: hexStrings(colors),
			},
		}}, nil
	}

	view, err := h.service.UpdateControls(ctx, payload.SessionID, controls)
	if err != nil {
		return h.failure(ctx, paletteevents.PaletteGenerateRequestedV1, err)
	}

	h.logger.InfoContext(ctx, "Session palette generated",
		attr.ExtractCorrelationID(ctx),
		attr.SessionID(view.ID),
		attr.String("mode", string(view.Controls.Mode)),
	)

	return []handlerwrapper.Result{{
		Topic: handlerwrapper.ReplyTopic(ctx, eventbus.FormatSessionScopedTopic(paletteevents.PaletteGeneratedV1, view.ID)),
		Payload: &paletteevents.PaletteGeneratedPayloadV1{
			SessionID: view.ID,
			Mode:      string(view.Controls.Mode),
			Colors:    hexStrings(view.Colors),
			Locked:    view.Locked,
		},
	}}, nil
}

// HandleSaveRequested stores a session's palette or an explicit list of colors.
func (h *PaletteHandlers) HandleSaveRequested(ctx context.Context, payload *paletteevents.PaletteSaveRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "PaletteHandlers.HandleSaveRequested")
	defer span.End()

	var (
		saved *palettedb.SavedPalette
		err   error
	)
	if payload.SessionID != "" {
		saved, err = h.service.SaveSession(ctx, payload.SessionID)
	} else {
		saved, err = h.service.SaveColors(ctx, payload.Colors)
	}
	if err != nil {
		return h.failure(ctx, paletteevents.PaletteSaveRequestedV1, err)
	}

	return []handlerwrapper.Result{{
		Topic: handlerwrapper.ReplyTopic(ctx, paletteevents.PaletteSavedV1),
		Payload: &paletteevents.PaletteSavedPayloadV1{
			ID:        saved.ID,
			Colors:    saved.Colors,
			Date:      saved.Date,
			CreatedAt: saved.CreatedAt,
		},
	}}, nil
}

// HandleDeleteRequested removes a saved palette.
func (h *PaletteHandlers) HandleDeleteRequested(ctx context.Context, payload *paletteevents.PaletteDeleteRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "PaletteHandlers.HandleDeleteRequested")
	defer span.End()

	if err := h.service.DeleteSaved(ctx, payload.ID); err != nil {
		return h.failure(ctx, paletteevents.PaletteDeleteRequestedV1, err)
	}

	return []handlerwrapper.Result{{
		Topic:   handlerwrapper.ReplyTopic(ctx, paletteevents.PaletteDeletedV1),
		Payload: &paletteevents.PaletteDeletedPayloadV1{ID: payload.ID},
	}}, nil
}

// failure answers a rejected request on the failed topic. Anything other than
// a caller mistake is returned so the router retries.
func (h *PaletteHandlers) failure(ctx context.Context, requestTopic string, err error) ([]handlerwrapper.Result, error) {
	if !isClientError(err) {
		h.logger.ErrorContext(ctx, "Palette request failed",
			attr.ExtractCorrelationID(ctx),
			attr.String("topic", requestTopic),
			attr.Error(err),
		)
		return nil, err
	}

	h.logger.WarnContext(ctx, "Palette request rejected",
		attr.ExtractCorrelationID(ctx),
		attr.String("topic", requestTopic),
		attr.Error(err),
	)
	return []handlerwrapper.Result{{
		Topic: handlerwrapper.ReplyTopic(ctx, paletteevents.PaletteRequestFailedV1),
		Payload: &paletteevents.PaletteRequestFailedPayloadV1{
			Topic:  requestTopic,
			Reason: err.Error(),
		},
	}}, nil
}

// announce publishes a session's palette on its session-scoped generated topic
// so other clients following the session see changes made over HTTP.
func (h *PaletteHandlers) announce(ctx context.Context, view *paletteservice.SessionView) {
	if h.publisher == nil || view == nil {
		return
	}

	payload, err := json.Marshal(&paletteevents.PaletteGeneratedPayloadV1{
		SessionID: view.ID,
		Mode:      string(view.Controls.Mode),
		Colors:    hexStrings(view.Colors),
		Locked:    view.Locked,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to encode session announcement", attr.Error(err))
		return
	}

	msg := message.NewMessage(uuid.NewString(), payload)
	if correlationID := attr.CorrelationIDFrom(ctx); correlationID != "" {
		middleware.SetCorrelationID(correlationID, msg)
	}
	if err := eventbus.PublishWithSessionScope(h.publisher, paletteevents.PaletteGeneratedV1, view.ID, msg); err != nil {
		h.logger.WarnContext(ctx, "Failed to announce session palette",
			attr.ExtractCorrelationID(ctx),
			attr.SessionID(view.ID),
			attr.Error(err),
		)
	}
}

func isClientError(err error) bool {
	return errors.Is(err, palettedomain.ErrInvalidArgument) || isNotFound(err)
}

func isNotFound(err error) bool {
	return errors.Is(err, paletteservice.ErrSessionNotFound) || errors.Is(err, palettedb.ErrNotFound)
}

func hexStrings(colors []palettedomain.Hex) []string {
	out := make([]string, len(colors))
	for i, c := range colors {
		out[i] = c.String()
	}
	return out
}
