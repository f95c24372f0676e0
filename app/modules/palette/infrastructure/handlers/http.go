package palettehandlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	palettedomain "github.com/Black-And-White-Club/palette-forge/app/modules/palette/domain"
	"github.com/Black-And-White-Club/palette-forge/pkg/observability/attr"
)

const maxBodyBytes = 1 << 16

// RouteConfig configures the HTTP surface of the palette module.
type RouteConfig struct {
	AllowedOrigins []string
	Limiter        *IPRateLimiter
	Logger         *slog.Logger
}

// RegisterRoutes mounts the palette API under /api.
func RegisterRoutes(router chi.Router, h Handlers, cfg RouteConfig) {
	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.RequestID)
		if cfg.Logger != nil {
			r.Use(RequestLogger(cfg.Logger))
		}
		r.Use(CORSMiddleware(cfg.AllowedOrigins))
		if cfg.Limiter != nil {
			r.Use(RateLimitMiddleware(cfg.Limiter))
		}

		r.Post("/sessions", h.HandleCreateSession)
		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", h.HandleGetSession)
			r.Delete("/", h.HandleEndSession)
			r.Put("/controls", h.HandleUpdateControls)
			r.Post("/generate", h.HandleRegenerate)
			r.Post("/locks/{index}", h.HandleToggleLock)
			r.Post("/reset", h.HandleResetSession)
			r.Post("/save", h.HandleSaveSession)
			r.Post("/load/{paletteID}", h.HandleLoadPalette)
		})

		r.Post("/palettes/generate", h.HandleGenerate)
		r.Route("/palettes/saved", func(r chi.Router) {
			r.Get("/", h.HandleListSaved)
			r.Post("/", h.HandleSaveColors)
			r.Get("/export.xlsx", h.HandleExportXLSX)
			r.Get("/{paletteID}", h.HandleGetSaved)
			r.Delete("/{paletteID}", h.HandleDeleteSaved)
			r.Get("/{paletteID}/swatch.png", h.HandleSwatch)
		})
	})
}

// GenerateRequest is the body of a stateless generation.
type GenerateRequest struct {
	palettedomain.Controls
	Locked map[int]palettedomain.Hex `json:"locked,omitempty"`
}

// SaveColorsRequest is the body of an explicit save.
type SaveColorsRequest struct {
	Colors []string `json:"colors"`
}

// GenerateResponse is the answer to a stateless generation.
type GenerateResponse struct {
	Mode   palettedomain.Mode  `json:"mode"`
	Colors []palettedomain.Hex `json:"colors"`
}

func (h *PaletteHandlers) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.NewSession(r.Context())
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *PaletteHandlers) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.GetSession(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *PaletteHandlers) HandleEndSession(w http.ResponseWriter, r *http.Request) {
	if err := h.service.EndSession(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleUpdateControls applies a partial controls update: omitted fields keep
// their current values.
func (h *PaletteHandlers) HandleUpdateControls(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "sessionID")

	current, err := h.service.GetSession(ctx, sessionID)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	controls := current.Controls
	if err := decodeBody(w, r, &controls); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	view, err := h.service.UpdateControls(ctx, sessionID, controls)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	h.announce(ctx, view)
	writeJSON(w, http.StatusOK, view)
}

func (h *PaletteHandlers) HandleRegenerate(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Regenerate(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	h.announce(r.Context(), view)
	writeJSON(w, http.StatusOK, view)
}

func (h *PaletteHandlers) HandleToggleLock(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "lock index must be an integer", http.StatusBadRequest)
		return
	}

	view, err := h.service.ToggleLock(r.Context(), chi.URLParam(r, "sessionID"), index)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	h.announce(r.Context(), view)
	writeJSON(w, http.StatusOK, view)
}

func (h *PaletteHandlers) HandleResetSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.ResetSession(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	h.announce(r.Context(), view)
	writeJSON(w, http.StatusOK, view)
}

func (h *PaletteHandlers) HandleSaveSession(w http.ResponseWriter, r *http.Request) {
	saved, err := h.service.SaveSession(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (h *PaletteHandlers) HandleLoadPalette(w http.ResponseWriter, r *http.Request) {
	paletteID, ok := paletteIDParam(w, r)
	if !ok {
		return
	}

	view, err := h.service.LoadPalette(r.Context(), chi.URLParam(r, "sessionID"), paletteID)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	h.announce(r.Context(), view)
	writeJSON(w, http.StatusOK, view)
}

// HandleGenerate runs a stateless generation. Omitted fields take the defaults.
func (h *PaletteHandlers) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	req := GenerateRequest{Controls: palettedomain.DefaultControls()}
	if err := decodeBody(w, r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	colors, err := h.service.Generate(r.Context(), palettedomain.Request{
		BaseColor:  req.BaseColor,
		Mode:       req.Mode,
		Count:      req.Count,
		HueShift:   req.HueShift,
		Saturation: req.Saturation,
		Lightness:  req.Lightness,
		Locked:     req.Locked,
	})
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, GenerateResponse{Mode: palettedomain.ParseMode(string(req.Mode)), Colors: colors})
}

func (h *PaletteHandlers) HandleListSaved(w http.ResponseWriter, r *http.Request) {
	palettes, err := h.service.ListSaved(r.Context(), r.URL.Query().Get("since"))
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, palettes)
}

func (h *PaletteHandlers) HandleSaveColors(w http.ResponseWriter, r *http.Request) {
	var req SaveColorsRequest
	if err := decodeBody(w, r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	saved, err := h.service.SaveColors(r.Context(), req.Colors)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (h *PaletteHandlers) HandleGetSaved(w http.ResponseWriter, r *http.Request) {
	paletteID, ok := paletteIDParam(w, r)
	if !ok {
		return
	}

	saved, err := h.service.GetSaved(r.Context(), paletteID)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (h *PaletteHandlers) HandleDeleteSaved(w http.ResponseWriter, r *http.Request) {
	paletteID, ok := paletteIDParam(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteSaved(r.Context(), paletteID); err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PaletteHandlers) HandleExportXLSX(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.service.ExportXLSX(r.Context(), &buf); err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="palettes.xlsx"`)
	_, _ = w.Write(buf.Bytes())
}

func (h *PaletteHandlers) HandleSwatch(w http.ResponseWriter, r *http.Request) {
	paletteID, ok := paletteIDParam(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.service.RenderSwatch(r.Context(), paletteID, &buf); err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(buf.Bytes())
}

// writeError maps service errors onto status codes.
func (h *PaletteHandlers) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, palettedomain.ErrInvalidArgument):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case isNotFound(err):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		h.logger.ErrorContext(ctx, "HTTP request failed", attr.ExtractCorrelationID(ctx), attr.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decodeBody decodes a JSON body over v. An empty body leaves v untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func paletteIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "paletteID"), 10, 64)
	if err != nil {
		http.Error(w, "palette id must be an integer", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
