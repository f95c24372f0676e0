package palettehandlers

import (
	"context"
	"net/http"

	paletteevents "github.com/Black-And-White-Club/palette-forge/app/modules/palette/domain/events"
	"github.com/Black-And-White-Club/palette-forge/pkg/handlerwrapper"
)

// Handlers defines the bus and HTTP handlers of the palette module.
type Handlers interface {
	// --- Message bus ---

	HandleGenerateRequested(ctx context.Context, payload *paletteevents.PaletteGenerateRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleSaveRequested(ctx context.Context, payload *paletteevents.PaletteSaveRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleDeleteRequested(ctx context.Context, payload *paletteevents.PaletteDeleteRequestedPayloadV1) ([]handlerwrapper.Result, error)

	// --- HTTP ---

	HandleCreateSession(w http.ResponseWriter, r *http.Request)
	HandleGetSession(w http.ResponseWriter, r *http.Request)
	HandleEndSession(w http.ResponseWriter, r *http.Request)
	HandleUpdateControls(w http.ResponseWriter, r *http.Request)
	HandleRegenerate(w http.ResponseWriter, r *http.Request)
	HandleToggleLock(w http.ResponseWriter, r *http.Request)
	HandleResetSession(w http.ResponseWriter, r *http.Request)
	HandleSaveSession(w http.ResponseWriter, r *http.Request)
	HandleLoadPalette(w http.ResponseWriter, r *http.Request)
	HandleGenerate(w http.ResponseWriter, r *http.Request)
	HandleListSaved(w http.ResponseWriter, r *http.Request)
	HandleSaveColors(w http.ResponseWriter, r *http.Request)
	HandleGetSaved(w http.ResponseWriter, r *http.Request)
	HandleDeleteSaved(w http.ResponseWriter, r *http.Request)
	HandleExportXLSX(w http.ResponseWriter, r *http.Request)
	HandleSwatch(w http.ResponseWriter, r *http.Request)
}
