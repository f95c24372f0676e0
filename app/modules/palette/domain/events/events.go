package paletteevents

import "time"

// Stream name shared by every palette subject.
const PaletteStreamName = "palette"

// Palette request topics.
const (
	PaletteGenerateRequestedV1 = "palette.generate.requested.v1"
	PaletteSaveRequestedV1     = "palette.save.requested.v1"
	PaletteDeleteRequestedV1   = "palette.delete.requested.v1"
)

// Palette result topics.
const (
	PaletteGeneratedV1     = "palette.generated.v1"
	PaletteSavedV1         = "palette.saved.v1"
	PaletteDeletedV1       = "palette.deleted.v1"
	PaletteRequestFailedV1 = "palette.request.failed.v1"
)

// PaletteGenerateRequestedPayloadV1 asks for a palette. When SessionID is set the
// session's controls are replaced by the request and its locks are honoured.
type PaletteGenerateRequestedPayloadV1 struct {
	SessionID  string `json:"session_id,omitempty"`
	BaseColor  string `json:"base_color"`
	Mode       string `json:"mode"`
	Count      int    `json:"count"`
	HueShift   int    `json:"hue_shift"`
	Saturation int    `json:"saturation"`
	Lightness  int    `json:"lightness"`
}

// PaletteGeneratedPayloadV1 carries a generated palette.
type PaletteGeneratedPayloadV1 struct {
	SessionID string   `json:"session_id,omitempty"`
	Mode      string   `json:"mode"`
	Colors    []string `json:"colors"`
	Locked    []int    `json:"locked,omitempty"`
}

// PaletteSaveRequestedPayloadV1 saves either explicit colors or a session's palette.
type PaletteSaveRequestedPayloadV1 struct {
	SessionID string   `json:"session_id,omitempty"`
	Colors    []string `json:"colors,omitempty"`
}

// PaletteSavedPayloadV1 announces a stored palette.
type PaletteSavedPayloadV1 struct {
	ID        int64     `json:"id"`
	Colors    []string  `json:"colors"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

// PaletteDeleteRequestedPayloadV1 removes a saved palette.
type PaletteDeleteRequestedPayloadV1 struct {
	ID int64 `json:"id"`
}

// PaletteDeletedPayloadV1 announces a removed palette.
type PaletteDeletedPayloadV1 struct {
	ID int64 `json:"id"`
}

// PaletteRequestFailedPayloadV1 reports a rejected request.
type PaletteRequestFailedPayloadV1 struct {
	Topic  string `json:"topic"`
	Reason string `json:"reason"`
}
