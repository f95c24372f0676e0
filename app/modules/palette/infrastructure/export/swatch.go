package paletteexport

import (
	"errors"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	palettedomain "github.com/Black-And-White-Club/palette-forge/app/modules/palette/domain"
)

// Swatch sizing defaults.
const (
	DefaultSwatchWidth  = 160
	DefaultSwatchHeight = 240
	swatchFontSize      = 12.0
	swatchLabelPadding  = 12
)

// ErrNoColors is returned when there is nothing to draw.
var ErrNoColors = errors.New("no colors to render")

// RenderSwatch draws one vertical band per color, labelled with its hex code,
// and writes the PNG to w. Non-positive sizes fall back to the defaults.
func RenderSwatch(w io.Writer, colors []string, swatchWidth, height int) error {
	if len(colors) == 0 {
		return ErrNoColors
	}
	if swatchWidth <= 0 {
		swatchWidth = DefaultSwatchWidth
	}
	if height <= 0 {
		height = DefaultSwatchHeight
	}

	hexes := make([]palettedomain.Hex, len(colors))
	for i, c := range colors {
		hex, err := palettedomain.ParseHex(c)
		if err != nil {
			return fmt.Errorf("swatch %d: %w", i, err)
		}
		hexes[i] = hex
	}

	r, err := chart.PNG(swatchWidth*len(hexes), height)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return fmt.Errorf("failed to load font: %w", err)
	}
	r.SetFont(font)
	r.SetFontSize(swatchFontSize)

	for i, hex := range hexes {
		left := i * swatchWidth
		right := left + swatchWidth

		r.SetFillColor(drawing.ColorFromHex(hex.String()))
		r.MoveTo(left, 0)
		r.LineTo(right, 0)
		r.LineTo(right, height)
		r.LineTo(left, height)
		r.LineTo(left, 0)
		r.Close()
		r.Fill()

		label := hex.String()
		tb := r.MeasureText(label)
		r.SetFontColor(drawing.ColorFromHex(LabelColor(hex)))
		r.Text(label, left+(swatchWidth-tb.Width())/2, height-swatchLabelPadding)
	}

	return r.Save(w)
}

// LabelColor picks black or white text, whichever reads better on hex.
func LabelColor(hex palettedomain.Hex) string {
	if palettedomain.HexToHSL(hex).L > 60 {
		return "000000"
	}
	return "FFFFFF"
}
