package palettedomain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Hex is a color rendered as "#" followed by six uppercase hex digits.
type Hex string

// HSL is an integer hue/saturation/lightness triple.
// H is in degrees [0,360), S and L are percentages.
type HSL struct {
	H int `json:"h"`
	S int `json:"s"`
	L int `json:"l"`
}

// Hex converts the color to its hex representation.
func (c HSL) Hex() Hex {
	return HSLToHex(float64(c.H), float64(c.S), float64(c.L))
}

// String returns the hex value.
func (h Hex) String() string {
	return string(h)
}

// ParseHex canonicalises a 6-digit hex color with or without a leading '#'.
func ParseHex(s string) (Hex, error) {
	digits := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(digits) != 6 {
		return "", fmt.Errorf("%w: %q must have 6 hex digits", ErrInvalidHex, s)
	}
	if _, err := strconv.ParseUint(digits, 16, 32); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	return Hex("#" + strings.ToUpper(digits)), nil
}

// RGB decodes the three channels. The value must come from ParseHex or HSLToHex.
func (h Hex) RGB() (r, g, b uint8) {
	v, _ := strconv.ParseUint(strings.TrimPrefix(string(h), "#"), 16, 32)
	return uint8(v >> 16), uint8(v >> 8), uint8(v)
}

// HexToHSL converts a hex color to HSL. Hue falls back to 0 for achromatic colors.
func HexToHSL(hex Hex) HSL {
	ri, gi, bi := hex.RGB()
	r := float64(ri) / 255
	g := float64(gi) / 255
	b := float64(bi) / 255

	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	delta := max - min

	var h, s float64
	l := (max + min) / 2

	if delta != 0 {
		if l > 0.5 {
			s = delta / (2 - max - min)
		} else {
			s = delta / (max + min)
		}

		switch max {
		case r:
			h = (g - b) / delta
			if g < b {
				h += 6
			}
		case g:
			h = (b-r)/delta + 2
		default:
			h = (r-g)/delta + 4
		}
		h /= 6
	}

	return HSL{
		H: int(math.Round(h*360)) % 360,
		S: int(math.Round(s * 100)),
		L: int(math.Round(l * 100)),
	}
}

// NormalizeHue wraps any hue into [0,360).
func NormalizeHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}

// HSLToHex converts hue/saturation/lightness to hex. Saturation and lightness
// are clamped to [0,100] and the hue is wrapped, so any finite input is accepted.
func HSLToHex(h, s, l float64) Hex {
	h = NormalizeHue(h)
	s = clamp(s, 0, 100) / 100
	l = clamp(l, 0, 100) / 100

	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return Hex(fmt.Sprintf("#%02X%02X%02X", channel(r+m), channel(g+m), channel(b+m)))
}

func channel(v float64) uint8 {
	return uint8(clamp(math.Round(v*255), 0, 255))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
