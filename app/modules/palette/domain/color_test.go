package palettedomain

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHexToHSL(t *testing.T) {
	tests := []struct {
		name string
		hex  Hex
		want HSL
	}{
		{name: "pure red", hex: "#FF0000", want: HSL{H: 0, S: 100, L: 50}},
		{name: "pure green", hex: "#00FF00", want: HSL{H: 120, S: 100, L: 50}},
		{name: "pure blue", hex: "#0000FF", want: HSL{H: 240, S: 100, L: 50}},
		{name: "white is achromatic", hex: "#FFFFFF", want: HSL{H: 0, S: 0, L: 100}},
		{name: "black is achromatic", hex: "#000000", want: HSL{H: 0, S: 0, L: 0}},
		{name: "mid gray", hex: "#808080", want: HSL{H: 0, S: 0, L: 50}},
		{name: "default base", hex: "#F63049", want: HSL{H: 352, S: 92, L: 58}},
		{name: "steel blue", hex: "#3399CC", want: HSL{H: 200, S: 60, L: 50}},
		{name: "light slate", hex: "#AABBCC", want: HSL{H: 210, S: 25, L: 73}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HexToHSL(tt.hex))
		})
	}
}

func TestHSLToHex(t *testing.T) {
	tests := []struct {
		name    string
		h, s, l float64
		want    Hex
	}{
		{name: "red", h: 0, s: 100, l: 50, want: "#FF0000"},
		{name: "yellow sector boundary", h: 60, s: 100, l: 50, want: "#FFFF00"},
		{name: "cyan", h: 180, s: 100, l: 50, want: "#00FFFF"},
		{name: "magenta", h: 300, s: 100, l: 50, want: "#FF00FF"},
		{name: "steel blue", h: 200, s: 60, l: 50, want: "#3399CC"},
		{name: "complement of steel blue", h: 20, s: 60, l: 50, want: "#CC6633"},
		{name: "full turn wraps", h: 360, s: 100, l: 50, want: "#FF0000"},
		{name: "negative hue wraps", h: -160, s: 60, l: 50, want: "#3399CC"},
		{name: "large hue wraps", h: 200 + 720, s: 60, l: 50, want: "#3399CC"},
		{name: "saturation clamps high", h: 0, s: 250, l: 50, want: "#FF0000"},
		{name: "lightness clamps low", h: 0, s: 100, l: -40, want: "#000000"},
		{name: "lightness clamps high", h: 0, s: 100, l: 140, want: "#FFFFFF"},
		{name: "low channel is zero padded", h: 210, s: 50, l: 13, want: "#112132"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HSLToHex(tt.h, tt.s, tt.l))
		})
	}
}

func TestHSLToHex_ZeroSaturationIgnoresHue(t *testing.T) {
	want := HSLToHex(0, 0, 50)
	for h := -360.0; h <= 720; h += 15 {
		assert.Equal(t, want, HSLToHex(h, 0, 50), "hue %v", h)
	}
	assert.Equal(t, Hex("#808080"), want)
}

func TestRoundTrip(t *testing.T) {
	t.Run("common colors stay within one unit", func(t *testing.T) {
		for _, hex := range []Hex{"#FF0000", "#00FF00", "#0000FF", "#FFFFFF", "#000000", "#808080", "#3399CC", "#CC6633", "#AABBCC", "#112233"} {
			assert.LessOrEqual(t, channelDistance(hex, HexToHSL(hex).Hex()), 1, "round trip of %s", hex)
		}
	})

	t.Run("integer rounding never drifts far", func(t *testing.T) {
		rng := rand.New(rand.NewPCG(7, 11))
		for i := 0; i < 5000; i++ {
			hex := Hex(fmt.Sprintf("#%06X", rng.IntN(1<<24)))
			assert.LessOrEqual(t, channelDistance(hex, HexToHSL(hex).Hex()), 5, "round trip of %s", hex)
		}
	})
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Hex
		wantErr bool
	}{
		{name: "with hash", input: "#aabbcc", want: "#AABBCC"},
		{name: "without hash", input: "f63049", want: "#F63049"},
		{name: "surrounding space", input: "  #112233 ", want: "#112233"},
		{name: "too short", input: "#FFF", wantErr: true},
		{name: "too long", input: "#FFFFFFF", wantErr: true},
		{name: "non hex digit", input: "#GG0000", wantErr: true},
		{name: "signed value", input: "+12345", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHex(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidHex)
				assert.True(t, errors.Is(err, ErrInvalidArgument))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func channelDistance(a, b Hex) int {
	ar, ag, ab := a.RGB()
	br, bg, bb := b.RGB()
	return max(absDiff(ar, br), absDiff(ag, bg), absDiff(ab, bb))
}

func absDiff(a, b uint8) int {
	d := int(a) - int(b)
	if d < 0 {
		return -d
	}
	return d
}
