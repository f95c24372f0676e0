package palettedomain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		candidate Hex
		existing  []Hex
		h, s, l   float64
		want      Hex
	}{
		{
			name:      "unique candidate is returned unchanged",
			candidate: "#3399CC",
			existing:  []Hex{"#CC6633"},
			h:         200, s: 60, l: 50,
			want: "#3399CC",
		},
		{
			name:      "empty palette never collides",
			candidate: "#FF0000",
			h:         0, s: 100, l: 50,
			want: "#FF0000",
		},
		{
			name:      "gray collision steps lightness down",
			candidate: "#808080",
			existing:  []Hex{"#808080"},
			h:         0, s: 0, l: 50,
			want: HSLToHex(0, 0, 49),
		},
		{
			name:      "second collision steps lightness up",
			candidate: "#808080",
			existing:  []Hex{"#808080", HSLToHex(0, 0, 49)},
			h:         0, s: 0, l: 50,
			want: HSLToHex(0, 0, 52),
		},
		{
			name:      "saturated white exhausts and terminates",
			candidate: "#FFFFFF",
			existing:  []Hex{"#FFFFFF"},
			h:         0, s: 0, l: 150,
			want: "#FFFFFF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.candidate, tt.existing, tt.h, tt.s, tt.l))
		})
	}
}

func TestResolve_FallsBackToHueRotation(t *testing.T) {
	existing := make([]Hex, 0, lightnessAttempts)
	for attempt := 0; attempt < lightnessAttempts; attempt++ {
		offset := float64(attempt)
		if attempt%2 != 0 {
			offset = -offset
		}
		existing = append(existing, HSLToHex(0, 100, 50+offset))
	}

	got := Resolve("#FF0000", existing, 0, 100, 50)
	assert.Equal(t, HSLToHex(1, 100, 50), got)
	assert.NotContains(t, existing, got)
}

func TestPlace(t *testing.T) {
	colors := place(nil, 0, 0, 50)
	colors = place(colors, 120, 0, 50)
	colors = place(colors, 240, 0, 50)

	assert.Equal(t, []Hex{"#808080", HSLToHex(0, 0, 49), HSLToHex(0, 0, 52)}, colors)
}
