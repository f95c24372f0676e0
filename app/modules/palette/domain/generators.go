package palettedomain

import (
	"math"
	"strings"
)

// Mode names a palette generation algorithm.
type Mode string

const (
	ModeMonochromatic Mode = "monochromatic"
	ModeAnalogous     Mode = "analogous"
	ModeComplementary Mode = "complementary"
	ModeTriadic       Mode = "triadic"
)

// Modes lists every supported mode in display order.
var Modes = []Mode{ModeMonochromatic, ModeAnalogous, ModeComplementary, ModeTriadic}

// ParseMode maps a mode name to a Mode. Unknown names fall back to monochromatic.
func ParseMode(name string) Mode {
	mode := Mode(strings.ToLower(strings.TrimSpace(name)))
	switch mode {
	case ModeMonochromatic, ModeAnalogous, ModeComplementary, ModeTriadic:
		return mode
	default:
		return ModeMonochromatic
	}
}

const (
	monoBaseSaturation  = 70
	monoSaturationDecay = 5
	monoSaturationFloor = 20

	analogousRange  = 60
	analogousJitter = 10

	complementaryLightnessSpan = 40
	complementarySaturationCut = 10

	triadicLightnessStep = 15
)

// Generate dispatches to the generator for mode. rng is only consulted by
// the analogous generator and may be nil for the others.
func Generate(mode Mode, base HSL, count int, rng RandomSource) []Hex {
	switch mode {
	case ModeAnalogous:
		return Analogous(base, count, rng)
	case ModeComplementary:
		return Complementary(base, count)
	case ModeTriadic:
		return Triadic(base, count)
	default:
		return Monochromatic(base, count)
	}
}

// Monochromatic keeps the base hue and walks lightness evenly from dark to
// light, strictly between 0 and 100. Saturation decays by 5 per step with a
// floor of 20.
func Monochromatic(base HSL, count int) []Hex {
	if count < 1 {
		return nil
	}
	colors := make([]Hex, 0, count)
	h := float64(base.H)
	step := 100 / float64(count+1)

	for i := 0; i < count; i++ {
		l := step * float64(i+1)
		s := math.Max(monoSaturationFloor, float64(monoBaseSaturation-i*monoSaturationDecay))
		colors = place(colors, h, s, l)
	}
	return colors
}

// Analogous spreads hues over a 60 degree window centred on the base hue,
// with independent saturation and lightness jitter of up to 10 per color.
// A single color sits at the base hue.
func Analogous(base HSL, count int, rng RandomSource) []Hex {
	if count < 1 {
		return nil
	}
	if rng == nil {
		rng = NewRandomSource(0)
	}
	colors := make([]Hex, 0, count)

	var step float64
	if count > 1 {
		step = analogousRange / float64(count-1)
	}

	for i := 0; i < count; i++ {
		offset := 0.0
		if count > 1 {
			offset = -analogousRange/2 + step*float64(i)
		}
		h := float64(base.H) + offset
		s := float64(base.S) + jitter(rng, analogousJitter)
		l := float64(base.L) + jitter(rng, analogousJitter)
		colors = place(colors, h, s, l)
	}
	return colors
}

// Complementary places the base color, then its complement, then alternates
// between the two hues with a lightness ramp from -20 to +20 and saturation
// reduced by 10.
func Complementary(base HSL, count int) []Hex {
	if count < 1 {
		return nil
	}
	colors := make([]Hex, 0, count)
	h, s, l := float64(base.H), float64(base.S), float64(base.L)
	complement := h + 180

	colors = append(colors, HSLToHex(h, s, l))
	if count > 1 {
		colors = place(colors, complement, s, l)
	}

	for i := 2; i < count; i++ {
		hue := complement
		if i%2 == 0 {
			hue = h
		}
		offset := float64(i)/float64(count)*complementaryLightnessSpan - complementaryLightnessSpan/2
		colors = place(colors, hue, s-complementarySaturationCut, l+offset)
	}
	return colors
}

// Triadic cycles the base hue and its +120/+240 rotations. The first cycle
// sits 15 below the base lightness and each later cycle is 15 lighter.
func Triadic(base HSL, count int) []Hex {
	if count < 1 {
		return nil
	}
	colors := make([]Hex, 0, count)
	h, s, l := float64(base.H), float64(base.S), float64(base.L)
	hues := [3]float64{h, h + 120, h + 240}

	for i := 0; i < count; i++ {
		cycle := float64(i / 3)
		colors = place(colors, hues[i%3], s, l+cycle*triadicLightnessStep-triadicLightnessStep)
	}
	return colors
}
