package testutils

import (
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	palettedomain "github.com/Black-And-White-Club/palette-forge/app/modules/palette/domain"
	palettedb "github.com/Black-And-White-Club/palette-forge/app/modules/palette/infrastructure/repositories"
)

// TestDataGenerator provides methods to create test data for integration tests
type TestDataGenerator struct {
	faker *gofakeit.Faker
	seed  int64
}

// NewTestDataGenerator creates a new test data generator with optional seed
func NewTestDataGenerator(seed ...int64) *TestDataGenerator {
	var s int64
	if len(seed) > 0 {
		s = seed[0]
	} else {
		s = time.Now().UnixNano()
	}

	return &TestDataGenerator{
		faker: gofakeit.New(uint64(s)),
		seed:  s,
	}
}

// Seed returns the seed the generator was built with, for failure messages.
func (g *TestDataGenerator) Seed() int64 { return g.seed }

// HexColor returns a random color in canonical #RRGGBB form.
func (g *TestDataGenerator) HexColor() string {
	return strings.ToUpper(g.faker.HexColor())
}

// Colors returns n random colors.
func (g *TestDataGenerator) Colors(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = g.HexColor()
	}
	return out
}

// Controls returns random but valid generation controls.
func (g *TestDataGenerator) Controls() palettedomain.Controls {
	modes := []string{
		string(palettedomain.ModeMonochromatic),
		string(palettedomain.ModeAnalogous),
		string(palettedomain.ModeComplementary),
		string(palettedomain.ModeTriadic),
	}
	return palettedomain.Controls{
		BaseColor:  g.HexColor(),
		Mode:       palettedomain.Mode(g.faker.RandomString(modes)),
		Count:      g.faker.IntRange(1, 10),
		HueShift:   g.faker.IntRange(-180, 180),
		Saturation: g.faker.IntRange(0, 100),
		Lightness:  g.faker.IntRange(0, 100),
	}
}

// SavedPalettes returns n palettes with ascending ids one minute apart, ending at newest.
func (g *TestDataGenerator) SavedPalettes(n int, newest time.Time) []palettedb.SavedPalette {
	out := make([]palettedb.SavedPalette, n)
	for i := range out {
		at := newest.Add(-time.Duration(n-1-i) * time.Minute).UTC()
		out[i] = palettedb.SavedPalette{
			ID:        at.UnixMilli(),
			Colors:    g.Colors(g.faker.IntRange(1, 8)),
			Date:      at.Format("Jan 2, 2006 3:04 PM"),
			CreatedAt: at,
		}
	}
	return out
}
