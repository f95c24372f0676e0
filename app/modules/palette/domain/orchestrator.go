package palettedomain

import "fmt"

// Request carries everything needed to produce one palette.
// Saturation and Lightness replace the base color's values outright; they are
// not range-checked and only clamp during hex conversion.
type Request struct {
	BaseColor  string
	Mode       Mode
	Count      int
	HueShift   int
	Saturation int
	Lightness  int

	// Locked maps positions that must keep their previous color.
	Locked map[int]Hex
}

// AdjustedBase converts the base color and applies the hue shift and overrides.
func (r Request) AdjustedBase() (HSL, error) {
	hex, err := ParseHex(r.BaseColor)
	if err != nil {
		return HSL{}, err
	}
	base := HexToHSL(hex)
	base.H = int(NormalizeHue(float64(base.H + r.HueShift)))
	base.S = r.Saturation
	base.L = r.Lightness
	return base, nil
}

// Validate reports structural problems with the request.
func (r Request) Validate() error {
	if r.Count < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidCount, r.Count)
	}
	if _, err := ParseHex(r.BaseColor); err != nil {
		return err
	}
	_, err := r.canonicalLocks()
	return err
}

// canonicalLocks parses every locked color into its #RRGGBB form.
// Empty colors mean "not locked" and are dropped.
func (r Request) canonicalLocks() (map[int]Hex, error) {
	if len(r.Locked) == 0 {
		return nil, nil
	}
	locks := make(map[int]Hex, len(r.Locked))
	for pos, color := range r.Locked {
		if color == "" {
			continue
		}
		hex, err := ParseHex(string(color))
		if err != nil {
			return nil, fmt.Errorf("locked position %d: %w", pos, err)
		}
		locks[pos] = hex
	}
	return locks, nil
}

// Orchestrate generates a fresh palette for req and overlays the locked colors.
// It holds no state; the caller supplies the previous colors of locked positions.
func Orchestrate(req Request, rng RandomSource) ([]Hex, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	base, err := req.AdjustedBase()
	if err != nil {
		return nil, err
	}
	locks, err := req.canonicalLocks()
	if err != nil {
		return nil, err
	}

	colors := Generate(ParseMode(string(req.Mode)), base, req.Count, rng)
	return ApplyLocks(colors, locks), nil
}

// ApplyLocks returns a copy of colors with every override written at its
// position. Positions outside the palette and empty colors are ignored.
func ApplyLocks(colors []Hex, overrides map[int]Hex) []Hex {
	merged := make([]Hex, len(colors))
	copy(merged, colors)
	for pos, color := range overrides {
		if pos < 0 || pos >= len(merged) || color == "" {
			continue
		}
		merged[pos] = color
	}
	return merged
}
