package palettedomain

import "slices"

const (
	// MaxResolveAttempts bounds the perturbation loop in Resolve.
	MaxResolveAttempts = 100

	// lightnessAttempts is the number of attempts spent nudging lightness
	// before the resolver starts rotating the hue.
	lightnessAttempts = 50
)

// Resolve returns candidate unchanged when it is not already in existing.
// Otherwise it perturbs the color that produced it, first by lightness
// (+n on even attempts, -n on odd ones) and then by hue, until the result is
// unique or MaxResolveAttempts is spent. On exhaustion the last computed
// color is returned and a near-duplicate is accepted.
func Resolve(candidate Hex, existing []Hex, h, s, l float64) Hex {
	unique := candidate
	for attempt := 0; attempt < MaxResolveAttempts && slices.Contains(existing, unique); attempt++ {
		if attempt < lightnessAttempts {
			offset := float64(attempt)
			if attempt%2 != 0 {
				offset = -offset
			}
			unique = HSLToHex(h, s, l+offset)
			continue
		}
		unique = HSLToHex(h+float64(attempt-lightnessAttempts), s, l)
	}
	return unique
}

// place appends the color for (h,s,l) to colors, resolving collisions first.
func place(colors []Hex, h, s, l float64) []Hex {
	color := HSLToHex(h, s, l)
	if slices.Contains(colors, color) {
		color = Resolve(color, colors, h, s, l)
	}
	return append(colors, color)
}
