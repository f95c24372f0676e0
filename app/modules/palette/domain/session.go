package palettedomain

import (
	"fmt"
	"slices"
)

// Controls are the user-adjustable generation parameters of a session.
type Controls struct {
	BaseColor  string `json:"base_color" yaml:"base_color"`
	Mode       Mode   `json:"mode" yaml:"mode"`
	Count      int    `json:"count" yaml:"count"`
	HueShift   int    `json:"hue_shift" yaml:"hue_shift"`
	Saturation int    `json:"saturation" yaml:"saturation"`
	Lightness  int    `json:"lightness" yaml:"lightness"`
}

// DefaultControls are the values a session starts with and returns to on reset.
func DefaultControls() Controls {
	return Controls{
		BaseColor:  "#F63049",
		Mode:       ModeMonochromatic,
		Count:      5,
		HueShift:   0,
		Saturation: 50,
		Lightness:  50,
	}
}

// LockSet holds pinned palette positions.
type LockSet map[int]struct{}

// Has reports whether pos is locked.
func (s LockSet) Has(pos int) bool {
	_, ok := s[pos]
	return ok
}

// Toggle flips pos and returns the new state.
func (s LockSet) Toggle(pos int) bool {
	if s.Has(pos) {
		delete(s, pos)
		return false
	}
	s[pos] = struct{}{}
	return true
}

// Trim drops every position at or beyond n.
func (s LockSet) Trim(n int) {
	for pos := range s {
		if pos < 0 || pos >= n {
			delete(s, pos)
		}
	}
}

// Positions returns the locked positions in ascending order.
func (s LockSet) Positions() []int {
	out := make([]int, 0, len(s))
	for pos := range s {
		out = append(out, pos)
	}
	slices.Sort(out)
	return out
}

// Session is the per-user working state: controls, the palette on display and
// its locks. It is not safe for concurrent use.
type Session struct {
	Controls Controls
	Colors   []Hex
	Locks    LockSet
}

// NewSession returns a session with controls and no palette yet.
func NewSession(controls Controls) *Session {
	return &Session{
		Controls: controls,
		Locks:    LockSet{},
	}
}

// Request builds an orchestration request from the controls, carrying the
// current color of every locked position.
func (s *Session) Request() Request {
	locked := make(map[int]Hex, len(s.Locks))
	for pos := range s.Locks {
		if pos >= 0 && pos < len(s.Colors) {
			locked[pos] = s.Colors[pos]
		}
	}
	return Request{
		BaseColor:  s.Controls.BaseColor,
		Mode:       s.Controls.Mode,
		Count:      s.Controls.Count,
		HueShift:   s.Controls.HueShift,
		Saturation: s.Controls.Saturation,
		Lightness:  s.Controls.Lightness,
		Locked:     locked,
	}
}

// Regenerate replaces the palette using the current controls while keeping
// locked swatches. Locks past the end of the new palette are released.
func (s *Session) Regenerate(rng RandomSource) ([]Hex, error) {
	colors, err := Orchestrate(s.Request(), rng)
	if err != nil {
		return nil, err
	}
	s.Colors = colors
	s.Locks.Trim(len(colors))
	return s.Palette(), nil
}

// Update applies new controls and regenerates. Controls are left untouched on error.
func (s *Session) Update(controls Controls, rng RandomSource) ([]Hex, error) {
	previous := s.Controls
	s.Controls = controls
	colors, err := s.Regenerate(rng)
	if err != nil {
		s.Controls = previous
		return nil, err
	}
	return colors, nil
}

// ToggleLock pins or unpins a position of the displayed palette.
func (s *Session) ToggleLock(pos int) (bool, error) {
	if pos < 0 || pos >= len(s.Colors) {
		return false, fmt.Errorf("%w: %d not in [0,%d)", ErrLockOutOfRange, pos, len(s.Colors))
	}
	return s.Locks.Toggle(pos), nil
}

// Reset restores defaults, clears every lock and regenerates.
func (s *Session) Reset(defaults Controls, rng RandomSource) ([]Hex, error) {
	s.Controls = defaults
	s.Locks = LockSet{}
	return s.Regenerate(rng)
}

// Load displays a saved palette. Locks are position-bound and survive while
// the position still exists.
func (s *Session) Load(colors []Hex) {
	s.Colors = slices.Clone(colors)
	s.Locks.Trim(len(colors))
}

// Palette returns a copy of the displayed colors.
func (s *Session) Palette() []Hex {
	return slices.Clone(s.Colors)
}
