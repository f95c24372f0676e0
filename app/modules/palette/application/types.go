package paletteservice

import (
	"sync"
	"time"

	palettedomain "github.com/Black-And-White-Club/palette-forge/app/modules/palette/domain"
)

// SessionView is the externally visible state of a session.
type SessionView struct {
	ID       string                 `json:"id"`
	Controls palettedomain.Controls `json:"controls"`
	Colors   []palettedomain.Hex    `json:"colors"`
	Locked   []int                  `json:"locked"`
}

func newSessionView(id string, s *palettedomain.Session) *SessionView {
	colors := s.Palette()
	if colors == nil {
		colors = []palettedomain.Hex{}
	}
	return &SessionView{
		ID:       id,
		Controls: s.Controls,
		Colors:   colors,
		Locked:   s.Locks.Positions(),
	}
}

// Clock abstracts time for saved palette ids and since filters.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Settings tune a PaletteService.
type Settings struct {
	// Defaults seed new sessions and resets.
	Defaults palettedomain.Controls
	// MaxColors caps the palette size; zero means no cap.
	MaxColors int
	// Seed fixes the analogous jitter source; zero seeds from the clock.
	Seed  uint64
	Clock Clock
}

// lockedSource serialises access to a RandomSource shared by concurrent callers.
type lockedSource struct {
	mu  sync.Mutex
	src palettedomain.RandomSource
}

func (l *lockedSource) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Float64()
}
