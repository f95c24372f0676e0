package paletteservice

import (
	"errors"
	"fmt"

	palettedomain "github.com/Black-And-White-Club/palette-forge/app/modules/palette/domain"
)

// ErrSessionNotFound is returned for an unknown or ended session.
var ErrSessionNotFound = errors.New("session not found")

var (
	// ErrEmptyPalette is returned when there is nothing to save.
	ErrEmptyPalette = fmt.Errorf("%w: palette is empty", palettedomain.ErrInvalidArgument)

	// ErrTooManyColors is returned when a count exceeds the configured maximum.
	ErrTooManyColors = fmt.Errorf("%w: too many colors", palettedomain.ErrInvalidArgument)

	// ErrInvalidSince is returned when a since filter cannot be read as a time.
	ErrInvalidSince = fmt.Errorf("%w: unrecognised time", palettedomain.ErrInvalidArgument)
)
