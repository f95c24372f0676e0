package palettedomain

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is the kind shared by every input validation failure.
// Transports map it to a client error instead of retrying.
var ErrInvalidArgument = errors.New("invalid argument")

var (
	// ErrInvalidHex indicates a base color that is not six hex digits.
	ErrInvalidHex = fmt.Errorf("%w: invalid hex color", ErrInvalidArgument)

	// ErrInvalidCount indicates a palette size below one.
	ErrInvalidCount = fmt.Errorf("%w: color count must be at least 1", ErrInvalidArgument)

	// ErrLockOutOfRange indicates a lock toggle outside the current palette.
	ErrLockOutOfRange = fmt.Errorf("%w: lock position out of range", ErrInvalidArgument)
)
