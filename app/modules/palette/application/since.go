package paletteservice

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/en"
)

// sinceLayouts are tried before anything else, so a bare year such as "2026"
// is a calendar year and never a millisecond timestamp.
var sinceLayouts = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02", "2006-01", "2006"}

// minMillisDigits is the shortest integer read as unix milliseconds.
const minMillisDigits = 10

// parseSince reads a lower bound for saved palette listing. It accepts an
// empty string (no bound), a few fixed layouts, unix milliseconds and
// English phrases such as "yesterday" or "3 days ago".
func parseSince(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, nil
	}

	for _, layout := range sinceLayouts {
		if t, err := time.ParseInLocation(layout, input, now.Location()); err == nil {
			return t, nil
		}
	}

	if ms, err := strconv.ParseInt(input, 10, 64); err == nil {
		if len(input) < minMillisDigits || ms <= 0 {
			return time.Time{}, fmt.Errorf("%w: %q is too short for unix milliseconds", ErrInvalidSince, input)
		}
		return time.UnixMilli(ms), nil
	}

	w := when.New(nil)
	w.Add(en.All...)

	r, err := w.Parse(strings.ToLower(input), now)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrInvalidSince, input, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidSince, input)
	}
	return r.Time, nil
}
