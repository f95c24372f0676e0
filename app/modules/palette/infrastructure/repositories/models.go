package palettedb

import (
	"time"

	"github.com/uptrace/bun"
)

// SavedPalette is a palette the user kept. ID is the save time in Unix
// milliseconds, bumped when two saves land in the same millisecond.
type SavedPalette struct {
	bun.BaseModel `bun:"table:saved_palettes,alias:sp"`
	ID            int64     `bun:"id,pk" json:"id"`
	Colors        []string  `bun:"colors,notnull" json:"colors"`
	Date          string    `bun:"date,notnull" json:"date"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}
