package paletteservice

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/uptrace/bun"

	palettedb "github.com/Black-And-White-Club/palette-forge/app/modules/palette/infrastructure/repositories"
)

// ------------------------
// Fake Palette Repo
// ------------------------

// FakePaletteRepo keeps palettes in memory unless a ...Func hook overrides a method.
type FakePaletteRepo struct {
	mu       sync.Mutex
	trace    []string
	palettes map[int64]palettedb.SavedPalette

	InsertFunc  func(ctx context.Context, db bun.IDB, palette *palettedb.SavedPalette) error
	ListFunc    func(ctx context.Context, db bun.IDB, since time.Time) ([]palettedb.SavedPalette, error)
	GetByIDFunc func(ctx context.Context, db bun.IDB, id int64) (*palettedb.SavedPalette, error)
	DeleteFunc  func(ctx context.Context, db bun.IDB, id int64) error
	MaxIDFunc   func(ctx context.Context, db bun.IDB) (int64, error)
}

func NewFakePaletteRepo(seed ...palettedb.SavedPalette) *FakePaletteRepo {
	f := &FakePaletteRepo{
		trace:    []string{},
		palettes: map[int64]palettedb.SavedPalette{},
	}
	for _, p := range seed {
		f.palettes[p.ID] = p
	}
	return f
}

func (f *FakePaletteRepo) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

// --- Repository Interface Implementation ---

func (f *FakePaletteRepo) Insert(ctx context.Context, db bun.IDB, palette *palettedb.SavedPalette) error {
	f.record("Insert")
	if f.InsertFunc != nil {
		return f.InsertFunc(ctx, db, palette)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.palettes[palette.ID] = *palette
	return nil
}

func (f *FakePaletteRepo) List(ctx context.Context, db bun.IDB, since time.Time) ([]palettedb.SavedPalette, error) {
	f.record("List")
	if f.ListFunc != nil {
		return f.ListFunc(ctx, db, since)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []palettedb.SavedPalette
	for _, p := range f.palettes {
		if since.IsZero() || p.ID >= since.UnixMilli() {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b palettedb.SavedPalette) int { return cmp.Compare(b.ID, a.ID) })
	return out, nil
}

func (f *FakePaletteRepo) GetByID(ctx context.Context, db bun.IDB, id int64) (*palettedb.SavedPalette, error) {
	f.record("GetByID")
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, db, id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.palettes[id]
	if !ok {
		return nil, palettedb.ErrNotFound
	}
	return &p, nil
}

func (f *FakePaletteRepo) Delete(ctx context.Context, db bun.IDB, id int64) error {
	f.record("Delete")
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, db, id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.palettes[id]; !ok {
		return palettedb.ErrNotFound
	}
	delete(f.palettes, id)
	return nil
}

func (f *FakePaletteRepo) MaxID(ctx context.Context, db bun.IDB) (int64, error) {
	f.record("MaxID")
	if f.MaxIDFunc != nil {
		return f.MaxIDFunc(ctx, db)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var newest int64
	for id := range f.palettes {
		newest = max(newest, id)
	}
	return newest, nil
}

// --- Accessors for assertions ---

func (f *FakePaletteRepo) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// ------------------------
// Fake Clock
// ------------------------

type FakeClock struct {
	NowFn func() time.Time
}

func (c FakeClock) Now() time.Time { return c.NowFn() }

func fixedClock(t time.Time) FakeClock {
	return FakeClock{NowFn: func() time.Time { return t }}
}

// Ensure the fake actually satisfies the interface
var _ palettedb.Repository = (*FakePaletteRepo)(nil)
