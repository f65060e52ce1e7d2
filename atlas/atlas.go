package atlas

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/IvanBrykalov/tileatlas/cache"
)

// Location is what a renderer needs to draw one tile: the texture layer and
// the UV corners of its cell.
type Location struct {
	Slot         Slot
	Layer        int
	UVBottomLeft [2]float32
	UVTopRight   [2]float32
}

func locationOf(s Slot) Location {
	return Location{Slot: s, Layer: s.Layer, UVBottomLeft: s.UVBottomLeft(), UVTopRight: s.UVTopRight()}
}

// Stats is a snapshot of atlas occupancy and activity.
type Stats struct {
	Slots          int
	Free           int
	Resident       int
	Hits           uint64
	Misses         uint64
	Evictions      uint64
	Rasterizations uint64
}

// Atlas maps content ids to cells of a layered texture, rasterizing and
// uploading content on first use and recycling the cells of the least
// recently used content when it runs out.
//
// A Location returned by LocationFor stays valid until a later LocationFor
// for uncached content evicts it; callers re-query every frame instead of
// holding on to locations.
//
// All methods are safe for concurrent use; a single mutex serializes them
// because the cache and the slot pool change together.
type Atlas struct {
	mu sync.Mutex

	geo     Geometry
	pool    *SlotPool
	tiles   cache.Cache[int, Slot]
	rast    Rasterizer
	tex     Texture
	scratch *image.NRGBA // one cell, reused for every upload

	metrics Metrics
	log     *slog.Logger

	// broken holds the upload error that disabled the atlas.
	broken error

	hits, misses, evictions, rasterizations uint64
}

// slotReclaimer returns the slot of every evicted entry to the pool.
type slotReclaimer struct{ a *Atlas }

// OnEvict runs inside cache calls, with a.mu already held.
func (r slotReclaimer) OnEvict(id int, s Slot, reason cache.EvictReason) {
	r.a.pool.Release(s)
	r.a.evictions++
	r.a.log.Debug("atlas: evicted", "id", id, "slot", s.Index, "reason", reason.String())
}

// New plans the atlas geometry, allocates the texture and returns an empty
// atlas with every slot free.
func New(r Rasterizer, t Texture, opt Options) (*Atlas, error) {
	if opt.Slots == 0 {
		opt.Slots = DefaultSlots
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	if opt.Logger == nil {
		opt.Logger = newNopLogger()
	}

	geo, err := Plan(opt.CellWidth, opt.CellHeight, opt.Slots)
	if err != nil {
		return nil, err
	}
	if err := t.Allocate(geo); err != nil {
		return nil, fmt.Errorf("%w: allocate %v: %w", ErrUpload, geo, err)
	}

	a := &Atlas{
		geo:     geo,
		pool:    NewSlotPool(geo, opt.Slots),
		rast:    r,
		tex:     t,
		scratch: image.NewNRGBA(image.Rect(0, 0, geo.CellWidth, geo.CellHeight)),
		metrics: opt.Metrics,
		log:     opt.Logger,
	}
	a.tiles = cache.New[int, Slot](cache.Options[int, Slot]{
		Capacity: opt.Slots,
		Policy:   opt.Policy,
		Evictor:  slotReclaimer{a: a},
		Metrics:  opt.CacheMetrics,
	})
	a.log.Info("atlas: created", "geometry", geo.String(), "slots", opt.Slots)
	return a, nil
}

// LocationFor returns the cell holding content id, rasterizing and uploading
// it on a miss. When no cell is free, the least recently used content is
// evicted once the new bitmap is ready and its cell reused.
//
// Errors wrap ErrRasterization (the atlas is unchanged; other content still
// works) or ErrUpload (fatal; every later call fails with the same error).
func (a *Atlas) LocationFor(id int) (Location, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.broken != nil {
		return Location{}, a.broken
	}
	if s, ok := a.tiles.Get(id); ok {
		a.hits++
		return locationOf(s), nil
	}
	a.misses++

	// Render before touching the pool or the cache, so a failed
	// rasterization leaves every resident entry in place.
	if err := a.render(id); err != nil {
		return Location{}, err
	}

	// Free a cell before taking one: the new entry's slot must be known
	// before it is inserted, so Put never has to evict.
	if a.pool.Free() == 0 {
		a.tiles.EvictOne()
	}
	s, ok := a.pool.Take()
	if !ok {
		// free + resident == total, so an empty pool means a non-empty cache.
		panic("atlas: no free slot after eviction")
	}

	if err := a.upload(id, s); err != nil {
		a.pool.Release(s)
		a.metrics.FreeSlots(a.pool.Free())
		return Location{}, err
	}
	a.tiles.Put(id, s)
	a.metrics.FreeSlots(a.pool.Free())
	return locationOf(s), nil
}

// render rasterizes id into the scratch cell.
func (a *Atlas) render(id int) error {
	b, err := a.rast.Rasterize(id)
	if err == nil {
		err = b.Validate()
	}
	if err != nil {
		a.metrics.RasterizeFailed()
		a.log.Warn("atlas: rasterize failed", "id", id, "err", err)
		return fmt.Errorf("%w: content %d: %w", ErrRasterization, id, err)
	}
	a.metrics.Rasterized()
	a.rasterizations++

	clear(a.scratch.Pix)
	if dropped := Place(a.scratch, a.scratch.Rect, b); dropped > 0 {
		a.log.Debug("atlas: ink clipped to cell", "id", id, "pixels", dropped)
	}
	return nil
}

// upload sends the scratch cell to slot s. A failure disables the atlas.
func (a *Atlas) upload(id int, s Slot) error {
	if err := a.tex.Upload(s.Layer, s.Rect, a.scratch.Pix); err != nil {
		a.broken = fmt.Errorf("%w: slot %d: %w", ErrUpload, s.Index, err)
		a.log.Error("atlas: upload failed", "id", id, "slot", s.Index, "err", err)
		return a.broken
	}
	a.metrics.Uploaded(len(a.scratch.Pix))
	return nil
}

// Reset forgets all content and frees every slot. Texture contents are left
// as they are; cells are overwritten on reuse.
func (a *Atlas) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Clear skips the Evictor, so slots go back to the pool here.
	a.tiles.Range(func(_ int, s Slot) bool {
		a.pool.Release(s)
		return true
	})
	a.tiles.Clear()
	a.metrics.FreeSlots(a.pool.Free())
}

// Contains reports whether id is resident, without touching recency.
func (a *Atlas) Contains(id int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.tiles.Peek(id)
	return ok
}

// Stats returns a snapshot of the atlas counters.
func (a *Atlas) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Stats{
		Slots:          a.pool.Total(),
		Free:           a.pool.Free(),
		Resident:       a.tiles.Len(),
		Hits:           a.hits,
		Misses:         a.misses,
		Evictions:      a.evictions,
		Rasterizations: a.rasterizations,
	}
}

// Err returns the fatal upload error, if any.
func (a *Atlas) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.broken
}

// IsFatal reports whether err disabled the atlas.
func IsFatal(err error) bool { return errors.Is(err, ErrUpload) }

// Geometry returns the texture layout chosen at construction.
func (a *Atlas) Geometry() Geometry { return a.geo }

// CellWidth is the cell width in texels.
func (a *Atlas) CellWidth() int { return a.geo.CellWidth }

// CellHeight is the cell height in texels.
func (a *Atlas) CellHeight() int { return a.geo.CellHeight }
