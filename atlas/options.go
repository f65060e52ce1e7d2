package atlas

import (
	"log/slog"

	"github.com/IvanBrykalov/tileatlas/cache"
	"github.com/IvanBrykalov/tileatlas/policy"
)

// DefaultSlots is the slot count used when Options.Slots is zero.
const DefaultSlots = 2500

// Rasterizer renders content (for example a character code) into a coverage
// bitmap. Returned bitmaps are only read, during the LocationFor call that
// requested them.
type Rasterizer interface {
	Rasterize(id int) (*Bitmap, error)
}

// RasterizerFunc adapts an ordinary function to the Rasterizer interface.
type RasterizerFunc func(id int) (*Bitmap, error)

// Rasterize calls f(id).
func (f RasterizerFunc) Rasterize(id int) (*Bitmap, error) { return f(id) }

// Metrics exposes atlas-level observability hooks. Cache hits, misses and
// evictions are reported through Options.CacheMetrics.
type Metrics interface {
	// Rasterized counts successful rasterizations; Failed counts the rest.
	Rasterized()
	RasterizeFailed()
	// Uploaded reports the bytes sent to the texture for one slot.
	Uploaded(bytes int)
	// FreeSlots reports the free slot count after each LocationFor.
	FreeSlots(n int)
}

// NoopMetrics is the default Metrics implementation; it does nothing.
type NoopMetrics struct{}

func (NoopMetrics) Rasterized()      {}
func (NoopMetrics) RasterizeFailed() {}
func (NoopMetrics) Uploaded(int)     {}
func (NoopMetrics) FreeSlots(int)    {}

var _ Metrics = NoopMetrics{}

// Options configures an Atlas. Zero values are safe except for the cell
// size; defaults are applied in New():
//   - Slots == 0      => DefaultSlots
//   - nil Policy      => LRU
//   - nil Metrics     => NoopMetrics
//   - nil Logger      => no log output
type Options struct {
	// CellWidth and CellHeight are the fixed cell size in texels.
	CellWidth, CellHeight int

	// Slots is the number of cells, i.e. how many distinct pieces of
	// content stay resident at once.
	Slots int

	// Policy chooses which content loses its slot when the atlas is full.
	Policy policy.Policy[int, Slot]

	Metrics      Metrics
	CacheMetrics cache.Metrics

	// Logger receives debug records for evictions, warnings for
	// rasterization failures and errors for upload failures.
	Logger *slog.Logger
}
