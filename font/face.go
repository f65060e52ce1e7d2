package font

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"sync"
	"unicode"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/IvanBrykalov/tileatlas/atlas"
	"github.com/IvanBrykalov/tileatlas/cache"
	"github.com/IvanBrykalov/tileatlas/internal/singleflight"
)

// ErrGlyphNotFound is returned when the font has no glyph for a character.
var ErrGlyphNotFound = errors.New("font: glyph not found")

// Defaults applied by Parse.
const (
	DefaultSize              = 16
	DefaultGlyphCacheEntries = 1000
	DefaultGlyphCacheBytes   = 1 << 20
)

// FaceOptions configures a Face. Zero values select the defaults above.
type FaceOptions struct {
	// Size is the font size in pixels per em.
	Size float64
	// Hinting controls outline hinting of advances and bounds.
	Hinting xfont.Hinting

	// GlyphCacheEntries and GlyphCacheBytes bound the bitmap cache by count
	// and by coverage bytes.
	GlyphCacheEntries int
	GlyphCacheBytes   int64

	CacheMetrics cache.Metrics
}

// glyphKey identifies one rasterization; the size generation keeps a load
// started before SetSize from being shared with callers after it.
type glyphKey struct {
	r   rune
	gen uint64
}

// Face renders one font at one size. It implements atlas.Rasterizer.
type Face struct {
	font *sfnt.Font
	opt  FaceOptions
	bufs sync.Pool // *sfnt.Buffer

	mu     sync.Mutex
	ppem   fixed.Int26_6
	gen    uint64
	glyphs cache.Cache[rune, *atlas.Bitmap]

	sf singleflight.Group[glyphKey, *atlas.Bitmap]
}

// Parse reads an OpenType/TrueType font.
func Parse(data []byte, opt FaceOptions) (*Face, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("font: parse: %w", err)
	}
	return newFace(f, opt), nil
}

// newFace wraps a parsed font. *sfnt.Font is safe for concurrent use, so
// faces of different sizes may share one.
func newFace(f *sfnt.Font, opt FaceOptions) *Face {
	if opt.Size <= 0 {
		opt.Size = DefaultSize
	}
	if opt.GlyphCacheEntries <= 0 {
		opt.GlyphCacheEntries = DefaultGlyphCacheEntries
	}
	if opt.GlyphCacheBytes <= 0 {
		opt.GlyphCacheBytes = DefaultGlyphCacheBytes
	}

	face := &Face{
		font: f,
		opt:  opt,
		ppem: toFixed(opt.Size),
		glyphs: cache.New[rune, *atlas.Bitmap](cache.Options[rune, *atlas.Bitmap]{
			Capacity: opt.GlyphCacheEntries,
			Cost:     func(b *atlas.Bitmap) int { return len(b.Coverage) },
			MaxCost:  opt.GlyphCacheBytes,
			Metrics:  opt.CacheMetrics,
		}),
	}
	face.bufs.New = func() any { return new(sfnt.Buffer) }
	return face
}

// Default returns the Go Mono face, a monospace font suited to tile grids.
func Default(opt FaceOptions) (*Face, error) { return Parse(gomono.TTF, opt) }

// Name returns the font's full name, or "" if the font has none.
func (f *Face) Name() string {
	name, err := f.font.Name(nil, sfnt.NameIDFull)
	if err != nil {
		return ""
	}
	return name
}

// Size returns the current size in pixels per em.
func (f *Face) Size() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fromFixed(f.ppem)
}

// SetSize changes the size and drops every cached bitmap.
// Atlases filled from this face keep their old bitmaps until reset.
func (f *Face) SetSize(px float64) {
	if px <= 0 {
		px = DefaultSize
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ppem = toFixed(px)
	f.gen++
	f.glyphs.Clear()
}

// CellSize is the smallest cell holding any printable ASCII character:
// the widest advance by the line height, rounded up to whole pixels.
func (f *Face) CellSize() (width, height int, err error) {
	f.mu.Lock()
	ppem := f.ppem
	f.mu.Unlock()

	buf := f.bufs.Get().(*sfnt.Buffer)
	defer f.bufs.Put(buf)

	var widest fixed.Int26_6
	for r := rune(0x20); r < 0x7f; r++ {
		idx, err := f.font.GlyphIndex(buf, r)
		if err != nil || idx == 0 {
			continue
		}
		adv, err := f.font.GlyphAdvance(buf, idx, ppem, f.opt.Hinting)
		if err != nil {
			return 0, 0, fmt.Errorf("font: advance of %q: %w", r, err)
		}
		widest = max(widest, adv)
	}
	m, err := f.font.Metrics(buf, ppem, f.opt.Hinting)
	if err != nil {
		return 0, 0, fmt.Errorf("font: metrics: %w", err)
	}
	return widest.Ceil(), m.Height.Ceil(), nil
}

// Rasterize implements atlas.Rasterizer; id is a Unicode code point.
func (f *Face) Rasterize(id int) (*atlas.Bitmap, error) {
	return f.Glyph(context.Background(), id)
}

// Glyph returns the coverage bitmap of code point id. Bitmaps are shared
// between callers and must not be modified.
func (f *Face) Glyph(ctx context.Context, id int) (*atlas.Bitmap, error) {
	if id < 0 || id > unicode.MaxRune {
		return nil, fmt.Errorf("%w: code point %d", ErrGlyphNotFound, id)
	}
	r := rune(id)

	// fast path
	f.mu.Lock()
	if b, ok := f.glyphs.Get(r); ok {
		f.mu.Unlock()
		return b, nil
	}
	key := glyphKey{r: r, gen: f.gen}
	ppem := f.ppem
	f.mu.Unlock()

	return f.sf.Do(ctx, key, func() (*atlas.Bitmap, error) {
		// double-check after flight join
		f.mu.Lock()
		if b, ok := f.glyphs.Peek(r); ok && f.gen == key.gen {
			f.mu.Unlock()
			return b, nil
		}
		f.mu.Unlock()

		b, err := f.render(r, ppem)
		if err != nil {
			return nil, err
		}
		f.mu.Lock()
		if f.gen == key.gen {
			f.glyphs.Put(r, b)
		}
		f.mu.Unlock()
		return b, nil
	})
}

// render rasterizes r at ppem. The bitmap box is the outline bounds rounded
// out to whole pixels; Left/Top locate it relative to the pen on the baseline.
func (f *Face) render(r rune, ppem fixed.Int26_6) (*atlas.Bitmap, error) {
	buf := f.bufs.Get().(*sfnt.Buffer)
	defer f.bufs.Put(buf)

	idx, err := f.font.GlyphIndex(buf, r)
	if err != nil {
		return nil, fmt.Errorf("font: glyph index of %q: %w", r, err)
	}
	if idx == 0 {
		return nil, fmt.Errorf("%w: %q", ErrGlyphNotFound, r)
	}
	segs, err := f.font.LoadGlyph(buf, idx, ppem, nil)
	if err != nil {
		return nil, fmt.Errorf("font: load glyph %q: %w", r, err)
	}
	if len(segs) == 0 {
		return &atlas.Bitmap{}, nil // blank glyph such as a space
	}

	// sfnt outlines use image coordinates: y grows downwards from the baseline.
	bounds := segs.Bounds()
	minX, minY := bounds.Min.X.Floor(), bounds.Min.Y.Floor()
	w, h := bounds.Max.X.Ceil()-minX, bounds.Max.Y.Ceil()-minY
	if w <= 0 || h <= 0 {
		return &atlas.Bitmap{}, nil
	}

	// Shift the outline into the positive quadrant the rasterizer expects.
	dx, dy := float32(-minX), float32(-minY)
	pt := func(p fixed.Point26_6) (float32, float32) {
		return float32(p.X)/64 + dx, float32(p.Y)/64 + dy
	}
	z := vector.NewRasterizer(w, h)
	for _, s := range segs {
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			z.MoveTo(pt(s.Args[0]))
		case sfnt.SegmentOpLineTo:
			z.LineTo(pt(s.Args[0]))
		case sfnt.SegmentOpQuadTo:
			bx, by := pt(s.Args[0])
			cx, cy := pt(s.Args[1])
			z.QuadTo(bx, by, cx, cy)
		case sfnt.SegmentOpCubeTo:
			bx, by := pt(s.Args[0])
			cx, cy := pt(s.Args[1])
			ex, ey := pt(s.Args[2])
			z.CubeTo(bx, by, cx, cy, ex, ey)
		}
	}
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	return &atlas.Bitmap{
		Left:     minX,
		Top:      -minY,
		Width:    w,
		Rows:     h,
		Pitch:    mask.Stride,
		Coverage: mask.Pix,
	}, nil
}

func toFixed(px float64) fixed.Int26_6 { return fixed.Int26_6(math.Round(px * 64)) }

func fromFixed(v fixed.Int26_6) float64 { return float64(v) / 64 }

// Compile-time check: ensure Face implements atlas.Rasterizer.
var _ atlas.Rasterizer = (*Face)(nil)
