package atlas

import (
	"fmt"
	"image"

	"github.com/IvanBrykalov/tileatlas/internal/util"
)

// Texture is the upload side of the graphics backend: a layered RGBA8
// texture array.
type Texture interface {
	// Allocate sizes the texture array once, before any upload.
	Allocate(g Geometry) error
	// Upload replaces rect of the given layer with pix: rect.Dx()*rect.Dy()
	// non-premultiplied RGBA8 texels, row-major, no padding.
	// An error means the graphics context is unusable.
	Upload(layer int, rect image.Rectangle, pix []byte) error
}

// MemoryTexture is a CPU-side Texture. It backs tests and tools that
// inspect or export the atlas contents.
type MemoryTexture struct {
	layers []*image.NRGBA
}

// NewMemoryTexture returns an unallocated texture.
func NewMemoryTexture() *MemoryTexture { return &MemoryTexture{} }

// Allocate creates g.Layers transparent layers. Both dimensions must be
// powers of two, like any texture Plan produces.
func (t *MemoryTexture) Allocate(g Geometry) error {
	if !util.IsPowerOfTwo(uint64(g.Width)) || !util.IsPowerOfTwo(uint64(g.Height)) || g.Layers <= 0 {
		return fmt.Errorf("atlas: memory texture cannot hold %v", g)
	}
	t.layers = make([]*image.NRGBA, g.Layers)
	for i := range t.layers {
		t.layers[i] = image.NewNRGBA(image.Rect(0, 0, g.Width, g.Height))
	}
	return nil
}

// Upload copies pix into rect of the layer.
func (t *MemoryTexture) Upload(layer int, rect image.Rectangle, pix []byte) error {
	if layer < 0 || layer >= len(t.layers) {
		return fmt.Errorf("%w: layer %d of %d", ErrTextureBounds, layer, len(t.layers))
	}
	dst := t.layers[layer]
	if !rect.In(dst.Rect) {
		return fmt.Errorf("%w: %v not in %v", ErrTextureBounds, rect, dst.Rect)
	}
	row := rect.Dx() * 4
	if len(pix) != row*rect.Dy() {
		return fmt.Errorf("atlas: upload of %d bytes into %v", len(pix), rect)
	}
	for y := 0; y < rect.Dy(); y++ {
		off := dst.PixOffset(rect.Min.X, rect.Min.Y+y)
		copy(dst.Pix[off:off+row], pix[y*row:(y+1)*row])
	}
	return nil
}

// Layers returns the number of allocated layers.
func (t *MemoryTexture) Layers() int { return len(t.layers) }

// Layer returns layer i. The image aliases the texture memory.
func (t *MemoryTexture) Layer(i int) *image.NRGBA { return t.layers[i] }

// Compile-time check: ensure MemoryTexture implements Texture.
var _ Texture = (*MemoryTexture)(nil)
