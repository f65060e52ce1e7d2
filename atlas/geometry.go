package atlas

import (
	"fmt"

	"github.com/IvanBrykalov/tileatlas/internal/util"
)

// Texture size search bounds.
const (
	// MinTextureSize is the first candidate width tried by Plan.
	MinTextureSize = 8

	// MaxTextureSize bounds the candidate widths (exclusive).
	MaxTextureSize = 2048

	// FallbackTextureSize is used for both dimensions when no candidate
	// fits the slot count on a single layer.
	FallbackTextureSize = 1024
)

// Geometry describes the atlas texture array: layer size, layer count and
// the fixed cell size.
type Geometry struct {
	Width, Height int // texels per layer
	Layers        int
	CellWidth     int
	CellHeight    int
}

// Columns is the number of cells per row.
func (g Geometry) Columns() int { return g.Width / g.CellWidth }

// Rows is the number of cell rows per layer.
func (g Geometry) Rows() int { return g.Height / g.CellHeight }

// PerLayer is the number of cells in one layer.
func (g Geometry) PerLayer() int { return g.Columns() * g.Rows() }

// Capacity is the number of cells across all layers.
func (g Geometry) Capacity() int { return g.PerLayer() * g.Layers }

// String returns a compact representation, e.g. "128x128x1 (8x16 cells)".
func (g Geometry) String() string {
	return fmt.Sprintf("%dx%dx%d (%dx%d cells)", g.Width, g.Height, g.Layers, g.CellWidth, g.CellHeight)
}

// Plan picks the texture size and layer count for slots cells of
// cellWidth x cellHeight texels.
//
// The search is first-fit, not minimal-area: widths are tried as powers of
// two from MinTextureSize while below MaxTextureSize; for each width, heights
// are tried as powers of two from width/2 while below width*4. The first pair
// that holds all slots on one layer wins. If none does, both dimensions fall
// back to FallbackTextureSize and the slots spill over several layers.
// The order is part of the contract: callers observe which geometry is chosen.
func Plan(cellWidth, cellHeight, slots int) (Geometry, error) {
	if cellWidth <= 0 || cellHeight <= 0 {
		return Geometry{}, fmt.Errorf("%w: cell size %dx%d", ErrCapacityViolation, cellWidth, cellHeight)
	}
	if slots <= 0 {
		return Geometry{}, fmt.Errorf("%w: %d slots requested", ErrCapacityViolation, slots)
	}

	g := Geometry{
		Width:      FallbackTextureSize,
		Height:     FallbackTextureSize,
		CellWidth:  cellWidth,
		CellHeight: cellHeight,
	}
search:
	for w := MinTextureSize; w < MaxTextureSize; w <<= 1 {
		for h := w >> 1; h < w<<2; h <<= 1 {
			if (w/cellWidth)*(h/cellHeight) >= slots {
				g.Width, g.Height = w, h
				break search
			}
		}
	}

	perLayer := g.PerLayer()
	if perLayer == 0 {
		return Geometry{}, fmt.Errorf("%w: cell size %dx%d does not fit a %dx%d layer",
			ErrCapacityViolation, cellWidth, cellHeight, g.Width, g.Height)
	}
	g.Layers = util.CeilDiv(slots, perLayer)
	return g, nil
}
