package atlas

import (
	"fmt"
	"image"
)

// Bitmap is an 8-bit coverage bitmap with FreeType-style metrics, as produced
// by a Rasterizer.
//
// Left is the horizontal offset from the pen position to the first column.
// Top is the distance from the baseline up to the first row (positive above
// the baseline). Row y of the ink starts at Coverage[y*Pitch]; a negative
// Pitch stores rows bottom-up.
type Bitmap struct {
	Left, Top   int
	Width, Rows int
	Pitch       int
	Coverage    []byte
}

// Validate checks that the coverage buffer holds Rows rows of Width bytes
// at the given Pitch.
func (b *Bitmap) Validate() error {
	if b.Width < 0 || b.Rows < 0 {
		return fmt.Errorf("%w: negative size %dx%d", ErrMalformedBitmap, b.Width, b.Rows)
	}
	if b.Width == 0 || b.Rows == 0 {
		return nil
	}
	pitch := b.Pitch
	if pitch < 0 {
		pitch = -pitch
	}
	if pitch < b.Width {
		return fmt.Errorf("%w: pitch %d narrower than width %d", ErrMalformedBitmap, b.Pitch, b.Width)
	}
	if need := (b.Rows-1)*pitch + b.Width; len(b.Coverage) < need {
		return fmt.Errorf("%w: %d coverage bytes, need %d", ErrMalformedBitmap, len(b.Coverage), need)
	}
	return nil
}

// at returns the coverage of ink pixel (x, y), y counted from the top row.
func (b *Bitmap) at(x, y int) byte {
	if b.Pitch < 0 {
		return b.Coverage[(b.Rows-1-y)*-b.Pitch+x]
	}
	return b.Coverage[y*b.Pitch+x]
}

// Place draws b into the cell of dst as white texels whose alpha is the
// coverage, so the renderer can tint them by multiplication.
//
// The ink is aligned to the bottom of the cell; glyphs reaching below the
// baseline are raised by their descent. Pixels that land outside cell (or
// outside dst) are dropped, never written, so neighbouring cells sharing dst
// stay intact. Place returns the number of dropped pixels. Texels of the
// cell not covered by ink are left untouched; callers clear the cell first.
func Place(dst *image.NRGBA, cell image.Rectangle, b *Bitmap) (dropped int) {
	clip := cell.Intersect(dst.Rect)
	below := min(0, b.Top-b.Rows)
	for y := 0; y < b.Rows; y++ {
		py := cell.Min.Y + y + cell.Dy() - b.Top + below
		for x := 0; x < b.Width; x++ {
			px := cell.Min.X + x + b.Left
			if !image.Pt(px, py).In(clip) {
				dropped++
				continue
			}
			i := dst.PixOffset(px, py)
			dst.Pix[i+0] = 0xff
			dst.Pix[i+1] = 0xff
			dst.Pix[i+2] = 0xff
			dst.Pix[i+3] = b.at(x, y)
		}
	}
	return dropped
}
