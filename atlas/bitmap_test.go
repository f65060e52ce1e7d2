package atlas

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"
)

func texel(img *image.NRGBA, x, y int) color.NRGBA { return img.NRGBAAt(x, y) }

func white(a uint8) color.NRGBA { return color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: a} }

func TestPlace_BaselineAligned(t *testing.T) {
	t.Parallel()

	dst := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	b := &Bitmap{Left: 1, Top: 5, Width: 2, Rows: 3, Pitch: 2, Coverage: []byte{10, 20, 30, 40, 50, 60}}

	if dropped := Place(dst, dst.Rect, b); dropped != 0 {
		t.Fatalf("nothing should be clipped, dropped %d", dropped)
	}
	// Rows land at cellHeight-top = 3.
	for _, tc := range []struct {
		x, y int
		a    uint8
	}{
		{1, 3, 10}, {2, 3, 20}, {1, 4, 30}, {2, 4, 40}, {1, 5, 50}, {2, 5, 60},
	} {
		if got := texel(dst, tc.x, tc.y); got != white(tc.a) {
			t.Errorf("texel (%d,%d) = %v, want %v", tc.x, tc.y, got, white(tc.a))
		}
	}
	if got := texel(dst, 0, 3); got != (color.NRGBA{}) {
		t.Errorf("texel left of the ink must stay transparent, got %v", got)
	}
}

// A glyph reaching below the baseline is raised by its descent so the
// bottom row sits on the last cell row.
func TestPlace_Descender(t *testing.T) {
	t.Parallel()

	dst := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	cov := bytes.Repeat([]byte{0x80}, 5)
	b := &Bitmap{Left: 0, Top: 2, Width: 1, Rows: 5, Pitch: 1, Coverage: cov}

	// Lowering by the descent instead would push every row below the cell.
	if dropped := Place(dst, dst.Rect, b); dropped != 0 {
		t.Fatalf("descender clipped: %d pixels dropped", dropped)
	}
	for y := 3; y < 8; y++ {
		if got := texel(dst, 0, y); got != white(0x80) {
			t.Fatalf("row %d = %v, want ink", y, got)
		}
	}
	if got := texel(dst, 0, 2); got.A != 0 {
		t.Fatalf("row above the ink must stay empty, got %v", got)
	}
}

func TestPlace_NegativePitchIsBottomUp(t *testing.T) {
	t.Parallel()

	dst := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	// Stored bottom-up: first stored row is the bottom one.
	b := &Bitmap{Left: 0, Top: 2, Width: 1, Rows: 2, Pitch: -1, Coverage: []byte{0x22, 0x11}}

	Place(dst, dst.Rect, b)
	if got := texel(dst, 0, 2).A; got != 0x11 {
		t.Fatalf("top ink row = %#x, want 0x11", got)
	}
	if got := texel(dst, 0, 3).A; got != 0x22 {
		t.Fatalf("bottom ink row = %#x, want 0x22", got)
	}
}

// Ink outside the cell must not touch the neighbouring cells of a shared
// buffer: a sentinel pattern around the cell survives placement.
func TestPlace_ClipsToCell(t *testing.T) {
	t.Parallel()

	const sentinel = 0xAB
	dst := image.NewNRGBA(image.Rect(0, 0, 24, 24)) // 3x3 cells of 8x8
	for i := range dst.Pix {
		dst.Pix[i] = sentinel
	}
	cell := image.Rect(8, 8, 16, 16)
	b := &Bitmap{Left: -3, Top: 12, Width: 14, Rows: 14, Pitch: 14, Coverage: bytes.Repeat([]byte{0xff}, 14*14)}

	if dropped := Place(dst, cell, b); dropped != 14*14-8*8 {
		t.Fatalf("dropped = %d, want %d", dropped, 14*14-8*8)
	}
	for y := 0; y < 24; y++ {
		for x := 0; x < 24; x++ {
			got := texel(dst, x, y)
			if image.Pt(x, y).In(cell) {
				if got != white(0xff) {
					t.Fatalf("cell texel (%d,%d) = %v, want ink", x, y, got)
				}
				continue
			}
			if got != (color.NRGBA{R: sentinel, G: sentinel, B: sentinel, A: sentinel}) {
				t.Fatalf("neighbour texel (%d,%d) overwritten: %v", x, y, got)
			}
		}
	}
}

func TestBitmap_Validate(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name string
		b    Bitmap
		ok   bool
	}{
		{"empty glyph", Bitmap{}, true},
		{"exact", Bitmap{Width: 2, Rows: 2, Pitch: 2, Coverage: make([]byte, 4)}, true},
		{"padded rows", Bitmap{Width: 2, Rows: 2, Pitch: 4, Coverage: make([]byte, 6)}, true},
		{"bottom-up", Bitmap{Width: 2, Rows: 2, Pitch: -2, Coverage: make([]byte, 4)}, true},
		{"short buffer", Bitmap{Width: 2, Rows: 2, Pitch: 2, Coverage: make([]byte, 3)}, false},
		{"narrow pitch", Bitmap{Width: 3, Rows: 1, Pitch: 2, Coverage: make([]byte, 3)}, false},
		{"negative size", Bitmap{Width: -1, Rows: 1}, false},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := tc.b.Validate()
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && !errors.Is(err, ErrMalformedBitmap) {
				t.Fatalf("want ErrMalformedBitmap, got %v", err)
			}
		})
	}
}
