package atlas

import (
	"bytes"
	"errors"
	"image"
	"testing"
)

func TestMemoryTexture_Upload(t *testing.T) {
	t.Parallel()

	tex := NewMemoryTexture()
	if err := tex.Allocate(Geometry{Width: 16, Height: 16, Layers: 2, CellWidth: 8, CellHeight: 8}); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if tex.Layers() != 2 {
		t.Fatalf("Layers = %d, want 2", tex.Layers())
	}

	pix := bytes.Repeat([]byte{1, 2, 3, 4}, 8*8)
	rect := image.Rect(8, 0, 16, 8)
	if err := tex.Upload(1, rect, pix); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if got := tex.Layer(1).NRGBAAt(15, 7); got.R != 1 || got.A != 4 {
		t.Fatalf("uploaded texel = %v", got)
	}
	if got := tex.Layer(1).NRGBAAt(7, 7); got.A != 0 {
		t.Fatalf("texel outside rect changed: %v", got)
	}
	if got := tex.Layer(0).NRGBAAt(15, 7); got.A != 0 {
		t.Fatalf("other layer changed: %v", got)
	}
}

func TestMemoryTexture_Rejects(t *testing.T) {
	t.Parallel()

	tex := NewMemoryTexture()
	if err := tex.Allocate(Geometry{Width: 12, Height: 16, Layers: 1}); err == nil {
		t.Fatal("non power-of-two width must be rejected")
	}
	if err := tex.Allocate(Geometry{Width: 16, Height: 16, Layers: 1}); err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	pix := make([]byte, 8*8*4)
	if err := tex.Upload(1, image.Rect(0, 0, 8, 8), pix); !errors.Is(err, ErrTextureBounds) {
		t.Fatalf("missing layer: want ErrTextureBounds, got %v", err)
	}
	if err := tex.Upload(0, image.Rect(12, 12, 20, 20), pix); !errors.Is(err, ErrTextureBounds) {
		t.Fatalf("rect out of layer: want ErrTextureBounds, got %v", err)
	}
	if err := tex.Upload(0, image.Rect(0, 0, 8, 8), pix[:10]); err == nil {
		t.Fatal("short pixel buffer must be rejected")
	}
}
