package atlas

import (
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSlotPool_Layout(t *testing.T) {
	t.Parallel()

	// 2x2 cells per layer, 6 slots over 2 layers.
	g := Geometry{Width: 16, Height: 16, Layers: 2, CellWidth: 8, CellHeight: 8}
	p := NewSlotPool(g, 6)
	if p.Free() != 6 || p.Total() != 6 {
		t.Fatalf("fresh pool: Free=%d Total=%d", p.Free(), p.Total())
	}

	var got []Slot
	for {
		s, ok := p.Take()
		if !ok {
			break
		}
		got = append(got, s)
	}
	want := []Slot{
		{Index: 0, Layer: 0, Rect: image.Rect(0, 0, 8, 8), Origin: [2]float32{0, 0}, Extent: [2]float32{0.5, 0.5}},
		{Index: 1, Layer: 0, Rect: image.Rect(8, 0, 16, 8), Origin: [2]float32{0.5, 0}, Extent: [2]float32{0.5, 0.5}},
		{Index: 2, Layer: 0, Rect: image.Rect(0, 8, 8, 16), Origin: [2]float32{0, 0.5}, Extent: [2]float32{0.5, 0.5}},
		{Index: 3, Layer: 0, Rect: image.Rect(8, 8, 16, 16), Origin: [2]float32{0.5, 0.5}, Extent: [2]float32{0.5, 0.5}},
		{Index: 4, Layer: 1, Rect: image.Rect(0, 0, 8, 8), Origin: [2]float32{0, 0}, Extent: [2]float32{0.5, 0.5}},
		{Index: 5, Layer: 1, Rect: image.Rect(8, 0, 16, 8), Origin: [2]float32{0.5, 0}, Extent: [2]float32{0.5, 0.5}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("slots mismatch (-want +got):\n%s", diff)
	}
	if tr := got[3].UVTopRight(); tr != [2]float32{1, 1} {
		t.Fatalf("UVTopRight of slot 3 = %v", tr)
	}
	if p.Free() != 0 {
		t.Fatalf("drained pool must report Free=0, got %d", p.Free())
	}
}

func TestSlotPool_ReleaseReuses(t *testing.T) {
	t.Parallel()

	g := Geometry{Width: 16, Height: 16, Layers: 1, CellWidth: 8, CellHeight: 8}
	p := NewSlotPool(g, 4)

	a, _ := p.Take()
	p.Take()
	p.Release(a)
	if occupied := 1; p.Free()+occupied != p.Total() {
		t.Fatalf("accounting broken: Free=%d", p.Free())
	}
	c, _ := p.Take()
	if c.Index != a.Index {
		t.Fatalf("released slot must be reused first, got %v", c)
	}
}

func TestSlotPool_DoubleReleasePanics(t *testing.T) {
	t.Parallel()

	g := Geometry{Width: 8, Height: 8, Layers: 1, CellWidth: 8, CellHeight: 8}
	p := NewSlotPool(g, 1)
	s, _ := p.Take()
	p.Release(s)

	defer func() {
		if recover() == nil {
			t.Fatal("second Release must panic")
		}
	}()
	p.Release(s)
}
