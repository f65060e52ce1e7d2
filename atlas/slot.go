package atlas

import (
	"fmt"
	"image"
)

// Slot is one fixed-size cell of the atlas. Slots never change once the
// atlas is built; only their assignment to content does.
type Slot struct {
	// Index is the slot's position in cell order (row-major, layer by layer).
	Index int
	// Layer is the texture array layer holding the cell.
	Layer int
	// Rect is the cell in texels within its layer.
	Rect image.Rectangle
	// Origin is the UV coordinate of Rect.Min; Extent is the UV size of the cell.
	Origin [2]float32
	Extent [2]float32
}

// UVBottomLeft is the texture coordinate a quad uses for its first corner.
func (s Slot) UVBottomLeft() [2]float32 { return s.Origin }

// UVTopRight is the texture coordinate of the opposite corner.
func (s Slot) UVTopRight() [2]float32 {
	return [2]float32{s.Origin[0] + s.Extent[0], s.Origin[1] + s.Extent[1]}
}

func (s Slot) String() string {
	return fmt.Sprintf("Slot#%d(layer %d, %v)", s.Index, s.Layer, s.Rect)
}

// newSlot computes slot i of geometry g.
func newSlot(g Geometry, i int) Slot {
	cols, rows := g.Columns(), g.Rows()
	x := i % cols
	y := (i / cols) % rows
	z := i / (cols * rows)

	org := image.Pt(x*g.CellWidth, y*g.CellHeight)
	return Slot{
		Index: i,
		Layer: z,
		Rect:  image.Rectangle{Min: org, Max: org.Add(image.Pt(g.CellWidth, g.CellHeight))},
		Origin: [2]float32{
			float32(org.X) / float32(g.Width),
			float32(org.Y) / float32(g.Height),
		},
		Extent: [2]float32{
			float32(g.CellWidth) / float32(g.Width),
			float32(g.CellHeight) / float32(g.Height),
		},
	}
}

// SlotPool owns every slot of an atlas and tracks which ones are free.
//
// Invariant: Free() + occupied == Total(), where occupied counts slots
// handed out by Take and not yet given back with Release.
// A SlotPool is not safe for concurrent use.
type SlotPool struct {
	free  []Slot // stack; the top is handed out next
	inUse []bool // by Slot.Index
}

// NewSlotPool builds n slots laid out on g, all free. Slot 0 is taken first.
// g must hold at least n cells.
func NewSlotPool(g Geometry, n int) *SlotPool {
	if n > g.Capacity() {
		panic(fmt.Sprintf("atlas: %d slots do not fit geometry %v", n, g))
	}
	p := &SlotPool{
		free:  make([]Slot, 0, n),
		inUse: make([]bool, n),
	}
	for i := n - 1; i >= 0; i-- {
		p.free = append(p.free, newSlot(g, i))
	}
	return p
}

// Take pops a free slot. ok is false when every slot is in use.
func (p *SlotPool) Take() (s Slot, ok bool) {
	if len(p.free) == 0 {
		return Slot{}, false
	}
	s = p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	p.inUse[s.Index] = true
	return s, true
}

// Release gives s back to the pool. Releasing a slot that is not in use
// is a programming error and panics.
func (p *SlotPool) Release(s Slot) {
	if s.Index < 0 || s.Index >= len(p.inUse) || !p.inUse[s.Index] {
		panic(fmt.Sprintf("atlas: release of %v which is not in use", s))
	}
	p.inUse[s.Index] = false
	p.free = append(p.free, s)
}

// Free is the number of slots available to Take.
func (p *SlotPool) Free() int { return len(p.free) }

// Total is the fixed number of slots in the pool.
func (p *SlotPool) Total() int { return len(p.inUse) }
