package buildmap

import (
	"math"

	"golang.org/x/exp/constraints"
)

type BoundBox struct {
	Top, Bottom, Left, Right Fixed
}

func newBBox() *BoundBox {
	return &BoundBox{
		Left:   math.MaxInt32,
		Right:  math.MinInt32,
		Bottom: math.MaxInt32,
		Top:    math.MinInt32,
	}
}

func (b *BoundBox) add(v Vertex) {
	b.Left = min(b.Left, v.X)
	b.Right = max(b.Right, v.X)
	b.Bottom = min(b.Bottom, v.Y)
	b.Top = max(b.Top, v.Y)
}

// Empty reports whether no point has been added.
func (b *BoundBox) Empty() bool {
	return b.Left > b.Right
}

// Width and Height of the box in raw units.
func (b *BoundBox) Width() Fixed  { return b.Right - b.Left }
func (b *BoundBox) Height() Fixed { return b.Top - b.Bottom }

// Bounds returns the extent of every wall vertex in the map.
func (m *Map) Bounds() BoundBox {
	bbox := newBBox()
	for i := range m.Walls {
		bbox.add(m.Walls[i].Point())
	}
	return *bbox
}

// SectorBounds returns the extent of one sector.
func (m *Map) SectorBounds(id int) BoundBox {
	bbox := newBBox()
	walls, _ := m.SectorWalls(id)
	for _, w := range walls {
		bbox.add(m.Walls[w].Point())
	}
	return *bbox
}

// Centroid returns the mean of a sector's vertices. For a convex sector it
// lies inside the polygon.
func (m *Map) Centroid(id int) Vertex {
	walls, ok := m.SectorWalls(id)
	if !ok || len(walls) == 0 {
		return Vertex{}
	}
	var sx, sy int64
	for _, w := range walls {
		sx += int64(m.Walls[w].X)
		sy += int64(m.Walls[w].Y)
	}
	n := int64(len(walls))
	return Vertex{Fixed(sx / n), Fixed(sy / n)}
}

// Contains reports whether (x, y) lies inside or on the boundary of the
// sector polygon. The test assumes a convex sector and works for either
// winding.
func (m *Map) Contains(id int, x, y Fixed) bool {
	walls, ok := m.SectorWalls(id)
	if !ok {
		return false
	}
	p := Vertex{x, y}
	var pos, neg bool
	for _, w := range walls {
		a, b := m.WallSegment(w)
		switch Orient(a, b, p) {
		case 1:
			pos = true
		case -1:
			neg = true
		}
		if pos && neg {
			return false
		}
	}
	return true
}

// SectorAt returns the first sector containing (x, y).
func (m *Map) SectorAt(x, y Fixed) (int, bool) {
	for i := range m.Sectors {
		if m.Contains(i, x, y) {
			return i, true
		}
	}
	return NoSector, false
}

// Orient returns the sign of the cross product (b-a) x (p-a): 1 if p is to
// the left of a->b, -1 if to the right, 0 if collinear.
func Orient(a, b, p Vertex) int {
	ux, uy := int64(b.X)-int64(a.X), int64(b.Y)-int64(a.Y)
	vx, vy := int64(p.X)-int64(a.X), int64(p.Y)-int64(a.Y)
	const limit = 1 << 30
	if abs(ux) < limit && abs(uy) < limit && abs(vx) < limit && abs(vy) < limit {
		return sign(ux*vy - uy*vx)
	}
	// Products could overflow int64
	return sign(float64(ux)*float64(vy) - float64(uy)*float64(vx))
}

func abs[T constraints.Signed | constraints.Float](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

func sign[T constraints.Signed | constraints.Float](v T) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// Winding returns 1 for a counter-clockwise sector, -1 for clockwise and 0
// for a degenerate one. The interior is on the left of each wall of a
// counter-clockwise sector.
func (m *Map) Winding(id int) int {
	walls, ok := m.SectorWalls(id)
	if !ok {
		return 0
	}
	var area float64
	for _, w := range walls {
		a, b := m.WallSegment(w)
		area += float64(a.X)*float64(b.Y) - float64(b.X)*float64(a.Y)
	}
	return sign(area)
}
