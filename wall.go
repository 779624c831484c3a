package buildmap

type binWall struct {
	X, Y      int32
	Next      uint16 // Next wall in the sector loop, always to the right
	Partner   int16  // Wall on the other side, -1 if solid
	Adjoining int16  // Sector on the other side, -1 if none
	Attr      uint16
}

// NoSector and NoWall are the on-disk sentinels for "nothing on the other side".
const (
	NoSector = -1
	NoWall   = -1
)

// Wall is one edge of a sector polygon, running from its own point to the
// point of its Next wall.
type Wall struct {
	Index     int
	X, Y      Fixed
	Next      int
	Partner   int
	Adjoining int
	Attr      int
}

// IsPortal reports whether another sector can be seen and entered through w.
func (w *Wall) IsPortal() bool {
	return w.Adjoining != NoSector
}

// Vertex is a 2-D map point in raw units.
type Vertex struct {
	X, Y Fixed
}

// Point returns the wall's own vertex.
func (w *Wall) Point() Vertex {
	return Vertex{w.X, w.Y}
}

// WallSegment returns the start and end of wall id. The end is the start of
// the next wall in the loop. A dangling Next yields a zero-length segment.
func (m *Map) WallSegment(id int) (a, b Vertex) {
	w := &m.Walls[id]
	if w.Next < 0 || w.Next >= len(m.Walls) {
		return w.Point(), w.Point()
	}
	return w.Point(), m.Walls[w.Next].Point()
}
