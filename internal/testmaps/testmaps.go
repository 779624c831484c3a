// Package testmaps builds small MAP files in the on-disk format for tests.
package testmaps

import (
	"encoding/binary"
)

// Point is a raw (fixed-point) map coordinate pair.
type Point struct {
	X, Y int32
}

type sectorRec struct {
	FirstWall   uint16
	WallCount   uint16
	FloorZ      int32
	CeilingZ    int32
	FloorAttr   uint16
	CeilingAttr uint16
}

type wallRec struct {
	X, Y      int32
	Next      uint16
	Partner   int16
	Adjoining int16
	Attr      uint16
}

// Builder accumulates sectors and walls and encodes them as a MAP buffer.
type Builder struct {
	Version        uint32
	StartX, StartY int32
	StartZ         int32
	StartAngle     int16
	Sprites        int
	sectors        []sectorRec
	walls          []wallRec
}

func NewBuilder() *Builder {
	return &Builder{Version: 7}
}

// Start sets the player start.
func (b *Builder) Start(x, y, z int32, angle int16) *Builder {
	b.StartX, b.StartY, b.StartZ, b.StartAngle = x, y, z, angle
	return b
}

// AddSector appends a sector whose walls follow pts in order, all solid,
// and returns its index.
func (b *Builder) AddSector(floor, ceiling int32, pts ...Point) int {
	first := len(b.walls)
	for i, p := range pts {
		next := first + (i+1)%len(pts)
		b.walls = append(b.walls, wallRec{
			X: p.X, Y: p.Y,
			Next:      uint16(next),
			Partner:   -1,
			Adjoining: -1,
			Attr:      uint16(1 + i%4),
		})
	}
	b.sectors = append(b.sectors, sectorRec{
		FirstWall:   uint16(first),
		WallCount:   uint16(len(pts)),
		FloorZ:      floor,
		CeilingZ:    ceiling,
		FloorAttr:   5,
		CeilingAttr: 6,
	})
	return len(b.sectors) - 1
}

// Wall returns the global index of the n-th wall of a sector.
func (b *Builder) Wall(sector, n int) int {
	return int(b.sectors[sector].FirstWall) + n
}

// Link turns wall wa of sector a and wall wb of sector b (both loop-local
// indices) into the two sides of one portal.
func (b *Builder) Link(a, wa, sb, wb int) {
	ia, ib := b.Wall(a, wa), b.Wall(sb, wb)
	b.walls[ia].Partner, b.walls[ia].Adjoining = int16(ib), int16(sb)
	b.walls[ib].Partner, b.walls[ib].Adjoining = int16(ia), int16(a)
}

// SetWall lets tests corrupt a wall record.
func (b *Builder) SetWall(i int, next uint16, partner, adjoining int16) {
	b.walls[i].Next, b.walls[i].Partner, b.walls[i].Adjoining = next, partner, adjoining
}

// SetSectorRange lets tests corrupt a sector's wall range.
func (b *Builder) SetSectorRange(i int, first, count uint16) {
	b.sectors[i].FirstWall, b.sectors[i].WallCount = first, count
}

// NumWalls returns the number of walls added so far.
func (b *Builder) NumWalls() int { return len(b.walls) }

// Bytes encodes the map.
func (b *Builder) Bytes() []byte {
	le := binary.LittleEndian
	buf := make([]byte, 0, 30+16*(len(b.sectors)+len(b.walls))+44*b.Sprites)
	buf = le.AppendUint32(buf, b.Version)
	buf = le.AppendUint32(buf, uint32(len(b.sectors)))
	buf = le.AppendUint32(buf, uint32(len(b.walls)))
	buf = le.AppendUint32(buf, uint32(b.Sprites))
	buf = le.AppendUint32(buf, uint32(b.StartX))
	buf = le.AppendUint32(buf, uint32(b.StartY))
	buf = le.AppendUint32(buf, uint32(b.StartZ))
	buf = le.AppendUint16(buf, uint16(b.StartAngle))
	for _, s := range b.sectors {
		buf = le.AppendUint16(buf, s.FirstWall)
		buf = le.AppendUint16(buf, s.WallCount)
		buf = le.AppendUint32(buf, uint32(s.FloorZ))
		buf = le.AppendUint32(buf, uint32(s.CeilingZ))
		buf = le.AppendUint16(buf, s.FloorAttr)
		buf = le.AppendUint16(buf, s.CeilingAttr)
	}
	for _, w := range b.walls {
		buf = le.AppendUint32(buf, uint32(w.X))
		buf = le.AppendUint32(buf, uint32(w.Y))
		buf = le.AppendUint16(buf, w.Next)
		buf = le.AppendUint16(buf, uint16(w.Partner))
		buf = le.AppendUint16(buf, uint16(w.Adjoining))
		buf = le.AppendUint16(buf, w.Attr)
	}
	for i := range b.Sprites * 44 {
		buf = append(buf, byte(i))
	}
	return buf
}

// Rect returns the counter-clockwise corners of an axis-aligned rectangle,
// starting at (x0, y0): bottom, right, top, left walls.
func Rect(x0, y0, x1, y1 int32) []Point {
	return []Point{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
}

// Room is a single 100x100 sector with floor 0 and ceiling 1024.
func Room() *Builder {
	b := NewBuilder().Start(50, 50, 512, 512)
	b.AddSector(0, 1024, Rect(0, 0, 100, 100)...)
	return b
}

// Grid is a cols x rows grid of size x size rooms, each linked to its
// neighbours. Sector index is row*cols + col. The start is in sector 0.
func Grid(cols, rows int, size int32) *Builder {
	b := NewBuilder().Start(size/2, size/2, 512, 512)
	for r := range rows {
		for c := range cols {
			x0, y0 := int32(c)*size, int32(r)*size
			b.AddSector(0, 1024, Rect(x0, y0, x0+size, y0+size)...)
		}
	}
	for r := range rows {
		for c := range cols {
			s := r*cols + c
			if c+1 < cols {
				b.Link(s, 1, s+1, 3) // right <-> left
			}
			if r+1 < rows {
				b.Link(s, 2, s+cols, 0) // top <-> bottom
			}
		}
	}
	return b
}

// Steps is a row of rooms whose floors rise by rise per room.
func Steps(n int, size, rise int32) *Builder {
	b := NewBuilder().Start(size/2, size/2, 512, 512)
	for i := range n {
		x0 := int32(i) * size
		floor := int32(i) * rise
		b.AddSector(floor, floor+1024, Rect(x0, 0, x0+size, size)...)
	}
	for i := range n - 1 {
		b.Link(i, 1, i+1, 3)
	}
	return b
}

// Lump is one named entry of a group file.
type Lump struct {
	Name string
	Data []byte
}

// GRP encodes lumps as a group file.
func GRP(lumps ...Lump) []byte {
	le := binary.LittleEndian
	buf := []byte("KenSilverman")
	buf = le.AppendUint32(buf, uint32(len(lumps)))
	for _, l := range lumps {
		var name [12]byte
		copy(name[:], l.Name)
		buf = append(buf, name[:]...)
		buf = le.AppendUint32(buf, uint32(len(l.Data)))
	}
	for _, l := range lumps {
		buf = append(buf, l.Data...)
	}
	return buf
}
