// Package buildmap reads the MAP level format used by Build-style 2.5-D
// engines: a header, a table of sectors and a table of walls whose "next"
// links form one closed polygon per sector. Walls that border another sector
// are portals, and the resulting graph drives rendering and movement.
//
// All coordinates are kept as Fixed scaled integers. A parsed Map is
// immutable.
package buildmap

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Map is a parsed MAP document. Sectors and walls are addressed by index;
// nothing in the package modifies a Map after Parse returns it.
type Map struct {
	Header  Header
	Sectors []Sector
	Walls   []Wall

	// owning sector for each wall, -1 for walls outside every sector range
	wallSector []int
}

type binHeader struct {
	Version    uint32
	NumSectors uint32
	NumWalls   uint32
	NumSprites uint32
	StartX     int32
	StartY     int32
	StartZ     int32
	StartAngle int16
}

// Header holds the counts and the player start.
type Header struct {
	Version    int
	NumSectors int
	NumWalls   int
	NumSprites int // Sprites are skipped, never decoded
	StartX     Fixed
	StartY     Fixed
	StartZ     Fixed
	StartAngle int16
}

type binSector struct {
	FirstWall   uint16
	WallCount   uint16
	FloorZ      int32
	CeilingZ    int32
	FloorAttr   uint16
	CeilingAttr uint16
}

// Sector is a closed, assumed convex, polygon with its own floor and ceiling.
type Sector struct {
	Index       int
	FirstWall   int
	WallCount   int
	FloorZ      Fixed
	CeilingZ    Fixed
	FloorAttr   int
	CeilingAttr int
}

// Height returns the distance between floor and ceiling.
func (s *Sector) Height() Fixed {
	return s.CeilingZ - s.FloorZ
}

// Record sizes on disk.
var (
	HeaderSize = binary.Size(binHeader{})
	SectorSize = binary.Size(binSector{})
	WallSize   = binary.Size(binWall{})
)

// SpriteRecordSize is the size of one sprite record. Sprites are skipped.
const SpriteRecordSize = 44

// Supported MAP versions
var supportedVersions = map[uint32]bool{7: true, 8: true, 9: true}

// ReadFile reads and parses a MAP file. Failures to read the file are
// returned as *IOError, parse failures as *FormatError.
func ReadFile(filename string) (*Map, error) {
	logger.Printf("Reading MAP %v ...", filename)
	buf, err := os.ReadFile(filename)
	if err != nil {
		return nil, &IOError{Path: filename, Err: err}
	}
	return Parse(buf)
}

// ReadMap reads all of r and parses it.
func ReadMap(r io.Reader) (*Map, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, &IOError{Path: "<reader>", Err: err}
	}
	return Parse(buf)
}

// Parse decodes a complete MAP buffer. Parsing is all-or-nothing: on any
// structural problem it returns a *FormatError and no Map.
func Parse(buf []byte) (*Map, error) {
	logger.Println("Start reading MAP")
	c := NewCursor(buf)

	header, err := readHeader(c)
	if err != nil {
		return nil, err
	}

	sectors, err := readSectors(c, header.NumSectors)
	if err != nil {
		return nil, err
	}

	walls, err := readWalls(c, header.NumWalls)
	if err != nil {
		return nil, err
	}

	// Skip sprites
	if err := skipRecords(c, header.NumSprites, SpriteRecordSize); err != nil {
		return nil, err
	}
	logger.Printf("Skipped %v sprites", header.NumSprites)

	if c.Remaining() != 0 {
		return nil, formatErr(TrailingBytes, c.Offset(), "%d bytes after last record", c.Remaining())
	}

	m := &Map{Header: *header, Sectors: sectors, Walls: walls}
	if err := m.validate(); err != nil {
		return nil, err
	}
	logger.Printf("Read MAP v%v: %v sectors, %v walls", header.Version, len(sectors), len(walls))
	return m, nil
}

func readHeader(c *Cursor) (*Header, error) {
	logger.Println("Reading header ...")
	var h binHeader
	var err error
	for _, u := range []*uint32{&h.Version, &h.NumSectors, &h.NumWalls, &h.NumSprites} {
		if *u, err = c.U32(); err != nil {
			return nil, err
		}
	}
	for _, i := range []*int32{&h.StartX, &h.StartY, &h.StartZ} {
		if *i, err = c.I32(); err != nil {
			return nil, err
		}
	}
	if h.StartAngle, err = c.I16(); err != nil {
		return nil, err
	}
	if !supportedVersions[h.Version] {
		return nil, formatErr(UnsupportedVersion, 0, "version %d", h.Version)
	}
	return &Header{
		Version:    int(h.Version),
		NumSectors: int(h.NumSectors),
		NumWalls:   int(h.NumWalls),
		NumSprites: int(h.NumSprites),
		StartX:     Fixed(h.StartX),
		StartY:     Fixed(h.StartY),
		StartZ:     Fixed(h.StartZ),
		StartAngle: h.StartAngle,
	}, nil
}

// checkRecords fails with UnexpectedEnd at the first incomplete record when
// fewer than count records of size bytes remain. It runs before allocating
// so a hostile count cannot force a huge allocation.
func checkRecords(c *Cursor, count, size int) error {
	if int64(count)*int64(size) <= int64(c.Remaining()) {
		return nil
	}
	whole := c.Remaining() / size
	return formatErr(UnexpectedEnd, c.Offset()+whole*size,
		"%d records of %d bytes declared, %d complete", count, size, whole)
}

func skipRecords(c *Cursor, count, size int) error {
	if err := checkRecords(c, count, size); err != nil {
		return err
	}
	return c.Skip(count * size)
}

func readSectors(c *Cursor, count int) ([]Sector, error) {
	logger.Println("Reading sectors ...")
	if err := checkRecords(c, count, SectorSize); err != nil {
		return nil, err
	}

	// Read records
	binSectors := make([]binSector, count)
	for i := range binSectors {
		s := &binSectors[i]
		var err error
		if s.FirstWall, err = c.U16(); err != nil {
			return nil, err
		}
		if s.WallCount, err = c.U16(); err != nil {
			return nil, err
		}
		if s.FloorZ, err = c.I32(); err != nil {
			return nil, err
		}
		if s.CeilingZ, err = c.I32(); err != nil {
			return nil, err
		}
		if s.FloorAttr, err = c.U16(); err != nil {
			return nil, err
		}
		if s.CeilingAttr, err = c.U16(); err != nil {
			return nil, err
		}
	}

	// Translate to canonical
	sectors := make([]Sector, count)
	for i, s := range binSectors {
		sectors[i] = Sector{
			Index:       i,
			FirstWall:   int(s.FirstWall),
			WallCount:   int(s.WallCount),
			FloorZ:      Fixed(s.FloorZ),
			CeilingZ:    Fixed(s.CeilingZ),
			FloorAttr:   int(s.FloorAttr),
			CeilingAttr: int(s.CeilingAttr),
		}
	}
	logger.Printf("Read %v sectors", len(sectors))
	return sectors, nil
}

func readWalls(c *Cursor, count int) ([]Wall, error) {
	logger.Println("Reading walls ...")
	if err := checkRecords(c, count, WallSize); err != nil {
		return nil, err
	}

	// Read records
	binWalls := make([]binWall, count)
	for i := range binWalls {
		w := &binWalls[i]
		var err error
		if w.X, err = c.I32(); err != nil {
			return nil, err
		}
		if w.Y, err = c.I32(); err != nil {
			return nil, err
		}
		if w.Next, err = c.U16(); err != nil {
			return nil, err
		}
		if w.Partner, err = c.I16(); err != nil {
			return nil, err
		}
		if w.Adjoining, err = c.I16(); err != nil {
			return nil, err
		}
		if w.Attr, err = c.U16(); err != nil {
			return nil, err
		}
	}

	// Translate to canonical
	walls := make([]Wall, count)
	for i, w := range binWalls {
		walls[i] = Wall{
			Index:     i,
			X:         Fixed(w.X),
			Y:         Fixed(w.Y),
			Next:      int(w.Next),
			Partner:   int(w.Partner),
			Adjoining: int(w.Adjoining),
			Attr:      int(w.Attr),
		}
	}
	logger.Printf("Read %v walls", len(walls))
	return walls, nil
}

// Start returns the player start position and yaw in radians.
func (m *Map) Start() (x, y, z Fixed, yaw float64) {
	h := &m.Header
	return h.StartX, h.StartY, h.StartZ, AngleToRadians(h.StartAngle)
}

// Sector returns the sector with the given id, or nil if out of range.
func (m *Map) Sector(id int) *Sector {
	if id < 0 || id >= len(m.Sectors) {
		return nil
	}
	return &m.Sectors[id]
}

// WallSector returns the sector whose wall range holds wall w, or -1.
func (m *Map) WallSector(w int) int {
	if w < 0 || w >= len(m.wallSector) {
		return -1
	}
	return m.wallSector[w]
}

// SectorWalls returns the sector's wall indices in loop order. It reports
// false for an unknown sector or a loop that leaves the wall table, which
// cannot happen for a Map returned by Parse.
func (m *Map) SectorWalls(id int) ([]int, bool) {
	s := m.Sector(id)
	if s == nil {
		return nil, false
	}
	walls := make([]int, 0, s.WallCount)
	w := s.FirstWall
	for range s.WallCount {
		if w < 0 || w >= len(m.Walls) {
			return walls, false
		}
		walls = append(walls, w)
		w = m.Walls[w].Next
	}
	return walls, true
}

func (m *Map) String() string {
	return fmt.Sprintf("MAP v%d (%d sectors, %d walls, %d sprites)",
		m.Header.Version, len(m.Sectors), len(m.Walls), m.Header.NumSprites)
}
