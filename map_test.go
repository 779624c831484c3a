package buildmap_test

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stuarthighley/buildmap"
	"github.com/stuarthighley/buildmap/internal/testmaps"
)

func mustParse(t *testing.T, b *testmaps.Builder) *buildmap.Map {
	t.Helper()
	m, err := buildmap.Parse(b.Bytes())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return m
}

func TestRecordSizes(t *testing.T) {
	if buildmap.HeaderSize != 30 || buildmap.SectorSize != 16 || buildmap.WallSize != 16 {
		t.Errorf("Unexpected record sizes: header %d sector %d wall %d",
			buildmap.HeaderSize, buildmap.SectorSize, buildmap.WallSize)
	}
}

func TestParseRoom(t *testing.T) {
	m := mustParse(t, testmaps.Room())

	if m.Header.Version != 7 {
		t.Errorf("Expected version 7, got %d", m.Header.Version)
	}
	if len(m.Sectors) != 1 || len(m.Walls) != 4 {
		t.Fatalf("Expected 1 sector and 4 walls, got %d and %d", len(m.Sectors), len(m.Walls))
	}
	s := m.Sectors[0]
	if s.FloorZ != 0 || s.CeilingZ != 1024 || s.Height() != 1024 {
		t.Errorf("Unexpected heights: floor %d ceiling %d", s.FloorZ, s.CeilingZ)
	}
	if s.FloorAttr != 5 || s.CeilingAttr != 6 {
		t.Errorf("Unexpected attributes: floor %d ceiling %d", s.FloorAttr, s.CeilingAttr)
	}
	w := m.Walls[1]
	if w.X != 100 || w.Y != 0 || w.Next != 2 || w.IsPortal() {
		t.Errorf("Unexpected wall 1: %+v", w)
	}
	x, y, z, yaw := m.Start()
	if x != 50 || y != 50 || z != 512 || math.Abs(yaw-math.Pi/2) > 1e-9 {
		t.Errorf("Unexpected start %d,%d,%d yaw %v", x, y, z, yaw)
	}
}

func TestParseCountsMatchHeader(t *testing.T) {
	for _, b := range []*testmaps.Builder{testmaps.Room(), testmaps.Grid(3, 2, 256), testmaps.Steps(4, 128, 32)} {
		b.Sprites = 3
		m := mustParse(t, b)
		if len(m.Sectors) != m.Header.NumSectors || len(m.Walls) != m.Header.NumWalls {
			t.Errorf("Counts %d/%d do not match header %d/%d",
				len(m.Sectors), len(m.Walls), m.Header.NumSectors, m.Header.NumWalls)
		}
		if m.Header.NumSprites != 3 {
			t.Errorf("Expected 3 sprites, got %d", m.Header.NumSprites)
		}
	}
}

func TestParseLoopClosure(t *testing.T) {
	m := mustParse(t, testmaps.Grid(3, 3, 256))
	for i, s := range m.Sectors {
		walls, ok := m.SectorWalls(i)
		if !ok {
			t.Fatalf("SectorWalls(%d) failed", i)
		}
		distinct := make(map[int]bool)
		for _, w := range walls {
			distinct[w] = true
			if m.WallSector(w) != i {
				t.Errorf("Wall %d owned by %d, want %d", w, m.WallSector(w), i)
			}
		}
		if len(distinct) != s.WallCount {
			t.Errorf("Sector %d: %d distinct walls, want %d", i, len(distinct), s.WallCount)
		}
		if last := walls[len(walls)-1]; m.Walls[last].Next != s.FirstWall {
			t.Errorf("Sector %d loop does not return to first wall", i)
		}
	}
}

func TestParsePortals(t *testing.T) {
	m := mustParse(t, testmaps.Grid(3, 2, 256))
	portals := 0
	for i, w := range m.Walls {
		if !w.IsPortal() {
			continue
		}
		portals++
		if w.Adjoining < 0 || w.Adjoining >= len(m.Sectors) {
			t.Errorf("Wall %d adjoining %d out of range", i, w.Adjoining)
		}
		p := m.Walls[w.Partner]
		if p.Partner != i || p.Adjoining != m.WallSector(i) {
			t.Errorf("Wall %d partner %d does not point back", i, w.Partner)
		}
		a, b := m.WallSegment(i)
		pa, pb := m.WallSegment(w.Partner)
		if a != pb || b != pa {
			t.Errorf("Portal %d segment %v-%v does not mirror partner %v-%v", i, a, b, pa, pb)
		}
	}
	// 3x2 grid: 2*2 horizontal links + 3 vertical links, two sides each
	if portals != 14 {
		t.Errorf("Expected 14 portal walls, got %d", portals)
	}
}

func TestParseTruncated(t *testing.T) {
	b := testmaps.Grid(2, 2, 128)
	b.Sprites = 2
	buf := b.Bytes()
	for n := range len(buf) {
		m, err := buildmap.Parse(buf[:n])
		if m != nil {
			t.Fatalf("Truncated at %d: got a map", n)
		}
		if !errors.Is(err, buildmap.ErrUnexpectedEnd) {
			t.Fatalf("Truncated at %d: expected ErrUnexpectedEnd, got %v", n, err)
		}
		var fe *buildmap.FormatError
		if !errors.As(err, &fe) || fe.Offset > n {
			t.Fatalf("Truncated at %d: bad offset in %v", n, err)
		}
	}
}

func TestParseHugeCounts(t *testing.T) {
	buf := testmaps.Room().Bytes()
	// Claim 2^32-1 walls
	copy(buf[8:12], []byte{0xff, 0xff, 0xff, 0xff})
	_, err := buildmap.Parse(buf)
	if !errors.Is(err, buildmap.ErrUnexpectedEnd) {
		t.Errorf("Expected ErrUnexpectedEnd, got %v", err)
	}
}

func TestParseFormatErrors(t *testing.T) {
	wallOffset := func(sectors, wall int) int {
		return buildmap.HeaderSize + sectors*buildmap.SectorSize + wall*buildmap.WallSize
	}
	tests := []struct {
		name   string
		build  func() *testmaps.Builder
		want   error
		offset int
	}{
		{
			name: "trailing bytes",
			build: func() *testmaps.Builder {
				return testmaps.Room()
			},
			want:   buildmap.ErrTrailingBytes,
			offset: wallOffset(1, 4),
		},
		{
			name: "unsupported version",
			build: func() *testmaps.Builder {
				b := testmaps.Room()
				b.Version = 3
				return b
			},
			want:   buildmap.ErrUnsupportedVersion,
			offset: 0,
		},
		{
			name: "loop closes early",
			build: func() *testmaps.Builder {
				b := testmaps.Room()
				b.SetWall(2, 0, -1, -1)
				return b
			},
			want:   buildmap.ErrInconsistentLoop,
			offset: wallOffset(1, 0),
		},
		{
			name: "loop leaves sector",
			build: func() *testmaps.Builder {
				b := testmaps.Grid(2, 1, 128)
				b.SetWall(0, 4, -1, -1)
				return b
			},
			want:   buildmap.ErrInconsistentLoop,
			offset: wallOffset(2, 0),
		},
		{
			name: "next out of range",
			build: func() *testmaps.Builder {
				b := testmaps.Room()
				b.SetWall(3, 99, -1, -1)
				return b
			},
			want:   buildmap.ErrIndexOutOfRange,
			offset: wallOffset(1, 3),
		},
		{
			name: "sector range out of bounds",
			build: func() *testmaps.Builder {
				b := testmaps.Room()
				b.SetSectorRange(0, 2, 4)
				return b
			},
			want:   buildmap.ErrIndexOutOfRange,
			offset: buildmap.HeaderSize,
		},
		{
			name: "too few walls",
			build: func() *testmaps.Builder {
				b := testmaps.NewBuilder()
				b.AddSector(0, 10, testmaps.Point{X: 0, Y: 0}, testmaps.Point{X: 10, Y: 0})
				return b
			},
			want:   buildmap.ErrInconsistentLoop,
			offset: buildmap.HeaderSize,
		},
		{
			name: "adjoining sector out of range",
			build: func() *testmaps.Builder {
				b := testmaps.Room()
				b.SetWall(1, 2, 3, 5)
				return b
			},
			want:   buildmap.ErrIndexOutOfRange,
			offset: wallOffset(1, 1),
		},
		{
			name: "partner out of range",
			build: func() *testmaps.Builder {
				b := testmaps.Room()
				b.SetWall(1, 2, 40, 0)
				return b
			},
			want:   buildmap.ErrIndexOutOfRange,
			offset: wallOffset(1, 1),
		},
		{
			name: "partner without adjoining sector",
			build: func() *testmaps.Builder {
				b := testmaps.Room()
				b.SetWall(1, 2, 3, -1)
				return b
			},
			want:   buildmap.ErrInconsistentPortal,
			offset: wallOffset(1, 1),
		},
		{
			name: "partner does not point back",
			build: func() *testmaps.Builder {
				b := testmaps.Grid(2, 1, 128)
				b.SetWall(1, 2, 4, 1)
				return b
			},
			want:   buildmap.ErrInconsistentPortal,
			offset: wallOffset(2, 1),
		},
		{
			name: "floor above ceiling",
			build: func() *testmaps.Builder {
				b := testmaps.NewBuilder()
				b.AddSector(100, 0, testmaps.Rect(0, 0, 10, 10)...)
				return b
			},
			want:   buildmap.ErrInvalidHeights,
			offset: buildmap.HeaderSize,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := tt.build().Bytes()
			if tt.want == buildmap.ErrTrailingBytes {
				buf = append(buf, 0)
			}
			m, err := buildmap.Parse(buf)
			if m != nil {
				t.Fatalf("Expected no map")
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, err)
			}
			var fe *buildmap.FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("Expected *FormatError, got %T", err)
			}
			if fe.Offset != tt.offset {
				t.Errorf("Expected offset %d, got %d (%v)", tt.offset, fe.Offset, err)
			}
		})
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "room.map")
	if err := os.WriteFile(path, testmaps.Room().Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := buildmap.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(m.Sectors) != 1 {
		t.Errorf("Expected 1 sector, got %d", len(m.Sectors))
	}

	_, err = buildmap.ReadFile(filepath.Join(dir, "missing.map"))
	if !errors.Is(err, buildmap.ErrIO) {
		t.Errorf("Expected ErrIO, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected wrapped os.ErrNotExist, got %v", err)
	}
	var ioErr *buildmap.IOError
	if !errors.As(err, &ioErr) || ioErr.Path == "" {
		t.Errorf("Expected *IOError with path, got %v", err)
	}
}

func TestReadMap(t *testing.T) {
	m, err := buildmap.ReadMap(bytes.NewReader(testmaps.Grid(2, 2, 64).Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Sectors) != 4 {
		t.Errorf("Expected 4 sectors, got %d", len(m.Sectors))
	}
	if !strings.Contains(m.String(), "4 sectors") {
		t.Errorf("Unexpected String(): %s", m.String())
	}
}

func TestPrintPortals(t *testing.T) {
	m := mustParse(t, testmaps.Grid(2, 2, 64))
	var out bytes.Buffer
	m.PrintPortals(&out, 0)
	s := out.String()
	for _, want := range []string{"- sector 0", "- sector 1", "- sector 2", "- sector 3", "(seen)"} {
		if !strings.Contains(s, want) {
			t.Errorf("Expected %q in output:\n%s", want, s)
		}
	}
}
