package buildmap

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// GRPMagic opens every group file.
const GRPMagic = "KenSilverman"

// GRP is a Build group archive: a flat directory of named lumps stored back
// to back after the directory. Maps ship inside these as NAME.MAP lumps.
type GRP struct {
	file      io.ReaderAt
	closer    io.Closer
	lumpInfos []LumpInfo
	lumpNums  map[string]int
}

type binGRPHeader struct {
	Magic    [12]byte
	NumLumps uint32
}

type binGRPLumpInfo struct {
	Name String12
	Size uint32
}

// LumpInfo locates one lump inside a group file.
type LumpInfo struct {
	Name    string
	Filepos int64
	Size    int64
}

// String12 is a group file name: twelve bytes, NUL padded when shorter.
type String12 [12]byte

func (s String12) String() string {
	i := bytes.IndexByte(s[:], 0)
	if i == -1 {
		i = len(s)
	}
	return string(s[0:i])
}

var (
	grpHeaderSize = binary.Size(binGRPHeader{})
	grpInfoSize   = binary.Size(binGRPLumpInfo{})
)

// OpenGRP reads the directory of a group file. Lumps are read on demand, so
// the GRP must be closed when no longer needed.
func OpenGRP(filename string) (*GRP, error) {
	logger.Printf("Reading GRP %v ...", filename)
	file, err := os.Open(filename)
	if err != nil {
		return nil, &IOError{Path: filename, Err: err}
	}
	fi, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, &IOError{Path: filename, Err: err}
	}
	g, err := NewGRP(file, fi.Size())
	if err != nil {
		file.Close()
		return nil, err
	}
	g.closer = file
	return g, nil
}

// NewGRP reads the directory of a group archive held in r, which is size
// bytes long.
func NewGRP(r io.ReaderAt, size int64) (*GRP, error) {
	sr := io.NewSectionReader(r, 0, size)

	var header binGRPHeader
	if err := binary.Read(sr, binary.LittleEndian, &header); err != nil {
		return nil, formatErr(UnexpectedEnd, 0, "group header: %v", err)
	}
	if string(header.Magic[:]) != GRPMagic {
		return nil, formatErr(BadMagic, 0, "%q", header.Magic[:])
	}
	count := int64(header.NumLumps)
	dirEnd := int64(grpHeaderSize) + count*int64(grpInfoSize)
	if dirEnd > size {
		return nil, formatErr(UnexpectedEnd, grpHeaderSize, "%d lumps declared", count)
	}

	g := &GRP{file: r, lumpNums: map[string]int{}}
	if err := g.readInfoTables(sr, int(count), dirEnd, size); err != nil {
		return nil, err
	}
	logger.Printf("Read %v lumps", len(g.lumpInfos))
	return g, nil
}

func (g *GRP) readInfoTables(r io.Reader, count int, filepos, size int64) error {
	logger.Println("Reading lump directory ...")
	g.lumpInfos = make([]LumpInfo, count)
	for i := range count {
		var binInfo binGRPLumpInfo
		if err := binary.Read(r, binary.LittleEndian, &binInfo); err != nil {
			return formatErr(UnexpectedEnd, grpHeaderSize+i*grpInfoSize, "lump entry: %v", err)
		}
		info := LumpInfo{
			Name:    strings.ToUpper(binInfo.Name.String()),
			Filepos: filepos,
			Size:    int64(binInfo.Size),
		}
		if info.Filepos+info.Size > size {
			return formatErr(UnexpectedEnd, int(info.Filepos), "lump %v: %d bytes declared, %d available",
				info.Name, info.Size, size-info.Filepos)
		}
		filepos += info.Size
		g.lumpNums[info.Name] = i
		g.lumpInfos[i] = info
	}
	return nil
}

// Close releases the file behind a GRP opened with OpenGRP.
func (g *GRP) Close() error {
	if g.closer == nil {
		return nil
	}
	return g.closer.Close()
}

// Lumps returns the directory in archive order.
func (g *GRP) Lumps() []LumpInfo {
	return g.lumpInfos
}

// Maps returns the names of the MAP lumps, sorted.
func (g *GRP) Maps() []string {
	var names []string
	for _, info := range g.lumpInfos {
		if strings.HasSuffix(info.Name, ".MAP") {
			names = append(names, info.Name)
		}
	}
	sort.Strings(names)
	return names
}

// ReadLump returns the contents of the named lump. Names are matched without
// regard to case.
func (g *GRP) ReadLump(name string) ([]byte, error) {
	num, ok := g.lumpNums[strings.ToUpper(name)]
	if !ok {
		return nil, &IOError{Path: name, Err: os.ErrNotExist}
	}
	return g.readLump(&g.lumpInfos[num])
}

// Read entire lump
func (g *GRP) readLump(info *LumpInfo) ([]byte, error) {
	lump := make([]byte, info.Size)
	n, err := g.file.ReadAt(lump, info.Filepos)
	if n == len(lump) {
		return lump, nil
	}
	if err == nil || err == io.EOF {
		err = fmt.Errorf("truncated lump")
	}
	return nil, &IOError{Path: info.Name, Err: err}
}

// ReadMap parses the named MAP lump.
func (g *GRP) ReadMap(name string) (*Map, error) {
	logger.Printf("Reading MAP %v from GRP ...", name)
	buf, err := g.ReadLump(name)
	if err != nil {
		return nil, err
	}
	return Parse(buf)
}

// ReadPath reads a map from either a MAP file or a lump inside a group
// file, written as ARCHIVE.GRP:NAME.MAP.
func ReadPath(path string) (*Map, error) {
	archive, lump, ok := SplitGRPPath(path)
	if !ok {
		return ReadFile(path)
	}
	g, err := OpenGRP(archive)
	if err != nil {
		return nil, err
	}
	defer g.Close()
	return g.ReadMap(lump)
}

// SplitGRPPath splits ARCHIVE.GRP:NAME into its parts. It reports false for
// paths that do not name a lump inside a .grp file.
func SplitGRPPath(path string) (archive, lump string, ok bool) {
	i := strings.LastIndexByte(path, ':')
	if i < 0 || i == len(path)-1 {
		return "", "", false
	}
	archive, lump = path[:i], path[i+1:]
	if !strings.EqualFold(filepath.Ext(archive), ".grp") {
		return "", "", false
	}
	return archive, lump, true
}
