package render

import (
	"cmp"
	"image"
	"image/color"
	"slices"

	"github.com/stuarthighley/buildmap"
)

// Span is one screen column of a wall. Rows are unclamped screen rows;
// for a solid wall NextTop and NextBottom equal Top and Bottom.
type Span struct {
	X          int
	Depth      float64
	Top        float64 // sector ceiling
	Bottom     float64 // sector floor
	NextTop    float64 // adjoining sector ceiling
	NextBottom float64 // adjoining sector floor
}

// WallSpan computes column x of a wall of a parsed map.
func (p *Projector) WallSpan(m *buildmap.Map, wall, x int) (Span, bool) {
	sec := m.Sector(m.WallSector(wall))
	if sec == nil {
		return Span{}, false
	}
	view, status := p.viewWall(m, wall)
	if status != viewVisible || !view.Span.Contains(x) {
		return Span{}, false
	}
	var next *buildmap.Sector
	if m.Walls[wall].IsPortal() {
		next = m.Sector(m.Walls[wall].Adjoining)
	}
	return p.columnSpan(view, sec, next, x)
}

func (p *Projector) columnSpan(view wallView, sec, next *buildmap.Sector, x int) (Span, bool) {
	depth, ok := p.ColumnDepth(view.A, view.B, x)
	if !ok || !finite(depth) {
		return Span{}, false
	}
	s := Span{
		X:      x,
		Depth:  depth,
		Top:    p.Row(sec.CeilingZ.Float(), depth),
		Bottom: p.Row(sec.FloorZ.Float(), depth),
	}
	s.NextTop, s.NextBottom = s.Top, s.Bottom
	if next != nil {
		s.NextTop = p.Row(next.CeilingZ.Float(), depth)
		s.NextBottom = p.Row(next.FloorZ.Float(), depth)
	}
	return s, true
}

type drawWall struct {
	view wallView
	attr int
	next *buildmap.Sector
}

// Rasterizer paints visible windows into an RGBA frame.
type Rasterizer struct {
	Palette    *Palette
	Background color.RGBA

	cov   Coverage
	walls []drawWall
}

// NewRasterizer returns a rasterizer using the default palette.
func NewRasterizer() *Rasterizer {
	return &Rasterizer{
		Palette:    DefaultPalette(),
		Background: color.RGBA{A: 0xff},
	}
}

// Coverage returns the column coverage left by the last Draw.
func (r *Rasterizer) Coverage() *Coverage {
	return &r.cov
}

// Draw clears dst and paints the windows in order. Windows must be nearest
// first, as returned by Walker.Walk. Skipped geometry is reported as
// warnings.
func (r *Rasterizer) Draw(dst *image.RGBA, m *buildmap.Map, p *Projector, windows WindowList) []Warning {
	bounds := dst.Bounds()
	width, height := min(bounds.Dx(), p.Width), min(bounds.Dy(), p.Height)
	r.fill(dst, image.Rect(0, 0, bounds.Dx(), bounds.Dy()), r.Background)
	r.cov.Reset(width, height)

	var warnings []Warning
	warn := func(w Warning) {
		if !slices.Contains(warnings, w) {
			warnings = append(warnings, w)
		}
	}

	for _, win := range windows {
		if r.cov.Full() {
			break
		}
		sec := m.Sector(win.Sector)
		if sec == nil || sec.Height() <= 0 {
			warn(Warning{Kind: DegenerateGeometry, Sector: win.Sector, Wall: -1})
			continue
		}
		walls, ok := m.SectorWalls(win.Sector)
		if !ok {
			warn(Warning{Kind: DegenerateGeometry, Sector: win.Sector, Wall: -1})
			continue
		}
		winding := m.Winding(win.Sector)

		r.walls = r.walls[:0]
		for _, wall := range walls {
			wl := &m.Walls[wall]
			var next *buildmap.Sector
			if wl.IsPortal() {
				next = m.Sector(wl.Adjoining)
				if next != nil && (p.nearCamera(m, wall) || !p.facesCamera(m, wall, winding)) {
					continue
				}
			}
			view, status := p.viewWall(m, wall)
			switch status {
			case viewDegenerate:
				warn(Warning{Kind: DegenerateGeometry, Sector: win.Sector, Wall: wall})
				continue
			case viewHidden:
				continue
			}
			r.walls = append(r.walls, drawWall{view: view, attr: wl.Attr, next: next})
		}
		slices.SortStableFunc(r.walls, func(a, b drawWall) int {
			return cmp.Compare(a.view.Dist, b.view.Dist)
		})

		for _, dw := range r.walls {
			cols := dw.view.Span.Intersect(win.Span).Intersect(Interval{0, width})
			for x := cols.L; x < cols.R; x++ {
				if !r.cov.IsOpen(x) {
					continue
				}
				s, ok := p.columnSpan(dw.view, sec, dw.next, x)
				if !ok {
					continue
				}
				r.paintColumn(dst, s, sec, dw)
			}
		}
	}
	return warnings
}

// paintColumn draws ceiling, wall or steps, and floor within the column's
// open rows, then closes or narrows the column.
func (r *Rasterizer) paintColumn(dst *image.RGBA, s Span, sec *buildmap.Sector, dw drawWall) {
	x := s.X
	top, bottom := r.cov.Column(x)
	ceil := clamp(pixel(s.Top), top, bottom)
	floor := clamp(pixel(s.Bottom), ceil, bottom)

	r.vline(dst, x, top, ceil, r.Palette.Color(sec.CeilingAttr))
	r.vline(dst, x, floor, bottom, r.Palette.Color(sec.FloorAttr))

	wallColor := r.Palette.Color(dw.attr)
	if dw.next == nil {
		r.vline(dst, x, ceil, floor, wallColor)
		r.cov.Close(x)
		return
	}

	// Upper and lower steps around the opening
	openTop := clamp(pixel(max(s.Top, s.NextTop)), ceil, floor)
	openBottom := clamp(pixel(min(s.Bottom, s.NextBottom)), openTop, floor)
	r.vline(dst, x, ceil, openTop, wallColor)
	r.vline(dst, x, openBottom, floor, wallColor)
	r.cov.Narrow(x, openTop, openBottom)
}

func (r *Rasterizer) vline(dst *image.RGBA, x, y0, y1 int, c color.RGBA) {
	r.fill(dst, image.Rect(x, y0, x+1, y1), c)
}

// fill paints rect, given relative to dst's origin.
func (r *Rasterizer) fill(dst *image.RGBA, rect image.Rectangle, c color.RGBA) {
	b := dst.Bounds()
	rect = rect.Add(b.Min).Intersect(b)
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		off := dst.PixOffset(rect.Min.X, y)
		for x := rect.Min.X; x < rect.Max.X; x++ {
			dst.Pix[off+0] = c.R
			dst.Pix[off+1] = c.G
			dst.Pix[off+2] = c.B
			dst.Pix[off+3] = c.A
			off += 4
		}
	}
}
