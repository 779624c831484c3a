package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/stuarthighley/buildmap"
)

// OverheadFlags selects the layers drawn by Overhead.
type OverheadFlags uint8

const (
	OverheadPlayer OverheadFlags = 1 << iota
	OverheadAxis
	OverheadSectors
	// OverheadClip hides walls behind the camera.
	OverheadClip

	OverheadAll = OverheadPlayer | OverheadAxis | OverheadSectors | OverheadClip
)

// Overhead colors
var (
	solidColor  = color.RGBA{0x00, 0xff, 0x00, 0xff}
	portalColor = color.RGBA{0xff, 0x00, 0x00, 0xff}
	vertexColor = color.RGBA{0x00, 0x00, 0x00, 0xff}
	axisColor   = color.RGBA{0x11, 0x11, 0x11, 0xff}
	playerColor = color.RGBA{0x00, 0xff, 0xff, 0xff}
)

// Overhead draws a top-down view of the map centred on the camera and
// rotated so the view direction points up. Sectors are reached by a
// depth-first portal walk from the camera's sector, each drawn once.
type Overhead struct {
	Flags      OverheadFlags
	Extent     float64 // world units across the frame width
	MaxDepth   int
	Background color.RGBA

	depth   map[int]int
	limited bool

	solid, portal, axis, player pen
}

// NewOverhead returns an overhead view with every layer enabled.
func NewOverhead() *Overhead {
	return &Overhead{
		Flags:      OverheadAll,
		Extent:     1250,
		MaxDepth:   MaxDepth,
		Background: color.RGBA{0xff, 0xff, 0xff, 0xff},
		depth:      make(map[int]int),
		solid:      pen{color: solidColor},
		portal:     pen{color: portalColor},
		axis:       pen{color: axisColor},
		player:     pen{color: playerColor},
	}
}

// Visited returns the number of sectors drawn by the last Draw.
func (o *Overhead) Visited() int {
	return len(o.depth)
}

// Draw clears dst and draws the view from cam, standing in sector start.
func (o *Overhead) Draw(dst *image.RGBA, m *buildmap.Map, cam Camera, start int) []Warning {
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	draw.Draw(dst, b, image.NewUniform(o.Background), image.Point{}, draw.Src)
	clear(o.depth)
	o.limited = false
	if w == 0 || h == 0 {
		return nil
	}

	if o.Flags&OverheadAxis != 0 {
		o.drawAxis(dst)
	}

	var warnings []Warning
	if o.Flags&OverheadSectors != 0 {
		if m.Sector(start) == nil {
			warnings = append(warnings, Warning{Kind: DegenerateGeometry, Sector: start, Wall: -1})
		} else {
			v := &overheadView{
				p:    NewProjector(cam, w, h),
				zoom: float64(w) / max(o.Extent, Epsilon),
				clip: o.Flags&OverheadClip != 0,
			}
			o.solid.reset(w, h)
			o.portal.reset(w, h)
			var markers []image.Point
			o.depth[start] = 0
			o.drawSector(m, v, start, start, &markers, &warnings)
			o.solid.flush(dst)
			o.portal.flush(dst)
			for _, pt := range markers {
				drawVertex(dst, pt)
			}
		}
		if o.limited {
			logger.Printf("Overhead walk from sector %v stopped at depth %v", start, o.MaxDepth)
			warnings = append(warnings, Warning{Kind: RecursionLimitReached, Sector: start, Wall: -1})
		}
	}

	if o.Flags&OverheadPlayer != 0 {
		o.drawPlayer(dst, cam)
	}
	return warnings
}

type overheadView struct {
	p    *Projector
	zoom float64 // pixels per world unit
	clip bool
}

// screen maps a camera-space point to frame pixels.
func (v *overheadView) screen(c CamPoint) (float64, float64) {
	return float64(v.p.Width)/2 + c.Side*v.zoom, float64(v.p.Height)/2 - c.Depth*v.zoom
}

func (o *Overhead) drawSector(m *buildmap.Map, v *overheadView, sector, current int, markers *[]image.Point, warnings *[]Warning) {
	walls, ok := m.SectorWalls(sector)
	if !ok {
		*warnings = append(*warnings, Warning{Kind: DegenerateGeometry, Sector: sector, Wall: -1})
		return
	}
	for _, wall := range walls {
		wl := &m.Walls[wall]
		if wl.IsPortal() && m.Sector(wl.Adjoining) != nil {
			if _, seen := o.depth[wl.Adjoining]; !seen {
				if child := o.depth[sector] + 1; child <= o.MaxDepth {
					o.depth[wl.Adjoining] = child
					o.drawSector(m, v, wl.Adjoining, current, markers, warnings)
				} else {
					o.limited = true
				}
			}
		}

		va, vb := m.WallSegment(wall)
		a, b := v.p.ToCameraFixed(va), v.p.ToCameraFixed(vb)
		if v.clip {
			if a, b, ok = ClipNear(a, b); !ok {
				continue
			}
		}
		x0, y0 := v.screen(a)
		x1, y1 := v.screen(b)
		width := 1.0
		if sector == current {
			width = 3
		}
		p := &o.solid
		if wl.IsPortal() {
			p = &o.portal
		}
		if p.line(x0, y0, x1, y1, width) {
			*markers = append(*markers, image.Pt(int(x0), int(y0)))
		}
	}
}

func (o *Overhead) drawAxis(dst *image.RGBA) {
	w, h := dst.Bounds().Dx(), dst.Bounds().Dy()
	w2, h2 := w/2, h/2
	p := &o.axis
	p.reset(w, h)
	p.line(0, float64(h2)+0.5, float64(w), float64(h2)+0.5, 1)
	p.line(float64(w2)+0.5, 0, float64(w2)+0.5, float64(h), 1)
	p.flush(dst)

	face := basicfont.Face7x13
	right := font.MeasureString(face, "1, 0").Ceil()
	label(dst, axisColor, 0, h2+2, "-1, 0")
	label(dst, axisColor, w-right, h2+2, "1, 0")
	label(dst, axisColor, w2+2, h-face.Height, "0, -1")
	label(dst, axisColor, w2+2, 0, "0, 1")
}

func (o *Overhead) drawPlayer(dst *image.RGBA, cam Camera) {
	w, h := dst.Bounds().Dx(), dst.Bounds().Dy()
	cx, cy := float64(w/2)+0.5, float64(h/2)+0.5
	p := &o.player
	p.reset(w, h)
	p.disc(cx, cy, 2)
	p.line(cx, cy, cx, cy-12, 1)
	p.flush(dst)

	for i, s := range []string{
		fmt.Sprintf("x=%.1f", cam.X),
		fmt.Sprintf("y=%.1f", cam.Y),
		fmt.Sprintf("z=%.1f", cam.Z),
	} {
		label(dst, playerColor, w/2+6, h/2+6+i*basicfont.Face7x13.Height, s)
	}
}

// label draws s with its top-left corner at (x, y).
func label(dst *image.RGBA, c color.RGBA, x, y int, s string) {
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: face}
	d.Dot = fixed.P(dst.Bounds().Min.X+x, dst.Bounds().Min.Y+y+face.Ascent)
	d.DrawString(s)
}

// drawVertex outlines the 3x3 pixel square around pt.
func drawVertex(dst *image.RGBA, pt image.Point) {
	o := dst.Bounds().Min
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx != 0 || dy != 0 {
				dst.SetRGBA(o.X+pt.X+dx, o.Y+pt.Y+dy, vertexColor)
			}
		}
	}
}

// pen accumulates shapes of one color and paints them in one pass.
type pen struct {
	z     *vector.Rasterizer
	color color.RGBA
	w, h  int
	empty bool
}

func (p *pen) reset(w, h int) {
	if p.z == nil {
		p.z = vector.NewRasterizer(w, h)
	} else {
		p.z.Reset(w, h)
	}
	p.w, p.h = w, h
	p.empty = true
}

// line strokes x0,y0-x1,y1 with the given width. It reports whether any
// part of the line lies on the frame.
func (p *pen) line(x0, y0, x1, y1, width float64) bool {
	pad := width
	x0, y0, x1, y1, ok := clipLine(x0, y0, x1, y1, -pad, -pad, float64(p.w)+pad, float64(p.h)+pad)
	if !ok {
		return false
	}
	dx, dy := x1-x0, y1-y0
	l := math.Hypot(dx, dy)
	if l == 0 {
		return false
	}
	nx, ny := -dy/l*width/2, dx/l*width/2
	p.z.MoveTo(float32(x0+nx), float32(y0+ny))
	p.z.LineTo(float32(x1+nx), float32(y1+ny))
	p.z.LineTo(float32(x1-nx), float32(y1-ny))
	p.z.LineTo(float32(x0-nx), float32(y0-ny))
	p.z.ClosePath()
	p.empty = false
	return true
}

func (p *pen) disc(cx, cy, r float64) {
	const n = 16
	p.z.MoveTo(float32(cx+r), float32(cy))
	for i := 1; i < n; i++ {
		s, c := math.Sincos(2 * math.Pi * float64(i) / n)
		p.z.LineTo(float32(cx+r*c), float32(cy+r*s))
	}
	p.z.ClosePath()
	p.empty = false
}

func (p *pen) flush(dst *image.RGBA) {
	if p.empty {
		return
	}
	p.z.Draw(dst, dst.Bounds(), image.NewUniform(p.color), image.Point{})
}

// clipLine clips a segment to the rectangle [minX, maxX] x [minY, maxY]
// (Liang-Barsky).
func clipLine(x0, y0, x1, y1, minX, minY, maxX, maxY float64) (float64, float64, float64, float64, bool) {
	if !finite(x0) || !finite(y0) || !finite(x1) || !finite(y1) {
		return 0, 0, 0, 0, false
	}
	dx, dy := x1-x0, y1-y0
	t0, t1 := 0.0, 1.0
	for _, e := range [4][2]float64{
		{-dx, x0 - minX},
		{dx, maxX - x0},
		{-dy, y0 - minY},
		{dy, maxY - y0},
	} {
		pe, q := e[0], e[1]
		if pe == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / pe
		if pe < 0 {
			t0 = max(t0, r)
		} else {
			t1 = min(t1, r)
		}
		if t0 > t1 {
			return 0, 0, 0, 0, false
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}
