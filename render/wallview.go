package render

import (
	"math"

	"github.com/stuarthighley/buildmap"
)

// wallView is a wall in camera space, clipped to the near plane.
type wallView struct {
	Wall int
	A, B CamPoint
	Span Interval // screen columns the wall covers
	Dist float64  // squared distance of the nearest point to the camera
}

type viewStatus int

const (
	viewVisible viewStatus = iota
	viewHidden
	viewDegenerate
)

// viewWall projects one wall. Walls behind the camera, seen edge-on or
// entirely off screen are hidden; zero-length walls are degenerate.
func (p *Projector) viewWall(m *buildmap.Map, wall int) (wallView, viewStatus) {
	if wall < 0 || wall >= len(m.Walls) {
		return wallView{}, viewDegenerate
	}
	va, vb := m.WallSegment(wall)
	if va == vb {
		return wallView{}, viewDegenerate
	}
	a, b, ok := ClipNear(p.ToCameraFixed(va), p.ToCameraFixed(vb))
	if !ok {
		return wallView{}, viewHidden
	}
	ca, cb := p.Column(a), p.Column(b)
	span := Interval{pixel(min(ca, cb)), pixel(max(ca, cb))}
	span = span.Intersect(Interval{0, p.Width})
	if span.Empty() {
		return wallView{}, viewHidden
	}
	return wallView{Wall: wall, A: a, B: b, Span: span, Dist: segmentDist(a, b)}, viewVisible
}

// facesCamera reports whether the camera is on the interior side of the
// wall, given the winding of its sector.
func (p *Projector) facesCamera(m *buildmap.Map, wall, winding int) bool {
	if winding == 0 {
		return true
	}
	va, vb := m.WallSegment(wall)
	ax, ay := va.X.Float(), va.Y.Float()
	bx, by := vb.X.Float(), vb.Y.Float()
	cross := (bx-ax)*(p.Camera.Y-ay) - (by-ay)*(p.Camera.X-ax)
	return cross*float64(winding) > 0
}

// nearCamera reports whether wall passes within Near of the camera. Such a
// wall cannot be projected; the camera stands in its opening.
func (p *Projector) nearCamera(m *buildmap.Map, wall int) bool {
	va, vb := m.WallSegment(wall)
	return segmentDist(p.ToCameraFixed(va), p.ToCameraFixed(vb)) < Near*Near
}

// segmentDist returns the squared distance from the origin to segment a-b.
func segmentDist(a, b CamPoint) float64 {
	dx, dy := b.Side-a.Side, b.Depth-a.Depth
	l := dx*dx + dy*dy
	t := 0.0
	if l > 0 {
		t = clamp(-(a.Side*dx+a.Depth*dy)/l, 0, 1)
	}
	x, y := a.Side+t*dx, a.Depth+t*dy
	return x*x + y*y
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
