// Package render draws a buildmap.Map from a first-person camera using
// portal traversal. A Walker finds the sectors visible through each portal
// and the screen columns they may occupy; a Rasterizer then fills columns
// nearest sector first, narrowing each column's open rows as it goes.
//
// There is no depth buffer. Draw order plus column narrowing gives correct
// results only when every sector is convex.
package render

import (
	"math"

	"github.com/stuarthighley/buildmap"
)

const (
	// Epsilon is the smallest depth that is projected at all.
	Epsilon = 1e-6
	// Near is the depth wall segments are clipped to, in world units.
	Near = 1.0 / 32
)

// Camera is a viewpoint in world units.
type Camera struct {
	X, Y, Z float64
	Yaw     float64 // radians, 0 faces +x
	Pitch   float64 // radians, positive looks up
	FOV     float64 // horizontal field of view, radians
}

// CameraAt converts a fixed-point position to a Camera.
func CameraAt(x, y, z buildmap.Fixed, yaw, pitch, fov float64) Camera {
	return Camera{X: x.Float(), Y: y.Float(), Z: z.Float(), Yaw: yaw, Pitch: pitch, FOV: fov}
}

// CamPoint is a point in camera space: Side grows to the right of the view
// direction, Depth along it.
type CamPoint struct {
	Side, Depth float64
}

// Projector maps world coordinates to screen coordinates for one camera.
type Projector struct {
	Camera        Camera
	Width, Height int
	Focal         float64 // pixels per unit of side/depth
	Horizon       float64 // screen row of the horizon

	cos, sin float64
}

// NewProjector returns a projector for a viewport of width x height pixels.
func NewProjector(cam Camera, width, height int) *Projector {
	fov := cam.FOV
	if fov <= 0 || fov >= math.Pi {
		fov = math.Pi / 2
	}
	focal := float64(width) / 2 / math.Tan(fov/2)
	return &Projector{
		Camera:  cam,
		Width:   width,
		Height:  height,
		Focal:   focal,
		Horizon: float64(height)/2 + math.Tan(cam.Pitch)*focal,
		cos:     math.Cos(cam.Yaw),
		sin:     math.Sin(cam.Yaw),
	}
}

// ToCamera rotates a world point into camera space.
func (p *Projector) ToCamera(x, y float64) CamPoint {
	dx, dy := x-p.Camera.X, y-p.Camera.Y
	return CamPoint{
		Side:  dx*p.sin - dy*p.cos,
		Depth: dx*p.cos + dy*p.sin,
	}
}

// ToCameraFixed is ToCamera for map coordinates.
func (p *Projector) ToCameraFixed(v buildmap.Vertex) CamPoint {
	return p.ToCamera(v.X.Float(), v.Y.Float())
}

// Column returns the screen x of a camera-space point. Depth must be
// greater than Epsilon.
func (p *Projector) Column(c CamPoint) float64 {
	return float64(p.Width)/2 + c.Side/c.Depth*p.Focal
}

// Row returns the screen y of height z (world units) at the given depth.
func (p *Projector) Row(z, depth float64) float64 {
	return p.Horizon - (z-p.Camera.Z)/depth*p.Focal
}

// Project maps a world point to screen coordinates. Points at or behind the
// camera plane are not projected.
func (p *Projector) Project(x, y, z float64) (col, row float64, ok bool) {
	c := p.ToCamera(x, y)
	if c.Depth <= Epsilon {
		return 0, 0, false
	}
	return p.Column(c), p.Row(z, c.Depth), true
}

// ClipNear clips the segment a-b to depth >= Near. It reports false if the
// whole segment is nearer than Near.
func ClipNear(a, b CamPoint) (CamPoint, CamPoint, bool) {
	if a.Depth < Near && b.Depth < Near {
		return a, b, false
	}
	if a.Depth < Near || b.Depth < Near {
		t := (Near - a.Depth) / (b.Depth - a.Depth)
		clip := CamPoint{
			Side:  a.Side + t*(b.Side-a.Side),
			Depth: Near,
		}
		if a.Depth < Near {
			a = clip
		} else {
			b = clip
		}
	}
	return a, b, true
}

// ColumnDepth intersects the ray through the centre of screen column x with
// the camera-space segment a-b and returns the depth of the hit.
func (p *Projector) ColumnDepth(a, b CamPoint, x int) (float64, bool) {
	s := (float64(x) + 0.5 - float64(p.Width)/2) / p.Focal
	den := (b.Side - a.Side) - s*(b.Depth-a.Depth)
	if math.Abs(den) < 1e-12 {
		return 0, false
	}
	t := (s*a.Depth - a.Side) / den
	t = clamp(t, 0, 1)
	depth := a.Depth + t*(b.Depth-a.Depth)
	if depth <= Epsilon {
		return 0, false
	}
	return depth, true
}

// pixel returns the first pixel whose centre is at or after v.
func pixel(v float64) int {
	const limit = 1 << 24
	return int(math.Ceil(clamp(v, -limit, limit) - 0.5))
}
