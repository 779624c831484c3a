package present

import (
	"fmt"
	"io"
	"math"
	"os"

	svg "github.com/ajstarks/svgo"

	"github.com/stuarthighley/buildmap"
	"github.com/stuarthighley/buildmap/player"
)

// Plan draws a top-down SVG of a map: solid walls, portals and the player.
type Plan struct {
	Size   int // longest side of the drawing, pixels
	Margin int
}

// DefaultPlan is a 1024 pixel drawing.
var DefaultPlan = Plan{Size: 1024, Margin: 16}

// planView maps raw map coordinates to SVG pixels, flipping y.
type planView struct {
	bbox  buildmap.BoundBox
	scale float64
	pad   int
}

func (v *planView) point(x, y buildmap.Fixed) (int, int) {
	px := (float64(x) - float64(v.bbox.Left)) * v.scale
	py := (float64(v.bbox.Top) - float64(y)) * v.scale
	return v.pad + int(math.Round(px)), v.pad + int(math.Round(py))
}

// Write draws m with the player state s to w.
func (p Plan) Write(w io.Writer, m *buildmap.Map, s player.State) error {
	bbox := m.Bounds()
	if bbox.Empty() {
		return fmt.Errorf("map has no walls")
	}
	w64 := float64(bbox.Right) - float64(bbox.Left)
	h64 := float64(bbox.Top) - float64(bbox.Bottom)
	v := &planView{bbox: bbox, scale: float64(p.Size) / max(w64, h64, 1), pad: p.Margin}
	width := int(math.Round(w64*v.scale)) + 2*p.Margin
	height := int(math.Round(h64*v.scale)) + 2*p.Margin

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Title(m.String())
	canvas.Rect(0, 0, width, height, "fill:white")

	for i := range m.Sectors {
		walls, ok := m.SectorWalls(i)
		if !ok {
			continue
		}
		stroke := "stroke-width:1"
		if i == s.Sector {
			stroke = "stroke-width:3"
		}
		canvas.Gid(fmt.Sprintf("sector%d", i))
		for _, wall := range walls {
			a, b := m.WallSegment(wall)
			x1, y1 := v.point(a.X, a.Y)
			x2, y2 := v.point(b.X, b.Y)
			color := "stroke:black"
			if m.Walls[wall].IsPortal() {
				color = "stroke:red;stroke-dasharray:4,2"
			}
			canvas.Line(x1, y1, x2, y2, color+";"+stroke)
		}
		canvas.Gend()
	}

	// Player and view direction
	px, py := v.point(s.X, s.Y)
	const look = 12
	dx := int(math.Round(math.Cos(s.Yaw) * look))
	dy := int(math.Round(-math.Sin(s.Yaw) * look))
	canvas.Circle(px, py, 3, "fill:darkcyan")
	canvas.Line(px, py, px+dx, py+dy, "stroke:darkcyan;stroke-width:2")
	canvas.Text(px+6, py+14, fmt.Sprintf("x=%.1f y=%.1f z=%.1f", s.X.Float(), s.Y.Float(), s.Z.Float()),
		"font-family:monospace;font-size:10px;fill:darkcyan")

	canvas.End()
	return nil
}

// WriteFile writes the plan to path.
func (p Plan) WriteFile(path string, m *buildmap.Map, s player.State) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := p.Write(f, m, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
