package player

import (
	"math"

	"github.com/stuarthighley/buildmap"
)

// maxHops bounds the portals crossed by a single step.
const maxHops = 4

// move resolves a step from the state's position to to. It returns the
// accepted position and its sector.
func (c *Controller) move(s State, to buildmap.Vertex) (buildmap.Vertex, int) {
	from := buildmap.Vertex{X: s.X, Y: s.Y}
	if c.m.Sector(s.Sector) == nil {
		// Outside the map: move freely until a sector is entered
		sector, _ := c.m.SectorAt(to.X, to.Y)
		return to, sector
	}
	sector, wall, ok := c.trace(s, from, to)
	if ok {
		return to, sector
	}
	if wall >= 0 {
		// Slide along the blocking wall, in whichever sector the trace
		// reached, and retrace from the start
		a, b := c.m.WallSegment(wall)
		if slid := slide(from, to, a, b); slid != from {
			if sector, _, ok := c.trace(s, from, slid); ok {
				return slid, sector
			}
		}
	}
	return from, s.Sector
}

// trace follows from->to through portals and returns the sector holding
// to. When the step is blocked it reports false, with the blocking wall
// (or -1) and the sector that wall bounds.
func (c *Controller) trace(s State, from, to buildmap.Vertex) (sector, wall int, ok bool) {
	cur := s.Sector
	for range maxHops {
		if c.m.Contains(cur, to.X, to.Y) {
			return cur, buildmap.NoWall, true
		}
		hit := c.crossed(cur, from, to)
		if hit < 0 {
			return cur, buildmap.NoWall, false
		}
		w := &c.m.Walls[hit]
		if !w.IsPortal() || !c.canEnter(s, cur, w.Adjoining) {
			return cur, hit, false
		}
		cur = w.Adjoining
	}
	return cur, buildmap.NoWall, false
}

// crossed returns the first wall of sector id that from->to leaves through,
// or -1.
func (c *Controller) crossed(id int, from, to buildmap.Vertex) int {
	walls, ok := c.m.SectorWalls(id)
	if !ok {
		return -1
	}
	winding := c.m.Winding(id)
	best, bestT := -1, math.Inf(1)
	for _, w := range walls {
		a, b := c.m.WallSegment(w)
		if a == b || buildmap.Orient(a, b, to)*winding >= 0 {
			continue
		}
		if t, ok := intersect(from, to, a, b); ok && t < bestT {
			best, bestT = w, t
		}
	}
	return best
}

// canEnter reports whether the player fits through the portal from sector
// cur into next.
func (c *Controller) canEnter(s State, cur, next int) bool {
	from, to := c.m.Sector(cur), c.m.Sector(next)
	if from == nil || to == nil {
		return false
	}
	if c.cfg.Fly {
		return s.Z >= to.FloorZ && s.Z <= to.CeilingZ
	}
	if to.FloorZ-from.FloorZ > buildmap.ToFixed(c.cfg.StepHeight) {
		return false
	}
	opening := min(from.CeilingZ, to.CeilingZ) - max(from.FloorZ, to.FloorZ)
	return opening >= buildmap.ToFixed(c.cfg.BodyHeight)
}

// intersect returns the parameter along p->q where it meets segment a-b.
func intersect(p, q, a, b buildmap.Vertex) (float64, bool) {
	rx, ry := float64(q.X)-float64(p.X), float64(q.Y)-float64(p.Y)
	sx, sy := float64(b.X)-float64(a.X), float64(b.Y)-float64(a.Y)
	den := rx*sy - ry*sx
	if den == 0 {
		return 0, false
	}
	ax, ay := float64(a.X)-float64(p.X), float64(a.Y)-float64(p.Y)
	t := (ax*sy - ay*sx) / den
	u := (ax*ry - ay*rx) / den
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return 0, false
	}
	return t, true
}

// slide projects the step from->to onto the direction of wall a-b.
func slide(from, to, a, b buildmap.Vertex) buildmap.Vertex {
	tx, ty := float64(b.X)-float64(a.X), float64(b.Y)-float64(a.Y)
	l := tx*tx + ty*ty
	if l == 0 {
		return from
	}
	dx, dy := float64(to.X)-float64(from.X), float64(to.Y)-float64(from.Y)
	k := (dx*tx + dy*ty) / l
	return buildmap.Vertex{
		X: from.X + buildmap.Fixed(math.Round(k*tx)),
		Y: from.Y + buildmap.Fixed(math.Round(k*ty)),
	}
}
