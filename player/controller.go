package player

import (
	"math"

	"github.com/stuarthighley/buildmap"
)

// Controller advances a State through a map. It holds no per-player data,
// so one Controller can move any number of States.
type Controller struct {
	m   *buildmap.Map
	cfg Config
}

// NewController returns a controller for map m.
func NewController(m *buildmap.Map, cfg Config) *Controller {
	return &Controller{m: m, cfg: cfg}
}

// Config returns the controller's tuning.
func (c *Controller) Config() Config {
	return c.cfg
}

// Spawn returns the state at the map's player start. The start sector is
// the first sector containing the start point.
func (c *Controller) Spawn() State {
	x, y, z, yaw := c.m.Start()
	sector, _ := c.m.SectorAt(x, y)
	return State{X: x, Y: y, Z: z, Yaw: yaw, Sector: sector}
}

// Update advances s by dt seconds of input.
func (c *Controller) Update(s State, in Input, dt float64) State {
	if dt <= 0 {
		return s
	}
	cfg := &c.cfg

	s.Forward = approach(s.Forward, in.axis(Forward, Backward), cfg.Accel, cfg.Decel, cfg.MaxSpeed, dt)
	s.Strafe = approach(s.Strafe, in.axis(StrafeRight, StrafeLeft), cfg.Accel, cfg.Decel, cfg.MaxSpeed, dt)
	turnAccel := cfg.TurnSpeed * 4
	s.Turn = approach(s.Turn, in.axis(TurnLeft, TurnRight), turnAccel, turnAccel, cfg.TurnSpeed, dt)

	s.Yaw = math.Mod(s.Yaw+s.Turn*dt, 2*math.Pi)
	if s.Yaw < 0 {
		s.Yaw += 2 * math.Pi
	}
	s.Pitch += in.axis(LookUp, LookDown) * cfg.TurnSpeed * dt
	s.Pitch = max(-cfg.MaxPitch, min(s.Pitch, cfg.MaxPitch))

	// Forward is along the yaw, strafe to its right
	sin, cos := math.Sincos(s.Yaw)
	dx := (s.Forward*cos + s.Strafe*sin) * dt
	dy := (s.Forward*sin - s.Strafe*cos) * dt
	to := buildmap.Vertex{
		X: s.X + buildmap.ToFixed(dx),
		Y: s.Y + buildmap.ToFixed(dy),
	}
	if to.X != s.X || to.Y != s.Y {
		var pos buildmap.Vertex
		pos, s.Sector = c.move(s, to)
		s.X, s.Y = pos.X, pos.Y
	}
	if s.Forward != 0 || s.Strafe != 0 || s.Turn != 0 {
		s.Mode = Moving
	} else {
		s.Mode = Stationary
	}

	s.Z = c.height(s, in, dt)
	return s
}

// approach accelerates v towards dir*limit, or decays it towards zero when
// dir is 0.
func approach(v, dir, accel, decel, limit, dt float64) float64 {
	if dir != 0 {
		v += dir * accel * dt
		return max(-limit, min(v, limit))
	}
	step := decel * dt
	switch {
	case v > step:
		return v - step
	case v < -step:
		return v + step
	}
	return 0
}

// height returns the new eye height. Walking eases towards the floor plus
// eye height; flying moves freely between floor and ceiling.
func (c *Controller) height(s State, in Input, dt float64) buildmap.Fixed {
	sec := c.m.Sector(s.Sector)
	if sec == nil {
		return s.Z
	}
	if c.cfg.Fly {
		z := s.Z + buildmap.ToFixed(in.axis(Up, Down)*c.cfg.FlySpeed*dt)
		return max(sec.FloorZ, min(z, sec.CeilingZ))
	}
	eye := c.cfg.EyeHeight
	if in.Has(Crouch) {
		eye /= 2
	}
	target := sec.FloorZ + buildmap.ToFixed(eye)
	target = min(target, sec.CeilingZ)
	// Close half the gap every 1/60 s
	k := 1 - math.Pow(0.5, dt*60)
	z := s.Z + buildmap.Fixed(math.Round(float64(target-s.Z)*k))
	if z == s.Z && z != target {
		z = target
	}
	return z
}
