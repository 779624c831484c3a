package player

import (
	"math"
	"testing"

	"github.com/stuarthighley/buildmap"
	"github.com/stuarthighley/buildmap/internal/testmaps"
)

func mustParse(t *testing.T, b *testmaps.Builder) *buildmap.Map {
	t.Helper()
	m, err := buildmap.Parse(b.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return m
}

// slowConfig moves one world unit (16 raw) per second.
func slowConfig() Config {
	cfg := DefaultConfig()
	cfg.MaxSpeed = 1
	return cfg
}

func TestSpawn(t *testing.T) {
	m := mustParse(t, testmaps.Grid(2, 2, 100))
	s := NewController(m, DefaultConfig()).Spawn()
	if s.X != 50 || s.Y != 50 || s.Z != 512 || s.Sector != 0 {
		t.Errorf("Unexpected spawn %v", s)
	}
	if math.Abs(s.Yaw-math.Pi/2) > 1e-9 {
		t.Errorf("Expected yaw pi/2, got %v", s.Yaw)
	}
	if s.Mode != Stationary {
		t.Errorf("Expected stationary, got %v", s.Mode)
	}
}

func TestSpawnOutside(t *testing.T) {
	b := testmaps.Room()
	b.Start(500, 500, 0, 0)
	s := NewController(mustParse(t, b), DefaultConfig()).Spawn()
	if s.Sector != buildmap.NoSector {
		t.Errorf("Expected no sector, got %d", s.Sector)
	}
}

func TestSlideAlongSolidWall(t *testing.T) {
	m := mustParse(t, testmaps.Room())
	c := NewController(m, slowConfig())
	// Heading north-east into the top wall
	s := State{X: 50, Y: 90, Z: 512, Yaw: math.Pi / 4, Sector: 0, Forward: 1}
	got := c.Update(s, Forward, 1)
	if got.X <= s.X {
		t.Errorf("Expected x to keep advancing along the wall, got %d", got.X)
	}
	if got.X != 61 || got.Y != 90 {
		t.Errorf("Expected slide to (61,90), got (%d,%d)", got.X, got.Y)
	}
	if got.Sector != 0 || !m.Contains(0, got.X, got.Y) {
		t.Errorf("Expected to stay inside sector 0, got %v", got)
	}
}

func TestHeadOnWallStops(t *testing.T) {
	m := mustParse(t, testmaps.Room())
	c := NewController(m, slowConfig())
	s := State{X: 50, Y: 95, Z: 512, Yaw: math.Pi / 2, Sector: 0, Forward: 1}
	got := c.Update(s, Forward, 1)
	if got.X != 50 || got.Y != 95 {
		t.Errorf("Expected to stop at (50,95), got (%d,%d)", got.X, got.Y)
	}
}

func TestPortalCrossing(t *testing.T) {
	m := mustParse(t, testmaps.Grid(2, 1, 100))
	c := NewController(m, slowConfig())
	s := State{X: 90, Y: 50, Z: 512, Sector: 0, Forward: 1}
	got := c.Update(s, Forward, 1)
	if got.X != 106 || got.Y != 50 {
		t.Errorf("Expected (106,50), got (%d,%d)", got.X, got.Y)
	}
	if got.Sector != 1 {
		t.Errorf("Expected sector 1, got %d", got.Sector)
	}

	// And back again
	back := c.Update(State{X: 106, Y: 50, Z: 512, Yaw: math.Pi, Sector: 1, Forward: 1}, Forward, 1)
	if back.Sector != 0 || back.X != 90 {
		t.Errorf("Expected (90,50) in sector 0, got %v", back)
	}
}

func TestSlideAfterPortal(t *testing.T) {
	m := mustParse(t, testmaps.Grid(2, 1, 100))
	c := NewController(m, slowConfig())
	// Heading north-east through the doorway into the top wall of sector 1
	s := State{X: 95, Y: 90, Z: 512, Yaw: math.Pi / 4, Sector: 0, Forward: 1}
	got := c.Update(s, Forward, 1)
	if got.X != 106 || got.Y != 90 {
		t.Errorf("Expected slide to (106,90), got (%d,%d)", got.X, got.Y)
	}
	if got.Sector != 1 || !m.Contains(1, got.X, got.Y) {
		t.Errorf("Expected to end inside sector 1, got %v", got)
	}
}

func TestPortalBlocked(t *testing.T) {
	tall := mustParse(t, testmaps.Steps(2, 100, 512))
	low := testmaps.NewBuilder()
	low.AddSector(0, 1024, testmaps.Rect(0, 0, 100, 100)...)
	low.AddSector(0, 640, testmaps.Rect(100, 0, 200, 100)...)
	low.Link(0, 1, 1, 3)

	tests := []struct {
		name string
		m    *buildmap.Map
		want int
	}{
		{"step too high", tall, 0},
		{"opening too low", mustParse(t, low), 0},
		{"small step", mustParse(t, testmaps.Steps(2, 100, 128)), 1},
	}
	for _, tt := range tests {
		c := NewController(tt.m, slowConfig())
		got := c.Update(State{X: 90, Y: 50, Z: 512, Sector: 0, Forward: 1}, Forward, 1)
		if got.Sector != tt.want {
			t.Errorf("%s: expected sector %d, got %d", tt.name, tt.want, got.Sector)
		}
		if tt.want == 0 && (got.X != 90 || got.Y != 50) {
			t.Errorf("%s: expected to stay at (90,50), got (%d,%d)", tt.name, got.X, got.Y)
		}
	}
}

func TestAccelerationAndDecay(t *testing.T) {
	b := testmaps.NewBuilder()
	b.AddSector(0, 1024, testmaps.Rect(0, 0, 100000, 100000)...)
	c := NewController(mustParse(t, b), DefaultConfig())
	s := State{X: 50000, Y: 50000, Z: 512, Sector: 0}

	s = c.Update(s, Forward, 0.1)
	if math.Abs(s.Forward-36) > 1e-9 || s.Mode != Moving {
		t.Fatalf("Expected forward speed 36 and moving, got %v %v", s.Forward, s.Mode)
	}
	for range 20 {
		s = c.Update(s, Forward, 0.1)
	}
	if s.Forward != c.Config().MaxSpeed {
		t.Errorf("Expected speed clamped to %v, got %v", c.Config().MaxSpeed, s.Forward)
	}
	if s.X <= 50000 {
		t.Errorf("Expected to move along +x, got %d", s.X)
	}
	for range 20 {
		s = c.Update(s, 0, 0.1)
	}
	if s.Forward != 0 || s.Mode != Stationary {
		t.Errorf("Expected to come to rest, got %v %v", s.Forward, s.Mode)
	}
}

func TestTurnAndLook(t *testing.T) {
	c := NewController(mustParse(t, testmaps.Room()), DefaultConfig())
	s := State{X: 50, Y: 50, Z: 512, Sector: 0}
	s = c.Update(s, TurnLeft|LookUp, 0.1)
	if s.Yaw <= 0 || s.Yaw > math.Pi {
		t.Errorf("Expected turning left to increase yaw, got %v", s.Yaw)
	}
	if s.Pitch <= 0 {
		t.Errorf("Expected pitch to increase, got %v", s.Pitch)
	}
	s = State{X: 50, Y: 50, Z: 512, Sector: 0}
	s = c.Update(s, TurnRight, 0.1)
	if s.Yaw < math.Pi {
		t.Errorf("Expected turning right to wrap below 2pi, got %v", s.Yaw)
	}
	for range 100 {
		s = c.Update(s, LookDown, 0.1)
	}
	if s.Pitch != -c.Config().MaxPitch {
		t.Errorf("Expected pitch clamped to %v, got %v", -c.Config().MaxPitch, s.Pitch)
	}
}

func TestEyeHeightFollowsFloor(t *testing.T) {
	m := mustParse(t, testmaps.Steps(2, 100, 128))
	c := NewController(m, DefaultConfig())
	s := State{X: 150, Y: 50, Z: 512, Sector: 1}
	for range 30 {
		s = c.Update(s, 0, 1.0/60)
	}
	if s.Z != 128+512 {
		t.Errorf("Expected eye at 640, got %d", s.Z)
	}
	for range 30 {
		s = c.Update(s, Crouch, 1.0/60)
	}
	if s.Z != 128+256 {
		t.Errorf("Expected crouched eye at 384, got %d", s.Z)
	}
}

func TestFly(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Fly = true
	c := NewController(mustParse(t, testmaps.Room()), cfg)
	s := State{X: 50, Y: 50, Z: 512, Sector: 0}
	s = c.Update(s, Up, 0.5)
	if s.Z != 512+480 {
		t.Errorf("Expected z 992, got %d", s.Z)
	}
	s = c.Update(s, Up, 0.5)
	if s.Z != 1024 {
		t.Errorf("Expected z clamped to ceiling 1024, got %d", s.Z)
	}
}

func TestInputString(t *testing.T) {
	if got := (Forward | TurnLeft).String(); got != "Forward|TurnLeft" {
		t.Errorf("Unexpected %q", got)
	}
	if got := Input(0).String(); got != "none" {
		t.Errorf("Unexpected %q", got)
	}
}
