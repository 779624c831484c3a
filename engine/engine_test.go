package engine

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/stuarthighley/buildmap"
	"github.com/stuarthighley/buildmap/internal/testmaps"
	"github.com/stuarthighley/buildmap/player"
	"github.com/stuarthighley/buildmap/render"
)

type fakePresenter struct {
	frames int
	err    error
}

func (p *fakePresenter) Present(frame *image.RGBA) error {
	p.frames++
	return p.err
}

type scriptedInput struct {
	inputs []player.Input
}

func (s *scriptedInput) Poll(ctx context.Context) (player.Input, bool) {
	if len(s.inputs) == 0 {
		return 0, false
	}
	in := s.inputs[0]
	s.inputs = s.inputs[1:]
	return in, true
}

func mustParse(t *testing.T, b *testmaps.Builder) *buildmap.Map {
	t.Helper()
	m, err := buildmap.Parse(b.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return m
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 64, 48
	cfg.TickRate = 1000
	return cfg
}

func TestNewSession(t *testing.T) {
	s := NewSession(mustParse(t, testmaps.Grid(2, 1, 100)))
	if s.State.Sector != 0 || s.State.X != 50 || s.State.Y != 50 {
		t.Errorf("Unexpected start state %v", s.State)
	}
}

func TestTickPresents(t *testing.T) {
	m := mustParse(t, testmaps.Grid(2, 1, 100))
	p := &fakePresenter{}
	l := NewLoop(NewSession(m), testConfig(), p)

	frame, err := l.Tick(player.TurnLeft)
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if frame.Bounds() != image.Rect(0, 0, 64, 48) {
		t.Errorf("Unexpected frame bounds %v", frame.Bounds())
	}
	if p.frames != 1 || l.Frames() != 1 {
		t.Errorf("Expected one presented frame, got %d/%d", p.frames, l.Frames())
	}
	if l.Session().State.Yaw == buildmap.AngleToRadians(m.Header.StartAngle) {
		t.Errorf("Expected the tick to turn the player")
	}
	if len(l.LastWarnings()) != 0 {
		t.Errorf("Unexpected warnings %v", l.LastWarnings())
	}
}

func TestTickPresentError(t *testing.T) {
	boom := errors.New("boom")
	l := NewLoop(NewSession(mustParse(t, testmaps.Room())), testConfig(), &fakePresenter{err: boom})
	if _, err := l.Tick(0); !errors.Is(err, boom) {
		t.Errorf("Expected wrapped presenter error, got %v", err)
	}
}

func TestWarningsPerFrame(t *testing.T) {
	s := NewSession(mustParse(t, testmaps.Room()))
	s.State.Sector = buildmap.NoSector
	l := NewLoop(s, testConfig(), nil)
	for range 3 {
		l.Render()
		w := l.LastWarnings()
		if len(w) != 1 || w[0].Kind != render.DegenerateGeometry {
			t.Fatalf("Expected one DegenerateGeometry warning, got %v", w)
		}
	}
}

func TestRunStopsOnQuit(t *testing.T) {
	m := mustParse(t, testmaps.Grid(2, 1, 100))
	l := NewLoop(NewSession(m), testConfig(), &fakePresenter{})
	src := &scriptedInput{inputs: []player.Input{player.Forward, player.Forward, 0}}
	if err := l.Run(context.Background(), src); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if l.Frames() != 3 {
		t.Errorf("Expected 3 frames, got %d", l.Frames())
	}
	if l.Session().State.Mode != player.Moving {
		t.Errorf("Expected the player to be moving, got %v", l.Session().State.Mode)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l := NewLoop(NewSession(mustParse(t, testmaps.Room())), testConfig(), nil)
	src := &scriptedInput{inputs: []player.Input{0, 0, 0, 0}}
	if err := l.Run(ctx, src); err != nil {
		t.Fatalf("Expected nil on cancel, got %v", err)
	}
	if l.Frames() != 1 {
		t.Errorf("Expected 1 frame before noticing cancel, got %d", l.Frames())
	}
}

func TestStepOntoPortalLine(t *testing.T) {
	m := mustParse(t, testmaps.Grid(2, 1, 100))
	cfg := testConfig()
	cfg.TickRate = 1
	cfg.Player.MaxSpeed = 1 // 16 raw units per second
	s := NewSession(m)
	s.State = player.State{X: 84, Y: 50, Z: 512, Sector: 0, Forward: 1}
	l := NewLoop(s, cfg, nil)

	frame, err := l.Tick(player.Forward)
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if st := l.Session().State; st.X != 100 || st.Y != 50 || st.Sector != 0 {
		t.Fatalf("Expected to stop on the portal at (100,50) in sector 0, got %v", st)
	}
	want := render.DefaultPalette().Color(m.Walls[5].Attr)
	if got := frame.RGBAAt(32, 24); got != want {
		t.Errorf("Expected the far wall of sector 1 at the centre, got %v want %v", got, want)
	}
}

func TestToggleView(t *testing.T) {
	m := mustParse(t, testmaps.Grid(2, 1, 100))
	l := NewLoop(NewSession(m), testConfig(), nil)

	inputs := []player.Input{player.ToggleView, player.ToggleView, 0, player.ToggleView}
	want := []View{ViewOverhead, ViewOverhead, ViewOverhead, ViewFirstPerson}
	for i, in := range inputs {
		if _, err := l.Tick(in); err != nil {
			t.Fatalf("Tick: %v", err)
		}
		if l.View() != want[i] {
			t.Errorf("Tick %d: expected %v view, got %v", i, want[i], l.View())
		}
	}

	l.SetView(ViewOverhead)
	frame := l.Render()
	if got := frame.RGBAAt(0, 0); got != render.NewOverhead().Background {
		t.Errorf("Expected the overhead background in the corner, got %v", got)
	}
	if len(l.LastWarnings()) != 0 {
		t.Errorf("Unexpected warnings %v", l.LastWarnings())
	}
}

func TestTickRateBounded(t *testing.T) {
	cfg := testConfig()
	cfg.TickRate = 2_000_000_000
	l := NewLoop(NewSession(mustParse(t, testmaps.Room())), cfg, nil)
	src := &scriptedInput{inputs: []player.Input{0}}
	if err := l.Run(context.Background(), src); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if l.Frames() != 1 {
		t.Errorf("Expected 1 frame, got %d", l.Frames())
	}
}
