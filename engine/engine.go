// Package engine runs the frame loop: move the player, walk the portal
// graph from the player's sector, rasterize, and hand the frame to a
// Presenter.
package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"slices"
	"time"

	"github.com/stuarthighley/buildmap"
	"github.com/stuarthighley/buildmap/player"
	"github.com/stuarthighley/buildmap/render"
)

// Presenter displays completed frames. The frame is reused by the next
// tick, so Present must copy anything it keeps.
type Presenter interface {
	Present(frame *image.RGBA) error
}

// InputSource supplies the controls held for each tick. Poll reports false
// once the user has asked to quit.
type InputSource interface {
	Poll(ctx context.Context) (player.Input, bool)
}

// Session is the state carried between ticks: the map, which never
// changes, and the player, which only the loop writes.
type Session struct {
	Map   *buildmap.Map
	State player.State
}

// NewSession starts a session at the map's player start.
func NewSession(m *buildmap.Map) *Session {
	return &Session{Map: m, State: player.NewController(m, player.DefaultConfig()).Spawn()}
}

// View selects what Render draws.
type View int

const (
	ViewFirstPerson View = iota
	ViewOverhead
)

func (v View) String() string {
	if v == ViewOverhead {
		return "overhead"
	}
	return "first-person"
}

// MaxTickRate bounds Config.TickRate.
const MaxTickRate = 1000

// Config sizes the viewport and tunes movement.
type Config struct {
	Width, Height int
	FOV           float64 // horizontal, radians
	TickRate      int     // ticks per second
	Player        player.Config
	View          View
}

// DefaultConfig returns a 320x200 viewport at 60 ticks per second.
func DefaultConfig() Config {
	return Config{
		Width:    320,
		Height:   200,
		FOV:      math.Pi / 2,
		TickRate: 60,
		Player:   player.DefaultConfig(),
	}
}

// Loop owns the per-frame buffers. It is not safe for concurrent use.
type Loop struct {
	session   *Session
	cfg       Config
	presenter Presenter

	ctrl     *player.Controller
	walker   *render.Walker
	raster   *render.Rasterizer
	overhead *render.Overhead
	view     View
	held     player.Input
	frame    *image.RGBA
	warnings []render.Warning
	frames   int
}

// NewLoop returns a loop over session. presenter may be nil when frames
// are only collected from Tick.
func NewLoop(session *Session, cfg Config, presenter Presenter) *Loop {
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}
	cfg.TickRate = min(cfg.TickRate, MaxTickRate)
	return &Loop{
		session:   session,
		cfg:       cfg,
		presenter: presenter,
		ctrl:      player.NewController(session.Map, cfg.Player),
		walker:    render.NewWalker(),
		raster:    render.NewRasterizer(),
		overhead:  render.NewOverhead(),
		view:      cfg.View,
		frame:     image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height)),
	}
}

// Session returns the loop's session.
func (l *Loop) Session() *Session {
	return l.session
}

// Frames returns the number of frames rendered.
func (l *Loop) Frames() int {
	return l.frames
}

// View returns the current view.
func (l *Loop) View() View {
	return l.view
}

// SetView selects the view drawn by the next Render.
func (l *Loop) SetView(v View) {
	if v != l.view {
		logger.Printf("Switching to %v view", v)
	}
	l.view = v
}

// LastWarnings returns the distinct warnings of the last frame.
func (l *Loop) LastWarnings() []render.Warning {
	return l.warnings
}

// Tick advances the player by one tick of input, renders, and presents the
// frame. ToggleView switches view when it is first pressed.
func (l *Loop) Tick(in player.Input) (*image.RGBA, error) {
	if in.Has(player.ToggleView) && !l.held.Has(player.ToggleView) {
		v := ViewOverhead
		if l.view == ViewOverhead {
			v = ViewFirstPerson
		}
		l.SetView(v)
	}
	l.held = in
	dt := 1 / float64(l.cfg.TickRate)
	l.session.State = l.ctrl.Update(l.session.State, in, dt)
	frame := l.Render()
	if l.presenter != nil {
		if err := l.presenter.Present(frame); err != nil {
			return frame, fmt.Errorf("present frame %d: %w", l.frames, err)
		}
	}
	return frame, nil
}

// Render draws the current state without moving the player.
func (l *Loop) Render() *image.RGBA {
	s := &l.session.State
	cam := render.CameraAt(s.X, s.Y, s.Z, s.Yaw, s.Pitch, l.cfg.FOV)

	var warnings []render.Warning
	switch l.view {
	case ViewOverhead:
		warnings = l.overhead.Draw(l.frame, l.session.Map, cam, s.Sector)
	default:
		p := render.NewProjector(cam, l.cfg.Width, l.cfg.Height)
		var windows render.WindowList
		windows, warnings = l.walker.Walk(l.session.Map, p, s.Sector)
		warnings = append(warnings, l.raster.Draw(l.frame, l.session.Map, p, windows)...)
	}

	l.warnings = l.warnings[:0]
	for _, w := range warnings {
		if !slices.Contains(l.warnings, w) {
			l.warnings = append(l.warnings, w)
			logger.Printf("Frame %v: %v", l.frames, w)
		}
	}
	l.frames++
	return l.frame
}

// Run ticks at the configured rate until ctx is done, src reports quit,
// or presenting fails.
func (l *Loop) Run(ctx context.Context, src InputSource) error {
	ticker := time.NewTicker(time.Second / time.Duration(l.cfg.TickRate))
	defer ticker.Stop()
	logger.Printf("Running at %v ticks per second ...", l.cfg.TickRate)
	for {
		in, ok := src.Poll(ctx)
		if !ok {
			logger.Printf("Stopped after %v frames", l.frames)
			return nil
		}
		if _, err := l.Tick(in); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return stopped(ctx)
		}
		select {
		case <-ctx.Done():
			return stopped(ctx)
		case <-ticker.C:
		}
	}
}

// stopped treats cancellation as a normal exit.
func stopped(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return nil
	}
	return ctx.Err()
}
