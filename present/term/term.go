// Package term shows frames in a terminal with tcell, two pixels per cell
// using the upper half block, and reads movement keys.
package term

import (
	"context"
	"image"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/stuarthighley/buildmap/player"
)

// Terminals report key presses but not releases, so a key counts as held
// for this long after its last press or auto-repeat.
const DefaultHold = 150 * time.Millisecond

var runeKeys = map[rune]player.Input{
	'w': player.Forward,
	's': player.Backward,
	'a': player.StrafeLeft,
	'd': player.StrafeRight,
	'r': player.Up,
	'f': player.Down,
	'c': player.Crouch,
	',': player.TurnLeft,
	'.': player.TurnRight,
	'm': player.ToggleView,
}

var specialKeys = map[tcell.Key]player.Input{
	tcell.KeyUp:    player.Forward,
	tcell.KeyDown:  player.Backward,
	tcell.KeyLeft:  player.TurnLeft,
	tcell.KeyRight: player.TurnRight,
	tcell.KeyPgUp:  player.LookUp,
	tcell.KeyPgDn:  player.LookDown,
}

// Terminal is both a Presenter and an InputSource.
type Terminal struct {
	screen tcell.Screen
	events chan tcell.Event
	done   chan struct{}
	pumped chan struct{}
	once   sync.Once
	Hold   time.Duration

	mu   sync.Mutex
	held map[player.Input]time.Time
	quit bool
	now  func() time.Time
}

// Open initialises the controlling terminal.
func Open() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return New(screen), nil
}

// New wraps an initialised screen and starts reading its events.
func New(screen tcell.Screen) *Terminal {
	return newTerminal(screen, 100)
}

func newTerminal(screen tcell.Screen, queue int) *Terminal {
	t := &Terminal{
		screen: screen,
		events: make(chan tcell.Event, queue),
		done:   make(chan struct{}),
		pumped: make(chan struct{}),
		Hold:   DefaultHold,
		held:   make(map[player.Input]time.Time),
		now:    time.Now,
	}
	screen.HideCursor()
	screen.Clear()
	go t.pump()
	return t
}

// pump forwards screen events until the screen is finalised or the
// Terminal closed.
func (t *Terminal) pump() {
	defer close(t.pumped)
	defer close(t.events)
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case t.events <- ev:
		case <-t.done:
			return
		}
	}
}

// Close restores the terminal and waits for event reading to stop, even
// when nobody is polling. It is safe to call more than once.
func (t *Terminal) Close() {
	t.once.Do(func() {
		close(t.done)
		t.screen.Fini()
	})
	<-t.pumped
}

// Present draws frame scaled to the screen. Each cell shows two pixels: the
// upper as foreground of '▀', the lower as background.
func (t *Terminal) Present(frame *image.RGBA) error {
	cols, rows := t.screen.Size()
	b := frame.Bounds()
	if cols <= 0 || rows <= 0 || b.Empty() {
		return nil
	}
	for cy := range rows {
		for cx := range cols {
			x := b.Min.X + cx*b.Dx()/cols
			top := b.Min.Y + (2*cy)*b.Dy()/(2*rows)
			bottom := b.Min.Y + (2*cy+1)*b.Dy()/(2*rows)
			style := tcell.StyleDefault.
				Foreground(cellColor(frame, x, top)).
				Background(cellColor(frame, x, bottom))
			t.screen.SetContent(cx, cy, '▀', nil, style)
		}
	}
	t.screen.Show()
	return nil
}

func cellColor(frame *image.RGBA, x, y int) tcell.Color {
	c := frame.RGBAAt(x, y)
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// Poll applies pending key events and returns the keys held now. It
// reports false after Escape or Ctrl-C, or once the screen is closed.
func (t *Terminal) Poll(ctx context.Context) (player.Input, bool) {
	for {
		select {
		case ev, ok := <-t.events:
			if !ok {
				return 0, false
			}
			t.handle(ev)
		case <-ctx.Done():
			return 0, false
		default:
			return t.Input()
		}
	}
}

// Input returns the keys pressed within the hold time.
func (t *Terminal) Input() (player.Input, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.quit {
		return 0, false
	}
	now := t.now()
	var in player.Input
	for k, at := range t.held {
		if now.Sub(at) <= t.Hold {
			in |= k
		} else {
			delete(t.held, k)
		}
	}
	return in, true
}

func (t *Terminal) handle(ev tcell.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			t.quit = true
			return
		}
		in, ok := specialKeys[ev.Key()]
		if ev.Key() == tcell.KeyRune {
			r := ev.Rune()
			if r >= 'A' && r <= 'Z' {
				r += 'a' - 'A'
			}
			in, ok = runeKeys[r]
		}
		if ok {
			t.held[in] = t.now()
		}
	case *tcell.EventResize:
		t.screen.Sync()
	}
}
