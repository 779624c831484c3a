// Package ebiten shows frames in a desktop window and reads the keyboard.
// The window owns the event loop: each ebiten update runs one engine tick.
package ebiten

import (
	"errors"
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/stuarthighley/buildmap/engine"
	"github.com/stuarthighley/buildmap/player"
)

var keyBindings = []struct {
	key   ebiten.Key
	input player.Input
}{
	{ebiten.KeyW, player.Forward},
	{ebiten.KeyArrowUp, player.Forward},
	{ebiten.KeyS, player.Backward},
	{ebiten.KeyArrowDown, player.Backward},
	{ebiten.KeyA, player.StrafeLeft},
	{ebiten.KeyD, player.StrafeRight},
	{ebiten.KeyArrowLeft, player.TurnLeft},
	{ebiten.KeyArrowRight, player.TurnRight},
	{ebiten.KeyE, player.Up},
	{ebiten.KeyQ, player.Down},
	{ebiten.KeyC, player.Crouch},
	{ebiten.KeyPageUp, player.LookUp},
	{ebiten.KeyPageDown, player.LookDown},
	{ebiten.KeyM, player.ToggleView},
}

// Window presents frames on an ebiten image.
type Window struct {
	Title string
	Scale int
	HUD   bool // show position and sector

	loop  *engine.Loop
	image *ebiten.Image
	size  image.Point
}

// NewWindow returns a window for a width x height viewport.
func NewWindow(title string, width, height, scale int) *Window {
	return &Window{
		Title: title,
		Scale: max(scale, 1),
		HUD:   true,
		size:  image.Pt(width, height),
	}
}

// Present copies the frame into the window's image.
func (w *Window) Present(frame *image.RGBA) error {
	if frame.Bounds().Size() != w.size {
		return fmt.Errorf("frame %v does not match window %v", frame.Bounds().Size(), w.size)
	}
	if w.image == nil {
		w.image = ebiten.NewImage(w.size.X, w.size.Y)
	}
	w.image.WritePixels(frame.Pix)
	return nil
}

// Run opens the window and ticks loop until the window is closed or
// Escape is pressed. loop must present to w.
func (w *Window) Run(loop *engine.Loop, tickRate int) error {
	w.loop = loop
	ebiten.SetWindowSize(w.size.X*w.Scale, w.size.Y*w.Scale)
	ebiten.SetWindowTitle(w.Title)
	ebiten.SetTPS(tickRate)
	err := ebiten.RunGame(&gameAdapter{w: w})
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// gameAdapter adapts a Window to the ebiten.Game interface.
type gameAdapter struct {
	w *Window
}

// Update implements ebiten.Game.
func (a *gameAdapter) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		a.w.HUD = !a.w.HUD
	}
	_, err := a.w.loop.Tick(pressedInput(ebiten.IsKeyPressed))
	return err
}

// Draw implements ebiten.Game.
func (a *gameAdapter) Draw(screen *ebiten.Image) {
	if a.w.image != nil {
		screen.DrawImage(a.w.image, nil)
	}
	if a.w.HUD {
		ebitenutil.DebugPrint(screen, a.w.loop.Session().State.String())
	}
}

// Layout implements ebiten.Game.
func (a *gameAdapter) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.w.size.X, a.w.size.Y
}

// pressedInput collects the inputs whose keys are down.
func pressedInput(pressed func(ebiten.Key) bool) player.Input {
	var in player.Input
	for _, b := range keyBindings {
		if pressed(b.key) {
			in |= b.input
		}
	}
	return in
}
