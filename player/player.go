// Package player moves a viewpoint through a buildmap.Map: it integrates
// keyboard-style input into velocities, keeps the position inside the
// current sector, and changes sector when a portal is crossed.
package player

import (
	"fmt"
	"strings"

	"github.com/stuarthighley/buildmap"
)

// Input is the set of controls held during a tick.
type Input uint16

const (
	Forward Input = 1 << iota
	Backward
	StrafeRight
	StrafeLeft
	Up // fly mode only
	Down
	TurnRight
	TurnLeft
	Crouch
	LookUp
	LookDown
	ToggleView // switch between first-person and overhead views
)

var inputNames = []string{
	"Forward", "Backward", "StrafeRight", "StrafeLeft", "Up", "Down",
	"TurnRight", "TurnLeft", "Crouch", "LookUp", "LookDown", "ToggleView",
}

// Has reports whether every flag in f is set.
func (in Input) Has(f Input) bool {
	return in&f == f
}

func (in Input) String() string {
	if in == 0 {
		return "none"
	}
	var names []string
	for i, name := range inputNames {
		if in&(1<<i) != 0 {
			names = append(names, name)
		}
	}
	return strings.Join(names, "|")
}

// axis returns +1, -1 or 0 for a pair of opposing controls.
func (in Input) axis(pos, neg Input) float64 {
	switch {
	case in.Has(pos) && !in.Has(neg):
		return 1
	case in.Has(neg) && !in.Has(pos):
		return -1
	}
	return 0
}

// Mode is the controller state.
type Mode int

const (
	Stationary Mode = iota
	Moving
)

func (m Mode) String() string {
	if m == Moving {
		return "moving"
	}
	return "stationary"
}

// State is the player's position, view and velocities. Sector is the
// sector containing X, Y, or buildmap.NoSector when outside every sector.
type State struct {
	X, Y, Z buildmap.Fixed
	Yaw     float64 // radians, counter-clockwise from +x
	Pitch   float64 // radians, positive looks up
	Sector  int
	Mode    Mode

	// Velocities in world units (or radians) per second
	Forward, Strafe, Turn float64
}

func (s State) String() string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f) yaw %.2f sector %d %v",
		s.X.Float(), s.Y.Float(), s.Z.Float(), s.Yaw, s.Sector, s.Mode)
}
