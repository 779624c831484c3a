package render

import "fmt"

// WarningKind classifies a render anomaly.
type WarningKind int

const (
	// RecursionLimitReached means the walker stopped expanding portals.
	RecursionLimitReached WarningKind = iota
	// DegenerateGeometry means a wall or sector was skipped.
	DegenerateGeometry
)

func (k WarningKind) String() string {
	switch k {
	case RecursionLimitReached:
		return "recursion limit reached"
	case DegenerateGeometry:
		return "degenerate geometry"
	}
	return fmt.Sprintf("WarningKind(%d)", int(k))
}

// Warning is recorded instead of failing a frame. Wall is -1 when the
// warning concerns a whole sector.
type Warning struct {
	Kind   WarningKind
	Sector int
	Wall   int
}

func (w Warning) String() string {
	if w.Wall < 0 {
		return fmt.Sprintf("%v: sector %d", w.Kind, w.Sector)
	}
	return fmt.Sprintf("%v: sector %d wall %d", w.Kind, w.Sector, w.Wall)
}
