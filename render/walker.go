package render

import (
	"github.com/stuarthighley/buildmap"
)

// Traversal bounds.
const (
	MaxDepth    = 32 // portal hops from the start sector
	FanOutBound = 8  // expansions per sector, on average
)

type visitKey struct {
	sector int
	span   Interval
}

// Walker finds the sectors visible from the camera. It keeps its buffers
// between frames; a Walker must not be shared between goroutines.
type Walker struct {
	MaxDepth    int
	FanOutBound int

	list       WindowList
	visited    map[visitKey]struct{}
	expansions int
}

// NewWalker returns a walker with the default bounds.
func NewWalker() *Walker {
	return &Walker{
		MaxDepth:    MaxDepth,
		FanOutBound: FanOutBound,
		visited:     make(map[visitKey]struct{}),
	}
}

// Expansions returns the number of portal expansions made by the last Walk.
func (w *Walker) Expansions() int {
	return w.expansions
}

// Walk returns the windows visible from sector start, in breadth-first
// order. The returned list is reused by the next call.
func (w *Walker) Walk(m *buildmap.Map, p *Projector, start int) (WindowList, []Warning) {
	w.list = w.list[:0]
	clear(w.visited)
	w.expansions = 0

	if m.Sector(start) == nil {
		return w.list, []Warning{{Kind: DegenerateGeometry, Sector: start, Wall: -1}}
	}

	var warnings []Warning
	limit := len(m.Sectors) * w.FanOutBound
	limited := false

	root := Window{Sector: start, Span: Interval{0, p.Width}}
	w.visited[visitKey{root.Sector, root.Span}] = struct{}{}
	w.list = append(w.list, root)

	// w.list doubles as the FIFO queue
	for head := 0; head < len(w.list); head++ {
		win := w.list[head]
		walls, ok := m.SectorWalls(win.Sector)
		if !ok {
			warnings = append(warnings, Warning{Kind: DegenerateGeometry, Sector: win.Sector, Wall: -1})
			continue
		}
		winding := m.Winding(win.Sector)
		for _, wall := range walls {
			wl := &m.Walls[wall]
			if !wl.IsPortal() || m.Sector(wl.Adjoining) == nil {
				continue
			}
			// A portal through the camera passes the whole window on
			span := win.Span
			if !p.nearCamera(m, wall) {
				if !p.facesCamera(m, wall, winding) {
					continue
				}
				view, status := p.viewWall(m, wall)
				if status != viewVisible {
					continue
				}
				span = view.Span.Intersect(win.Span)
				if span.Empty() {
					continue
				}
			}
			key := visitKey{wl.Adjoining, span}
			if _, seen := w.visited[key]; seen {
				continue
			}
			if win.Depth+1 > w.MaxDepth || w.expansions >= limit {
				limited = true
				continue
			}
			w.visited[key] = struct{}{}
			w.expansions++
			w.list = append(w.list, Window{Sector: wl.Adjoining, Span: span, Depth: win.Depth + 1})
		}
	}

	if limited {
		logger.Printf("Portal walk from sector %v stopped after %v expansions", start, w.expansions)
		warnings = append(warnings, Warning{Kind: RecursionLimitReached, Sector: start, Wall: -1})
	}
	return w.list, warnings
}
