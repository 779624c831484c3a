package render

import "fmt"

// Interval is a half-open range of screen columns [L, R).
type Interval struct {
	L, R int
}

// Empty reports whether the interval holds no column.
func (i Interval) Empty() bool {
	return i.L >= i.R
}

// Len returns the number of columns.
func (i Interval) Len() int {
	return max(0, i.R-i.L)
}

// Intersect returns the columns in both intervals.
func (i Interval) Intersect(o Interval) Interval {
	return Interval{max(i.L, o.L), min(i.R, o.R)}
}

// Contains reports whether column x is in the interval.
func (i Interval) Contains(x int) bool {
	return x >= i.L && x < i.R
}

func (i Interval) String() string {
	return fmt.Sprintf("[%d,%d)", i.L, i.R)
}

// Window is one sector seen through a run of portals, limited to the screen
// columns Span. Depth counts the portals crossed from the start sector.
type Window struct {
	Sector int
	Span   Interval
	Depth  int
}

// WindowList is a frame's visible windows, nearest first.
type WindowList []Window
