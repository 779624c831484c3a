package render

// Coverage tracks, for every screen column, the rows [top, bottom) that
// nearer geometry has not painted yet. Intervals only ever shrink during a
// frame.
type Coverage struct {
	top, bottom []int
	height      int
	open        int
}

// NewCoverage returns a fully open coverage for a width x height viewport.
func NewCoverage(width, height int) *Coverage {
	c := &Coverage{}
	c.Reset(width, height)
	return c
}

// Reset reopens every column, resizing if needed.
func (c *Coverage) Reset(width, height int) {
	if cap(c.top) < width {
		c.top = make([]int, width)
		c.bottom = make([]int, width)
	}
	c.top = c.top[:width]
	c.bottom = c.bottom[:width]
	for x := range c.top {
		c.top[x] = 0
		c.bottom[x] = height
	}
	c.height = height
	c.open = width
	if height <= 0 {
		c.open = 0
	}
}

// Width returns the number of columns.
func (c *Coverage) Width() int {
	return len(c.top)
}

// Column returns the open rows of column x. An out of range column is
// closed.
func (c *Coverage) Column(x int) (top, bottom int) {
	if x < 0 || x >= len(c.top) {
		return 0, 0
	}
	return c.top[x], c.bottom[x]
}

// IsOpen reports whether any row of column x is still open.
func (c *Coverage) IsOpen(x int) bool {
	top, bottom := c.Column(x)
	return top < bottom
}

// Narrow limits column x to [top, bottom) intersected with its current
// interval.
func (c *Coverage) Narrow(x, top, bottom int) {
	if !c.IsOpen(x) {
		return
	}
	c.top[x] = max(c.top[x], top)
	c.bottom[x] = min(c.bottom[x], bottom)
	if c.top[x] >= c.bottom[x] {
		c.open--
	}
}

// Close marks column x as fully painted.
func (c *Coverage) Close(x int) {
	if !c.IsOpen(x) {
		return
	}
	c.bottom[x] = c.top[x]
	c.open--
}

// Full reports whether every column is closed.
func (c *Coverage) Full() bool {
	return c.open <= 0
}
