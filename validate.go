package buildmap

// validate checks the cross references the format does not guarantee.
// It also fills m.wallSector.
func (m *Map) validate() error {
	logger.Println("Validating ...")
	m.wallSector = make([]int, len(m.Walls))
	for i := range m.wallSector {
		m.wallSector[i] = NoSector
	}

	for i := range m.Sectors {
		if err := m.validateSector(i); err != nil {
			return err
		}
	}
	for i := range m.Walls {
		if err := m.validateWall(i); err != nil {
			return err
		}
	}
	return nil
}

func (m *Map) sectorOffset(i int) int {
	return HeaderSize + i*SectorSize
}

func (m *Map) wallOffset(i int) int {
	return HeaderSize + len(m.Sectors)*SectorSize + i*WallSize
}

func (m *Map) validateSector(i int) error {
	s := &m.Sectors[i]
	off := m.sectorOffset(i)

	if s.FirstWall+s.WallCount > len(m.Walls) {
		return formatErr(IndexOutOfRange, off, "sector %d walls %d..%d exceed %d walls",
			i, s.FirstWall, s.FirstWall+s.WallCount, len(m.Walls))
	}
	if s.FloorZ > s.CeilingZ {
		return formatErr(InvalidHeights, off, "sector %d floor %d above ceiling %d", i, s.FloorZ, s.CeilingZ)
	}
	if s.WallCount < 3 {
		return formatErr(InconsistentLoop, off, "sector %d has %d walls", i, s.WallCount)
	}

	// Follow the loop. It must stay in range, visit each wall once and
	// come back to the first wall after exactly WallCount steps.
	end := s.FirstWall + s.WallCount
	w := s.FirstWall
	for range s.WallCount {
		if m.wallSector[w] == i {
			return formatErr(InconsistentLoop, m.wallOffset(w), "sector %d revisits wall %d", i, w)
		}
		if m.wallSector[w] != NoSector {
			return formatErr(InconsistentLoop, m.wallOffset(w), "wall %d shared by sectors %d and %d",
				w, m.wallSector[w], i)
		}
		m.wallSector[w] = i

		next := m.Walls[w].Next
		if next >= len(m.Walls) {
			return formatErr(IndexOutOfRange, m.wallOffset(w), "wall %d next %d", w, next)
		}
		if next < s.FirstWall || next >= end {
			return formatErr(InconsistentLoop, m.wallOffset(w), "wall %d next %d leaves sector %d", w, next, i)
		}
		w = next
	}
	if w != s.FirstWall {
		return formatErr(InconsistentLoop, off, "sector %d loop does not close", i)
	}
	return nil
}

func (m *Map) validateWall(i int) error {
	w := &m.Walls[i]
	off := m.wallOffset(i)

	if w.Next < 0 || w.Next >= len(m.Walls) {
		return formatErr(IndexOutOfRange, off, "wall %d next %d", i, w.Next)
	}
	if w.Adjoining != NoSector && (w.Adjoining < 0 || w.Adjoining >= len(m.Sectors)) {
		return formatErr(IndexOutOfRange, off, "wall %d adjoining sector %d", i, w.Adjoining)
	}
	if w.Partner != NoWall && (w.Partner < 0 || w.Partner >= len(m.Walls)) {
		return formatErr(IndexOutOfRange, off, "wall %d partner wall %d", i, w.Partner)
	}
	if (w.Adjoining == NoSector) != (w.Partner == NoWall) {
		return formatErr(InconsistentPortal, off, "wall %d partner %d but adjoining sector %d",
			i, w.Partner, w.Adjoining)
	}
	if !w.IsPortal() {
		return nil
	}

	// Both sides of a portal must name each other.
	own := m.wallSector[i]
	p := &m.Walls[w.Partner]
	if m.wallSector[w.Partner] != w.Adjoining {
		return formatErr(InconsistentPortal, off, "wall %d partner %d is not in sector %d",
			i, w.Partner, w.Adjoining)
	}
	if own == NoSector || p.Adjoining != own || p.Partner != i {
		return formatErr(InconsistentPortal, off, "wall %d partner %d does not point back", i, w.Partner)
	}
	return nil
}
