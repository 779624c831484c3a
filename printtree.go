package buildmap

import (
	"fmt"
	"io"
)

// PrintPortals prints the portal graph reachable from root as a tree.
// Each sector is expanded once; later references are marked as seen.
func (m *Map) PrintPortals(w io.Writer, root int) {
	seen := make(map[int]bool)
	var printRecursive func(sector int, prefix string)
	printRecursive = func(sector int, prefix string) {
		s := m.Sector(sector)
		if s == nil {
			fmt.Fprintf(w, "%s- sector %d (missing)\n", prefix, sector)
			return
		}
		if seen[sector] {
			fmt.Fprintf(w, "%s- sector %d (seen)\n", prefix, sector)
			return
		}
		fmt.Fprintf(w, "%s- sector %d walls=%d floor=%d ceiling=%d\n",
			prefix, sector, s.WallCount, s.FloorZ, s.CeilingZ)

		seen[sector] = true
		walls, _ := m.SectorWalls(sector)
		for _, wi := range walls {
			wall := &m.Walls[wi]
			if !wall.IsPortal() {
				continue
			}
			fmt.Fprintf(w, "%s   wall %d -> wall %d\n", prefix, wi, wall.Partner)
			printRecursive(wall.Adjoining, prefix+"      ")
		}
	}

	printRecursive(root, "")
}
