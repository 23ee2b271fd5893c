package monitors

import (
	"github.com/dockwell/slidebar/internal/placement"
	"github.com/dockwell/slidebar/internal/platform"
)

// Adjacency describes a monitor that touches the selected monitor on the
// sidebar's side, used to widen the trigger and containment regions so the
// sidebar can be summoned from the neighboring screen.
type Adjacency struct {
	Index  int
	Bounds platform.Rect
}

// ResolveAdjacent finds the monitor adjacent to displays[selected] on the
// given side. Two monitors are adjacent when their vertical ranges overlap
// and the facing edges are within tolerancePx of each other. The first match
// in display order wins. Returns nil when there is no match or fewer than
// two monitors.
func ResolveAdjacent(displays []platform.Display, selected int, side placement.Side, tolerancePx int) *Adjacency {
	if len(displays) < 2 || selected < 0 || selected >= len(displays) {
		return nil
	}
	sel := displays[selected].Bounds
	for i, d := range displays {
		if i == selected {
			continue
		}
		b := d.Bounds
		if b.Y >= sel.Bottom() || b.Bottom() <= sel.Y {
			continue
		}
		var gap int
		if side == placement.SideLeft {
			gap = b.Right() - sel.X
		} else {
			gap = b.X - sel.Right()
		}
		if gap < 0 {
			gap = -gap
		}
		if gap <= tolerancePx {
			return &Adjacency{Index: i, Bounds: b}
		}
	}
	return nil
}
