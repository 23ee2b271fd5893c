package visibility

import (
	"testing"

	"github.com/dockwell/slidebar/internal/placement"
	"github.com/dockwell/slidebar/internal/platform"
)

func rightSample(x, y int) Sample {
	return Sample{
		Cursor:      platform.Point{X: x, Y: y},
		Monitor:     platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080},
		Side:        placement.SideRight,
		Sidebar:     platform.Rect{X: 1344, Y: 0, Width: 576, Height: 1080},
		TriggerPx:   5,
		HideSlackPx: 50,
	}
}

func TestHiddenStaysHiddenAwayFromEdge(t *testing.T) {
	m := New()
	d := m.Tick(rightSample(960, 540))
	if d.Visible {
		t.Fatal("visible with cursor mid-screen")
	}
	if !d.Changed {
		t.Fatal("first tick must report a change to seed the applied state")
	}
	if d = m.Tick(rightSample(960, 540)); d.Changed {
		t.Fatal("steady state reported a change")
	}
}

func TestEdgeStripShows(t *testing.T) {
	m := New()
	m.Tick(rightSample(960, 540))

	d := m.Tick(rightSample(1918, 540))
	if !d.Visible || !d.Changed {
		t.Fatalf("edge strip did not show: %+v", d)
	}

	// 6px from the edge is outside the 5px strip.
	m2 := New()
	m2.Tick(rightSample(960, 540))
	if d := m2.Tick(rightSample(1914, 540)); d.Visible {
		t.Fatal("showed outside the trigger strip")
	}
}

func TestEdgeStripRespectsVerticalRange(t *testing.T) {
	m := New()
	s := rightSample(1919, -10)
	if d := m.Tick(s); d.Visible {
		t.Fatal("showed for cursor above the monitor")
	}
}

func TestLeftSideEdgeStrip(t *testing.T) {
	m := New()
	s := rightSample(2, 540)
	s.Side = placement.SideLeft
	s.Sidebar = platform.Rect{X: 0, Y: 0, Width: 576, Height: 1080}
	if d := m.Tick(s); !d.Visible {
		t.Fatal("left edge strip did not show")
	}
}

func TestAdjacentMonitorTriggersAnywhere(t *testing.T) {
	adj := platform.Rect{X: 1920, Y: 0, Width: 1920, Height: 1080}
	m := New()
	s := rightSample(2800, 540)
	s.Adjacent = &adj
	if d := m.Tick(s); !d.Visible {
		t.Fatal("cursor on adjacent monitor did not show")
	}
}

func TestVisibleStaysInsideSidebar(t *testing.T) {
	m := New()
	m.SetVisible(true)
	if d := m.Tick(rightSample(1500, 540)); !d.Visible {
		t.Fatal("hid while cursor inside sidebar")
	}
}

func TestHysteresisBeforeHide(t *testing.T) {
	m := New()
	m.SetVisible(true)
	m.Tick(rightSample(1500, 540))

	// Just left of the sidebar, within slack: stays visible.
	if d := m.Tick(rightSample(1300, 540)); !d.Visible {
		t.Fatal("hid inside the slack zone")
	}
	// Past the slack distance: hides, exactly one change.
	d := m.Tick(rightSample(1200, 540))
	if d.Visible || !d.Changed {
		t.Fatalf("expected hide transition, got %+v", d)
	}
	if d := m.Tick(rightSample(1200, 540)); d.Changed {
		t.Fatal("repeated hide reported a change")
	}
}

func TestAdjacentMonitorKeepsVisible(t *testing.T) {
	adj := platform.Rect{X: 1920, Y: 0, Width: 1920, Height: 1080}
	m := New()
	m.SetVisible(true)
	s := rightSample(3000, 540)
	s.Adjacent = &adj
	if d := m.Tick(s); !d.Visible {
		t.Fatal("hid while cursor on adjacent monitor")
	}
}

func TestOutsideVerticalSpanHides(t *testing.T) {
	m := New()
	m.SetVisible(true)
	m.Tick(rightSample(1500, 540))
	if d := m.Tick(rightSample(1500, 2000)); d.Visible {
		t.Fatal("stayed visible with cursor below every monitor")
	}
}

func TestPinnedNeverAutoHides(t *testing.T) {
	m := New()
	m.SetVisible(true)
	for _, c := range []platform.Point{{X: 100, Y: 540}, {X: 960, Y: 2000}, {X: -500, Y: -500}} {
		s := rightSample(c.X, c.Y)
		s.Pinned = true
		if d := m.Tick(s); !d.Visible {
			t.Fatalf("pinned sidebar hid at %+v", c)
		}
	}
}

func TestPinnedGatesEdgeShow(t *testing.T) {
	// Pin state owns visibility outright; the edge strip never flips a
	// hidden pinned machine on its own.
	m := New()
	m.Tick(rightSample(960, 540))
	s := rightSample(1918, 540)
	s.Pinned = true
	if d := m.Tick(s); d.Visible {
		t.Fatal("edge strip overrode pinned visibility")
	}
}

func TestInvalidateForcesReapply(t *testing.T) {
	m := New()
	m.Tick(rightSample(960, 540))
	if d := m.Tick(rightSample(960, 540)); d.Changed {
		t.Fatal("unexpected change before invalidate")
	}
	m.Invalidate()
	if d := m.Tick(rightSample(960, 540)); !d.Changed {
		t.Fatal("invalidate did not force a re-apply")
	}
}
