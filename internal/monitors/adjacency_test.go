package monitors

import (
	"testing"

	"github.com/dockwell/slidebar/internal/placement"
	"github.com/dockwell/slidebar/internal/platform"
)

func disp(id, x, y, w, h int) platform.Display {
	return platform.Display{ID: id, Bounds: platform.Rect{X: x, Y: y, Width: w, Height: h}}
}

func TestResolveAdjacent(t *testing.T) {
	dual := []platform.Display{
		disp(0, 0, 0, 1920, 1080),
		disp(1, 1920, 0, 1920, 1080),
	}

	tests := []struct {
		name      string
		displays  []platform.Display
		selected  int
		side      placement.Side
		wantIndex int // -1 means nil
	}{
		{"right neighbor of left monitor", dual, 0, placement.SideRight, 1},
		{"left neighbor of right monitor", dual, 1, placement.SideLeft, 0},
		{"no neighbor past right edge", dual, 1, placement.SideRight, -1},
		{"no neighbor past left edge", dual, 0, placement.SideLeft, -1},
		{"single monitor", dual[:1], 0, placement.SideRight, -1},
		{
			"small gap within tolerance",
			[]platform.Display{disp(0, 0, 0, 1920, 1080), disp(1, 1923, 0, 1920, 1080)},
			0, placement.SideRight, 1,
		},
		{
			"gap beyond tolerance",
			[]platform.Display{disp(0, 0, 0, 1920, 1080), disp(1, 1930, 0, 1920, 1080)},
			0, placement.SideRight, -1,
		},
		{
			"vertically offset but overlapping",
			[]platform.Display{disp(0, 0, 0, 1920, 1080), disp(1, 1920, 800, 1920, 1080)},
			0, placement.SideRight, 1,
		},
		{
			"no vertical overlap",
			[]platform.Display{disp(0, 0, 0, 1920, 1080), disp(1, 1920, 1080, 1920, 1080)},
			0, placement.SideRight, -1,
		},
		{
			"edge contact only is not overlap",
			[]platform.Display{disp(0, 0, 0, 1920, 1080), disp(1, 1920, -1080, 1920, 1080)},
			0, placement.SideRight, -1,
		},
		{"selected out of range", dual, 5, placement.SideRight, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveAdjacent(tt.displays, tt.selected, tt.side, 5)
			if tt.wantIndex == -1 {
				if got != nil {
					t.Fatalf("expected nil adjacency, got index %d", got.Index)
				}
				return
			}
			if got == nil {
				t.Fatalf("expected adjacency index %d, got nil", tt.wantIndex)
			}
			if got.Index != tt.wantIndex {
				t.Errorf("adjacency index = %d, want %d", got.Index, tt.wantIndex)
			}
			if got.Bounds != tt.displays[tt.wantIndex].Bounds {
				t.Errorf("adjacency bounds = %+v, want %+v", got.Bounds, tt.displays[tt.wantIndex].Bounds)
			}
		})
	}
}

func TestResolveAdjacentFirstMatchWins(t *testing.T) {
	displays := []platform.Display{
		disp(0, 1920, 0, 1920, 1080),
		disp(1, 0, 0, 1920, 540),
		disp(2, 0, 540, 1920, 540),
	}
	got := ResolveAdjacent(displays, 0, placement.SideLeft, 5)
	if got == nil || got.Index != 1 {
		t.Fatalf("expected first matching monitor (index 1), got %+v", got)
	}
}
