package enforcer

import (
	"errors"
	"sync"
	"testing"

	"github.com/dockwell/slidebar/internal/platform"
)

type fakeMover struct {
	mu    sync.Mutex
	rects map[platform.WindowID]platform.Rect
	moves int
}

func newFakeMover() *fakeMover {
	return &fakeMover{rects: make(map[platform.WindowID]platform.Rect)}
}

func (f *fakeMover) WindowRect(id platform.WindowID) (platform.Rect, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rects[id]
	if !ok {
		return platform.Rect{}, errors.New("no such window")
	}
	return r, nil
}

func (f *fakeMover) MoveResize(id platform.WindowID, bounds platform.Rect) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rects[id] = bounds
	f.moves++
	return nil
}

func (f *fakeMover) moveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.moves
}

func TestEnforceCorrectsDrift(t *testing.T) {
	mover := newFakeMover()
	target := platform.Rect{X: 1344, Y: 0, Width: 576, Height: 1080}
	mover.rects[42] = platform.Rect{X: 900, Y: 100, Width: 576, Height: 1080}

	e := New(Config{}, mover)
	e.SetTarget(42, target)

	if active := e.enforce(); !active {
		t.Fatal("enforce reported idle with a registered target")
	}
	if got := mover.rects[42]; got != target {
		t.Fatalf("window not corrected: got %+v, want %+v", got, target)
	}
}

func TestEnforceSkipsWithinTolerance(t *testing.T) {
	mover := newFakeMover()
	target := platform.Rect{X: 1344, Y: 0, Width: 576, Height: 1080}
	mover.rects[42] = platform.Rect{X: 1345, Y: 1, Width: 576, Height: 1080}

	e := New(Config{TolerancePx: 2}, mover)
	e.SetTarget(42, target)
	e.enforce()

	if mover.moveCount() != 0 {
		t.Fatalf("corrected a window within tolerance, %d moves", mover.moveCount())
	}
}

func TestEnforceSkipsMissingWindow(t *testing.T) {
	mover := newFakeMover()
	e := New(Config{}, mover)
	e.SetTarget(42, platform.Rect{X: 0, Y: 0, Width: 100, Height: 100})

	if active := e.enforce(); !active {
		t.Fatal("missing window should not flip the loop to idle")
	}
	if mover.moveCount() != 0 {
		t.Fatal("moved a window that does not exist")
	}
}

func TestClearTargetGoesIdle(t *testing.T) {
	mover := newFakeMover()
	e := New(Config{}, mover)
	e.SetTarget(1, platform.Rect{Width: 10, Height: 10})
	e.SetTarget(2, platform.Rect{Width: 10, Height: 10})

	e.ClearTarget(1)
	if active := e.enforce(); !active {
		t.Fatal("still one target registered, loop should stay active")
	}
	e.ClearAll()
	if active := e.enforce(); active {
		t.Fatal("no targets registered, loop should go idle")
	}
}

func TestSetTargetReplacesExisting(t *testing.T) {
	mover := newFakeMover()
	mover.rects[7] = platform.Rect{X: 0, Y: 0, Width: 100, Height: 100}

	e := New(Config{}, mover)
	e.SetTarget(7, platform.Rect{X: 0, Y: 0, Width: 100, Height: 100})
	e.enforce()
	if mover.moveCount() != 0 {
		t.Fatal("moved a window already at target")
	}

	next := platform.Rect{X: 500, Y: 0, Width: 100, Height: 100}
	e.SetTarget(7, next)
	e.enforce()
	if got := mover.rects[7]; got != next {
		t.Fatalf("updated target not enforced: got %+v", got)
	}
}
