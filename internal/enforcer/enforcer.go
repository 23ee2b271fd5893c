// Package enforcer keeps managed windows at their target rects. Window
// managers, grid snapping, and stray user drags all move the sidebar; the
// enforcer detects drift every tick and pushes the windows back.
package enforcer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dockwell/slidebar/internal/platform"
)

// Mover is the subset of the platform backend the enforcer needs.
type Mover interface {
	WindowRect(id platform.WindowID) (platform.Rect, error)
	MoveResize(id platform.WindowID, bounds platform.Rect) error
}

// Config holds enforcer tuning.
type Config struct {
	// ActiveInterval is the tick period while any target is registered.
	ActiveInterval time.Duration
	// IdleInterval is the tick period with no targets.
	IdleInterval time.Duration
	// TolerancePx is the per-axis drift allowed before a correction fires.
	TolerancePx int
	Logger      *slog.Logger
}

// Enforcer runs the drift-correction loop over a registry of target rects.
type Enforcer struct {
	activeInterval time.Duration
	idleInterval   time.Duration
	tolerance      int
	mover          Mover
	logger         *slog.Logger

	mu      sync.Mutex
	targets map[platform.WindowID]platform.Rect
}

// New creates an enforcer. Zero intervals get production defaults.
func New(cfg Config, mover Mover) *Enforcer {
	if cfg.ActiveInterval <= 0 {
		cfg.ActiveInterval = 16 * time.Millisecond
	}
	if cfg.IdleInterval <= 0 {
		cfg.IdleInterval = 100 * time.Millisecond
	}
	if cfg.TolerancePx <= 0 {
		cfg.TolerancePx = 2
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Enforcer{
		activeInterval: cfg.ActiveInterval,
		idleInterval:   cfg.IdleInterval,
		tolerance:      cfg.TolerancePx,
		mover:          mover,
		logger:         cfg.Logger,
		targets:        make(map[platform.WindowID]platform.Rect),
	}
}

// SetTarget registers or updates the rect a window is held at.
func (e *Enforcer) SetTarget(id platform.WindowID, bounds platform.Rect) {
	e.mu.Lock()
	e.targets[id] = bounds
	e.mu.Unlock()
}

// ClearTarget releases a window from enforcement.
func (e *Enforcer) ClearTarget(id platform.WindowID) {
	e.mu.Lock()
	delete(e.targets, id)
	e.mu.Unlock()
}

// ClearAll releases every window.
func (e *Enforcer) ClearAll() {
	e.mu.Lock()
	e.targets = make(map[platform.WindowID]platform.Rect)
	e.mu.Unlock()
}

// snapshot copies the registry so enforcement runs without the lock.
func (e *Enforcer) snapshot() map[platform.WindowID]platform.Rect {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[platform.WindowID]platform.Rect, len(e.targets))
	for id, r := range e.targets {
		out[id] = r
	}
	return out
}

// Run starts the enforcement loop. Blocks until context is cancelled. The
// tick period drops to the idle interval whenever no targets are registered.
func (e *Enforcer) Run(ctx context.Context) {
	e.logger.Info("enforcer started",
		"active_interval", e.activeInterval,
		"idle_interval", e.idleInterval,
		"tolerance_px", e.tolerance)

	timer := time.NewTimer(e.idleInterval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("enforcer stopped")
			return
		case <-timer.C:
			active := e.enforce()
			if active {
				timer.Reset(e.activeInterval)
			} else {
				timer.Reset(e.idleInterval)
			}
		}
	}
}

// enforce performs one pass and reports whether any target is registered.
func (e *Enforcer) enforce() bool {
	// Recover from panics to keep the loop alive
	defer func() {
		if err := recover(); err != nil {
			e.logger.Error("enforcer panic recovered", "error", err)
		}
	}()

	targets := e.snapshot()
	if len(targets) == 0 {
		return false
	}

	for id, want := range targets {
		got, err := e.mover.WindowRect(id)
		if err != nil {
			// Window gone or backend hiccup. The poll loop re-registers
			// targets, so just skip this tick.
			continue
		}
		if withinTolerance(got, want, e.tolerance) {
			continue
		}
		if err := e.mover.MoveResize(id, want); err != nil {
			e.logger.Debug("enforcer: reposition failed", "window", id, "error", err)
		}
	}
	return true
}

func withinTolerance(got, want platform.Rect, tol int) bool {
	return abs(got.X-want.X) <= tol &&
		abs(got.Y-want.Y) <= tol &&
		abs(got.Width-want.Width) <= tol &&
		abs(got.Height-want.Height) <= tol
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
