// Package windows applies placement decisions to real windows and keeps the
// enforcer's target registry in sync with what should be on screen.
package windows

import (
	"fmt"
	"log/slog"

	"github.com/dockwell/slidebar/internal/enforcer"
	"github.com/dockwell/slidebar/internal/platform"
)

// Controller pairs a platform backend with the enforcer so every commit is
// both applied immediately and held against drift afterwards.
type Controller struct {
	backend  platform.Backend
	enforcer *enforcer.Enforcer
	logger   *slog.Logger
	locked   map[platform.WindowID]bool
}

// NewController creates a controller. The enforcer may be shared with the
// daemon's enforcement loop.
func NewController(backend platform.Backend, enf *enforcer.Enforcer, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		backend:  backend,
		enforcer: enf,
		logger:   logger,
		locked:   make(map[platform.WindowID]bool),
	}
}

// EnsureLocked strips decorations and taskbar presence once per window.
// Called every time a window is rediscovered; the set makes repeats cheap.
func (c *Controller) EnsureLocked(id platform.WindowID) {
	if id == 0 || c.locked[id] {
		return
	}
	if err := c.backend.LockStyle(id); err != nil {
		c.logger.Warn("failed to lock window style", "window", id, "error", err)
		return
	}
	c.locked[id] = true
}

// Forget drops per-window state after a window disappears, so a recreated
// window with the same ID gets styled again.
func (c *Controller) Forget(id platform.WindowID) {
	delete(c.locked, id)
	c.enforcer.ClearTarget(id)
}

// Commit moves a window to bounds, registers the rect with the enforcer, and
// optionally maps it.
func (c *Controller) Commit(id platform.WindowID, bounds platform.Rect, show bool) error {
	if id == 0 {
		return fmt.Errorf("commit on zero window id")
	}
	if err := c.backend.MoveResize(id, bounds); err != nil {
		return fmt.Errorf("move window %d: %w", id, err)
	}
	c.enforcer.SetTarget(id, bounds)
	if show {
		if err := c.backend.Show(id); err != nil {
			return fmt.Errorf("show window %d: %w", id, err)
		}
	}
	return nil
}

// Hide unmaps a window and releases it from enforcement.
func (c *Controller) Hide(id platform.WindowID) error {
	if id == 0 {
		return nil
	}
	c.enforcer.ClearTarget(id)
	if err := c.backend.Hide(id); err != nil {
		return fmt.Errorf("hide window %d: %w", id, err)
	}
	return nil
}

// RevealPair positions two windows while still unmapped, then maps them
// back to back. Positioning before mapping avoids the one-frame flash of a
// window appearing at its stale location.
func (c *Controller) RevealPair(a platform.WindowID, aBounds platform.Rect, b platform.WindowID, bBounds platform.Rect) error {
	if err := c.Commit(a, aBounds, false); err != nil {
		return err
	}
	if err := c.Commit(b, bBounds, false); err != nil {
		return err
	}
	if err := c.backend.Show(a); err != nil {
		return fmt.Errorf("show window %d: %w", a, err)
	}
	if err := c.backend.Show(b); err != nil {
		return fmt.Errorf("show window %d: %w", b, err)
	}
	return nil
}

// Raise lifts a window to the top of the stack without focusing it.
func (c *Controller) Raise(id platform.WindowID) error {
	if id == 0 {
		return nil
	}
	return c.backend.Raise(id)
}
