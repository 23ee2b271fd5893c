package sidebar

import (
	"context"
	"time"

	"github.com/dockwell/slidebar/internal/monitors"
	"github.com/dockwell/slidebar/internal/placement"
	"github.com/dockwell/slidebar/internal/visibility"
)

// Run drives the cursor poll loop: discover the managed windows, sample the
// cursor, tick the visibility machine, and apply transitions. Blocks until
// ctx is cancelled.
func (c *Controller) Run(ctx context.Context) {
	c.mu.Lock()
	interval := c.cfg.Triggers.PollInterval.D()
	c.mu.Unlock()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.logger.Info("poll loop started", "interval", interval)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("poll loop stopped")
			return
		case <-ticker.C:
			c.tick()
		}
	}
}

// tick performs one poll iteration.
func (c *Controller) tick() {
	// Recover from panics to keep the loop alive
	defer func() {
		if err := recover(); err != nil {
			c.logger.Error("poll loop panic recovered", "error", err)
		}
	}()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.discoverWindowsLocked()
	if c.navWin == 0 || c.bodyWin == 0 {
		return
	}

	cursor, err := c.backend.CursorPosition()
	if err != nil {
		c.logger.Debug("cursor query failed", "error", err)
		return
	}

	pl, mon, s := c.placementLocked()
	idx := c.monitors.ClampIndex(s.Monitor)
	side := placement.ParseSide(s.Side)

	sample := visibility.Sample{
		Cursor:      cursor,
		Monitor:     mon,
		Side:        side,
		Sidebar:     pl.SidebarRect(mon),
		TriggerPx:   c.cfg.Triggers.EdgePx,
		HideSlackPx: c.cfg.Triggers.HideSlackPx,
		Pinned:      c.pinned,
	}
	if adj := monitors.ResolveAdjacent(c.monitors.Displays(), idx, side, c.cfg.Triggers.AdjacencyPx); adj != nil {
		bounds := adj.Bounds
		sample.Adjacent = &bounds
	}

	decision := c.machine.Tick(sample)
	if decision.Changed {
		c.logger.Debug("visibility transition", "visible", decision.Visible)
		c.applyVisibleLocked(decision.Visible)
	}

	// Keep the sidebar on top of whatever the cursor dragged over it while
	// the pointer is inside. Raised once per entry, not per tick.
	inSidebar := decision.Visible && sample.Sidebar.Contains(cursor.X, cursor.Y)
	if inSidebar && !c.cursorInSidebar {
		if err := c.winctl.Raise(c.navWin); err == nil {
			_ = c.winctl.Raise(c.bodyWin)
		}
	}
	c.cursorInSidebar = inSidebar
}

// discoverWindowsLocked resolves the managed windows by title and locks
// their style. Windows may come and go while the webview host restarts.
func (c *Controller) discoverWindowsLocked() {
	if c.navWin == 0 {
		id, err := c.backend.FindWindow(c.cfg.Windows.NavTitle)
		if err == nil && id != 0 {
			c.navWin = id
			c.winctl.EnsureLocked(id)
			c.logger.Info("nav window discovered", "window", id)
		}
	}
	if c.bodyWin == 0 {
		id, err := c.backend.FindWindow(c.cfg.Windows.BodyTitle)
		if err == nil && id != 0 {
			c.bodyWin = id
			c.winctl.EnsureLocked(id)
			c.logger.Info("body window discovered", "window", id)
		}
	}
}
