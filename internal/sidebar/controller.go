// Package sidebar ties everything together: it owns the user-visible state
// (monitor, side, zoom, retention, slots, pin) and drives the windows, the
// views, and the stores from IPC commands and the cursor poll loop.
package sidebar

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dockwell/slidebar/internal/browser"
	"github.com/dockwell/slidebar/internal/config"
	"github.com/dockwell/slidebar/internal/monitors"
	"github.com/dockwell/slidebar/internal/placement"
	"github.com/dockwell/slidebar/internal/platform"
	"github.com/dockwell/slidebar/internal/store"
	"github.com/dockwell/slidebar/internal/visibility"
	"github.com/dockwell/slidebar/internal/windows"
)

// Status is a consistent snapshot of the controller state.
type Status struct {
	Visible          bool
	Pinned           bool
	Expanded         bool
	Monitor          int
	MonitorCount     int
	Side             string
	ZoomPercent      int
	RetentionMinutes int
	ActiveSlot       int
	SlotServices     []string
	Uptime           time.Duration
}

// urlEntry remembers where a slot's conversation was and when we last saw it.
type urlEntry struct {
	url string
	at  time.Time
}

// Controller is the daemon's aggregate root. One mutex serializes every
// state change; the poll loop, IPC handlers, and the hotkey all go through
// it.
type Controller struct {
	mu sync.Mutex

	cfg      *config.Config
	backend  platform.Backend
	monitors *monitors.Map
	machine  *visibility.Machine
	winctl   *windows.Controller
	settings *store.SettingsStore
	prompts  *store.PromptStore
	logger   *slog.Logger

	navView  browser.View
	bodyView browser.View
	navWin   platform.WindowID
	bodyWin  platform.WindowID

	pinned          bool
	expanded        bool
	cursorInSidebar bool
	lastURLs        map[string]urlEntry

	startTime time.Time
	now       func() time.Time
}

// NewController wires the aggregate. Views are attached separately once the
// webview host is up.
func NewController(
	cfg *config.Config,
	backend platform.Backend,
	mons *monitors.Map,
	winctl *windows.Controller,
	settings *store.SettingsStore,
	prompts *store.PromptStore,
	logger *slog.Logger,
) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		cfg:       cfg,
		backend:   backend,
		monitors:  mons,
		machine:   visibility.New(),
		winctl:    winctl,
		settings:  settings,
		prompts:   prompts,
		logger:    logger,
		lastURLs:  make(map[string]urlEntry),
		startTime: time.Now(),
		now:       time.Now,
	}
}

// AttachViews hands the controller its two web views and loads the active
// slot's service.
func (c *Controller) AttachViews(nav, body browser.View) error {
	c.mu.Lock()
	c.navView = nav
	c.bodyView = body
	c.mu.Unlock()
	c.RefreshNav()
	return c.loadActiveSlot()
}

// Prompts exposes the prompt store for IPC handlers.
func (c *Controller) Prompts() *store.PromptStore { return c.prompts }

// Snapshot returns the current status.
func (c *Controller) Snapshot() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.settings.Get()
	return Status{
		Visible:          c.machine.Visible(),
		Pinned:           c.pinned,
		Expanded:         c.expanded,
		Monitor:          c.monitors.ClampIndex(s.Monitor),
		MonitorCount:     c.monitors.Count(),
		Side:             s.Side,
		ZoomPercent:      s.ZoomPercent,
		RetentionMinutes: s.RetentionMinutes,
		ActiveSlot:       s.ActiveSlot,
		SlotServices:     s.SlotServices,
		Uptime:           time.Since(c.startTime),
	}
}

// Displays returns the current monitor snapshot plus the selected index.
func (c *Controller) Displays() ([]platform.Display, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.monitors.Displays(), c.monitors.ClampIndex(c.settings.Get().Monitor)
}

// RefreshMonitors re-enumerates displays and reapplies geometry.
func (c *Controller) RefreshMonitors() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.monitors.Refresh()
	c.machine.Invalidate()
	c.logger.Info("monitors refreshed", "count", n)
	return n
}

// SetMonitor selects the monitor the sidebar docks to.
func (c *Controller) SetMonitor(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= c.monitors.Count() {
		return fmt.Errorf("monitor %d out of range (have %d)", index, c.monitors.Count())
	}
	c.settings.Update(func(s *store.Settings) { s.Monitor = index })
	c.machine.Invalidate()
	return nil
}

// SetSide docks the sidebar to the left or right monitor edge.
func (c *Controller) SetSide(side string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	parsed := placement.ParseSide(side)
	if side != "" && parsed.String() != side {
		return fmt.Errorf("side must be %q or %q", placement.SideLeft, placement.SideRight)
	}
	c.settings.Update(func(s *store.Settings) { s.Side = parsed.String() })
	c.machine.Invalidate()
	return nil
}

// SetZoom sets the page zoom of both views, clamped to 50-200 percent.
func (c *Controller) SetZoom(percent int) error {
	if percent < 50 || percent > 200 {
		return fmt.Errorf("zoom %d%% out of range 50-200", percent)
	}
	c.mu.Lock()
	c.settings.Update(func(s *store.Settings) { s.ZoomPercent = percent })
	body := c.bodyView
	c.mu.Unlock()

	if body != nil {
		if _, err := body.EvaluateScript(browser.ZoomScript(percent)); err != nil {
			c.logger.Warn("failed to apply zoom", "error", err)
		}
	}
	c.RefreshNav()
	return nil
}

// SetRetention sets the conversation retention window in minutes.
func (c *Controller) SetRetention(minutes int) error {
	if !store.ValidRetention(minutes) {
		return fmt.Errorf("retention must be 0, 10, or 30 minutes")
	}
	c.mu.Lock()
	c.settings.Update(func(s *store.Settings) { s.RetentionMinutes = minutes })
	if minutes == 0 {
		c.lastURLs = make(map[string]urlEntry)
	}
	c.mu.Unlock()

	c.RefreshNav()
	return nil
}

// TogglePin flips the pin. Pinning reveals the sidebar immediately and keeps
// it from auto-hiding; unpinning returns it to normal edge-trigger behavior.
func (c *Controller) TogglePin() bool {
	c.mu.Lock()
	c.pinned = !c.pinned
	if c.pinned && !c.machine.Visible() {
		c.machine.SetVisible(true)
		c.applyVisibleLocked(true)
	}
	pinned := c.pinned
	c.mu.Unlock()

	c.RefreshNav()
	c.logger.Info("pin toggled", "pinned", pinned)
	return pinned
}

// Pinned reports the current pin state.
func (c *Controller) Pinned() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pinned
}

// SetExpanded opens or closes the settings panel, which changes the nav
// strip height. Applies immediately when visible.
func (c *Controller) SetExpanded(expanded bool) {
	c.mu.Lock()
	if c.expanded == expanded {
		c.mu.Unlock()
		return
	}
	c.expanded = expanded
	if c.machine.Visible() {
		c.applyVisibleLocked(true)
	}
	c.mu.Unlock()

	c.RefreshNav()
}

// SwitchSlot activates one of the three service slots, saving the outgoing
// conversation URL and restoring the incoming one when retention allows.
func (c *Controller) SwitchSlot(slot int) error {
	c.mu.Lock()
	s := c.settings.Get()
	if slot < 0 || slot >= len(s.SlotServices) {
		c.mu.Unlock()
		return fmt.Errorf("slot %d out of range", slot)
	}
	c.rememberCurrentURLLocked(s)
	c.settings.Update(func(st *store.Settings) { st.ActiveSlot = slot })
	c.mu.Unlock()

	c.RefreshNav()
	return c.loadActiveSlot()
}

// SetSlotService assigns a cataloged service to a slot. Assigning to the
// active slot reloads the view.
func (c *Controller) SetSlotService(slot int, serviceKey string) error {
	if !browser.ValidKey(serviceKey) {
		return fmt.Errorf("unknown service %q", serviceKey)
	}
	c.mu.Lock()
	s := c.settings.Get()
	if slot < 0 || slot >= len(s.SlotServices) {
		c.mu.Unlock()
		return fmt.Errorf("slot %d out of range", slot)
	}
	c.settings.Update(func(st *store.Settings) { st.SlotServices[slot] = serviceKey })
	active := s.ActiveSlot == slot
	c.mu.Unlock()

	c.RefreshNav()
	if active {
		return c.loadActiveSlot()
	}
	return nil
}

// InjectPromptByID types a saved prompt into the active chat input.
func (c *Controller) InjectPromptByID(id int) error {
	prompt, err := c.prompts.Get(id)
	if err != nil {
		return err
	}
	return c.InjectText(prompt.Content)
}

// InjectText types arbitrary text into the active chat input.
func (c *Controller) InjectText(text string) error {
	_, text, err := store.ValidatePrompt("inject", text)
	if err != nil {
		return err
	}
	c.mu.Lock()
	body := c.bodyView
	c.mu.Unlock()
	if body == nil {
		return fmt.Errorf("browser view not attached")
	}
	result, err := body.EvaluateScript(browser.InjectScript(text))
	if err != nil {
		return fmt.Errorf("inject script: %w", err)
	}
	if result != "true" {
		return fmt.Errorf("no chat input found on the current page")
	}
	return nil
}

// Reload swaps the configuration in place. Geometry changes take effect on
// the next poll tick.
func (c *Controller) Reload(cfg *config.Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg = cfg
	c.machine.Invalidate()
	c.logger.Info("configuration reloaded")
}

// Close flushes persistent state.
func (c *Controller) Close() error {
	return c.settings.Close()
}

// RefreshNav re-renders the navigation strip from current state. Called
// after every state change the strip displays, including prompt edits.
func (c *Controller) RefreshNav() {
	if err := c.refreshNav(); err != nil {
		c.logger.Warn("failed to refresh nav strip", "error", err)
	}
}

func (c *Controller) refreshNav() error {
	c.mu.Lock()
	nav := c.navView
	s := c.settings.Get()
	data := browser.NavPageData{
		ZoomPercent: s.ZoomPercent,
		Pinned:      c.pinned,
		Expanded:    c.expanded,
		Services:    browser.Services(),
		Retention:   s.RetentionMinutes,
	}
	for i, key := range s.SlotServices {
		name := key
		if svc, ok := browser.Lookup(key); ok {
			name = svc.Name
		}
		data.Slots = append(data.Slots, browser.NavSlot{
			Index:  i,
			Key:    key,
			Name:   name,
			Active: i == s.ActiveSlot,
		})
	}
	c.mu.Unlock()

	if nav == nil {
		return nil
	}
	for _, p := range c.prompts.List() {
		if p.FastAccess {
			data.Prompts = append(data.Prompts, browser.NavPrompt{ID: p.ID, Name: p.Name})
		}
	}
	url, err := browser.NavPageURL(data)
	if err != nil {
		return err
	}
	return nav.LoadURL(url)
}

// rememberCurrentURLLocked records the active slot's URL for retention.
// Navigation away from the service's domain is not retained.
func (c *Controller) rememberCurrentURLLocked(s store.Settings) {
	if s.RetentionMinutes == 0 || c.bodyView == nil {
		return
	}
	key := s.SlotServices[s.ActiveSlot]
	svc, ok := browser.Lookup(key)
	if !ok {
		return
	}
	url, err := c.bodyView.CurrentURL()
	if err != nil || url == "" {
		return
	}
	if err := browser.ValidateURL(url, svc); err != nil {
		c.logger.Debug("not retaining off-domain url", "service", key, "error", err)
		return
	}
	c.lastURLs[key] = urlEntry{url: url, at: c.now()}
}

// loadActiveSlot navigates the body view for the active slot, preferring a
// retained conversation URL that is still fresh.
func (c *Controller) loadActiveSlot() error {
	c.mu.Lock()
	s := c.settings.Get()
	key := s.SlotServices[s.ActiveSlot]
	svc, ok := browser.Lookup(key)
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("unknown service %q in slot %d", key, s.ActiveSlot)
	}
	target := svc.URL
	if s.RetentionMinutes > 0 {
		if entry, found := c.lastURLs[key]; found {
			age := c.now().Sub(entry.at)
			if age < time.Duration(s.RetentionMinutes)*time.Minute &&
				browser.ValidateURL(entry.url, svc) == nil {
				target = entry.url
			}
		}
	}
	body := c.bodyView
	zoom := s.ZoomPercent
	c.mu.Unlock()

	if body == nil {
		return nil
	}
	if err := body.LoadURL(target); err != nil {
		return fmt.Errorf("load %s: %w", svc.Key, err)
	}
	if _, err := body.EvaluateScript(browser.ZoomScript(zoom)); err != nil {
		c.logger.Debug("failed to apply zoom after load", "error", err)
	}
	if _, err := body.EvaluateScript(browser.AntiDragScript); err != nil {
		c.logger.Debug("failed to apply anti-drag styles", "error", err)
	}
	c.logger.Info("slot loaded", "slot", s.ActiveSlot, "service", svc.Key, "url", target)
	return nil
}

// placementLocked computes current geometry from settings and config.
func (c *Controller) placementLocked() (placement.Placement, platform.Rect, store.Settings) {
	s := c.settings.Get()
	idx := c.monitors.ClampIndex(s.Monitor)
	mon := c.monitors.Rect(idx)
	pl := placement.Compute(placement.Params{
		Monitor:           mon,
		Side:              placement.ParseSide(s.Side),
		WidthRatio:        c.cfg.Geometry.WidthRatio,
		Expanded:          c.expanded,
		NavHeight:         c.cfg.Geometry.NavHeight,
		NavExpandedHeight: c.cfg.Geometry.NavExpandedHeight,
		ParkMargin:        c.cfg.Geometry.ParkMarginPx,
	})
	return pl, mon, s
}

// applyVisibleLocked commits window geometry for the desired visibility.
func (c *Controller) applyVisibleLocked(visible bool) {
	if c.navWin == 0 || c.bodyWin == 0 {
		return
	}
	pl, _, _ := c.placementLocked()
	if visible {
		if err := c.winctl.RevealPair(c.navWin, pl.Nav, c.bodyWin, pl.Body); err != nil {
			c.logger.Warn("failed to reveal sidebar", "error", err)
			return
		}
		if err := c.winctl.Raise(c.navWin); err == nil {
			_ = c.winctl.Raise(c.bodyWin)
		}
	} else {
		if err := c.winctl.Commit(c.navWin, pl.ParkedNav(), false); err != nil {
			c.logger.Warn("failed to park nav window", "error", err)
		}
		if err := c.winctl.Commit(c.bodyWin, pl.ParkedBody(), false); err != nil {
			c.logger.Warn("failed to park body window", "error", err)
		}
		_ = c.winctl.Hide(c.navWin)
		_ = c.winctl.Hide(c.bodyWin)
	}
}
