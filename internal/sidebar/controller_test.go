package sidebar

import (
	"strings"
	"testing"
	"time"

	"github.com/dockwell/slidebar/internal/config"
	"github.com/dockwell/slidebar/internal/enforcer"
	"github.com/dockwell/slidebar/internal/monitors"
	"github.com/dockwell/slidebar/internal/platform"
	"github.com/dockwell/slidebar/internal/store"
	"github.com/dockwell/slidebar/internal/windows"
)

type fakeBackend struct {
	displays []platform.Display
	cursor   platform.Point
	windows  map[string]platform.WindowID
	rects    map[platform.WindowID]platform.Rect
	mapped   map[platform.WindowID]bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		displays: []platform.Display{
			{ID: 0, Bounds: platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}},
			{ID: 1, Bounds: platform.Rect{X: 1920, Y: 0, Width: 1920, Height: 1080}},
		},
		windows: map[string]platform.WindowID{"slidebar-nav": 11, "slidebar-body": 12},
		rects:   make(map[platform.WindowID]platform.Rect),
		mapped:  make(map[platform.WindowID]bool),
	}
}

func (f *fakeBackend) Displays() ([]platform.Display, error) { return f.displays, nil }
func (f *fakeBackend) VirtualScreen() (platform.Rect, error) {
	return platform.Rect{Width: 3840, Height: 1080}, nil
}
func (f *fakeBackend) CursorPosition() (platform.Point, error) { return f.cursor, nil }
func (f *fakeBackend) FindWindow(title string) (platform.WindowID, error) {
	return f.windows[title], nil
}
func (f *fakeBackend) WindowRect(id platform.WindowID) (platform.Rect, error) {
	return f.rects[id], nil
}
func (f *fakeBackend) MoveResize(id platform.WindowID, bounds platform.Rect) error {
	f.rects[id] = bounds
	return nil
}
func (f *fakeBackend) Show(id platform.WindowID) error   { f.mapped[id] = true; return nil }
func (f *fakeBackend) Hide(id platform.WindowID) error   { f.mapped[id] = false; return nil }
func (f *fakeBackend) Raise(platform.WindowID) error     { return nil }
func (f *fakeBackend) LockStyle(platform.WindowID) error { return nil }

type fakeView struct {
	loaded     []string
	scripts    []string
	currentURL string
	evalResult string
}

func (v *fakeView) LoadURL(url string) error {
	v.loaded = append(v.loaded, url)
	v.currentURL = url
	return nil
}

func (v *fakeView) EvaluateScript(script string) (string, error) {
	v.scripts = append(v.scripts, script)
	if v.evalResult == "" {
		return "true", nil
	}
	return v.evalResult, nil
}

func (v *fakeView) CurrentURL() (string, error) { return v.currentURL, nil }
func (v *fakeView) Destroy() error              { return nil }

func newTestController(t *testing.T, backend *fakeBackend) (*Controller, *fakeView) {
	t.Helper()
	cfg := config.DefaultConfig()
	mons := monitors.NewMap(backend)
	enf := enforcer.New(enforcer.Config{}, backend)
	winctl := windows.NewController(backend, enf, nil)
	settings := store.NewSettingsStore(t.TempDir(), time.Hour, nil)
	prompts := store.NewPromptStore(t.TempDir(), nil)

	c := NewController(cfg, backend, mons, winctl, settings, prompts, nil)
	body := &fakeView{}
	if err := c.AttachViews(&fakeView{}, body); err != nil {
		t.Fatal(err)
	}
	return c, body
}

func TestEdgeTriggerRevealsWindows(t *testing.T) {
	backend := newFakeBackend()
	c, _ := newTestController(t, backend)

	// First tick: discovery plus a mid-screen cursor keeps it hidden.
	backend.cursor = platform.Point{X: 960, Y: 540}
	c.tick()
	if backend.mapped[11] || backend.mapped[12] {
		t.Fatal("sidebar mapped without a trigger")
	}

	// Cursor at the right edge of monitor 0 reveals both windows docked.
	backend.cursor = platform.Point{X: 1918, Y: 540}
	c.tick()
	if !backend.mapped[11] || !backend.mapped[12] {
		t.Fatal("sidebar not revealed at the edge")
	}
	nav := backend.rects[11]
	body := backend.rects[12]
	if nav.X != 1920-576 || nav.Height != 150 {
		t.Errorf("nav rect = %+v", nav)
	}
	if body.Y != 150 || body.Height != 930 {
		t.Errorf("body rect = %+v", body)
	}
	if nav.X != body.X || nav.Width != body.Width {
		t.Error("nav and body not aligned")
	}
}

func TestAdjacentMonitorReveals(t *testing.T) {
	backend := newFakeBackend()
	c, _ := newTestController(t, backend)

	// Sidebar on the right edge of monitor 0; monitor 1 is adjacent there.
	backend.cursor = platform.Point{X: 3000, Y: 540}
	c.tick()
	if !backend.mapped[11] {
		t.Fatal("cursor on adjacent monitor did not reveal the sidebar")
	}

	// Moving deep into the adjacent monitor keeps it visible.
	backend.cursor = platform.Point{X: 3800, Y: 1000}
	c.tick()
	if !backend.mapped[11] {
		t.Fatal("sidebar hid while cursor on adjacent monitor")
	}

	// Retreating far left on the selected monitor hides it again.
	backend.cursor = platform.Point{X: 300, Y: 540}
	c.tick()
	if backend.mapped[11] {
		t.Fatal("sidebar stayed visible after retreat")
	}
	// Parked rects sit fully outside the monitor.
	if backend.rects[11].X < 1920 {
		t.Errorf("nav parked inside the monitor: %+v", backend.rects[11])
	}
}

func TestPinKeepsVisible(t *testing.T) {
	backend := newFakeBackend()
	c, _ := newTestController(t, backend)
	backend.cursor = platform.Point{X: 960, Y: 540}
	c.tick()

	if pinned := c.TogglePin(); !pinned {
		t.Fatal("first toggle should pin")
	}
	if !backend.mapped[11] {
		t.Fatal("pin did not reveal the sidebar immediately")
	}

	// Cursor far away: a pinned sidebar never auto-hides.
	backend.cursor = platform.Point{X: 100, Y: 2000}
	c.tick()
	if !backend.mapped[11] {
		t.Fatal("pinned sidebar auto-hid")
	}

	if pinned := c.TogglePin(); pinned {
		t.Fatal("second toggle should unpin")
	}
	c.tick()
	if backend.mapped[11] {
		t.Fatal("unpinned sidebar did not hide with cursor away")
	}
}

func TestNavStripRefreshesOnStateChange(t *testing.T) {
	backend := newFakeBackend()
	cfg := config.DefaultConfig()
	mons := monitors.NewMap(backend)
	enf := enforcer.New(enforcer.Config{}, backend)
	winctl := windows.NewController(backend, enf, nil)
	settings := store.NewSettingsStore(t.TempDir(), time.Hour, nil)
	prompts := store.NewPromptStore(t.TempDir(), nil)

	c := NewController(cfg, backend, mons, winctl, settings, prompts, nil)
	nav := &fakeView{}
	if err := c.AttachViews(nav, &fakeView{}); err != nil {
		t.Fatal(err)
	}
	if len(nav.loaded) != 1 || !strings.HasPrefix(nav.loaded[0], "data:text/html;base64,") {
		t.Fatalf("attach loaded %v, want one rendered strip", nav.loaded)
	}

	c.TogglePin()
	if len(nav.loaded) != 2 {
		t.Fatalf("pin toggle left the strip stale: %d loads", len(nav.loaded))
	}
}

func TestSwitchSlotLoadsService(t *testing.T) {
	backend := newFakeBackend()
	c, body := newTestController(t, backend)

	if len(body.loaded) != 1 || !strings.Contains(body.loaded[0], "chatgpt.com") {
		t.Fatalf("initial load = %v, want chatgpt home", body.loaded)
	}
	if err := c.SwitchSlot(1); err != nil {
		t.Fatal(err)
	}
	if got := body.loaded[len(body.loaded)-1]; got != "https://claude.ai" {
		t.Errorf("slot 1 loaded %q", got)
	}
	if err := c.SwitchSlot(5); err == nil {
		t.Error("out-of-range slot accepted")
	}
}

func TestRetentionRestoresConversation(t *testing.T) {
	backend := newFakeBackend()
	c, body := newTestController(t, backend)

	now := time.Now()
	c.now = func() time.Time { return now }

	if err := c.SetRetention(10); err != nil {
		t.Fatal(err)
	}
	// User navigates within ChatGPT, then switches away.
	body.currentURL = "https://chatgpt.com/c/12345"
	if err := c.SwitchSlot(1); err != nil {
		t.Fatal(err)
	}
	// Within the window: switching back restores the conversation.
	now = now.Add(5 * time.Minute)
	if err := c.SwitchSlot(0); err != nil {
		t.Fatal(err)
	}
	if got := body.loaded[len(body.loaded)-1]; got != "https://chatgpt.com/c/12345" {
		t.Errorf("retained URL not restored, loaded %q", got)
	}

	// Past the window: back to the service home page.
	body.currentURL = "https://chatgpt.com/c/12345"
	if err := c.SwitchSlot(1); err != nil {
		t.Fatal(err)
	}
	now = now.Add(11 * time.Minute)
	if err := c.SwitchSlot(0); err != nil {
		t.Fatal(err)
	}
	if got := body.loaded[len(body.loaded)-1]; got != "https://chatgpt.com" {
		t.Errorf("expired retention still restored, loaded %q", got)
	}
}

func TestRetentionIgnoresOffDomainURL(t *testing.T) {
	backend := newFakeBackend()
	c, body := newTestController(t, backend)
	now := time.Now()
	c.now = func() time.Time { return now }

	if err := c.SetRetention(30); err != nil {
		t.Fatal(err)
	}
	body.currentURL = "https://evil.example.com/phish"
	if err := c.SwitchSlot(1); err != nil {
		t.Fatal(err)
	}
	if err := c.SwitchSlot(0); err != nil {
		t.Fatal(err)
	}
	if got := body.loaded[len(body.loaded)-1]; got != "https://chatgpt.com" {
		t.Errorf("off-domain URL was retained, loaded %q", got)
	}
}

func TestZeroRetentionAlwaysHome(t *testing.T) {
	backend := newFakeBackend()
	c, body := newTestController(t, backend)

	body.currentURL = "https://chatgpt.com/c/99"
	if err := c.SwitchSlot(1); err != nil {
		t.Fatal(err)
	}
	if err := c.SwitchSlot(0); err != nil {
		t.Fatal(err)
	}
	if got := body.loaded[len(body.loaded)-1]; got != "https://chatgpt.com" {
		t.Errorf("retention off but conversation restored: %q", got)
	}
}

func TestSetZoomBounds(t *testing.T) {
	backend := newFakeBackend()
	c, body := newTestController(t, backend)

	if err := c.SetZoom(49); err == nil {
		t.Error("zoom 49 accepted")
	}
	if err := c.SetZoom(201); err == nil {
		t.Error("zoom 201 accepted")
	}
	if err := c.SetZoom(150); err != nil {
		t.Fatal(err)
	}
	found := false
	for _, s := range body.scripts {
		if strings.Contains(s, "150%") {
			found = true
		}
	}
	if !found {
		t.Error("zoom script not applied to the body view")
	}
	if got := c.Snapshot().ZoomPercent; got != 150 {
		t.Errorf("snapshot zoom = %d", got)
	}
}

func TestSetSlotServiceValidation(t *testing.T) {
	backend := newFakeBackend()
	c, body := newTestController(t, backend)

	if err := c.SetSlotService(0, "netscape"); err == nil {
		t.Error("unknown service accepted")
	}
	if err := c.SetSlotService(2, "poe"); err != nil {
		t.Fatal(err)
	}
	// Slot 2 is inactive, so nothing loads yet.
	if got := body.loaded[len(body.loaded)-1]; strings.Contains(got, "poe.com") {
		t.Error("inactive slot assignment triggered a load")
	}
	if err := c.SwitchSlot(2); err != nil {
		t.Fatal(err)
	}
	if got := body.loaded[len(body.loaded)-1]; got != "https://poe.com" {
		t.Errorf("slot 2 loaded %q", got)
	}
}

func TestSetMonitorAndSide(t *testing.T) {
	backend := newFakeBackend()
	c, _ := newTestController(t, backend)

	if err := c.SetMonitor(5); err == nil {
		t.Error("out-of-range monitor accepted")
	}
	if err := c.SetMonitor(1); err != nil {
		t.Fatal(err)
	}
	if err := c.SetSide("left"); err != nil {
		t.Fatal(err)
	}
	if err := c.SetSide("diagonal"); err == nil {
		t.Error("bad side accepted")
	}

	// Sidebar now docks to the left edge of monitor 1.
	backend.cursor = platform.Point{X: 1922, Y: 540}
	c.tick()
	if !backend.mapped[11] {
		t.Fatal("left edge of monitor 1 did not trigger")
	}
	if backend.rects[11].X != 1920 {
		t.Errorf("nav docked at %d, want 1920", backend.rects[11].X)
	}
}

func TestInjectPrompt(t *testing.T) {
	backend := newFakeBackend()
	c, body := newTestController(t, backend)

	prompts := c.Prompts().List()
	if err := c.InjectPromptByID(prompts[0].ID); err != nil {
		t.Fatal(err)
	}
	last := body.scripts[len(body.scripts)-1]
	if !strings.Contains(last, "insertIntoContentEditable") {
		t.Error("inject script not evaluated")
	}

	// Oversized text is trimmed to the content cap before it reaches the page.
	if err := c.InjectText(strings.Repeat("z", 2000) + "TAIL"); err != nil {
		t.Fatal(err)
	}
	last = body.scripts[len(body.scripts)-1]
	if strings.Contains(last, "TAIL") {
		t.Error("injected text not truncated to the content cap")
	}

	body.evalResult = "false"
	if err := c.InjectText("hello"); err == nil {
		t.Error("failed injection reported success")
	}
	if err := c.InjectText("   "); err == nil {
		t.Error("blank text accepted for injection")
	}
}

func TestExpandedChangesNavHeight(t *testing.T) {
	backend := newFakeBackend()
	c, _ := newTestController(t, backend)

	backend.cursor = platform.Point{X: 1918, Y: 540}
	c.tick()
	if backend.rects[11].Height != 150 {
		t.Fatalf("nav height = %d", backend.rects[11].Height)
	}
	c.SetExpanded(true)
	if backend.rects[11].Height != 520 {
		t.Errorf("expanded nav height = %d", backend.rects[11].Height)
	}
	if backend.rects[12].Y != 520 {
		t.Errorf("body top = %d after expansion", backend.rects[12].Y)
	}
	c.SetExpanded(false)
	if backend.rects[11].Height != 150 {
		t.Errorf("collapsed nav height = %d", backend.rects[11].Height)
	}
}
