// Package store persists user settings and saved prompts under the state
// directory, one diskv key per document, JSON values.
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/peterbourgon/diskv/v3"

	"github.com/dockwell/slidebar/internal/browser"
	"github.com/dockwell/slidebar/internal/placement"
)

const settingsKey = "settings"

// Settings is everything the user can change at runtime. All fields survive
// restarts; transient state (visibility, pin) does not.
type Settings struct {
	Monitor          int      `json:"monitor"`
	Side             string   `json:"side"`
	ZoomPercent      int      `json:"zoom_percent"`
	RetentionMinutes int      `json:"retention_minutes"`
	SlotServices     []string `json:"slot_services"`
	ActiveSlot       int      `json:"active_slot"`
}

// DefaultSettings returns the fresh-install state.
func DefaultSettings() Settings {
	return Settings{
		Monitor:          0,
		Side:             placement.SideRight.String(),
		ZoomPercent:      100,
		RetentionMinutes: 0,
		SlotServices:     browser.NormalizeSlots(nil),
		ActiveSlot:       0,
	}
}

// validRetention is the set of accepted retention windows in minutes.
var validRetention = map[int]bool{0: true, 10: true, 30: true}

// Normalize clamps every field into its valid range. Unknown or corrupted
// values collapse to the defaults rather than failing the load.
func (s Settings) Normalize() Settings {
	if s.Monitor < 0 {
		s.Monitor = 0
	}
	s.Side = placement.ParseSide(s.Side).String()
	if s.ZoomPercent < 50 {
		s.ZoomPercent = 50
	}
	if s.ZoomPercent > 200 {
		s.ZoomPercent = 200
	}
	if !validRetention[s.RetentionMinutes] {
		s.RetentionMinutes = 0
	}
	s.SlotServices = browser.NormalizeSlots(s.SlotServices)
	if s.ActiveSlot < 0 || s.ActiveSlot >= len(s.SlotServices) {
		s.ActiveSlot = 0
	}
	return s
}

// ValidRetention reports whether minutes is an accepted retention window.
func ValidRetention(minutes int) bool {
	return validRetention[minutes]
}

// SettingsStore persists Settings with debounced writes. Rapid-fire changes
// from the UI collapse into one disk write.
type SettingsStore struct {
	d        *diskv.Diskv
	logger   *slog.Logger
	debounce time.Duration

	mu      sync.Mutex
	current Settings
	timer   *time.Timer
	closed  bool
}

// NewSettingsStore opens (or initializes) the settings under dir.
func NewSettingsStore(dir string, debounce time.Duration, logger *slog.Logger) *SettingsStore {
	if debounce <= 0 {
		debounce = time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &SettingsStore{
		d: diskv.New(diskv.Options{
			BasePath:     dir,
			CacheSizeMax: 64 * 1024,
		}),
		logger:   logger,
		debounce: debounce,
	}
	s.current = s.load()
	return s
}

// load reads and normalizes the persisted settings. Missing or corrupted
// data yields the defaults.
func (s *SettingsStore) load() Settings {
	val, err := s.d.Read(settingsKey)
	if err != nil {
		return DefaultSettings()
	}
	var got Settings
	if err := json.Unmarshal(val, &got); err != nil {
		s.logger.Warn("settings corrupted, using defaults", "error", err)
		return DefaultSettings()
	}
	return got.Normalize()
}

// Get returns the current settings.
func (s *SettingsStore) Get() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Update applies fn to the current settings, normalizes the result, and
// schedules a debounced save. Returns the new settings.
func (s *SettingsStore) Update(fn func(*Settings)) Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.current
	fn(&next)
	s.current = next.Normalize()
	s.scheduleSaveLocked()
	return s.current
}

func (s *SettingsStore) scheduleSaveLocked() {
	if s.closed {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, func() {
		if err := s.Flush(); err != nil {
			s.logger.Error("failed to save settings", "error", err)
		}
	})
}

// Flush writes the current settings to disk immediately.
func (s *SettingsStore) Flush() error {
	s.mu.Lock()
	current := s.current
	s.mu.Unlock()

	val, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := s.d.Write(settingsKey, val); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// Close cancels any pending debounce and flushes once.
func (s *SettingsStore) Close() error {
	s.mu.Lock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	return s.Flush()
}
