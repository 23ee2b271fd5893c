// Package monitors maintains the enumerated display list and resolves
// adjacency between the selected monitor and its neighbors.
package monitors

import (
	"fmt"

	"github.com/dockwell/slidebar/internal/platform"
)

// Enumerator is the subset of the platform backend the monitor map needs.
type Enumerator interface {
	Displays() ([]platform.Display, error)
	VirtualScreen() (platform.Rect, error)
}

// Map holds a snapshot of the enumerated displays. It is rebuilt on demand;
// callers serialize access through the sidebar controller's lock.
type Map struct {
	enum     Enumerator
	displays []platform.Display
}

// NewMap enumerates displays once and returns the map. Enumeration failure is
// a recoverable environment error: the map starts empty and Rect falls back
// to the virtual screen.
func NewMap(enum Enumerator) *Map {
	m := &Map{enum: enum}
	m.Refresh()
	return m
}

// Refresh re-enumerates displays. Returns the new count.
func (m *Map) Refresh() int {
	displays, err := m.enum.Displays()
	if err != nil || len(displays) == 0 {
		m.displays = nil
		return 0
	}
	m.displays = displays
	return len(displays)
}

// Count returns the number of enumerated displays.
func (m *Map) Count() int {
	return len(m.displays)
}

// Displays returns the current snapshot.
func (m *Map) Displays() []platform.Display {
	return m.displays
}

// ClampIndex normalizes a monitor index against the current snapshot.
// Out-of-range or negative indices collapse to 0.
func (m *Map) ClampIndex(index int) int {
	if index < 0 || index >= len(m.displays) {
		return 0
	}
	return index
}

// Rect returns the bounds of the display at index. When nothing was
// enumerated it falls back to the virtual screen so placement still works.
func (m *Map) Rect(index int) platform.Rect {
	if index >= 0 && index < len(m.displays) {
		return m.displays[index].Bounds
	}
	if m.enum != nil {
		if vs, err := m.enum.VirtualScreen(); err == nil && vs.Width > 0 && vs.Height > 0 {
			return vs
		}
	}
	return platform.Rect{Width: 1920, Height: 1080}
}

// Describe returns a human-readable label for the display at index.
func (m *Map) Describe(index int) string {
	if index < 0 || index >= len(m.displays) {
		return fmt.Sprintf("Monitor %d", index+1)
	}
	d := m.displays[index]
	return fmt.Sprintf("Monitor %d (%dx%d)", index+1, d.Bounds.Width, d.Bounds.Height)
}
