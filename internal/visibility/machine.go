// Package visibility implements the edge-trigger show/hide state machine for
// the sidebar. The machine is pure state plus cursor samples; it never talks
// to the window system, it only decides what should be on screen.
package visibility

import (
	"github.com/dockwell/slidebar/internal/placement"
	"github.com/dockwell/slidebar/internal/platform"
)

// Sample is one cursor observation plus the geometry it is judged against.
type Sample struct {
	Cursor  platform.Point
	Monitor platform.Rect
	// Adjacent is the neighboring monitor on the sidebar's side, nil when
	// there is none.
	Adjacent *platform.Rect
	Side     placement.Side
	// Sidebar is the docked footprint of both windows combined.
	Sidebar platform.Rect
	// TriggerPx is the depth of the edge strip that summons the sidebar.
	TriggerPx int
	// HideSlackPx is how far past the sidebar's inner edge the cursor must
	// travel before an auto-hide fires.
	HideSlackPx int
	Pinned      bool
}

// Decision is the outcome of a tick. Changed reports whether Visible differs
// from the last applied state, so callers only touch windows on transitions.
type Decision struct {
	Visible bool
	Changed bool
}

// Machine tracks the desired visibility and the last state actually applied
// to the windows. Not safe for concurrent use; the controller serializes
// ticks under its lock.
type Machine struct {
	visible     bool
	applied     bool
	appliedOnce bool
}

// New returns a machine starting hidden with no applied state, so the first
// tick always reports a change.
func New() *Machine {
	return &Machine{}
}

// Visible reports the current desired visibility.
func (m *Machine) Visible() bool { return m.visible }

// SetVisible forces the desired state, used by pin and explicit commands.
// The change surfaces through the next Tick.
func (m *Machine) SetVisible(v bool) { m.visible = v }

// Invalidate forgets the applied state. Call after the target monitor or
// side changes so the next tick re-applies geometry even if visibility is
// nominally unchanged.
func (m *Machine) Invalidate() { m.appliedOnce = false }

// Tick feeds one cursor sample through the machine and returns the decision.
func (m *Machine) Tick(s Sample) Decision {
	if m.visible {
		if !s.Pinned && m.shouldHide(s) {
			m.visible = false
		}
	} else if !s.Pinned && m.inTriggerZone(s) {
		m.visible = true
	}

	changed := !m.appliedOnce || m.visible != m.applied
	m.applied = m.visible
	m.appliedOnce = true
	return Decision{Visible: m.visible, Changed: changed}
}

// inTriggerZone reports whether the cursor is in the edge strip of the
// selected monitor or anywhere on the adjacent monitor.
func (m *Machine) inTriggerZone(s Sample) bool {
	c := s.Cursor
	if c.Y >= s.Monitor.Y && c.Y < s.Monitor.Bottom() {
		switch s.Side {
		case placement.SideLeft:
			if c.X >= s.Monitor.X && c.X < s.Monitor.X+s.TriggerPx {
				return true
			}
		default:
			if c.X >= s.Monitor.Right()-s.TriggerPx && c.X < s.Monitor.Right() {
				return true
			}
		}
	}
	return s.Adjacent != nil && s.Adjacent.Contains(c.X, c.Y)
}

// shouldHide applies the hysteresis rules: the cursor must have left the
// extended sidebar area, and either retreated past the slack distance on the
// selected monitor or left the vertical span of every involved monitor.
func (m *Machine) shouldHide(s Sample) bool {
	c := s.Cursor
	if s.Sidebar.Contains(c.X, c.Y) {
		return false
	}
	if s.Adjacent != nil && s.Adjacent.Contains(c.X, c.Y) {
		return false
	}

	var movedAway bool
	if s.Side == placement.SideLeft {
		movedAway = c.X > s.Sidebar.Right()+s.HideSlackPx
	} else {
		movedAway = c.X < s.Sidebar.X-s.HideSlackPx
	}
	movedAway = movedAway && s.Monitor.Contains(c.X, c.Y)

	outsideY := c.Y < s.Monitor.Y || c.Y >= s.Monitor.Bottom()
	if outsideY && s.Adjacent != nil {
		outsideY = c.Y < s.Adjacent.Y || c.Y >= s.Adjacent.Bottom()
	}

	return movedAway || outsideY
}
