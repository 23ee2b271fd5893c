// Package placement computes target rectangles for the sidebar's two managed
// windows. All functions are pure; callers hold the controller lock.
package placement

import (
	"fmt"

	"github.com/dockwell/slidebar/internal/platform"
)

// Side identifies which edge of the selected monitor the sidebar hugs.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// ParseSide normalizes arbitrary input to a valid side, defaulting to right.
func ParseSide(s string) Side {
	if Side(s) == SideLeft {
		return SideLeft
	}
	return SideRight
}

// String returns the side's wire representation.
func (s Side) String() string { return string(s) }

// Params are the inputs to a placement computation.
type Params struct {
	Monitor           platform.Rect
	Side              Side
	WidthRatio        float64
	Expanded          bool
	NavHeight         int
	NavExpandedHeight int
	ParkMargin        int
}

// Placement is the computed geometry for both managed windows.
type Placement struct {
	// EdgeX is the docked x-coordinate of both windows.
	EdgeX int
	// ParkX is the off-screen x-coordinate used while hidden. It sits beyond
	// the monitor edge by at least the window width plus the park margin so
	// no sliver stays visible during asynchronous repositioning.
	ParkX int
	// Width is the common pixel width of both windows.
	Width int
	// Nav is the navigation strip rect at the docked position.
	Nav platform.Rect
	// Body is the content rect at the docked position, directly below Nav.
	Body platform.Rect
}

// Compute derives the docked and parked geometry from the params.
// Guarantees: Nav and Body are vertically contiguous and together span
// exactly the monitor height; ParkX is strictly outside the monitor by at
// least Width pixels.
func Compute(p Params) Placement {
	width := int(float64(p.Monitor.Width) * p.WidthRatio)
	if width < 1 {
		width = 1
	}

	navHeight := p.NavHeight
	if p.Expanded {
		navHeight = p.NavExpandedHeight
	}
	if navHeight > p.Monitor.Height {
		navHeight = p.Monitor.Height
	}

	var edgeX, parkX int
	switch p.Side {
	case SideLeft:
		edgeX = p.Monitor.X
		parkX = p.Monitor.X - width - p.ParkMargin
	default:
		edgeX = p.Monitor.Right() - width
		parkX = p.Monitor.Right() + p.ParkMargin
	}

	return Placement{
		EdgeX: edgeX,
		ParkX: parkX,
		Width: width,
		Nav: platform.Rect{
			X:      edgeX,
			Y:      p.Monitor.Y,
			Width:  width,
			Height: navHeight,
		},
		Body: platform.Rect{
			X:      edgeX,
			Y:      p.Monitor.Y + navHeight,
			Width:  width,
			Height: p.Monitor.Height - navHeight,
		},
	}
}

// ParkedNav returns the nav rect translated to the parked position.
func (pl Placement) ParkedNav() platform.Rect {
	r := pl.Nav
	r.X = pl.ParkX
	return r
}

// ParkedBody returns the body rect translated to the parked position.
func (pl Placement) ParkedBody() platform.Rect {
	r := pl.Body
	r.X = pl.ParkX
	return r
}

// SidebarRect returns the full docked footprint (nav plus body), the region
// the visibility machine treats as "inside the sidebar".
func (pl Placement) SidebarRect(monitor platform.Rect) platform.Rect {
	return platform.Rect{
		X:      pl.EdgeX,
		Y:      monitor.Y,
		Width:  pl.Width,
		Height: monitor.Height,
	}
}

// Validate rejects parameter combinations that cannot produce usable
// geometry.
func (p Params) Validate() error {
	if p.Monitor.Width <= 0 || p.Monitor.Height <= 0 {
		return fmt.Errorf("invalid monitor rect: %dx%d", p.Monitor.Width, p.Monitor.Height)
	}
	if p.WidthRatio <= 0 || p.WidthRatio >= 1 {
		return fmt.Errorf("width ratio must be in (0,1), got %v", p.WidthRatio)
	}
	if p.NavHeight <= 0 || p.NavExpandedHeight < p.NavHeight {
		return fmt.Errorf("invalid nav heights: %d/%d", p.NavHeight, p.NavExpandedHeight)
	}
	return nil
}
