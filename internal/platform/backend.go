package platform

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in virtual-desktop pixel coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Right returns the exclusive right edge of the rect.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the exclusive bottom edge of the rect.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Contains reports whether the point (x, y) lies inside the rect.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Display describes a physical display.
type Display struct {
	ID     int
	Name   string
	Bounds Rect
}

// Point is a cursor position in virtual-desktop coordinates.
type Point struct {
	X int
	Y int
}

// Backend abstracts the window-system operations the sidebar needs. The X11
// implementation lives in backend_linux.go; tests substitute a fake.
type Backend interface {
	// Displays returns all active displays ordered by ascending left edge.
	Displays() ([]Display, error)

	// VirtualScreen returns the bounding rect of the whole virtual desktop,
	// used as a fallback when no display can be enumerated.
	VirtualScreen() (Rect, error)

	// CursorPosition returns the global cursor position.
	CursorPosition() (Point, error)

	// FindWindow locates a top-level window by its exact title. Returns 0
	// (no error) when the window does not exist yet.
	FindWindow(title string) (WindowID, error)

	// WindowRect returns the current OS-reported rect of a window.
	WindowRect(id WindowID) (Rect, error)

	// MoveResize commands a window rect without changing z-order or focus.
	MoveResize(id WindowID, bounds Rect) error

	// Show maps a window without activating it.
	Show(id WindowID) error

	// Hide unmaps a window.
	Hide(id WindowID) error

	// Raise moves a window to the top of the stack without focusing it.
	Raise(id WindowID) error

	// LockStyle strips decorations and taskbar/switcher presence from a
	// window. Safe to call more than once.
	LockStyle(id WindowID) error
}
