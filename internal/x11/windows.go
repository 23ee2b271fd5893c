package x11

import (
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/motif"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// FindWindowByTitle scans the window manager's client list for a window whose
// title matches exactly. Returns 0 when no such window exists yet, which is
// normal during startup while the webview host is still creating windows.
func (c *Connection) FindWindowByTitle(title string) (xproto.Window, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return 0, err
	}

	for _, windowID := range clients {
		if c.windowTitle(windowID) == title {
			return windowID, nil
		}
	}
	return 0, nil
}

func (c *Connection) windowTitle(windowID xproto.Window) string {
	if title, err := ewmh.WmNameGet(c.XUtil, windowID); err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}
	if title, err := icccm.WmNameGet(c.XUtil, windowID); err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}

// WindowRect returns a window's rect in root coordinates. Frame-translated so
// repositioning math works for reparenting window managers too.
func (c *Connection) WindowRect(windowID xproto.Window) (x, y, width, height int, err error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return 0, 0, 0, 0, err
	}

	translate, err := xproto.TranslateCoordinates(c.XUtil.Conn(), windowID, c.Root, 0, 0).Reply()
	if err != nil {
		return 0, 0, 0, 0, err
	}

	return int(translate.DstX), int(translate.DstY), int(geom.Width), int(geom.Height), nil
}

// MoveResizeWindow commands a window rect directly, bypassing EWMH so the
// request changes neither stacking order nor input focus.
func (c *Connection) MoveResizeWindow(windowID xproto.Window, x, y, width, height int) error {
	win := xwindow.New(c.XUtil, windowID)
	win.MROpt(xproto.ConfigWindowX|xproto.ConfigWindowY|
		xproto.ConfigWindowWidth|xproto.ConfigWindowHeight, x, y, width, height)
	return nil
}

// ShowWindow maps a window without giving it input focus.
func (c *Connection) ShowWindow(windowID xproto.Window) error {
	xwindow.New(c.XUtil, windowID).Map()
	return nil
}

// HideWindow unmaps a window.
func (c *Connection) HideWindow(windowID xproto.Window) error {
	xwindow.New(c.XUtil, windowID).Unmap()
	return nil
}

// RaiseWindow moves a window to the top of the stacking order without
// activating it, so typing elsewhere is never interrupted.
func (c *Connection) RaiseWindow(windowID xproto.Window) error {
	return xproto.ConfigureWindowChecked(
		c.XUtil.Conn(),
		windowID,
		xproto.ConfigWindowStackMode,
		[]uint32{xproto.StackModeAbove},
	).Check()
}

// LockWindowStyle strips decorations via Motif hints and marks the window as
// a skip-taskbar, skip-pager utility window kept above normal windows. The
// caller is responsible for calling this only once per window.
func (c *Connection) LockWindowStyle(windowID xproto.Window) error {
	hints := &motif.Hints{
		Flags:      motif.HintDecorations,
		Decoration: motif.DecorationNone,
	}
	if err := motif.WmHintsSet(c.XUtil, windowID, hints); err != nil {
		return err
	}

	if err := ewmh.WmWindowTypeSet(c.XUtil, windowID, []string{"_NET_WM_WINDOW_TYPE_UTILITY"}); err != nil {
		return err
	}

	// Best effort; some window managers ignore one or more of these.
	ewmh.WmStateReq(c.XUtil, windowID, ewmh.StateAdd, "_NET_WM_STATE_SKIP_TASKBAR")
	ewmh.WmStateReq(c.XUtil, windowID, ewmh.StateAdd, "_NET_WM_STATE_SKIP_PAGER")
	ewmh.WmStateReq(c.XUtil, windowID, ewmh.StateAdd, "_NET_WM_STATE_ABOVE")

	return nil
}
