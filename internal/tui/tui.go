// Package tui provides the interactive settings form. It talks to the
// running daemon over IPC; nothing here touches the stores directly.
package tui

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/dockwell/slidebar/internal/ipc"
)

// TUI drives a single settings form against the daemon.
type TUI struct {
	client *ipc.Client

	// Form-bound values (strings for huh, converted on submit)
	fMonitor   string
	fSide      string
	fZoom      string
	fRetention string
	fSlots     [3]string
}

// New creates a TUI backed by a fresh IPC client.
func New() *TUI {
	return &TUI{client: ipc.NewClient()}
}

// Run fetches the daemon state, presents the form, and applies whatever
// the user changed. Unchanged fields are not re-sent.
func (t *TUI) Run() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	status, err := t.client.GetStatus()
	if err != nil {
		return err
	}
	monitors, err := t.client.GetMonitors()
	if err != nil {
		return err
	}
	services, err := t.client.ListServices()
	if err != nil {
		return err
	}

	t.fMonitor = strconv.Itoa(status.Monitor)
	t.fSide = status.Side
	t.fZoom = strconv.Itoa(status.ZoomPercent)
	t.fRetention = strconv.Itoa(status.RetentionMinutes)
	for i := 0; i < 3 && i < len(status.SlotServices); i++ {
		t.fSlots[i] = status.SlotServices[i]
	}

	monitorOpts := make([]huh.Option[string], 0, len(monitors.Monitors))
	for i, m := range monitors.Monitors {
		label := fmt.Sprintf("%d: %dx%d at %d,%d", i, m.Width, m.Height, m.X, m.Y)
		if m.Name != "" {
			label = fmt.Sprintf("%d: %s (%dx%d)", i, m.Name, m.Width, m.Height)
		}
		monitorOpts = append(monitorOpts, huh.NewOption(label, strconv.Itoa(i)))
	}

	serviceOpts := make([]huh.Option[string], 0, len(services.Services))
	for _, svc := range services.Services {
		serviceOpts = append(serviceOpts, huh.NewOption(svc.Name, svc.Key))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("monitor").
				Title("Monitor").
				Options(monitorOpts...).
				Value(&t.fMonitor),
			huh.NewSelect[string]().
				Key("side").
				Title("Edge").
				Options(
					huh.NewOption("Left", "left"),
					huh.NewOption("Right", "right"),
				).
				Value(&t.fSide),
			huh.NewInput().
				Key("zoom").
				Title("Zoom %").
				Validate(validatePercent).
				Value(&t.fZoom),
			huh.NewSelect[string]().
				Key("retention").
				Title("Conversation retention").
				Options(
					huh.NewOption("Off", "0"),
					huh.NewOption("10 minutes", "10"),
					huh.NewOption("30 minutes", "30"),
				).
				Value(&t.fRetention),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("slot0").
				Title("Slot 1 service").
				Options(serviceOpts...).
				Value(&t.fSlots[0]),
			huh.NewSelect[string]().
				Key("slot1").
				Title("Slot 2 service").
				Options(serviceOpts...).
				Value(&t.fSlots[1]),
			huh.NewSelect[string]().
				Key("slot2").
				Title("Slot 3 service").
				Options(serviceOpts...).
				Value(&t.fSlots[2]),
		),
	)

	if err := form.Run(); err != nil {
		if err == huh.ErrUserAborted {
			return nil
		}
		return err
	}

	return t.apply(status)
}

func (t *TUI) apply(before *ipc.StatusData) error {
	if mon, err := strconv.Atoi(t.fMonitor); err == nil && mon != before.Monitor {
		if err := t.client.SetMonitor(mon); err != nil {
			return err
		}
	}
	if t.fSide != before.Side {
		if err := t.client.SetSide(t.fSide); err != nil {
			return err
		}
	}
	if zoom, err := strconv.Atoi(t.fZoom); err == nil && zoom != before.ZoomPercent {
		if err := t.client.SetZoom(zoom); err != nil {
			return err
		}
	}
	if mins, err := strconv.Atoi(t.fRetention); err == nil && mins != before.RetentionMinutes {
		if err := t.client.SetRetention(mins); err != nil {
			return err
		}
	}
	for i, key := range t.fSlots {
		if key == "" {
			continue
		}
		if i < len(before.SlotServices) && key == before.SlotServices[i] {
			continue
		}
		if err := t.client.SetSlotService(i, key); err != nil {
			return err
		}
	}

	status, err := t.client.GetStatus()
	if err != nil {
		return err
	}
	fmt.Print(RenderStatus(status))
	return nil
}

func validatePercent(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if n < 50 || n > 200 {
		return fmt.Errorf("must be between 50 and 200")
	}
	return nil
}
