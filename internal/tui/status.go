package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dockwell/slidebar/internal/ipc"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(12)
	onStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	offStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	slotStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
)

// RenderStatus formats a daemon status snapshot for terminal output.
func RenderStatus(st *ipc.StatusData) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("slidebar"))
	sb.WriteString("\n")

	visible := offStyle.Render("hidden")
	if st.Visible {
		visible = onStyle.Render("visible")
	}
	if st.Pinned {
		visible += " " + onStyle.Render("(pinned)")
	}
	row(&sb, "State", visible)
	row(&sb, "Monitor", fmt.Sprintf("%d of %d, %s edge", st.Monitor, st.MonitorCount, st.Side))
	row(&sb, "Zoom", fmt.Sprintf("%d%%", st.ZoomPercent))

	retention := "off"
	if st.RetentionMinutes > 0 {
		retention = fmt.Sprintf("%d minutes", st.RetentionMinutes)
	}
	row(&sb, "Retention", retention)

	slots := make([]string, 0, len(st.SlotServices))
	for i, svc := range st.SlotServices {
		if i == st.ActiveSlot {
			slots = append(slots, slotStyle.Render("["+svc+"]"))
		} else {
			slots = append(slots, svc)
		}
	}
	row(&sb, "Slots", strings.Join(slots, " "))

	if st.UptimeSeconds > 0 {
		row(&sb, "Uptime", fmt.Sprintf("%ds", st.UptimeSeconds))
	}

	return sb.String()
}

func row(sb *strings.Builder, label, value string) {
	sb.WriteString(labelStyle.Render(label))
	sb.WriteString(" ")
	sb.WriteString(value)
	sb.WriteString("\n")
}
