// Package mcp exposes the sidebar's operations as MCP tools so agents can
// drive the daemon over the same IPC surface the CLI uses.
package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dockwell/slidebar/internal/ipc"
)

const (
	ServerName    = "slidebar"
	ServerVersion = "0.1.0"
)

// Server is the MCP server, a thin adapter over the IPC client.
type Server struct {
	mcpServer *mcpsdk.Server
	client    *ipc.Client
}

// NewServer creates the MCP server. The daemon must be running for the
// tools to succeed; errors surface per call.
func NewServer() *Server {
	s := &Server{client: ipc.NewClient()}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Get the sidebar daemon status: visibility, pin state, selected monitor and side, zoom, retention window, and slot assignments.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_monitors",
		Description: "List the connected monitors with their geometry and which one the sidebar docks to.",
	}, s.handleListMonitors)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_monitor",
		Description: "Dock the sidebar to a different monitor by zero-based index.",
	}, s.handleSetMonitor)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_side",
		Description: "Dock the sidebar to the left or right edge of its monitor.",
	}, s.handleSetSide)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_zoom",
		Description: "Set the page zoom of the embedded chat views (50-200 percent).",
	}, s.handleSetZoom)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_retention",
		Description: "Set how long conversation URLs are retained across slot switches: 0 (off), 10, or 30 minutes.",
	}, s.handleSetRetention)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_pin",
		Description: "Toggle the pin. A pinned sidebar shows immediately and never auto-hides.",
	}, s.handleTogglePin)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "switch_slot",
		Description: "Activate one of the three service slots (0-2).",
	}, s.handleSwitchSlot)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_slot_service",
		Description: "Assign a chat service to a slot. Use list_services for valid keys.",
	}, s.handleSetSlotService)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_services",
		Description: "List the supported chat services and their home URLs.",
	}, s.handleListServices)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_prompts",
		Description: "List the saved prompt templates.",
	}, s.handleListPrompts)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "add_prompt",
		Description: "Save a new prompt template. Name up to 150 characters, content up to 2000.",
	}, s.handleAddPrompt)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "inject_prompt",
		Description: "Type a prompt into the active chat's input field, either a saved prompt by ID or literal text.",
	}, s.handleInjectPrompt)
}

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, GetStatusOutput, error) {
	st, err := s.client.GetStatus()
	if err != nil {
		return nil, GetStatusOutput{}, err
	}
	return nil, GetStatusOutput{
		Visible:          st.Visible,
		Pinned:           st.Pinned,
		Monitor:          st.Monitor,
		MonitorCount:     st.MonitorCount,
		Side:             st.Side,
		ZoomPercent:      st.ZoomPercent,
		RetentionMinutes: st.RetentionMinutes,
		ActiveSlot:       st.ActiveSlot,
		SlotServices:     st.SlotServices,
	}, nil
}

func (s *Server) handleListMonitors(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListMonitorsInput) (*mcpsdk.CallToolResult, ListMonitorsOutput, error) {
	data, err := s.client.GetMonitors()
	if err != nil {
		return nil, ListMonitorsOutput{}, err
	}
	out := ListMonitorsOutput{}
	for i, m := range data.Monitors {
		out.Monitors = append(out.Monitors, MonitorOutput{
			Index:    i,
			Name:     m.Name,
			X:        m.X,
			Y:        m.Y,
			Width:    m.Width,
			Height:   m.Height,
			Selected: i == data.Selected,
		})
	}
	return nil, out, nil
}

func (s *Server) handleSetMonitor(_ context.Context, _ *mcpsdk.CallToolRequest, args SetMonitorInput) (*mcpsdk.CallToolResult, any, error) {
	return nil, nil, s.client.SetMonitor(args.Monitor)
}

func (s *Server) handleSetSide(_ context.Context, _ *mcpsdk.CallToolRequest, args SetSideInput) (*mcpsdk.CallToolResult, any, error) {
	return nil, nil, s.client.SetSide(args.Side)
}

func (s *Server) handleSetZoom(_ context.Context, _ *mcpsdk.CallToolRequest, args SetZoomInput) (*mcpsdk.CallToolResult, any, error) {
	return nil, nil, s.client.SetZoom(args.Percent)
}

func (s *Server) handleSetRetention(_ context.Context, _ *mcpsdk.CallToolRequest, args SetRetentionInput) (*mcpsdk.CallToolResult, any, error) {
	return nil, nil, s.client.SetRetention(args.Minutes)
}

func (s *Server) handleTogglePin(_ context.Context, _ *mcpsdk.CallToolRequest, _ TogglePinInput) (*mcpsdk.CallToolResult, TogglePinOutput, error) {
	pinned, err := s.client.TogglePin()
	if err != nil {
		return nil, TogglePinOutput{}, err
	}
	return nil, TogglePinOutput{Pinned: pinned}, nil
}

func (s *Server) handleSwitchSlot(_ context.Context, _ *mcpsdk.CallToolRequest, args SwitchSlotInput) (*mcpsdk.CallToolResult, any, error) {
	return nil, nil, s.client.SwitchSlot(args.Slot)
}

func (s *Server) handleSetSlotService(_ context.Context, _ *mcpsdk.CallToolRequest, args SetSlotServiceInput) (*mcpsdk.CallToolResult, any, error) {
	return nil, nil, s.client.SetSlotService(args.Slot, args.Service)
}

func (s *Server) handleListServices(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListServicesInput) (*mcpsdk.CallToolResult, ListServicesOutput, error) {
	data, err := s.client.ListServices()
	if err != nil {
		return nil, ListServicesOutput{}, err
	}
	out := ListServicesOutput{}
	for _, svc := range data.Services {
		out.Services = append(out.Services, ServiceOutput{Key: svc.Key, Name: svc.Name, URL: svc.URL})
	}
	return nil, out, nil
}

func (s *Server) handleListPrompts(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListPromptsInput) (*mcpsdk.CallToolResult, ListPromptsOutput, error) {
	data, err := s.client.ListPrompts()
	if err != nil {
		return nil, ListPromptsOutput{}, err
	}
	out := ListPromptsOutput{}
	for _, p := range data.Prompts {
		out.Prompts = append(out.Prompts, PromptOutput{ID: p.ID, Name: p.Name, Content: p.Content, FastAccess: p.FastAccess})
	}
	return nil, out, nil
}

func (s *Server) handleAddPrompt(_ context.Context, _ *mcpsdk.CallToolRequest, args AddPromptInput) (*mcpsdk.CallToolResult, AddPromptOutput, error) {
	p, err := s.client.AddPrompt(args.Name, args.Content, args.FastAccess)
	if err != nil {
		return nil, AddPromptOutput{}, err
	}
	return nil, AddPromptOutput{ID: p.ID}, nil
}

func (s *Server) handleInjectPrompt(_ context.Context, _ *mcpsdk.CallToolRequest, args InjectPromptInput) (*mcpsdk.CallToolResult, any, error) {
	if args.Text == "" && args.ID == 0 {
		return nil, nil, fmt.Errorf("either id or text must be set")
	}
	if args.Text != "" {
		return nil, nil, s.client.InjectText(args.Text)
	}
	return nil, nil, s.client.InjectPrompt(args.ID)
}
