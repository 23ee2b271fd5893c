package ipc

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/dockwell/slidebar/internal/browser"
	"github.com/dockwell/slidebar/internal/runtimepath"
	"github.com/dockwell/slidebar/internal/sidebar"
	"github.com/dockwell/slidebar/internal/store"
)

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	controller   *sidebar.Controller
	reloadChan   chan struct{}
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server. Writes to reloadChan ask the daemon to
// reload its configuration.
func NewServer(controller *sidebar.Controller, reloadChan chan struct{}) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}

	// A connectable socket means another daemon owns it. A stale socket
	// from a crashed daemon refuses the dial and is safe to remove.
	if conn, err := net.DialTimeout("unix", socketPath, time.Second); err == nil {
		conn.Close()
		return nil, fmt.Errorf("another slidebar daemon is already running on %s", socketPath)
	}
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		controller: controller,
		reloadChan: reloadChan,
	}, nil
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	go s.acceptLoop()
	return nil
}

// Stop shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			log.Printf("IPC accept error: %v", err)
			continue
		}
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("IPC marshal error: %v", err)
		return
	}
	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("IPC write error: %v", err)
	}
}

func (s *Server) sendError(conn net.Conn, msg string) {
	resp := NewErrorResponse(msg)
	if data, err := resp.Marshal(); err == nil {
		conn.Write(append(data, '\n'))
	}
}

// handleCommand dispatches a request to the controller.
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandGetMonitors:
		return s.handleGetMonitors()
	case CommandRefreshMonitors:
		return okOr(RefreshMonitorsData{Count: s.controller.RefreshMonitors()}, nil)
	case CommandSetMonitor:
		var p SetMonitorPayload
		if err := decodePayload(req, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		return okOr(nil, s.controller.SetMonitor(p.Monitor))
	case CommandSetSide:
		var p SetSidePayload
		if err := decodePayload(req, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		return okOr(nil, s.controller.SetSide(p.Side))
	case CommandSetZoom:
		var p SetZoomPayload
		if err := decodePayload(req, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		return okOr(nil, s.controller.SetZoom(p.Percent))
	case CommandSetRetention:
		var p SetRetentionPayload
		if err := decodePayload(req, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		return okOr(nil, s.controller.SetRetention(p.Minutes))
	case CommandTogglePin:
		return okOr(PinData{Pinned: s.controller.TogglePin()}, nil)
	case CommandSetExpanded:
		var p SetExpandedPayload
		if err := decodePayload(req, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		s.controller.SetExpanded(p.Expanded)
		return okOr(nil, nil)
	case CommandSwitchSlot:
		var p SwitchSlotPayload
		if err := decodePayload(req, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		return okOr(nil, s.controller.SwitchSlot(p.Slot))
	case CommandSetSlotService:
		var p SetSlotServicePayload
		if err := decodePayload(req, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		return okOr(nil, s.controller.SetSlotService(p.Slot, p.Service))
	case CommandListServices:
		return s.handleListServices()
	case CommandListPrompts:
		return s.handleListPrompts()
	case CommandAddPrompt:
		var p AddPromptPayload
		if err := decodePayload(req, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		prompt, err := s.controller.Prompts().Add(p.Name, p.Content, p.FastAccess)
		if err == nil {
			s.controller.RefreshNav()
		}
		return okOr(promptInfo(prompt), err)
	case CommandUpdatePrompt:
		var p UpdatePromptPayload
		if err := decodePayload(req, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		prompt, err := s.controller.Prompts().Update(p.ID, p.Name, p.Content)
		if err == nil {
			s.controller.RefreshNav()
		}
		return okOr(promptInfo(prompt), err)
	case CommandDeletePrompt:
		var p PromptIDPayload
		if err := decodePayload(req, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		if err := s.controller.Prompts().Delete(p.ID); err != nil {
			return NewErrorResponse(err.Error())
		}
		s.controller.RefreshNav()
		return okOr(nil, nil)
	case CommandTogglePromptFA:
		var p PromptIDPayload
		if err := decodePayload(req, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		prompt, err := s.controller.Prompts().ToggleFastAccess(p.ID)
		if err == nil {
			s.controller.RefreshNav()
		}
		return okOr(promptInfo(prompt), err)
	case CommandInjectPrompt:
		var p InjectPromptPayload
		if err := decodePayload(req, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		if p.Text != "" {
			return okOr(nil, s.controller.InjectText(p.Text))
		}
		return okOr(nil, s.controller.InjectPromptByID(p.ID))
	case CommandReload:
		select {
		case s.reloadChan <- struct{}{}:
		default:
		}
		return okOr(nil, nil)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleGetStatus() *Response {
	st := s.controller.Snapshot()
	return okOr(StatusData{
		Visible:          st.Visible,
		Pinned:           st.Pinned,
		Expanded:         st.Expanded,
		Monitor:          st.Monitor,
		MonitorCount:     st.MonitorCount,
		Side:             st.Side,
		ZoomPercent:      st.ZoomPercent,
		RetentionMinutes: st.RetentionMinutes,
		ActiveSlot:       st.ActiveSlot,
		SlotServices:     st.SlotServices,
		UptimeSeconds:    int64(st.Uptime.Seconds()),
		DaemonRunning:    true,
	}, nil)
}

func (s *Server) handleGetMonitors() *Response {
	displays, selected := s.controller.Displays()
	data := MonitorsData{Selected: selected, Monitors: make([]MonitorInfo, 0, len(displays))}
	for _, d := range displays {
		data.Monitors = append(data.Monitors, MonitorInfo{
			ID:     d.ID,
			Name:   d.Name,
			X:      d.Bounds.X,
			Y:      d.Bounds.Y,
			Width:  d.Bounds.Width,
			Height: d.Bounds.Height,
		})
	}
	return okOr(data, nil)
}

func (s *Server) handleListServices() *Response {
	data := ServicesData{}
	for _, svc := range browser.Services() {
		data.Services = append(data.Services, ServiceInfo{Key: svc.Key, Name: svc.Name, URL: svc.URL})
	}
	return okOr(data, nil)
}

func (s *Server) handleListPrompts() *Response {
	data := PromptsData{}
	for _, p := range s.controller.Prompts().List() {
		data.Prompts = append(data.Prompts, promptInfo(p))
	}
	return okOr(data, nil)
}

func promptInfo(p store.Prompt) PromptInfo {
	return PromptInfo{ID: p.ID, Name: p.Name, Content: p.Content, FastAccess: p.FastAccess}
}

// okOr folds the common handler result shape: an error response when err is
// set, otherwise OK with data.
func okOr(data interface{}, err error) *Response {
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, merr := NewOKResponse(data)
	if merr != nil {
		return NewErrorResponse(merr.Error())
	}
	return resp
}
