// Package ipc implements the daemon's control protocol: newline-delimited
// JSON over a unix socket, one request and one response per connection.
package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetStatus       CommandType = "GET_STATUS"
	CommandGetMonitors     CommandType = "GET_MONITORS"
	CommandRefreshMonitors CommandType = "REFRESH_MONITORS"
	CommandSetMonitor      CommandType = "SET_MONITOR"
	CommandSetSide         CommandType = "SET_SIDE"
	CommandSetZoom         CommandType = "SET_ZOOM"
	CommandSetRetention    CommandType = "SET_RETENTION"
	CommandTogglePin       CommandType = "TOGGLE_PIN"
	CommandSetExpanded     CommandType = "SET_EXPANDED"
	CommandSwitchSlot      CommandType = "SWITCH_SLOT"
	CommandSetSlotService  CommandType = "SET_SLOT_SERVICE"
	CommandListServices    CommandType = "LIST_SERVICES"
	CommandListPrompts     CommandType = "LIST_PROMPTS"
	CommandAddPrompt       CommandType = "ADD_PROMPT"
	CommandUpdatePrompt    CommandType = "UPDATE_PROMPT"
	CommandDeletePrompt    CommandType = "DELETE_PROMPT"
	CommandTogglePromptFA  CommandType = "TOGGLE_PROMPT_FAST_ACCESS"
	CommandInjectPrompt    CommandType = "INJECT_PROMPT"
	CommandReload          CommandType = "RELOAD"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Visible          bool     `json:"visible"`
	Pinned           bool     `json:"pinned"`
	Expanded         bool     `json:"expanded"`
	Monitor          int      `json:"monitor"`
	MonitorCount     int      `json:"monitor_count"`
	Side             string   `json:"side"`
	ZoomPercent      int      `json:"zoom_percent"`
	RetentionMinutes int      `json:"retention_minutes"`
	ActiveSlot       int      `json:"active_slot"`
	SlotServices     []string `json:"slot_services"`
	UptimeSeconds    int64    `json:"uptime_seconds"`
	DaemonRunning    bool     `json:"daemon_running"`
}

// MonitorInfo represents information about a single monitor
type MonitorInfo struct {
	ID     int    `json:"id"`
	Name   string `json:"name,omitempty"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// MonitorsData represents the data returned by GET_MONITORS
type MonitorsData struct {
	Monitors []MonitorInfo `json:"monitors"`
	Selected int           `json:"selected"`
}

// RefreshMonitorsData represents the data returned by REFRESH_MONITORS
type RefreshMonitorsData struct {
	Count int `json:"count"`
}

type SetMonitorPayload struct {
	Monitor int `json:"monitor"`
}

type SetSidePayload struct {
	Side string `json:"side"`
}

type SetZoomPayload struct {
	Percent int `json:"percent"`
}

type SetRetentionPayload struct {
	Minutes int `json:"minutes"`
}

type SetExpandedPayload struct {
	Expanded bool `json:"expanded"`
}

type SwitchSlotPayload struct {
	Slot int `json:"slot"`
}

type SetSlotServicePayload struct {
	Slot    int    `json:"slot"`
	Service string `json:"service"`
}

// PinData represents the data returned by TOGGLE_PIN
type PinData struct {
	Pinned bool `json:"pinned"`
}

// ServiceInfo describes one cataloged chat service
type ServiceInfo struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

type ServicesData struct {
	Services []ServiceInfo `json:"services"`
}

// PromptInfo describes one saved prompt
type PromptInfo struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Content    string `json:"content"`
	FastAccess bool   `json:"fast_access"`
}

type PromptsData struct {
	Prompts []PromptInfo `json:"prompts"`
}

type AddPromptPayload struct {
	Name       string `json:"name"`
	Content    string `json:"content"`
	FastAccess bool   `json:"fast_access"`
}

type UpdatePromptPayload struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

type PromptIDPayload struct {
	ID int `json:"id"`
}

// InjectPromptPayload injects either a saved prompt by ID or literal text.
type InjectPromptPayload struct {
	ID   int    `json:"id,omitempty"`
	Text string `json:"text,omitempty"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}
	return &Response{Status: "OK", Data: dataBytes}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{Status: "ERROR", Error: errMsg}
}

// Marshal serializes the response
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

// ParseRequest parses a request from raw bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	if req.Command == "" {
		return nil, fmt.Errorf("missing command")
	}
	return &req, nil
}

// decodePayload unmarshals a request payload into out.
func decodePayload(req *Request, out interface{}) error {
	if len(req.Payload) == 0 {
		return fmt.Errorf("%s requires a payload", req.Command)
	}
	if err := json.Unmarshal(req.Payload, out); err != nil {
		return fmt.Errorf("invalid %s payload: %w", req.Command, err)
	}
	return nil
}
