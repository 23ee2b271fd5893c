package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/dockwell/slidebar/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}
	return &resp, nil
}

// send marshals a payload, sends the command, and optionally decodes data.
func (c *Client) send(cmd CommandType, payload interface{}, out interface{}) error {
	req := &Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		req.Payload = data
	}
	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out != nil {
		if err := json.Unmarshal(resp.Data, out); err != nil {
			return fmt.Errorf("failed to parse response data: %w", err)
		}
	}
	return nil
}

// GetStatus queries the daemon status.
func (c *Client) GetStatus() (*StatusData, error) {
	var data StatusData
	if err := c.send(CommandGetStatus, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetMonitors lists the enumerated monitors.
func (c *Client) GetMonitors() (*MonitorsData, error) {
	var data MonitorsData
	if err := c.send(CommandGetMonitors, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// RefreshMonitors asks the daemon to re-enumerate displays.
func (c *Client) RefreshMonitors() (int, error) {
	var data RefreshMonitorsData
	if err := c.send(CommandRefreshMonitors, nil, &data); err != nil {
		return 0, err
	}
	return data.Count, nil
}

// SetMonitor selects the docking monitor.
func (c *Client) SetMonitor(monitor int) error {
	return c.send(CommandSetMonitor, SetMonitorPayload{Monitor: monitor}, nil)
}

// SetSide selects the docking edge.
func (c *Client) SetSide(side string) error {
	return c.send(CommandSetSide, SetSidePayload{Side: side}, nil)
}

// SetZoom sets the page zoom percentage.
func (c *Client) SetZoom(percent int) error {
	return c.send(CommandSetZoom, SetZoomPayload{Percent: percent}, nil)
}

// SetRetention sets the conversation retention window.
func (c *Client) SetRetention(minutes int) error {
	return c.send(CommandSetRetention, SetRetentionPayload{Minutes: minutes}, nil)
}

// TogglePin flips the pin and returns the new state.
func (c *Client) TogglePin() (bool, error) {
	var data PinData
	if err := c.send(CommandTogglePin, nil, &data); err != nil {
		return false, err
	}
	return data.Pinned, nil
}

// SetExpanded opens or closes the settings panel.
func (c *Client) SetExpanded(expanded bool) error {
	return c.send(CommandSetExpanded, SetExpandedPayload{Expanded: expanded}, nil)
}

// SwitchSlot activates a service slot.
func (c *Client) SwitchSlot(slot int) error {
	return c.send(CommandSwitchSlot, SwitchSlotPayload{Slot: slot}, nil)
}

// SetSlotService assigns a service to a slot.
func (c *Client) SetSlotService(slot int, service string) error {
	return c.send(CommandSetSlotService, SetSlotServicePayload{Slot: slot, Service: service}, nil)
}

// ListServices returns the service catalog.
func (c *Client) ListServices() (*ServicesData, error) {
	var data ServicesData
	if err := c.send(CommandListServices, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ListPrompts returns all saved prompts.
func (c *Client) ListPrompts() (*PromptsData, error) {
	var data PromptsData
	if err := c.send(CommandListPrompts, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// AddPrompt saves a new prompt.
func (c *Client) AddPrompt(name, content string, fastAccess bool) (*PromptInfo, error) {
	var data PromptInfo
	if err := c.send(CommandAddPrompt, AddPromptPayload{Name: name, Content: content, FastAccess: fastAccess}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// UpdatePrompt replaces a prompt's name and content.
func (c *Client) UpdatePrompt(id int, name, content string) error {
	return c.send(CommandUpdatePrompt, UpdatePromptPayload{ID: id, Name: name, Content: content}, nil)
}

// DeletePrompt removes a prompt.
func (c *Client) DeletePrompt(id int) error {
	return c.send(CommandDeletePrompt, PromptIDPayload{ID: id}, nil)
}

// TogglePromptFastAccess flips a prompt's fast-access flag.
func (c *Client) TogglePromptFastAccess(id int) error {
	return c.send(CommandTogglePromptFA, PromptIDPayload{ID: id}, nil)
}

// InjectPrompt types a saved prompt into the active chat.
func (c *Client) InjectPrompt(id int) error {
	return c.send(CommandInjectPrompt, InjectPromptPayload{ID: id}, nil)
}

// InjectText types literal text into the active chat.
func (c *Client) InjectText(text string) error {
	return c.send(CommandInjectPrompt, InjectPromptPayload{Text: text}, nil)
}

// Reload asks the daemon to reload its configuration.
func (c *Client) Reload() error {
	return c.send(CommandReload, nil, nil)
}
