package browser

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"sync"
	"time"
)

// Host wraps the external webview host process. The host owns the actual
// browser windows; the daemon drives them over a newline-delimited JSON
// protocol on the host's stdin/stdout, one request and one response per line.
type Host struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	logger *slog.Logger

	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[int64]chan hostResponse
	nextID  int64
	closed  bool

	done chan struct{}
}

type hostRequest struct {
	ID     int64  `json:"id"`
	Op     string `json:"op"`
	View   string `json:"view,omitempty"`
	Title  string `json:"title,omitempty"`
	URL    string `json:"url,omitempty"`
	Script string `json:"script,omitempty"`
}

type hostResponse struct {
	ID     int64  `json:"id"`
	OK     bool   `json:"ok"`
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// callTimeout bounds every host round trip. Script evaluation inside a busy
// page is the slowest operation in practice.
const callTimeout = 5 * time.Second

// StartHost launches the host command and begins dispatching responses.
// The command is typically "slidebar-webview" from config.
func StartHost(ctx context.Context, command []string, logger *slog.Logger) (*Host, error) {
	if len(command) == 0 {
		return nil, fmt.Errorf("empty webview host command")
	}
	if logger == nil {
		logger = slog.Default()
	}

	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("webview host stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("webview host stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("webview host stderr: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start webview host: %w", err)
	}

	h := &Host{
		cmd:     cmd,
		stdin:   stdin,
		logger:  logger,
		pending: make(map[int64]chan hostResponse),
		done:    make(chan struct{}),
	}
	go h.readLoop(stdout)
	go h.drainStderr(stderr)
	return h, nil
}

// readLoop dispatches responses to waiting callers until the host exits.
func (h *Host) readLoop(stdout io.Reader) {
	defer close(h.done)
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		var resp hostResponse
		if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
			h.logger.Warn("webview host: bad response line", "error", err)
			continue
		}
		h.mu.Lock()
		ch, ok := h.pending[resp.ID]
		delete(h.pending, resp.ID)
		h.mu.Unlock()
		if ok {
			ch <- resp
		}
	}
	h.failPending("webview host exited")
}

func (h *Host) drainStderr(stderr io.Reader) {
	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		h.logger.Debug("webview host", "line", scanner.Text())
	}
}

// failPending unblocks every in-flight call after the host dies.
func (h *Host) failPending(reason string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, ch := range h.pending {
		delete(h.pending, id)
		ch <- hostResponse{ID: id, Error: reason}
	}
}

// call performs one request/response round trip.
func (h *Host) call(req hostRequest) (string, error) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return "", fmt.Errorf("webview host not running")
	}
	h.nextID++
	req.ID = h.nextID
	ch := make(chan hostResponse, 1)
	h.pending[req.ID] = ch
	h.mu.Unlock()

	line, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	h.writeMu.Lock()
	_, err = h.stdin.Write(append(line, '\n'))
	h.writeMu.Unlock()
	if err != nil {
		h.mu.Lock()
		delete(h.pending, req.ID)
		h.mu.Unlock()
		return "", fmt.Errorf("write to webview host: %w", err)
	}

	select {
	case resp := <-ch:
		if resp.Error != "" {
			return "", fmt.Errorf("webview host: %s", resp.Error)
		}
		if !resp.OK {
			return "", fmt.Errorf("webview host: %s failed", req.Op)
		}
		return resp.Result, nil
	case <-time.After(callTimeout):
		h.mu.Lock()
		delete(h.pending, req.ID)
		h.mu.Unlock()
		return "", fmt.Errorf("webview host: %s timed out", req.Op)
	}
}

// CreateView asks the host to create a named browser window. The title is
// what the daemon later matches against the X11 client list.
func (h *Host) CreateView(name, title, url string) (View, error) {
	_, err := h.call(hostRequest{Op: "create", View: name, Title: title, URL: url})
	if err != nil {
		return nil, err
	}
	return &hostView{host: h, name: name}, nil
}

// Close shuts the host down. In-flight calls fail, the process gets killed
// if closing stdin does not end it within the call timeout.
func (h *Host) Close() error {
	h.failPending("webview host closing")
	_ = h.stdin.Close()
	select {
	case <-h.done:
	case <-time.After(callTimeout):
		_ = h.cmd.Process.Kill()
	}
	return h.cmd.Wait()
}

// Wait blocks until the host process exits on its own.
func (h *Host) Wait() {
	<-h.done
}

// hostView addresses one window inside the host.
type hostView struct {
	host *Host
	name string
}

func (v *hostView) LoadURL(url string) error {
	_, err := v.host.call(hostRequest{Op: "load", View: v.name, URL: url})
	return err
}

func (v *hostView) EvaluateScript(script string) (string, error) {
	return v.host.call(hostRequest{Op: "eval", View: v.name, Script: script})
}

func (v *hostView) CurrentURL() (string, error) {
	return v.host.call(hostRequest{Op: "url", View: v.name})
}

func (v *hostView) Destroy() error {
	_, err := v.host.call(hostRequest{Op: "destroy", View: v.name})
	return err
}
