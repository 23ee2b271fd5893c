package browser

import (
	"bufio"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
)

// pipeHost wires a Host to an in-process responder instead of a child
// process, exercising the codec without spawning anything.
func pipeHost(t *testing.T, respond func(req hostRequest) hostResponse) *Host {
	t.Helper()
	reqR, reqW := io.Pipe()
	respR, respW := io.Pipe()

	h := &Host{
		stdin:   reqW,
		logger:  slog.Default(),
		pending: make(map[int64]chan hostResponse),
		done:    make(chan struct{}),
	}
	go h.readLoop(respR)

	go func() {
		scanner := bufio.NewScanner(reqR)
		enc := json.NewEncoder(respW)
		for scanner.Scan() {
			var req hostRequest
			if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
				continue
			}
			resp := respond(req)
			resp.ID = req.ID
			if err := enc.Encode(resp); err != nil {
				return
			}
		}
		respW.Close()
	}()

	t.Cleanup(func() {
		reqW.Close()
	})
	return h
}

func TestHostViewRoundTrip(t *testing.T) {
	var got []hostRequest
	h := pipeHost(t, func(req hostRequest) hostResponse {
		got = append(got, req)
		switch req.Op {
		case "eval":
			return hostResponse{OK: true, Result: "true"}
		case "url":
			return hostResponse{OK: true, Result: "https://claude.ai/chat/abc"}
		default:
			return hostResponse{OK: true}
		}
	})

	view, err := h.CreateView("body", "slidebar-body", "about:blank")
	if err != nil {
		t.Fatalf("CreateView: %v", err)
	}
	if err := view.LoadURL("https://claude.ai/new"); err != nil {
		t.Fatalf("LoadURL: %v", err)
	}
	result, err := view.EvaluateScript("1+1")
	if err != nil || result != "true" {
		t.Fatalf("EvaluateScript = %q, %v", result, err)
	}
	url, err := view.CurrentURL()
	if err != nil || url != "https://claude.ai/chat/abc" {
		t.Fatalf("CurrentURL = %q, %v", url, err)
	}

	ops := make([]string, len(got))
	for i, req := range got {
		ops[i] = req.Op
	}
	if want := "create load eval url"; strings.Join(ops, " ") != want {
		t.Errorf("ops = %v, want %q", ops, want)
	}
	if got[0].Title != "slidebar-body" {
		t.Errorf("create title = %q", got[0].Title)
	}
	if got[1].URL != "https://claude.ai/new" {
		t.Errorf("load url = %q", got[1].URL)
	}

	// IDs must be unique and increasing so responses match their callers.
	for i := 1; i < len(got); i++ {
		if got[i].ID <= got[i-1].ID {
			t.Errorf("request IDs not increasing: %d then %d", got[i-1].ID, got[i].ID)
		}
	}
}

func TestHostErrorResponse(t *testing.T) {
	h := pipeHost(t, func(req hostRequest) hostResponse {
		return hostResponse{Error: "no such view"}
	})

	view := &hostView{host: h, name: "ghost"}
	if err := view.LoadURL("https://claude.ai"); err == nil {
		t.Fatal("expected error from host")
	} else if !strings.Contains(err.Error(), "no such view") {
		t.Errorf("error = %v", err)
	}
}

func TestHostFailsPendingOnExit(t *testing.T) {
	respR, respW := io.Pipe()
	reqR, reqW := io.Pipe()
	go io.Copy(io.Discard, reqR)

	h := &Host{
		stdin:   reqW,
		logger:  slog.Default(),
		pending: make(map[int64]chan hostResponse),
		done:    make(chan struct{}),
	}
	go h.readLoop(respR)

	// Host output ends with no responses written: the reader must fail
	// pending calls instead of leaving them to time out.
	errCh := make(chan error, 1)
	go func() {
		_, err := h.call(hostRequest{Op: "eval", View: "body"})
		errCh <- err
	}()

	respW.Close()
	if err := <-errCh; err == nil {
		t.Fatal("expected pending call to fail when host output closes")
	}
}
