package browser

import (
	"encoding/base64"
	"strings"
	"testing"
)

func renderNav(t *testing.T, data NavPageData) string {
	t.Helper()
	url, err := NavPageURL(data)
	if err != nil {
		t.Fatalf("NavPageURL: %v", err)
	}
	const prefix = "data:text/html;base64,"
	if !strings.HasPrefix(url, prefix) {
		t.Fatalf("unexpected data URL prefix: %.40s", url)
	}
	html, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, prefix))
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	return string(html)
}

func TestNavPageSlots(t *testing.T) {
	html := renderNav(t, NavPageData{
		Slots: []NavSlot{
			{Index: 0, Key: "chatgpt", Name: "ChatGPT", Active: true},
			{Index: 1, Key: "claude", Name: "Claude"},
			{Index: 2, Key: "gemini", Name: "Gemini"},
		},
		ZoomPercent: 100,
	})

	for _, want := range []string{
		`href="slidebar://switch-slot/0"`,
		`href="slidebar://switch-slot/1"`,
		`href="slidebar://switch-slot/2"`,
		`href="slidebar://toggle-pin"`,
		`href="slidebar://toggle-settings"`,
		"ChatGPT", "Claude", "Gemini",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("nav page missing %q", want)
		}
	}
	if !strings.Contains(html, `class="btn active" href="slidebar://switch-slot/0"`) {
		t.Error("active slot not marked")
	}
	if strings.Contains(html, `class="panel"`) {
		t.Error("settings panel rendered while collapsed")
	}
}

func TestNavPageFastAccessPrompts(t *testing.T) {
	html := renderNav(t, NavPageData{
		Prompts: []NavPrompt{
			{ID: 3, Name: "Explain Code"},
			{ID: 5, Name: "Fix & Improve"},
		},
	})

	if !strings.Contains(html, `href="slidebar://inject-prompt/3"`) {
		t.Error("prompt 3 button missing")
	}
	// Template escaping must keep user text inert.
	if !strings.Contains(html, "Fix &amp; Improve") {
		t.Error("prompt name not HTML-escaped")
	}
}

func TestNavPageExpandedPanel(t *testing.T) {
	html := renderNav(t, NavPageData{
		Slots:       []NavSlot{{Index: 0, Key: "claude", Name: "Claude", Active: true}},
		Services:    Services(),
		ZoomPercent: 120,
		Retention:   10,
		Expanded:    true,
	})

	for _, want := range []string{
		"120%",
		`href="slidebar://retention/0"`,
		`href="slidebar://retention/10"`,
		`href="slidebar://retention/30"`,
		`href="slidebar://set-service/0/chatgpt"`,
		`href="slidebar://set-service/0/claude"`,
		// Attribute escaping renders + as &#43;; the webview decodes it
		// back before the host sees the action.
		`href="slidebar://zoom/&#43;10"`,
		`href="slidebar://zoom/-10"`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expanded panel missing %q", want)
		}
	}
}

func TestNavPagePinnedState(t *testing.T) {
	html := renderNav(t, NavPageData{Pinned: true})
	if !strings.Contains(html, "btn pinned") {
		t.Error("pinned style not applied")
	}
}
