// Package browser holds everything that faces the embedded web views: the
// chat service catalog, URL validation, the script injection machinery, and
// the stdio protocol to the webview host process.
package browser

import (
	"fmt"
	"net/url"
	"strings"
)

// Service describes one chat service the sidebar can host.
type Service struct {
	Key    string
	Name   string
	URL    string
	Domain string
}

// catalog is the fixed set of supported services, in display order.
var catalog = []Service{
	{Key: "chatgpt", Name: "ChatGPT", URL: "https://chatgpt.com", Domain: "chatgpt.com"},
	{Key: "claude", Name: "Claude", URL: "https://claude.ai", Domain: "claude.ai"},
	{Key: "gemini", Name: "Gemini", URL: "https://gemini.google.com", Domain: "gemini.google.com"},
	{Key: "perplexity", Name: "Perplexity", URL: "https://www.perplexity.ai", Domain: "perplexity.ai"},
	{Key: "grok", Name: "Grok", URL: "https://x.com/i/grok", Domain: "x.com"},
	{Key: "pi", Name: "Pi", URL: "https://pi.ai", Domain: "pi.ai"},
	{Key: "huggingface", Name: "HuggingChat", URL: "https://huggingface.co/chat", Domain: "huggingface.co"},
	{Key: "mistral", Name: "Mistral", URL: "https://chat.mistral.ai", Domain: "mistral.ai"},
	{Key: "poe", Name: "Poe", URL: "https://poe.com", Domain: "poe.com"},
	{Key: "copilot", Name: "Copilot", URL: "https://copilot.microsoft.com", Domain: "copilot.microsoft.com"},
	{Key: "claude-code", Name: "Claude Code", URL: "https://claude.ai/code", Domain: "claude.ai"},
	{Key: "you", Name: "You.com", URL: "https://you.com", Domain: "you.com"},
}

// DefaultSlotServices is the service assignment for a fresh install.
var DefaultSlotServices = []string{"chatgpt", "claude", "gemini"}

// Services returns the catalog in display order.
func Services() []Service {
	out := make([]Service, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the service for key.
func Lookup(key string) (Service, bool) {
	for _, s := range catalog {
		if s.Key == key {
			return s, true
		}
	}
	return Service{}, false
}

// ValidKey reports whether key names a cataloged service.
func ValidKey(key string) bool {
	_, ok := Lookup(key)
	return ok
}

// NormalizeSlots coerces an arbitrary slot assignment into exactly three
// valid, cataloged keys, falling back to the defaults position by position.
func NormalizeSlots(keys []string) []string {
	out := make([]string, len(DefaultSlotServices))
	copy(out, DefaultSlotServices)
	for i := 0; i < len(out) && i < len(keys); i++ {
		if ValidKey(keys[i]) {
			out[i] = keys[i]
		}
	}
	return out
}

// ValidateURL checks that raw is an https URL whose host is the service's
// domain or a subdomain of it. Everything else is rejected, which keeps the
// retention store from replaying a navigation away from the chat service.
func ValidateURL(raw string, svc Service) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme != "https" {
		return fmt.Errorf("scheme %q not allowed", u.Scheme)
	}
	host := strings.ToLower(u.Hostname())
	if host == svc.Domain || strings.HasSuffix(host, "."+svc.Domain) {
		return nil
	}
	return fmt.Errorf("host %q outside %s", host, svc.Domain)
}
