package browser

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"strings"
)

// NavSlot is one service slot button on the strip.
type NavSlot struct {
	Index  int
	Key    string
	Name   string
	Active bool
}

// NavPrompt is one fast-access prompt button on the strip.
type NavPrompt struct {
	ID   int
	Name string
}

// NavPageData feeds the nav strip template.
type NavPageData struct {
	Slots       []NavSlot
	Prompts     []NavPrompt
	ZoomPercent int
	Pinned      bool
	Expanded    bool
	Services    []Service
	Retention   int
}

// Nav strip buttons navigate to slidebar:// URLs. The webview host
// intercepts the scheme and forwards each action to the daemon over IPC
// instead of loading anything. The action func returns template.URL so the
// custom scheme survives href sanitization.
var navTemplate = template.Must(template.New("nav").Funcs(template.FuncMap{
	"action": func(parts ...interface{}) template.URL {
		segs := make([]string, len(parts))
		for i, p := range parts {
			segs[i] = fmt.Sprint(p)
		}
		return template.URL("slidebar://" + strings.Join(segs, "/"))
	},
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    background: #1e1e2e;
    color: #cdd6f4;
    font-family: system-ui, sans-serif;
    font-size: 13px;
    overflow: hidden;
    user-select: none;
  }
  .row { display: flex; align-items: center; gap: 6px; padding: 6px 8px; }
  a.btn {
    display: inline-block;
    padding: 5px 10px;
    border-radius: 6px;
    background: #313244;
    color: #cdd6f4;
    text-decoration: none;
    white-space: nowrap;
  }
  a.btn:hover { background: #45475a; }
  a.btn.active { background: #89b4fa; color: #1e1e2e; }
  a.btn.pinned { background: #a6e3a1; color: #1e1e2e; }
  .prompts { overflow-x: auto; }
  .prompts a.btn { font-size: 12px; background: #2a2a3c; }
  .panel { padding: 8px; border-top: 1px solid #313244; }
  .panel .field { margin-bottom: 8px; }
  .panel label { display: inline-block; width: 90px; color: #a6adc8; }
</style>
</head>
<body>
<div class="row">
{{- range .Slots }}
  <a class="btn{{ if .Active }} active{{ end }}" href="{{ action "switch-slot" .Index }}">{{ .Name }}</a>
{{- end }}
  <span style="flex:1"></span>
  <a class="btn{{ if .Pinned }} pinned{{ end }}" href="{{ action "toggle-pin" }}" title="Pin the sidebar open">&#128204;</a>
  <a class="btn" href="{{ action "toggle-settings" }}" title="Settings">&#9881;</a>
</div>
{{- if .Prompts }}
<div class="row prompts">
{{- range .Prompts }}
  <a class="btn" href="{{ action "inject-prompt" .ID }}">{{ .Name }}</a>
{{- end }}
</div>
{{- end }}
{{- if .Expanded }}
<div class="panel">
  <div class="field">
    <label>Zoom</label>
    <a class="btn" href="{{ action "zoom" "-10" }}">-</a>
    <span>{{ .ZoomPercent }}%</span>
    <a class="btn" href="{{ action "zoom" "+10" }}">+</a>
  </div>
  <div class="field">
    <label>Retention</label>
{{- range $mins := .RetentionOptions }}
    <a class="btn{{ if eq $mins $.Retention }} active{{ end }}" href="{{ action "retention" $mins }}">{{ if $mins }}{{ $mins }}m{{ else }}Off{{ end }}</a>
{{- end }}
  </div>
{{- range $slot := .Slots }}
  <div class="field">
    <label>Slot {{ $slot.Index }}</label>
{{- range $svc := $.Services }}
    <a class="btn{{ if eq $svc.Key $slot.Key }} active{{ end }}" href="{{ action "set-service" $slot.Index $svc.Key }}">{{ $svc.Name }}</a>
{{- end }}
  </div>
{{- end }}
</div>
{{- end }}
</body>
</html>
`))

// RetentionOptions lists the selectable retention windows for the panel.
func (NavPageData) RetentionOptions() []int { return []int{0, 10, 30} }

// NavPageURL renders the nav strip and packs it into a data URL the host
// can load directly.
func NavPageURL(data NavPageData) (string, error) {
	var buf bytes.Buffer
	if err := navTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render nav page: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())
	return "data:text/html;base64," + encoded, nil
}
