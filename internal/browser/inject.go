package browser

import (
	"encoding/json"
	"fmt"
	"strings"
)

// strategy describes how to find the chat input for a family of hostnames.
// Selectors are tried in order; contenteditable targets and textareas are
// distinguished at runtime by the script itself.
type strategy struct {
	hosts     []string
	selectors []string
}

// strategies is ordered; the first hostname match that injects wins. The
// selector chains track the markup each service actually ships.
var strategies = []strategy{
	{
		hosts: []string{"chatgpt.com", "chat.openai.com"},
		selectors: []string{
			`#prompt-textarea[contenteditable="true"]`,
			`div[contenteditable="true"][data-placeholder]`,
			`#prompt-textarea`,
			`textarea[data-id]`,
			`form textarea`,
		},
	},
	{
		hosts: []string{"claude.ai"},
		selectors: []string{
			`div.ProseMirror[contenteditable="true"]`,
			`fieldset [contenteditable="true"]`,
			`[contenteditable="true"]`,
		},
	},
	{
		hosts: []string{"gemini.google.com"},
		selectors: []string{
			`rich-textarea [contenteditable="true"]`,
			`.ql-editor[contenteditable="true"]`,
			`[contenteditable="true"][role="textbox"]`,
			`div[contenteditable="true"]`,
			`textarea`,
		},
	},
	{
		hosts: []string{"perplexity.ai"},
		selectors: []string{
			`textarea[placeholder*="Ask"]`,
			`textarea[placeholder*="Search"]`,
			`main textarea`,
			`textarea`,
			`[contenteditable="true"]`,
		},
	},
	{
		hosts: []string{"x.com", "twitter.com"},
		selectors: []string{
			`textarea[data-testid="grokTextarea"]`,
			`[data-testid="grokComposer"] textarea`,
			`textarea[placeholder*="Grok"]`,
			`textarea`,
		},
	},
	{
		hosts: []string{"copilot.microsoft.com", "bing.com"},
		selectors: []string{
			`#userInput`,
			`textarea[name="searchbox"]`,
			`#searchbox`,
			`textarea`,
			`[contenteditable="true"]`,
		},
	},
	{
		hosts: []string{"mistral.ai"},
		selectors: []string{
			`textarea[placeholder*="Message"]`,
			`textarea`,
		},
	},
	{
		hosts: []string{"huggingface.co"},
		selectors: []string{
			`textarea.scrollbar-custom`,
			`textarea[placeholder*="Ask"]`,
			`textarea`,
		},
	},
	{
		hosts:     []string{"poe.com"},
		selectors: []string{`textarea[class*="TextArea"]`, `textarea`},
	},
	{
		hosts:     []string{"pi.ai"},
		selectors: []string{`textarea[placeholder]`, `textarea`},
	},
	{
		hosts:     []string{"you.com"},
		selectors: []string{`textarea[placeholder*="Ask"]`, `textarea`},
	},
}

// scriptHelpers carries the input simulation shared by every strategy.
// Values are committed through native setters plus synthetic input events so
// React and ProseMirror notice the change.
const scriptHelpers = `
function simulateTyping(el, text) {
	try {
		el.focus();
		const setter = Object.getOwnPropertyDescriptor(window.HTMLTextAreaElement.prototype, 'value')
			|| Object.getOwnPropertyDescriptor(window.HTMLInputElement.prototype, 'value');
		if (setter && setter.set) { setter.set.call(el, text); } else { el.value = text; }
		el.dispatchEvent(new Event('input', { bubbles: true, cancelable: true }));
		el.dispatchEvent(new Event('change', { bubbles: true, cancelable: true }));
		return true;
	} catch (e) { return false; }
}
function insertIntoContentEditable(el, text) {
	try {
		el.focus();
		const sel = window.getSelection();
		sel.removeAllRanges();
		const range = document.createRange();
		range.selectNodeContents(el);
		sel.addRange(range);
		document.execCommand('selectAll', false, null);
		if (!document.execCommand('insertText', false, text)) {
			el.textContent = text;
		}
		el.dispatchEvent(new Event('input', { bubbles: true, cancelable: true }));
		try {
			el.dispatchEvent(new InputEvent('input', { bubbles: true, cancelable: true, inputType: 'insertText', data: text }));
		} catch (e) {}
		return true;
	} catch (e) { return false; }
}
function isVisible(el) {
	if (!el) return false;
	const style = window.getComputedStyle(el);
	return style.display !== 'none' && style.visibility !== 'hidden' && el.offsetParent !== null;
}
function tryInject(selectors, text) {
	for (const sel of selectors) {
		const el = document.querySelector(sel);
		if (!el || !isVisible(el)) continue;
		if (el.isContentEditable) {
			if (insertIntoContentEditable(el, text)) return true;
		} else if (el.tagName === 'TEXTAREA' || el.tagName === 'INPUT') {
			if (simulateTyping(el, text)) return true;
		}
	}
	return false;
}
`

// InjectScript builds the self-contained IIFE that types text into the chat
// input of whatever service the page belongs to. The script returns true on
// success so callers can report injection failures.
func InjectScript(text string) string {
	lit, _ := json.Marshal(text)

	var b strings.Builder
	b.WriteString("(function() {\n")
	b.WriteString(scriptHelpers)
	fmt.Fprintf(&b, "const text = %s;\n", lit)
	b.WriteString("let hostname = window.location.hostname.toLowerCase();\n")
	b.WriteString("if (hostname.startsWith('www.')) hostname = hostname.substring(4);\n")

	for _, st := range strategies {
		conds := make([]string, len(st.hosts))
		for i, h := range st.hosts {
			conds[i] = fmt.Sprintf("hostname.includes(%q)", h)
		}
		sels, _ := json.Marshal(st.selectors)
		fmt.Fprintf(&b, "if (%s) { if (tryInject(%s, text)) return true; }\n",
			strings.Join(conds, " || "), sels)
	}

	// Generic fallback: any visible textarea, then any contenteditable.
	b.WriteString(`
for (const el of document.querySelectorAll('textarea:not([readonly]):not([disabled])')) {
	if (isVisible(el) && simulateTyping(el, text)) return true;
}
for (const el of document.querySelectorAll('[contenteditable="true"]')) {
	if (isVisible(el) && insertIntoContentEditable(el, text)) return true;
}
return false;
})();`)
	return b.String()
}

// ZoomScript scales the page to percent via the body zoom style, the only
// mechanism that survives in-page navigation on every cataloged service.
func ZoomScript(percent int) string {
	return fmt.Sprintf("document.body.style.zoom = '%d%%';", percent)
}

// AntiDragScript installs a style sheet that re-enables text selection and
// neutralizes app-region drag areas, so the locked windows cannot be dragged
// by page chrome. Idempotent per page load.
const AntiDragScript = `(function() {
	if (document.getElementById('anti-drag-fix')) return;
	const style = document.createElement('style');
	style.id = 'anti-drag-fix';
	style.textContent = ` + "`" + `
		* { -webkit-app-region: no-drag !important; }
		input, textarea, [contenteditable="true"] {
			user-select: text !important; -webkit-user-select: text !important; }
		body, html { cursor: auto !important; }
		[draggable="true"] { -webkit-app-region: no-drag !important; }
	` + "`" + `;
	document.head.appendChild(style);
})();`

// CurrentURLScript reads the page location, used by hosts that cannot report
// navigation natively.
const CurrentURLScript = `window.location.href`
