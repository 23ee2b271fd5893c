package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/peterbourgon/diskv/v3"
)

const (
	promptKeyPrefix  = "prompt-"
	maxPromptName    = 150
	maxPromptContent = 2000
)

// Prompt is one saved prompt template. FastAccess prompts surface in the
// navigation strip for one-click injection.
type Prompt struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Content    string `json:"content"`
	FastAccess bool   `json:"fast_access"`
}

// ValidatePrompt trims a name/content pair and truncates each to its length
// cap. Returns the cleaned values or an error when either is empty.
func ValidatePrompt(name, content string) (string, string, error) {
	name = clampString(name, maxPromptName)
	content = clampString(content, maxPromptContent)
	if name == "" {
		return "", "", fmt.Errorf("prompt name is empty")
	}
	if content == "" {
		return "", "", fmt.Errorf("prompt content is empty")
	}
	return name, content, nil
}

func clampString(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) > max {
		cut := max
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = strings.TrimSpace(s[:cut])
	}
	return s
}

// defaultPrompts seed a fresh install with fast-access templates.
var defaultPrompts = []Prompt{
	{Name: "General Task", Content: "Act as an expert in [domain]. Perform the following task: [task]. Respond for a [beginner/intermediate/expert] audience in a clear, structured format with short sections and bullet points where helpful.", FastAccess: true},
	{Name: "Step-by-Step", Content: "Solve this problem step by step. First restate the problem, then outline a brief plan, then execute the plan, and finally give a 1-2 sentence final answer under the heading 'Answer'.", FastAccess: true},
	{Name: "Specific Format", Content: "Your task is to [task]. Always respond in this exact format: [describe format, e.g. markdown table with columns X, Y, Z]. Do not add extra sections or text outside this format.", FastAccess: true},
	{Name: "Teach/Explain", Content: "Explain [concept] to a [level, e.g. 12-year-old / non-technical manager]. Use simple language, short sentences, and one concrete example. End with three key bullet-point takeaways.", FastAccess: true},
	{Name: "Review & Improve", Content: "Here is my draft prompt: [PASTE PROMPT] Rewrite it to be clearer and more precise. Clarify the task, specify the desired format, and remove ambiguity, then show only the improved prompt.", FastAccess: true},
}

// PromptStore persists prompts, one diskv key per prompt.
type PromptStore struct {
	d      *diskv.Diskv
	logger *slog.Logger

	mu     sync.Mutex
	nextID int
}

// NewPromptStore opens the prompt store under dir, seeding the defaults on
// first run.
func NewPromptStore(dir string, logger *slog.Logger) *PromptStore {
	if logger == nil {
		logger = slog.Default()
	}
	p := &PromptStore{
		d: diskv.New(diskv.Options{
			BasePath:     dir,
			CacheSizeMax: 256 * 1024,
		}),
		logger: logger,
	}
	existing := p.List()
	if len(existing) == 0 {
		for _, def := range defaultPrompts {
			if _, err := p.Add(def.Name, def.Content, def.FastAccess); err != nil {
				logger.Warn("failed to seed default prompt", "name", def.Name, "error", err)
			}
		}
	} else {
		p.nextID = existing[len(existing)-1].ID
	}
	return p
}

func promptKey(id int) string { return promptKeyPrefix + strconv.Itoa(id) }

// List returns all prompts ordered by ID, oldest first.
func (p *PromptStore) List() []Prompt {
	var out []Prompt
	for key := range p.d.KeysPrefix(promptKeyPrefix, nil) {
		val, err := p.d.Read(key)
		if err != nil {
			continue
		}
		var prompt Prompt
		if err := json.Unmarshal(val, &prompt); err != nil {
			p.logger.Warn("skipping corrupted prompt", "key", key, "error", err)
			continue
		}
		out = append(out, prompt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Get returns the prompt with the given ID.
func (p *PromptStore) Get(id int) (Prompt, error) {
	val, err := p.d.Read(promptKey(id))
	if err != nil {
		return Prompt{}, fmt.Errorf("prompt %d not found", id)
	}
	var prompt Prompt
	if err := json.Unmarshal(val, &prompt); err != nil {
		return Prompt{}, fmt.Errorf("prompt %d corrupted: %w", id, err)
	}
	return prompt, nil
}

// Add validates and stores a new prompt, returning it with its assigned ID.
func (p *PromptStore) Add(name, content string, fastAccess bool) (Prompt, error) {
	name, content, err := ValidatePrompt(name, content)
	if err != nil {
		return Prompt{}, err
	}
	p.mu.Lock()
	p.nextID++
	id := p.nextID
	p.mu.Unlock()

	prompt := Prompt{ID: id, Name: name, Content: content, FastAccess: fastAccess}
	if err := p.write(prompt); err != nil {
		return Prompt{}, err
	}
	return prompt, nil
}

// Update replaces the name and content of an existing prompt.
func (p *PromptStore) Update(id int, name, content string) (Prompt, error) {
	prompt, err := p.Get(id)
	if err != nil {
		return Prompt{}, err
	}
	name, content, err = ValidatePrompt(name, content)
	if err != nil {
		return Prompt{}, err
	}
	prompt.Name = name
	prompt.Content = content
	if err := p.write(prompt); err != nil {
		return Prompt{}, err
	}
	return prompt, nil
}

// Delete removes a prompt.
func (p *PromptStore) Delete(id int) error {
	if _, err := p.Get(id); err != nil {
		return err
	}
	if err := p.d.Erase(promptKey(id)); err != nil {
		return fmt.Errorf("delete prompt %d: %w", id, err)
	}
	return nil
}

// ToggleFastAccess flips a prompt's fast-access flag and returns the new
// state.
func (p *PromptStore) ToggleFastAccess(id int) (Prompt, error) {
	prompt, err := p.Get(id)
	if err != nil {
		return Prompt{}, err
	}
	prompt.FastAccess = !prompt.FastAccess
	if err := p.write(prompt); err != nil {
		return Prompt{}, err
	}
	return prompt, nil
}

func (p *PromptStore) write(prompt Prompt) error {
	val, err := json.MarshalIndent(prompt, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal prompt: %w", err)
	}
	if err := p.d.Write(promptKey(prompt.ID), val); err != nil {
		return fmt.Errorf("write prompt %d: %w", prompt.ID, err)
	}
	return nil
}
