package store

import (
	"strings"
	"testing"
)

func TestPromptStoreSeedsDefaults(t *testing.T) {
	p := NewPromptStore(t.TempDir(), nil)
	prompts := p.List()
	if len(prompts) != 5 {
		t.Fatalf("fresh store has %d prompts, want 5 defaults", len(prompts))
	}
	for _, prompt := range prompts {
		if !prompt.FastAccess {
			t.Errorf("default prompt %q not fast-access", prompt.Name)
		}
	}
}

func TestPromptStoreNoReseed(t *testing.T) {
	dir := t.TempDir()
	p := NewPromptStore(dir, nil)
	for _, prompt := range p.List() {
		if err := p.Delete(prompt.ID); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := p.Add("only", "content", false); err != nil {
		t.Fatal(err)
	}

	reopened := NewPromptStore(dir, nil)
	if got := len(reopened.List()); got != 1 {
		t.Fatalf("reopened store has %d prompts, want 1 (no reseed)", got)
	}
}

func TestPromptCRUD(t *testing.T) {
	p := NewPromptStore(t.TempDir(), nil)

	added, err := p.Add("  Summarize  ", "  Summarize the following text.  ", false)
	if err != nil {
		t.Fatal(err)
	}
	if added.Name != "Summarize" || added.Content != "Summarize the following text." {
		t.Errorf("add did not trim: %+v", added)
	}

	updated, err := p.Update(added.ID, "Summarize v2", "New content")
	if err != nil {
		t.Fatal(err)
	}
	if updated.Name != "Summarize v2" {
		t.Errorf("update name = %q", updated.Name)
	}

	toggled, err := p.ToggleFastAccess(added.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !toggled.FastAccess {
		t.Error("toggle did not enable fast access")
	}

	if err := p.Delete(added.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Get(added.ID); err == nil {
		t.Error("deleted prompt still readable")
	}
	if err := p.Delete(added.ID); err == nil {
		t.Error("deleting a missing prompt succeeded")
	}
}

func TestPromptIDsSurviveRestart(t *testing.T) {
	dir := t.TempDir()
	p := NewPromptStore(dir, nil)
	first, _ := p.Add("a", "a", false)

	reopened := NewPromptStore(dir, nil)
	second, err := reopened.Add("b", "b", false)
	if err != nil {
		t.Fatal(err)
	}
	if second.ID <= first.ID {
		t.Fatalf("restart reused IDs: first %d, second %d", first.ID, second.ID)
	}
}

func TestValidatePrompt(t *testing.T) {
	tests := []struct {
		name        string
		pName       string
		content     string
		wantErr     bool
		wantName    int
		wantContent int
	}{
		{"valid", "Name", "Content", false, 4, 7},
		{"empty name", "   ", "Content", true, 0, 0},
		{"empty content", "Name", "\n\t", true, 0, 0},
		{"overlong name truncated", strings.Repeat("A", 500), "B", false, 150, 1},
		{"name at limit", strings.Repeat("x", 150), "Content", false, 150, 7},
		{"overlong content truncated", "Name", strings.Repeat("y", 2500), false, 4, 2000},
		{"content at limit", "Name", strings.Repeat("x", 2000), false, 4, 2000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, content, err := ValidatePrompt(tt.pName, tt.content)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidatePrompt error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if len(name) != tt.wantName || len(content) != tt.wantContent {
				t.Errorf("lengths = (%d, %d), want (%d, %d)",
					len(name), len(content), tt.wantName, tt.wantContent)
			}
		})
	}
}

func TestValidatePromptTruncatesOnRuneBoundary(t *testing.T) {
	name, _, err := ValidatePrompt(strings.Repeat("é", 100), "Content")
	if err != nil {
		t.Fatal(err)
	}
	if len(name) != 150 {
		t.Fatalf("truncated name is %d bytes, want 150", len(name))
	}
	if !strings.HasSuffix(name, "é") {
		t.Error("truncation split a multi-byte character")
	}
}
