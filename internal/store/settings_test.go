package store

import (
	"testing"
	"time"
)

func TestSettingsNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Settings
		want Settings
	}{
		{"defaults pass through", DefaultSettings(), DefaultSettings()},
		{
			"zoom clamped low",
			Settings{ZoomPercent: 10, Side: "right"},
			Settings{ZoomPercent: 50, Side: "right", SlotServices: []string{"chatgpt", "claude", "gemini"}},
		},
		{
			"zoom clamped high",
			Settings{ZoomPercent: 500, Side: "left"},
			Settings{ZoomPercent: 200, Side: "left", SlotServices: []string{"chatgpt", "claude", "gemini"}},
		},
		{
			"bad retention resets",
			Settings{ZoomPercent: 100, Side: "right", RetentionMinutes: 17},
			Settings{ZoomPercent: 100, Side: "right", RetentionMinutes: 0, SlotServices: []string{"chatgpt", "claude", "gemini"}},
		},
		{
			"bad side defaults right",
			Settings{ZoomPercent: 100, Side: "middle"},
			Settings{ZoomPercent: 100, Side: "right", SlotServices: []string{"chatgpt", "claude", "gemini"}},
		},
		{
			"negative monitor resets",
			Settings{Monitor: -3, ZoomPercent: 100, Side: "right"},
			Settings{Monitor: 0, ZoomPercent: 100, Side: "right", SlotServices: []string{"chatgpt", "claude", "gemini"}},
		},
		{
			"active slot out of range resets",
			Settings{ZoomPercent: 100, Side: "right", ActiveSlot: 9},
			Settings{ZoomPercent: 100, Side: "right", ActiveSlot: 0, SlotServices: []string{"chatgpt", "claude", "gemini"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			if got.Monitor != tt.want.Monitor || got.Side != tt.want.Side ||
				got.ZoomPercent != tt.want.ZoomPercent ||
				got.RetentionMinutes != tt.want.RetentionMinutes ||
				got.ActiveSlot != tt.want.ActiveSlot {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
			}
			if len(got.SlotServices) != 3 {
				t.Errorf("slot services = %v, want 3 entries", got.SlotServices)
			}
		})
	}
}

func TestValidRetention(t *testing.T) {
	for minutes, want := range map[int]bool{0: true, 10: true, 30: true, 5: false, -1: false, 60: false} {
		if got := ValidRetention(minutes); got != want {
			t.Errorf("ValidRetention(%d) = %v, want %v", minutes, got, want)
		}
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := NewSettingsStore(dir, time.Millisecond, nil)
	s.Update(func(st *Settings) {
		st.Monitor = 1
		st.Side = "left"
		st.ZoomPercent = 150
		st.RetentionMinutes = 30
		st.SlotServices = []string{"poe", "pi", "you"}
		st.ActiveSlot = 2
	})
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	reopened := NewSettingsStore(dir, time.Second, nil)
	got := reopened.Get()
	if got.Monitor != 1 || got.Side != "left" || got.ZoomPercent != 150 ||
		got.RetentionMinutes != 30 || got.ActiveSlot != 2 {
		t.Fatalf("reloaded settings = %+v", got)
	}
	if got.SlotServices[0] != "poe" || got.SlotServices[2] != "you" {
		t.Fatalf("slots not persisted: %v", got.SlotServices)
	}
}

func TestSettingsDebounce(t *testing.T) {
	dir := t.TempDir()
	s := NewSettingsStore(dir, 50*time.Millisecond, nil)

	for i := 0; i < 10; i++ {
		s.Update(func(st *Settings) { st.ZoomPercent = 100 + i })
	}
	// Before the debounce fires, disk still holds nothing newer.
	fresh := NewSettingsStore(t.TempDir(), time.Second, nil)
	if fresh.Get().ZoomPercent != 100 {
		t.Fatal("unexpected zoom in an untouched store")
	}

	time.Sleep(150 * time.Millisecond)
	reopened := NewSettingsStore(dir, time.Second, nil)
	if got := reopened.Get().ZoomPercent; got != 109 {
		t.Fatalf("debounced save wrote zoom %d, want 109", got)
	}
	_ = s.Close()
}

func TestSettingsLoadCorrupted(t *testing.T) {
	dir := t.TempDir()
	s := NewSettingsStore(dir, time.Millisecond, nil)
	if err := s.d.Write(settingsKey, []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	reopened := NewSettingsStore(dir, time.Second, nil)
	got, want := reopened.Get(), DefaultSettings()
	if got.Monitor != want.Monitor || got.Side != want.Side ||
		got.ZoomPercent != want.ZoomPercent || got.RetentionMinutes != want.RetentionMinutes {
		t.Fatalf("corrupted settings did not fall back to defaults: %+v", got)
	}
}
