package storytui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/vibestream/internal/story"
)

const fixtureYAML = `
stories:
  - author: "@alice"
    media: https://cdn.example.com/a2.jpg
    posted_at: 2025-03-01T08:30:00Z
  - author: bob
    media: https://cdn.example.com/b1.mp4
    video: true
    posted_at: 2025-03-01T07:00:00Z
  - author: alice
    media: https://cdn.example.com/a1.jpg
    posted_at: 2025-03-01T06:00:00Z
`

func TestParse_GroupsByAuthor(t *testing.T) {
	items, err := Parse([]byte(fixtureYAML))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := []string{"a1.jpg", "a2.jpg", "b1.mp4"}
	if len(items) != len(want) {
		t.Fatalf("got %d items, want %d", len(items), len(want))
	}
	for i, w := range want {
		if !strings.HasSuffix(items[i].MediaRef, w) {
			t.Fatalf("item %d = %s, want %s", i, items[i].MediaRef, w)
		}
	}
	if items[0].AuthorID != items[1].AuthorID || items[0].AuthorID == items[2].AuthorID {
		t.Fatal("author ids should be stable per handle")
	}
	if items[0].AuthorHandle != "alice" || !items[2].IsVideo {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestParse_RequiresMedia(t *testing.T) {
	_, err := Parse([]byte("stories:\n  - author: alice\n"))
	if err == nil {
		t.Fatal("expected error for missing media")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stories.yaml")
	if err := os.WriteFile(path, []byte(fixtureYAML), 0o600); err != nil {
		t.Fatal(err)
	}

	items, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items", len(items))
	}
}

func newTestModel(t *testing.T) Model {
	t.Helper()

	items, err := Parse([]byte(fixtureYAML))
	if err != nil {
		t.Fatal(err)
	}
	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	m := NewModel(items, Options{Clock: clock, Timing: story.DefaultTiming()})
	t.Cleanup(m.viewer.Close)
	return m
}

func press(t *testing.T, m Model, key tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(key)
	return next.(Model), cmd
}

func TestModel_KeysNavigate(t *testing.T) {
	m := newTestModel(t)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.snap.Index != 1 {
		t.Fatalf("index = %d, want 1", m.snap.Index)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h")})
	if m.snap.Index != 0 {
		t.Fatalf("index = %d, want 0", m.snap.Index)
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})
	if !m.snap.Liked {
		t.Fatal("f should like the current story")
	}
	if !strings.Contains(m.View(), "♥") {
		t.Fatal("view should show the liked marker")
	}
}

func TestModel_QuitCloses(t *testing.T) {
	m := newTestModel(t)

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if !m.snap.Closed {
		t.Fatal("q should close the viewer")
	}
	if cmd == nil {
		t.Fatal("closing should quit the program")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected quit message")
	}
	if m.View() != "" {
		t.Fatal("closed viewer renders nothing")
	}
}

func TestModel_ViewShowsCurrentStory(t *testing.T) {
	m := newTestModel(t)

	view := m.View()
	for _, want := range []string{"@alice", "a1.jpg", "image 1/3", "3h"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestModel_ChangeMessageUpdatesSnapshot(t *testing.T) {
	m := newTestModel(t)

	snap := m.viewer.Snapshot()
	snap.Fraction = 0.5
	next, cmd := m.Update(changeMsg(snap))
	if next.(Model).snap.Fraction != 0.5 {
		t.Fatal("change message should replace the snapshot")
	}
	if cmd == nil {
		t.Fatal("model should keep waiting for changes")
	}
}
