// Package storytui renders the story viewer in a terminal.
package storytui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/vibestream/internal/domain"
	"github.com/orgball2608/vibestream/internal/story"
	"golang.org/x/term"
)

const (
	KeyLeft  = "left"
	KeyRight = "right"
	KeyEsc   = "esc"
	KeyCtrlC = "ctrl+c"
)

var (
	authorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	likedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	mediaStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7C3AED")).
			Padding(1, 2)
)

type Options struct {
	Clock        clockwork.Clock
	Timing       story.Timing
	InitialIndex int
}

type changeMsg story.Snapshot

type closedMsg struct{}

// Model is the Bubble Tea model around a story.Viewer.
type Model struct {
	viewer  *story.Viewer
	changes <-chan story.Snapshot
	clock   clockwork.Clock

	snap  story.Snapshot
	bar   progress.Model
	width int
}

func NewModel(items []domain.StoryItem, opts Options) Model {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}

	changes := make(chan story.Snapshot, 64)
	viewer := story.Open(items, story.ViewerOpts{
		Clock:        opts.Clock,
		Timing:       opts.Timing,
		InitialIndex: opts.InitialIndex,
		OnChange: func(s story.Snapshot) {
			// renders only need the latest state
			select {
			case changes <- s:
			default:
			}
		},
	})

	return Model{
		viewer:  viewer,
		changes: changes,
		clock:   opts.Clock,
		snap:    viewer.Snapshot(),
		bar:     progress.New(progress.WithSolidFill("#FFFFFF"), progress.WithoutPercentage()),
		width:   80,
	}
}

func (m Model) Init() tea.Cmd {
	return m.waitForChange()
}

func (m Model) waitForChange() tea.Cmd {
	changes, done := m.changes, m.viewer.Done()
	return func() tea.Msg {
		select {
		case s := <-changes:
			return changeMsg(s)
		case <-done:
			return closedMsg{}
		}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case changeMsg:
		m.snap = story.Snapshot(msg)
		if m.snap.Closed {
			return m, tea.Quit
		}
		return m, m.waitForChange()

	case closedMsg:
		m.snap = m.viewer.Snapshot()
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case KeyLeft, "h":
			m.viewer.Previous()
		case KeyRight, "l", " ":
			m.viewer.Next()
		case "f":
			m.viewer.ToggleLike()
		case "q", KeyEsc, KeyCtrlC:
			m.viewer.Close()
		default:
			return m, nil
		}
		m.snap = m.viewer.Snapshot()
		if m.snap.Closed {
			return m, tea.Quit
		}
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	if m.snap.Closed {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderBars())
	b.WriteString("\n\n")
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderMedia())
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("←/h previous · →/l/space next · f like · q close"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderBars() string {
	n := len(m.snap.Progress)
	if n == 0 {
		return ""
	}

	width := (m.width - (n - 1)) / n
	if width < 1 {
		width = 1
	}

	bar := m.bar
	bar.Width = width
	bars := make([]string, n)
	for i, p := range m.snap.Progress {
		bars[i] = bar.ViewAs(p)
	}
	return strings.Join(bars, " ")
}

func (m Model) renderHeader() string {
	item := m.snap.Item
	header := authorStyle.Render("@"+item.AuthorHandle) + " " + dimStyle.Render(since(m.clock.Now(), item.PostedAt))
	if m.snap.Liked {
		header += " " + likedStyle.Render("♥")
	}
	return header
}

func (m Model) renderMedia() string {
	kind := "image"
	if m.snap.Item.IsVideo {
		kind = "video"
	}
	body := fmt.Sprintf("%s %d/%d\n%s", kind, m.snap.Index+1, m.snap.Total, m.snap.Item.MediaRef)
	return mediaStyle.Render(body)
}

func since(now, postedAt time.Time) string {
	if postedAt.IsZero() {
		return ""
	}
	d := now.Sub(postedAt)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
}

func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Run shows items until the viewer closes. Without a terminal the sequence
// is printed instead.
func Run(items []domain.StoryItem, opts Options) error {
	if !IsTTY() {
		for i, item := range items {
			fmt.Printf("%d. @%s %s\n", i+1, item.AuthorHandle, item.MediaRef)
		}
		return nil
	}

	p := tea.NewProgram(NewModel(items, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
