package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizzy/internal/screen"
	"github.com/abhisek/quizzy/internal/store"
	"github.com/abhisek/quizzy/internal/ui/layout"
	"github.com/abhisek/quizzy/internal/ui/theme"
)

// Limit is how many past results the screen loads.
const Limit = 50

type historyLoadedMsg struct {
	Results []store.ResultRecord
	Err     error
}

// HistoryScreen lists past quiz results. Enter expands the progression
// events a result produced.
type HistoryScreen struct {
	svc      *screen.Services
	results  []store.ResultRecord
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a HistoryScreen.
func New(svc *screen.Services) *HistoryScreen {
	return &HistoryScreen{
		svc:      svc,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		if s.svc.History == nil {
			return historyLoadedMsg{}
		}
		results, err := s.svc.History.Recent(context.Background(), s.svc.UserID, Limit)
		return historyLoadedMsg{Results: results, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.results = msg.Results
		}
		s.loaded = true
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.results)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if s.errMsg != "" {
		return center.Foreground(theme.Error).Render("\n\nError: " + s.errMsg)
	}
	if !s.loaded {
		return center.Foreground(theme.TextDim).Render("\n\nLoading history...")
	}
	if len(s.results) == 0 {
		return center.Foreground(theme.TextDim).Italic(true).Render("\n\nNo quizzes yet. Go play one!")
	}

	// Keep the selection on screen when the list is longer than the view.
	rows := max(height-2, 1)
	first := 0
	if s.selected >= rows {
		first = s.selected - rows + 1
	}

	var b strings.Builder
	b.WriteString("\n")
	for i := first; i < len(s.results) && i < first+rows; i++ {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.renderRow(i)))
		b.WriteString("\n")
		if s.expanded[i] {
			b.WriteString(s.renderEvents(i, width))
		}
	}
	return b.String()
}

func (s *HistoryScreen) renderRow(i int) string {
	r := s.results[i]
	name := r.CategoryID
	if s.svc.Catalog != nil {
		name = s.svc.Catalog.Name(r.CategoryID)
	}

	prefix := "  "
	style := lipgloss.NewStyle().Foreground(theme.Text)
	if i == s.selected {
		prefix = "> "
		style = theme.Selected
	}

	line := fmt.Sprintf("%s%s  %-16s %2d/%-2d  %3d%%  +%d XP  %s",
		prefix,
		r.CreatedAt.Local().Format("Jan 02 15:04"),
		truncate(name, 16),
		r.CorrectCount, r.TotalCount,
		percent(r.CorrectCount, r.TotalCount),
		r.XPAwarded,
		formatDuration(r.Elapsed.Seconds()),
	)
	if r.LeveledUp {
		line += "  ▲"
	}
	return style.Render(line)
}

func (s *HistoryScreen) renderEvents(i, width int) string {
	r := s.results[i]
	dim := lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true)
	if len(r.Events) == 0 {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center,
			dim.Render(fmt.Sprintf("    best streak %d, no new rewards", r.BestStreak))) + "\n"
	}
	var b strings.Builder
	for _, e := range r.Events {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Reward.Render("    "+e.Message())))
		b.WriteString("\n")
	}
	return b.String()
}

func percent(correct, total int) int {
	if total == 0 {
		return 0
	}
	return correct * 100 / total
}

func formatDuration(secs float64) string {
	n := int(secs)
	return fmt.Sprintf("%d:%02d", n/60, n%60)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
