package play

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizzy/internal/progression"
	"github.com/abhisek/quizzy/internal/quiz"
	"github.com/abhisek/quizzy/internal/recommend"
	"github.com/abhisek/quizzy/internal/router"
	"github.com/abhisek/quizzy/internal/screen"
	"github.com/abhisek/quizzy/internal/ui/components"
	"github.com/abhisek/quizzy/internal/ui/layout"
	"github.com/abhisek/quizzy/internal/ui/theme"
)

// SummaryScreen shows a finished session: score, XP, rewards and what to
// play next. Leaving it returns the machine to idle.
type SummaryScreen struct {
	svc      *screen.Services
	view     quiz.View
	timedOut bool
	recs     []recommend.Recommendation

	busy   bool
	errMsg string
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)
var _ screen.EscapeHandler = (*SummaryScreen)(nil)

// NewSummary snapshots the user's finished session.
func NewSummary(svc *screen.Services, timedOut bool) *SummaryScreen {
	s := &SummaryScreen{svc: svc, view: svc.Machine.View(), timedOut: timedOut}
	s.recommend()
	return s
}

func (s *SummaryScreen) recommend() {
	s.recs = nil
	if s.view.Outcome == nil {
		return
	}
	s.recs = recommend.Collect(recommend.RecommendN(s.view.Outcome.Stats, s.svc.Catalog, s.svc.Recommendations))
}

func (s *SummaryScreen) Init() tea.Cmd {
	if s.view.Outcome != nil {
		return s.svc.LoadStats()
	}
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Results"
}

func (s *SummaryScreen) HandlesEscape() bool {
	return true
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Enter", Description: "Home"}}
	if s.view.SaveFailed {
		hints = append(hints, layout.KeyHint{Key: "r", Description: "Retry save"})
	}
	hints = append(hints, layout.KeyHint{Key: "p", Description: "Play again"})
	if len(s.recs) > 0 {
		hints = append(hints, layout.KeyHint{Key: fmt.Sprintf("1-%d", len(s.recs)), Description: "Play suggestion"})
	}
	return hints
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		s.busy = false
		if msg.Err != nil {
			s.errMsg = "Save failed again: " + msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.view = s.svc.Machine.View()
		s.recommend()
		return s, s.svc.LoadStats()

	case startedMsg:
		s.busy = false
		if msg.Err != nil {
			s.errMsg = startError(s.svc.Catalog.Name(msg.CategoryID), msg.Err)
			return s, nil
		}
		return s, router.Nav(router.ReplaceScreenMsg{Screen: NewQuiz(s.svc, msg.View)})

	case tea.KeyPressMsg:
		if s.busy {
			return s, nil
		}
		return s.handleKey(msg.String())
	}
	return s, nil
}

func (s *SummaryScreen) handleKey(key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "enter", "esc":
		_ = s.svc.Machine.Reset()
		return s, router.Nav(router.PopToRootMsg{})
	case "r":
		if !s.view.SaveFailed {
			return s, nil
		}
		s.busy = true
		m := s.svc.Machine
		return s, func() tea.Msg {
			out, err := m.RetrySave(context.Background())
			return savedMsg{Outcome: out, Err: err}
		}
	case "p":
		return s.play(s.view.Category.ID)
	}
	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		if i := int(key[0] - '1'); i < len(s.recs) {
			return s.play(s.recs[i].Category.ID)
		}
	}
	return s, nil
}

func (s *SummaryScreen) play(categoryID string) (screen.Screen, tea.Cmd) {
	s.busy = true
	s.errMsg = ""
	return s, startCmd(s.svc, categoryID)
}

func (s *SummaryScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	res := s.view.Result
	if res == nil {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("No result to show."))
	}

	heading := "Quiz complete!"
	if s.timedOut {
		heading = "Time's up!"
	}
	if res.Perfect() {
		heading = "Perfect score!"
	}

	score := fmt.Sprintf("%d / %d correct  (%d%%)", res.CorrectCount, res.TotalCount, res.Percent())
	details := fmt.Sprintf("Best streak %d   Time %s   %s",
		res.BestStreak, clock(res.Elapsed), s.view.Category.Name)

	sections := []string{
		theme.Title.Width(cw).Render(heading),
		components.Card(
			theme.Body.Bold(true).Render(score)+"\n"+
				lipgloss.NewStyle().Foreground(theme.TextDim).Render(details)+"\n"+
				theme.Reward.Render(fmt.Sprintf("+%d XP", res.XPAwarded)),
			cw),
	}

	if out := s.view.Outcome; out != nil {
		sections = append(sections, renderLevel(out.Stats, cw))
		if len(out.Events) > 0 {
			sections = append(sections, renderEvents(out.Events))
		}
	}

	if s.view.SaveFailed {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Error).Width(cw).
			Render("Your result could not be saved. Press r to try again."))
	}
	if s.errMsg != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Error).Width(cw).Render(s.errMsg))
	}

	if len(s.recs) > 0 {
		sections = append(sections, components.Section("Up next", renderRecommendations(s.recs)))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func renderLevel(stats progression.UserStats, cw int) string {
	info := progression.LevelProgress(stats.TotalXP)
	label := fmt.Sprintf("Lv %d %s", info.Level, stats.Rank())
	bar := components.NewProgressBar(label, info.Fraction(), false, cw)
	bar.Color = theme.Gold
	return bar.View() + "\n" + theme.Hint.Render(fmt.Sprintf("%d XP to the next level", info.Remaining()))
}

func renderEvents(events []progression.Event) string {
	lines := make([]string, 0, len(events))
	for _, e := range events {
		lines = append(lines, theme.Reward.Render("★ "+e.Message()))
	}
	return strings.Join(lines, "\n")
}

func renderRecommendations(recs []recommend.Recommendation) string {
	lines := make([]string, 0, len(recs))
	for i, r := range recs {
		lines = append(lines, fmt.Sprintf("%d. %s %s  %s",
			i+1, r.Topic.Icon, r.Topic.Title,
			theme.Hint.Render(r.Category.Name+" · "+r.Reason.Label())))
	}
	return strings.Join(lines, "\n")
}
