package play

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizzy/internal/progression"
	"github.com/abhisek/quizzy/internal/questionbank"
	"github.com/abhisek/quizzy/internal/quiz"
	"github.com/abhisek/quizzy/internal/router"
	"github.com/abhisek/quizzy/internal/screen"
	"github.com/abhisek/quizzy/internal/ui/components"
	"github.com/abhisek/quizzy/internal/ui/layout"
	"github.com/abhisek/quizzy/internal/ui/theme"
)

// QuizScreen plays one session on the user's machine. Input is ignored
// while an answer is being applied, so one key press submits at most one
// answer.
type QuizScreen struct {
	svc     *screen.Services
	view    quiz.View
	choices components.ChoiceList
	now     func() time.Time
	asked   time.Time

	pending     bool
	feedback    *quiz.Feedback
	confirmQuit bool
	errMsg      string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.EscapeHandler = (*QuizScreen)(nil)

// NewQuiz creates the screen for a session that has just started.
func NewQuiz(svc *screen.Services, v quiz.View) *QuizScreen {
	s := &QuizScreen{svc: svc, now: time.Now}
	s.show(v)
	return s
}

func (s *QuizScreen) show(v quiz.View) {
	s.view = v
	s.feedback = nil
	if v.Question != nil {
		s.choices = components.NewChoiceList(v.Question.Choices)
	}
	s.asked = s.now()
}

func (s *QuizScreen) Init() tea.Cmd {
	if s.view.TimeLimit > 0 {
		return tickCmd()
	}
	return nil
}

func (s *QuizScreen) Title() string {
	return s.view.Category.Icon + " " + s.view.Category.Name
}

func (s *QuizScreen) HandlesEscape() bool {
	return true
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.errMsg != "":
		return []layout.KeyHint{{Key: "Enter", Description: "Back"}}
	case s.confirmQuit:
		return []layout.KeyHint{{Key: "y", Description: "Quit quiz"}, {Key: "n", Description: "Keep playing"}}
	case s.feedback != nil:
		return []layout.KeyHint{{Key: "Enter", Description: "Continue"}}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choose"},
		{Key: "Enter", Description: "Answer"},
		{Key: "A-D", Description: "Quick answer"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return s.handleTick()
	case answeredMsg:
		return s.handleAnswered(msg)
	case expiredMsg:
		return s.handleExpired(msg)
	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *QuizScreen) handleTick() (screen.Screen, tea.Cmd) {
	if s.view.State != quiz.StateInProgress || s.errMsg != "" {
		return s, nil
	}
	current := s.svc.Machine.View()
	if current.State != quiz.StateInProgress {
		return s, nil
	}
	s.view.Remaining = current.Remaining
	if current.Remaining > 0 || s.pending {
		return s, tickCmd()
	}

	s.pending = true
	s.choices.Lock()
	m := s.svc.Machine
	return s, func() tea.Msg {
		fb, err := m.Expire(context.Background())
		return expiredMsg{Feedback: fb, Err: err}
	}
}

func (s *QuizScreen) handleExpired(msg expiredMsg) (screen.Screen, tea.Cmd) {
	s.pending = false
	if msg.Err != nil && !msg.Feedback.Finished {
		if errors.Is(msg.Err, quiz.ErrInvalidState) {
			// The session ended some other way before the expiry landed.
			return s, nil
		}
		s.errMsg = msg.Err.Error()
		return s, nil
	}
	if msg.Feedback.Discarded {
		s.timedOutUnanswered()
		return s, nil
	}
	return s, s.toSummary(true)
}

func (s *QuizScreen) timedOutUnanswered() {
	s.view.State = quiz.StateIdle
	s.errMsg = "Time ran out before any answer. The quiz was not scored."
}

func (s *QuizScreen) handleAnswered(msg answeredMsg) (screen.Screen, tea.Cmd) {
	s.pending = false
	fb := msg.Feedback

	if msg.Err != nil && !fb.Finished {
		switch {
		case errors.Is(msg.Err, questionbank.ErrNoQuestionsAvailable):
			s.errMsg = "Ran out of questions for this category. The quiz was not scored."
		case errors.Is(msg.Err, quiz.ErrValidation):
			s.choices.Locked = false
			return s, nil
		default:
			s.errMsg = msg.Err.Error()
		}
		return s, nil
	}

	if fb.Discarded {
		s.timedOutUnanswered()
		return s, nil
	}
	if fb.TimedOut {
		return s, s.toSummary(true)
	}

	s.feedback = &fb
	s.choices.Reveal(fb.Chosen, fb.CorrectChoice)
	s.view.Streak = fb.Streak
	s.view.Tier = fb.Tier
	s.view.Answered++
	if fb.Correct {
		s.view.Correct++
	}
	return s, nil
}

func (s *QuizScreen) toSummary(timedOut bool) tea.Cmd {
	s.view.State = quiz.StateFinished
	return router.Nav(router.ReplaceScreenMsg{Screen: NewSummary(s.svc, timedOut)})
}

func (s *QuizScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if s.pending {
		return s, nil
	}
	key := msg.String()

	if s.errMsg != "" {
		if key == "enter" || key == "esc" {
			return s, router.Nav(router.PopScreenMsg{})
		}
		return s, nil
	}

	if s.confirmQuit {
		switch key {
		case "y":
			_ = s.svc.Machine.Abandon()
			s.view.State = quiz.StateIdle
			return s, router.Nav(router.PopScreenMsg{})
		case "n", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	if key == "esc" {
		s.confirmQuit = true
		return s, nil
	}

	if s.feedback != nil {
		if key != "enter" && key != "space" {
			return s, nil
		}
		if s.feedback.Finished {
			return s, s.toSummary(false)
		}
		s.show(s.svc.Machine.View())
		return s, nil
	}

	var picked int
	s.choices, picked = s.choices.Update(msg)
	if picked < 0 {
		return s, nil
	}

	s.pending = true
	s.choices.Lock()
	m := s.svc.Machine
	taken := s.now().Sub(s.asked)
	return s, func() tea.Msg {
		fb, err := m.Submit(context.Background(), picked, taken)
		return answeredMsg{Feedback: fb, Err: err}
	}
}

func (s *QuizScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	if s.errMsg != "" {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			components.Card(lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg), cw))
	}
	if s.view.Question == nil {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("Loading..."))
	}

	sections := []string{
		s.renderStatus(cw),
		components.NewProgressBar("", float64(s.view.Answered)/float64(max(s.view.Length, 1)), false, cw).View(),
		components.Card(theme.Body.Bold(true).Width(cw-6).Render(s.view.Question.Prompt), cw),
		s.choices.View(cw),
	}

	switch {
	case s.confirmQuit:
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
			Render("Quit this quiz? Your answers will not be scored. (y/n)"))
	case s.feedback != nil:
		sections = append(sections, s.renderFeedback(cw))
	case s.pending:
		sections = append(sections, theme.Hint.Render("Checking..."))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (s *QuizScreen) renderStatus(cw int) string {
	left := fmt.Sprintf("Question %d/%d", s.view.Number, s.view.Length)
	right := fmt.Sprintf("Streak %d", s.view.Streak)
	if s.view.Streak >= progression.StreakBadgeLength {
		right += " 🔥"
	}
	if s.view.TimeLimit > 0 {
		right += "  ⏱ " + clock(s.view.Remaining)
	}

	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	line := theme.Body.Bold(true).Render(left) + "   " + dim.Render("Difficulty: ") + theme.TierBadge(s.view.Tier)
	gap := max(cw-lipgloss.Width(line)-lipgloss.Width(right), 1)
	return line + strings.Repeat(" ", gap) + lipgloss.NewStyle().Foreground(theme.Accent).Render(right)
}

func (s *QuizScreen) renderFeedback(cw int) string {
	fb := s.feedback
	var b strings.Builder
	if fb.Correct {
		b.WriteString(theme.Correct.Render("✓ Correct!"))
	} else {
		b.WriteString(theme.Incorrect.Render("✗ Not quite."))
		if s.view.Question != nil && s.view.Question.ValidChoice(fb.CorrectChoice) {
			b.WriteString(" The answer is " + s.view.Question.Choices[fb.CorrectChoice] + ".")
		}
	}
	if fb.Explanation != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Width(cw).Render(fb.Explanation))
	}
	switch {
	case fb.Tier > fb.PrevTier:
		b.WriteString("\n" + theme.Reward.Render("▲ Stepping up to "+fb.Tier.Label()))
	case fb.Tier < fb.PrevTier:
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.Secondary).Render("▼ Easing to "+fb.Tier.Label()))
	}
	next := "Press Enter for the next question"
	if fb.Finished {
		next = "Press Enter to see your results"
	}
	b.WriteString("\n\n" + theme.Hint.Render(next))
	return b.String()
}

func clock(d time.Duration) string {
	secs := int(d.Round(time.Second).Seconds())
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
