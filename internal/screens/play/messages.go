package play

import (
	"context"
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizzy/internal/progression"
	"github.com/abhisek/quizzy/internal/quiz"
	"github.com/abhisek/quizzy/internal/screen"
)

// startedMsg reports the result of starting a session.
type startedMsg struct {
	CategoryID string
	View       quiz.View
	Err        error
}

// answeredMsg carries the feedback of a submitted answer.
type answeredMsg struct {
	Feedback quiz.Feedback
	Err      error
}

// expiredMsg carries the feedback of a timed-out session.
type expiredMsg struct {
	Feedback quiz.Feedback
	Err      error
}

// savedMsg reports a retried save.
type savedMsg struct {
	Outcome progression.Outcome
	Err     error
}

// tickMsg drives the countdown.
type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// startCmd begins a session in categoryID. A finished session still held
// by the machine is dropped first. Prepare failures are logged and the
// start goes ahead with whatever questions exist.
func startCmd(svc *screen.Services, categoryID string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if svc.Machine.State() == quiz.StateFinished {
			if err := svc.Machine.Reset(); err != nil {
				return startedMsg{CategoryID: categoryID, Err: err}
			}
		}
		if svc.Prepare != nil {
			if err := svc.Prepare(ctx, categoryID); err != nil {
				slog.Warn("preparing questions failed", "category", categoryID, "err", err)
			}
		}
		v, err := svc.Machine.Start(ctx, categoryID)
		return startedMsg{CategoryID: categoryID, View: v, Err: err}
	}
}
