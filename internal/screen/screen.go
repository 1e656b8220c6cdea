// Package screen defines what the router stacks and the services screens
// share.
package screen

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizzy/internal/category"
	"github.com/abhisek/quizzy/internal/progression"
	"github.com/abhisek/quizzy/internal/quiz"
	"github.com/abhisek/quizzy/internal/store"
	"github.com/abhisek/quizzy/internal/ui/layout"
)

// Screen is one page of the application.
type Screen interface {
	// Init returns an initial command when the screen is first shown.
	Init() tea.Cmd

	// Update handles messages and returns the updated screen.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content, excluding header and footer.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider is implemented by screens with their own footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// EscapeHandler is implemented by screens that handle Esc themselves
// instead of letting the app pop them.
type EscapeHandler interface {
	HandlesEscape() bool
}

// StatsChangedMsg announces a new stats snapshot, after a commit or once
// loaded at startup.
type StatsChangedMsg struct {
	Stats progression.UserStats
}

// ResultHistory lists journaled session results.
type ResultHistory interface {
	Recent(ctx context.Context, userID string, limit int) ([]store.ResultRecord, error)
}

// Services is what screens need from the rest of the application.
type Services struct {
	UserID  string
	Machine *quiz.Machine
	Ledger  *progression.Ledger
	Catalog *category.Catalog
	History ResultHistory

	// Recommendations is how many suggestions the home and summary
	// screens show.
	Recommendations int

	// Prepare is called before a category is started, for example to top
	// up generated questions. It may be nil.
	Prepare func(ctx context.Context, categoryID string) error
}

// LoadStats returns a command that reads the user's stats and reports them
// as a StatsChangedMsg. A failed read is dropped; screens keep their last
// snapshot.
func (s *Services) LoadStats() tea.Cmd {
	return func() tea.Msg {
		stats, err := s.Ledger.Stats(context.Background(), s.UserID)
		if err != nil {
			return nil
		}
		return StatsChangedMsg{Stats: stats}
	}
}
