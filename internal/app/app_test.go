package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizzy/internal/category"
	"github.com/abhisek/quizzy/internal/progression"
	"github.com/abhisek/quizzy/internal/router"
	"github.com/abhisek/quizzy/internal/screen"
	"github.com/abhisek/quizzy/internal/ui/layout"
)

type stubScreen struct {
	escape bool
	keys   int
}

func (s *stubScreen) Init() tea.Cmd { return nil }
func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(tea.KeyPressMsg); ok {
		s.keys++
	}
	return s, nil
}
func (s *stubScreen) View(int, int) string { return "stub" }
func (s *stubScreen) Title() string        { return "Stub" }
func (s *stubScreen) HandlesEscape() bool  { return s.escape }

func testModel() AppModel {
	return newAppModel(&screen.Services{
		UserID:  "u1",
		Catalog: category.Default(),
		Ledger:  progression.NewLedger(progression.NewMemoryRepository()),
	})
}

func TestEscPopsPlainScreens(t *testing.T) {
	m := testModel()
	m.router.Push(&stubScreen{})

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestEscForwardedToHandlers(t *testing.T) {
	m := testModel()
	s := &stubScreen{escape: true}
	m.router.Push(s)

	m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if s.keys != 1 {
		t.Errorf("expected the screen to receive Esc, got %d keys", s.keys)
	}
}

func TestEscAtRootDoesNothing(t *testing.T) {
	m := testModel()
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd != nil {
		t.Error("expected no command at the root screen")
	}
}

func TestStatsUpdateHeader(t *testing.T) {
	m := testModel()
	stats := progression.NewStats()
	stats.TotalXP = 500

	updated, _ := m.Update(screen.StatsChangedMsg{Stats: stats})
	got := updated.(AppModel).info
	want := layout.HeaderInfo{Level: stats.Level(), XP: 500, Rank: stats.Rank()}
	if got != want {
		t.Errorf("header = %+v, want %+v", got, want)
	}
}
