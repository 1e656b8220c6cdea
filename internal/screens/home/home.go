package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizzy/internal/progression"
	"github.com/abhisek/quizzy/internal/recommend"
	"github.com/abhisek/quizzy/internal/router"
	"github.com/abhisek/quizzy/internal/screen"
	"github.com/abhisek/quizzy/internal/screens/history"
	"github.com/abhisek/quizzy/internal/screens/play"
	"github.com/abhisek/quizzy/internal/screens/profile"
	"github.com/abhisek/quizzy/internal/ui/components"
)

// HomeScreen is the root screen: title, player stats, suggestions and the
// main menu.
type HomeScreen struct {
	svc    *screen.Services
	menu   components.Menu
	stats  progression.UserStats
	recs   []recommend.Recommendation
	loaded bool
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the home screen.
func New(svc *screen.Services) *HomeScreen {
	h := &HomeScreen{svc: svc, stats: progression.NewStats()}
	h.menu = components.NewMenu([]components.MenuItem{
		{Label: "PLAY", Action: func() tea.Cmd {
			return router.Nav(router.PushScreenMsg{Screen: play.NewPicker(svc, h.recs)})
		}},
		{Label: "PROFILE", Action: func() tea.Cmd {
			return router.Nav(router.PushScreenMsg{Screen: profile.New(svc)})
		}},
		{Label: "HISTORY", Action: func() tea.Cmd {
			return router.Nav(router.PushScreenMsg{Screen: history.New(svc)})
		}},
		{Label: "QUIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	})
	h.recs = recommend.Collect(recommend.RecommendN(h.stats, svc.Catalog, svc.Recommendations))
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.svc.LoadStats()
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.StatsChangedMsg:
		h.stats = msg.Stats
		h.loaded = true
		h.recs = recommend.Collect(recommend.RecommendN(h.stats, h.svc.Catalog, h.svc.Recommendations))
		return h, nil
	case tea.KeyPressMsg:
		var cmd tea.Cmd
		h.menu, cmd = h.menu.Update(msg)
		return h, cmd
	}
	return h, nil
}

func (h *HomeScreen) View(width, height int) string {
	compact := height < 26
	cw := components.ContentWidth(width)

	sections := []string{renderTitle(cw, compact), renderStatsBar(h.stats, cw)}
	if len(h.recs) > 0 && !compact {
		sections = append(sections, renderSuggestions(h.recs, h.stats, cw))
	}
	sections = append(sections, h.menu.ButtonView(min(cw, 30)))

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return components.Frame(strings.TrimRight(content, "\n"), width, height)
}
