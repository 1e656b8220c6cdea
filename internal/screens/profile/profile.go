// Package profile shows the player's level, totals, per-category accuracy
// and badges.
package profile

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizzy/internal/progression"
	"github.com/abhisek/quizzy/internal/screen"
	"github.com/abhisek/quizzy/internal/ui/components"
	"github.com/abhisek/quizzy/internal/ui/layout"
	"github.com/abhisek/quizzy/internal/ui/theme"
)

type ProfileScreen struct {
	svc    *screen.Services
	stats  progression.UserStats
	loaded bool
}

var _ screen.Screen = (*ProfileScreen)(nil)
var _ screen.KeyHintProvider = (*ProfileScreen)(nil)

func New(svc *screen.Services) *ProfileScreen {
	return &ProfileScreen{svc: svc, stats: progression.NewStats()}
}

func (p *ProfileScreen) Init() tea.Cmd {
	return p.svc.LoadStats()
}

func (p *ProfileScreen) Title() string {
	return "Profile"
}

func (p *ProfileScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}

func (p *ProfileScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(screen.StatsChangedMsg); ok {
		p.stats = msg.Stats
		p.loaded = true
	}
	return p, nil
}

func (p *ProfileScreen) View(width, height int) string {
	if !p.loaded {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Hint.Render("Loading profile..."))
	}
	cw := components.ContentWidth(width)
	s := p.stats

	sections := []string{
		p.renderLevel(cw),
		components.Card(p.renderTotals(), cw),
	}
	if !layout.IsCompactHeight(height) || len(s.CategoryOrder) <= 3 {
		if cats := p.renderCategories(cw); cats != "" {
			sections = append(sections, components.Section("Categories", cats))
		}
	}
	sections = append(sections, components.Section("Badges", renderBadges(s.Badges)))

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (p *ProfileScreen) renderLevel(cw int) string {
	info := progression.LevelProgress(p.stats.TotalXP)
	title := theme.Reward.Render(fmt.Sprintf("Level %d · %s", info.Level, p.stats.Rank()))
	bar := components.NewProgressBar("", info.Fraction(), true, cw)
	bar.Color = theme.Gold
	next := theme.Hint.Render(fmt.Sprintf("%d / %d XP  (%d to go)", info.XP, info.Next, info.Remaining()))
	return title + "\n" + bar.View() + "\n" + next
}

func (p *ProfileScreen) renderTotals() string {
	s := p.stats
	rows := [][2]string{
		{"Quizzes played", fmt.Sprintf("%d", s.TotalQuizzes)},
		{"Questions answered", fmt.Sprintf("%d", s.TotalQuestions)},
		{"Average score", fmt.Sprintf("%d%%", s.AverageScorePercent())},
		{"Longest streak", fmt.Sprintf("%d", s.LongestStreak)},
		{"Challenges completed", fmt.Sprintf("%d", s.CompletedChallenges)},
	}
	if s.TopCategory != "" {
		rows = append(rows, [2]string{"Strongest", p.svc.Catalog.Name(s.TopCategory)})
	}
	if s.WeakestCategory != "" && s.WeakestCategory != s.TopCategory {
		rows = append(rows, [2]string{"Needs practice", p.svc.Catalog.Name(s.WeakestCategory)})
	}

	label := lipgloss.NewStyle().Foreground(theme.TextDim).Width(22)
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, label.Render(r[0])+theme.Body.Render(r[1]))
	}
	return strings.Join(lines, "\n")
}

func (p *ProfileScreen) renderCategories(cw int) string {
	var lines []string
	for _, id := range p.stats.CategoryOrder {
		t := p.stats.PerCategory[id]
		if t.Total == 0 {
			continue
		}
		name := fmt.Sprintf("%-14s", truncate(p.svc.Catalog.Name(id), 14))
		bar := components.NewProgressBar(name, t.Accuracy(), true, cw)
		lines = append(lines, bar.View()+theme.Hint.Render(fmt.Sprintf(" %d/%d", t.Correct, t.Total)))
	}
	return strings.Join(lines, "\n")
}

func renderBadges(badges []progression.Badge) string {
	lines := make([]string, 0, len(badges))
	for _, b := range badges {
		if b.Earned {
			lines = append(lines, theme.Reward.Render(b.Icon+" "+b.Name)+"  "+
				theme.Hint.Render(b.Description+" · "+b.EarnedAt.Local().Format("Jan 02 2006")))
			continue
		}
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.TextDim).Render("🔒 "+b.Name+"  "+b.Description))
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
