package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizzy/internal/progression"
	"github.com/abhisek/quizzy/internal/recommend"
	"github.com/abhisek/quizzy/internal/ui/theme"
)

const titleFull = ` ██████╗ ██╗   ██╗██╗███████╗███████╗██╗   ██╗
██╔═══██╗██║   ██║██║╚══███╔╝╚══███╔╝╚██╗ ██╔╝
██║   ██║██║   ██║██║  ███╔╝   ███╔╝  ╚████╔╝
██║▄▄ ██║██║   ██║██║ ███╔╝   ███╔╝    ╚██╔╝
╚██████╔╝╚██████╔╝██║███████╗███████╗   ██║
 ╚══▀▀═╝  ╚═════╝ ╚═╝╚══════╝╚══════╝   ╚═╝`

const titleCompact = "Q · U · I · Z · Z · Y"

func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().Foreground(theme.Gold).Bold(true)
	art := titleFull
	if compact || cw < lipgloss.Width(titleFull) {
		art = titleCompact
	}
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(style.Render(art))
}

func renderStatsBar(stats progression.UserStats, cw int) string {
	level := lipgloss.NewStyle().Foreground(theme.Gold).Bold(true)
	xp := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	quizzes := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)

	line := fmt.Sprintf("%s  %s  %s",
		level.Render(fmt.Sprintf("★ LV %d %s", stats.Level(), strings.ToUpper(stats.Rank()))),
		xp.Render(fmt.Sprintf("◆ %d XP", stats.TotalXP)),
		quizzes.Render(fmt.Sprintf("✎ %d QUIZZES", stats.TotalQuizzes)),
	)

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw).
		Align(lipgloss.Center).
		Render(line)
}

func renderSuggestions(recs []recommend.Recommendation, stats progression.UserStats, cw int) string {
	heading := "Try one of these to get started"
	if stats.TotalQuizzes > 0 {
		heading = "Suggested next"
	}
	lines := []string{theme.Hint.Render(heading)}
	for _, r := range recs {
		lines = append(lines, fmt.Sprintf("%s %s  %s",
			r.Topic.Icon, r.Topic.Title,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(r.Reason.Label())))
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(lines, "\n"))
}
