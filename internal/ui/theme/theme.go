package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizzy/internal/category"
	"github.com/abhisek/quizzy/internal/difficulty"
)

// Palette. Dark background, warm highlights for rewards.
var (
	Primary   = lipgloss.Color("#6366F1")
	Secondary = lipgloss.Color("#06B6D4")
	Accent    = lipgloss.Color("#F59E0B")
	Gold      = lipgloss.Color("#FACC15")
	Success   = lipgloss.Color("#22C55E")
	Error     = lipgloss.Color("#EF4444")
	Text      = lipgloss.Color("#F8FAFC")
	TextDim   = lipgloss.Color("#94A3B8")
	BgDark    = lipgloss.Color("#0B1120")
	BgCard    = lipgloss.Color("#1E293B")
	Border    = lipgloss.Color("#334155")
)

var (
	Title    = lipgloss.NewStyle().Bold(true).Foreground(Primary).Align(lipgloss.Center)
	Subtitle = lipgloss.NewStyle().Foreground(TextDim).Align(lipgloss.Center)
	Body     = lipgloss.NewStyle().Foreground(Text)
	Hint     = lipgloss.NewStyle().Foreground(TextDim).Italic(true)
	Reward   = lipgloss.NewStyle().Foreground(Gold).Bold(true)

	Selected   = lipgloss.NewStyle().Foreground(Secondary).Bold(true)
	Unselected = lipgloss.NewStyle().Foreground(Text)
	Correct    = lipgloss.NewStyle().Foreground(Success).Bold(true)
	Incorrect  = lipgloss.NewStyle().Foreground(Error).Bold(true)
)

// TierColor is the badge color for a difficulty tier.
func TierColor(t difficulty.Tier) color.Color {
	switch t {
	case difficulty.TierEasy:
		return Success
	case difficulty.TierHard:
		return Error
	default:
		return Accent
	}
}

// TierBadge renders a tier label in its color.
func TierBadge(t difficulty.Tier) string {
	return lipgloss.NewStyle().Foreground(TierColor(t)).Bold(true).Render(t.Label())
}

// ThemeColor tints a category by its subject group.
func ThemeColor(th category.Theme) color.Color {
	switch th {
	case category.ThemeScience:
		return Secondary
	case category.ThemeHumanities:
		return Accent
	case category.ThemeTechnology:
		return Primary
	default:
		return Text
	}
}
