package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizzy/internal/ui/theme"
)

const (
	MinWidth  = 72
	MinHeight = 22

	CompactHeightThreshold = 30
)

// KeyHint is a key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// HeaderInfo is the player summary shown on the right of the header.
type HeaderInfo struct {
	Level int
	XP    int
	Rank  string
}

// IsCompactHeight reports whether vertical space is tight.
func IsCompactHeight(height int) bool {
	return height < CompactHeightThreshold
}

// IsTooSmall reports whether the terminal is below the minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage renders the "terminal too small" message.
func RenderMinSizeMessage(width, height int) string {
	msg := fmt.Sprintf("Terminal too small\n\nResize to at least %dx%d\n(current %dx%d)",
		MinWidth, MinHeight, width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Text).Align(lipgloss.Center).Render(msg))
}

var (
	bar = lipgloss.NewStyle().
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)

	brand    = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	keyStyle = lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	dim      = lipgloss.NewStyle().Foreground(theme.TextDim)
)

// RenderHeader draws the app name on the left, the screen title centered and
// the player's level, rank and XP on the right. The rank is dropped when the
// line would not fit.
func RenderHeader(title string, info HeaderInfo, width int) string {
	inner := max(width-4, 0)

	left := brand.Render(" Quizzy")
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	level := lipgloss.NewStyle().Foreground(theme.Gold).Render(fmt.Sprintf("Lv %d", info.Level))
	xp := lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("%d XP", info.XP))

	right := level + "  " + xp
	if info.Rank != "" {
		withRank := level + dim.Render(" "+info.Rank) + "  " + xp
		if lipgloss.Width(left)+lipgloss.Width(center)+lipgloss.Width(withRank)+2 <= inner {
			right = withRank
		}
	}

	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)
	leftGap := max((inner-cw)/2-lw, 1)
	rightGap := max(inner-lw-leftGap-cw-rw, 1)

	return bar.Width(width).Render(
		left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right)
}

// RenderFooter draws key hints separated by wide gaps.
func RenderFooter(hints []KeyHint, width int) string {
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = keyStyle.Render(h.Key) + " " + dim.Render(h.Description)
	}
	return bar.Width(width).Render("  " + strings.Join(parts, "   "))
}

// RenderFrame stacks header, content and footer. Content is padded to the
// height left between them.
func RenderFrame(header, content, footer string, width, height int) string {
	body := lipgloss.NewStyle().
		Width(width).
		Height(ContentHeight(header, footer, height)).
		Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// ContentHeight returns what is left for the screen once header and footer
// are drawn.
func ContentHeight(header, footer string, height int) int {
	return max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
}
