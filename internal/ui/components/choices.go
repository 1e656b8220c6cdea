package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizzy/internal/ui/theme"
)

// ChoiceLabels prefixes answer choices.
var ChoiceLabels = []string{"A", "B", "C", "D", "E", "F"}

// ChoiceList is the answer picker for a multiple-choice question. Once
// revealed it is locked and shows the chosen and correct answers.
type ChoiceList struct {
	Options []string
	Cursor  int
	Locked  bool

	chosen  int
	correct int
}

// NewChoiceList returns an unlocked list with the cursor on the first
// option.
func NewChoiceList(options []string) ChoiceList {
	return ChoiceList{Options: options, chosen: -1, correct: -1}
}

// Update handles navigation. It returns the index the player picked, or -1
// when the key did not pick anything. Enter picks the option under the
// cursor; a letter or number picks directly.
func (c ChoiceList) Update(msg tea.Msg) (ChoiceList, int) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || c.Locked || len(c.Options) == 0 {
		return c, -1
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
		return c, -1
	case "down", "j":
		if c.Cursor < len(c.Options)-1 {
			c.Cursor++
		}
		return c, -1
	case "enter", "space":
		return c, c.Cursor
	}

	if idx, ok := shortcut(key); ok && idx < len(c.Options) {
		c.Cursor = idx
		return c, idx
	}
	return c, -1
}

func shortcut(key string) (int, bool) {
	if len(key) != 1 {
		return 0, false
	}
	switch ch := key[0]; {
	case ch >= '1' && ch <= '9':
		return int(ch - '1'), true
	case ch >= 'a' && ch <= 'f':
		return int(ch - 'a'), true
	}
	return 0, false
}

// Reveal locks the list and marks the chosen and correct options.
func (c *ChoiceList) Reveal(chosen, correct int) {
	c.Locked = true
	c.chosen = chosen
	c.correct = correct
}

// Lock freezes input without revealing anything.
func (c *ChoiceList) Lock() {
	c.Locked = true
}

// View renders one option per line.
func (c ChoiceList) View(width int) string {
	var b strings.Builder
	for i, opt := range c.Options {
		label := fmt.Sprintf("%d", i+1)
		if i < len(ChoiceLabels) {
			label = ChoiceLabels[i]
		}
		prefix := "  "
		if i == c.Cursor && !c.Locked {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, label, opt)

		style := lipgloss.NewStyle().Width(width)
		switch {
		case c.correct >= 0 && i == c.correct:
			style = style.Foreground(theme.Success).Bold(true)
			line += "  ✓"
		case c.correct >= 0 && i == c.chosen:
			style = style.Foreground(theme.Error).Bold(true)
			line += "  ✗"
		case c.Locked:
			style = style.Foreground(theme.TextDim)
		case i == c.Cursor:
			style = style.Foreground(theme.Secondary).Bold(true)
		default:
			style = style.Foreground(theme.Text)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
