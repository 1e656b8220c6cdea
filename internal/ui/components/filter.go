package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// Filter is a one-line search box that narrows a list by substring.
type Filter struct {
	Model textinput.Model
}

// NewFilter returns a focused filter input.
func NewFilter(placeholder string, limit int) Filter {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	if limit > 0 {
		ti.CharLimit = limit
	}
	return Filter{Model: ti}
}

// Init focuses the input.
func (f Filter) Init() tea.Cmd {
	return f.Model.Focus()
}

// Update forwards the message to the input.
func (f Filter) Update(msg tea.Msg) (Filter, tea.Cmd) {
	var cmd tea.Cmd
	f.Model, cmd = f.Model.Update(msg)
	return f, cmd
}

// View renders the input.
func (f Filter) View() string {
	return f.Model.View()
}

// Value returns the trimmed query.
func (f Filter) Value() string {
	return strings.TrimSpace(f.Model.Value())
}

// Matches reports whether any of the fields contains the query, ignoring
// case. An empty query matches everything.
func (f Filter) Matches(fields ...string) bool {
	q := strings.ToLower(f.Value())
	if q == "" {
		return true
	}
	for _, s := range fields {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}
