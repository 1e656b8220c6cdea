package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func TestMenu_SkipsDisabled(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "off", Disabled: true},
		{Label: "one"},
		{Label: "off", Disabled: true},
		{Label: "two"},
	})
	if m.Selected != 1 {
		t.Fatalf("Selected = %d, want 1", m.Selected)
	}

	m, _ = m.Update(specialKey(tea.KeyDown))
	if m.Selected != 3 {
		t.Errorf("after down Selected = %d, want 3", m.Selected)
	}
	m, _ = m.Update(specialKey(tea.KeyDown))
	if m.Selected != 3 {
		t.Errorf("down at bottom moved cursor to %d", m.Selected)
	}
	m, _ = m.Update(keyPress('k'))
	if m.Selected != 1 {
		t.Errorf("after k Selected = %d, want 1", m.Selected)
	}
}

func TestMenu_EnterRunsAction(t *testing.T) {
	ran := false
	m := NewMenu([]MenuItem{{Label: "go", Action: func() tea.Cmd {
		ran = true
		return nil
	}}})
	m.Update(specialKey(tea.KeyEnter))
	if !ran {
		t.Error("expected action to run on enter")
	}
}

func TestChoiceList_PickByShortcut(t *testing.T) {
	c := NewChoiceList([]string{"a", "b", "c", "d"})

	c, picked := c.Update(keyPress('c'))
	if picked != 2 {
		t.Errorf("picked = %d, want 2", picked)
	}
	if c.Cursor != 2 {
		t.Errorf("Cursor = %d, want 2", c.Cursor)
	}

	_, picked = c.Update(keyPress('4'))
	if picked != 3 {
		t.Errorf("picked = %d, want 3", picked)
	}

	_, picked = c.Update(keyPress('9'))
	if picked != -1 {
		t.Errorf("out of range shortcut picked %d", picked)
	}
}

func TestChoiceList_EnterPicksCursor(t *testing.T) {
	c := NewChoiceList([]string{"a", "b", "c", "d"})
	c, _ = c.Update(specialKey(tea.KeyDown))
	_, picked := c.Update(specialKey(tea.KeyEnter))
	if picked != 1 {
		t.Errorf("picked = %d, want 1", picked)
	}
}

func TestChoiceList_LockedIgnoresInput(t *testing.T) {
	c := NewChoiceList([]string{"a", "b"})
	c.Reveal(0, 1)

	c, picked := c.Update(keyPress('b'))
	if picked != -1 {
		t.Errorf("locked list picked %d", picked)
	}
	view := c.View(40)
	if !strings.Contains(view, "✓") || !strings.Contains(view, "✗") {
		t.Errorf("revealed view should mark both answers:\n%s", view)
	}
}

func TestFilter_Matches(t *testing.T) {
	f := NewFilter("search", 20)
	if !f.Matches("anything") {
		t.Error("empty filter should match everything")
	}

	f.Model.SetValue("  SCI ")
	if !f.Matches("History", "Science") {
		t.Error("expected case-insensitive match on second field")
	}
	if f.Matches("History", "Art") {
		t.Error("unexpected match")
	}
}

func TestProgressBar_Clamps(t *testing.T) {
	for _, frac := range []float64{-1, 0, 0.5, 1, 3} {
		view := NewProgressBar("", frac, false, 10).View()
		if view == "" {
			t.Errorf("fraction %v rendered empty", frac)
		}
	}
}
