package play

import (
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizzy/internal/category"
	"github.com/abhisek/quizzy/internal/questionbank"
	"github.com/abhisek/quizzy/internal/recommend"
	"github.com/abhisek/quizzy/internal/router"
	"github.com/abhisek/quizzy/internal/screen"
	"github.com/abhisek/quizzy/internal/ui/components"
	"github.com/abhisek/quizzy/internal/ui/layout"
	"github.com/abhisek/quizzy/internal/ui/theme"
)

// PickerScreen lists the categories with a type-to-filter box. Enter
// starts a quiz in the highlighted category.
type PickerScreen struct {
	svc         *screen.Services
	filter      components.Filter
	menu        components.Menu
	visible     []category.Category
	recommended map[string]recommend.Reason

	starting string
	errMsg   string
}

var _ screen.Screen = (*PickerScreen)(nil)
var _ screen.KeyHintProvider = (*PickerScreen)(nil)

// NewPicker creates the picker. Recommended categories are tagged and the
// cursor starts on the first of them.
func NewPicker(svc *screen.Services, recs []recommend.Recommendation) *PickerScreen {
	p := &PickerScreen{
		svc:         svc,
		filter:      components.NewFilter("type to filter", 32),
		recommended: make(map[string]recommend.Reason, len(recs)),
	}
	for _, r := range recs {
		p.recommended[r.Category.ID] = r.Reason
	}
	p.rebuild()
	if len(recs) > 0 {
		for i, c := range p.visible {
			if c.ID == recs[0].Category.ID {
				p.menu.Selected = i
				break
			}
		}
	}
	return p
}

func (p *PickerScreen) Init() tea.Cmd {
	return p.filter.Init()
}

func (p *PickerScreen) Title() string {
	return "Choose a Category"
}

func (p *PickerScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Play"},
		{Key: "Type", Description: "Filter"},
		{Key: "Esc", Description: "Back"},
	}
}

func (p *PickerScreen) rebuild() {
	p.visible = p.visible[:0]
	items := make([]components.MenuItem, 0)
	for _, c := range p.svc.Catalog.All() {
		if !p.filter.Matches(c.Name, c.Description, c.ID) {
			continue
		}
		p.visible = append(p.visible, c)
		id := c.ID
		item := components.MenuItem{
			Label:  c.Icon + " " + c.Name,
			Action: func() tea.Cmd { return p.start(id) },
		}
		if reason, ok := p.recommended[id]; ok {
			item.Detail = reason.Label()
		}
		items = append(items, item)
	}
	p.menu = components.NewMenu(items)
}

func (p *PickerScreen) start(categoryID string) tea.Cmd {
	p.starting = categoryID
	p.errMsg = ""
	return startCmd(p.svc, categoryID)
}

func (p *PickerScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case startedMsg:
		p.starting = ""
		if msg.Err != nil {
			p.errMsg = startError(p.svc.Catalog.Name(msg.CategoryID), msg.Err)
			return p, nil
		}
		return p, router.Nav(router.ReplaceScreenMsg{Screen: NewQuiz(p.svc, msg.View)})

	case tea.KeyPressMsg:
		if p.starting != "" {
			return p, nil
		}
		switch msg.String() {
		case "up", "down", "enter":
			var cmd tea.Cmd
			p.menu, cmd = p.menu.Update(msg)
			return p, cmd
		}
		before := p.filter.Value()
		var cmd tea.Cmd
		p.filter, cmd = p.filter.Update(msg)
		if p.filter.Value() != before {
			p.rebuild()
		}
		return p, cmd
	}

	var cmd tea.Cmd
	p.filter, cmd = p.filter.Update(msg)
	return p, cmd
}

func startError(name string, err error) string {
	if errors.Is(err, questionbank.ErrNoQuestionsAvailable) {
		return fmt.Sprintf("No questions available for %s yet. Try another category.", name)
	}
	return fmt.Sprintf("Could not start %s: %v", name, err)
}

func (p *PickerScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, theme.Title.Width(cw).Render("What do you want to play?"))
	sections = append(sections, components.Card(p.filter.View(), cw))

	if len(p.visible) == 0 {
		sections = append(sections, theme.Hint.Render("No category matches the filter."))
	} else {
		sections = append(sections, p.menu.View())
		if item, ok := p.current(); ok {
			sections = append(sections, components.Card(p.renderDetails(item), cw))
		}
	}

	switch {
	case p.starting != "":
		sections = append(sections, theme.Hint.Render("Preparing "+p.svc.Catalog.Name(p.starting)+"..."))
	case p.errMsg != "":
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Error).Width(cw).Render(p.errMsg))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (p *PickerScreen) current() (category.Category, bool) {
	if p.menu.Selected < 0 || p.menu.Selected >= len(p.visible) {
		return category.Category{}, false
	}
	return p.visible[p.menu.Selected], true
}

func (p *PickerScreen) renderDetails(c category.Category) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.ThemeColor(c.Theme)).Bold(true).Render(c.Icon + " " + c.Name))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(c.Description))
	if topic, ok := p.svc.Catalog.Topic(c.ID); ok {
		b.WriteString("\n\n")
		b.WriteString(theme.Body.Render(topic.Icon + " " + topic.Title))
		b.WriteString("\n")
		b.WriteString(theme.TierBadge(topic.Difficulty))
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(" · " + topic.EstimatedLabel()))
	}
	return b.String()
}
