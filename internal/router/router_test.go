package router

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizzy/internal/screen"
)

type stubScreen struct {
	title string
	inits int
	seen  []tea.Msg
}

func (s *stubScreen) Init() tea.Cmd {
	s.inits++
	return nil
}

func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.seen = append(s.seen, msg)
	return s, nil
}

func (s *stubScreen) View(int, int) string { return s.title }
func (s *stubScreen) Title() string        { return s.title }

// titles lists the stack bottom to top.
func titles(r *Router) string {
	names := make([]string, 0, len(r.stack))
	for _, s := range r.stack {
		names = append(names, s.Title())
	}
	return strings.Join(names, ">")
}

func TestNavigation(t *testing.T) {
	tests := []struct {
		name  string
		steps func(r *Router)
		want  string
	}{
		{
			name:  "push",
			steps: func(r *Router) { r.Push(&stubScreen{title: "picker"}) },
			want:  "home>picker",
		},
		{
			name: "pop",
			steps: func(r *Router) {
				r.Push(&stubScreen{title: "picker"})
				r.Pop()
			},
			want: "home",
		},
		{
			name:  "pop keeps root",
			steps: func(r *Router) { r.Pop() },
			want:  "home",
		},
		{
			name:  "replace root",
			steps: func(r *Router) { r.Replace(&stubScreen{title: "quiz"}) },
			want:  "quiz",
		},
		{
			name: "replace top",
			steps: func(r *Router) {
				r.Push(&stubScreen{title: "picker"})
				r.Replace(&stubScreen{title: "quiz"})
			},
			want: "home>quiz",
		},
		{
			name: "messages",
			steps: func(r *Router) {
				r.Update(PushScreenMsg{Screen: &stubScreen{title: "picker"}})
				r.Update(ReplaceScreenMsg{Screen: &stubScreen{title: "quiz"}})
				r.Update(ReplaceScreenMsg{Screen: &stubScreen{title: "summary"}})
			},
			want: "home>summary",
		},
		{
			name: "pop to root",
			steps: func(r *Router) {
				r.Push(&stubScreen{title: "picker"})
				r.Push(&stubScreen{title: "quiz"})
				r.Update(PopToRootMsg{})
			},
			want: "home",
		},
		{
			name: "pop message",
			steps: func(r *Router) {
				r.Push(&stubScreen{title: "history"})
				r.Update(PopScreenMsg{})
			},
			want: "home",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(&stubScreen{title: "home"})
			tt.steps(r)
			if got := titles(r); got != tt.want {
				t.Errorf("stack = %q, want %q", got, tt.want)
			}
			if r.Active().Title() != tt.want[strings.LastIndex(tt.want, ">")+1:] {
				t.Errorf("active = %q", r.Active().Title())
			}
		})
	}
}

func TestInitRunsOnEntry(t *testing.T) {
	root := &stubScreen{title: "home"}
	r := New(root)

	pushed := &stubScreen{title: "picker"}
	r.Push(pushed)
	replaced := &stubScreen{title: "quiz"}
	r.Replace(replaced)

	if pushed.inits != 1 || replaced.inits != 1 {
		t.Errorf("inits: pushed=%d replaced=%d, want 1 each", pushed.inits, replaced.inits)
	}

	// Returning to the root re-initializes it so it can refresh.
	r.PopToRoot()
	if root.inits != 1 {
		t.Errorf("root inits = %d, want 1", root.inits)
	}
}

type pingMsg struct{}

func TestMessageDelivery(t *testing.T) {
	bottom := &stubScreen{title: "home"}
	top := &stubScreen{title: "profile"}
	r := New(bottom)
	r.Push(top)

	r.Update(pingMsg{})
	if len(bottom.seen) != 0 || len(top.seen) != 1 {
		t.Fatalf("update: bottom saw %d, top saw %d", len(bottom.seen), len(top.seen))
	}

	r.Broadcast(pingMsg{})
	if len(bottom.seen) != 1 || len(top.seen) != 2 {
		t.Errorf("broadcast: bottom saw %d, top saw %d", len(bottom.seen), len(top.seen))
	}
}
