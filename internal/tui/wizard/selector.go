package wizard

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/casewiz/internal/tui/theme"
)

// Choice is one selectable value with its display label.
type Choice struct {
	Value string
	Label string
}

// Selector is an inline single-choice control cycled with the arrow keys.
// It starts with nothing selected and shows a placeholder.
type Selector struct {
	id          string
	choices     []Choice
	index       int // -1 when nothing is selected
	focused     bool
	Placeholder string
}

// NewSelector creates a selector with no choice made.
func NewSelector(id string, choices []Choice) *Selector {
	return &Selector{
		id:          id,
		choices:     choices,
		index:       -1,
		Placeholder: "Select...",
	}
}

// Update handles key presses while focused. Moving to another choice emits
// a SelectionChangedMsg.
func (s *Selector) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok || !s.focused || len(s.choices) == 0 {
		return nil
	}

	switch key.String() {
	case "right", "l", "space", " ":
		s.index = (s.index + 1) % len(s.choices)
	case "left", "h":
		if s.index <= 0 {
			s.index = len(s.choices) - 1
		} else {
			s.index--
		}
	case "tab":
		return func() tea.Msg { return TabExitForwardMsg{} }
	case "shift+tab":
		return func() tea.Msg { return TabExitBackwardMsg{} }
	default:
		return nil
	}

	id, value := s.id, s.Value()
	return func() tea.Msg {
		return SelectionChangedMsg{ID: id, Value: value}
	}
}

// SetValue selects the choice with the given value. Unknown values clear
// the selection.
func (s *Selector) SetValue(value string) {
	s.index = -1
	for i, c := range s.choices {
		if c.Value == value {
			s.index = i
			return
		}
	}
}

// Value returns the selected value, or "" when nothing is selected.
func (s *Selector) Value() string {
	if s.index < 0 {
		return ""
	}
	return s.choices[s.index].Value
}

// Focus gives the selector keyboard focus.
func (s *Selector) Focus() { s.focused = true }

// Blur removes keyboard focus.
func (s *Selector) Blur() { s.focused = false }

// Focused reports whether the selector has focus.
func (s *Selector) Focused() bool { return s.focused }

// View renders "‹ Label ›", or the placeholder when nothing is selected.
func (s *Selector) View() string {
	t := theme.Current()
	st := t.S()

	label := st.Muted.Render(s.Placeholder)
	if s.index >= 0 {
		label = lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgBase)).Render(s.choices[s.index].Label)
	}

	arrow := st.Muted
	box := st.Input
	if s.focused {
		arrow = st.LabelFocused
		box = st.InputFocused
	}
	return box.Render(arrow.Render("‹ ") + label + arrow.Render(" ›"))
}
