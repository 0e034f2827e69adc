package wizard

import (
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/casewiz/internal/tui/theme"
)

// Badge is one option of a BadgeRow. Color is a hex color used when the
// badge is selected.
type Badge struct {
	Value string
	Label string
	Color string
}

// BadgeRow is a horizontal row of mutually exclusive badges. A cursor moves
// over the badges; enter, space or a digit key selects one.
type BadgeRow struct {
	id       string
	badges   []Badge
	cursor   int
	selected int // -1 when nothing is selected
	focused  bool
}

// NewBadgeRow creates a row with nothing selected.
func NewBadgeRow(id string, badges []Badge) *BadgeRow {
	return &BadgeRow{id: id, badges: badges, selected: -1}
}

// Update handles key presses while focused.
func (r *BadgeRow) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok || !r.focused || len(r.badges) == 0 {
		return nil
	}

	k := key.String()
	switch k {
	case "right", "l":
		if r.cursor < len(r.badges)-1 {
			r.cursor++
		}
		return nil
	case "left", "h":
		if r.cursor > 0 {
			r.cursor--
		}
		return nil
	case "enter", "space", " ":
		return r.selectAt(r.cursor)
	case "tab":
		return func() tea.Msg { return TabExitForwardMsg{} }
	case "shift+tab":
		return func() tea.Msg { return TabExitBackwardMsg{} }
	}

	// Digit shortcuts: 1 selects the first badge
	if n, err := strconv.Atoi(k); err == nil && n >= 1 && n <= len(r.badges) {
		r.cursor = n - 1
		return r.selectAt(n - 1)
	}
	return nil
}

func (r *BadgeRow) selectAt(i int) tea.Cmd {
	r.selected = i
	id, value := r.id, r.badges[i].Value
	return func() tea.Msg {
		return BadgeSelectedMsg{ID: id, Value: value}
	}
}

// SetValue selects the badge with the given value; unknown values clear the
// selection.
func (r *BadgeRow) SetValue(value string) {
	r.selected = -1
	for i, b := range r.badges {
		if b.Value == value {
			r.selected = i
			r.cursor = i
			return
		}
	}
}

// Value returns the selected badge value, or "".
func (r *BadgeRow) Value() string {
	if r.selected < 0 {
		return ""
	}
	return r.badges[r.selected].Value
}

// Focus gives the row keyboard focus.
func (r *BadgeRow) Focus() { r.focused = true }

// Blur removes keyboard focus.
func (r *BadgeRow) Blur() { r.focused = false }

// Focused reports whether the row has focus.
func (r *BadgeRow) Focused() bool { return r.focused }

// View renders the badges on one line. The selected badge is filled with its
// color and marked; the cursor is underlined while focused.
func (r *BadgeRow) View() string {
	t := theme.Current()

	parts := make([]string, 0, len(r.badges))
	for i, b := range r.badges {
		style := lipgloss.NewStyle().Padding(0, 1)
		label := b.Label
		if i == r.selected {
			label = "● " + label
			style = style.
				Foreground(lipgloss.Color(t.BgBase)).
				Background(lipgloss.Color(b.Color)).
				Bold(true)
		} else {
			style = style.
				Foreground(lipgloss.Color(b.Color)).
				Background(lipgloss.Color(t.BgSurface0))
		}
		if r.focused && i == r.cursor {
			style = style.Underline(true)
		}
		parts = append(parts, style.Render(label))
	}
	return strings.Join(parts, " ")
}
