package wizard

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mark3labs/casewiz/internal/tui/theme"
)

// ButtonState represents the visual state of a button.
type ButtonState int

const (
	ButtonNormal   ButtonState = iota // Normal state (enabled)
	ButtonDisabled                    // Disabled state (grayed out), never focused
)

// ButtonID identifies a button by its position in the bar.
type ButtonID int

// Positions of the standard two-button layout.
const (
	ButtonNone ButtonID = -1
	ButtonBack ButtonID = 0
	ButtonNext ButtonID = 1
)

// Button represents a single button in the button bar.
type Button struct {
	Label string
	State ButtonState
}

// ButtonBar manages a row of buttons and keyboard focus among them.
type ButtonBar struct {
	buttons []Button
	focus   int // Index of focused button, -1 when the bar is blurred
	width   int
}

// NewButtonBar creates a new, unfocused button bar.
func NewButtonBar(buttons []Button) *ButtonBar {
	return &ButtonBar{
		buttons: buttons,
		focus:   -1,
		width:   60,
	}
}

// SetWidth updates the width the bar is centered in.
func (b *ButtonBar) SetWidth(width int) {
	b.width = width
}

// SetLabel replaces the label of the button at id.
func (b *ButtonBar) SetLabel(id ButtonID, label string) {
	if int(id) >= 0 && int(id) < len(b.buttons) {
		b.buttons[id].Label = label
	}
}

// FocusFirst focuses the first enabled button.
func (b *ButtonBar) FocusFirst() {
	b.focus = b.nextEnabled(-1, 1)
}

// FocusLast focuses the last enabled button.
func (b *ButtonBar) FocusLast() {
	b.focus = b.nextEnabled(len(b.buttons), -1)
}

// FocusNext moves focus right. It returns false, leaving the bar blurred,
// when focus would move past the last button.
func (b *ButtonBar) FocusNext() bool {
	b.focus = b.nextEnabled(b.focus, 1)
	return b.focus >= 0
}

// FocusPrev moves focus left. It returns false, leaving the bar blurred,
// when focus would move before the first button.
func (b *ButtonBar) FocusPrev() bool {
	start := b.focus
	if start < 0 {
		start = len(b.buttons)
	}
	b.focus = b.nextEnabled(start, -1)
	return b.focus >= 0
}

// Blur removes focus from the bar.
func (b *ButtonBar) Blur() {
	b.focus = -1
}

// IsFocused reports whether any button has focus.
func (b *ButtonBar) IsFocused() bool {
	return b.focus >= 0
}

// FocusedButton returns the focused button, or ButtonNone.
func (b *ButtonBar) FocusedButton() ButtonID {
	if b.focus < 0 {
		return ButtonNone
	}
	return ButtonID(b.focus)
}

func (b *ButtonBar) nextEnabled(from, dir int) int {
	for i := from + dir; i >= 0 && i < len(b.buttons); i += dir {
		if b.buttons[i].State != ButtonDisabled {
			return i
		}
	}
	return -1
}

// Render renders the button bar centered in its width.
func (b *ButtonBar) Render() string {
	if len(b.buttons) == 0 {
		return ""
	}
	s := theme.Current().S()

	rendered := make([]string, 0, len(b.buttons))
	for i, btn := range b.buttons {
		switch {
		case btn.State == ButtonDisabled:
			rendered = append(rendered, s.ButtonDisabled.Render(btn.Label))
		case i == b.focus:
			rendered = append(rendered, s.ButtonFocused.Render(btn.Label))
		default:
			rendered = append(rendered, s.ButtonNormal.Render(btn.Label))
		}
	}

	return lipgloss.Place(b.width, 1, lipgloss.Center, lipgloss.Center, strings.Join(rendered, ""))
}

// CreateBackNextButtons creates the standard Back/Next button set.
func CreateBackNextButtons(backEnabled bool, nextLabel string) []Button {
	backState := ButtonNormal
	if !backEnabled {
		backState = ButtonDisabled
	}
	return []Button{
		{Label: "← Back", State: backState},
		{Label: nextLabel, State: ButtonNormal},
	}
}
