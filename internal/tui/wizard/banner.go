package wizard

import (
	"github.com/mark3labs/casewiz/internal/tui/theme"
)

// Banner shows one validation message tied to the step that raised it.
// It has no timer of its own; the owner decides when to clear it.
type Banner struct {
	step int
	text string
}

// NewBanner creates a hidden banner.
func NewBanner() *Banner {
	return &Banner{}
}

// Show displays text on the given step, replacing any previous message.
func (b *Banner) Show(step int, text string) {
	b.step = step
	b.text = text
}

// Clear hides the banner.
func (b *Banner) Clear() {
	b.step = 0
	b.text = ""
}

// IsVisible reports whether a message is being shown.
func (b *Banner) IsVisible() bool {
	return b.text != ""
}

// Text returns the current message, or "".
func (b *Banner) Text() string {
	return b.text
}

// View renders the message if it belongs to step, wrapped to width.
func (b *Banner) View(step, width int) string {
	if b.text == "" || b.step != step {
		return ""
	}
	style := theme.Current().S().ErrorBanner
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render("✗ " + b.text)
}
