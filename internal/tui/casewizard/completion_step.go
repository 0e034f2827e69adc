package casewizard

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/casewiz/internal/tui/theme"
	"github.com/mark3labs/casewiz/internal/tui/wizard"
)

// CompletionStep shows the submitted case reference.
type CompletionStep struct {
	reference string
	subject   string
}

// NewCompletionStep creates the completion screen.
func NewCompletionStep(reference, subject string) *CompletionStep {
	return &CompletionStep{reference: reference, subject: subject}
}

// Update quits on enter, q or esc.
func (s *CompletionStep) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "enter", "q", "esc", "space", " ":
			return tea.Quit
		}
	}
	return nil
}

// View renders the completion screen.
func (s *CompletionStep) View() string {
	th := theme.Current()
	st := th.S()
	var b strings.Builder

	b.WriteString(st.Success.Render("✓ Case submitted"))
	b.WriteString("\n\n")

	if s.subject != "" {
		b.WriteString(st.Label.Render("Subject:   "))
		b.WriteString(st.Instruction.Render(s.subject))
		b.WriteString("\n")
	}
	b.WriteString(st.Label.Render("Reference: "))
	b.WriteString(st.HeaderTitle.Render(s.reference))
	b.WriteString("\n\n")

	b.WriteString(st.Instruction.Render("Keep the reference for follow-ups. Our team will be in touch."))
	b.WriteString("\n\n")
	b.WriteString(wizard.RenderHintBar("enter", "exit"))

	return b.String()
}
