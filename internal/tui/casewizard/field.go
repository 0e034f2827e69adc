package casewizard

import (
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/casewiz/internal/caseform"
	"github.com/mark3labs/casewiz/internal/tui/theme"
)

// fieldView carries what every control needs to draw its label and help.
type fieldView struct {
	focused  bool
	invalid  bool // The active banner points at this field
	showHelp bool
	width    int
}

// renderField stacks a label, the rendered control and, when asked for,
// the field's help text.
func renderField(f caseform.FieldID, required bool, control string, v fieldView) string {
	s := theme.Current().S()

	labelStyle := s.Label
	if v.focused {
		labelStyle = s.LabelFocused
	}
	label := labelStyle.Render(f.Label())
	if required {
		label += s.Required.Render(" *")
	}
	if v.invalid {
		label += s.Required.Render(" ✗")
	}

	parts := []string{label, control}
	if v.showHelp && v.focused {
		help := s.Help
		if v.width > 4 {
			help = help.Width(v.width - 2)
		}
		parts = append(parts, help.Render(caseform.HelpFor(f)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// isRequired reports whether f must be filled before leaving its step.
func isRequired(f caseform.FieldID) bool {
	for _, r := range caseform.RequiredFields(caseform.StepOf(f)) {
		if r == f {
			return true
		}
	}
	return false
}
