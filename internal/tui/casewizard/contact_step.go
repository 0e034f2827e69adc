package casewizard

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/casewiz/internal/caseform"
	"github.com/mark3labs/casewiz/internal/tui/theme"
	"github.com/mark3labs/casewiz/internal/tui/wizard"
)

var contactFields = []caseform.FieldID{
	caseform.FieldName,
	caseform.FieldEmail,
	caseform.FieldPhone,
	caseform.FieldCompany,
}

var contactPlaceholders = map[caseform.FieldID]string{
	caseform.FieldName:    "Jane Doe",
	caseform.FieldEmail:   "jane@example.com",
	caseform.FieldPhone:   "+1 555 0100 (optional)",
	caseform.FieldCompany: "Acme Inc. (optional)",
}

// ContactStep collects name, email, phone and company.
type ContactStep struct {
	inputs []textinput.Model
	focus  int // Index into contactFields, -1 when blurred
	width  int
	height int
}

// NewContactStep creates the contact step pre-filled from s.
func NewContactStep(s caseform.State) *ContactStep {
	inputs := make([]textinput.Model, len(contactFields))
	for i, f := range contactFields {
		ti := textinput.New()
		ti.Placeholder = contactPlaceholders[f]
		ti.CharLimit = 120
		ti.SetValue(s.Value(f))
		inputs[i] = ti
	}
	step := &ContactStep{inputs: inputs, focus: -1}
	step.FocusFirst()
	return step
}

// Update handles messages for the contact step.
func (c *ContactStep) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "tab", "down", "enter":
			if c.focus < len(c.inputs)-1 {
				c.setFocus(c.focus + 1)
				return nil
			}
			c.Blur()
			return func() tea.Msg { return wizard.TabExitForwardMsg{} }
		case "shift+tab", "up":
			if c.focus > 0 {
				c.setFocus(c.focus - 1)
				return nil
			}
			c.Blur()
			return func() tea.Msg { return wizard.TabExitBackwardMsg{} }
		}
	}

	if c.focus < 0 {
		return nil
	}
	var cmd tea.Cmd
	c.inputs[c.focus], cmd = c.inputs[c.focus].Update(msg)
	return cmd
}

// View renders the contact fields.
func (c *ContactStep) View(v stepView) string {
	s := theme.Current().S()
	rows := []string{s.Instruction.Render("How can we reach you?"), ""}

	for i, f := range contactFields {
		box := s.Input
		if i == c.focus {
			box = s.InputFocused
		}
		control := box.Width(c.inputWidth()).Render(c.inputs[i].View())
		rows = append(rows, renderField(f, isRequired(f), control, fieldView{
			focused:  i == c.focus,
			invalid:  v.errField == f,
			showHelp: v.showHelp,
			width:    c.width,
		}))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// Values returns the raw input values keyed by field.
func (c *ContactStep) Values() map[caseform.FieldID]string {
	out := make(map[caseform.FieldID]string, len(contactFields))
	for i, f := range contactFields {
		out[f] = c.inputs[i].Value()
	}
	return out
}

// FocusedField returns the field with keyboard focus, or "".
func (c *ContactStep) FocusedField() caseform.FieldID {
	if c.focus < 0 {
		return ""
	}
	return contactFields[c.focus]
}

// FocusField moves focus to f if it belongs to this step.
func (c *ContactStep) FocusField(f caseform.FieldID) {
	for i, cf := range contactFields {
		if cf == f {
			c.setFocus(i)
			return
		}
	}
}

// FocusFirst focuses the first input.
func (c *ContactStep) FocusFirst() { c.setFocus(0) }

// FocusLast focuses the last input.
func (c *ContactStep) FocusLast() { c.setFocus(len(c.inputs) - 1) }

// Blur blurs every input.
func (c *ContactStep) Blur() { c.setFocus(-1) }

func (c *ContactStep) setFocus(i int) {
	c.focus = i
	for j := range c.inputs {
		if j == i {
			c.inputs[j].Focus()
		} else {
			c.inputs[j].Blur()
		}
	}
}

// SetSize updates the size of the contact step.
func (c *ContactStep) SetSize(width, height int) {
	c.width = width
	c.height = height
	for i := range c.inputs {
		c.inputs[i].SetWidth(c.inputWidth() - 4)
	}
}

func (c *ContactStep) inputWidth() int {
	if c.width <= 0 {
		return 60
	}
	return c.width
}
