package casewizard

import (
	"os"

	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/editor"
	"github.com/mark3labs/casewiz/internal/caseform"
	"github.com/mark3labs/casewiz/internal/tui/theme"
	"github.com/mark3labs/casewiz/internal/tui/wizard"
)

// Focus order of the details step.
var detailsFields = []caseform.FieldID{
	caseform.FieldRecordType,
	caseform.FieldRequestType,
	caseform.FieldReason,
	caseform.FieldPriority,
	caseform.FieldSubject,
	caseform.FieldDescription,
}

// DetailsStep collects the case classification, priority and the problem
// description.
type DetailsStep struct {
	selectors   map[caseform.FieldID]*wizard.Selector
	priority    *wizard.BadgeRow
	subject     textinput.Model
	description textarea.Model
	focus       int // Index into detailsFields, -1 when blurred
	width       int
	height      int
	tmpFile     string // Temp file backing an external editor session
}

// NewDetailsStep creates the details step pre-filled from s.
func NewDetailsStep(s caseform.State) *DetailsStep {
	selectors := make(map[caseform.FieldID]*wizard.Selector)
	for _, f := range detailsFields {
		if !f.IsSelect() || f == caseform.FieldPriority {
			continue
		}
		opts := caseform.OptionsFor(f)
		choices := make([]wizard.Choice, len(opts))
		for i, o := range opts {
			choices[i] = wizard.Choice{Value: o.Value, Label: o.Label}
		}
		sel := wizard.NewSelector(string(f), choices)
		sel.SetValue(s.Value(f))
		selectors[f] = sel
	}

	priority := wizard.NewBadgeRow(string(caseform.FieldPriority), priorityBadges())
	priority.SetValue(s.Value(caseform.FieldPriority))

	subject := textinput.New()
	subject.Placeholder = "One line summary"
	subject.CharLimit = 150
	subject.SetValue(s.Value(caseform.FieldSubject))

	description := textarea.New()
	description.Placeholder = "What happened? What did you expect? Steps to reproduce..."
	description.CharLimit = 5000
	description.SetHeight(5)
	description.SetWidth(60)
	description.SetValue(s.Value(caseform.FieldDescription))

	step := &DetailsStep{
		selectors:   selectors,
		priority:    priority,
		subject:     subject,
		description: description,
		focus:       -1,
	}
	step.FocusFirst()
	return step
}

// priorityBadges maps priority levels to badges colored by urgency.
func priorityBadges() []wizard.Badge {
	t := theme.Current()
	colors := map[caseform.Priority]string{
		caseform.PriorityLow:      t.Info,
		caseform.PriorityMedium:   t.Success,
		caseform.PriorityHigh:     t.Warning,
		caseform.PriorityCritical: t.Error,
	}
	badges := make([]wizard.Badge, len(caseform.Priorities))
	for i, p := range caseform.Priorities {
		badges[i] = wizard.Badge{Value: p.String(), Label: p.Label(), Color: colors[p]}
	}
	return badges
}

// Update handles messages for the details step.
func (d *DetailsStep) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case DescriptionEditedMsg:
		d.description.SetValue(msg.Content)
		if d.tmpFile != "" {
			_ = os.Remove(d.tmpFile)
			d.tmpFile = ""
		}
		return nil

	case tea.KeyPressMsg:
		field := d.FocusedField()
		switch msg.String() {
		case "tab":
			return d.next()
		case "shift+tab":
			return d.prev()
		case "enter":
			switch field {
			case caseform.FieldDescription:
				// The description keeps enter for new lines
			case caseform.FieldPriority:
				// Select the highlighted badge, then move on
				return tea.Batch(d.priority.Update(msg), d.next())
			default:
				return d.next()
			}
		case "ctrl+e":
			if field == caseform.FieldDescription && os.Getenv("EDITOR") != "" {
				return d.openEditor()
			}
		}
	}

	switch f := d.FocusedField(); {
	case f == "":
		return nil
	case f == caseform.FieldPriority:
		return d.priority.Update(msg)
	case f == caseform.FieldSubject:
		var cmd tea.Cmd
		d.subject, cmd = d.subject.Update(msg)
		return cmd
	case f == caseform.FieldDescription:
		var cmd tea.Cmd
		d.description, cmd = d.description.Update(msg)
		return cmd
	default:
		return d.selectors[f].Update(msg)
	}
}

func (d *DetailsStep) next() tea.Cmd {
	if d.focus < len(detailsFields)-1 {
		d.setFocus(d.focus + 1)
		return nil
	}
	d.Blur()
	return func() tea.Msg { return wizard.TabExitForwardMsg{} }
}

func (d *DetailsStep) prev() tea.Cmd {
	if d.focus > 0 {
		d.setFocus(d.focus - 1)
		return nil
	}
	d.Blur()
	return func() tea.Msg { return wizard.TabExitBackwardMsg{} }
}

// openEditor launches $EDITOR on the current description.
func (d *DetailsStep) openEditor() tea.Cmd {
	tmpfile, err := os.CreateTemp("", "casewiz_description_*.md")
	if err != nil {
		log.Warn("Cannot create temp file for editor: %v", err)
		return nil
	}
	if _, err := tmpfile.WriteString(d.description.Value()); err != nil {
		_ = tmpfile.Close()
		_ = os.Remove(tmpfile.Name())
		return nil
	}
	_ = tmpfile.Close()
	d.tmpFile = tmpfile.Name()

	cmd, err := editor.Command("casewiz", tmpfile.Name())
	if err != nil {
		log.Warn("Cannot start editor: %v", err)
		_ = os.Remove(tmpfile.Name())
		d.tmpFile = ""
		return nil
	}

	path := tmpfile.Name()
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		if err != nil {
			log.Warn("Editor exited with error: %v", err)
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		return DescriptionEditedMsg{Content: string(content)}
	})
}

// View renders the details controls.
func (d *DetailsStep) View(v stepView) string {
	s := theme.Current().S()
	rows := []string{s.Instruction.Render("Tell us about the issue."), ""}

	for i, f := range detailsFields {
		focused := i == d.focus
		var control string
		switch f {
		case caseform.FieldPriority:
			control = d.priority.View()
		case caseform.FieldSubject:
			box := s.Input
			if focused {
				box = s.InputFocused
			}
			control = box.Width(d.controlWidth()).Render(d.subject.View())
		case caseform.FieldDescription:
			box := s.Input
			if focused {
				box = s.InputFocused
			}
			control = box.Width(d.controlWidth()).Render(d.description.View())
		default:
			control = d.selectors[f].View()
		}
		rows = append(rows, renderField(f, isRequired(f), control, fieldView{
			focused:  focused,
			invalid:  v.errField == f,
			showHelp: v.showHelp,
			width:    d.width,
		}))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// Values returns the free-text values keyed by field. Selections and the
// priority are reported through their own messages.
func (d *DetailsStep) Values() map[caseform.FieldID]string {
	return map[caseform.FieldID]string{
		caseform.FieldSubject:     d.subject.Value(),
		caseform.FieldDescription: d.description.Value(),
	}
}

// FocusedField returns the field with keyboard focus, or "".
func (d *DetailsStep) FocusedField() caseform.FieldID {
	if d.focus < 0 {
		return ""
	}
	return detailsFields[d.focus]
}

// FocusField moves focus to f if it belongs to this step.
func (d *DetailsStep) FocusField(f caseform.FieldID) {
	for i, df := range detailsFields {
		if df == f {
			d.setFocus(i)
			return
		}
	}
}

// FocusFirst focuses the first control.
func (d *DetailsStep) FocusFirst() { d.setFocus(0) }

// FocusLast focuses the last control.
func (d *DetailsStep) FocusLast() { d.setFocus(len(detailsFields) - 1) }

// Blur blurs every control.
func (d *DetailsStep) Blur() { d.setFocus(-1) }

func (d *DetailsStep) setFocus(i int) {
	d.focus = i
	focused := d.FocusedField()

	for f, sel := range d.selectors {
		if f == focused {
			sel.Focus()
		} else {
			sel.Blur()
		}
	}
	if focused == caseform.FieldPriority {
		d.priority.Focus()
	} else {
		d.priority.Blur()
	}
	if focused == caseform.FieldSubject {
		d.subject.Focus()
	} else {
		d.subject.Blur()
	}
	if focused == caseform.FieldDescription {
		d.description.Focus()
	} else {
		d.description.Blur()
	}
}

// SetSize updates the size of the details step.
func (d *DetailsStep) SetSize(width, height int) {
	d.width = width
	d.height = height
	d.subject.SetWidth(d.controlWidth() - 4)
	d.description.SetWidth(d.controlWidth() - 4)

	// Leave room for the other five controls
	h := height - 20
	if h < 3 {
		h = 3
	}
	if h > 10 {
		h = 10
	}
	d.description.SetHeight(h)
}

func (d *DetailsStep) controlWidth() int {
	if d.width <= 0 {
		return 60
	}
	return d.width
}
