package casewizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mark3labs/casewiz/internal/autosave"
	"github.com/mark3labs/casewiz/internal/caseform"
	"github.com/mark3labs/casewiz/internal/logger"
	"github.com/mark3labs/casewiz/internal/submit"
	"github.com/mark3labs/casewiz/internal/tui/theme"
	"github.com/mark3labs/casewiz/internal/tui/wizard"
)

var log = logger.Named("casewizard")

// ErrCancelled is returned by Run when the user leaves before submitting.
var ErrCancelled = errors.New("wizard cancelled by user")

// Modal layout constants
const (
	modalWidth        = 76
	modalPadding      = 2
	modalBorderWidth  = 1
	modalContentWidth = modalWidth - (modalPadding * 2) - (modalBorderWidth * 2) // 70
)

// stepView is the per-render context handed to step components.
type stepView struct {
	errField caseform.FieldID // Field the active message points at
	showHelp bool
}

// TickFunc schedules a message after d. tea.Tick in production.
type TickFunc func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd

// Options configures a wizard session.
type Options struct {
	Machine   caseform.Machine
	State     *caseform.State // Resumed draft, nil for a blank form
	Store     autosave.Store  // nil disables autosave
	DraftKey  string
	Submitter submit.Submitter
}

// Model is the BubbleTea model for the case wizard. All form rules live in
// the caseform machine; the model forwards events and performs effects.
type Model struct {
	ctx       context.Context
	machine   caseform.Machine
	state     caseform.State
	store     autosave.Store
	draftKey  string
	submitter submit.Submitter
	caseRef   string // Reused across submit retries so the stream dedupes them

	contact    *ContactStep
	details    *DetailsStep
	review     *ReviewStep
	completion *CompletionStep

	buttonBar     *wizard.ButtonBar
	buttonFocused bool
	banner        *wizard.Banner

	showHelp   bool
	saveStatus string
	saveFailed bool
	cancelled  bool
	width      int
	height     int

	tick TickFunc
}

// New creates the wizard model.
func New(ctx context.Context, opts Options) *Model {
	st := caseform.New()
	if opts.State != nil {
		st = *opts.State
	}

	m := &Model{
		ctx:       ctx,
		machine:   opts.Machine,
		state:     st,
		store:     opts.Store,
		draftKey:  opts.DraftKey,
		submitter: opts.Submitter,
		contact:   NewContactStep(st),
		details:   NewDetailsStep(st),
		review:    NewReviewStep(caseform.ProjectReview(st)),
		banner:    wizard.NewBanner(),
		tick:      tea.Tick,
	}
	if m.draftKey == "" {
		m.draftKey = autosave.Key("")
	}
	m.enterStep()
	return m
}

// Run starts a standalone BubbleTea program and returns the final form
// state. A cancelled session returns ErrCancelled after saving the draft.
func Run(ctx context.Context, opts Options) (caseform.State, error) {
	m := New(ctx, opts)

	p := tea.NewProgram(m, tea.WithContext(ctx))
	finalModel, err := p.Run()
	if err != nil {
		return m.state, fmt.Errorf("wizard failed: %w", err)
	}

	wm, ok := finalModel.(*Model)
	if !ok {
		return m.state, fmt.Errorf("unexpected model type")
	}

	if wm.cancelled {
		wm.saveOnExit()
		return wm.state, ErrCancelled
	}
	return wm.state, nil
}

// saveOnExit writes one last draft so a cancelled session can be resumed.
func (m *Model) saveOnExit() {
	if m.store == nil || m.state.Status != caseform.StatusEditing {
		return
	}
	snap := m.state.Snapshot(m.now(), caseform.SaveReasonManual)
	if _, err := m.store.Save(context.WithoutCancel(m.ctx), m.draftKey, snap); err != nil {
		log.Warn("Failed to save draft on exit: %v", err)
		return
	}
	log.Info("Draft saved on exit under %q", m.draftKey)
}

func (m *Model) now() time.Time {
	if m.machine.Now != nil {
		return m.machine.Now()
	}
	return time.Now()
}

// State returns the current form state.
func (m *Model) State() caseform.State {
	return m.state
}

// Cancelled reports whether the user left without submitting.
func (m *Model) Cancelled() bool {
	return m.cancelled
}

// Init starts cursor blink and the autosave loop.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.apply(m.machine.Start(m.state)))
}

// dispatch runs e through the machine and performs the resulting effects.
func (m *Model) dispatch(e caseform.Event) tea.Cmd {
	prev := m.state.Step
	var effects []caseform.Effect
	m.state, effects = m.machine.Transition(m.state, e)
	// Enter the new step first so a message can focus its field
	if m.state.Step != prev {
		log.Debug("Step %d -> %d", prev, m.state.Step)
		m.enterStep()
	}
	return m.apply(effects)
}

// apply turns machine effects into UI changes and commands.
func (m *Model) apply(effects []caseform.Effect) tea.Cmd {
	var cmds []tea.Cmd
	for _, eff := range effects {
		switch eff := eff.(type) {
		case caseform.ShowMessage:
			m.banner.Show(int(eff.Message.Step), eff.Message.Text)
			if eff.Message.Field != "" {
				m.focusField(eff.Message.Field)
			}
		case caseform.ClearMessage:
			m.banner.Clear()
		case caseform.ScheduleClear:
			seq := eff.Seq
			cmds = append(cmds, m.tick(eff.After, func(time.Time) tea.Msg {
				return messageExpiredMsg{seq: seq}
			}))
		case caseform.ScheduleAutosave:
			seq := eff.Seq
			cmds = append(cmds, m.tick(eff.After, func(time.Time) tea.Msg {
				return autosaveDueMsg{seq: seq}
			}))
		case caseform.RefreshReview:
			m.review.SetReview(eff.Review)
		case caseform.HandOff:
			cmds = append(cmds, m.submitCmd(eff.Snapshot, eff.Review))
		case caseform.Autosave:
			cmds = append(cmds, m.saveCmd(eff.Snapshot))
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) saveCmd(snap caseform.Snapshot) tea.Cmd {
	if m.store == nil {
		return nil
	}
	store, ctx, key := m.store, m.ctx, m.draftKey
	return func() tea.Msg {
		rev, err := store.Save(ctx, key, snap)
		return autosavedMsg{revision: rev, reason: snap.Reason, err: err}
	}
}

func (m *Model) submitCmd(snap caseform.Snapshot, review caseform.ReviewSnapshot) tea.Cmd {
	if m.caseRef == "" {
		m.caseRef = submit.NewReference()
	}
	c := submit.NewCase(m.caseRef, snap, review, snap.SavedAt)
	sub, ctx := m.submitter, m.ctx
	return func() tea.Msg {
		if sub == nil {
			return submittedMsg{err: errors.New("no submission channel configured")}
		}
		receipt, err := sub.Submit(ctx, c)
		return submittedMsg{receipt: receipt, err: err}
	}
}

// Update handles messages for the wizard.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateSizes()
		return m, nil

	case tea.FocusMsg:
		return m, m.dispatch(caseform.VisibilityChanged{Hidden: false})

	case tea.BlurMsg:
		return m, m.dispatch(caseform.VisibilityChanged{Hidden: true})

	case messageExpiredMsg:
		return m, m.dispatch(caseform.MessageExpired{Seq: msg.seq})

	case autosaveDueMsg:
		return m, m.dispatch(caseform.AutosaveDue{Seq: msg.seq})

	case autosavedMsg:
		if msg.err != nil {
			log.Warn("Autosave (%s) failed: %v", msg.reason, msg.err)
			m.saveStatus = "Autosave failed"
			m.saveFailed = true
			return m, nil
		}
		log.Debug("Autosaved draft %q rev %d (%s)", m.draftKey, msg.revision, msg.reason)
		m.saveStatus = fmt.Sprintf("Draft saved · rev %d", msg.revision)
		m.saveFailed = false
		return m, nil

	case submittedMsg:
		if msg.err != nil {
			log.Error("Submission of %s failed: %v", m.caseRef, msg.err)
			return m, m.dispatch(caseform.SubmissionFailed{Err: msg.err})
		}
		cmd := m.dispatch(caseform.SubmissionSucceeded{Reference: msg.receipt.Reference})
		if m.state.Status == caseform.StatusSubmitted {
			log.Info("Case %s submitted (stream %s seq %d)", msg.receipt.Reference, msg.receipt.Stream, msg.receipt.Sequence)
			m.buttonFocused = false
			m.completion = NewCompletionStep(m.state.Reference, m.state.Value(caseform.FieldSubject))
		}
		return m, cmd

	case wizard.SelectionChangedMsg:
		f, ok := caseform.ParseFieldID(msg.ID)
		if !ok {
			return m, nil
		}
		return m, m.dispatch(caseform.FieldChanged{Field: f, Value: msg.Value})

	case wizard.BadgeSelectedMsg:
		p, err := caseform.ParsePriority(msg.Value)
		if err != nil {
			log.Warn("Ignoring badge %q: %v", msg.Value, err)
			return m, nil
		}
		return m, m.dispatch(caseform.PrioritySelected{Level: p})

	case wizard.TabExitForwardMsg:
		m.focusButtons(true)
		return m, nil

	case wizard.TabExitBackwardMsg:
		m.focusButtons(false)
		return m, nil

	case DescriptionEditedMsg:
		m.details.Update(msg)
		return m, m.syncFields()
	}

	// Cursor blink and other component messages
	return m, m.updateCurrentStep(msg)
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	k := msg.String()
	if k == "ctrl+c" {
		m.cancelled = m.state.Status != caseform.StatusSubmitted
		return m, tea.Quit
	}

	if m.state.Status == caseform.StatusSubmitted {
		return m, m.completion.Update(msg)
	}

	switch k {
	case "f1":
		m.showHelp = !m.showHelp
		return m, nil
	case "esc":
		if m.state.Status != caseform.StatusEditing {
			return m, nil
		}
		if m.state.Step == caseform.StepContact {
			m.cancelled = true
			return m, tea.Quit
		}
		return m, m.dispatch(caseform.Retreat{})
	}

	// Input is frozen while the case is in flight
	if m.state.Status == caseform.StatusSubmitting {
		return m, nil
	}

	if m.buttonFocused {
		switch k {
		case "tab", "right":
			if !m.buttonBar.FocusNext() {
				m.focusContent(true)
			}
		case "shift+tab", "left":
			if !m.buttonBar.FocusPrev() {
				m.focusContent(false)
			}
		case "enter", "space", " ":
			return m, m.activateButton(m.buttonBar.FocusedButton())
		}
		return m, nil
	}

	cmd := m.updateCurrentStep(msg)
	return m, tea.Batch(cmd, m.syncFields())
}

func (m *Model) activateButton(id wizard.ButtonID) tea.Cmd {
	switch id {
	case wizard.ButtonBack:
		return m.dispatch(caseform.Retreat{})
	case wizard.ButtonNext:
		if m.state.IsFinalStep() {
			return m.dispatch(caseform.Submit{})
		}
		return m.dispatch(caseform.Advance{})
	}
	return nil
}

// syncFields reports text values that differ from the form state.
func (m *Model) syncFields() tea.Cmd {
	var fields []caseform.FieldID
	var values map[caseform.FieldID]string
	switch m.state.Step {
	case caseform.StepContact:
		fields, values = contactFields, m.contact.Values()
	case caseform.StepDetails:
		fields = []caseform.FieldID{caseform.FieldSubject, caseform.FieldDescription}
		values = m.details.Values()
	default:
		return nil
	}

	var cmds []tea.Cmd
	for _, f := range fields {
		if v := values[f]; v != m.state.Value(f) {
			cmds = append(cmds, m.dispatch(caseform.FieldChanged{Field: f, Value: v}))
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) updateCurrentStep(msg tea.Msg) tea.Cmd {
	switch m.state.Step {
	case caseform.StepContact:
		return m.contact.Update(msg)
	case caseform.StepDetails:
		return m.details.Update(msg)
	case caseform.StepReview:
		return m.review.Update(msg)
	}
	return nil
}

// enterStep resets focus and buttons for the current step.
func (m *Model) enterStep() {
	nextLabel := "Next →"
	if m.state.IsFinalStep() {
		nextLabel = "Submit"
		if m.state.Review != nil {
			m.review.SetReview(*m.state.Review)
		} else {
			m.review.SetReview(caseform.ProjectReview(m.state))
		}
	}
	m.buttonBar = wizard.NewButtonBar(wizard.CreateBackNextButtons(m.state.Step > caseform.StepContact, nextLabel))
	m.buttonFocused = false

	switch m.state.Step {
	case caseform.StepContact:
		m.details.Blur()
		m.contact.FocusFirst()
	case caseform.StepDetails:
		m.contact.Blur()
		m.details.FocusFirst()
	case caseform.StepReview:
		m.contact.Blur()
		m.details.Blur()
		m.focusButtons(false)
	}
	m.updateSizes()
}

// focusField moves keyboard focus to f when it is on the current step.
func (m *Model) focusField(f caseform.FieldID) {
	if caseform.StepOf(f) != m.state.Step {
		return
	}
	m.buttonFocused = false
	m.buttonBar.Blur()
	switch m.state.Step {
	case caseform.StepContact:
		m.contact.FocusField(f)
	case caseform.StepDetails:
		m.details.FocusField(f)
	}
}

func (m *Model) focusButtons(first bool) {
	m.buttonFocused = true
	m.contact.Blur()
	m.details.Blur()
	if first {
		m.buttonBar.FocusFirst()
	} else {
		m.buttonBar.FocusLast()
	}
}

func (m *Model) focusContent(first bool) {
	m.buttonFocused = false
	m.buttonBar.Blur()
	switch m.state.Step {
	case caseform.StepContact:
		if first {
			m.contact.FocusFirst()
		} else {
			m.contact.FocusLast()
		}
	case caseform.StepDetails:
		if first {
			m.details.FocusFirst()
		} else {
			m.details.FocusLast()
		}
	}
}

func (m *Model) getModalContentSize() (width, height int) {
	width = modalContentWidth

	height = m.height - 4
	if height < 24 {
		height = 24
	}
	if height > 44 {
		height = 44
	}
	// Modal chrome: padding, border, progress, banner, buttons, hints
	height -= 12
	if height < 12 {
		height = 12
	}
	return width, height
}

func (m *Model) updateSizes() {
	w, h := m.getModalContentSize()
	m.contact.SetSize(w, h)
	m.details.SetSize(w, h)
	m.review.SetSize(w, h)
	m.buttonBar.SetWidth(w)
}

// View renders the wizard.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true
	view.ReportFocus = true

	if m.width == 0 || m.height == 0 {
		view.Content = lipgloss.NewLayer("")
		return view
	}

	centered := lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.render())

	canvas := uv.NewScreenBuffer(m.width, m.height)
	uv.NewStyledString(centered).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: m.width, Y: m.height},
	})

	view.Content = lipgloss.NewLayer(canvas.Render())
	return view
}

// render draws the modal without terminal placement.
func (m *Model) render() string {
	s := theme.Current().S()
	modal := s.Modal.Width(modalWidth)

	if m.state.Status == caseform.StatusSubmitted && m.completion != nil {
		return modal.Render(m.completion.View())
	}

	v := stepView{showHelp: m.showHelp}
	if m.state.Message != nil {
		v.errField = m.state.Message.Field
	}

	var content string
	switch m.state.Step {
	case caseform.StepContact:
		content = m.contact.View(v)
	case caseform.StepDetails:
		content = m.details.View(v)
	case caseform.StepReview:
		content = m.review.View()
	}

	var b strings.Builder
	b.WriteString(m.renderProgress())
	b.WriteString("\n\n")
	b.WriteString(content)
	b.WriteString("\n")

	if banner := m.banner.View(int(m.state.Step), modalContentWidth); banner != "" {
		b.WriteString("\n")
		b.WriteString(banner)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.state.Status == caseform.StatusSubmitting {
		b.WriteString(s.Muted.Render("Submitting…"))
	} else {
		b.WriteString(m.buttonBar.Render())
	}
	b.WriteString("\n\n")

	if m.saveStatus != "" {
		status := s.Muted
		if m.saveFailed {
			status = s.Required
		}
		b.WriteString(status.Render(m.saveStatus))
		b.WriteString("\n")
	}
	b.WriteString(m.renderHints())

	return modal.Render(b.String())
}

// renderProgress draws "Step n of 3" with one gradient segment per step.
func (m *Model) renderProgress() string {
	t := theme.Current()
	s := t.S()
	colors := theme.Gradient(t.Primary, t.Secondary, caseform.TotalSteps)

	segWidth := (modalContentWidth - (caseform.TotalSteps - 1)) / caseform.TotalSteps
	segs := make([]string, caseform.TotalSteps)
	for i := range segs {
		color := t.BgSurface1
		if caseform.Step(i+1) <= m.state.Step {
			color = colors[i]
		}
		segs[i] = lipgloss.NewStyle().
			Foreground(lipgloss.Color(color)).
			Render(strings.Repeat("━", segWidth))
	}

	title := s.HeaderTitle.Render(fmt.Sprintf("Step %d of %d", m.state.Step, caseform.TotalSteps)) +
		s.Muted.Render(" · ") +
		s.StepTitle.UnsetMarginBottom().Render(m.state.Step.Title())
	return title + "\n" + strings.Join(segs, " ")
}

func (m *Model) renderHints() string {
	escDesc := "back"
	if m.state.Step == caseform.StepContact {
		escDesc = "cancel"
	}
	if m.state.Step == caseform.StepDetails {
		return wizard.RenderHintBar("tab", "next", "←/→", "choose", "ctrl+e", "editor", "f1", "help", "esc", escDesc)
	}
	return wizard.RenderHintBar("tab", "next", "enter", "confirm", "f1", "help", "esc", escDesc)
}
