package casewizard

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/casewiz/internal/caseform"
	"github.com/mark3labs/casewiz/internal/tui/testfixtures"
	"github.com/mark3labs/casewiz/internal/tui/wizard"
	"github.com/stretchr/testify/require"
)

var (
	keyTab      = tea.KeyPressMsg{Code: tea.KeyTab}
	keyShiftTab = tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift}
	keyEnter    = tea.KeyPressMsg{Code: tea.KeyEnter}
	keyEsc      = tea.KeyPressMsg{Code: tea.KeyEscape}
	keyRight    = tea.KeyPressMsg{Code: tea.KeyRight}
	keyF1       = tea.KeyPressMsg{Code: tea.KeyF1}
	keyCtrlC    = tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}
)

// timer is one scheduled tick. Ticks never fire on their own in tests.
type timer struct {
	after time.Duration
	msg   tea.Msg
}

type tickRecorder struct {
	timers []timer
}

func (r *tickRecorder) tick(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	r.timers = append(r.timers, timer{after: d, msg: fn(testfixtures.FixedTime)})
	return nil
}

// last returns the most recent timer carrying a message of the same type as like.
func (r *tickRecorder) last(t *testing.T, like tea.Msg) timer {
	t.Helper()
	for i := len(r.timers) - 1; i >= 0; i-- {
		if sameType(r.timers[i].msg, like) {
			return r.timers[i]
		}
	}
	t.Fatalf("no timer scheduled for %T", like)
	return timer{}
}

func sameType(a, b tea.Msg) bool {
	switch a.(type) {
	case messageExpiredMsg:
		_, ok := b.(messageExpiredMsg)
		return ok
	case autosaveDueMsg:
		_, ok := b.(autosaveDueMsg)
		return ok
	}
	return false
}

type harness struct {
	m     *Model
	store *testfixtures.MockStore
	sub   *testfixtures.MockSubmitter
	ticks *tickRecorder
}

func newHarness(t *testing.T, st *caseform.State) *harness {
	t.Helper()
	h := &harness{
		store: testfixtures.NewMockStore(),
		sub:   testfixtures.NewMockSubmitter(),
		ticks: &tickRecorder{},
	}
	h.m = New(context.Background(), Options{
		Machine:   testfixtures.Machine(),
		State:     st,
		Store:     h.store,
		DraftKey:  testfixtures.FixedDraftKey,
		Submitter: h.sub,
	})
	h.m.tick = h.ticks.tick
	h.send(t, tea.WindowSizeMsg{Width: testfixtures.TestTermWidth, Height: testfixtures.TestTermHeight})
	return h
}

// send delivers msg and runs every resulting command.
func (h *harness) send(t *testing.T, msg tea.Msg) {
	t.Helper()
	_, cmd := h.m.Update(msg)
	h.drive(t, cmd)
}

// drive runs cmd and feeds its messages back into the model. Commands that
// block (cursor blink) are dropped after a short wait.
func (h *harness) drive(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0 && steps < 200; steps++ {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := runCmd(c).(type) {
		case nil, tea.QuitMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			_, next := h.m.Update(msg)
			queue = append(queue, next)
		}
	}
}

func runCmd(c tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- c() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(50 * time.Millisecond):
		return nil
	}
}

func (h *harness) typeText(t *testing.T, s string) {
	t.Helper()
	for _, r := range s {
		h.send(t, tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func (h *harness) press(t *testing.T, keys ...tea.KeyPressMsg) {
	t.Helper()
	for _, k := range keys {
		h.send(t, k)
	}
}

func (h *harness) plain() string {
	return testfixtures.Plain(h.m.render())
}

func stateAt(step caseform.Step, withPriority bool) *caseform.State {
	st := testfixtures.FilledState(step, withPriority)
	return &st
}

func TestNew_StartsOnContactStep(t *testing.T) {
	h := newHarness(t, nil)

	require.Equal(t, caseform.StepContact, h.m.State().Step)
	require.Equal(t, caseform.FieldName, h.m.contact.FocusedField())
	require.False(t, h.m.buttonFocused)

	out := h.plain()
	require.Contains(t, out, "Step 1 of 3")
	require.Contains(t, out, "Contact Info")
	require.Contains(t, out, "Email")
}

func TestNew_ResumesDraft(t *testing.T) {
	h := newHarness(t, stateAt(caseform.StepDetails, false))

	require.Equal(t, caseform.StepDetails, h.m.State().Step)
	require.Equal(t, caseform.FieldRecordType, h.m.details.FocusedField())
	require.Equal(t, "Dashboard is down", h.m.details.Values()[caseform.FieldSubject])
	require.Contains(t, h.plain(), "Step 2 of 3")
}

func TestInit_SchedulesAutosave(t *testing.T) {
	h := newHarness(t, nil)
	h.drive(t, h.m.Init())

	tm := h.ticks.last(t, autosaveDueMsg{})
	require.Equal(t, caseform.DefaultAutosaveInterval, tm.after)
	require.Equal(t, autosaveDueMsg{seq: 1}, tm.msg)
}

func TestTyping_UpdatesFormState(t *testing.T) {
	h := newHarness(t, nil)

	h.typeText(t, "Ada")
	require.Equal(t, "Ada", h.m.State().Value(caseform.FieldName))

	h.press(t, keyTab)
	h.typeText(t, "ada@example.com")
	require.Equal(t, "ada@example.com", h.m.State().Value(caseform.FieldEmail))
	require.Equal(t, caseform.FieldEmail, h.m.contact.FocusedField())
}

func TestTabbing_ReachesButtonsAndWraps(t *testing.T) {
	h := newHarness(t, nil)

	// name, email, phone, company, then the button bar
	h.press(t, keyTab, keyTab, keyTab, keyTab)
	require.True(t, h.m.buttonFocused)
	require.Equal(t, wizard.ButtonNext, h.m.buttonBar.FocusedButton(), "Back is disabled on step 1")

	h.press(t, keyTab)
	require.False(t, h.m.buttonFocused)
	require.Equal(t, caseform.FieldName, h.m.contact.FocusedField())

	h.press(t, keyShiftTab)
	require.True(t, h.m.buttonFocused)
}

func TestAdvance_InvalidStepShowsBanner(t *testing.T) {
	h := newHarness(t, nil)
	h.press(t, keyTab, keyTab, keyTab, keyTab, keyEnter)

	st := h.m.State()
	require.Equal(t, caseform.StepContact, st.Step)
	require.NotNil(t, st.Message)
	require.Equal(t, caseform.FieldName, st.Message.Field)
	require.Equal(t, "Please enter your name", h.m.banner.Text())
	require.Contains(t, h.plain(), "✗ Please enter your name")

	// Focus jumps back to the offending field
	require.False(t, h.m.buttonFocused)
	require.Equal(t, caseform.FieldName, h.m.contact.FocusedField())

	tm := h.ticks.last(t, messageExpiredMsg{})
	require.Equal(t, caseform.DefaultMessageTimeout, tm.after)
}

func TestBanner_ClearsWhenFieldIsFixed(t *testing.T) {
	h := newHarness(t, nil)
	h.press(t, keyTab, keyTab, keyTab, keyTab, keyEnter)
	require.True(t, h.m.banner.IsVisible())

	h.typeText(t, "Ada")
	require.False(t, h.m.banner.IsVisible())
	require.Nil(t, h.m.State().Message)
}

func TestBanner_StaleTimerIsIgnored(t *testing.T) {
	h := newHarness(t, nil)
	h.press(t, keyTab, keyTab, keyTab, keyTab, keyEnter)
	first := h.ticks.last(t, messageExpiredMsg{})

	// A second failed advance replaces the message and its timer
	h.press(t, keyTab, keyTab, keyTab, keyTab, keyEnter)
	second := h.ticks.last(t, messageExpiredMsg{})
	require.NotEqual(t, first.msg, second.msg)

	h.send(t, first.msg)
	require.True(t, h.m.banner.IsVisible(), "stale timer must not clear the new message")

	h.send(t, second.msg)
	require.False(t, h.m.banner.IsVisible())
}

func TestAdvance_ValidContactMovesToDetails(t *testing.T) {
	h := newHarness(t, stateAt(caseform.StepContact, false))
	h.press(t, keyTab, keyTab, keyTab, keyTab, keyEnter)

	require.Equal(t, caseform.StepDetails, h.m.State().Step)
	require.Equal(t, caseform.FieldRecordType, h.m.details.FocusedField())
	require.False(t, h.m.buttonFocused)
	require.Contains(t, h.plain(), "Case Details")
}

func TestEsc_RetreatsOrCancels(t *testing.T) {
	t.Run("goes back from details", func(t *testing.T) {
		h := newHarness(t, stateAt(caseform.StepDetails, false))
		h.press(t, keyEsc)
		require.Equal(t, caseform.StepContact, h.m.State().Step)
		require.False(t, h.m.Cancelled())
	})

	t.Run("cancels on contact", func(t *testing.T) {
		h := newHarness(t, nil)
		_, cmd := h.m.Update(keyEsc)
		require.True(t, h.m.Cancelled())
		require.NotNil(t, cmd)
		require.IsType(t, tea.QuitMsg{}, cmd())
	})
}

func TestDetails_SelectorsAndPriority(t *testing.T) {
	h := newHarness(t, stateAt(caseform.StepDetails, false))

	// record_type is focused and starts on "support"
	h.press(t, keyRight)
	require.Equal(t, "billing", h.m.State().Value(caseform.FieldRecordType))

	h.send(t, wizard.SelectionChangedMsg{ID: string(caseform.FieldReason), Value: "access"})
	require.Equal(t, "access", h.m.State().Value(caseform.FieldReason))

	h.send(t, wizard.BadgeSelectedMsg{ID: string(caseform.FieldPriority), Value: "critical"})
	require.Equal(t, caseform.PriorityCritical, h.m.State().Priority)

	h.send(t, wizard.BadgeSelectedMsg{ID: string(caseform.FieldPriority), Value: "urgent"})
	require.Equal(t, caseform.PriorityCritical, h.m.State().Priority, "unknown levels are ignored")
}

func TestDetails_EditorContentSyncs(t *testing.T) {
	h := newHarness(t, stateAt(caseform.StepDetails, false))
	h.send(t, DescriptionEditedMsg{Content: "Written in an editor"})
	require.Equal(t, "Written in an editor", h.m.State().Value(caseform.FieldDescription))
}

func TestAdvance_DetailsToReview(t *testing.T) {
	h := newHarness(t, stateAt(caseform.StepDetails, true))
	h.m.focusButtons(false)
	h.press(t, keyEnter)

	st := h.m.State()
	require.Equal(t, caseform.StepReview, st.Step)
	require.NotNil(t, st.Review)
	require.Equal(t, "Dashboard is down", h.m.review.Review().Subject)
	require.True(t, h.m.buttonFocused)
	require.Equal(t, wizard.ButtonNext, h.m.buttonBar.FocusedButton())
	require.Contains(t, h.plain(), "Submit")
}

func TestSubmit_WithoutPriorityIsBlocked(t *testing.T) {
	h := newHarness(t, stateAt(caseform.StepReview, false))
	h.press(t, keyEnter)

	require.Equal(t, caseform.StatusEditing, h.m.State().Status)
	require.Equal(t, 0, h.sub.Calls())
	require.Equal(t, "Please select a priority level before submitting", h.m.banner.Text())
}

func TestSubmit_InvalidEarlierStepReturnsToIt(t *testing.T) {
	st := stateAt(caseform.StepReview, true)
	st.Fields[caseform.FieldEmail] = "nope"
	h := newHarness(t, st)
	h.press(t, keyEnter)

	require.Equal(t, 0, h.sub.Calls())
	require.Equal(t, caseform.StepContact, h.m.State().Step)
	require.Equal(t, caseform.FieldEmail, h.m.contact.FocusedField())
	require.False(t, h.m.buttonFocused)
	require.Equal(t, "Please enter a valid email address", h.m.banner.Text())
	require.Contains(t, h.plain(), "Step 1 of 3")
}

func TestSubmit_HandsOffAndCompletes(t *testing.T) {
	h := newHarness(t, stateAt(caseform.StepReview, true))
	h.press(t, keyEnter)

	require.Equal(t, 1, h.sub.Calls())
	c := h.sub.Cases()[0]
	require.Equal(t, "Dashboard is down", c.Review.Subject)
	require.Equal(t, "high", c.Snapshot.Priority)

	st := h.m.State()
	require.Equal(t, caseform.StatusSubmitted, st.Status)
	require.Equal(t, c.Reference, st.Reference)

	out := h.plain()
	require.Contains(t, out, "Case submitted")
	require.Contains(t, out, c.Reference)

	_, cmd := h.m.Update(keyEnter)
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestSubmit_FailureKeepsFormAndRetryReusesReference(t *testing.T) {
	h := newHarness(t, stateAt(caseform.StepReview, true))
	h.sub.Err = errors.New("broker offline")
	h.press(t, keyEnter)

	require.Equal(t, caseform.StatusEditing, h.m.State().Status)
	require.Equal(t, "Submission failed: broker offline", h.m.banner.Text())

	h.sub.Err = nil
	h.press(t, keyEnter)

	require.Equal(t, caseform.StatusSubmitted, h.m.State().Status)
	cases := h.sub.Cases()
	require.Len(t, cases, 2)
	require.Equal(t, cases[0].Reference, cases[1].Reference)
}

func TestSubmit_InFlightFreezesInput(t *testing.T) {
	h := newHarness(t, stateAt(caseform.StepReview, true))

	// Deliver the key without running the hand-off command
	_, cmd := h.m.Update(keyEnter)
	require.NotNil(t, cmd)
	require.Equal(t, caseform.StatusSubmitting, h.m.State().Status)
	require.Contains(t, h.plain(), "Submitting…")

	h.press(t, keyEsc, keyShiftTab)
	require.Equal(t, caseform.StepReview, h.m.State().Step)
	require.Equal(t, caseform.StatusSubmitting, h.m.State().Status)
}

func TestAutosave_IntervalSave(t *testing.T) {
	h := newHarness(t, stateAt(caseform.StepContact, false))
	h.send(t, autosaveDueMsg{seq: 1})

	saved := h.store.Saved()
	require.Len(t, saved, 1)
	require.Equal(t, caseform.SaveReasonInterval, saved[0].Reason)
	require.Equal(t, "Ada Lovelace", saved[0].Fields["name"])
	require.Contains(t, h.plain(), "Draft saved · rev 1")

	// The loop reschedules itself
	require.Equal(t, autosaveDueMsg{seq: 1}, h.ticks.last(t, autosaveDueMsg{}).msg)
}

func TestAutosave_StaleTickIgnored(t *testing.T) {
	h := newHarness(t, nil)
	h.send(t, autosaveDueMsg{seq: 7})
	require.Empty(t, h.store.Saved())
}

func TestAutosave_FailureShowsStatus(t *testing.T) {
	h := newHarness(t, nil)
	h.store.SaveError = errors.New("disk full")
	h.send(t, autosaveDueMsg{seq: 1})

	require.True(t, h.m.saveFailed)
	require.Contains(t, h.plain(), "Autosave failed")
}

func TestAutosave_SavesWhenHidden(t *testing.T) {
	h := newHarness(t, nil)

	h.send(t, tea.FocusMsg{})
	require.Empty(t, h.store.Saved())

	h.send(t, tea.BlurMsg{})
	saved := h.store.Saved()
	require.Len(t, saved, 1)
	require.Equal(t, caseform.SaveReasonVisibility, saved[0].Reason)
}

func TestCtrlC_CancelsAndSavesOnExit(t *testing.T) {
	h := newHarness(t, stateAt(caseform.StepDetails, false))

	_, cmd := h.m.Update(keyCtrlC)
	require.True(t, h.m.Cancelled())
	require.IsType(t, tea.QuitMsg{}, cmd())

	h.m.saveOnExit()
	saved := h.store.Saved()
	require.Len(t, saved, 1)
	require.Equal(t, caseform.SaveReasonManual, saved[0].Reason)
	require.Equal(t, 2, saved[0].Step)
	require.Equal(t, testfixtures.FixedTime, saved[0].SavedAt)
}

func TestHelpToggle(t *testing.T) {
	h := newHarness(t, nil)
	without := h.plain()

	h.press(t, keyF1)
	require.True(t, h.m.showHelp)
	with := h.plain()
	require.NotEqual(t, without, with)

	firstWord := strings.Fields(caseform.HelpFor(caseform.FieldName))[0]
	require.Contains(t, with, firstWord)

	h.press(t, keyF1)
	require.False(t, h.m.showHelp)
}

func TestView_Flags(t *testing.T) {
	m := New(context.Background(), Options{Machine: testfixtures.Machine()})
	view := m.View()
	require.True(t, view.AltScreen)
	require.True(t, view.ReportFocus)
}
