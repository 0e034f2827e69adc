package caseform

import (
	"fmt"
	"time"
)

// Event is an externally triggered input to the state machine.
type Event interface{ isEvent() }

// FieldChanged is sent whenever a control's value changes.
type FieldChanged struct {
	Field FieldID
	Value string
}

// Advance requests the next step.
type Advance struct{}

// Retreat requests the previous step.
type Retreat struct{}

// PrioritySelected is sent when a priority badge is activated.
type PrioritySelected struct {
	Level Priority
}

// Submit requests final submission.
type Submit struct{}

// SubmissionSucceeded reports that the external channel accepted the case.
type SubmissionSucceeded struct {
	Reference string
}

// SubmissionFailed reports that the external channel rejected the case.
type SubmissionFailed struct {
	Err error
}

// MessageExpired is delivered by the auto-clear timer.
type MessageExpired struct {
	Seq int
}

// AutosaveDue is delivered by the periodic autosave timer.
type AutosaveDue struct {
	Seq int
}

// VisibilityChanged is sent when the UI gains or loses focus.
type VisibilityChanged struct {
	Hidden bool
}

func (FieldChanged) isEvent()        {}
func (Advance) isEvent()             {}
func (Retreat) isEvent()             {}
func (PrioritySelected) isEvent()    {}
func (Submit) isEvent()              {}
func (SubmissionSucceeded) isEvent() {}
func (SubmissionFailed) isEvent()    {}
func (MessageExpired) isEvent()      {}
func (AutosaveDue) isEvent()         {}
func (VisibilityChanged) isEvent()   {}

// Effect is a side effect an adapter must perform after a transition.
type Effect interface{ isEffect() }

// ShowMessage asks the adapter to display feedback.
type ShowMessage struct {
	Message Message
	Seq     int
}

// ClearMessage asks the adapter to hide the current feedback.
type ClearMessage struct{}

// ScheduleClear asks for a MessageExpired{Seq} after the delay.
type ScheduleClear struct {
	Seq   int
	After time.Duration
}

// ScheduleAutosave asks for an AutosaveDue{Seq} after the delay.
type ScheduleAutosave struct {
	Seq   int
	After time.Duration
}

// RefreshReview carries a freshly projected review for display.
type RefreshReview struct {
	Review ReviewSnapshot
}

// HandOff passes the form to the external submission channel.
type HandOff struct {
	Snapshot Snapshot
	Review   ReviewSnapshot
}

// Autosave asks the adapter to write the snapshot to its store.
type Autosave struct {
	Snapshot Snapshot
}

func (ShowMessage) isEffect()      {}
func (ClearMessage) isEffect()     {}
func (ScheduleClear) isEffect()    {}
func (ScheduleAutosave) isEffect() {}
func (RefreshReview) isEffect()    {}
func (HandOff) isEffect()          {}
func (Autosave) isEffect()         {}

// Machine holds the timing policy of the state machine.
type Machine struct {
	MessageTimeout   time.Duration
	AutosaveInterval time.Duration
	Now              func() time.Time
}

// DefaultMachine uses the stock 5s message timeout and 30s autosave interval.
var DefaultMachine = Machine{
	MessageTimeout:   DefaultMessageTimeout,
	AutosaveInterval: DefaultAutosaveInterval,
}

// Transition applies e to s using DefaultMachine.
func Transition(s State, e Event) (State, []Effect) {
	return DefaultMachine.Transition(s, e)
}

func (m Machine) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m Machine) messageTimeout() time.Duration {
	if m.MessageTimeout > 0 {
		return m.MessageTimeout
	}
	return DefaultMessageTimeout
}

func (m Machine) autosaveInterval() time.Duration {
	if m.AutosaveInterval > 0 {
		return m.AutosaveInterval
	}
	return DefaultAutosaveInterval
}

// Start returns the effects that begin a session (the autosave loop).
func (m Machine) Start(s State) []Effect {
	if s.Status == StatusSubmitted {
		return nil
	}
	return []Effect{ScheduleAutosave{Seq: s.AutosaveSeq, After: m.autosaveInterval()}}
}

// Transition applies e to s and returns the next state with the effects the
// adapter must carry out. s is never modified.
func (m Machine) Transition(s State, e Event) (State, []Effect) {
	switch e := e.(type) {
	case FieldChanged:
		return m.fieldChanged(s, e)
	case Advance:
		return m.advance(s)
	case Retreat:
		return m.retreat(s)
	case PrioritySelected:
		return m.selectPriority(s, e.Level)
	case Submit:
		return m.submit(s)
	case SubmissionSucceeded:
		if s.Status != StatusSubmitting {
			return s, nil
		}
		s.Status = StatusSubmitted
		s.Reference = e.Reference
		s.AutosaveSeq++ // Stops the autosave loop
		return s, nil
	case SubmissionFailed:
		if s.Status != StatusSubmitting {
			return s, nil
		}
		s.Status = StatusEditing
		text := "Submission failed, please try again"
		if e.Err != nil {
			text = fmt.Sprintf("Submission failed: %v", e.Err)
		}
		return m.show(s, Message{Step: s.Step, Text: text, Err: e.Err})
	case MessageExpired:
		if s.Message == nil || e.Seq != s.MessageSeq {
			return s, nil
		}
		s.Message = nil
		return s, []Effect{ClearMessage{}}
	case AutosaveDue:
		return m.autosaveDue(s, e.Seq)
	case VisibilityChanged:
		if !e.Hidden || s.Status != StatusEditing {
			return s, nil
		}
		return s, []Effect{Autosave{Snapshot: s.Snapshot(m.now(), SaveReasonVisibility)}}
	}
	return s, nil
}

func (m Machine) fieldChanged(s State, e FieldChanged) (State, []Effect) {
	if s.Status != StatusEditing {
		return s, nil
	}
	if e.Field == FieldPriority {
		p, err := ParsePriority(e.Value)
		if err != nil {
			return s, nil
		}
		return m.selectPriority(s, p)
	}
	if s.IsFinalStep() {
		// The review step has no inputs
		return s, nil
	}

	s = s.withField(e.Field, e.Value)
	if s.Message != nil && s.Message.Field == e.Field && CheckField(e.Field, e.Value) == "" {
		return m.clear(s)
	}
	return s, nil
}

func (m Machine) advance(s State) (State, []Effect) {
	if s.Status != StatusEditing || s.IsFinalStep() {
		return s, nil
	}
	if res := ValidateStep(s, s.Step); !res.Valid {
		return m.show(s, Message{
			Step:  s.Step,
			Field: res.Field,
			Text:  res.Message,
			Err:   res.Err(s.Step),
		})
	}

	s, effects := m.clear(s)
	s.Step = clampStep(s.Step + 1)
	if s.IsFinalStep() {
		review := ProjectReview(s)
		s.Review = &review
		effects = append(effects, RefreshReview{Review: review})
	}
	return s, effects
}

func (m Machine) retreat(s State) (State, []Effect) {
	if s.Status != StatusEditing || s.Step == StepContact {
		return s, nil
	}
	s, effects := m.clear(s)
	s.Step = clampStep(s.Step - 1)
	return s, effects
}

func (m Machine) selectPriority(s State, p Priority) (State, []Effect) {
	if s.Status != StatusEditing || !p.Valid() {
		return s, nil
	}
	s.Priority = p
	if s.Message != nil && s.Message.Field == FieldPriority {
		return m.clear(s)
	}
	return s, nil
}

func (m Machine) submit(s State) (State, []Effect) {
	if s.Status != StatusEditing {
		return s, nil
	}
	if !s.Priority.Valid() {
		err := &SubmissionGuardError{}
		return m.show(s, Message{Step: s.Step, Field: FieldPriority, Text: err.Error(), Err: err})
	}
	if !s.IsFinalStep() {
		return s, nil
	}
	// Every earlier step must still validate. The first failing step
	// becomes current so its field can be fixed.
	for n := StepContact; n < s.Step; n++ {
		if res := ValidateStep(s, n); !res.Valid {
			s.Step = n
			return m.show(s, Message{Step: n, Field: res.Field, Text: res.Message, Err: res.Err(n)})
		}
	}

	s, effects := m.clear(s)
	s.Status = StatusSubmitting
	review := ProjectReview(s)
	s.Review = &review
	return s, append(effects, HandOff{
		Snapshot: s.Snapshot(m.now(), SaveReasonManual),
		Review:   review,
	})
}

func (m Machine) autosaveDue(s State, seq int) (State, []Effect) {
	if seq != s.AutosaveSeq || s.Status == StatusSubmitted {
		return s, nil
	}
	next := ScheduleAutosave{Seq: s.AutosaveSeq, After: m.autosaveInterval()}
	if s.Status != StatusEditing {
		return s, []Effect{next}
	}
	return s, []Effect{
		Autosave{Snapshot: s.Snapshot(m.now(), SaveReasonInterval)},
		next,
	}
}

// show replaces the active message and schedules its auto-clear. Bumping the
// sequence makes any timer scheduled for the previous message stale.
func (m Machine) show(s State, msg Message) (State, []Effect) {
	s.MessageSeq++
	s.Message = &msg
	return s, []Effect{
		ShowMessage{Message: msg, Seq: s.MessageSeq},
		ScheduleClear{Seq: s.MessageSeq, After: m.messageTimeout()},
	}
}

// clear drops the active message, if any, and cancels its timer.
func (m Machine) clear(s State) (State, []Effect) {
	if s.Message == nil {
		return s, nil
	}
	s.Message = nil
	s.MessageSeq++
	return s, []Effect{ClearMessage{}}
}
