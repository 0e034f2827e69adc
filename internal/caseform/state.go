package caseform

import "time"

// Step is one of the three sequential form pages.
type Step int

const (
	StepContact Step = 1 // Contact info
	StepDetails Step = 2 // Case details
	StepReview  Step = 3 // Review and submit

	TotalSteps = 3
)

// Title returns the page heading for the step.
func (s Step) Title() string {
	switch s {
	case StepContact:
		return "Contact Info"
	case StepDetails:
		return "Case Details"
	case StepReview:
		return "Review"
	default:
		return ""
	}
}

// clampStep keeps a step inside [1, TotalSteps].
func clampStep(s Step) Step {
	if s < StepContact {
		return StepContact
	}
	if s > TotalSteps {
		return TotalSteps
	}
	return s
}

// Status tracks the submission lifecycle.
type Status string

const (
	StatusEditing    Status = "editing"
	StatusSubmitting Status = "submitting"
	StatusSubmitted  Status = "submitted"
)

// Default durations for scheduled effects.
const (
	DefaultMessageTimeout   = 5 * time.Second
	DefaultAutosaveInterval = 30 * time.Second
)

// Message is user-facing feedback tied to a step (and usually a field).
type Message struct {
	Step  Step
	Field FieldID // Empty for form-level messages
	Text  string
	Err   error // *ValidationError, *SubmissionGuardError or a handoff error
}

// State is the complete form state. States are values: Transition returns
// a new State and never mutates the one it was given.
type State struct {
	Step      Step
	Fields    map[FieldID]string
	Priority  Priority
	Status    Status
	Message   *Message
	Review    *ReviewSnapshot // Refreshed when entering the review step
	Reference string          // Receipt reference once submitted

	// MessageSeq identifies the currently scheduled auto-clear. A timer
	// firing with an older sequence is stale and ignored.
	MessageSeq int
	// AutosaveSeq identifies the live autosave loop.
	AutosaveSeq int
}

// New returns the initial session state: step 1, empty fields, no priority.
func New() State {
	return State{
		Step:        StepContact,
		Fields:      map[FieldID]string{},
		Status:      StatusEditing,
		AutosaveSeq: 1,
	}
}

// Value returns the raw value of a field. The priority field is served
// from the Priority enum.
func (s State) Value(f FieldID) string {
	if f == FieldPriority {
		return s.Priority.String()
	}
	return s.Fields[f]
}

// IsFinalStep reports whether the state is on the last page.
func (s State) IsFinalStep() bool {
	return s.Step == TotalSteps
}

// withField returns a copy of s with the field set.
func (s State) withField(f FieldID, v string) State {
	fields := make(map[FieldID]string, len(s.Fields)+1)
	for k, val := range s.Fields {
		fields[k] = val
	}
	fields[f] = v
	s.Fields = fields
	return s
}
