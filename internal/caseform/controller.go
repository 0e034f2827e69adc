package caseform

// Controller is a stateful wrapper around Machine for callers that prefer
// method calls over dispatching events. It is not safe for concurrent use;
// a form has exactly one actor.
type Controller struct {
	machine Machine
	state   State
	pending []Effect
}

// NewController returns a controller at the initial state.
func NewController(m Machine) *Controller {
	return &Controller{machine: m, state: New()}
}

// NewControllerFrom returns a controller positioned at s.
func NewControllerFrom(m Machine, s State) *Controller {
	return &Controller{machine: m, state: s}
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Dispatch applies an event and returns the resulting effects. Effects are
// also queued for Drain.
func (c *Controller) Dispatch(e Event) []Effect {
	var effects []Effect
	c.state, effects = c.machine.Transition(c.state, e)
	c.pending = append(c.pending, effects...)
	return effects
}

// Drain returns and clears the queued effects.
func (c *Controller) Drain() []Effect {
	out := c.pending
	c.pending = nil
	return out
}

// SetField records a control's value.
func (c *Controller) SetField(f FieldID, v string) {
	c.Dispatch(FieldChanged{Field: f, Value: v})
}

// Advance moves to the next step if the current one validates.
// It returns a *ValidationError describing the first failing field.
func (c *Controller) Advance() error {
	return messageErr(c.Dispatch(Advance{}))
}

// Retreat moves to the previous step. It never fails.
func (c *Controller) Retreat() {
	c.Dispatch(Retreat{})
}

// ValidateStep validates step n of the current state without side effects.
func (c *Controller) ValidateStep(n Step) ValidationResult {
	return ValidateStep(c.state, n)
}

// ProjectReview returns the review projection of the current state.
func (c *Controller) ProjectReview() ReviewSnapshot {
	return ProjectReview(c.state)
}

// SelectPriority sets the priority level. Re-selecting the active level is a
// no-op beyond re-confirming it.
func (c *Controller) SelectPriority(p Priority) error {
	if !p.Valid() {
		return &ValidationError{Step: StepDetails, Field: FieldPriority, Message: CheckField(FieldPriority, "")}
	}
	c.Dispatch(PrioritySelected{Level: p})
	return nil
}

// Submit hands the form off for submission. It returns a
// *SubmissionGuardError when no priority is set, a *NotFinalStepError
// before the review step, and a *ValidationError when an earlier step no
// longer validates. The HandOff effect is available from Drain on success.
func (c *Controller) Submit() error {
	before := c.state
	if err := messageErr(c.Dispatch(Submit{})); err != nil {
		return err
	}
	if before.Status == StatusEditing && !before.IsFinalStep() {
		return &NotFinalStepError{Step: before.Step}
	}
	return nil
}

// messageErr extracts the error carried by a ShowMessage effect.
func messageErr(effects []Effect) error {
	for _, e := range effects {
		if show, ok := e.(ShowMessage); ok {
			return show.Message.Err
		}
	}
	return nil
}
