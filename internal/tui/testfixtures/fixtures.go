package testfixtures

import (
	"time"

	"github.com/mark3labs/casewiz/internal/caseform"
)

// Fixed test values for consistent assertions
const (
	FixedDraftKey = "test-draft"
)

var (
	FixedTime = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
)

// ContactValues are valid contact step answers.
var ContactValues = map[caseform.FieldID]string{
	caseform.FieldName:    "Ada Lovelace",
	caseform.FieldEmail:   "ada@example.com",
	caseform.FieldPhone:   "+44 20 7946 0000",
	caseform.FieldCompany: "Analytical Engines Ltd",
}

// DetailsValues are valid details step answers, priority excluded.
var DetailsValues = map[caseform.FieldID]string{
	caseform.FieldRecordType:  "support",
	caseform.FieldRequestType: "incident",
	caseform.FieldReason:      "outage",
	caseform.FieldSubject:     "Dashboard is down",
	caseform.FieldDescription: "The dashboard returns a 502 for every user since 9am.",
}

// Machine returns a machine with a fixed clock.
func Machine() caseform.Machine {
	m := caseform.DefaultMachine
	m.Now = func() time.Time { return FixedTime }
	return m
}

// FilledState returns a state with every field answered, positioned on step.
// The priority is set when withPriority is true. The step is set directly,
// so a review state without a priority can be built for guard tests.
func FilledState(step caseform.Step, withPriority bool) caseform.State {
	st := caseform.New()
	for f, v := range ContactValues {
		st.Fields[f] = v
	}
	for f, v := range DetailsValues {
		st.Fields[f] = v
	}
	if withPriority {
		st.Priority = caseform.PriorityHigh
	}
	st.Step = step
	if st.IsFinalStep() {
		review := caseform.ProjectReview(st)
		st.Review = &review
	}
	return st
}
