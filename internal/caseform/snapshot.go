package caseform

import (
	"fmt"
	"time"
)

// Autosave trigger reasons.
const (
	SaveReasonInterval   = "interval"
	SaveReasonVisibility = "visibility"
	SaveReasonManual     = "manual"
)

// Snapshot is the autosave shape of a State. It carries only user input and
// position; transient feedback and timer tokens are not saved.
type Snapshot struct {
	Step     int               `json:"step"`
	Fields   map[string]string `json:"fields"`
	Priority string            `json:"priority,omitempty"`
	Status   Status            `json:"status"`
	SavedAt  time.Time         `json:"saved_at"`
	Reason   string            `json:"reason,omitempty"`
}

// Snapshot captures the state for an external store.
func (s State) Snapshot(now time.Time, reason string) Snapshot {
	fields := make(map[string]string, len(s.Fields))
	for k, v := range s.Fields {
		if v != "" {
			fields[string(k)] = v
		}
	}
	return Snapshot{
		Step:     int(s.Step),
		Fields:   fields,
		Priority: s.Priority.String(),
		Status:   s.Status,
		SavedAt:  now,
		Reason:   reason,
	}
}

// Restore rebuilds an editable State from a snapshot. Unknown fields are
// dropped and the step is clamped, then lowered to the first step that does
// not validate. A restored form is always editable and its review is
// re-projected if it lands on the final step.
func Restore(snap Snapshot) (State, error) {
	st := New()
	for k, v := range snap.Fields {
		f, ok := ParseFieldID(k)
		if !ok || f == FieldPriority {
			continue
		}
		st.Fields[f] = v
	}

	p, err := ParsePriority(snap.Priority)
	if err != nil {
		return New(), fmt.Errorf("restoring snapshot: %w", err)
	}
	st.Priority = p
	st.Step = clampStep(Step(snap.Step))
	for n := StepContact; n < st.Step; n++ {
		if !ValidateStep(st, n).Valid {
			st.Step = n
			break
		}
	}

	if st.IsFinalStep() {
		review := ProjectReview(st)
		st.Review = &review
	}
	return st, nil
}
