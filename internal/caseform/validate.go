package caseform

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinDescriptionLength is the minimum description length in characters.
const MinDescriptionLength = 10

// emailPattern accepts local@domain.tld with no whitespace in any part,
// Unicode separators such as U+00A0 included.
var emailPattern = regexp.MustCompile(`^[^\s\p{Z}@]+@[^\s\p{Z}@]+\.[^\s\p{Z}@]+$`)

// Required fields per step, in the order they are checked.
var (
	contactRequired = []FieldID{FieldName, FieldEmail}
	detailsRequired = []FieldID{
		FieldRecordType,
		FieldRequestType,
		FieldReason,
		FieldPriority,
		FieldSubject,
		FieldDescription,
	}
)

// ValidationError reports a missing or malformed required field.
type ValidationError struct {
	Step    Step
	Field   FieldID
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("step %d: %s: %s", e.Step, e.Field, e.Message)
}

// SubmissionGuardError reports a submit attempt without a priority.
type SubmissionGuardError struct{}

func (e *SubmissionGuardError) Error() string {
	return "Please select a priority level before submitting"
}

// NotFinalStepError reports a submit attempt before the review step.
type NotFinalStepError struct {
	Step Step
}

func (e *NotFinalStepError) Error() string {
	return fmt.Sprintf("cases can only be submitted from step %d, form is on step %d", TotalSteps, e.Step)
}

// ValidationResult is the outcome of validating one step.
type ValidationResult struct {
	Valid   bool
	Field   FieldID // First failing field, empty when valid
	Message string
}

// Err returns the result as a *ValidationError, or nil when valid.
func (r ValidationResult) Err(step Step) error {
	if r.Valid {
		return nil
	}
	return &ValidationError{Step: step, Field: r.Field, Message: r.Message}
}

// RequiredFields returns the fields validated for a step, in check order.
func RequiredFields(n Step) []FieldID {
	switch n {
	case StepContact:
		return contactRequired
	case StepDetails:
		return detailsRequired
	}
	return nil
}

// ValidateStep checks the required fields of step n in their fixed order and
// reports the first failure. The review step has no inputs and is always valid.
func ValidateStep(s State, n Step) ValidationResult {
	for _, f := range RequiredFields(n) {
		if msg := CheckField(f, s.Value(f)); msg != "" {
			return ValidationResult{Field: f, Message: msg}
		}
	}
	return ValidationResult{Valid: true}
}

// CheckField validates a single value and returns the user-facing message,
// or "" if the value is acceptable. Optional fields always pass.
func CheckField(f FieldID, value string) string {
	value = strings.TrimSpace(value)
	switch f {
	case FieldName:
		if value == "" {
			return "Please enter your name"
		}
	case FieldEmail:
		if value == "" {
			return "Please enter your email address"
		}
		if !emailPattern.MatchString(value) {
			return "Please enter a valid email address"
		}
	case FieldRecordType:
		if !isOption(f, value) {
			return "Please select a department"
		}
	case FieldRequestType:
		if !isOption(f, value) {
			return "Please select a request type"
		}
	case FieldReason:
		if !isOption(f, value) {
			return "Please select a reason for your request"
		}
	case FieldPriority:
		if p, err := ParsePriority(value); err != nil || !p.Valid() {
			return "Please select a priority level"
		}
	case FieldSubject:
		if value == "" {
			return "Please enter a subject"
		}
	case FieldDescription:
		if value == "" {
			return "Please describe your issue"
		}
		if utf8.RuneCountInString(value) < MinDescriptionLength {
			return fmt.Sprintf("Description must be at least %d characters", MinDescriptionLength)
		}
	}
	return ""
}

// isOption reports whether value is one of the coded options of f.
func isOption(f FieldID, value string) bool {
	for _, o := range OptionsFor(f) {
		if o.Value == value {
			return true
		}
	}
	return false
}

// ValidEmail reports whether s looks like local@domain.tld.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}
