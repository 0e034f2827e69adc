// Package caseform holds the support-case form model: field identifiers,
// option catalogs, per-step validation, the review projection and the
// step-navigation state machine. It has no UI dependencies.
package caseform

import "strings"

// FieldID is the stable identifier a UI binds a control to.
// Renaming an identifier is a breaking change for every adapter.
type FieldID string

const (
	FieldName        FieldID = "name"
	FieldEmail       FieldID = "email"
	FieldPhone       FieldID = "phone"
	FieldCompany     FieldID = "company"
	FieldRecordType  FieldID = "record_type" // Department category
	FieldRequestType FieldID = "request_type"
	FieldReason      FieldID = "reason"
	FieldPriority    FieldID = "priority"
	FieldSubject     FieldID = "subject"
	FieldDescription FieldID = "description"
)

// AllFields lists every field in display order.
var AllFields = []FieldID{
	FieldName,
	FieldEmail,
	FieldPhone,
	FieldCompany,
	FieldRecordType,
	FieldRequestType,
	FieldReason,
	FieldPriority,
	FieldSubject,
	FieldDescription,
}

// Label returns the human-readable field name.
func (f FieldID) Label() string {
	switch f {
	case FieldName:
		return "Name"
	case FieldEmail:
		return "Email"
	case FieldPhone:
		return "Phone"
	case FieldCompany:
		return "Company"
	case FieldRecordType:
		return "Department"
	case FieldRequestType:
		return "Request Type"
	case FieldReason:
		return "Reason"
	case FieldPriority:
		return "Priority"
	case FieldSubject:
		return "Subject"
	case FieldDescription:
		return "Description"
	default:
		return string(f)
	}
}

// IsSelect reports whether the field is chosen from an option catalog.
func (f FieldID) IsSelect() bool {
	switch f {
	case FieldRecordType, FieldRequestType, FieldReason, FieldPriority:
		return true
	}
	return false
}

// StepOf returns the step that owns the field.
func StepOf(f FieldID) Step {
	switch f {
	case FieldName, FieldEmail, FieldPhone, FieldCompany:
		return StepContact
	default:
		return StepDetails
	}
}

// ParseFieldID resolves a field identifier, reporting false for unknown ids.
func ParseFieldID(s string) (FieldID, bool) {
	s = strings.TrimSpace(s)
	for _, f := range AllFields {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}
