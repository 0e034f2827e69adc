package caseform

import (
	"fmt"
	"strings"
)

const (
	// DescriptionPreviewLimit bounds the description shown on the review page.
	DescriptionPreviewLimit = 150

	PlaceholderNotProvided = "Not provided"
	PlaceholderNotSelected = "Not selected"

	ellipsis = "..."
)

// ReviewSnapshot is the read-only display projection of a State.
type ReviewSnapshot struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Company     string `json:"company"`
	Department  string `json:"department"`
	RequestType string `json:"request_type"`
	Reason      string `json:"reason"`
	Priority    string `json:"priority"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
}

// ReviewRow is one label/value pair of a review snapshot.
type ReviewRow struct {
	Field FieldID
	Label string
	Value string
}

// ProjectReview maps the raw field values of s into display strings.
// It depends only on the field values and priority of s.
func ProjectReview(s State) ReviewSnapshot {
	text := func(f FieldID) string {
		v := strings.TrimSpace(s.Fields[f])
		if v == "" {
			return PlaceholderNotProvided
		}
		return v
	}
	choice := func(f FieldID) string {
		v := strings.TrimSpace(s.Fields[f])
		if v == "" {
			return PlaceholderNotSelected
		}
		return LabelFor(f, v)
	}

	priority := PlaceholderNotSelected
	if s.Priority.Valid() {
		priority = s.Priority.Label()
	}

	description := text(FieldDescription)
	if description != PlaceholderNotProvided {
		description = Truncate(description, DescriptionPreviewLimit)
	}

	return ReviewSnapshot{
		Name:        text(FieldName),
		Email:       text(FieldEmail),
		Phone:       text(FieldPhone),
		Company:     text(FieldCompany),
		Department:  choice(FieldRecordType),
		RequestType: choice(FieldRequestType),
		Reason:      choice(FieldReason),
		Priority:    priority,
		Subject:     text(FieldSubject),
		Description: description,
	}
}

// Truncate returns s unchanged if it has at most n runes, otherwise the
// first n runes followed by "...". Applying it twice gives the same result.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + ellipsis
}

// Rows returns the snapshot in display order.
func (r ReviewSnapshot) Rows() []ReviewRow {
	return []ReviewRow{
		{FieldName, FieldName.Label(), r.Name},
		{FieldEmail, FieldEmail.Label(), r.Email},
		{FieldPhone, FieldPhone.Label(), r.Phone},
		{FieldCompany, FieldCompany.Label(), r.Company},
		{FieldRecordType, FieldRecordType.Label(), r.Department},
		{FieldRequestType, FieldRequestType.Label(), r.RequestType},
		{FieldReason, FieldReason.Label(), r.Reason},
		{FieldPriority, FieldPriority.Label(), r.Priority},
		{FieldSubject, FieldSubject.Label(), r.Subject},
		{FieldDescription, FieldDescription.Label(), r.Description},
	}
}

// Markdown renders the snapshot as two markdown tables (contact, case).
func (r ReviewSnapshot) Markdown() string {
	var b strings.Builder
	rows := r.Rows()

	section := func(title string, rows []ReviewRow) {
		fmt.Fprintf(&b, "## %s\n\n| Field | Value |\n|---|---|\n", title)
		for _, row := range rows {
			fmt.Fprintf(&b, "| %s | %s |\n", row.Label, escapeCell(row.Value))
		}
		b.WriteString("\n")
	}
	section(StepContact.Title(), rows[:4])
	section(StepDetails.Title(), rows[4:])

	return strings.TrimSuffix(b.String(), "\n")
}

// escapeCell keeps user text from breaking the markdown table.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.Join(strings.Fields(s), " ")
}
