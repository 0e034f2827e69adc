package caseform

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// filledState returns a state with every required field populated.
func filledState() State {
	s := New()
	s.Fields = map[FieldID]string{
		FieldName:        "Jane Doe",
		FieldEmail:       "jane@example.com",
		FieldRecordType:  "support",
		FieldRequestType: "incident",
		FieldReason:      "outage",
		FieldSubject:     "Dashboard down",
		FieldDescription: "The dashboard returns 502 since this morning.",
	}
	s.Priority = PriorityHigh
	return s
}

func TestValidateStep_Contact(t *testing.T) {
	tests := []struct {
		name      string
		fullName  string
		email     string
		wantValid bool
		wantField FieldID
		wantMsg   string
	}{
		{"valid", "Jane Doe", "jane@example.com", true, "", ""},
		{"empty name", "", "a@b.c", false, FieldName, "Please enter your name"},
		{"whitespace name", "   ", "a@b.c", false, FieldName, "Please enter your name"},
		{"invalid email", "Jane Doe", "not-an-email", false, FieldEmail, "Please enter a valid email address"},
		{"empty email", "Jane Doe", "", false, FieldEmail, "Please enter your email address"},
		{"email without tld", "Jane Doe", "jane@example", false, FieldEmail, "Please enter a valid email address"},
		{"email with space", "Jane Doe", "ja ne@example.com", false, FieldEmail, "Please enter a valid email address"},
		{"email with no-break space", "Jane Doe", "ja\u00a0ne@example.com", false, FieldEmail, "Please enter a valid email address"},
		{"email with ideographic space", "Jane Doe", "jane@exa\u3000mple.com", false, FieldEmail, "Please enter a valid email address"},
		{"email padded", "Jane Doe", "  jane@example.com ", true, "", ""},
		{"name checked before email", "", "", false, FieldName, "Please enter your name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			s.Fields[FieldName] = tt.fullName
			s.Fields[FieldEmail] = tt.email

			res := ValidateStep(s, StepContact)
			assert.Equal(t, tt.wantValid, res.Valid)
			assert.Equal(t, tt.wantField, res.Field)
			assert.Equal(t, tt.wantMsg, res.Message)
		})
	}
}

func TestValidateStep_DetailsFieldOrder(t *testing.T) {
	// Blank each required field in turn; the first blank in check order wins.
	for i, field := range RequiredFields(StepDetails) {
		t.Run(string(field), func(t *testing.T) {
			s := filledState()
			for _, f := range RequiredFields(StepDetails)[i:] {
				if f == FieldPriority {
					s.Priority = PriorityUnset
					continue
				}
				s.Fields[f] = ""
			}

			res := ValidateStep(s, StepDetails)
			require.False(t, res.Valid)
			assert.Equal(t, field, res.Field)
			assert.NotEmpty(t, res.Message)
		})
	}
}

func TestCheckField_SelectsMustBeKnownOptions(t *testing.T) {
	for _, f := range []FieldID{FieldRecordType, FieldRequestType, FieldReason} {
		t.Run(string(f), func(t *testing.T) {
			for _, o := range OptionsFor(f) {
				assert.Empty(t, CheckField(f, o.Value), o.Value)
			}
			for _, bad := range []string{"", "a.>", "x y", "*", "Billing"} {
				assert.NotEmpty(t, CheckField(f, bad), "%q should be rejected", bad)
			}
		})
	}
}

func TestValidateStep_DescriptionLength(t *testing.T) {
	s := filledState()

	s.Fields[FieldDescription] = strings.Repeat("x", 10)
	assert.True(t, ValidateStep(s, StepDetails).Valid, "exactly 10 characters is enough")

	s.Fields[FieldDescription] = strings.Repeat("x", 9)
	res := ValidateStep(s, StepDetails)
	assert.False(t, res.Valid)
	assert.Equal(t, FieldDescription, res.Field)

	// Characters, not bytes
	s.Fields[FieldDescription] = strings.Repeat("é", 10)
	assert.True(t, ValidateStep(s, StepDetails).Valid)
}

func TestValidateStep_ReviewAlwaysValid(t *testing.T) {
	assert.True(t, ValidateStep(New(), StepReview).Valid)
}

func TestValidationResult_Err(t *testing.T) {
	assert.NoError(t, ValidationResult{Valid: true}.Err(StepContact))

	err := ValidationResult{Field: FieldEmail, Message: "bad"}.Err(StepContact)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, FieldEmail, verr.Field)
	assert.Equal(t, StepContact, verr.Step)
}

func TestCheckField_OptionalFields(t *testing.T) {
	assert.Empty(t, CheckField(FieldPhone, ""))
	assert.Empty(t, CheckField(FieldCompany, ""))
}

func TestParsePriority(t *testing.T) {
	for _, p := range Priorities {
		got, err := ParsePriority(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}

	got, err := ParsePriority(" HIGH ")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, got)

	got, err = ParsePriority("")
	require.NoError(t, err)
	assert.Equal(t, PriorityUnset, got)

	_, err = ParsePriority("urgent")
	assert.Error(t, err)
}
