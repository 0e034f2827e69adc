package caseform

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectReview_LabelsAndPlaceholders(t *testing.T) {
	s := filledState()
	s.Fields[FieldPhone] = "  "

	got := ProjectReview(s)
	want := ReviewSnapshot{
		Name:        "Jane Doe",
		Email:       "jane@example.com",
		Phone:       PlaceholderNotProvided,
		Company:     PlaceholderNotProvided,
		Department:  "Technical Support",
		RequestType: "Incident",
		Reason:      "Service Outage",
		Priority:    "High",
		Subject:     "Dashboard down",
		Description: "The dashboard returns 502 since this morning.",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ProjectReview() mismatch (-want +got):\n%s", diff)
	}
}

func TestProjectReview_EmptyForm(t *testing.T) {
	got := ProjectReview(New())

	assert.Equal(t, PlaceholderNotProvided, got.Name)
	assert.Equal(t, PlaceholderNotProvided, got.Description)
	assert.Equal(t, PlaceholderNotSelected, got.Department)
	assert.Equal(t, PlaceholderNotSelected, got.RequestType)
	assert.Equal(t, PlaceholderNotSelected, got.Reason)
	assert.Equal(t, PlaceholderNotSelected, got.Priority)
}

func TestProjectReview_UnknownCodeFallsBackToValue(t *testing.T) {
	s := filledState()
	s.Fields[FieldReason] = "legacy-reason"
	assert.Equal(t, "legacy-reason", ProjectReview(s).Reason)
}

func TestProjectReview_Pure(t *testing.T) {
	a := filledState()
	b := filledState()
	// Non-field state must not influence the projection
	b.Step = StepReview
	b.MessageSeq = 9
	b.Message = &Message{Text: "x"}

	if diff := cmp.Diff(ProjectReview(a), ProjectReview(b)); diff != "" {
		t.Errorf("projection depends on non-field state:\n%s", diff)
	}
	assert.Equal(t, ProjectReview(a), ProjectReview(a))
}

func TestProjectReview_TruncatesDescription(t *testing.T) {
	s := filledState()
	s.Fields[FieldDescription] = strings.Repeat("a", 200)

	got := ProjectReview(s).Description
	assert.Equal(t, strings.Repeat("a", 150)+"...", got)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"short", "hello", "hello"},
		{"exactly limit", strings.Repeat("b", 150), strings.Repeat("b", 150)},
		{"one over", strings.Repeat("b", 151), strings.Repeat("b", 150) + "..."},
		{"multibyte", strings.Repeat("ü", 160), strings.Repeat("ü", 150) + "..."},
		{"already ends in dots", strings.Repeat("c", 150) + "...", strings.Repeat("c", 150) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.in, 150)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Truncate(got, 150), "truncate must be idempotent")
		})
	}
}

func TestReviewSnapshot_Markdown(t *testing.T) {
	s := filledState()
	s.Fields[FieldSubject] = "A | B"
	md := ProjectReview(s).Markdown()

	assert.Contains(t, md, "## Contact Info")
	assert.Contains(t, md, "## Case Details")
	assert.Contains(t, md, "| Department | Technical Support |")
	assert.Contains(t, md, `A \| B`)
}

func TestSnapshotRestore(t *testing.T) {
	s := filledState()
	s.Step = StepDetails
	s.Message = &Message{Text: "transient"}

	snap := s.Snapshot(time.Unix(0, 0), SaveReasonManual)
	assert.Equal(t, 2, snap.Step)
	assert.Equal(t, "high", snap.Priority)
	assert.Equal(t, "Jane Doe", snap.Fields["name"])

	restored, err := Restore(snap)
	require.NoError(t, err)
	assert.Equal(t, StepDetails, restored.Step)
	assert.Equal(t, PriorityHigh, restored.Priority)
	assert.Nil(t, restored.Message)
	if diff := cmp.Diff(s.Fields, restored.Fields); diff != "" {
		t.Errorf("restored fields mismatch (-want +got):\n%s", diff)
	}
}

func TestRestore_ClampsAndDropsUnknown(t *testing.T) {
	snap := filledState().Snapshot(time.Unix(0, 0), SaveReasonManual)
	snap.Step = 9
	snap.Fields["shoe_size"] = "42"

	restored, err := Restore(snap)
	require.NoError(t, err)
	assert.Equal(t, StepReview, restored.Step)
	assert.NotContains(t, restored.Fields, FieldID("shoe_size"))
	require.NotNil(t, restored.Review)

	_, err = Restore(Snapshot{Priority: "urgent"})
	assert.Error(t, err)
}

func TestRestore_LandsOnFirstInvalidStep(t *testing.T) {
	tests := []struct {
		name string
		edit func(snap *Snapshot)
		want Step
	}{
		{
			name: "empty review draft",
			edit: func(snap *Snapshot) {
				snap.Fields = map[string]string{}
			},
			want: StepContact,
		},
		{
			name: "malformed email",
			edit: func(snap *Snapshot) { snap.Fields["email"] = "nope" },
			want: StepContact,
		},
		{
			name: "missing priority",
			edit: func(snap *Snapshot) { snap.Priority = "" },
			want: StepDetails,
		},
		{
			name: "unknown department",
			edit: func(snap *Snapshot) { snap.Fields["record_type"] = "a.>" },
			want: StepDetails,
		},
		{
			name: "complete",
			edit: func(*Snapshot) {},
			want: StepReview,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := filledState().Snapshot(time.Unix(0, 0), SaveReasonInterval)
			snap.Step = int(StepReview)
			tt.edit(&snap)

			restored, err := Restore(snap)
			require.NoError(t, err)
			assert.Equal(t, tt.want, restored.Step)
			assert.Equal(t, tt.want == StepReview, restored.Review != nil)
		})
	}
}

func TestHelpFor(t *testing.T) {
	for _, f := range AllFields {
		assert.NotEmpty(t, HelpFor(f), "missing help for %s", f)
	}
	assert.Empty(t, HelpFor(FieldID("nope")))
}
