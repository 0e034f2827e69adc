package testfixtures

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/casewiz/internal/autosave"
	"github.com/mark3labs/casewiz/internal/caseform"
	"github.com/mark3labs/casewiz/internal/submit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockStore(t *testing.T) {
	ctx := context.Background()
	store := NewMockStore()

	_, err := store.Load(ctx, FixedDraftKey)
	require.ErrorIs(t, err, autosave.ErrNotFound)

	snap := FilledState(caseform.StepDetails, false).Snapshot(FixedTime, caseform.SaveReasonInterval)
	rev, err := store.Save(ctx, FixedDraftKey, snap)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), rev)

	got, err := store.Load(ctx, FixedDraftKey)
	require.NoError(t, err)
	assert.Equal(t, snap.Step, got.Step)
	assert.Len(t, store.Saved(), 1)

	store.Put("seeded", snap)
	assert.Len(t, store.Saved(), 1, "Put is not a save")
	revs, err := store.History(ctx, "seeded")
	require.NoError(t, err)
	assert.Len(t, revs, 1)

	store.SaveError = errors.New("boom")
	_, err = store.Save(ctx, FixedDraftKey, snap)
	assert.EqualError(t, err, "boom")
}

func TestMockSubmitter(t *testing.T) {
	sub := NewMockSubmitter()
	c := submit.Case{Reference: "ref-1"}

	r, err := sub.Submit(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, "ref-1", r.Reference)

	sub.Err = errors.New("offline")
	_, err = sub.Submit(context.Background(), c)
	assert.Error(t, err)
	assert.Equal(t, 2, sub.Calls())
	assert.Len(t, sub.Cases(), 2)
}

func TestFilledState(t *testing.T) {
	st := FilledState(caseform.StepReview, true)
	assert.Equal(t, caseform.StepReview, st.Step)
	assert.Equal(t, caseform.PriorityHigh, st.Priority)
	require.NotNil(t, st.Review, "the final step carries a projected review")
	for _, n := range []caseform.Step{caseform.StepContact, caseform.StepDetails} {
		assert.True(t, caseform.ValidateStep(st, n).Valid, "step %d", n)
	}

	bare := FilledState(caseform.StepReview, false)
	assert.Equal(t, caseform.StepReview, bare.Step)
	assert.Equal(t, caseform.PriorityUnset, bare.Priority)
}

func TestPlain(t *testing.T) {
	assert.Equal(t, "hello", Plain("\x1b[1mhello\x1b[0m"))
	assert.Equal(t, []string{"a", "b"}, Lines("a  \nb"))
}
