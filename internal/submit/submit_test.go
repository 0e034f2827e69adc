package submit

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/casewiz/internal/caseform"
	"github.com/mark3labs/casewiz/internal/nats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCase(ref string) Case {
	ctrl := caseform.NewController(caseform.DefaultMachine)
	ctrl.SetField(caseform.FieldName, "Ada Lovelace")
	ctrl.SetField(caseform.FieldEmail, "ada@example.com")
	ctrl.SetField(caseform.FieldRecordType, "billing")
	ctrl.SetField(caseform.FieldSubject, "Invoice mismatch")
	_ = ctrl.SelectPriority(caseform.PriorityHigh)

	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	s := ctrl.State()
	return NewCase(ref, s.Snapshot(now, caseform.SaveReasonManual), caseform.ProjectReview(s), now)
}

func TestNewCase(t *testing.T) {
	c := sampleCase("")
	_, err := uuid.Parse(c.Reference)
	assert.NoError(t, err, "generated reference should be a uuid")

	kept := sampleCase("case-123")
	assert.Equal(t, "case-123", kept.Reference)
	assert.Equal(t, "Billing", kept.Review.Department)
}

func TestSubmitterFunc(t *testing.T) {
	var got Case
	s := SubmitterFunc(func(_ context.Context, c Case) (Receipt, error) {
		got = c
		return Receipt{Reference: c.Reference}, nil
	})
	r, err := s.Submit(context.Background(), sampleCase("ref"))
	require.NoError(t, err)
	assert.Equal(t, "ref", r.Reference)
	assert.Equal(t, "ref", got.Reference)
}

func TestJetStreamSubmitter(t *testing.T) {
	ctx := context.Background()
	ns, err := nats.StartEmbeddedNATS(t.TempDir())
	require.NoError(t, err)
	nc, err := nats.ConnectInProcess(ns)
	require.NoError(t, err)
	defer func() { _ = nats.Shutdown(nc, ns) }()

	js, err := nats.CreateJetStream(nc)
	require.NoError(t, err)
	stream, err := nats.SetupCaseStream(ctx, js)
	require.NoError(t, err)

	sub := NewJetStreamSubmitter(js)

	t.Run("publishes to the record type subject", func(t *testing.T) {
		c := sampleCase("")
		receipt, err := sub.Submit(ctx, c)
		require.NoError(t, err)
		assert.Equal(t, c.Reference, receipt.Reference)
		assert.Equal(t, nats.CaseStream, receipt.Stream)
		assert.False(t, receipt.Duplicate)

		msg, err := stream.GetLastMsgForSubject(ctx, "casewiz.cases.billing")
		require.NoError(t, err)

		var stored Case
		require.NoError(t, json.Unmarshal(msg.Data, &stored))
		assert.Equal(t, c.Reference, stored.Reference)
		assert.Equal(t, "high", stored.Snapshot.Priority)
		assert.Equal(t, "Invoice mismatch", stored.Review.Subject)
	})

	t.Run("retry with the same reference is deduplicated", func(t *testing.T) {
		c := sampleCase("retry-me")
		first, err := sub.Submit(ctx, c)
		require.NoError(t, err)
		second, err := sub.Submit(ctx, c)
		require.NoError(t, err)
		assert.True(t, second.Duplicate)
		assert.Equal(t, first.Sequence, second.Sequence)
	})

	t.Run("rejects missing reference", func(t *testing.T) {
		_, err := sub.Submit(ctx, Case{})
		assert.Error(t, err)
	})
}
