// Package submit hands completed cases off to a downstream system.
package submit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/casewiz/internal/caseform"
	"github.com/mark3labs/casewiz/internal/logger"
	"github.com/mark3labs/casewiz/internal/nats"
	"github.com/nats-io/nats.go/jetstream"
)

var log = logger.Named("submit")

// Case is the payload handed off when the user submits.
type Case struct {
	Reference   string                  `json:"reference"`
	SubmittedAt time.Time               `json:"submitted_at"`
	Snapshot    caseform.Snapshot       `json:"snapshot"`
	Review      caseform.ReviewSnapshot `json:"review"`
}

// NewCase builds a Case from a hand-off. An empty reference gets a fresh
// one; callers retrying a failed submission pass the previous reference so
// the downstream can drop duplicates.
func NewCase(reference string, snap caseform.Snapshot, review caseform.ReviewSnapshot, now time.Time) Case {
	if reference == "" {
		reference = NewReference()
	}
	return Case{
		Reference:   reference,
		SubmittedAt: now,
		Snapshot:    snap,
		Review:      review,
	}
}

// NewReference returns a new case reference.
func NewReference() string {
	return uuid.NewString()
}

// Receipt confirms an accepted submission.
type Receipt struct {
	Reference string
	Stream    string
	Sequence  uint64
	Duplicate bool
}

// Submitter delivers a case.
type Submitter interface {
	Submit(ctx context.Context, c Case) (Receipt, error)
}

// SubmitterFunc adapts a function to the Submitter interface.
type SubmitterFunc func(ctx context.Context, c Case) (Receipt, error)

func (f SubmitterFunc) Submit(ctx context.Context, c Case) (Receipt, error) {
	return f(ctx, c)
}

// JetStreamSubmitter publishes cases to the case stream, one subject per
// record type.
type JetStreamSubmitter struct {
	js jetstream.JetStream
}

// NewJetStreamSubmitter creates a submitter. The case stream must already
// exist (see nats.SetupCaseStream).
func NewJetStreamSubmitter(js jetstream.JetStream) *JetStreamSubmitter {
	return &JetStreamSubmitter{js: js}
}

func (s *JetStreamSubmitter) Submit(ctx context.Context, c Case) (Receipt, error) {
	if c.Reference == "" {
		return Receipt{}, errors.New("case has no reference")
	}
	data, err := json.Marshal(c)
	if err != nil {
		return Receipt{}, fmt.Errorf("marshaling case: %w", err)
	}

	subject := nats.SubjectForCase(c.Snapshot.Fields[string(caseform.FieldRecordType)])
	log.Debug("Publishing case %s to %s", c.Reference, subject)

	ack, err := s.js.Publish(ctx, subject, data, jetstream.WithMsgID(c.Reference))
	if err != nil {
		log.Error("Failed to publish case %s: %v", c.Reference, err)
		return Receipt{}, fmt.Errorf("publishing case: %w", err)
	}
	if ack.Duplicate {
		log.Info("Case %s was already accepted at seq=%d", c.Reference, ack.Sequence)
	}

	return Receipt{
		Reference: c.Reference,
		Stream:    ack.Stream,
		Sequence:  ack.Sequence,
		Duplicate: ack.Duplicate,
	}, nil
}
