package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

const (
	// DraftBucket is the KV bucket holding autosaved drafts, one key per draft.
	DraftBucket = "casewiz_drafts"

	// DraftHistory is how many revisions of each draft the bucket keeps.
	DraftHistory = 16

	// CaseStream captures every submitted case.
	CaseStream = "casewiz_cases"
)

// SubjectForCase returns the subject a case of the given record type is
// published on. Example: "casewiz.cases.support"
func SubjectForCase(recordType string) string {
	if recordType == "" {
		recordType = "unassigned"
	}
	return fmt.Sprintf("casewiz.cases.%s", recordType)
}

// SetupDraftBucket creates or updates the KV bucket for autosaved drafts.
// With persistent false the bucket lives in memory and is lost on exit.
func SetupDraftBucket(ctx context.Context, js jetstream.JetStream, persistent bool) (jetstream.KeyValue, error) {
	storage := jetstream.MemoryStorage
	if persistent {
		storage = jetstream.FileStorage
	}
	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      DraftBucket,
		Description: "casewiz autosaved drafts",
		History:     DraftHistory,
		Storage:     storage,
	})
	if err != nil {
		return nil, fmt.Errorf("setting up draft bucket: %w", err)
	}
	log.Debug("Draft bucket ready (persistent=%v)", persistent)
	return kv, nil
}

// SetupCaseStream creates or updates the stream submitted cases are published to.
// Subject pattern: casewiz.cases.> matches every record type.
func SetupCaseStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	stream, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:       CaseStream,
		Subjects:   []string{"casewiz.cases.>"},
		Storage:    jetstream.FileStorage,
		MaxAge:     90 * 24 * time.Hour,
		Duplicates: 10 * time.Minute, // Retried submissions reuse their message id
	})
	if err != nil {
		return nil, fmt.Errorf("setting up case stream: %w", err)
	}
	return stream, nil
}
