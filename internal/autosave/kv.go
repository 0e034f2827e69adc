package autosave

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/casewiz/internal/caseform"
	"github.com/nats-io/nats.go/jetstream"
)

// KVStore keeps drafts in a JetStream key-value bucket. Whether drafts
// survive a restart depends on the bucket's storage type.
type KVStore struct {
	kv jetstream.KeyValue
}

// NewKVStore wraps an existing bucket, normally from nats.SetupDraftBucket.
func NewKVStore(kv jetstream.KeyValue) *KVStore {
	return &KVStore{kv: kv}
}

func (s *KVStore) Save(ctx context.Context, key string, snap caseform.Snapshot) (uint64, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return 0, fmt.Errorf("marshaling draft: %w", err)
	}
	rev, err := s.kv.Put(ctx, key, data)
	if err != nil {
		log.Error("Failed to save draft %s: %v", key, err)
		return 0, fmt.Errorf("saving draft %s: %w", key, err)
	}
	log.Debug("Saved draft %s revision %d (%s)", key, rev, snap.Reason)
	return rev, nil
}

func (s *KVStore) Load(ctx context.Context, key string) (caseform.Snapshot, error) {
	entry, err := s.kv.Get(ctx, key)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return caseform.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return caseform.Snapshot{}, fmt.Errorf("loading draft %s: %w", key, err)
	}
	return decode(entry)
}

func (s *KVStore) History(ctx context.Context, key string) ([]Revision, error) {
	entries, err := s.kv.History(ctx, key)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading history for %s: %w", key, err)
	}

	revs := make([]Revision, 0, len(entries))
	for _, entry := range entries {
		if entry.Operation() != jetstream.KeyValuePut {
			continue
		}
		snap, err := decode(entry)
		if err != nil {
			return nil, err
		}
		revs = append(revs, Revision{Revision: entry.Revision(), Snapshot: snap})
	}
	if len(revs) == 0 {
		return nil, ErrNotFound
	}
	return revs, nil
}

func decode(entry jetstream.KeyValueEntry) (caseform.Snapshot, error) {
	var snap caseform.Snapshot
	if err := json.Unmarshal(entry.Value(), &snap); err != nil {
		return caseform.Snapshot{}, fmt.Errorf("decoding draft %s revision %d: %w", entry.Key(), entry.Revision(), err)
	}
	return snap, nil
}
