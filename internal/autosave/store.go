// Package autosave persists form snapshots so an interrupted case can be
// resumed. Stores keep a short revision history per draft key.
package autosave

import (
	"context"
	"errors"
	"sync"

	"github.com/gosimple/slug"
	"github.com/mark3labs/casewiz/internal/caseform"
	"github.com/mark3labs/casewiz/internal/logger"
)

var log = logger.Named("autosave")

// ErrNotFound is returned when no draft exists under a key.
var ErrNotFound = errors.New("draft not found")

// HistoryLimit is the number of revisions kept per draft.
const HistoryLimit = 16

// Revision is one saved version of a draft.
type Revision struct {
	Revision uint64            `json:"revision"`
	Snapshot caseform.Snapshot `json:"snapshot"`
}

// Store saves and loads draft snapshots by key.
type Store interface {
	// Save stores snap under key and returns the new revision number.
	Save(ctx context.Context, key string, snap caseform.Snapshot) (uint64, error)
	// Load returns the latest snapshot under key or ErrNotFound.
	Load(ctx context.Context, key string) (caseform.Snapshot, error)
	// History returns the retained revisions under key, oldest first.
	History(ctx context.Context, key string) ([]Revision, error)
}

// Key turns a user-supplied draft name into a store key.
// Example: "Billing Issue 2" -> "billing-issue-2"
func Key(draftName string) string {
	if k := slug.Make(draftName); k != "" {
		return k
	}
	return "default"
}

// MemoryStore keeps drafts for the lifetime of the process.
type MemoryStore struct {
	mu     sync.Mutex
	rev    uint64
	drafts map[string][]Revision
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drafts: make(map[string][]Revision)}
}

func (m *MemoryStore) Save(_ context.Context, key string, snap caseform.Snapshot) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rev++
	revs := append(m.drafts[key], Revision{Revision: m.rev, Snapshot: cloneSnapshot(snap)})
	if len(revs) > HistoryLimit {
		revs = revs[len(revs)-HistoryLimit:]
	}
	m.drafts[key] = revs
	return m.rev, nil
}

func (m *MemoryStore) Load(_ context.Context, key string) (caseform.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	revs := m.drafts[key]
	if len(revs) == 0 {
		return caseform.Snapshot{}, ErrNotFound
	}
	return cloneSnapshot(revs[len(revs)-1].Snapshot), nil
}

func (m *MemoryStore) History(_ context.Context, key string) ([]Revision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	revs := m.drafts[key]
	if len(revs) == 0 {
		return nil, ErrNotFound
	}
	out := make([]Revision, len(revs))
	for i, r := range revs {
		out[i] = Revision{Revision: r.Revision, Snapshot: cloneSnapshot(r.Snapshot)}
	}
	return out, nil
}

// cloneSnapshot copies the field map so stored revisions never alias caller state.
func cloneSnapshot(s caseform.Snapshot) caseform.Snapshot {
	fields := make(map[string]string, len(s.Fields))
	for k, v := range s.Fields {
		fields[k] = v
	}
	s.Fields = fields
	return s
}
