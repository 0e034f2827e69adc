// Package testfixtures provides mock implementations and test utilities for TUI testing.
//
// This file contains mock implementations for the wizard's dependencies:
//   - MockStore: Mock implementation of autosave.Store
//   - MockSubmitter: Mock implementation of submit.Submitter
//
// All mocks are thread-safe and provide verification methods for assertions in tests.
//
// Example usage:
//
//	func TestMyComponent(t *testing.T) {
//	    store := testfixtures.NewMockStore()
//	    sub := testfixtures.NewMockSubmitter()
//	    sub.Err = errors.New("offline")
//
//	    // Use mocks in your test...
//	    // Later verify calls:
//	    require.Len(t, store.Saved(), 1)
//	    require.Equal(t, 1, sub.Calls())
//	}
package testfixtures

import (
	"context"
	"sync"

	"github.com/mark3labs/casewiz/internal/autosave"
	"github.com/mark3labs/casewiz/internal/caseform"
	"github.com/mark3labs/casewiz/internal/submit"
)

// MockStore is a mock implementation of autosave.Store for testing.
// Saves are recorded in order; Load returns the last save under the key.
type MockStore struct {
	mu sync.Mutex

	// Error to return from Save
	SaveError error
	// Error to return from Load (overrides stored drafts)
	LoadError error

	saved map[string][]caseform.Snapshot
	order []caseform.Snapshot
}

// NewMockStore creates an empty MockStore.
func NewMockStore() *MockStore {
	return &MockStore{saved: make(map[string][]caseform.Snapshot)}
}

// Save records the snapshot and returns the configured error.
func (m *MockStore) Save(_ context.Context, key string, snap caseform.Snapshot) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SaveError != nil {
		return 0, m.SaveError
	}
	m.saved[key] = append(m.saved[key], snap)
	m.order = append(m.order, snap)
	return uint64(len(m.order)), nil
}

// Load returns the last snapshot saved under key.
func (m *MockStore) Load(_ context.Context, key string) (caseform.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.LoadError != nil {
		return caseform.Snapshot{}, m.LoadError
	}
	snaps := m.saved[key]
	if len(snaps) == 0 {
		return caseform.Snapshot{}, autosave.ErrNotFound
	}
	return snaps[len(snaps)-1], nil
}

// History returns every snapshot saved under key.
func (m *MockStore) History(_ context.Context, key string) ([]autosave.Revision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snaps := m.saved[key]
	if len(snaps) == 0 {
		return nil, autosave.ErrNotFound
	}
	revs := make([]autosave.Revision, len(snaps))
	for i, s := range snaps {
		revs[i] = autosave.Revision{Revision: uint64(i + 1), Snapshot: s}
	}
	return revs, nil
}

// Put seeds a stored draft without counting it as a save.
func (m *MockStore) Put(key string, snap caseform.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved[key] = append(m.saved[key], snap)
}

// Saved returns a copy of every recorded save, in order (thread-safe).
func (m *MockStore) Saved() []caseform.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]caseform.Snapshot, len(m.order))
	copy(out, m.order)
	return out
}

// MockSubmitter is a mock implementation of submit.Submitter.
type MockSubmitter struct {
	mu sync.Mutex

	// Error to return from Submit
	Err error

	cases []submit.Case
}

// NewMockSubmitter creates a submitter that accepts every case.
func NewMockSubmitter() *MockSubmitter {
	return &MockSubmitter{}
}

// Submit records the case and returns the configured error.
func (m *MockSubmitter) Submit(_ context.Context, c submit.Case) (submit.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cases = append(m.cases, c)
	if m.Err != nil {
		return submit.Receipt{}, m.Err
	}
	return submit.Receipt{
		Reference: c.Reference,
		Stream:    "casewiz_cases",
		Sequence:  uint64(len(m.cases)),
	}, nil
}

// Calls returns how many times Submit was called.
func (m *MockSubmitter) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cases)
}

// Cases returns a copy of the submitted cases.
func (m *MockSubmitter) Cases() []submit.Case {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]submit.Case, len(m.cases))
	copy(out, m.cases)
	return out
}
