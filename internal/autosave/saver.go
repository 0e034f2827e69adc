package autosave

import (
	"context"
	"sync"
	"time"

	"github.com/mark3labs/casewiz/internal/caseform"
)

// Source returns the snapshot to save. ok is false when there is nothing to
// save, for example once the case has been submitted.
type Source func(reason string) (snap caseform.Snapshot, ok bool)

// Saver writes snapshots from a Source to a Store on a fixed interval. It is
// used by the line-mode runner; the full-screen UI schedules saves itself.
type Saver struct {
	store    Store
	key      string
	source   Source
	interval time.Duration

	mu      sync.Mutex
	lastRev uint64
	lastErr error
}

// NewSaver creates a Saver. A non-positive interval falls back to
// caseform.DefaultAutosaveInterval.
func NewSaver(store Store, key string, interval time.Duration, source Source) *Saver {
	if interval <= 0 {
		interval = caseform.DefaultAutosaveInterval
	}
	return &Saver{store: store, key: key, source: source, interval: interval}
}

// Run saves on every tick until ctx is cancelled. It blocks; callers run it
// in a goroutine and cancel ctx to stop it.
func (s *Saver) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Errors are recorded on the Saver; the loop keeps going.
			_ = s.SaveNow(ctx, caseform.SaveReasonInterval)
		}
	}
}

// SaveNow saves immediately. It returns nil without saving when the source
// has nothing to save.
func (s *Saver) SaveNow(ctx context.Context, reason string) error {
	snap, ok := s.source(reason)
	if !ok {
		return nil
	}
	rev, err := s.store.Save(ctx, s.key, snap)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		log.Warn("Autosave of %s failed: %v", s.key, err)
		s.lastErr = err
		return err
	}
	s.lastRev, s.lastErr = rev, nil
	return nil
}

// Last reports the most recent saved revision and the error of the most
// recent attempt, if any.
func (s *Saver) Last() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRev, s.lastErr
}
