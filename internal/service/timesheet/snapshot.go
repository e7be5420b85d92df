package timesheet

import (
	"sync"
	"time"
)

// Snapshot sources. Users are not week scoped and are stored under allWeeks.
const (
	sourceUsers     = "users"
	sourcePunches   = "punches"
	sourceVacations = "vacations"

	allWeeks = "*"
)

type snapshotKey struct {
	source string
	week   string
}

type snapshotEntry struct {
	value    any
	storedAt time.Time
}

// SnapshotStore keeps the last successful fetch of every source and week.
// A failed fetch falls back to it instead of failing the whole dashboard.
type SnapshotStore struct {
	mu        sync.RWMutex
	retention time.Duration
	entries   map[snapshotKey]snapshotEntry
}

func NewSnapshotStore(retention time.Duration) *SnapshotStore {
	return &SnapshotStore{
		retention: retention,
		entries:   make(map[snapshotKey]snapshotEntry),
	}
}

func (s *SnapshotStore) Put(source, week string, value any, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[snapshotKey{source, week}] = snapshotEntry{value: value, storedAt: now}
}

func (s *SnapshotStore) Get(source, week string) (any, time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[snapshotKey{source, week}]
	return e.value, e.storedAt, ok
}

func (s *SnapshotStore) Invalidate(source, week string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, snapshotKey{source, week})
}

// Prune drops entries older than the retention window and returns how many.
// A zero retention keeps everything.
func (s *SnapshotStore) Prune(now time.Time) int {
	if s.retention <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pruned := 0
	for k, e := range s.entries {
		if now.Sub(e.storedAt) > s.retention {
			delete(s.entries, k)
			pruned++
		}
	}
	return pruned
}

func (s *SnapshotStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func loadSnapshot[T any](s *SnapshotStore, source, week string) (T, bool) {
	var zero T
	v, _, ok := s.Get(source, week)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	return typed, ok
}
