package search

import (
	"sync"
	"time"
)

// Store holds the active in-memory trade dataset. One writer (the loader)
// replaces the collection wholesale; readers take an immutable snapshot, so a
// search in flight is unaffected by a concurrent reload.
type Store struct {
	mu      sync.RWMutex
	records []TradeRecord
}

func NewStore() *Store {
	return &Store{}
}

// ReplaceAll installs a new dataset, swapping the slice reference atomically
// under the lock. The previous snapshot stays valid for readers that already
// hold it.
func (s *Store) ReplaceAll(records []TradeRecord) {
	copied := make([]TradeRecord, len(records))
	copy(copied, records)

	s.mu.Lock()
	s.records = copied
	s.mu.Unlock()
}

// Snapshot returns the current dataset. Callers must not mutate it.
func (s *Store) Snapshot() []TradeRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Search filters the current snapshot by the query's keyword, filters and
// date bounds, then ranks by date. A record with an unparseable date is
// excluded whenever a date bound is set and otherwise ranks as oldest.
func (s *Store) Search(q Query, order SortOrder) []TradeRecord {
	snapshot := s.Snapshot()

	matched := make([]TradeRecord, 0, len(snapshot))
	for i := range snapshot {
		rec := &snapshot[i]
		if !Matches(rec, q.Category, q.Keyword, q.Filters) {
			continue
		}
		if !withinDateRange(rec.Date, q.DateFrom, q.DateTo) {
			continue
		}
		matched = append(matched, *rec)
	}

	return Rank(matched, order)
}

func withinDateRange(date string, from, to time.Time) bool {
	if from.IsZero() && to.IsZero() {
		return true
	}
	d := ParseDate(date)
	if d.IsZero() {
		return false
	}
	if !from.IsZero() && d.Before(from) {
		return false
	}
	if !to.IsZero() && d.After(to) {
		return false
	}
	return true
}
