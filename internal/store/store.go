// Package store holds the in-memory, process-wide cup state record.
//
// Writers never mutate the published record: every update copies it,
// applies the change and swaps the copy in, so readers always observe a
// complete record.
package store

import (
	"sync"

	"cup_controller/internal/models"
)

// DefaultHistoryLimit is the number of command attempts kept in memory.
const DefaultHistoryLimit = 100

// Listener is notified with a snapshot after every change.
type Listener func(models.StateData)

// Store is the shared state record. The zero value is not usable; call New.
type Store struct {
	mu        sync.RWMutex
	state     models.StateData
	limit     int
	listeners []Listener
}

// New returns a store with CurrentState unknown and no execution.
// limit <= 0 selects DefaultHistoryLimit.
func New(limit int) *Store {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &Store{
		state: models.StateData{CurrentState: models.CupUnknown},
		limit: limit,
	}
}

// Snapshot returns a deep copy of the current record.
func (s *Store) Snapshot() models.StateData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Update applies fn to a copy of the record and publishes the copy.
func (s *Store) Update(fn func(*models.StateData)) {
	s.mu.Lock()
	next := s.state.Clone()
	fn(&next)
	s.state = next
	snap := next.Clone()
	listeners := s.listeners
	s.mu.Unlock()

	notify(listeners, snap)
}

// AddHistory appends entry, evicting the oldest entries beyond the limit.
func (s *Store) AddHistory(entry models.HistoryEntry) {
	s.Update(func(st *models.StateData) {
		st.History = append(st.History, entry)
		st.HistorySeq++
		if over := len(st.History) - s.limit; over > 0 {
			st.History = append([]models.HistoryEntry(nil), st.History[over:]...)
		}
	})
}

// ClearHistory drops all history entries.
func (s *Store) ClearHistory() {
	s.Update(func(st *models.StateData) {
		st.History = nil
	})
}

// RecentHistory returns at most n of the newest entries, oldest first.
func (s *Store) RecentHistory(n int) []models.HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h := s.state.History
	if n >= 0 && len(h) > n {
		h = h[len(h)-n:]
	}
	out := make([]models.HistoryEntry, len(h))
	copy(out, h)
	return out
}

// Subscribe registers l for change notifications. Listeners run
// synchronously on the writer's goroutine and must not call Update.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

func notify(listeners []Listener, snap models.StateData) {
	for _, l := range listeners {
		l(snap)
	}
}
