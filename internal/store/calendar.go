package store

import (
	"sync"
	"time"

	"econcal/pkg/contracts/domain"
)

// CalendarStore holds the last received calendar split in memory.
// Every receive replaces the previous data wholesale.
type CalendarStore struct {
	mu       sync.RWMutex
	split    domain.CalendarSplit
	received time.Time
	now      func() time.Time
}

// NewCalendarStore creates an empty calendar store. A nil clock uses time.Now.
func NewCalendarStore(now func() time.Time) *CalendarStore {
	if now == nil {
		now = time.Now
	}
	return &CalendarStore{now: now}
}

// Replace stores split in place of the current data.
func (s *CalendarStore) Replace(split domain.CalendarSplit) {
	split = cloneSplit(split)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.split = split
	s.received = s.now().UTC()
}

// Snapshot returns a copy of the stored split.
func (s *CalendarStore) Snapshot() domain.CalendarSplit {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneSplit(s.split)
}

// Counts returns the size of every bucket.
func (s *CalendarStore) Counts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.split.Counts()
}

// LastReceived returns when data was last stored, or the zero time.
func (s *CalendarStore) LastReceived() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.received
}

// Clear empties every bucket.
func (s *CalendarStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.split = domain.CalendarSplit{}
	s.received = time.Time{}
}

func cloneSplit(in domain.CalendarSplit) domain.CalendarSplit {
	return domain.CalendarSplit{
		WorkEN:     cloneRecords(in.WorkEN),
		WorkRU:     cloneRecords(in.WorkRU),
		HolidaysEN: cloneRecords(in.HolidaysEN),
		HolidaysRU: cloneRecords(in.HolidaysRU),
	}
}

func cloneRecords(in []domain.Record) []domain.Record {
	if in == nil {
		return nil
	}
	out := make([]domain.Record, len(in))
	copy(out, in)
	return out
}
