package store

import (
	"sync"
	"time"

	"econcal/pkg/contracts/domain"
)

// QuoteStatus summarizes the stored quote batch.
type QuoteStatus struct {
	Total        int
	ReportDate   *time.Time
	LastReceived *time.Time
}

// QuoteStore holds the last received quote batch in memory.
type QuoteStore struct {
	mu    sync.RWMutex
	batch domain.QuoteBatch
	now   func() time.Time
}

// NewQuoteStore creates an empty quote store. A nil clock uses time.Now.
func NewQuoteStore(now func() time.Time) *QuoteStore {
	if now == nil {
		now = time.Now
	}
	return &QuoteStore{now: now}
}

// Replace stores items and their derived report date in place of the
// current batch and stamps the receive time in UTC, truncated to seconds.
func (s *QuoteStore) Replace(items []domain.QuoteItem, report *time.Time) domain.QuoteBatch {
	batch := domain.QuoteBatch{
		Items:      append([]domain.QuoteItem(nil), items...),
		ReceivedAt: s.now().UTC().Truncate(time.Second),
	}
	if report != nil {
		d := *report
		batch.ReportDate = &d
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.batch = batch
	return batch
}

// Snapshot returns a copy of the stored batch.
func (s *QuoteStore) Snapshot() domain.QuoteBatch {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.batch
	out.Items = append([]domain.QuoteItem(nil), s.batch.Items...)
	return out
}

// Status reports the batch size, report date and receive time.
func (s *QuoteStore) Status() QuoteStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := QuoteStatus{Total: len(s.batch.Items), ReportDate: s.batch.ReportDate}
	if !s.batch.ReceivedAt.IsZero() {
		t := s.batch.ReceivedAt
		st.LastReceived = &t
	}
	return st
}

// Clear drops the stored batch.
func (s *QuoteStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.batch = domain.QuoteBatch{}
}
