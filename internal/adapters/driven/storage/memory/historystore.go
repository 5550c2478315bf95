package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/wWordDevw/terap-ia/internal/core/domain"
	"github.com/wWordDevw/terap-ia/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.HistoryStore = (*HistoryStore)(nil)

// HistoryStore is an in-memory implementation of driven.HistoryStore.
type HistoryStore struct {
	mu   sync.RWMutex
	runs map[string]storedRun
	seq  int
}

type storedRun struct {
	record domain.RunRecord
	seq    int
}

// NewHistoryStore creates a new in-memory history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{
		runs: make(map[string]storedRun),
	}
}

// Save stores or replaces a run.
func (s *HistoryStore) Save(_ context.Context, record domain.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	record.Document = append([]byte(nil), record.Document...)
	s.runs[record.RunID] = storedRun{record: record, seq: s.seq}
	return nil
}

// List returns matching runs, newest first, without documents.
func (s *HistoryStore) List(_ context.Context, filter domain.HistoryFilter) ([]domain.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]storedRun, 0, len(s.runs))
	for _, run := range s.runs {
		if filter.GroupID != "" && run.record.GroupID != filter.GroupID {
			continue
		}
		if filter.WeekID != "" && run.record.WeekID != filter.WeekID {
			continue
		}
		matched = append(matched, run)
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.record.GeneratedAt.Equal(b.record.GeneratedAt) {
			return a.record.GeneratedAt.After(b.record.GeneratedAt)
		}
		return a.seq > b.seq
	})
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}

	result := make([]domain.RunRecord, 0, len(matched))
	for _, run := range matched {
		record := run.record
		record.Document = nil
		result = append(result, record)
	}
	return result, nil
}

// Get retrieves a run by ID.
func (s *HistoryStore) Get(_ context.Context, runID string) (*domain.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[runID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	record := run.record
	record.Document = append([]byte(nil), record.Document...)
	return &record, nil
}
