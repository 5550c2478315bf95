package services

import (
	"context"
	"fmt"

	"github.com/wWordDevw/terap-ia/internal/core/domain"
	"github.com/wWordDevw/terap-ia/internal/core/ports/driven"
	"github.com/wWordDevw/terap-ia/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService records finished runs in a HistoryStore.
type HistoryService struct {
	store driven.HistoryStore
}

// NewHistoryService creates a new history service.
func NewHistoryService(store driven.HistoryStore) *HistoryService {
	return &HistoryService{store: store}
}

// Record stores a finished run.
func (s *HistoryService) Record(ctx context.Context, report *domain.RunReport, document []byte, digest string) error {
	if report == nil || report.RunID == "" {
		return fmt.Errorf("%w: report has no run id", domain.ErrInvalidInput)
	}
	if len(document) == 0 {
		return fmt.Errorf("%w: empty report document", domain.ErrInvalidInput)
	}

	record := domain.RunRecord{
		RunID:       report.RunID,
		GroupID:     report.GroupID,
		WeekID:      report.WeekID,
		Source:      report.Source,
		Strategy:    report.Strategy,
		GeneratedAt: report.GeneratedAt,
		Summary:     report.Summary(),
		Digest:      digest,
		Document:    document,
	}
	if err := s.store.Save(ctx, record); err != nil {
		return fmt.Errorf("record run %s: %w", report.RunID, err)
	}
	return nil
}

// List returns recorded runs, newest first.
func (s *HistoryService) List(ctx context.Context, filter domain.HistoryFilter) ([]domain.RunRecord, error) {
	if filter.Limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", domain.ErrInvalidInput)
	}
	if filter.Limit == 0 {
		filter.Limit = domain.DefaultHistoryLimit
	}
	return s.store.List(ctx, filter)
}

// Get returns one recorded run.
func (s *HistoryService) Get(ctx context.Context, runID string) (*domain.RunRecord, error) {
	if runID == "" {
		return nil, fmt.Errorf("%w: run id is empty", domain.ErrInvalidInput)
	}
	return s.store.Get(ctx, runID)
}
