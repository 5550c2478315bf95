package driven

import (
	"context"

	"github.com/wWordDevw/terap-ia/internal/core/domain"
)

// HistoryStore persists completed verification runs.
type HistoryStore interface {
	// Save stores a run, replacing any run with the same ID.
	Save(ctx context.Context, record domain.RunRecord) error

	// List returns matching runs, newest first, without their documents.
	List(ctx context.Context, filter domain.HistoryFilter) ([]domain.RunRecord, error)

	// Get returns one run with its document. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, runID string) (*domain.RunRecord, error)
}
