package driving

import (
	"context"

	"github.com/wWordDevw/terap-ia/internal/core/domain"
)

// HistoryService records and looks up past verification runs.
type HistoryService interface {
	// Record stores a finished run with its JSON document and digest.
	Record(ctx context.Context, report *domain.RunReport, document []byte, digest string) error

	// List returns recorded runs, newest first.
	List(ctx context.Context, filter domain.HistoryFilter) ([]domain.RunRecord, error)

	// Get returns one recorded run with its document.
	Get(ctx context.Context, runID string) (*domain.RunRecord, error)
}
