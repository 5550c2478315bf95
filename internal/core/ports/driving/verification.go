package driving

import (
	"context"

	"github.com/wWordDevw/terap-ia/internal/core/domain"
)

// VerificationService runs goal selection checks over generated notes.
type VerificationService interface {
	// Verify generates the notes for a group and week, then checks them.
	// A *domain.RetrievalError aborts the run; per-document failures are
	// recorded as unverifiable days in the report.
	Verify(ctx context.Context, groupID, weekID string) (*domain.RunReport, error)

	// Analyze checks documents that are already on disk.
	Analyze(ctx context.Context, paths []string) (*domain.RunReport, error)

	// VerifyBatch checks an already retrieved batch.
	VerifyBatch(ctx context.Context, batch *domain.DocumentBatch) (*domain.RunReport, error)
}
