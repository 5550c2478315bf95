package driven

import (
	"context"

	"github.com/wWordDevw/terap-ia/internal/core/domain"
)

// NoteGenerator requests the notes for one group and week from the
// generation service and returns the unpacked archive.
type NoteGenerator interface {
	// GenerateGroupWeek triggers generation and downloads the archive.
	// Failures are reported as *domain.RetrievalError.
	GenerateGroupWeek(ctx context.Context, groupID, weekID string) (*domain.DocumentBatch, error)
}

// BatchLoader builds a batch from files already on disk.
// Each path is either a zip archive or a single .docx document.
type BatchLoader interface {
	Load(ctx context.Context, paths []string) (*domain.DocumentBatch, error)
}
