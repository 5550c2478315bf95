package driven

import (
	"context"

	"github.com/wWordDevw/terap-ia/internal/core/domain"
)

// TextExtractor turns a document into plain text.
type TextExtractor interface {
	// Name identifies the strategy (e.g. "structured").
	Name() string

	// Priority returns the selection priority (higher = preferred).
	// Model-based strategies return 50-89.
	// Fallback strategies return 1-9.
	Priority() int

	// Probe checks that the strategy works in this environment by
	// extracting a known document.
	Probe(ctx context.Context) error

	// Extract returns the document text. Paragraphs are separated by
	// newlines. Failures are reported as *domain.ExtractionError.
	Extract(ctx context.Context, member domain.BatchMember) (string, error)
}

// ExtractorSelector chooses one extractor for a whole run.
type ExtractorSelector interface {
	// Select returns the extractor for strategy. ExtractionAuto picks
	// the highest priority extractor whose probe succeeds.
	Select(ctx context.Context, strategy domain.ExtractionStrategy) (TextExtractor, error)
}
