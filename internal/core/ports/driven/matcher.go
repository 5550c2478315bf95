package driven

import "github.com/wWordDevw/terap-ia/internal/core/domain"

// MarkerMatcher finds goal markers and client-response labels in text.
type MarkerMatcher interface {
	// Match never fails: missing markers are reported as not found.
	Match(text string) domain.MarkerSet
}
