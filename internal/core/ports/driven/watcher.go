package driven

import "github.com/wWordDevw/terap-ia/internal/core/domain"

// ArchiveWatcher reports archives that are ready to be verified.
type ArchiveWatcher interface {
	// Events delivers each archive once its writes have settled.
	Events() <-chan domain.ArchiveChange

	// Errors delivers watch errors. They are not fatal.
	Errors() <-chan error

	// Close stops watching.
	Close() error
}
