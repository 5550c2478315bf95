// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - NoteGenerator: Asks the generation service for a group-week archive
//   - BatchLoader: Reads an archive or loose documents from local disk
//   - TextExtractor: Turns one document into plain text
//   - ExtractorSelector: Picks a text extraction strategy once per run
//   - MarkerMatcher: Finds goal checkboxes and client-response labels in text
//   - ConfigStore: Application configuration
//   - HistoryStore: Past verification runs
//   - ArchiveWatcher: Archives appearing in a watched directory
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, extractor, or matcher package
package driven
