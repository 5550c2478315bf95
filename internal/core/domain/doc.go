// Package domain defines the core entities of the note verifier.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - WeekDay: A Monday-to-Friday business day and its selection policy
//   - DayCode: The MMDD token embedded in a generated document's name
//   - DocumentBatch: The archive returned by the generation service
//   - MarkerSet: Goal checkboxes and client-response labels found in a document
//   - VerificationReport: The verdict for one sampled day
//   - RunReport: The aggregate of one verification run
//   - RunRecord: A finished run kept in the run history
//   - ArchiveChange: An archive that appeared in a watched directory
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
