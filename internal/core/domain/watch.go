package domain

import "time"

// ArchiveOp is the kind of change that made an archive ready.
type ArchiveOp int

const (
	// ArchiveCreated indicates a new archive.
	ArchiveCreated ArchiveOp = iota
	// ArchiveWritten indicates an existing archive was rewritten.
	ArchiveWritten
)

// String returns a human-readable representation of the operation.
func (op ArchiveOp) String() string {
	switch op {
	case ArchiveCreated:
		return "created"
	case ArchiveWritten:
		return "written"
	default:
		return "unknown"
	}
}

// ArchiveChange is an archive whose writes have settled.
type ArchiveChange struct {
	Path string
	Op   ArchiveOp
	At   time.Time
}
