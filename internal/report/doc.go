// Package report renders verification runs for people and machines.
//
// RenderText writes the human-readable report, styled with lipgloss when
// the output is a terminal. EncodeJSON writes a versioned JSON document
// whose digest is the SHA-256 of the RFC 8785 canonical form of the
// report body, so a saved report can later be checked with ValidateJSON.
package report
