// Package markers finds goal checkboxes and client-response labels in
// the text of a generated note.
//
// Each marker kind is matched by an ordered list of rules; the first
// rule that matches wins. Absence is reported as data, never as an error.
package markers
