package diag

import (
	"somc/internal/source"
)

// Note attaches a secondary span and caption to a Diagnostic — e.g. "previous
// declaration here" pointing at an earlier binding.
type Note struct {
	Span source.Span
	Msg  string
}

// FixEdit is a single textual replacement a fix would apply.
type FixEdit struct {
	Span    source.Span
	NewText string
}

// Fix is a structured, data-only suggestion; producers never apply it
// themselves (rendering/applying is an ambient CLI concern).
type Fix struct {
	Title string
	Edits []FixEdit
}

// Origin records where in the module tree a Diagnostic was raised: its
// module path, source file, and declaration order within that file. Sorting
// on these fields gives a rendering order that depends only on the module
// graph's shape, never on map iteration or goroutine scheduling.
type Origin struct {
	ModulePath string // dotted/slashed module path, e.g. "std/io"
	FileName   string
	Seq        int // declaration order within the file, 0-based
}

// Diagnostic is the structured error/warning record the core emits. Spans
// point into the untyped AST's source; rendering is out of scope for the
// core (internal/diagfmt renders these for a human).
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Origin   Origin
	Notes    []Note
	Fixes    []Fix
	Help     string
}
