// Package token is the minimal token vocabulary the embedded front end
// (internal/lex, internal/parse) needs to drive internal/resolve: just
// enough to parse spec.md §6.4's declaration shapes and the small
// expression language Scenario T1/T5/T6 exercise.
package token

import "somc/internal/source"

// Token is a single lexed unit: its category, source location, and text
// (the identifier name, or the literal's un-decoded source text).
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}
