package ast

import "somc/internal/source"

// File is one parsed source file. ModulePath is the folder-derived path
// used for module-level visibility and registry lookups; Items are in
// declaration order, which Origin.Seq (internal/diag) numbers against.
type File struct {
	ID         FileID
	Path       string
	ModulePath []string
	Span       source.Span
	Items      []ItemID
}
