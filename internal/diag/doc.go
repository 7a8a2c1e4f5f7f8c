// Package diag defines the diagnostic model shared by the front end and the
// resolver passes.
//
// # Purpose
//
//   - Provide deterministic, serialisable data structures that capture
//     findings produced by the lexer, parser, and resolution passes.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//   - Model fix suggestions as structured edits a caller can materialise and
//     optionally apply.
//
// # Scope
//
// Package diag does not perform any formatting, IO, or CLI integration.
// Rendering lives in internal/diagfmt; orchestration across modules and
// files lives in internal/resolve and cmd/somc.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with a stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the canonical source.Span pointing to the issue.
//   - Origin – module path, file name, and declaration order, used to sort
//     diagnostics independently of pass scheduling.
//   - Notes – optional secondary spans/messages for additional context.
//   - Fixes – optional Fix records describing how to address the problem.
//
// Notes should be used sparingly: each note must add new context (e.g.
// "previous declaration here") rather than repeating the diagnostic message.
//
// # Emitting diagnostics
//
// Passes use a diag.Reporter to decouple emission from storage. A pass
// constructs a ReportBuilder via NewReportBuilder (or the helpers
// ReportError/ReportWarning/ReportInfo) and chains WithNote/WithHelp/
// WithOrigin/WithFix before calling Emit.
//
// When no additional metadata is needed, a pass may call Reporter.Report(...)
// directly. diag.BagReporter aggregates diagnostics into a Bag, which
// supports sorting, deduplication, and merging across modules.
//
// # Consumers
//
//   - internal/diagfmt: renders Diagnostics for a terminal or as JSON.
//   - internal/resolve: the primary producer, one Reporter per run.
//   - cmd/somc: wires a Bag through a BagReporter and decides the process
//     exit code from Bag.HasErrors.
package diag
