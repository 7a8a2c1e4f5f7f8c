package diag

import "somc/internal/source"

// Reporter is the minimal contract passes use to emit diagnostics.
// Implementations: BagReporter (collects into a Bag), NopReporter,
// a fan-out MultiReporter, and DedupReporter (dedup_reporter.go).
type Reporter interface {
	Report(d Diagnostic)
}

// ReportBuilder accumulates diagnostic details before emitting to a Reporter.
type ReportBuilder struct {
	reporter Reporter
	diag     Diagnostic
	emitted  bool
}

// NewReportBuilder constructs a builder bound to a Reporter.
func NewReportBuilder(r Reporter, sev Severity, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{
		reporter: r,
		diag: Diagnostic{
			Severity: sev,
			Code:     code,
			Message:  msg,
			Primary:  primary,
		},
	}
}

// ReportError is a shortcut for SevError diagnostics.
func ReportError(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevError, code, primary, msg)
}

// ReportWarning is a shortcut for SevWarning diagnostics.
func ReportWarning(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevWarning, code, primary, msg)
}

// ReportInfo is a shortcut for SevInfo diagnostics.
func ReportInfo(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevInfo, code, primary, msg)
}

// WithNote appends a note to the diagnostic being built.
func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Notes = append(b.diag.Notes, Note{Span: sp, Msg: msg})
	return b
}

// WithHelp attaches a one-line suggestion shown beneath the diagnostic.
func (b *ReportBuilder) WithHelp(msg string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Help = msg
	return b
}

// WithOrigin records the module/file/declaration-order coordinates a Bag
// sorts on, so diagnostics render in a stable order regardless of pass
// scheduling.
func (b *ReportBuilder) WithOrigin(o Origin) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Origin = o
	return b
}

// WithFix appends a ready-to-use fix suggestion.
func (b *ReportBuilder) WithFix(title string, edits ...FixEdit) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag = b.diag.WithFix(title, edits...)
	return b
}

// Emit sends the diagnostic to the underlying reporter exactly once.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	if b.reporter != nil {
		b.reporter.Report(b.diag)
	}
	b.emitted = true
}

// Diagnostic returns the accumulated diagnostic without emitting it.
func (b *ReportBuilder) Diagnostic() Diagnostic {
	if b == nil {
		return Diagnostic{}
	}
	return b.diag
}

// BagReporter is an adapter that writes into a *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(d)
}

// NopReporter discards every diagnostic. Useful for speculative lookups
// (e.g. the resolver probing whether a name would resolve) that must not
// surface errors to the user.
type NopReporter struct{}

func (NopReporter) Report(Diagnostic) {}

// MultiReporter fans a diagnostic out to every wrapped Reporter — e.g. a Bag
// for later sorting plus a second Reporter; nil entries are skipped.
type MultiReporter struct{ Reporters []Reporter }

func (m MultiReporter) Report(d Diagnostic) {
	for _, r := range m.Reporters {
		if r != nil {
			r.Report(d)
		}
	}
}
