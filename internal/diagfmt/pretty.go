package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/unicode/norm"

	"somc/internal/diag"
	"somc/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan, color.Bold)
	locColor     = color.New(color.FgHiBlack)
	caretColor   = color.New(color.FgRed, color.Bold)
	helpColor    = color.New(color.FgGreen)
	noteColor    = color.New(color.FgBlue)
)

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return errorColor
	case diag.SevWarning:
		return warningColor
	default:
		return infoColor
	}
}

// Pretty renders diagnostics for a terminal. It walks bag.Items() in order
// (call bag.Sort() first) and for each one prints:
//
//	<path>:<line>:<col>: SEVERITY CODE: message
//	    <source line>
//	    ^~~~~~~~ (underlining the primary span)
//	  note: ... (for each Note, at its own location)
//	  help: ... (if Help is set)
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	for _, d := range bag.Items() {
		printDiagnostic(w, d, fs, opts)
	}
}

func printDiagnostic(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	loc := formatLocation(d.Primary, fs, opts.PathMode, opts.BaseDir)
	sevStr := d.Severity.String()
	if opts.Color {
		sevStr = severityColor(d.Severity).Sprint(sevStr)
		loc = locColor.Sprint(loc)
	}
	fmt.Fprintf(w, "%s: %s %s: %s\n", loc, sevStr, d.Code.ID(), d.Message)

	if fs != nil {
		printSourceContext(w, d.Primary, fs, opts)
	}

	if opts.ShowNotes {
		for _, n := range d.Notes {
			nloc := formatLocation(n.Span, fs, opts.PathMode, opts.BaseDir)
			prefix := "note"
			if opts.Color {
				prefix = noteColor.Sprint(prefix)
			}
			fmt.Fprintf(w, "  %s: %s (%s)\n", prefix, n.Msg, nloc)
		}
	}

	if opts.ShowFixes {
		for _, f := range d.Fixes {
			fmt.Fprintf(w, "  fix: %s\n", f.Title)
		}
	}

	if opts.ShowHelp && d.Help != "" {
		help := d.Help
		if opts.Color {
			help = helpColor.Sprint(help)
		}
		fmt.Fprintf(w, "  help: %s\n", help)
	}
}

func printSourceContext(w io.Writer, span source.Span, fs *source.FileSet, opts PrettyOpts) {
	f := fs.Get(span.File)
	if f == nil {
		return
	}
	startPos, endPos := fs.Resolve(span)

	line := f.GetLine(startPos.Line)
	if line == "" {
		return
	}
	// Combining marks in the source text would otherwise desync
	// runewidth's column math from the caret underline below.
	line = norm.NFC.String(line)
	fmt.Fprintf(w, "    %s\n", line)

	underlineWidth := runewidth.StringWidth(line)
	col := int(startPos.Col) - 1
	length := 1
	if endPos.Line == startPos.Line && endPos.Col > startPos.Col {
		length = int(endPos.Col - startPos.Col)
	}
	if col < 0 {
		col = 0
	}
	if col > underlineWidth {
		col = underlineWidth
	}
	caret := strings.Repeat(" ", col) + strings.Repeat("^", length)
	if opts.Color {
		caret = caretColor.Sprint(caret)
	}
	fmt.Fprintf(w, "    %s\n", caret)
}

func formatLocation(span source.Span, fs *source.FileSet, mode PathMode, baseDir string) string {
	if fs == nil {
		return fmt.Sprintf("<file %d>:%d:%d", span.File, 0, 0)
	}
	f := fs.Get(span.File)
	path := formatPath(f, mode, baseDir)
	startPos, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", path, startPos.Line, startPos.Col)
}

func formatPath(f *source.File, mode PathMode, baseDir string) string {
	if f == nil {
		return "<unknown>"
	}
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", baseDir)
	case PathModeBasename:
		return f.FormatPath("basename", "")
	default:
		return f.FormatPath("auto", baseDir)
	}
}
