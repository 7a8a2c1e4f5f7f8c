package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto chooses relative or absolute path automatically.
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color       bool
	Context     int8 // not read by Pretty, which prints only the primary span's own line
	PathMode    PathMode
	BaseDir     string
	Width       uint8 // not read by Pretty; notes and help text are never wrapped
	ShowNotes   bool
	ShowHelp    bool
	ShowFixes   bool
	ShowPreview bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // add line/col alongside byte offsets
	PathMode         PathMode
	BaseDir          string
	Max              int // truncate output, independent of the Bag's own cap
	IncludeNotes     bool
	IncludeFixes     bool
	IncludePreviews  bool
}
