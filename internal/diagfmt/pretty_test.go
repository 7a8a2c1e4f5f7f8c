package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"somc/internal/diag"
	"somc/internal/source"
)

func TestPrettyPathModes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("type Pair = struct { left: int, right: int }\n")
	fileID := fs.AddVirtual("/home/user/project/mods/geom/pair.som", content)
	fs.SetBaseDir("/home/user/project")

	bag := diag.NewBag(10)
	bag.Add(diag.New(
		diag.SevError,
		diag.ResDuplicateTopLevelName,
		source.Span{File: fileID, Start: 5, End: 9},
		"duplicate top-level name 'Pair'",
	))

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"absolute", PathModeAbsolute, "/home/user/project/mods/geom/pair.som"},
		{"relative", PathModeRelative, "mods/geom/pair.som"},
		{"basename", PathModeBasename, "pair.som"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			opts := PrettyOpts{Color: false, Context: 1, PathMode: tt.mode, BaseDir: "/home/user/project"}

			Pretty(&buf, bag, fs, opts)
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "ERROR") {
				t.Error("expected ERROR in output")
			}
			if !strings.Contains(output, "RES3001") {
				t.Error("expected RES3001 code in output")
			}
		})
	}
}

func TestPrettyShowsCaretUnderPrimarySpan(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("let total = a + b\n")
	fileID := fs.AddVirtual("calc.som", content)

	bag := diag.NewBag(10)
	bag.Add(diag.New(
		diag.SevError,
		diag.ResUndefinedName,
		source.Span{File: fileID, Start: 12, End: 13},
		"undefined name 'a'",
	))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{ShowNotes: true, ShowHelp: true})
	output := buf.String()

	if !strings.Contains(output, "^") {
		t.Errorf("expected a caret underline, got:\n%s", output)
	}
}

func TestJSONRoundTripsDiagnosticFields(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("pair.som", []byte("type Pair = struct { left: int }\n"))

	bag := diag.NewBag(10)
	bag.Add(diag.New(
		diag.SevWarning,
		diag.ResUnusedPrivate,
		source.Span{File: fileID, Start: 0, End: 4},
		"private binding 'Pair' is never used",
	).WithOrigin(diag.Origin{ModulePath: "geom", FileName: "pair.som"}))

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true}); err != nil {
		t.Fatalf("JSON returned error: %v", err)
	}

	output := buf.String()
	for _, want := range []string{"\"warning\"", "\"RES3008\"", "\"module_path\": \"geom\""} {
		if !strings.Contains(strings.ToLower(output), strings.ToLower(want)) {
			t.Errorf("expected JSON output to contain %q, got:\n%s", want, output)
		}
	}
}
