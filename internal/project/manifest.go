package project

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrPackageSectionMissing indicates a som.toml with no [package] table.
var ErrPackageSectionMissing = errors.New("missing [package]")

// AnalyzerOptions is the som.toml [analyzer] table: knobs cmd/somc's
// analyze command reads before building the module graph.
type AnalyzerOptions struct {
	// WarnUnusedPrivate toggles Pass 4's advisory lint. Defaults to true
	// when the table (or the key) is absent.
	WarnUnusedPrivate bool
}

// Manifest is a parsed som.toml: the project's name and entry module,
// plus analyzer configuration. Module dependency management (fetching
// other packages) is out of scope — see DESIGN.md.
type Manifest struct {
	Name     string
	Entry    string // parsed from [package] entry; somc analyze does not read it and analyzes every module under the tree root
	Analyzer AnalyzerOptions
}

type manifestFile struct {
	Package struct {
		Name  string `toml:"name"`
		Entry string `toml:"entry"`
	} `toml:"package"`
	Analyzer struct {
		WarnUnusedPrivate *bool `toml:"warn_unused_private"`
	} `toml:"analyzer"`
}

// LoadManifest parses a project's som.toml [package]/[analyzer] tables.
func LoadManifest(path string) (Manifest, error) {
	var cfg manifestFile
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Manifest{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return Manifest{}, fmt.Errorf("%s: %w", path, ErrPackageSectionMissing)
	}

	m := Manifest{
		Name:     strings.TrimSpace(cfg.Package.Name),
		Entry:    strings.TrimSpace(cfg.Package.Entry),
		Analyzer: AnalyzerOptions{WarnUnusedPrivate: true},
	}
	if cfg.Analyzer.WarnUnusedPrivate != nil {
		m.Analyzer.WarnUnusedPrivate = *cfg.Analyzer.WarnUnusedPrivate
	}
	return m, nil
}
