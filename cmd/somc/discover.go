package main

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"somc/internal/ast"
	"somc/internal/diag"
	"somc/internal/lex"
	"somc/internal/parse"
	"somc/internal/project"
	"somc/internal/source"
)

// sourceExt is the only extension the directory walk treats as a source
// file; anything else under the tree (som.toml, a README, build output
// a future "somc build" might drop alongside sources) is skipped.
const sourceExt = ".som"

// discoveredFile is one *.som file found under the project root, before
// parsing: its disk path and the module path its containing directory
// implies.
type discoveredFile struct {
	diskPath   string
	modulePath []string
}

// listSourceFiles walks root for every *.som file, returning them sorted
// by disk path so module grouping and diagnostic ordering never depend
// on the filesystem's own directory-entry order.
func listSourceFiles(root string) ([]discoveredFile, error) {
	var out []discoveredFile
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, sourceExt) {
			return nil
		}
		rel, err := filepath.Rel(root, filepath.Dir(path))
		if err != nil {
			return err
		}
		out = append(out, discoveredFile{diskPath: path, modulePath: splitModulePath(rel)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].diskPath < out[j].diskPath })
	return out, nil
}

// splitModulePath turns a directory relative to the project root into a
// module path's folder-name sequence. A file sitting directly in the
// root (rel == ".") belongs to the synthetic "main" module, since
// spec.md's module path is never empty.
func splitModulePath(rel string) []string {
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == "" {
		return []string{"main"}
	}
	return strings.Split(rel, "/")
}

// parseAll parses every discovered file into the shared builder and
// returns one ast.File per input, plus a diag.Bag per file collecting
// that file's own lexical/syntax diagnostics. Loading each file's bytes
// off disk is the one stage genuinely safe to run concurrently — it
// touches nothing but the calling goroutine's own slot — so it runs
// through FileSet.LoadAll before the sequential lex/parse loop below,
// which mutates the single shared ast.Builder and so cannot be split
// across goroutines without a builder of its own per file.
func parseAll(ctx context.Context, fileSet *source.FileSet, b *ast.Builder, files []discoveredFile, maxDiagnostics, jobs int) ([]*ast.File, []*diag.Bag, error) {
	paths := make([]string, len(files))
	for i, df := range files {
		paths[i] = df.diskPath
	}
	fileIDs, err := fileSet.LoadAll(ctx, paths, jobs)
	if err != nil {
		return nil, nil, err
	}

	asts := make([]*ast.File, len(files))
	bags := make([]*diag.Bag, len(files))
	for i, df := range files {
		bag := diag.NewBag(maxDiagnostics)
		bags[i] = bag
		lx := lex.New(fileSet.Get(fileIDs[i]), diag.BagReporter{Bag: bag})
		p := parse.New(b, lx, diag.BagReporter{Bag: bag}, df.modulePath)
		f, err := p.ParseFile(df.diskPath)
		if err != nil && bag.Len() == 0 {
			return nil, nil, err
		}
		if f != nil {
			id := b.NewFile(*f)
			f = b.File(id)
		}
		asts[i] = f
	}
	return asts, bags, nil
}

// moduleMetasFromFiles derives one project.ModuleMeta per module path
// present in files: its import targets (collected from every ItemImport
// across every file in the module) and a content digest over the
// module's own files, ready for modgraph.BuildGraph and cache.Key.
func moduleMetasFromFiles(fileSet *source.FileSet, b *ast.Builder, asts []*ast.File) []project.ModuleMeta {
	byPath := make(map[string]*project.ModuleMeta)
	var order []string

	for _, f := range asts {
		if f == nil {
			continue
		}
		path := strings.Join(f.ModulePath, "/")
		meta, ok := byPath[path]
		if !ok {
			meta = &project.ModuleMeta{Name: path, Path: path, Dir: path, Span: f.Span}
			byPath[path] = meta
			order = append(order, path)
		}
		hash := project.Digest{}
		if sf, ok := fileSet.GetByPath(f.Path); ok {
			hash = project.Digest(sf.Hash)
		}
		meta.Files = append(meta.Files, project.ModuleFileMeta{Path: f.Path, Span: f.Span, Hash: hash})
		for _, itemID := range f.Items {
			item := b.Items.Get(itemID)
			if item.Kind != ast.ItemImport {
				continue
			}
			imp := b.Items.Import(itemID)
			meta.Imports = append(meta.Imports, project.ImportMeta{
				Path: strings.Join(imp.Path, "/"),
				Span: item.Span,
			})
		}
	}

	sort.Strings(order)
	out := make([]project.ModuleMeta, len(order))
	for i, path := range order {
		meta := *byPath[path]
		sort.Slice(meta.Files, func(a, c int) bool { return meta.Files[a].Path < meta.Files[c].Path })
		meta.ContentHash = combineFileHashes(meta.Files)
		out[i] = meta
	}
	return out
}

// combineFileHashes folds every file's digest (in path order, so the
// result never depends on directory-walk order) into one module-level
// content digest, the seed project.Combine's dependency fold-in uses
// once the module graph is known.
func combineFileHashes(files []project.ModuleFileMeta) project.Digest {
	if len(files) == 0 {
		return project.Digest{}
	}
	deps := make([]project.Digest, len(files)-1)
	for i, f := range files[1:] {
		deps[i] = f.Hash
	}
	return project.Combine(files[0].Hash, deps...)
}
