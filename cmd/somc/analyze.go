package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"somc/internal/ast"
	"somc/internal/cache"
	"somc/internal/diag"
	"somc/internal/diagfmt"
	"somc/internal/modgraph"
	"somc/internal/obslog"
	"somc/internal/project"
	"somc/internal/resolve"
	"somc/internal/source"
)

var (
	analyzeFormat         string
	analyzeMaxDiagnostics int
	analyzeCacheDir       string
	analyzeNoCache        bool
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "pretty", "diagnostic output format (pretty|json)")
	analyzeCmd.Flags().IntVar(&analyzeMaxDiagnostics, "max-diagnostics", 200, "maximum diagnostics collected per file")
	analyzeCmd.Flags().StringVar(&analyzeCacheDir, "cache-dir", "", "directory for the sealed-registry disk cache (empty disables disk caching)")
	analyzeCmd.Flags().BoolVar(&analyzeNoCache, "no-cache", false, "skip the disk cache even if --cache-dir is set")
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <dir>",
	Short: "Run the three-pass semantic analyzer over every module under <dir>",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	root, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving %q: %w", args[0], err)
	}
	logger := obslog.FromContext(cmd.Context())

	manifest := project.Manifest{Analyzer: project.AnalyzerOptions{WarnUnusedPrivate: true}}
	if manifestPath, ok, err := project.FindManifest(root); err != nil {
		return err
	} else if ok {
		manifest, err = project.LoadManifest(manifestPath)
		if err != nil {
			return err
		}
	}

	walkSpan := logger.Begin(obslog.ScopePass, "discover")
	files, err := listSourceFiles(root)
	if err != nil {
		return fmt.Errorf("walking %s: %w", root, err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no %s files found under %s", sourceExt, root)
	}
	walkSpan.End(fmt.Sprintf("%d files", len(files)))

	fileSet := source.NewFileSetWithBase(root)
	b := ast.NewBuilder(0)

	parseSpan := logger.Begin(obslog.ScopePass, "parse")
	asts, bags, err := parseAll(cmd.Context(), fileSet, b, files, analyzeMaxDiagnostics, 0)
	if err != nil {
		return err
	}
	combined := diag.NewBag(analyzeMaxDiagnostics)
	for _, bag := range bags {
		combined.Merge(bag)
	}
	parseSpan.End(fmt.Sprintf("%d files", len(asts)))

	if combined.HasErrors() {
		combined.Sort()
		renderDiagnostics(cmd, combined, fileSet)
		return fmt.Errorf("parsing failed")
	}

	graphSpan := logger.Begin(obslog.ScopePass, "module graph")
	metas := moduleMetasFromFiles(fileSet, b, asts)
	idx := modgraph.BuildIndex(metas)
	nodes := make([]modgraph.ModuleNode, len(metas))
	for i, m := range metas {
		nodes[i] = modgraph.ModuleNode{Meta: m, Reporter: diag.BagReporter{Bag: combined}}
	}
	graph, slots := modgraph.BuildGraph(idx, nodes)
	topo := modgraph.ToposortKahn(graph)
	modgraph.ReportCycles(idx, slots, *topo)
	moduleHashes := computeModuleHashes(idx, graph, *topo, slots)
	graphSpan.End(fmt.Sprintf("%d modules", len(metas)))

	if combined.HasErrors() {
		combined.Sort()
		renderDiagnostics(cmd, combined, fileSet)
		return fmt.Errorf("module graph construction failed")
	}

	var diskCache *cache.Disk
	var key project.Digest
	if analyzeCacheDir != "" && !analyzeNoCache {
		diskCache, err = cache.Open(analyzeCacheDir)
		if err != nil {
			return fmt.Errorf("opening cache dir %s: %w", analyzeCacheDir, err)
		}
		key = cacheKeyFor(moduleHashes)
		if payload, ok, err := diskCache.Get(key); err == nil && ok {
			if result, err := cache.FromPayload(payload); err == nil {
				logger.Printf(obslog.ScopePass, "cache hit for key %x, skipping the resolver", key[:8])
				return reportResultAndExit(cmd, result, combined, fileSet, manifest)
			}
		}
	}

	nonNil := make([]*ast.File, 0, len(asts))
	for _, f := range asts {
		if f != nil {
			nonNil = append(nonNil, f)
		}
	}
	modules := resolve.GroupFiles(nonNil)

	resolveSpan := logger.Begin(obslog.ScopePass, "resolve")
	r := resolve.New(b, diag.BagReporter{Bag: combined})
	result, err := r.Run(cmd.Context(), modules)
	resolveSpan.End(fmt.Sprintf("%d modules", len(modules)))
	if err != nil {
		combined.Sort()
		renderDiagnostics(cmd, combined, fileSet)
		return err
	}

	if diskCache != nil {
		if payload, err := cache.ToPayload(result); err == nil {
			if err := diskCache.Put(key, payload); err != nil {
				logger.Printf(obslog.ScopePass, "cache write failed: %v", err)
			}
		}
	}

	return reportResultAndExit(cmd, result, combined, fileSet, manifest)
}

// reportResultAndExit filters Pass 4's advisory lint per the manifest,
// renders whatever diagnostics remain, and turns a blocking-severity bag
// into a non-zero exit without panicking the process.
func reportResultAndExit(cmd *cobra.Command, result resolve.Result, bag *diag.Bag, fileSet *source.FileSet, manifest project.Manifest) error {
	logger := obslog.FromContext(cmd.Context())
	logger.Printf(obslog.ScopePass, "sealed registry covers %d modules", len(result.Registry.Modules()))
	if !manifest.Analyzer.WarnUnusedPrivate {
		bag = filterCode(bag, diag.ResUnusedPrivate)
	}
	bag.Sort()
	bag.Dedup()
	renderDiagnostics(cmd, bag, fileSet)
	if bag.HasErrors() {
		return fmt.Errorf("analysis found errors")
	}
	return nil
}

// filterCode copies every diagnostic in src except those matching code,
// preserving the cap the original bag was constructed with.
func filterCode(src *diag.Bag, code diag.Code) *diag.Bag {
	out := diag.NewBag(int(src.Cap()))
	for _, d := range src.Items() {
		if d.Code != code {
			out.Add(d)
		}
	}
	return out
}

func renderDiagnostics(cmd *cobra.Command, bag *diag.Bag, fileSet *source.FileSet) {
	switch analyzeFormat {
	case "json":
		_ = diagfmt.JSON(cmd.OutOrStdout(), bag, fileSet, diagfmt.JSONOpts{IncludePositions: true, IncludeNotes: true, IncludeFixes: true})
	default:
		colorFlag, _ := cmd.Root().PersistentFlags().GetString("color")
		useColor := colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout))
		diagfmt.Pretty(cmd.OutOrStdout(), bag, fileSet, diagfmt.PrettyOpts{
			Color:     useColor,
			Context:   1,
			PathMode:  diagfmt.PathModeRelative,
			ShowNotes: true,
			ShowHelp:  true,
		})
	}
}

// computeModuleHashes folds each module's own content digest together
// with its dependencies' digests, processing modgraph's topological
// order back to front: BuildGraph's edges run importer -> imported, so
// Kahn's Order lists importers before the modules they depend on: the
// reverse of what a bottom-up hash fold needs. A module with no
// dependencies keeps its own content hash unchanged. Modules caught in a
// cycle (absent from Order) fall back to their own content hash, since
// there is no acyclic dependency order to fold over.
func computeModuleHashes(idx modgraph.ModuleIndex, graph modgraph.Graph, topo modgraph.Topo, slots []modgraph.ModuleSlot) map[string]project.Digest {
	hashes := make(map[string]project.Digest, len(idx.IDToName))
	for i, name := range idx.IDToName {
		hashes[name] = slots[i].Meta.ContentHash
	}

	for i := len(topo.Order) - 1; i >= 0; i-- {
		id := topo.Order[i]
		name := idx.IDToName[int(id)]
		deps := graph.Edges[int(id)]
		if len(deps) == 0 {
			continue
		}
		depHashes := make([]project.Digest, len(deps))
		for j, dep := range deps {
			depHashes[j] = hashes[idx.IDToName[int(dep)]]
		}
		hashes[name] = project.Combine(hashes[name], depHashes...)
	}

	for _, id := range topo.Cycles {
		name := idx.IDToName[int(id)]
		hashes[name] = slots[int(id)].Meta.ContentHash
	}
	return hashes
}

// cacheKeyFor combines every module's digest in module-path order, so the
// key never depends on map iteration order.
func cacheKeyFor(moduleHashes map[string]project.Digest) project.Digest {
	names := make([]string, 0, len(moduleHashes))
	for name := range moduleHashes {
		names = append(names, name)
	}
	sort.Strings(names)
	ordered := make([]project.Digest, len(names))
	for i, name := range names {
		ordered[i] = moduleHashes[name]
	}
	return cache.Key(ordered)
}
