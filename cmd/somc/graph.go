package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"somc/internal/ast"
	"somc/internal/diag"
	"somc/internal/diagfmt"
	"somc/internal/modgraph"
	"somc/internal/source"
)

var graphFormat string

func init() {
	graphCmd.Flags().StringVar(&graphFormat, "format", "text", "output format (text|json)")
}

var graphCmd = &cobra.Command{
	Use:   "graph <dir>",
	Short: "Print the module import graph under <dir>, batched into topological layers",
	Args:  cobra.ExactArgs(1),
	RunE:  runGraph,
}

type graphModule struct {
	Path    string   `json:"path"`
	Imports []string `json:"imports"`
}

type graphPayload struct {
	Modules []graphModule `json:"modules"`
	Batches [][]string    `json:"batches"`
	Cycles  []string      `json:"cycles,omitempty"`
}

func runGraph(cmd *cobra.Command, args []string) error {
	root, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving %q: %w", args[0], err)
	}

	files, err := listSourceFiles(root)
	if err != nil {
		return fmt.Errorf("walking %s: %w", root, err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no %s files found under %s", sourceExt, root)
	}

	fileSet := source.NewFileSetWithBase(root)
	b := ast.NewBuilder(0)
	bag := diag.NewBag(200)

	asts, bags, err := parseAll(cmd.Context(), fileSet, b, files, 200, 0)
	if err != nil {
		return err
	}
	for _, bg := range bags {
		bag.Merge(bg)
	}
	if bag.HasErrors() {
		bag.Sort()
		diagfmt.Pretty(cmd.OutOrStdout(), bag, fileSet, diagfmt.PrettyOpts{PathMode: diagfmt.PathModeRelative, Context: 1, ShowNotes: true})
		return fmt.Errorf("parsing failed")
	}

	metas := moduleMetasFromFiles(fileSet, b, asts)
	idx := modgraph.BuildIndex(metas)
	nodes := make([]modgraph.ModuleNode, len(metas))
	for i, m := range metas {
		nodes[i] = modgraph.ModuleNode{Meta: m, Reporter: diag.BagReporter{Bag: bag}}
	}
	g, _ := modgraph.BuildGraph(idx, nodes)
	topo := modgraph.ToposortKahn(g)

	switch graphFormat {
	case "json":
		return renderGraphJSON(cmd, idx, g, topo)
	case "text":
		renderGraphText(cmd, idx, g, topo)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (must be text or json)", graphFormat)
	}
}

func renderGraphText(cmd *cobra.Command, idx modgraph.ModuleIndex, g modgraph.Graph, topo *modgraph.Topo) {
	out := cmd.OutOrStdout()
	for i, batch := range topo.Batches {
		names := make([]string, len(batch))
		for j, id := range batch {
			names[j] = idx.IDToName[int(id)]
		}
		fmt.Fprintf(out, "layer %d: %s\n", i, strings.Join(names, ", "))
	}
	if topo.Cyclic {
		names := make([]string, len(topo.Cycles))
		for i, id := range topo.Cycles {
			names[i] = idx.IDToName[int(id)]
		}
		fmt.Fprintf(out, "cycles: %s\n", strings.Join(names, ", "))
	}
	for i, name := range idx.IDToName {
		deps := g.Edges[i]
		if len(deps) == 0 {
			continue
		}
		depNames := make([]string, len(deps))
		for j, dep := range deps {
			depNames[j] = idx.IDToName[int(dep)]
		}
		fmt.Fprintf(out, "%s -> %s\n", name, strings.Join(depNames, ", "))
	}
}

func renderGraphJSON(cmd *cobra.Command, idx modgraph.ModuleIndex, g modgraph.Graph, topo *modgraph.Topo) error {
	payload := graphPayload{}
	for i, name := range idx.IDToName {
		deps := g.Edges[i]
		depNames := make([]string, len(deps))
		for j, dep := range deps {
			depNames[j] = idx.IDToName[int(dep)]
		}
		payload.Modules = append(payload.Modules, graphModule{Path: name, Imports: depNames})
	}
	for _, batch := range topo.Batches {
		names := make([]string, len(batch))
		for j, id := range batch {
			names[j] = idx.IDToName[int(id)]
		}
		payload.Batches = append(payload.Batches, names)
	}
	for _, id := range topo.Cycles {
		payload.Cycles = append(payload.Cycles, idx.IDToName[int(id)])
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
