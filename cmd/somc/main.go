package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"somc/internal/obslog"
	"somc/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "somc",
	Short: "somc analyzes a tree of .som modules: type resolution, scope binding, multimethod dispatch",
	Long:  `somc is the module-aware semantic analyzer for the .som language.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		traceFlag, err := cmd.Flags().GetString("trace")
		if err != nil {
			return err
		}
		level, err := obslog.ParseLevel(traceFlag)
		if err != nil {
			return err
		}
		logger := obslog.New(cmd.ErrOrStderr(), level)
		cmd.SetContext(obslog.WithLogger(cmd.Context(), logger))
		return nil
	},
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize diagnostic output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().String("trace", "off", "progress logging level (off|phase|detail)")

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
