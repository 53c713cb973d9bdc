// Package app wires the repocost command-line interface.
package app

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool

	// RootCmd is the root command for repocost.
	RootCmd = &cobra.Command{
		Use:   "repocost",
		Short: "Repository line counting and development cost estimation",
		Long: `repocost counts source lines per language and estimates what the code
would cost to develop from scratch, using a COCOMO II parametric model
with language productivity weighting and realistic schedule constraints.

Quick Start:
  1. repocost analyze .           # scan and estimate the current repo
  2. repocost estimate --lines N  # estimate from a raw line count
  3. repocost watch .             # re-estimate on every change

Examples:
  # Analyze a repository and write csv + html exports
  repocost analyze ~/src/myapp --out report --formats csv,html

  # High-complexity project with a senior team
  repocost analyze . --complexity high --team-exp 5

  # Five-year total cost of ownership
  repocost estimate --lines 50000 --maintenance-years 5

  # Machine-readable output
  repocost analyze . --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})))
		},
	}
)

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "repocost.yaml", "calibration file path")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	RootCmd.SuggestionsMinimumDistance = 2

	RootCmd.AddCommand(analyzeCmd)
	RootCmd.AddCommand(estimateCmd)
	RootCmd.AddCommand(watchCmd)
}

// Execute runs the root command.
func Execute() error {
	return RootCmd.Execute()
}
