package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/codeGROOVE-dev/repocost/pkg/cocomo"
	"github.com/codeGROOVE-dev/repocost/pkg/report"
	"github.com/codeGROOVE-dev/repocost/pkg/scanner"
)

var (
	analyzeOut     string
	analyzeFormats []string
	analyzeFormat  string

	analyzeCmd = &cobra.Command{
		Use:   "analyze [path]",
		Short: "Scan a repository and estimate its development cost",
		Long: `Walk a source tree, count lines per language, and estimate development
cost from the productivity-weighted language mix.

Binary files, build artifacts and dependency directories (node_modules,
vendor, .git and friends) are skipped automatically.`,
		Example: `  # Current directory with defaults
  repocost analyze

  # Write file exports next to the console report
  repocost analyze ~/src/myapp --out myapp-report --formats csv,html,txt

  # JSON for further processing
  repocost analyze . --format json | jq .estimate.realistic_cost_usd`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAnalyze,
	}
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeOut, "out", "", "base path for file exports (writes <out>.<format>)")
	analyzeCmd.Flags().StringSliceVar(&analyzeFormats, "formats", []string{"txt"}, "export formats: csv, html, txt")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "human", "console output format: human or json")
	addEstimateFlags(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	for _, f := range analyzeFormats {
		if !report.ValidFormat(f) {
			return fmt.Errorf("unknown export format %q (valid: %s)", f, strings.Join(report.Formats, ", "))
		}
	}

	calibration, err := loadCalibration()
	if err != nil {
		return err
	}

	summary, err := scanner.Scan(path)
	if err != nil {
		return fmt.Errorf("scan %s: %w", path, err)
	}

	params := resolveParams(cmd, calibration)
	params.LanguageMix = summary.LanguageMix()
	params.CodeLines = summary.Totals.Code

	result, err := cocomo.Estimate(params, calibration.Config())
	if err != nil {
		return err
	}

	switch analyzeFormat {
	case "json":
		if err := report.WriteJSON(os.Stdout, summary, result); err != nil {
			return err
		}
	case "human":
		report.WriteLanguageTable(os.Stdout, summary)
		report.WriteEstimate(os.Stdout, result)
	default:
		return fmt.Errorf("unknown output format %q (valid: human, json)", analyzeFormat)
	}

	if analyzeOut != "" {
		if err := report.WriteFiles(analyzeOut, analyzeFormats, summary, result); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %s.{%s}\n", analyzeOut, strings.Join(analyzeFormats, ","))
	}
	return nil
}
