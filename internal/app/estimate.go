package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/codeGROOVE-dev/repocost/pkg/cocomo"
	"github.com/codeGROOVE-dev/repocost/pkg/report"
)

var (
	estimateLines  int
	estimateFormat string

	estimateCmd = &cobra.Command{
		Use:   "estimate",
		Short: "Estimate development cost from a raw line count",
		Long: `Run the cost model directly on a line count, without scanning any
files. Useful for what-if analysis and for sizes taken from other tools.`,
		Example: `  # 50k lines with defaults
  repocost estimate --lines 50000

  # Aggressive deadline forces schedule compression premiums
  repocost estimate --lines 100000 --max-schedule 6 --max-team 3

  # Five-year TCO as JSON
  repocost estimate --lines 50000 --maintenance-years 5 --format json`,
		RunE: runEstimate,
	}
)

func init() {
	estimateCmd.Flags().IntVar(&estimateLines, "lines", 0, "total code lines to estimate (required)")
	estimateCmd.Flags().StringVar(&estimateFormat, "format", "human", "output format: human or json")
	if err := estimateCmd.MarkFlagRequired("lines"); err != nil {
		panic(err)
	}
	addEstimateFlags(estimateCmd)
}

func runEstimate(cmd *cobra.Command, args []string) error {
	calibration, err := loadCalibration()
	if err != nil {
		return err
	}

	params := resolveParams(cmd, calibration)
	params.CodeLines = estimateLines
	params.LanguageMix = nil

	result, err := cocomo.Estimate(params, calibration.Config())
	if err != nil {
		return err
	}

	switch estimateFormat {
	case "json":
		return report.WriteJSON(os.Stdout, nil, result)
	case "human":
		report.WriteEstimate(os.Stdout, result)
		return nil
	default:
		return fmt.Errorf("unknown output format %q (valid: human, json)", estimateFormat)
	}
}
