// Package report renders scan summaries and cost estimates for humans and
// for file export. The console output mirrors the text export so piping
// and saving stay consistent.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/codeGROOVE-dev/repocost/pkg/cocomo"
	"github.com/codeGROOVE-dev/repocost/pkg/scanner"
)

const rule = "-------------------------------------------------------------------------------"

// usd formats a dollar amount with thousands separators.
func usd(amount int) string {
	return "$" + humanize.Comma(int64(amount))
}

// premiumPercent converts a multiplier like 1.4 into its surcharge
// percentage (40). Rounds to avoid float noise around tier boundaries.
func premiumPercent(multiplier float64) int {
	return int((multiplier-1.0)*100 + 0.5)
}

// WriteLanguageTable renders the per-language line counts as a fixed-width
// table ordered by code lines descending.
func WriteLanguageTable(w io.Writer, summary *scanner.Summary) {
	fmt.Fprintf(w, "\n%s\n", rule)
	fmt.Fprintf(w, "%-20s %9s %9s %9s %9s %9s %10s\n",
		"Language", "Files", "Lines", "Blanks", "Comments", "Code", "Complexity")
	fmt.Fprintf(w, "%s\n", rule)
	for _, lang := range summary.SortedLanguages() {
		s := summary.Languages[lang]
		fmt.Fprintf(w, "%-20s %9d %9d %9d %9d %9d %10d\n",
			lang, s.Files, s.Lines, s.Blanks, s.Comments, s.Code, s.Complexity)
	}
	fmt.Fprintf(w, "%s\n", rule)
	t := summary.Totals
	fmt.Fprintf(w, "%-20s %9d %9d %9d %9d %9d %10d\n",
		"Total", t.Files, t.Lines, t.Blanks, t.Comments, t.Code, t.Complexity)
	fmt.Fprintf(w, "%s\n", rule)
	fmt.Fprintf(w, "Processed %s bytes, %.3f megabytes (SI)\n",
		humanize.Comma(t.Bytes), float64(t.Bytes)/1e6)
	fmt.Fprintf(w, "%s\n", rule)
}

// WriteEstimate renders the full estimate report: headline figures,
// parameters, the realistic breakdown and any maintenance projection.
func WriteEstimate(w io.Writer, result cocomo.Result) {
	fmt.Fprintf(w, "\n%s\n", rule)
	fmt.Fprintf(w, "%-25s %12s\n", "Metric", "Value")
	fmt.Fprintf(w, "%s\n", rule)
	fmt.Fprintf(w, "%-25s %12d\n", "Total Code Lines", result.CodeLines)
	fmt.Fprintf(w, "%-25s %12.2f\n", "Effort (person-months)", result.EffortPersonMonths)
	fmt.Fprintf(w, "%-25s %12.2f\n", "Schedule (months)", result.FinalScheduleMonths)
	fmt.Fprintf(w, "%-25s %12.2f\n", "People Required", result.FinalPeople)
	fmt.Fprintf(w, "%-25s %12s\n", "Estimated Cost (USD)", usd(result.RealisticCostUSD))
	fmt.Fprintf(w, "%-25s %s - %s\n", "Confidence Range",
		usd(result.ConfidenceInterval.Low), usd(result.ConfidenceInterval.High))
	fmt.Fprintf(w, "%s\n", rule)

	fmt.Fprintln(w, "Parameters Used:")
	fmt.Fprintf(w, "  Complexity:        %s\n", result.Params.Complexity)
	fmt.Fprintf(w, "  Team Experience:   %.0f\n", result.Params.TeamExperience)
	fmt.Fprintf(w, "  Reuse Factor:      %.2f\n", result.Params.ReuseFactor)
	fmt.Fprintf(w, "  Tool Support:      %.2f\n", result.Params.ToolSupport)
	if result.PremiumMultiplier > 1.0 {
		fmt.Fprintf(w, "  Schedule Premium:  +%d%%\n", premiumPercent(result.PremiumMultiplier))
	}
	if result.CoordinationPremium > 1.0 {
		fmt.Fprintf(w, "  Coordination:      +%d%%\n", premiumPercent(result.CoordinationPremium))
	}

	WriteBreakdown(w, result)

	if m := result.Maintenance; m != nil {
		fmt.Fprintf(w, "%s\n", rule)
		fmt.Fprintln(w, "Maintenance & TCO:")
		fmt.Fprintf(w, "  Annual Maintenance:  %s\n", usd(m.AnnualMaintenance))
		fmt.Fprintf(w, "  Maintenance Years:   %d\n", m.MaintenanceYears)
		fmt.Fprintf(w, "  Total Maintenance:   %s\n", usd(m.TotalMaintenance))
		fmt.Fprintf(w, "  Total Cost (TCO):    %s\n", usd(m.TCO))
	}
	fmt.Fprintf(w, "%s\n\n", rule)
}

// WriteBreakdown explains how the constrained schedule, team and premiums
// were derived from the raw effort.
func WriteBreakdown(w io.Writer, result cocomo.Result) {
	fmt.Fprintln(w, "\nRealistic Project Breakdown:")
	fmt.Fprintf(w, "  Total effort required: %.0f person-months\n", result.EffortPersonMonths)
	fmt.Fprintf(w, "  Team size: %.0f people (max allowed: %.0f)\n",
		result.FinalPeople, result.MaxRealisticPeople)
	fmt.Fprintf(w, "  Timeline: %.1f months (max allowed: %.0f months)\n",
		result.FinalScheduleMonths, result.MaxScheduleMonths)
	switch {
	case result.PremiumMultiplier > 1.0:
		fmt.Fprintf(w, "  Cost premium: +%d%% for aggressive timeline\n",
			premiumPercent(result.PremiumMultiplier))
		fmt.Fprintln(w, "  Premium covers: Senior/expert engineers, overtime, consultants, accelerated tooling")
	case result.CoordinationPremium > 1.0:
		fmt.Fprintf(w, "  Coordination overhead: +%d%% for team size\n",
			premiumPercent(result.CoordinationPremium))
	}
	fmt.Fprintf(w, "  Average monthly cost: %s/month\n", usd(result.AverageMonthlyCost))
	fmt.Fprintf(w, "  Confidence range: %s - %s\n",
		usd(result.ConfidenceInterval.Low), usd(result.ConfidenceInterval.High))
}

// EstimateText returns the estimate report as a string.
func EstimateText(result cocomo.Result) string {
	var b strings.Builder
	WriteEstimate(&b, result)
	return b.String()
}
