package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"os"
	"strconv"

	"github.com/codeGROOVE-dev/repocost/pkg/cocomo"
	"github.com/codeGROOVE-dev/repocost/pkg/scanner"
)

// Formats lists the file export formats WriteFiles understands.
var Formats = []string{"csv", "html", "txt"}

// ValidFormat reports whether name is an accepted export format.
func ValidFormat(name string) bool {
	for _, f := range Formats {
		if f == name {
			return true
		}
	}
	return false
}

// WriteFiles exports the analysis to basepath.<format> for each requested
// format. Formats must be pre-validated with ValidFormat.
func WriteFiles(basepath string, formats []string, summary *scanner.Summary, result cocomo.Result) error {
	for _, format := range formats {
		path := basepath + "." + format
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		switch format {
		case "csv":
			err = WriteCSV(file, summary, result)
		case "html":
			err = WriteHTML(file, summary, result)
		case "txt":
			WriteLanguageTable(file, summary)
			WriteEstimate(file, result)
		default:
			err = fmt.Errorf("unknown format %q", format)
		}
		if closeErr := file.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

// WriteCSV exports the language table and estimate as comma-separated rows.
func WriteCSV(w io.Writer, summary *scanner.Summary, result cocomo.Result) error {
	cw := csv.NewWriter(w)
	writeRow := func(fields ...string) {
		cw.Write(fields) //nolint:errcheck // surfaced by cw.Error below
	}

	writeRow("Language", "Files", "Lines", "Blanks", "Comments", "Code", "Complexity", "Bytes")
	for _, lang := range summary.SortedLanguages() {
		s := summary.Languages[lang]
		writeRow(lang, itoa(s.Files), itoa(s.Lines), itoa(s.Blanks),
			itoa(s.Comments), itoa(s.Code), itoa(s.Complexity), strconv.FormatInt(s.Bytes, 10))
	}
	writeRow()
	t := summary.Totals
	writeRow("Total", itoa(t.Files), itoa(t.Lines), itoa(t.Blanks),
		itoa(t.Comments), itoa(t.Code), itoa(t.Complexity), strconv.FormatInt(t.Bytes, 10))

	writeRow()
	writeRow("Estimate", "Value")
	writeRow("Estimated Cost (USD)", itoa(result.RealisticCostUSD))
	writeRow("Estimated Schedule (months)", ftoa(result.FinalScheduleMonths))
	writeRow("Estimated People", ftoa(result.FinalPeople))
	writeRow()
	writeRow("Realistic Project Breakdown", "")
	writeRow("Total effort (person-months)", ftoa(result.EffortPersonMonths))
	writeRow("Team size (people)", ftoa(result.FinalPeople))
	writeRow("Timeline (months)", ftoa(result.FinalScheduleMonths))
	writeRow("Average monthly cost (USD/month)", itoa(result.AverageMonthlyCost))
	writeRow("Confidence low", itoa(result.ConfidenceInterval.Low))
	writeRow("Confidence high", itoa(result.ConfidenceInterval.High))
	if m := result.Maintenance; m != nil {
		writeRow()
		writeRow("Annual Maintenance (USD)", itoa(m.AnnualMaintenance))
		writeRow("Total Maintenance (USD)", itoa(m.TotalMaintenance))
		writeRow("Total Cost of Ownership (USD)", itoa(m.TCO))
	}

	cw.Flush()
	return cw.Error()
}

// WriteHTML exports a single self-contained page with the language table
// and estimate.
func WriteHTML(w io.Writer, summary *scanner.Summary, result cocomo.Result) error {
	var err error
	print := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	print(`<html><head><meta charset="utf-8"><title>Repo Analysis</title></head><body>`)
	print("<h1>Repository Code Analysis</h1>")
	print(`<table border="1" cellpadding="6" cellspacing="0">`)
	print("<tr><th>Language</th><th>Files</th><th>Lines</th><th>Blanks</th><th>Comments</th><th>Code</th><th>Complexity</th><th>Bytes</th></tr>")
	for _, lang := range summary.SortedLanguages() {
		s := summary.Languages[lang]
		print("<tr><td>%s</td><td>%d</td><td>%d</td><td>%d</td><td>%d</td><td>%d</td><td>%d</td><td>%d</td></tr>",
			html.EscapeString(lang), s.Files, s.Lines, s.Blanks, s.Comments, s.Code, s.Complexity, s.Bytes)
	}
	print("</table>")
	print("<h2>Totals</h2>")
	print("<p>Files: %d &nbsp; Lines: %d &nbsp; Code: %d</p>",
		summary.Totals.Files, summary.Totals.Lines, summary.Totals.Code)
	print("<h2>Estimate</h2>")
	print("<p>Estimated Cost (USD): %s</p>", usd(result.RealisticCostUSD))
	print("<p>Estimated Schedule (months): %.2f</p>", result.FinalScheduleMonths)
	print("<p>Estimated People: %.2f</p>", result.FinalPeople)
	print("<p>Confidence Range: %s - %s</p>",
		usd(result.ConfidenceInterval.Low), usd(result.ConfidenceInterval.High))
	print("<h3>Realistic Project Breakdown</h3>")
	print("<p>Total effort required: %.2f person-months</p>", result.EffortPersonMonths)
	print("<p>Team size: %.0f people</p>", result.FinalPeople)
	print("<p>Timeline: %.1f months</p>", result.FinalScheduleMonths)
	print("<p>Average monthly cost: %s/month</p>", usd(result.AverageMonthlyCost))
	if result.PremiumMultiplier > 1.0 {
		print("<p>Cost premium: +%d%% for aggressive timeline</p>", premiumPercent(result.PremiumMultiplier))
	}
	if m := result.Maintenance; m != nil {
		print("<h3>Maintenance &amp; TCO</h3>")
		print("<p>Annual Maintenance: %s</p>", usd(m.AnnualMaintenance))
		print("<p>Total Maintenance (%dyr): %s</p>", m.MaintenanceYears, usd(m.TotalMaintenance))
		print("<p>Total Cost of Ownership: %s</p>", usd(m.TCO))
	}
	print("</body></html>")
	return err
}

// WriteJSON exports the full analysis as indented JSON, suitable for
// feeding other tooling.
func WriteJSON(w io.Writer, summary *scanner.Summary, result cocomo.Result) error {
	payload := struct {
		Summary  *scanner.Summary `json:"summary,omitempty"`
		Estimate cocomo.Result    `json:"estimate"`
	}{Summary: summary, Estimate: result}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func itoa(n int) string { return strconv.Itoa(n) }

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
