package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/waseemisle/hey-spruceapp-sub000/internal/cli"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/locmatch"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/model"
)

var csvHeader = []string{"row", "location_name", "status", "method", "location_id", "matched_name", "rule", "score"}

// writeReport renders report in one of config.OutputFormats.
func writeReport(w io.Writer, report *model.ImportReport, format string) error {
	switch format {
	case "table", "":
		return writeReportTable(w, report)
	case "csv":
		return writeReportCSV(w, report)
	default:
		return writeStructured(w, format, report)
	}
}

func writeReportTable(w io.Writer, report *model.ImportReport) error {
	rows := make([][]string, 0, len(report.Results))
	for _, r := range report.Results {
		rows = append(rows, []string{
			strconv.Itoa(r.Row.Number),
			r.Row.LocationName,
			styleStatus(r.Status),
			r.LocationID,
			r.Rule,
			cli.FormatScore(r.Score, locmatch.AcceptThreshold),
		})
	}
	if _, err := fmt.Fprint(w, cli.RenderTable([]string{"ROW", "NAME", "STATUS", "LOCATION", "RULE", "SCORE"}, rows)); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	if _, err := fmt.Fprintln(w, cli.RenderBox(reportTitle(report), summaryText(report.Summary))); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

func writeReportCSV(w io.Writer, report *model.ImportReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range report.Results {
		record := []string{
			strconv.Itoa(r.Row.Number),
			r.Row.LocationName,
			string(r.Status),
			string(r.Method),
			r.LocationID,
			r.LocationName,
			r.Rule,
			strconv.FormatFloat(r.Score, 'f', 4, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", r.Row.Number, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func reportTitle(report *model.ImportReport) string {
	if report.RunID == 0 {
		return report.SourceFile + " (dry run)"
	}
	return fmt.Sprintf("Run #%d: %s", report.RunID, report.SourceFile)
}

func summaryText(s model.ImportSummary) string {
	text := fmt.Sprintf("Rows:      %d\nMatched:   %d (%d via alias)\nUnmatched: %d\nSkipped:   %d",
		s.Total, s.Matched, s.ViaAlias, s.Unmatched, s.Skipped)
	if s.Resolved > 0 {
		text += fmt.Sprintf("\nResolved:  %d", s.Resolved)
	}
	return text
}

func styleStatus(status model.RowStatus) string {
	switch status {
	case model.RowMatched, model.RowResolved:
		return cli.SuccessStyle.Render(string(status))
	case model.RowUnmatched:
		return cli.WarningStyle.Render(string(status))
	default:
		return cli.SubtleStyle.Render(string(status))
	}
}
