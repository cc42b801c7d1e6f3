package sheets

import (
	"fmt"

	"github.com/waseemisle/hey-spruceapp-sub000/internal/model"
)

// Tab titles created in the export spreadsheet.
const (
	SummaryTab   = "Summary"
	RowsTab      = "Rows"
	UnmatchedTab = "Unmatched"
)

var rowHeader = []any{"Row", "Imported Name", "Location ID", "Location", "Method", "Rule", "Score", "Status"}

// summaryValues renders the header block for a report.
func summaryValues(report *model.ImportReport) [][]any {
	s := report.Summary
	title := report.SourceFile
	if report.Sheet != "" {
		title = fmt.Sprintf("%s [%s]", report.SourceFile, report.Sheet)
	}

	return [][]any{
		{"Import Reconciliation", title},
		{"Started", report.StartedAt.Format("2006-01-02 15:04:05")},
		{"Run", runLabel(report.RunID)},
		{},
		{"Status", "Rows"},
		{"Total", s.Total},
		{"Matched", s.Matched},
		{"Matched via alias", s.ViaAlias},
		{"Resolved", s.Resolved},
		{"Unmatched", s.Unmatched},
		{"Skipped", s.Skipped},
	}
}

// rowValues renders one line per result, in import order.
func rowValues(results []model.RowResult) [][]any {
	values := make([][]any, 0, len(results)+1)
	values = append(values, rowHeader)
	for _, r := range results {
		values = append(values, []any{
			r.Row.Number,
			r.Row.LocationName,
			r.LocationID,
			r.LocationName,
			string(r.Method),
			r.Rule,
			fmt.Sprintf("%.3f", r.Score),
			string(r.Status),
		})
	}
	return values
}

// unmatchedValues lists only the rows an operator still has to decide.
func unmatchedValues(report *model.ImportReport) [][]any {
	return rowValues(report.Unmatched())
}

func runLabel(id int64) string {
	if id == 0 {
		return "dry run"
	}
	return fmt.Sprintf("#%d", id)
}
