package model

import "time"

// MatchMethod records how a row was tied to a location.
type MatchMethod string

// Match methods.
const (
	MethodExact  MatchMethod = "exact"
	MethodAlias  MatchMethod = "alias"
	MethodAuto   MatchMethod = "auto"
	MethodManual MatchMethod = "manual"
	MethodNone   MatchMethod = "none"
)

// RowStatus is the reconciliation state of an imported row.
type RowStatus string

// Row statuses.
const (
	RowMatched   RowStatus = "matched"
	RowUnmatched RowStatus = "unmatched"
	RowResolved  RowStatus = "resolved"
	RowSkipped   RowStatus = "skipped"
)

// ImportRow is one spreadsheet row with its venue name already extracted.
type ImportRow struct {
	Fields       map[string]string `json:"fields,omitempty" yaml:"fields,omitempty"`
	LocationName string            `json:"location_name" yaml:"location_name"`
	Number       int               `json:"row" yaml:"row"`
}

// RowResult is the reconciliation outcome for a single row.
type RowResult struct {
	LocationID   string      `json:"location_id,omitempty" yaml:"location_id,omitempty"`
	LocationName string      `json:"location_name,omitempty" yaml:"location_name,omitempty"`
	Rule         string      `json:"rule,omitempty" yaml:"rule,omitempty"`
	Method       MatchMethod `json:"method" yaml:"method"`
	Status       RowStatus   `json:"status" yaml:"status"`
	Row          ImportRow   `json:"row" yaml:"row"`
	Score        float64     `json:"score" yaml:"score"`
}

// IsOpen reports whether the row still needs an operator decision.
func (r RowResult) IsOpen() bool {
	return r.Status == RowUnmatched
}

// ImportSummary aggregates row outcomes.
type ImportSummary struct {
	Total     int `json:"total" yaml:"total"`
	Matched   int `json:"matched" yaml:"matched"`
	ViaAlias  int `json:"via_alias" yaml:"via_alias"`
	Unmatched int `json:"unmatched" yaml:"unmatched"`
	Resolved  int `json:"resolved" yaml:"resolved"`
	Skipped   int `json:"skipped" yaml:"skipped"`
}

// Summarize counts results by status.
func Summarize(results []RowResult) ImportSummary {
	s := ImportSummary{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case RowMatched:
			s.Matched++
			if r.Method == MethodAlias {
				s.ViaAlias++
			}
		case RowUnmatched:
			s.Unmatched++
		case RowResolved:
			s.Resolved++
		case RowSkipped:
			s.Skipped++
		}
	}
	return s
}

// ImportReport is the full result of reconciling one import file.
type ImportReport struct {
	StartedAt  time.Time     `json:"started_at" yaml:"started_at"`
	SourceFile string        `json:"source_file" yaml:"source_file"`
	Sheet      string        `json:"sheet,omitempty" yaml:"sheet,omitempty"`
	Results    []RowResult   `json:"results" yaml:"results"`
	Summary    ImportSummary `json:"summary" yaml:"summary"`
	Duration   time.Duration `json:"duration" yaml:"duration"`
	RunID      int64         `json:"run_id,omitempty" yaml:"run_id,omitempty"`
}

// Unmatched returns the rows that still need an operator decision.
func (r *ImportReport) Unmatched() []RowResult {
	var open []RowResult
	for _, res := range r.Results {
		if res.IsOpen() {
			open = append(open, res)
		}
	}
	return open
}

// ImportRun is the persisted header of an import.
type ImportRun struct {
	StartedAt  time.Time
	SourceFile string
	Sheet      string
	ID         int64
	Total      int
	Matched    int
	Unmatched  int
}
