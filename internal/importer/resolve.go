package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/waseemisle/hey-spruceapp-sub000/internal/common"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/locmatch"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/model"
)

// Resolve assigns locationID to an unmatched row. With remember set, the
// row's name is saved as an alias so later imports match it directly.
func (e *Engine) Resolve(ctx context.Context, runID int64, rowNumber int, locationID string, remember bool) error {
	if locationID == "" {
		return fmt.Errorf("location id is required; use Skip to leave a row unassigned")
	}

	row, err := e.openRow(ctx, runID, rowNumber)
	if err != nil {
		return err
	}

	if err := e.store.ResolveResult(ctx, runID, rowNumber, locationID, model.MethodManual); err != nil {
		return fmt.Errorf("failed to resolve row %d: %w", rowNumber, err)
	}

	if remember && locmatch.Normalize(row.Row.LocationName) != "" {
		alias := &model.Alias{
			Pattern:    row.Row.LocationName,
			LocationID: locationID,
			Source:     model.AliasSourceResolved,
		}
		if err := e.store.SaveAlias(ctx, alias); err != nil {
			return fmt.Errorf("row %d resolved but alias not saved: %w", rowNumber, err)
		}
		e.logger.Info("Remembered alias", "pattern", alias.Pattern, "location_id", locationID)
	}

	return nil
}

// Skip closes an unmatched row without assigning a location.
func (e *Engine) Skip(ctx context.Context, runID int64, rowNumber int) error {
	if _, err := e.openRow(ctx, runID, rowNumber); err != nil {
		return err
	}
	if err := e.store.ResolveResult(ctx, runID, rowNumber, "", model.MethodNone); err != nil {
		return fmt.Errorf("failed to skip row %d: %w", rowNumber, err)
	}
	return nil
}

func (e *Engine) openRow(ctx context.Context, runID int64, rowNumber int) (*model.RowResult, error) {
	results, err := e.store.GetImportResults(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load run %d: %w", runID, err)
	}
	for i := range results {
		if results[i].Row.Number != rowNumber {
			continue
		}
		if !results[i].IsOpen() {
			return nil, fmt.Errorf("row %d is %s: %w", rowNumber, results[i].Status, ErrRowClosed)
		}
		return &results[i], nil
	}
	return nil, fmt.Errorf("run %d row %d: %w", runID, rowNumber, common.ErrNotFound)
}

// Suggest returns up to n scored candidates for name, best first, followed by
// every other catalog location in catalog order with a zero score.
// A non-positive n keeps all scored candidates.
func Suggest(catalog []model.Location, name string, n int) locmatch.CandidateList {
	exp := locmatch.Explain(name, catalog)

	scored := exp.Candidates.Rank()
	if exp.Matched && (len(scored) == 0 || scored[0].LocationID != exp.LocationID) {
		// Early accepts (exact, suffix or primary name) are not in the candidate list.
		head := locmatch.Candidate{
			LocationID: exp.LocationID,
			Name:       exp.LocationName,
			Rule:       exp.Rule,
			Score:      exp.Score,
		}
		scored = append(locmatch.CandidateList{head}, scored...)
	}
	if n > 0 {
		scored = scored.Top(n)
	}

	out := make(locmatch.CandidateList, 0, len(catalog))
	seen := make(map[string]bool, len(catalog))
	for _, c := range scored {
		if seen[c.LocationID] {
			continue
		}
		seen[c.LocationID] = true
		out = append(out, c)
	}
	for _, loc := range catalog {
		if seen[loc.ID] {
			continue
		}
		seen[loc.ID] = true
		out = append(out, locmatch.Candidate{LocationID: loc.ID, Name: loc.Name})
	}
	return out
}

// filterSimilarity is the minimum similarity for a filter hit that is not a
// substring match.
const filterSimilarity = 0.5

// FilterSuggestions keeps the candidates whose name or id contains query
// after normalization, or whose name is similar enough to it. An empty
// query keeps everything.
func FilterSuggestions(list locmatch.CandidateList, query string) locmatch.CandidateList {
	query = locmatch.Normalize(query)
	if query == "" {
		return list
	}

	var filtered locmatch.CandidateList
	for _, c := range list {
		if strings.Contains(locmatch.Normalize(c.Name), query) ||
			strings.Contains(strings.ToLower(c.LocationID), query) ||
			locmatch.CalculateSimilarity(query, c.Name) >= filterSimilarity {
			filtered = append(filtered, c)
		}
	}
	return filtered
}
