package locmatch

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waseemisle/hey-spruceapp-sub000/internal/model"
)

func catalogOf(names ...string) []model.Location {
	catalog := make([]model.Location, len(names))
	for i, name := range names {
		catalog[i] = model.Location{ID: fmt.Sprintf("L%d", i+1), Name: name}
	}
	return catalog
}

func TestMatchLocation_Scenarios(t *testing.T) {
	tests := []struct {
		name    string
		search  string
		wantID  string
		catalog []model.Location
		wantOK  bool
	}{
		{
			name:    "case-insensitive exact match",
			search:  "JOE'S PIZZA",
			catalog: catalogOf("Joe's Pizza"),
			wantID:  "L1",
			wantOK:  true,
		},
		{
			name:    "dash suffix matches parenthetical suffix",
			search:  "Downtown Grill - 2nd Ave",
			catalog: catalogOf("Downtown Grill (Main St)", "Downtown Grill (2nd Ave)"),
			wantID:  "L2",
			wantOK:  true,
		},
		{
			name:    "leading article stripped",
			search:  "Coffee House",
			catalog: catalogOf("The Coffee House"),
			wantID:  "L1",
			wantOK:  true,
		},
		{
			name:    "unrelated name",
			search:  "Totally Unrelated Name",
			catalog: catalogOf("Zephyr Bistro"),
			wantOK:  false,
		},
		{
			name:    "empty catalog",
			search:  "Joe's Pizza",
			catalog: nil,
			wantOK:  false,
		},
		{
			name:    "blank search name",
			search:  "   ",
			catalog: catalogOf("Joe's Pizza"),
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := MatchLocation(tt.search, tt.catalog)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestMatchLocation_IdentityWinsOverEarlierCandidates(t *testing.T) {
	catalog := []model.Location{
		{ID: "cafe", Name: "Blue Door Cafe"},
		{ID: "grill", Name: "Blue Door Grill (Uptown)"},
		{ID: "door", Name: "  blue   DOOR "},
	}

	id, ok := MatchLocation("Blue Door", catalog)
	require.True(t, ok)
	assert.Equal(t, "door", id)

	exp := Explain("Blue Door", catalog)
	assert.Equal(t, RuleExactName, exp.Rule)
	assert.InDelta(t, 1.0, exp.Score, 1e-9)
}

func TestMatchLocation_BranchExclusivity(t *testing.T) {
	catalog := []model.Location{
		{ID: "down", Name: "Acme (Downtown)"},
		{ID: "up", Name: "Acme (Uptown)"},
	}

	for _, search := range []string{"Acme (Uptown)", "acme - uptown", "ACME   (UPTOWN)"} {
		id, ok := MatchLocation(search, catalog)
		require.True(t, ok, search)
		assert.Equal(t, "up", id, search)
	}

	id, ok := MatchLocation("Acme (Midtown)", catalog)
	assert.False(t, ok, "no branch of the chain may stand in for another")
	assert.Empty(t, id)

	exp := Explain("Acme (Midtown)", catalog)
	require.Len(t, exp.Exclusions, 2)
	for _, ex := range exp.Exclusions {
		assert.Equal(t, ExcludedSuffixMismatch, ex.Reason)
	}
	assert.Empty(t, exp.Candidates)
}

func TestExplain_SuffixMismatchIsRecorded(t *testing.T) {
	catalog := catalogOf("Downtown Grill (Main St)", "Downtown Grill (2nd Ave)")

	exp := Explain("Downtown Grill - 2nd Ave", catalog)

	require.True(t, exp.Matched)
	assert.Equal(t, "L2", exp.LocationID)
	assert.Equal(t, RuleSuffixMatch, exp.Rule)
	require.Len(t, exp.Exclusions, 1)
	assert.Equal(t, Exclusion{LocationID: "L1", Name: "Downtown Grill (Main St)", Reason: ExcludedSuffixMismatch}, exp.Exclusions[0])
}

func TestMatchLocation_DashedBaseWithDashSuffix(t *testing.T) {
	catalog := []model.Location{
		{ID: "up", Name: "Smith - Jones Bistro (Uptown)"},
		{ID: "down", Name: "Smith - Jones Bistro (Downtown)"},
	}

	exp := Explain("Smith - Jones Bistro - Uptown", catalog)

	require.True(t, exp.Matched)
	assert.Equal(t, "up", exp.LocationID)
	assert.Equal(t, RuleSuffixMatch, exp.Rule)
	assert.Empty(t, exp.Exclusions)

	exp = Explain("Smith - Jones Bistro - Downtown", catalog)
	require.True(t, exp.Matched)
	assert.Equal(t, "down", exp.LocationID)
	require.Len(t, exp.Exclusions, 1)
	assert.Equal(t, ExcludedSuffixMismatch, exp.Exclusions[0].Reason)
}

func TestExplain_BothSuffixedBasesIgnoreLeadingArticle(t *testing.T) {
	exp := Explain("The Acme (Uptown)", catalogOf("Acme (Downtown)", "Acme (Uptown)"))

	require.True(t, exp.Matched)
	assert.Equal(t, "L2", exp.LocationID)
	assert.Equal(t, RuleSuffixMatch, exp.Rule)
	require.Len(t, exp.Exclusions, 1)
	assert.Equal(t, ExcludedSuffixMismatch, exp.Exclusions[0].Reason)
}

func TestExplain_BothSuffixedDifferentBases(t *testing.T) {
	exp := Explain("Acme (Downtown)", catalogOf("Zenith (Downtown)"))

	assert.False(t, exp.Matched)
	require.Len(t, exp.Exclusions, 1)
	assert.Equal(t, ExcludedBaseMismatch, exp.Exclusions[0].Reason)
}

func TestExplain_OneSidedSuffixScores(t *testing.T) {
	tests := []struct {
		name      string
		search    string
		catalog   []model.Location
		wantID    string
		wantRule  Rule
		wantScore float64
	}{
		{
			name:      "search suffix, primary name equal",
			search:    "Acme Pizza (Downtown)",
			catalog:   catalogOf("Acme Pizza"),
			wantID:    "L1",
			wantRule:  RuleSuffixedPrimary,
			wantScore: ScoreSearchSuffixPrimary,
		},
		{
			name:      "search suffix, catalog contains base",
			search:    "Acme Pizza - Downtown",
			catalog:   catalogOf("Acme Pizza Company"),
			wantID:    "L1",
			wantRule:  RuleSuffixedPrimary,
			wantScore: ScoreSearchSuffixPrimary,
		},
		{
			name:      "search suffix, all keywords",
			search:    "Grill Harbor (Pier 3)",
			catalog:   catalogOf("Harbor Grill House"),
			wantID:    "L1",
			wantRule:  RuleSuffixedKeywords,
			wantScore: ScoreSearchSuffixKeywords,
		},
		{
			name:      "catalog suffix, primary name equal",
			search:    "Acme Pizza",
			catalog:   catalogOf("Acme Pizza (Downtown)"),
			wantID:    "L1",
			wantRule:  RuleSuffixedPrimary,
			wantScore: ScoreCatalogSuffixPrimary,
		},
		{
			name:      "catalog suffix, all keywords",
			search:    "Grill Harbor",
			catalog:   catalogOf("Harbor Grill House (Pier 3)"),
			wantID:    "L1",
			wantRule:  RuleSuffixedKeywords,
			wantScore: ScoreCatalogSuffixKeywords,
		},
		{
			name:      "search suffix, weighted similarity",
			search:    "Harbor Fish Grill Tavern (Pier 3)",
			catalog:   catalogOf("Fish Harbor Grill"),
			wantID:    "L1",
			wantRule:  RuleSuffixedSimilar,
			wantScore: 0.75 * SuffixSimilarityWeight,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp := Explain(tt.search, tt.catalog)
			require.True(t, exp.Matched)
			assert.Equal(t, tt.wantID, exp.LocationID)
			assert.Equal(t, tt.wantRule, exp.Rule)
			assert.InDelta(t, tt.wantScore, exp.Score, 1e-9)
		})
	}
}

func TestExplain_PlainScores(t *testing.T) {
	tests := []struct {
		name      string
		search    string
		catalog   []model.Location
		wantRule  Rule
		wantScore float64
	}{
		{"primary containment", "Blue Door", catalogOf("Blue Door Cafe"), RulePrimaryContains, ScorePrimaryContains},
		{"all keywords", "Grill Harbor", catalogOf("Harbor Grill House"), RuleAllKeywords, ScoreKeywords},
		{"similarity above floor", "Harbor Fish Grill Tavern", catalogOf("Fish Harbor Grill"), RuleSimilarity, 0.75},
		{"definitive primary name", "An Oyster Bar", catalogOf("The Oyster Bar"), RulePrimaryName, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp := Explain(tt.search, tt.catalog)
			require.True(t, exp.Matched)
			assert.Equal(t, "L1", exp.LocationID)
			assert.Equal(t, tt.wantRule, exp.Rule)
			assert.InDelta(t, tt.wantScore, exp.Score, 1e-9)
		})
	}
}

func TestExplain_HighestScoreWins(t *testing.T) {
	// L1 scores ScoreKeywords, L2 scores ScorePrimaryContains.
	catalog := catalogOf("Harbor Grill House", "Grill Harbor Bar")

	exp := Explain("Grill Harbor", catalog)

	require.True(t, exp.Matched)
	assert.Equal(t, "L2", exp.LocationID)
	require.Len(t, exp.Candidates, 2)
	assert.Equal(t, "L2", exp.Candidates[0].LocationID)
	assert.Equal(t, "L1", exp.Candidates[1].LocationID)
}

func TestExplain_TiesKeepCatalogOrder(t *testing.T) {
	catalog := catalogOf("Acme Pizza Company", "Acme Pizza")

	exp := Explain("Acme Pizza (Downtown)", catalog)

	require.True(t, exp.Matched)
	assert.Equal(t, "L1", exp.LocationID)
	require.Len(t, exp.Candidates, 2)
	assert.InDelta(t, exp.Candidates[0].Score, exp.Candidates[1].Score, 1e-9)
}

func TestExplain_SimilarityFloors(t *testing.T) {
	const (
		searchBase = "Alpha Bravo Charlie Delta Echo Foxtrot Golf"
		dbName     = "Alpha Bravo Charlie Delta Hotel"
	)

	sim := CalculateSimilarity(searchBase, dbName)
	require.Greater(t, sim, SuffixSimilarityFloor)
	require.Less(t, sim, PlainSimilarityFloor)

	t.Run("no suffix applies the stricter floor", func(t *testing.T) {
		exp := Explain(searchBase, catalogOf(dbName))
		assert.False(t, exp.Matched)
		assert.Empty(t, exp.Candidates, "similarity below the plain floor contributes nothing")
	})

	t.Run("one-sided suffix applies the lower floor", func(t *testing.T) {
		exp := Explain(searchBase+" (Uptown)", catalogOf(dbName))
		require.Len(t, exp.Candidates, 1)
		assert.Equal(t, RuleSuffixedSimilar, exp.Candidates[0].Rule)
		assert.InDelta(t, sim*SuffixSimilarityWeight, exp.Candidates[0].Score, 1e-9)
		assert.False(t, exp.Matched, "weighted score stays below the acceptance threshold")
	})

	t.Run("catalog-side suffix applies the lower floor", func(t *testing.T) {
		exp := Explain(searchBase, catalogOf(dbName+" (Uptown)"))
		require.Len(t, exp.Candidates, 1)
		assert.InDelta(t, sim*SuffixSimilarityWeight, exp.Candidates[0].Score, 1e-9)
	})
}

func TestMatchLocation_DoesNotMutateCatalog(t *testing.T) {
	catalog := catalogOf("Acme (Downtown)", "Acme (Uptown)", "The Coffee House", "Joe's Pizza")
	before := make([]model.Location, len(catalog))
	copy(before, catalog)

	for _, name := range []string{"Acme - Uptown", "coffee house", "joes", "Joe's Pizza (Annex)"} {
		MatchLocation(name, catalog)
	}

	assert.Equal(t, before, catalog)
}

func TestMatchLocation_Deterministic(t *testing.T) {
	catalog := catalogOf(
		"Acme (Downtown)", "Acme (Uptown)", "The Coffee House", "Joe's Pizza",
		"Harbor Grill House", "Grill Harbor Bar", "Fish Harbor Grill", "Blue Door Cafe",
	)
	names := []string{
		"Acme - Uptown", "Coffee House", "JOE'S PIZZA", "Grill Harbor",
		"Harbor Fish Grill Tavern", "Blue Door", "Zephyr", "Acme (Midtown)",
	}

	want := make([]string, len(names))
	for i, name := range names {
		want[i], _ = MatchLocation(name, catalog)
	}

	// Reverse order, repeated, concurrently: every result must be unchanged.
	got := make([]string, len(names))
	var wg sync.WaitGroup
	for round := 0; round < 4; round++ {
		for i := len(names) - 1; i >= 0; i-- {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				id, _ := MatchLocation(names[i], catalog)
				if round == 3 {
					got[i] = id
				}
			}(i)
		}
		wg.Wait()
	}

	assert.Equal(t, want, got)
}
