package locmatch

import (
	"github.com/waseemisle/hey-spruceapp-sub000/internal/model"
)

// Scores assigned per match structure. They are tuned trust levels and must
// stay as they are for results to remain comparable across imports.
const (
	// ScoreSearchSuffixPrimary: search carries a branch suffix, catalog base
	// equals or contains the search base.
	ScoreSearchSuffixPrimary = 0.95
	// ScorePrimaryContains: neither side has a suffix, one primary name
	// contains the other.
	ScorePrimaryContains = 0.9
	// ScoreSearchSuffixKeywords: search carries a suffix, every search base
	// keyword appears in the catalog base.
	ScoreSearchSuffixKeywords = 0.85
	// ScoreCatalogSuffixPrimary: only the catalog entry carries a suffix,
	// primary names agree.
	ScoreCatalogSuffixPrimary = 0.85
	// ScoreKeywords: no suffixes, every search keyword appears in the catalog name.
	ScoreKeywords = 0.8
	// ScoreCatalogSuffixKeywords: only the catalog entry carries a suffix,
	// every search keyword appears in the catalog base.
	ScoreCatalogSuffixKeywords = 0.75

	// SuffixSimilarityWeight scales the similarity fallback when exactly one
	// side carries a suffix.
	SuffixSimilarityWeight = 0.7
	// ContainsScore is the similarity granted when one keyword string
	// contains the other.
	ContainsScore = 0.7

	// SuffixSimilarityFloor is the minimum raw similarity considered when
	// exactly one side carries a suffix.
	SuffixSimilarityFloor = 0.5
	// PlainSimilarityFloor is the minimum raw similarity considered when
	// neither side carries a suffix.
	PlainSimilarityFloor = 0.6

	// AcceptThreshold is the minimum score for the best candidate to be
	// returned as a match.
	AcceptThreshold = 0.5
)

// Rule names the case that produced a score or a decision.
type Rule string

// Matching rules.
const (
	RuleExactName        Rule = "exact-name"
	RuleSuffixMatch      Rule = "suffix-match"
	RulePrimaryName      Rule = "primary-name"
	RulePrimaryContains  Rule = "primary-contains"
	RuleAllKeywords      Rule = "all-keywords"
	RuleSimilarity       Rule = "similarity"
	RuleSuffixedPrimary  Rule = "suffixed-primary"
	RuleSuffixedKeywords Rule = "suffixed-keywords"
	RuleSuffixedSimilar  Rule = "suffixed-similarity"
)

// ExclusionReason explains why a catalog entry was removed from
// consideration outright.
type ExclusionReason string

// Exclusion reasons.
const (
	// ExcludedSuffixMismatch: same base, different branch.
	ExcludedSuffixMismatch ExclusionReason = "suffix mismatch"
	// ExcludedBaseMismatch: both sides carry a branch suffix but the
	// establishment bases differ.
	ExcludedBaseMismatch ExclusionReason = "base mismatch"
)

// Exclusion records a catalog entry that contributed no score.
type Exclusion struct {
	LocationID string
	Name       string
	Reason     ExclusionReason
}

// Explanation is the full trace of one matching run.
type Explanation struct {
	SearchName   string
	LocationID   string
	LocationName string
	Rule         Rule
	Candidates   CandidateList
	Exclusions   []Exclusion
	Score        float64
	Matched      bool
}

// MatchLocation returns the id of the catalog location that best matches
// searchName, and false when no candidate reaches AcceptThreshold.
func MatchLocation(searchName string, catalog []model.Location) (string, bool) {
	exp := Explain(searchName, catalog)
	return exp.LocationID, exp.Matched
}

// Explain matches searchName against catalog and reports how the decision
// was reached. Definitive rules (exact name, matching branch suffix, exact
// primary name) end the search at the first catalog entry that satisfies
// them; otherwise the highest scoring candidate wins if it reaches
// AcceptThreshold.
func Explain(searchName string, catalog []model.Location) Explanation {
	exp := Explanation{SearchName: searchName}

	normalized := Normalize(searchName)
	if normalized == "" || len(catalog) == 0 {
		return exp
	}

	for _, loc := range catalog {
		if Normalize(loc.Name) == normalized {
			return exp.accept(loc, 1.0, RuleExactName)
		}
	}

	search := newSubject(searchName)

	for i, loc := range catalog {
		db := newSubject(loc.Name)

		switch {
		case search.parts.HasSuffix() && db.parts.HasSuffix():
			if search.primary == "" || search.primary != db.primary {
				exp.exclude(loc, ExcludedBaseMismatch)
				continue
			}
			if search.parts.Suffix == db.parts.Suffix {
				return exp.accept(loc, 1.0, RuleSuffixMatch)
			}
			exp.exclude(loc, ExcludedSuffixMismatch)

		case search.parts.HasSuffix():
			score, rule := scoreOneSided(search, db, ScoreSearchSuffixPrimary, ScoreSearchSuffixKeywords)
			exp.consider(i, loc, score, rule)

		case db.parts.HasSuffix():
			score, rule := scoreOneSided(search, db, ScoreCatalogSuffixPrimary, ScoreCatalogSuffixKeywords)
			exp.consider(i, loc, score, rule)

		default:
			if search.primary != "" && search.primary == db.primary {
				return exp.accept(loc, 1.0, RulePrimaryName)
			}
			score, rule := scorePlain(search, db)
			exp.consider(i, loc, score, rule)
		}
	}

	exp.Candidates.Rank()

	if accepted := exp.Candidates.AboveThreshold(AcceptThreshold); len(accepted) > 0 {
		best := accepted[0]
		exp.Matched = true
		exp.LocationID = best.LocationID
		exp.LocationName = best.Name
		exp.Score = best.Score
		exp.Rule = best.Rule
	}

	return exp
}

// subject holds the derived forms of one name.
type subject struct {
	parts    NameParts
	primary  string
	keywords []string
}

func newSubject(name string) subject {
	parts := ParseNameParts(name)
	return subject{
		parts:    parts,
		primary:  ExtractPrimaryName(parts.Base),
		keywords: ExtractKeyWords(parts.Base),
	}
}

// scoreOneSided scores a pair where exactly one side has a branch suffix.
// Only the bases are compared.
func scoreOneSided(search, db subject, primaryScore, keywordScore float64) (float64, Rule) {
	if search.primary != "" && (search.primary == db.primary || primaryContains(search.primary, db.primary)) {
		return primaryScore, RuleSuffixedPrimary
	}

	if allKeywordsMatch(search.keywords, db.keywords) {
		return keywordScore, RuleSuffixedKeywords
	}

	if sim := CalculateSimilarity(search.parts.Base, db.parts.Base); sim >= SuffixSimilarityFloor {
		return sim * SuffixSimilarityWeight, RuleSuffixedSimilar
	}

	return 0, ""
}

// scorePlain scores a pair where neither side has a branch suffix.
func scorePlain(search, db subject) (float64, Rule) {
	if primaryContains(search.primary, db.primary) {
		return ScorePrimaryContains, RulePrimaryContains
	}

	if allKeywordsMatch(search.keywords, db.keywords) {
		return ScoreKeywords, RuleAllKeywords
	}

	if sim := CalculateSimilarity(search.parts.Base, db.parts.Base); sim >= PlainSimilarityFloor {
		return sim, RuleSimilarity
	}

	return 0, ""
}

func (e Explanation) accept(loc model.Location, score float64, rule Rule) Explanation {
	e.Matched = true
	e.LocationID = loc.ID
	e.LocationName = loc.Name
	e.Score = score
	e.Rule = rule
	return e
}

func (e *Explanation) consider(index int, loc model.Location, score float64, rule Rule) {
	if score <= 0 {
		return
	}
	e.Candidates = append(e.Candidates, Candidate{
		LocationID: loc.ID,
		Name:       loc.Name,
		Score:      score,
		Rule:       rule,
		index:      index,
	})
}

func (e *Explanation) exclude(loc model.Location, reason ExclusionReason) {
	e.Exclusions = append(e.Exclusions, Exclusion{
		LocationID: loc.ID,
		Name:       loc.Name,
		Reason:     reason,
	})
}
