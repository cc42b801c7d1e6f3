package locmatch

import "sort"

// Candidate is a catalog location scored against one search name.
type Candidate struct {
	LocationID string
	Name       string
	Rule       Rule
	Score      float64

	// index is the catalog position, used to keep ties in catalog order.
	index int
}

// CandidateList is a list of candidates with ranking functionality.
type CandidateList []Candidate

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface.
// Sorts by score descending, then by catalog position.
func (c CandidateList) Less(i, j int) bool {
	if c[i].Score != c[j].Score {
		return c[i].Score > c[j].Score
	}
	return c[i].index < c[j].index
}

// Rank sorts the list in place and returns it.
func (c CandidateList) Rank() CandidateList {
	sort.Sort(c)
	return c
}

// Best returns the best candidate, or nil if no candidates.
func (c CandidateList) Best() *Candidate {
	if len(c) == 0 {
		return nil
	}
	return &c[0]
}

// Top returns the top n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n >= len(c) {
		return c
	}
	return c[:n]
}

// AboveThreshold returns candidates scoring at or above threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var result CandidateList
	for _, cand := range c {
		if cand.Score >= threshold {
			result = append(result, cand)
		}
	}
	return result
}
