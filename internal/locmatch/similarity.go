package locmatch

import "strings"

// CalculateSimilarity scores how alike a search name and a catalog name
// are, in [0,1]. Identical normalized names score 1. Otherwise the score is
// the larger of the keyword overlap ratio and ContainsScore when one
// keyword string contains the other.
func CalculateSimilarity(searchName, dbName string) float64 {
	if Normalize(searchName) == Normalize(dbName) {
		return 1.0
	}

	searchWords := ExtractKeyWords(searchName)
	dbWords := ExtractKeyWords(dbName)
	if len(searchWords) == 0 || len(dbWords) == 0 {
		return 0
	}

	return max(wordOverlapScore(searchWords, dbWords), containsScore(searchWords, dbWords))
}

// wordOverlapScore is the share of search keywords matching some catalog
// keyword, over the larger of the two keyword counts.
func wordOverlapScore(searchWords, dbWords []string) float64 {
	matched := 0
	for _, w := range searchWords {
		if matchesAny(w, dbWords) {
			matched++
		}
	}
	return float64(matched) / float64(max(len(searchWords), len(dbWords)))
}

func containsScore(searchWords, dbWords []string) float64 {
	a := strings.Join(searchWords, " ")
	b := strings.Join(dbWords, " ")
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return ContainsScore
	}
	return 0
}
