package locmatch

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	parenSuffixRe  = regexp.MustCompile(`^(.+?)\s*\(([^()]+)\)$`)
	dashSuffixRe   = regexp.MustCompile(`^(.+)\s+-\s+(.+)$`)
	parentheticRe  = regexp.MustCompile(`\([^)]*\)`)
	leadingArticle = regexp.MustCompile(`^(the|a|an)\s+`)
)

// stopWords never count as significant keywords.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
	"with": {}, "by": {}, "club": {},
}

// Normalize lowercases s, trims it and collapses internal whitespace runs
// to single spaces.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// NameParts is a venue name split into its establishment base and an
// optional branch qualifier.
type NameParts struct {
	Base   string
	Suffix string
}

// HasSuffix reports whether a branch qualifier was found.
func (p NameParts) HasSuffix() bool {
	return p.Suffix != ""
}

// ParseNameParts splits a name into base and suffix. A trailing
// parenthetical wins over a trailing " - " segment, which splits at the
// last dash:
//   - "Acme (Downtown)"        -> {acme, downtown}
//   - "Acme - Downtown"        -> {acme, downtown}
//   - "Bar - Grill - Downtown" -> {bar - grill, downtown}
//   - "Acme"                   -> {acme, ""}
func ParseNameParts(name string) NameParts {
	n := Normalize(name)

	if m := parenSuffixRe.FindStringSubmatch(n); m != nil {
		if parts, ok := newNameParts(m[1], m[2]); ok {
			return parts
		}
	}

	if m := dashSuffixRe.FindStringSubmatch(n); m != nil {
		if parts, ok := newNameParts(m[1], m[2]); ok {
			return parts
		}
	}

	return NameParts{Base: n}
}

func newNameParts(base, suffix string) (NameParts, bool) {
	base = strings.TrimSpace(base)
	suffix = strings.TrimSpace(suffix)
	if base == "" || suffix == "" {
		return NameParts{}, false
	}
	return NameParts{Base: base, Suffix: suffix}, true
}

// ExtractKeyWords returns the significant words of name: parentheticals
// removed, lowercased, stop-words and single-character tokens dropped.
// Each word appears once, in first-seen order.
func ExtractKeyWords(name string) []string {
	stripped := parentheticRe.ReplaceAllString(name, " ")

	fields := strings.Fields(strings.ToLower(stripped))
	words := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))

	for _, w := range fields {
		if utf8.RuneCountInString(w) <= 1 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, w)
	}

	return words
}

// ExtractPrimaryName strips parentheticals and one leading article, then
// normalizes. "The Coffee House (Main St)" -> "coffee house".
func ExtractPrimaryName(name string) string {
	stripped := Normalize(parentheticRe.ReplaceAllString(name, " "))
	return Normalize(leadingArticle.ReplaceAllString(stripped, ""))
}

// wordsMatch compares two keywords by equality or substring containment
// in either direction.
func wordsMatch(a, b string) bool {
	return a == b || strings.Contains(a, b) || strings.Contains(b, a)
}

// matchesAny reports whether word matches at least one of words.
func matchesAny(word string, words []string) bool {
	for _, w := range words {
		if wordsMatch(word, w) {
			return true
		}
	}
	return false
}

// allKeywordsMatch reports whether every search keyword matches some
// catalog keyword. An empty search set never matches.
func allKeywordsMatch(search, catalog []string) bool {
	if len(search) == 0 || len(catalog) == 0 {
		return false
	}
	for _, w := range search {
		if !matchesAny(w, catalog) {
			return false
		}
	}
	return true
}

// primaryContains reports whether either primary name contains the other.
func primaryContains(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
