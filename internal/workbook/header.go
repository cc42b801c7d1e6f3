package workbook

import (
	"fmt"
	"strings"
)

// NameHeaderKeywords are matched against header text, in priority order,
// to find the venue name column.
var NameHeaderKeywords = []string{
	"location",
	"restaurant",
	"venue",
	"store",
	"site",
	"property",
	"client",
	"name",
}

// DetectNameColumn returns the index of the venue name column.
func DetectNameColumn(header []string, override string) (int, error) {
	col, err := DetectColumn(header, override, NameHeaderKeywords)
	if err != nil {
		return -1, fmt.Errorf("%w: %w", ErrNoNameColumn, err)
	}
	return col, nil
}

// DetectColumn finds a column by explicit header name, or else by the first
// keyword (in order) that some header contains. Comparison ignores case and
// surrounding or repeated whitespace.
func DetectColumn(header []string, override string, keywords []string) (int, error) {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = normalizeHeader(h)
	}

	if override != "" {
		want := normalizeHeader(override)
		for i, h := range normalized {
			if h == want {
				return i, nil
			}
		}
		return -1, fmt.Errorf("header %q not present in %v", override, header)
	}

	for _, kw := range keywords {
		for i, h := range normalized {
			if h != "" && strings.Contains(h, kw) {
				return i, nil
			}
		}
	}

	return -1, fmt.Errorf("none of %v found in %v", keywords, header)
}

func normalizeHeader(header string) string {
	return strings.Join(strings.Fields(strings.ToLower(header)), " ")
}
