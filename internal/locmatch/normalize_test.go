package locmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Joe's Pizza", "joe's pizza"},
		{"  JOE'S   PIZZA  ", "joe's pizza"},
		{"Downtown\tGrill\n(Main St)", "downtown grill (main st)"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestParseNameParts(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected NameParts
	}{
		{"parenthetical suffix", "Acme (Downtown)", NameParts{Base: "acme", Suffix: "downtown"}},
		{"dash suffix", "Acme - Downtown", NameParts{Base: "acme", Suffix: "downtown"}},
		{"no suffix", "Acme", NameParts{Base: "acme"}},
		{"messy whitespace", "  Downtown Grill   (Main  St) ", NameParts{Base: "downtown grill", Suffix: "main st"}},
		{"last parenthetical wins", "A (b) (c)", NameParts{Base: "a (b)", Suffix: "c"}},
		{"dash without spaces is part of the name", "Acme-Downtown", NameParts{Base: "acme-downtown"}},
		{"last dash splits", "Bar - Grill - East", NameParts{Base: "bar - grill", Suffix: "east"}},
		{"parenthetical alone is not a suffix", "(Downtown)", NameParts{Base: "(downtown)"}},
		{"parenthetical beats dash", "Acme - East (Unit 4)", NameParts{Base: "acme - east", Suffix: "unit 4"}},
		{"empty", "", NameParts{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts := ParseNameParts(tt.input)
			assert.Equal(t, tt.expected, parts)
			assert.Equal(t, tt.expected.Suffix != "", parts.HasSuffix())
		})
	}
}

func TestExtractKeyWords(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"The Club at Pier 39 (Main St)", []string{"pier", "39"}},
		{"Joe's Pizza Pizza", []string{"joe's", "pizza"}},
		{"A B cd", []string{"cd"}},
		{"Fish AND Chips of London", []string{"fish", "chips", "london"}},
		{"The And Of", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			words := ExtractKeyWords(tt.input)
			if tt.expected == nil {
				assert.Empty(t, words)
				return
			}
			assert.Equal(t, tt.expected, words)
		})
	}
}

func TestExtractPrimaryName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"The Coffee House (Main St)", "coffee house"},
		{"An Apple a Day", "apple a day"},
		{"Theater Grill", "theater grill"},
		{"  THE   Spot ", "spot"},
		{"The", "the"},
		{"A (b) Bistro", "bistro"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractPrimaryName(tt.input))
		})
	}
}

func TestAllKeywordsMatch(t *testing.T) {
	assert.True(t, allKeywordsMatch([]string{"grill", "harbor"}, []string{"harbor", "grill", "house"}))
	assert.True(t, allKeywordsMatch([]string{"burger"}, []string{"burgers"}), "substring counts as a match")
	assert.True(t, allKeywordsMatch([]string{"burgers"}, []string{"burger"}), "containment works both ways")
	assert.False(t, allKeywordsMatch([]string{"grill", "tavern"}, []string{"grill"}))
	assert.False(t, allKeywordsMatch(nil, []string{"grill"}), "empty search set never matches")
	assert.False(t, allKeywordsMatch([]string{"grill"}, nil))
}
