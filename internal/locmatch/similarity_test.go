package locmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		search   string
		db       string
		expected float64
	}{
		{"identical after normalization", "Joe's Pizza", "  joe's   PIZZA", 1.0},
		{"stop words only", "The", "Zephyr", 0},
		{"no overlap", "Totally Unrelated Name", "Zephyr Bistro", 0},
		{"partial overlap", "Harbor Fish Grill Tavern", "Fish Harbor Grill", 0.75},
		{"containment beats overlap", "Pizza Palace", "Pizza", ContainsScore},
		{"substring words", "Burger", "Burgers Inc", ContainsScore},
		{"full overlap in different order", "Grill Harbor", "Harbor Grill", 1.0},
		{"parentheticals ignored", "Blue Door (Main St)", "Blue Door (2nd Ave)", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, CalculateSimilarity(tt.search, tt.db), 1e-9)
		})
	}
}

func TestCalculateSimilarity_Range(t *testing.T) {
	pairs := [][2]string{
		{"Alpha Bravo Charlie Delta Echo Foxtrot Golf", "Alpha Bravo Charlie Delta Hotel"},
		{"a", "b"},
		{"", ""},
		{"The Club", "Club"},
	}

	for _, p := range pairs {
		sim := CalculateSimilarity(p[0], p[1])
		assert.GreaterOrEqual(t, sim, 0.0, "%q vs %q", p[0], p[1])
		assert.LessOrEqual(t, sim, 1.0, "%q vs %q", p[0], p[1])
	}
}
