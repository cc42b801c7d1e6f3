package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waseemisle/hey-spruceapp-sub000/internal/model"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/testutil/locations"
)

func unmatchedRows() []model.RowResult {
	return []model.RowResult{
		{
			Row:    model.ImportRow{Number: 3, LocationName: "Roxy Bar (Hollywood)"},
			Method: model.MethodNone,
			Status: model.RowUnmatched,
		},
		{
			Row:    model.ImportRow{Number: 5, LocationName: "Mystery Spot"},
			Method: model.MethodNone,
			Status: model.RowUnmatched,
		},
	}
}

func TestPrompter_Resolve(t *testing.T) {
	catalog := locations.RestaurantGroup

	t.Run("pick with remember then skip", func(t *testing.T) {
		var out bytes.Buffer
		p := NewPrompter(strings.NewReader("1!\ns\n"), &out)

		decisions, err := p.Resolve(context.Background(), unmatchedRows(), catalog)
		require.NoError(t, err)
		require.Len(t, decisions, 2)

		assert.Equal(t, locations.TheRoxy, decisions[0].LocationID)
		assert.True(t, decisions[0].Remember)
		assert.Equal(t, 3, decisions[0].Result.Row.Number)

		assert.True(t, decisions[1].Skipped)
		assert.Empty(t, decisions[1].LocationID)
		assert.Contains(t, out.String(), "Roxy Bar (Hollywood)")
		assert.Contains(t, out.String(), "Row 5 (2 of 2)")
	})

	t.Run("filter narrows the list", func(t *testing.T) {
		var out bytes.Buffer
		p := NewPrompter(strings.NewReader("miami\n1\nq\n"), &out)

		decisions, err := p.Resolve(context.Background(), unmatchedRows(), catalog)
		require.NoError(t, err)
		require.Len(t, decisions, 1)
		assert.Equal(t, locations.DelilahMiami, decisions[0].LocationID)
		assert.False(t, decisions[0].Remember)
		assert.Contains(t, out.String(), "Filter: miami")
	})

	t.Run("out of range number asks again", func(t *testing.T) {
		var out bytes.Buffer
		p := NewPrompter(strings.NewReader("99\n1\n"), &out)

		decisions, err := p.Resolve(context.Background(), unmatchedRows()[:1], catalog)
		require.NoError(t, err)
		require.Len(t, decisions, 1)
		assert.Equal(t, locations.TheRoxy, decisions[0].LocationID)
		assert.Contains(t, out.String(), "between 1 and 7")
	})

	t.Run("end of input keeps earlier decisions", func(t *testing.T) {
		p := NewPrompter(strings.NewReader("s\n"), &bytes.Buffer{})

		decisions, err := p.Resolve(context.Background(), unmatchedRows(), catalog)
		require.NoError(t, err)
		require.Len(t, decisions, 1)
		assert.True(t, decisions[0].Skipped)
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		p := NewPrompter(strings.NewReader("1\n"), &bytes.Buffer{})

		decisions, err := p.Resolve(ctx, unmatchedRows(), catalog)
		assert.ErrorIs(t, err, ErrInputCancelled)
		assert.Empty(t, decisions)
	})
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		input    string
		choice   int
		remember bool
		ok       bool
	}{
		{input: "2", choice: 2, ok: true},
		{input: " 4! ", choice: 4, remember: true, ok: true},
		{input: "roxy", ok: false},
		{input: "!", ok: false},
		{input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			choice, remember, ok := parseChoice(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.choice, choice)
			assert.Equal(t, tt.remember, remember)
		})
	}
}
