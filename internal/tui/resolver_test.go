package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waseemisle/hey-spruceapp-sub000/internal/model"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/testutil/locations"
)

func unmatched(names ...string) []model.RowResult {
	out := make([]model.RowResult, len(names))
	for i, n := range names {
		out[i] = model.RowResult{
			Row:    model.ImportRow{Number: i + 2, LocationName: n},
			Method: model.MethodNone,
			Status: model.RowUnmatched,
		}
	}
	return out
}

func send(t *testing.T, m ResolverModel, msgs ...tea.Msg) (ResolverModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		var ok bool
		m, ok = next.(ResolverModel)
		require.True(t, ok)
	}
	return m, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestResolverModel_SuggestionsLeadTheList(t *testing.T) {
	m := NewResolverModel(unmatched("Roxy Bar (Hollywood)"), locations.RestaurantGroup, PlainTheme)

	opts := m.Options()
	require.Len(t, opts, len(locations.RestaurantGroup))
	assert.Equal(t, locations.TheRoxy, opts[0].LocationID)

	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, locations.TheRoxy, sel.LocationID)
}

func TestResolverModel_Navigation(t *testing.T) {
	m := NewResolverModel(unmatched("Mystery"), locations.RestaurantGroup, PlainTheme)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyDown}, runes("j"))
	sel, _ := m.Selected()
	assert.Equal(t, m.Options()[2].LocationID, sel.LocationID)

	m, _ = send(t, m, runes("k"))
	sel, _ = m.Selected()
	assert.Equal(t, m.Options()[1].LocationID, sel.LocationID)

	// The cursor stops at the edges
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp})
	sel, _ = m.Selected()
	assert.Equal(t, m.Options()[0].LocationID, sel.LocationID)
}

func TestResolverModel_SelectRememberAndSkip(t *testing.T) {
	m := NewResolverModel(unmatched("Roxy Bar (Hollywood)", "Mystery"), locations.RestaurantGroup, PlainTheme)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.True(t, m.Remembering())

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.False(t, m.Remembering(), "remember resets for the next row")
	assert.False(t, m.Done())

	m, cmd = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.True(t, m.Done())
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	decisions := m.Decisions()
	require.Len(t, decisions, 2)
	assert.Equal(t, locations.TheRoxy, decisions[0].LocationID)
	assert.True(t, decisions[0].Remember)
	assert.Equal(t, 2, decisions[0].Result.Row.Number)
	assert.True(t, decisions[1].Skipped)
	assert.Empty(t, decisions[1].LocationID)
}

func TestResolverModel_Filter(t *testing.T) {
	m := NewResolverModel(unmatched("Mystery"), locations.RestaurantGroup, PlainTheme)

	m, _ = send(t, m, runes("/"))
	m, _ = send(t, m, runes("n"), runes("i"), runes("c"), runes("e"))

	opts := m.Options()
	require.Len(t, opts, 1)
	assert.Equal(t, locations.NiceGuy, opts[0].LocationID)

	// Letters type into the filter instead of navigating
	m = NewResolverModel(unmatched("Mystery"), locations.RestaurantGroup, PlainTheme)
	m, _ = send(t, m, runes("/"), runes("j"))
	assert.Empty(t, m.Options())

	// Esc leaves the filter without quitting
	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	assert.False(t, m.Done())

	// Enter on an empty list does nothing
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Empty(t, m.Decisions())
}

func TestResolverModel_FilterThenEnter(t *testing.T) {
	m := NewResolverModel(unmatched("Mystery"), locations.RestaurantGroup, PlainTheme)

	m, _ = send(t, m, runes("/"), runes("b"), runes("i"), runes("r"), runes("d"))
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	decisions := m.Decisions()
	require.Len(t, decisions, 1)
	assert.Equal(t, locations.BirdStreets, decisions[0].LocationID)
	assert.True(t, m.Done())
}

func TestResolverModel_Quit(t *testing.T) {
	m := NewResolverModel(unmatched("Mystery", "Other"), locations.RestaurantGroup, PlainTheme)

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.Decisions())
	assert.Empty(t, m.View())
}

func TestResolverModel_View(t *testing.T) {
	m := NewResolverModel(unmatched("Roxy Bar (Hollywood)"), locations.RestaurantGroup, PlainTheme)
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	view := m.View()
	assert.Contains(t, view, "Resolve row 2")
	assert.Contains(t, view, "Roxy Bar (Hollywood)")
	assert.Contains(t, view, "> The Roxy Theatre")
	assert.Contains(t, view, "0.35")
	assert.Contains(t, view, "[ ] remember")
}
