// Package tui implements the interactive resolver for unmatched import rows.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/waseemisle/hey-spruceapp-sub000/internal/importer"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/locmatch"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/model"
)

const (
	// suggestionCount is how many scored candidates lead the list.
	suggestionCount = 5
	defaultVisible  = 10
)

// Decision is the operator's verdict on one unmatched row.
type Decision struct {
	Result     model.RowResult
	LocationID string
	Remember   bool
	Skipped    bool
}

// ResolverModel walks the operator through unmatched rows one at a time.
type ResolverModel struct {
	theme     Theme
	keys      KeyMap
	help      help.Model
	filter    textinput.Model
	catalog   []model.Location
	queue     []model.RowResult
	decisions []Decision
	options   locmatch.CandidateList
	current   int
	cursor    int
	offset    int
	height    int
	remember  bool
	quitting  bool
}

// NewResolverModel creates a resolver over rows using catalog for suggestions.
func NewResolverModel(rows []model.RowResult, catalog []model.Location, theme Theme) ResolverModel {
	filter := textinput.New()
	filter.Placeholder = "type / to filter locations..."
	filter.Prompt = "Filter: "
	filter.CharLimit = 80

	m := ResolverModel{
		theme:   theme,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		filter:  filter,
		catalog: catalog,
		queue:   rows,
	}
	m.refreshOptions()
	return m
}

// Init returns initial commands.
func (m ResolverModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m ResolverModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.filter.Focused() {
			return m.handleFilterKey(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m ResolverModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)

	case key.Matches(msg, m.keys.Remember):
		m.remember = !m.remember

	case key.Matches(msg, m.keys.Filter):
		cmd := m.filter.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Select):
		return m.choose()

	case key.Matches(msg, m.keys.Skip):
		return m.skip()
	}

	return m, nil
}

// handleFilterKey routes keys while the filter has focus. Letters go to the
// input, so only arrows navigate.
func (m ResolverModel) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filter.Blur()
		return m, nil
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyUp:
		m.moveCursor(-1)
		return m, nil
	case tea.KeyDown:
		m.moveCursor(1)
		return m, nil
	case tea.KeyEnter:
		m.filter.Blur()
		return m.choose()
	case tea.KeyTab:
		m.remember = !m.remember
		return m, nil
	case tea.KeyCtrlS:
		m.filter.Blur()
		return m.skip()
	}

	before := m.filter.Value()
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() != before {
		m.refreshOptions()
	}
	return m, cmd
}

func (m *ResolverModel) moveCursor(delta int) {
	if len(m.options) == 0 {
		return
	}
	m.cursor = max(0, min(len(m.options)-1, m.cursor+delta))

	visible := m.visibleCount()
	if m.cursor < m.offset {
		m.offset = m.cursor
	} else if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
}

func (m ResolverModel) choose() (tea.Model, tea.Cmd) {
	if m.Done() || len(m.options) == 0 {
		return m, nil
	}
	m.decisions = append(m.decisions, Decision{
		Result:     m.queue[m.current],
		LocationID: m.options[m.cursor].LocationID,
		Remember:   m.remember,
	})
	return m.advance()
}

func (m ResolverModel) skip() (tea.Model, tea.Cmd) {
	if m.Done() {
		return m, nil
	}
	m.decisions = append(m.decisions, Decision{
		Result:  m.queue[m.current],
		Skipped: true,
	})
	return m.advance()
}

func (m ResolverModel) advance() (tea.Model, tea.Cmd) {
	m.current++
	m.cursor = 0
	m.offset = 0
	m.remember = false
	m.filter.Reset()

	if m.Done() {
		m.quitting = true
		return m, tea.Quit
	}
	m.refreshOptions()
	return m, nil
}

// refreshOptions rebuilds the option list for the current row and filter.
func (m *ResolverModel) refreshOptions() {
	m.cursor = 0
	m.offset = 0
	if m.Done() {
		m.options = nil
		return
	}

	all := importer.Suggest(m.catalog, m.queue[m.current].Row.LocationName, suggestionCount)
	m.options = importer.FilterSuggestions(all, m.filter.Value())
}

func (m ResolverModel) visibleCount() int {
	if m.height <= 0 {
		return defaultVisible
	}
	// Header, filter, status and help take about ten lines.
	return max(3, m.height-10)
}

// Decisions returns every decision made so far, in order.
func (m ResolverModel) Decisions() []Decision {
	out := make([]Decision, len(m.decisions))
	copy(out, m.decisions)
	return out
}

// Done reports whether every queued row has a decision.
func (m ResolverModel) Done() bool {
	return m.current >= len(m.queue)
}

// Selected returns the highlighted option, if any.
func (m ResolverModel) Selected() (locmatch.Candidate, bool) {
	if len(m.options) == 0 {
		return locmatch.Candidate{}, false
	}
	return m.options[m.cursor], true
}

// Options returns the options shown for the current row.
func (m ResolverModel) Options() locmatch.CandidateList {
	return m.options
}

// Remembering reports whether the next choice will be saved as an alias.
func (m ResolverModel) Remembering() bool {
	return m.remember
}

// View renders the resolver.
func (m ResolverModel) View() string {
	if m.quitting || m.Done() {
		return ""
	}

	row := m.queue[m.current]
	var b strings.Builder

	b.WriteString(m.theme.Title.Render(fmt.Sprintf("Resolve row %d  (%d of %d)", row.Row.Number, m.current+1, len(m.queue))))
	b.WriteString("\n")
	b.WriteString(m.theme.Subtitle.Render("Imported name: "))
	b.WriteString(m.theme.Normal.Render(row.Row.LocationName))
	b.WriteString("\n\n")
	b.WriteString(m.filter.View())
	b.WriteString("\n\n")

	if len(m.options) == 0 {
		b.WriteString(m.theme.StatusError.Render("No locations match the filter"))
		b.WriteString("\n")
	}

	end := min(len(m.options), m.offset+m.visibleCount())
	for i := m.offset; i < end; i++ {
		c := m.options[i]
		line := fmt.Sprintf("%-40s %s", c.Name, m.theme.Muted.Render(c.LocationID))
		if c.Score > 0 {
			line += " " + m.theme.Score.Render(fmt.Sprintf("%.2f", c.Score))
		}
		if i == m.cursor {
			b.WriteString(m.theme.Selected.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.remember {
		b.WriteString(m.theme.Remember.Render("[x] remember this name for future imports"))
	} else {
		b.WriteString(m.theme.Muted.Render("[ ] remember this name for future imports"))
	}
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))

	return m.theme.Box.Render(b.String())
}
