package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/waseemisle/hey-spruceapp-sub000/internal/model"
)

// Run shows the resolver for rows and returns the decisions made before the
// operator finished or quit.
func Run(ctx context.Context, rows []model.RowResult, catalog []model.Location, theme Theme, opts ...tea.ProgramOption) ([]Decision, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	p := tea.NewProgram(NewResolverModel(rows, catalog, theme), opts...)

	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("resolver failed: %w", err)
	}

	m, ok := final.(ResolverModel)
	if !ok {
		return nil, fmt.Errorf("unexpected resolver model %T", final)
	}
	return m.Decisions(), nil
}
