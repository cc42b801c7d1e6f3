package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/waseemisle/hey-spruceapp-sub000/internal/importer"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/locmatch"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/model"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/tui"
)

const (
	defaultSuggestions = 5
	maxListed          = 10
)

// Prompter resolves unmatched rows with a numbered line prompt. It is the
// fallback for terminals where the full-screen resolver is unavailable.
//
// Input per row:
//
//	3     pick option 3
//	3!    pick option 3 and remember the name as an alias
//	s     skip the row
//	q     stop; decisions made so far are kept
//	text  filter the catalog by text (an empty line clears the filter)
type Prompter struct {
	reader      *NonBlockingReader
	writer      io.Writer
	suggestions int
}

// NewPrompter creates a prompter reading answers from reader.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Prompter{
		reader:      NewNonBlockingReader(reader),
		writer:      writer,
		suggestions: defaultSuggestions,
	}
}

// Resolve asks about each row in turn. It stops early on "q" or end of
// input and returns the decisions gathered up to that point alongside any
// error.
func (p *Prompter) Resolve(ctx context.Context, rows []model.RowResult, catalog []model.Location) ([]tui.Decision, error) {
	decisions := make([]tui.Decision, 0, len(rows))
	for i, row := range rows {
		d, quit, err := p.resolveRow(ctx, row, catalog, i+1, len(rows))
		if err != nil {
			if errors.Is(err, io.EOF) {
				return decisions, nil
			}
			return decisions, err
		}
		if quit {
			return decisions, nil
		}
		decisions = append(decisions, d)
	}
	return decisions, nil
}

func (p *Prompter) resolveRow(ctx context.Context, row model.RowResult, catalog []model.Location, pos, total int) (tui.Decision, bool, error) {
	all := importer.Suggest(catalog, row.Row.LocationName, p.suggestions)
	query := ""

	for {
		options := importer.FilterSuggestions(all, query)
		if len(options) > maxListed {
			options = options[:maxListed]
		}
		if err := p.showRow(row, options, query, pos, total); err != nil {
			return tui.Decision{}, false, err
		}

		answer, err := p.reader.ReadLine(ctx)
		if err != nil {
			return tui.Decision{}, false, err
		}

		switch strings.ToLower(answer) {
		case "q":
			return tui.Decision{}, true, nil
		case "s":
			return tui.Decision{Result: row, Skipped: true}, false, nil
		}

		choice, remember, ok := parseChoice(answer)
		if !ok {
			query = answer
			continue
		}
		if choice < 1 || choice > len(options) {
			p.println(FormatError(fmt.Sprintf("Choose a number between 1 and %d", len(options))))
			continue
		}
		return tui.Decision{
			Result:     row,
			LocationID: options[choice-1].LocationID,
			Remember:   remember,
		}, false, nil
	}
}

func (p *Prompter) showRow(row model.RowResult, options locmatch.CandidateList, query string, pos, total int) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Imported name: %s\n", row.Row.LocationName)
	if query != "" {
		fmt.Fprintf(&b, "Filter: %s\n", query)
	}
	b.WriteString("\n")
	if len(options) == 0 {
		b.WriteString(WarningStyle.Render("No locations match the filter"))
		b.WriteString("\n")
	}
	for i, c := range options {
		fmt.Fprintf(&b, "  [%d] %s %s", i+1, c.Name, SubtleStyle.Render("("+c.LocationID+")"))
		if c.Score > 0 {
			fmt.Fprintf(&b, " %s", FormatScore(c.Score, locmatch.AcceptThreshold))
		}
		b.WriteString("\n")
	}

	title := fmt.Sprintf("Row %d (%d of %d)", row.Row.Number, pos, total)
	if _, err := fmt.Fprintln(p.writer, RenderBox(title, strings.TrimRight(b.String(), "\n"))); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	if _, err := fmt.Fprint(p.writer, FormatPrompt("Choice [number, number!, s, q, or text to filter]")); err != nil {
		return fmt.Errorf("failed to write prompt: %w", err)
	}
	return nil
}

func (p *Prompter) println(msg string) {
	_, _ = fmt.Fprintln(p.writer, msg)
}

// parseChoice reads "3" or "3!". ok is false when answer is not a number.
func parseChoice(answer string) (choice int, remember bool, ok bool) {
	answer = strings.TrimSpace(answer)
	if strings.HasSuffix(answer, "!") {
		remember = true
		answer = strings.TrimSuffix(answer, "!")
	}
	n, err := strconv.Atoi(answer)
	if err != nil {
		return 0, false, false
	}
	return n, remember, true
}
