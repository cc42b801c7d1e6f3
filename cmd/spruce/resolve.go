package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/waseemisle/hey-spruceapp-sub000/internal/cli"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/common"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/importer"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/service"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/tui"
)

// resolveOutcome counts what happened to the decisions of one session.
type resolveOutcome struct {
	Resolved   int
	Remembered int
	Skipped    int
	Failed     int
}

func resolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Pick locations for the unmatched rows of an import",
		Long: `Walk through the rows of an import that were not matched automatically
and choose the right location for each one.

The full-screen picker is used on a terminal. --plain (or a non-terminal
stdin) switches to a numbered prompt. Choosing "remember" saves the venue
name as an alias so later imports match it on their own.`,
		Args: cobra.NoArgs,
		RunE: runResolve,
	}

	cmd.Flags().Int64("run", 0, "import run to resolve (default latest)")
	cmd.Flags().Bool("plain", false, "use the numbered line prompt")
	cmd.Flags().String("theme", "default", "picker theme (default, plain)")

	return cmd
}

func runResolve(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	runID, _ := cmd.Flags().GetInt64("run")
	plain, _ := cmd.Flags().GetBool("plain")
	theme, _ := cmd.Flags().GetString("theme")

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer closeStorage(store)

	if runID == 0 {
		runID, err = latestRunID(ctx, store)
		if err != nil {
			return err
		}
	}

	rows, err := store.GetUnmatchedResults(ctx, runID)
	if err != nil {
		return fmt.Errorf("failed to load run %d: %w", runID, err)
	}
	out := cmd.OutOrStdout()
	if len(rows) == 0 {
		fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Run #%d has nothing left to resolve", runID)))
		return nil
	}

	catalog, err := store.GetLocations(ctx)
	if err != nil {
		return fmt.Errorf("failed to load locations: %w", err)
	}

	setHint(fmt.Sprintf("spruce resolve --run %d", runID))

	var decisions []tui.Decision
	if plain || !stdinIsTerminal(cmd) {
		decisions, err = cli.NewPrompter(cmd.InOrStdin(), out).Resolve(ctx, rows, catalog)
	} else {
		decisions, err = tui.Run(ctx, rows, catalog, tui.GetTheme(theme))
	}

	// Decisions made before an interrupt are still applied.
	outcome := applyDecisions(ctx, importer.New(store), runID, decisions)
	fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Resolved %d, remembered %d, skipped %d, %d still open",
		outcome.Resolved, outcome.Remembered, outcome.Skipped, len(rows)-outcome.Resolved-outcome.Skipped)))

	if err != nil && !errors.Is(err, cli.ErrInputCancelled) {
		return err
	}
	if outcome.Failed > 0 {
		return fmt.Errorf("%d decisions could not be saved", outcome.Failed)
	}
	return nil
}

func latestRunID(ctx context.Context, store service.Storage) (int64, error) {
	runs, err := store.GetImportRuns(ctx, 1)
	if err != nil {
		return 0, fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		return 0, common.NewUserError("no imports yet; run 'spruce import <file>' first", common.ErrNotFound)
	}
	return runs[0].ID, nil
}

func applyDecisions(ctx context.Context, engine *importer.Engine, runID int64, decisions []tui.Decision) resolveOutcome {
	ctx = context.WithoutCancel(ctx)

	var outcome resolveOutcome
	for _, d := range decisions {
		row := d.Result.Row.Number
		var err error
		if d.Skipped {
			err = engine.Skip(ctx, runID, row)
		} else {
			err = engine.Resolve(ctx, runID, row, d.LocationID, d.Remember)
		}
		if err != nil {
			outcome.Failed++
			common.LogError(ctx, err, "Failed to save decision", common.Fields{"run": runID, "row": row})
			continue
		}

		switch {
		case d.Skipped:
			outcome.Skipped++
		case d.Remember:
			outcome.Resolved++
			outcome.Remembered++
		default:
			outcome.Resolved++
		}
		slog.Debug("Saved decision", "run", runID, "row", row, "location", d.LocationID, "skipped", d.Skipped)
	}
	return outcome
}

func stdinIsTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.InOrStdin().(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
