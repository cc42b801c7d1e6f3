package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/waseemisle/hey-spruceapp-sub000/internal/cli"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/model"
)

func runsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect past imports",
	}

	cmd.AddCommand(runsListCmd())
	cmd.AddCommand(runsShowCmd())

	return cmd
}

func runsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent import runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			limit, _ := cmd.Flags().GetInt("limit")

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			runs, err := store.GetImportRuns(ctx, limit)
			if err != nil {
				return fmt.Errorf("failed to list runs: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No imports yet."))
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, r := range runs {
				rows = append(rows, []string{
					strconv.FormatInt(r.ID, 10),
					r.StartedAt.Local().Format("2006-01-02 15:04"),
					r.SourceFile,
					r.Sheet,
					strconv.Itoa(r.Total),
					strconv.Itoa(r.Matched),
					strconv.Itoa(r.Unmatched),
				})
			}
			fmt.Fprint(out, cli.RenderTable([]string{"ID", "STARTED", "FILE", "SHEET", "ROWS", "MATCHED", "OPEN"}, rows))
			return nil
		},
	}

	cmd.Flags().Int("limit", 20, "maximum runs to show (0 for all)")
	return cmd
}

func runsShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show the rows of an import run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			format, _ := cmd.Flags().GetString("format")
			exportSheets, _ := cmd.Flags().GetBool("export-sheets")

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid run id %q: %w", args[0], err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			run, err := store.GetImportRun(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to load run %d: %w", id, err)
			}
			results, err := store.GetImportResults(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to load results of run %d: %w", id, err)
			}

			report := &model.ImportReport{
				RunID:      run.ID,
				SourceFile: run.SourceFile,
				Sheet:      run.Sheet,
				StartedAt:  run.StartedAt,
				Results:    results,
				Summary:    model.Summarize(results),
			}

			if err := writeReport(cmd.OutOrStdout(), report, format); err != nil {
				return err
			}

			if exportSheets {
				if err := exportReport(cmd, report); err != nil {
					return err
				}
			}

			if open := len(report.Unmatched()); open > 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatInfo(fmt.Sprintf("%d rows need a decision: spruce resolve --run %d", open, id)))
			}
			return nil
		},
	}

	cmd.Flags().String("format", "table", "report format (table, json, yaml, csv)")
	cmd.Flags().Bool("export-sheets", false, "export the run to Google Sheets")
	return cmd
}
