package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/waseemisle/hey-spruceapp-sub000/internal/cli"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/config"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/importer"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/workbook"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Match every row of a work-order spreadsheet to a location",
		Long: `Read a CSV, XLSX or XLS work-order file, match each row's venue name
against the location catalog and record the run.

Rows are matched by alias rules first, then by the automatic matcher. Rows
that stay unmatched can be settled afterwards with 'spruce resolve'.`,
		Example: `  spruce import orders.xlsx
  spruce import orders.csv --column "Store" --dry-run --format json
  spruce import orders.xlsx --export-sheets`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().String("sheet", "", "worksheet name (XLSX only, default first sheet)")
	cmd.Flags().String("column", "", "header of the venue name column (detected when empty)")
	cmd.Flags().Int("workers", 0, "parallel matchers (default from import.workers)")
	cmd.Flags().Bool("dry-run", false, "match without saving the run")
	cmd.Flags().String("format", "", "report format (table, json, yaml, csv)")
	cmd.Flags().StringP("output", "o", "", "write the report to a file instead of stdout")
	cmd.Flags().Bool("export-sheets", false, "also export the report to Google Sheets")
	cmd.Flags().Bool("no-progress", false, "hide the progress bar")

	_ = viper.BindPFlag("import.sheet", cmd.Flags().Lookup("sheet"))
	_ = viper.BindPFlag("import.column", cmd.Flags().Lookup("column"))
	_ = viper.BindPFlag("import.dry_run", cmd.Flags().Lookup("dry-run"))
	_ = viper.BindPFlag("import.format", cmd.Flags().Lookup("format"))

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path := args[0]

	cfg, err := config.LoadImportConfig()
	if err != nil {
		return err
	}
	if workers, _ := cmd.Flags().GetInt("workers"); workers > 0 {
		cfg.Workers = workers
	}
	exportSheets, _ := cmd.Flags().GetBool("export-sheets")
	noProgress, _ := cmd.Flags().GetBool("no-progress")
	outputPath, _ := cmd.Flags().GetString("output")

	sheet, err := workbook.Open(path, workbook.Options{Sheet: cfg.Sheet, Column: cfg.Column})
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	rows := sheet.Rows()
	slog.Info("Read import file", "file", path, "sheet", sheet.Name, "column", sheet.NameColumn(), "rows", len(rows))

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer closeStorage(store)

	bar := newProgressBar(len(rows), cmd.ErrOrStderr(), !noProgress)
	engine := importer.New(store,
		importer.WithWorkers(cfg.Workers),
		importer.WithLogger(slog.Default()),
		importer.WithProgress(func(done, _ int) {
			_ = bar.Set(done)
		}),
	)

	setHint("spruce import " + path)
	report, err := engine.Run(ctx, rows, importer.Source{File: path, Sheet: sheet.Name, DryRun: cfg.DryRun})
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	_ = bar.Finish()

	out := cmd.OutOrStdout()
	if outputPath != "" {
		f, err := os.Create(outputPath) //nolint:gosec // operator-chosen output path
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", outputPath, err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				slog.Warn("Failed to close report file", "file", outputPath, "error", cerr)
			}
		}()
		out = f
	}
	if err := writeReport(out, report, cfg.Format); err != nil {
		return err
	}

	if exportSheets {
		if err := exportReport(cmd, report); err != nil {
			return err
		}
	}

	if report.Summary.Unmatched > 0 && report.RunID > 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatInfo(fmt.Sprintf("%d rows need a decision: spruce resolve --run %d", report.Summary.Unmatched, report.RunID)))
	}
	return nil
}

func newProgressBar(total int, w io.Writer, visible bool) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetVisibility(visible),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[green][bold]Matching rows...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(w)
		}),
	)
}
