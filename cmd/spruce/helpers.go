package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/waseemisle/hey-spruceapp-sub000/internal/cli"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/common"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/config"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/model"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/service"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/sheets"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/storage"
)

// initStorage opens the configured database and brings its schema up to date.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := config.DatabasePath()

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

func closeStorage(store service.Storage) {
	if err := store.Close(); err != nil {
		slog.Warn("Failed to close database", "error", err)
	}
}

// newReportWriter builds the Google Sheets exporter. Tests swap it for a mock.
var newReportWriter = func(ctx context.Context) (service.ReportWriter, error) {
	cfg, err := config.LoadSheetsConfig()
	if err != nil {
		return nil, common.NewUserError("Google Sheets is not configured; run 'spruce auth sheets' or set sheets.service_account_path", err)
	}
	return sheets.NewWriter(ctx, *cfg, slog.Default())
}

// exportReport sends report to Google Sheets.
func exportReport(cmd *cobra.Command, report *model.ImportReport) error {
	ctx := cmd.Context()
	writer, err := newReportWriter(ctx)
	if err != nil {
		return err
	}
	if err := writer.Write(ctx, report); err != nil {
		return fmt.Errorf("failed to export to Google Sheets: %w", err)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatSuccess("Exported report to Google Sheets"))
	return nil
}

// writeStructured renders v as JSON or YAML.
func writeStructured(w io.Writer, format string, v any) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to flush YAML: %w", err)
		}
	default:
		return fmt.Errorf("%w: unsupported format %q", common.ErrInvalidConfig, format)
	}
	return nil
}
