package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/waseemisle/hey-spruceapp-sub000/internal/cli"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/model"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/workbook"
)

// idHeaderKeywords find the id column of a catalog file.
var idHeaderKeywords = []string{"id", "code", "key"}

func locationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "locations",
		Aliases: []string{"location", "loc"},
		Short:   "Manage the canonical location catalog",
		Long: `Manage the canonical location catalog that imported venue names are
matched against.`,
	}

	cmd.AddCommand(locationsAddCmd())
	cmd.AddCommand(locationsListCmd())
	cmd.AddCommand(locationsImportCmd())
	cmd.AddCommand(locationsDeleteCmd())

	return cmd
}

func locationsAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <id> <name>",
		Short: "Add or rename a location",
		Example: `  spruce locations add delilah-weho "Delilah (West Hollywood)"
  spruce locations add nice-guy The Nice Guy`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			loc := model.Location{
				ID:   strings.TrimSpace(args[0]),
				Name: strings.TrimSpace(strings.Join(args[1:], " ")),
			}
			if err := loc.Validate(); err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			if err := store.SaveLocation(ctx, &loc); err != nil {
				return fmt.Errorf("failed to save location: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Saved %s: %s", loc.ID, loc.Name)))
			return nil
		},
	}
}

func locationsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			format, _ := cmd.Flags().GetString("format")

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			locs, err := store.GetLocations(ctx)
			if err != nil {
				return fmt.Errorf("failed to list locations: %w", err)
			}

			out := cmd.OutOrStdout()
			if format != "table" {
				return writeStructured(out, format, locs)
			}
			if len(locs) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No locations yet. Add one with 'spruce locations add' or 'spruce locations import'."))
				return nil
			}

			rows := make([][]string, 0, len(locs))
			for _, loc := range locs {
				rows = append(rows, []string{loc.ID, loc.Name})
			}
			fmt.Fprint(out, cli.RenderTable([]string{"ID", "NAME"}, rows))
			fmt.Fprintln(out, cli.SubtleStyle.Render(fmt.Sprintf("%d locations", len(locs))))
			return nil
		},
	}

	cmd.Flags().String("format", "table", "output format (table, json, yaml)")
	return cmd
}

func locationsImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Load locations from a CSV, XLSX or XLS file",
		Long: `Load locations from a spreadsheet with one location per row.

The id column is found by a header containing "id", "code" or "key" and the
name column by a header containing "name", unless --id-column or
--name-column say otherwise. Existing ids are renamed in place.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			idColumn, _ := cmd.Flags().GetString("id-column")
			nameColumn, _ := cmd.Flags().GetString("name-column")
			sheetName, _ := cmd.Flags().GetString("sheet")

			sheet, err := workbook.Open(args[0], workbook.Options{
				Sheet:        sheetName,
				Column:       nameColumn,
				NameKeywords: []string{"name"},
			})
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			idCol, err := workbook.DetectColumn(sheet.Header, idColumn, idHeaderKeywords)
			if err != nil {
				return fmt.Errorf("no location id column: %w", err)
			}
			idHeader := sheet.Header[idCol]

			locs, skipped := catalogFromRows(sheet.Rows(), idHeader)
			for _, row := range skipped {
				slog.Warn("Skipping row without id or name", "row", row)
			}
			if len(locs) == 0 {
				return fmt.Errorf("no locations found in %s", args[0])
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			if err := store.SaveLocations(ctx, locs); err != nil {
				return fmt.Errorf("failed to save locations: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Imported %d locations from %s", len(locs), args[0])))
			if len(skipped) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning(fmt.Sprintf("Skipped %d rows without an id or name", len(skipped))))
			}
			return nil
		},
	}

	cmd.Flags().String("id-column", "", "header of the location id column")
	cmd.Flags().String("name-column", "", "header of the location name column")
	cmd.Flags().String("sheet", "", "worksheet name (XLSX only)")
	return cmd
}

// catalogFromRows turns sheet rows into locations, returning the row numbers
// that had no id or name. A repeated id keeps its last name.
func catalogFromRows(rows []model.ImportRow, idHeader string) ([]model.Location, []int) {
	var (
		locs    []model.Location
		skipped []int
		seen    = make(map[string]int)
	)
	for _, row := range rows {
		loc := model.Location{
			ID:   strings.TrimSpace(row.Fields[idHeader]),
			Name: row.LocationName,
		}
		if loc.Validate() != nil {
			skipped = append(skipped, row.Number)
			continue
		}
		if i, ok := seen[loc.ID]; ok {
			locs[i] = loc
			continue
		}
		seen[loc.ID] = len(locs)
		locs = append(locs, loc)
	}
	return locs, skipped
}

func locationsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a location and its aliases",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			if err := store.DeleteLocation(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete location %s: %w", args[0], err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Deleted "+args[0]))
			return nil
		},
	}
}
