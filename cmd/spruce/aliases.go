package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/waseemisle/hey-spruceapp-sub000/internal/cli"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/model"
)

func aliasesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "aliases",
		Aliases: []string{"alias"},
		Short:   "Manage remembered name to location rules",
		Long: `Aliases send an imported venue name straight to a location, ahead of
automatic matching. They are created by hand or by choosing "remember"
while resolving an import.`,
	}

	cmd.AddCommand(aliasesListCmd())
	cmd.AddCommand(aliasesAddCmd())
	cmd.AddCommand(aliasesDeleteCmd())

	return cmd
}

func aliasesListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List alias rules in evaluation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			format, _ := cmd.Flags().GetString("format")

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			aliases, err := store.GetAliases(ctx)
			if err != nil {
				return fmt.Errorf("failed to list aliases: %w", err)
			}

			out := cmd.OutOrStdout()
			if format != "table" {
				return writeStructured(out, format, aliases)
			}
			if len(aliases) == 0 {
				fmt.Fprintln(out, cli.FormatInfo("No aliases yet."))
				return nil
			}

			rows := make([][]string, 0, len(aliases))
			for _, a := range aliases {
				kind := "name"
				if a.IsRegex {
					kind = "regex"
				}
				rows = append(rows, []string{
					strconv.FormatInt(a.ID, 10),
					a.Pattern,
					kind,
					a.LocationID,
					strconv.Itoa(a.Priority),
					strconv.Itoa(a.UseCount),
					string(a.Source),
				})
			}
			fmt.Fprint(out, cli.RenderTable([]string{"ID", "PATTERN", "KIND", "LOCATION", "PRIORITY", "USES", "SOURCE"}, rows))
			return nil
		},
	}

	cmd.Flags().String("format", "table", "output format (table, json, yaml)")
	return cmd
}

func aliasesAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <pattern> <location-id>",
		Short: "Map a venue name (or regex) to a location",
		Example: `  spruce aliases add "DLH Sunset" delilah-weho
  spruce aliases add --regex '(?i)^roxy\b' the-roxy --priority 10`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			isRegex, _ := cmd.Flags().GetBool("regex")
			priority, _ := cmd.Flags().GetInt("priority")

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			alias := model.Alias{
				Pattern:    args[0],
				LocationID: args[1],
				IsRegex:    isRegex,
				Priority:   priority,
				Source:     model.AliasSourceManual,
			}
			if err := store.SaveAlias(ctx, &alias); err != nil {
				return fmt.Errorf("failed to save alias: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Alias #%d: %q -> %s", alias.ID, alias.Pattern, alias.LocationID)))
			return nil
		},
	}

	cmd.Flags().Bool("regex", false, "treat the pattern as a regular expression")
	cmd.Flags().Int("priority", 0, "higher priorities are tried first")
	return cmd
}

func aliasesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an alias rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid alias id %q: %w", args[0], err)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			if err := store.DeleteAlias(ctx, id); err != nil {
				return fmt.Errorf("failed to delete alias %d: %w", id, err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted alias #%d", id)))
			return nil
		},
	}
}
