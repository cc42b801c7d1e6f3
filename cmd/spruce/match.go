package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/waseemisle/hey-spruceapp-sub000/internal/cli"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/common"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/importer"
	"github.com/waseemisle/hey-spruceapp-sub000/internal/locmatch"
)

func matchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match <name>",
		Short: "Match one venue name against the catalog",
		Long: `Run the automatic matcher for a single venue name and print the chosen
location id. Aliases are not consulted; this shows what the matcher alone
decides. Use --explain to see every scored candidate and the candidates that
were ruled out.`,
		Example: `  spruce match "Delilah Miami"
  spruce match --explain "Roxy Bar (Hollywood)"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			explain, _ := cmd.Flags().GetBool("explain")
			name := strings.Join(args, " ")

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStorage(store)

			catalog, err := store.GetLocations(ctx)
			if err != nil {
				return fmt.Errorf("failed to load locations: %w", err)
			}
			if len(catalog) == 0 {
				return common.NewUserError("the location catalog is empty; add locations first", importer.ErrEmptyCatalog)
			}

			exp := locmatch.Explain(name, catalog)
			out := cmd.OutOrStdout()
			if !explain {
				if exp.Matched {
					fmt.Fprintln(out, exp.LocationID)
				} else {
					fmt.Fprintln(out, cli.FormatWarning("no confident match"))
				}
				return nil
			}

			renderExplanation(out, exp)
			return nil
		},
	}

	cmd.Flags().Bool("explain", false, "show candidates, scores and exclusions")
	return cmd
}

func renderExplanation(out io.Writer, exp locmatch.Explanation) {
	fmt.Fprintln(out, cli.FormatTitle("Match: "+exp.SearchName))
	fmt.Fprintf(out, "Normalized: %s\n", locmatch.Normalize(exp.SearchName))
	fmt.Fprintf(out, "Keywords:   %s\n", strings.Join(locmatch.ExtractKeyWords(exp.SearchName), ", "))

	if exp.Matched {
		fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("%s (%s) via %s, score %.2f", exp.LocationID, exp.LocationName, exp.Rule, exp.Score)))
	} else {
		fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("no confident match (threshold %.2f)", locmatch.AcceptThreshold)))
	}

	if len(exp.Candidates) > 0 {
		fmt.Fprintln(out)
		rows := make([][]string, 0, len(exp.Candidates))
		for i, c := range exp.Candidates.Rank() {
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				c.LocationID,
				c.Name,
				string(c.Rule),
				cli.FormatScore(c.Score, locmatch.AcceptThreshold),
			})
		}
		fmt.Fprint(out, cli.RenderTable([]string{"#", "LOCATION", "NAME", "RULE", "SCORE"}, rows))
	}

	if len(exp.Exclusions) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, cli.SubtleStyle.Render("Excluded:"))
		rows := make([][]string, 0, len(exp.Exclusions))
		for _, ex := range exp.Exclusions {
			rows = append(rows, []string{ex.LocationID, ex.Name, string(ex.Reason)})
		}
		fmt.Fprint(out, cli.RenderTable([]string{"LOCATION", "NAME", "REASON"}, rows))
	}
}
