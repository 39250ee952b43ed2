package main

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/seoscan/seoscan/internal/config"
	"github.com/seoscan/seoscan/internal/database"
	"github.com/seoscan/seoscan/internal/model"
	"github.com/seoscan/seoscan/internal/target"
)

// defaultHistoryLimit caps the number of analyses listed per invocation.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
// This command lists analyses stored in the database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [domain]",
		Short: "List stored analyses",
		Long: `History lists analyses saved in the local database.

Without arguments it shows the most recent analyses across all domains.
With a domain argument it shows only that domain's history, newest first.

Examples:
  # Show recent analyses
  seoscan history

  # Show history for one domain
  seoscan history example.com

  # Show the last 5 analyses as JSON
  seoscan history -n 5 --json example.com`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", defaultHistoryLimit,
		"Maximum number of analyses to list")
	cmd.Flags().BoolP("json", "j", false,
		"Output history as JSON")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	// Normalize the domain filter the same way the analyzer does, so
	// "https://www.example.com" matches records stored as "example.com".
	domain := ""
	if len(args) == 1 {
		tgt, err := target.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid domain %q: %w", args[0], err)
		}
		domain = tgt.Domain
	}

	db, err := database.Open(config.NewConfig().DBDir, database.Options{EnableWAL: true})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	records, err := db.ListAnalyses(context.Background(), domain, limit)
	if err != nil {
		return fmt.Errorf("failed to list analyses: %w", err)
	}

	if jsonOutput {
		return printHistoryJSON(cmd, records)
	}

	return printHistoryTable(cmd, records)
}

// printHistoryJSON writes the records as an indented JSON array.
func printHistoryJSON(cmd *cobra.Command, records []*model.AnalysisRecord) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// printHistoryTable writes the records as an aligned text table.
func printHistoryTable(cmd *cobra.Command, records []*model.AnalysisRecord) error {
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No analyses found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GENERATED\tDOMAIN\tTECH\tPERF\tAUTH\tTOTAL\tID")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			rec.GeneratedAt.Format("2006-01-02 15:04"),
			rec.Domain,
			rec.Scores.Technical,
			rec.Scores.Performance,
			rec.Scores.Authority,
			rec.Scores.Total,
			rec.ID,
		)
	}
	return w.Flush()
}
