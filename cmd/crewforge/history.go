// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pdiddy/crewforge/internal/history"
	"github.com/pdiddy/crewforge/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previous curriculum and report runs",
	Long: `History lists runs recorded in the ledger (output/history.db by
default), newest first. Use --yaml or --json to export the entries.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	kind, _ := cmd.Flags().GetString("kind")
	switch types.RunKind(kind) {
	case "", types.KindCurriculum, types.KindReport:
	default:
		return fmt.Errorf("unsupported kind %q: use curriculum or report", kind)
	}
	topic, _ := cmd.Flags().GetString("topic")
	limit, _ := cmd.Flags().GetInt("limit")
	asYAML, _ := cmd.Flags().GetBool("yaml")
	asJSON, _ := cmd.Flags().GetBool("json")

	store, err := history.Open(historyPath())
	if err != nil {
		return err
	}
	defer store.Close()

	f := history.Filter{Kind: types.RunKind(kind), Topic: topic, Limit: limit}
	out := cmd.OutOrStdout()

	switch {
	case asYAML:
		return store.ExportYAML(cmd.Context(), out, f)
	case asJSON:
		return store.ExportJSON(cmd.Context(), out, f)
	}

	runs, err := store.List(cmd.Context(), f)
	if err != nil {
		return err
	}
	printRuns(out, runs)
	return nil
}

func printRuns(out io.Writer, runs []types.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return
	}

	fmt.Fprintf(out, "%-19s  %-10s  %-30s  %-20s  %s\n", "Created", "Kind", "Topic", "Audience", "Files")
	for _, r := range runs {
		kind := string(r.Kind)
		if r.Reused {
			kind += "*"
		}
		files := filepath.Base(r.JSONPath)
		if r.DocPath != "" {
			files += ", " + filepath.Base(r.DocPath)
		}
		fmt.Fprintf(out, "%-19s  %-10s  %-30s  %-20s  %s\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			kind, truncate(r.Topic, 30), truncate(r.Audience, 20), files)
	}
	fmt.Fprintf(out, "\n%d runs", len(runs))
	fmt.Fprintln(out, color.New(color.Faint).Sprint("  (* re-used an existing curriculum)"))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	historyCmd.Flags().String("kind", "", "filter by kind: curriculum or report")
	historyCmd.Flags().String("topic", "", "filter by topic substring")
	historyCmd.Flags().Int("limit", history.DefaultLimit, "maximum runs to show (-1 for all)")
	historyCmd.Flags().Bool("yaml", false, "export matching runs as YAML")
	historyCmd.Flags().Bool("json", false, "export matching runs as JSON")

	rootCmd.AddCommand(historyCmd)
}
