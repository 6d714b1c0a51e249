// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pdiddy/crewforge/internal/report"
	"github.com/pdiddy/crewforge/pkg/types"
)

var reportCmd = &cobra.Command{
	Use:   "report [topic words...]",
	Short: "Research a topic and write a report with a three-agent crew",
	Long: `Report runs three agents in order: a researcher summarizes the topic, an
analyst distills six to eight key findings, and a writer drafts a short
conclusion from both.

The report is saved as report_{timestamp}.json and .md in the output
directory. All arguments are joined into the topic; with no arguments the
topic is "` + report.DefaultTopic + `".`,
	Example: `  crewforge report
  crewforge report quantum error correction`,
	RunE: runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	topic := strings.Join(args, " ")
	if strings.TrimSpace(topic) == "" {
		topic = report.DefaultTopic
	}
	out := cmd.OutOrStdout()
	cfg := reportConfig()
	if err := checkOutputDir(cfg.OutputDir); err != nil {
		return err
	}

	opts, err := crewOptions(cfg.LLMConfig, cfg.APIKeyEnv, taskPreview(out))
	if err != nil {
		return err
	}

	rule := strings.Repeat("=", 80)
	fmt.Fprintln(out, rule)
	fmt.Fprintln(out, color.New(color.Bold).Sprint("MULTI-AGENT RESEARCH CREW"))
	fmt.Fprintln(out, rule)
	fmt.Fprintln(out, "Three Agents: Research -> Analysis -> Report Writing")
	fmt.Fprintf(out, "Research Topic: %s\n", topic)
	fmt.Fprintln(out, rule)

	g := &report.Generator{Crew: opts, SpecDir: cfg.SpecDir}
	r, res, err := g.Run(cmd.Context(), topic)
	if err != nil {
		return err
	}

	jsonPath, mdPath, err := report.Save(r, cfg.OutputDir, time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "[SAVED] JSON: %s\n", jsonPath)
	fmt.Fprintf(out, "[SAVED] Markdown: %s\n", mdPath)

	recordRun(cmd, types.Run{
		ID:        res.RunID.String(),
		Kind:      types.KindReport,
		Topic:     topic,
		CreatedAt: time.Now(),
		JSONPath:  jsonPath,
		DocPath:   mdPath,
	})

	printSummary(out, r)

	if noPreview, _ := cmd.Flags().GetBool("no-preview"); !noPreview {
		previewMarkdown(out, report.RenderMarkdown(r))
	}
	return nil
}

func printSummary(out io.Writer, r *types.Report) {
	rule := strings.Repeat("=", 80)
	fmt.Fprintln(out, "\n"+rule)
	fmt.Fprintln(out, color.GreenString("RESEARCH COMPLETED SUCCESSFULLY!"))
	fmt.Fprintln(out, rule)

	if len(r.KeyFindings) > 0 {
		fmt.Fprintln(out, color.New(color.Bold).Sprint("\nKEY FINDINGS:"))
		for i, f := range r.KeyFindings {
			fmt.Fprintf(out, "  %d. %s\n", i+1, f)
		}
	}
	if r.Conclusion != "" {
		fmt.Fprintln(out, color.New(color.Bold).Sprint("\nCONCLUSION:"))
		fmt.Fprintf(out, "  %s\n", r.Conclusion)
	}
	if len(r.References) > 0 {
		fmt.Fprintln(out, color.New(color.Bold).Sprintf("\nREFERENCES (%d sources):", len(r.References)))
		for i, ref := range r.References {
			fmt.Fprintf(out, "  %d. %s\n", i+1, ref)
		}
	}
	fmt.Fprintln(out, "\n"+rule)
}

// previewMarkdown renders md for the terminal. Rendering failures only skip
// the preview.
func previewMarkdown(out io.Writer, md string) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		slog.Debug("markdown preview unavailable", slog.Any("error", err))
		return
	}
	rendered, err := r.Render(md)
	if err != nil {
		slog.Debug("markdown preview unavailable", slog.Any("error", err))
		return
	}
	fmt.Fprint(out, rendered)
}

func init() {
	reportCmd.Flags().Bool("no-preview", false, "skip the rendered Markdown preview")

	rootCmd.AddCommand(reportCmd)
}
