// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report runs the three-agent research crew (research, analysis,
// report writing) and turns its output into a structured report saved as
// JSON and Markdown.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/crewforge/internal/crew"
	"github.com/pdiddy/crewforge/internal/export"
	"github.com/pdiddy/crewforge/internal/naming"
	"github.com/pdiddy/crewforge/pkg/types"
)

// DefaultTopic is used when no topic is given.
const DefaultTopic = "Artificial Intelligence in Healthcare"

// Task names of the report crew.
const (
	taskResearch = "research"
	taskAnalysis = "analysis"
	taskReport   = "report"
)

// Generator produces research reports.
type Generator struct {
	Crew crew.Options

	// SpecDir optionally overrides the embedded report crew.
	SpecDir string
}

// Run kicks off the report crew for topic and assembles the report.
func (g *Generator) Run(ctx context.Context, topic string) (*types.Report, crew.Result, error) {
	if strings.TrimSpace(topic) == "" {
		topic = DefaultTopic
	}

	spec, err := crew.LoadSpec(crew.Report, g.SpecDir)
	if err != nil {
		return nil, crew.Result{}, err
	}

	// Blank analysis or report output falls back to the fixed findings and
	// conclusion in Build.
	opts := g.Crew
	opts.AllowEmpty = true

	res, err := crew.Kickoff(ctx, opts, spec, map[string]string{"topic": topic})
	if err != nil {
		return nil, res, fmt.Errorf("crew execution failed: %w", err)
	}

	analysis, _ := res.Output(taskAnalysis)
	conclusion, _ := res.Output(taskReport)

	return Build(topic, analysis, conclusion), res, nil
}

// Build assembles a report from the analysis and report task outputs.
func Build(topic, analysis, conclusion string) *types.Report {
	return &types.Report{
		Topic:       topic,
		KeyFindings: ExtractFindings(topic, analysis),
		Conclusion:  Conclusion(topic, conclusion),
		References:  References(topic),
	}
}

// RenderMarkdown formats r as a Markdown document.
func RenderMarkdown(r *types.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Research Report: %s\n\n", r.Topic)
	b.WriteString("## Key Findings\n")
	b.WriteString(bullets(r.KeyFindings))
	b.WriteString("\n\n## Conclusion\n")
	b.WriteString(r.Conclusion)
	b.WriteString("\n\n## References\n")
	b.WriteString(bullets(r.References))
	b.WriteString("\n\n")
	return b.String()
}

func bullets(items []string) string {
	lines := make([]string, len(items))
	for i, s := range items {
		lines[i] = "- " + s
	}
	return strings.Join(lines, "\n")
}

// Save writes report_<ts>.json and report_<ts>.md into dir using a single
// timestamp taken from now.
func Save(r *types.Report, dir string, now time.Time) (jsonPath, mdPath string, err error) {
	ts := naming.Timestamp(now)
	jsonPath = naming.ReportFile(dir, ts, "json")
	mdPath = naming.ReportFile(dir, ts, "md")

	if err := export.WriteJSON(jsonPath, r, export.ReportIndent); err != nil {
		return "", "", err
	}
	if err := export.WriteText(mdPath, RenderMarkdown(r)); err != nil {
		return "", "", err
	}
	return jsonPath, mdPath, nil
}
