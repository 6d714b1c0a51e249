// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pdiddy/crewforge/internal/crew"
	"github.com/pdiddy/crewforge/internal/curriculum"
	"github.com/pdiddy/crewforge/internal/export"
	"github.com/pdiddy/crewforge/internal/prompt"
	"github.com/pdiddy/crewforge/pkg/types"
)

var curriculumCmd = &cobra.Command{
	Use:   "curriculum <topic> <audience>",
	Short: "Design a course curriculum with a four-agent crew",
	Long: `Curriculum runs four agents in order: a lead designer writes a
week-by-week outline, a content creator and an assessment specialist expand
it, and a resource curator looks up books, videos, and websites.

The result is saved as {topic}_{audience}_{timestamp}.json and .docx in the
output directory. When a curriculum for the same topic and audience exists
you can re-use it, update it, or create a new one.`,
	Example: `  crewforge curriculum "Digital Logic" "first-year undergraduates"
  crewforge curriculum "Machine Learning" beginners --duration "12 weeks" --reuse u`,
	Args: cobra.ExactArgs(2),
	RunE: runCurriculum,
}

func runCurriculum(cmd *cobra.Command, args []string) error {
	topic, audience := args[0], args[1]
	out := cmd.OutOrStdout()
	cfg := curriculumConfig(cmd)
	if err := checkOutputDir(cfg.OutputDir); err != nil {
		return err
	}

	chooser, err := chooserFromFlags(cmd, out)
	if err != nil {
		return err
	}

	opts, err := crewOptions(cfg.LLMConfig, cfg.APIKeyEnv, taskPreview(out))
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, color.New(color.Bold).Sprint("Welcome to the Multi-Agent Curriculum Designer"))
	fmt.Fprintln(out, strings.Repeat("-", 60))

	d := &curriculum.Designer{
		Crew:      opts,
		Chooser:   chooser,
		Out:       out,
		OutputDir: cfg.OutputDir,
		Duration:  cfg.Duration,
		SpecDir:   cfg.SpecDir,
	}

	c, outcome, err := d.Run(cmd.Context(), topic, audience)
	if err != nil {
		var inc *curriculum.IncompleteError
		if errors.As(err, &inc) {
			fmt.Fprintln(out, color.RedString("\nModule creation failed or returned raw output."))
			raw, _ := export.Marshal(map[string]string{"raw_output": inc.Raw}, 2)
			fmt.Fprintln(out, string(raw))
		}
		return err
	}

	if outcome.Reused() {
		fmt.Fprintf(out, "\nRe-using %s\n", outcome.Source)
	} else {
		fmt.Fprintln(out, color.GreenString("\nCurriculum module created successfully!"))
	}

	noDocx, _ := cmd.Flags().GetBool("no-docx")
	paths, err := curriculum.Save(c, cfg.OutputDir, time.Now(), noDocx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Saved JSON to: %s\n", paths.JSON)
	if paths.DOCX != "" {
		fmt.Fprintf(out, "Saved DOCX to: %s\n", paths.DOCX)
	}

	runID := outcome.RunID
	if runID == uuid.Nil {
		runID = uuid.New()
	}
	recordRun(cmd, types.Run{
		ID:        runID.String(),
		Kind:      types.KindCurriculum,
		Topic:     topic,
		Audience:  audience,
		CreatedAt: time.Now(),
		JSONPath:  paths.JSON,
		DocPath:   paths.DOCX,
		Reused:    outcome.Reused(),
	})

	fmt.Fprintln(out, color.GreenString("\nProcess completed!"))
	return nil
}

// chooserFromFlags picks how to resolve an existing curriculum: a fixed
// answer from --reuse, an interactive menu on a terminal, or a line read
// from stdin otherwise.
func chooserFromFlags(cmd *cobra.Command, out io.Writer) (prompt.Chooser, error) {
	reuse, _ := cmd.Flags().GetString("reuse")
	switch strings.ToLower(reuse) {
	case "":
	case "r", "reuse", "u", "update", "c", "create", "new":
		return prompt.Fixed(prompt.ParseChoice(reuse)), nil
	default:
		return nil, fmt.Errorf("invalid --reuse value %q: use r, u, or c", reuse)
	}

	if isTerminal(os.Stdin) {
		return prompt.TeaChooser{In: cmd.InOrStdin(), Out: out}, nil
	}
	return prompt.LineChooser{In: cmd.InOrStdin(), Out: out}, nil
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// taskPreview prints the start of each finished task's output.
func taskPreview(out io.Writer) func(crew.TaskOutput) {
	return func(t crew.TaskOutput) {
		fmt.Fprintf(out, "%s Preview: %s\n",
			color.CyanString("[TASK COMPLETED]"),
			crew.Preview(strings.TrimSpace(t.Raw), crew.PreviewLength))
	}
}

func init() {
	curriculumCmd.Flags().String("duration", "", `course length handed to the outline task (default from config, "8 weeks")`)
	curriculumCmd.Flags().String("reuse", "", "answer for an existing curriculum without prompting: r (re-use), u (update), c (create new)")
	curriculumCmd.Flags().Bool("no-docx", false, "skip writing the Word document")

	rootCmd.AddCommand(curriculumCmd)
}
